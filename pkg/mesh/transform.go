package mesh

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Pivot names the reference point of a scale or rotation.
type Pivot struct {
	kind  pivotKind
	point v3.Vec
}

type pivotKind int

const (
	pivotOrigin pivotKind = iota
	pivotCenter
	pivotPoint
)

// PivotOrigin pivots around the world origin.
func PivotOrigin() Pivot { return Pivot{kind: pivotOrigin} }

// PivotCenter pivots around the center of gravity of the transformed
// selection.
func PivotCenter() Pivot { return Pivot{kind: pivotCenter} }

// PivotPoint pivots around an explicit point.
func PivotPoint(p v3.Vec) Pivot { return Pivot{kind: pivotPoint, point: p} }

func (m *Mesh) pivotPoint(p Pivot, verts []VertexID) (v3.Vec, error) {
	switch p.kind {
	case pivotCenter:
		return m.centerOf(verts)
	case pivotPoint:
		return p.point, nil
	default:
		return v3.Vec{}, nil
	}
}

func (m *Mesh) centerOf(verts []VertexID) (v3.Vec, error) {
	if len(verts) == 0 {
		return v3.Vec{}, errTopology("cannot average an empty vertex set")
	}
	var sum v3.Vec
	for _, v := range verts {
		p, err := m.Position(v)
		if err != nil {
			return v3.Vec{}, err
		}
		sum = sum.Add(p)
	}
	return sum.DivScalar(float64(len(verts))), nil
}

// CenterOfGravity returns the average position of the vertices covered
// by the selection.
func (m *Mesh) CenterOfGravity(sel Selection) (v3.Vec, error) {
	verts, err := sel.ResolveVertices(m)
	if err != nil {
		return v3.Vec{}, err
	}
	return m.centerOf(verts)
}

// FaceCentroid returns the average position of f's loop vertices.
func (m *Mesh) FaceCentroid(f FaceID) (v3.Vec, error) {
	verts := m.VerticesAroundFace(f)
	if len(verts) == 0 {
		return v3.Vec{}, errFaceNotFound(f)
	}
	return m.centerOf(verts)
}

// Translate moves every vertex covered by the selection by delta.
func (m *Mesh) Translate(sel Selection, delta v3.Vec) error {
	verts, err := sel.ResolveVertices(m)
	if err != nil {
		return err
	}
	for _, v := range verts {
		p, err := m.Position(v)
		if err != nil {
			return err
		}
		m.positions[v] = p.Add(delta)
	}
	return nil
}

// Scale scales every vertex covered by the selection by the per-axis
// factors, relative to the pivot.
func (m *Mesh) Scale(sel Selection, factors v3.Vec, pivot Pivot) error {
	verts, err := sel.ResolveVertices(m)
	if err != nil {
		return err
	}
	origin, err := m.pivotPoint(pivot, verts)
	if err != nil {
		return err
	}
	for _, v := range verts {
		p, err := m.Position(v)
		if err != nil {
			return err
		}
		m.positions[v] = p.Sub(origin).Mul(factors).Add(origin)
	}
	return nil
}

// Rotate rotates every vertex covered by the selection by Euler angles
// (degrees) around the X, Y and Z axes, applied in X, Y, Z order,
// relative to the pivot.
func (m *Mesh) Rotate(sel Selection, degrees v3.Vec, pivot Pivot) error {
	verts, err := sel.ResolveVertices(m)
	if err != nil {
		return err
	}
	origin, err := m.pivotPoint(pivot, verts)
	if err != nil {
		return err
	}
	xRad := degrees.X * math.Pi / 180
	yRad := degrees.Y * math.Pi / 180
	zRad := degrees.Z * math.Pi / 180
	rot := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	for _, v := range verts {
		p, err := m.Position(v)
		if err != nil {
			return err
		}
		m.positions[v] = rot.MulPosition(p.Sub(origin)).Add(origin)
	}
	return nil
}
