package mesh

import (
	"errors"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestTranslate(t *testing.T) {
	m, v, _ := newQuad(t)
	if err := m.Translate(m.SelectAll(), v3.Vec{X: 1, Z: 2}); err != nil {
		t.Fatalf("Translate: %v", err)
	}
	p, _ := m.Position(v[0])
	if !approxVec(p, v3.Vec{X: 0, Y: -1, Z: 2}) {
		t.Errorf("v0 = %v, want {0 -1 2}", p)
	}
}

func TestTranslatePartial(t *testing.T) {
	m, v, _ := newQuad(t)
	if err := m.Translate(SelectVertices(v[0]), v3.Vec{Z: 1}); err != nil {
		t.Fatalf("Translate: %v", err)
	}
	p0, _ := m.Position(v[0])
	p1, _ := m.Position(v[1])
	if p0.Z != 1 {
		t.Errorf("v0.Z = %v, want 1", p0.Z)
	}
	if p1.Z != 0 {
		t.Errorf("v1.Z = %v, want 0", p1.Z)
	}
}

func TestScaleAboutCenter(t *testing.T) {
	m, v, _ := newQuad(t)
	// Shift away from the origin so center and origin pivots differ.
	if err := m.Translate(m.SelectAll(), v3.Vec{X: 10}); err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if err := m.Scale(m.SelectAll(), v3.Vec{X: 2, Y: 2, Z: 2}, PivotCenter()); err != nil {
		t.Fatalf("Scale: %v", err)
	}
	p, _ := m.Position(v[0])
	if !approxVec(p, v3.Vec{X: 8, Y: -2}) {
		t.Errorf("v0 = %v, want {8 -2 0}", p)
	}
	p, _ = m.Position(v[2])
	if !approxVec(p, v3.Vec{X: 12, Y: 2}) {
		t.Errorf("v2 = %v, want {12 2 0}", p)
	}
}

func TestScaleAboutOrigin(t *testing.T) {
	m, v, _ := newQuad(t)
	if err := m.Translate(m.SelectAll(), v3.Vec{X: 10}); err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if err := m.Scale(m.SelectAll(), v3.Vec{X: 0.5, Y: 1, Z: 1}, PivotOrigin()); err != nil {
		t.Fatalf("Scale: %v", err)
	}
	p, _ := m.Position(v[1])
	if !approxVec(p, v3.Vec{X: 5.5, Y: -1}) {
		t.Errorf("v1 = %v, want {5.5 -1 0}", p)
	}
}

func TestRotateAroundZ(t *testing.T) {
	m := New()
	v := m.AddVertex(v3.Vec{X: 1})
	if err := m.Rotate(SelectVertices(v), v3.Vec{Z: 90}, PivotOrigin()); err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	p, _ := m.Position(v)
	if !approxVec(p, v3.Vec{Y: 1}) {
		t.Errorf("rotated point = %v, want {0 1 0}", p)
	}
}

func TestRotateAroundPoint(t *testing.T) {
	m := New()
	v := m.AddVertex(v3.Vec{X: 2})
	pivot := PivotPoint(v3.Vec{X: 1})
	if err := m.Rotate(SelectVertices(v), v3.Vec{Z: 180}, pivot); err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	p, _ := m.Position(v)
	if !approxVec(p, v3.Vec{}) {
		t.Errorf("rotated point = %v, want origin", p)
	}
}

func TestRotateEulerOrder(t *testing.T) {
	// X then Z: +Y rotated 90 around X lands on +Z and stays there under
	// the Z turn.
	m := New()
	v := m.AddVertex(v3.Vec{Y: 1})
	if err := m.Rotate(SelectVertices(v), v3.Vec{X: 90, Z: 90}, PivotOrigin()); err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	p, _ := m.Position(v)
	if !approxVec(p, v3.Vec{Z: 1}) {
		t.Errorf("rotated point = %v, want {0 0 1}", p)
	}
}

func TestCenterOfGravity(t *testing.T) {
	m, _, _ := newQuad(t)
	c, err := m.CenterOfGravity(m.SelectAll())
	if err != nil {
		t.Fatalf("CenterOfGravity: %v", err)
	}
	if !approxVec(c, v3.Vec{}) {
		t.Errorf("center = %v, want origin", c)
	}
	if _, err := m.CenterOfGravity(Selection{}); !errors.Is(err, ErrTopology) {
		t.Errorf("empty selection error = %v, want ErrTopology", err)
	}
}

func TestFaceCentroid(t *testing.T) {
	m, _, f := newQuad(t)
	c, err := m.FaceCentroid(f)
	if err != nil {
		t.Fatalf("FaceCentroid: %v", err)
	}
	if !approxVec(c, v3.Vec{}) {
		t.Errorf("centroid = %v, want origin", c)
	}
	if _, err := m.FaceCentroid(FaceID{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown face error = %v, want ErrNotFound", err)
	}
}
