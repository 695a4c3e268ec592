// Package primitives generates starter meshes: cubes, planes and
// circles. Each generator returns a fresh mesh with normals already
// computed.
package primitives

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/lamina/pkg/mesh"
)

// CubeData exposes reference IDs into a generated cube so callers can
// anchor further edits without searching.
type CubeData struct {
	FrontBottomLeft mesh.VertexID
	Front           mesh.FaceID
	Top             mesh.FaceID
}

// Cube returns an axis-aligned cube with the given edge length,
// centered on the origin, built from six quads.
func Cube(size float64) (*mesh.Mesh, CubeData, error) {
	if size <= 0 {
		return nil, CubeData{}, fmt.Errorf("cube size must be positive, got %v", size)
	}
	m := mesh.New()
	h := size / 2
	v0 := m.AddVertex(v3.Vec{X: -h, Y: -h, Z: h})
	v1 := m.AddVertex(v3.Vec{X: h, Y: -h, Z: h})
	v2 := m.AddVertex(v3.Vec{X: h, Y: h, Z: h})
	v3q := m.AddVertex(v3.Vec{X: -h, Y: h, Z: h})
	v4 := m.AddVertex(v3.Vec{X: -h, Y: -h, Z: -h})
	v5 := m.AddVertex(v3.Vec{X: h, Y: -h, Z: -h})
	v6 := m.AddVertex(v3.Vec{X: h, Y: h, Z: -h})
	v7 := m.AddVertex(v3.Vec{X: -h, Y: h, Z: -h})

	front, err := m.MakeQuad(v0, v1, v2, v3q)
	if err != nil {
		return nil, CubeData{}, err
	}
	if _, err := m.MakeQuad(v1, v5, v6, v2); err != nil {
		return nil, CubeData{}, err
	}
	if _, err := m.MakeQuad(v5, v4, v7, v6); err != nil {
		return nil, CubeData{}, err
	}
	if _, err := m.MakeQuad(v4, v0, v3q, v7); err != nil {
		return nil, CubeData{}, err
	}
	top, err := m.MakeQuad(v3q, v2, v6, v7)
	if err != nil {
		return nil, CubeData{}, err
	}
	if _, err := m.MakeQuad(v4, v5, v1, v0); err != nil {
		return nil, CubeData{}, err
	}
	if err := m.RecalculateNormals(); err != nil {
		return nil, CubeData{}, err
	}
	return m, CubeData{FrontBottomLeft: v0, Front: front, Top: top}, nil
}

// Plane returns a single quad of the given edge length in the XY plane,
// centered on the origin, normal along +Z.
func Plane(size float64) (*mesh.Mesh, mesh.FaceID, error) {
	if size <= 0 {
		return nil, mesh.FaceID{}, fmt.Errorf("plane size must be positive, got %v", size)
	}
	m := mesh.New()
	h := size / 2
	v0 := m.AddVertex(v3.Vec{X: -h, Y: -h})
	v1 := m.AddVertex(v3.Vec{X: h, Y: -h})
	v2 := m.AddVertex(v3.Vec{X: h, Y: h})
	v3q := m.AddVertex(v3.Vec{X: -h, Y: h})
	f, err := m.MakeQuad(v0, v1, v2, v3q)
	if err != nil {
		return nil, mesh.FaceID{}, err
	}
	if err := m.RecalculateNormals(); err != nil {
		return nil, mesh.FaceID{}, err
	}
	return m, f, nil
}

// Circle returns a single n-gon face approximating a circle of the
// given radius in the XY plane, wound counter-clockwise so the normal
// points along +Z.
func Circle(segments int, radius float64) (*mesh.Mesh, mesh.FaceID, error) {
	if segments < 3 {
		return nil, mesh.FaceID{}, fmt.Errorf("circle needs at least 3 segments, got %d", segments)
	}
	if radius <= 0 {
		return nil, mesh.FaceID{}, fmt.Errorf("circle radius must be positive, got %v", radius)
	}
	m := mesh.New()
	verts := make([]mesh.VertexID, segments)
	for i := 0; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		verts[i] = m.AddVertex(v3.Vec{X: radius * math.Cos(a), Y: radius * math.Sin(a)})
	}
	f, err := m.MakeFace(verts)
	if err != nil {
		return nil, mesh.FaceID{}, err
	}
	if err := m.RecalculateNormals(); err != nil {
		return nil, mesh.FaceID{}, err
	}
	return m, f, nil
}
