package mesh

import (
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestSubdivideTriangle(t *testing.T) {
	m := New()
	v0 := m.AddVertex(v3.Vec{})
	v1 := m.AddVertex(v3.Vec{X: 2})
	v2 := m.AddVertex(v3.Vec{Y: 2})
	f, err := m.MakeTriangle(v0, v1, v2)
	if err != nil {
		t.Fatalf("MakeTriangle: %v", err)
	}

	if err := m.Subdivide(SelectFaces(f)); err != nil {
		t.Fatalf("Subdivide: %v", err)
	}

	if m.VertexCount() != 6 {
		t.Errorf("vertex count = %d, want 6", m.VertexCount())
	}
	if m.FaceCount() != 4 {
		t.Errorf("face count = %d, want 4", m.FaceCount())
	}
	if !m.IsTriangleMesh() {
		t.Error("subdivided triangle should stay a triangle mesh")
	}

	// The edge midpoints sit halfway along the original edges.
	found := 0
	for _, v := range m.Vertices() {
		p, _ := m.Position(v)
		if approxVec(p, v3.Vec{X: 1}) || approxVec(p, v3.Vec{Y: 1}) ||
			approxVec(p, v3.Vec{X: 1, Y: 1}) {
			found++
		}
	}
	if found != 3 {
		t.Errorf("found %d midpoints, want 3", found)
	}
	if errs := Validate(m); len(errs) != 0 {
		t.Errorf("Validate found %d problems: %v", len(errs), errs)
	}
}

func TestSubdivideQuad(t *testing.T) {
	m, _, f := newQuad(t)

	if err := m.Subdivide(SelectFaces(f)); err != nil {
		t.Fatalf("Subdivide: %v", err)
	}

	// 4 corners, 4 midpoints, 1 centroid.
	if m.VertexCount() != 9 {
		t.Errorf("vertex count = %d, want 9", m.VertexCount())
	}
	if m.FaceCount() != 8 {
		t.Errorf("face count = %d, want 8", m.FaceCount())
	}
	if !m.IsTriangleMesh() {
		t.Error("subdivided quad should be a triangle fan")
	}

	// The centroid of the standard quad is the origin.
	foundCenter := false
	for _, v := range m.Vertices() {
		p, _ := m.Position(v)
		if approxVec(p, v3.Vec{}) {
			foundCenter = true
		}
	}
	if !foundCenter {
		t.Error("centroid vertex missing")
	}
	if errs := Validate(m); len(errs) != 0 {
		t.Errorf("Validate found %d problems: %v", len(errs), errs)
	}
}

func TestSubdivideSharedEdgeSplitOnce(t *testing.T) {
	// Two triangles sharing an edge, both subdivided. The shared edge
	// gets one midpoint, not two.
	m, _ := collapseFixture(t)

	if err := m.Subdivide(m.SelectAll()); err != nil {
		t.Fatalf("Subdivide: %v", err)
	}
	// 4 corners + 5 edge midpoints.
	if m.VertexCount() != 9 {
		t.Errorf("vertex count = %d, want 9", m.VertexCount())
	}
	if m.FaceCount() != 8 {
		t.Errorf("face count = %d, want 8", m.FaceCount())
	}
	if !m.IsTriangleMesh() {
		t.Error("result should be all triangles")
	}
	if errs := Validate(m); len(errs) != 0 {
		t.Errorf("Validate found %d problems: %v", len(errs), errs)
	}
}

func TestSubdivideEmptySelection(t *testing.T) {
	m, _, _ := newQuad(t)
	if err := m.Subdivide(Selection{}); err != nil {
		t.Fatalf("Subdivide of empty selection: %v", err)
	}
	if m.VertexCount() != 4 || m.FaceCount() != 1 {
		t.Errorf("empty subdivision changed the mesh: %d verts %d faces",
			m.VertexCount(), m.FaceCount())
	}
}
