package mesh

import (
	"errors"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestExtrudeEdge(t *testing.T) {
	m := New()
	v0 := m.AddVertex(v3.Vec{})
	v1 := m.AddVertex(v3.Vec{X: 1})
	v2 := m.AddVertex(v3.Vec{Y: 1})
	if _, err := m.MakeTriangle(v0, v1, v2); err != nil {
		t.Fatalf("MakeTriangle: %v", err)
	}

	h, err := m.FindHalfedge(v1, v0)
	if err != nil {
		t.Fatalf("FindHalfedge: %v", err)
	}
	top, err := m.ExtrudeEdge(h)
	if err != nil {
		t.Fatalf("ExtrudeEdge: %v", err)
	}

	if m.VertexCount() != 5 {
		t.Errorf("vertex count = %d, want 5", m.VertexCount())
	}
	if m.FaceCount() != 2 {
		t.Errorf("face count = %d, want 2", m.FaceCount())
	}
	// The returned halfedge runs along the new rim, between the two
	// duplicates, and is free for the next extrusion.
	if !m.IsBoundaryHalfedge(top) {
		t.Error("returned halfedge should be boundary")
	}
	src, _ := m.SrcVert(top)
	dst, _ := m.DstVert(top)
	p0, _ := m.Position(src)
	p1, _ := m.Position(dst)
	q0, _ := m.Position(v1)
	q1, _ := m.Position(v0)
	if !approxVec(p0, q0) || !approxVec(p1, q1) {
		t.Errorf("new rim runs %v -> %v, want %v -> %v", p0, p1, q0, q1)
	}
	// Chained extrusion keeps working.
	if _, err := m.ExtrudeEdge(top); err != nil {
		t.Fatalf("chained ExtrudeEdge: %v", err)
	}
	if errs := Validate(m); len(errs) != 0 {
		t.Errorf("Validate found %d problems: %v", len(errs), errs)
	}
}

func TestExtrudeEdgeResolvesInteriorSide(t *testing.T) {
	m, v, _ := newQuad(t)
	// The interior side of a rim edge is accepted; the boundary side is
	// what actually gets extruded.
	h, err := m.FindHalfedge(v[0], v[1])
	if err != nil {
		t.Fatalf("FindHalfedge: %v", err)
	}
	if m.IsBoundaryHalfedge(h) {
		t.Fatal("expected the interior side")
	}
	if _, err := m.ExtrudeEdge(h); err != nil {
		t.Fatalf("ExtrudeEdge: %v", err)
	}
	if m.FaceCount() != 2 {
		t.Errorf("face count = %d, want 2", m.FaceCount())
	}
}

func TestExtrudeEdgeRejectsInteriorEdge(t *testing.T) {
	m, _, ring := newOneRing(t)
	h, err := m.FindHalfedge(ring[0], ring[1])
	if err != nil {
		t.Fatalf("FindHalfedge: %v", err)
	}
	// Rim edges of the closed fan have a face on one side only; a spoke
	// has faces on both.
	m2, center, ring2 := newOneRing(t)
	spoke, err := m2.FindHalfedge(center, ring2[0])
	if err != nil {
		t.Fatalf("FindHalfedge(spoke): %v", err)
	}
	if _, err := m2.ExtrudeEdge(spoke); !errors.Is(err, ErrTopology) {
		t.Errorf("spoke extrusion error = %v, want ErrTopology", err)
	}
	if _, err := m.ExtrudeEdge(h); err != nil {
		t.Errorf("rim extrusion should work, got %v", err)
	}
}

func TestExtrudeFaceOnCube(t *testing.T) {
	m, _, top := newCube(t)

	newTop, err := m.ExtrudeFace(top)
	if err != nil {
		t.Fatalf("ExtrudeFace: %v", err)
	}

	if m.VertexCount() != 12 {
		t.Errorf("vertex count = %d, want 12", m.VertexCount())
	}
	if m.FaceCount() != 10 {
		t.Errorf("face count = %d, want 10", m.FaceCount())
	}
	if m.HalfedgeCount() != 40 {
		t.Errorf("halfedge count = %d, want 40", m.HalfedgeCount())
	}
	if m.HasFace(top) {
		t.Error("extruded face should be gone")
	}
	if got := m.FaceValence(newTop); got != 4 {
		t.Errorf("new top valence = %d, want 4", got)
	}
	// The result is closed again: no boundary halfedges anywhere.
	for _, h := range m.Halfedges() {
		if m.IsBoundaryHalfedge(h) {
			t.Errorf("halfedge %s is boundary, mesh should be closed", h)
		}
	}
	if errs := Validate(m); len(errs) != 0 {
		t.Errorf("Validate found %d problems: %v", len(errs), errs)
	}

	// Lift the new cap along its +Y normal and make sure positions move
	// independently of the old rim, which stays at y = 0.5.
	if err := m.Translate(SelectFaces(newTop), v3.Vec{Y: 1}); err != nil {
		t.Fatalf("Translate: %v", err)
	}
	for _, v := range m.VerticesAroundFace(newTop) {
		p, _ := m.Position(v)
		if p.Y != 1.5 {
			t.Errorf("lifted vertex %s at y = %v, want 1.5", v, p.Y)
		}
	}
}

func TestExtrudeFacesRegion(t *testing.T) {
	// An L of three quads sharing two internal edges.
	m := New()
	v0 := m.AddVertex(v3.Vec{})
	v1 := m.AddVertex(v3.Vec{X: 1})
	v2 := m.AddVertex(v3.Vec{X: 1, Y: 1})
	v3q := m.AddVertex(v3.Vec{Y: 1})
	v4 := m.AddVertex(v3.Vec{X: 2})
	v5 := m.AddVertex(v3.Vec{X: 2, Y: 1})
	v6 := m.AddVertex(v3.Vec{Y: 2})
	v7 := m.AddVertex(v3.Vec{X: 1, Y: 2})

	f0, err := m.MakeQuad(v0, v1, v2, v3q)
	if err != nil {
		t.Fatalf("f0: %v", err)
	}
	f1, err := m.MakeQuad(v1, v4, v5, v2)
	if err != nil {
		t.Fatalf("f1: %v", err)
	}
	f2, err := m.MakeQuad(v3q, v2, v7, v6)
	if err != nil {
		t.Fatalf("f2: %v", err)
	}

	tops, err := m.ExtrudeFaces([]FaceID{f0, f1, f2})
	if err != nil {
		t.Fatalf("ExtrudeFaces: %v", err)
	}
	if len(tops) != 3 {
		t.Fatalf("top count = %d, want 3", len(tops))
	}

	// 8 original vertices plus 8 duplicates; 8 rim walls plus 3 caps.
	if m.VertexCount() != 16 {
		t.Errorf("vertex count = %d, want 16", m.VertexCount())
	}
	if m.FaceCount() != 11 {
		t.Errorf("face count = %d, want 11", m.FaceCount())
	}
	// The internal edges are dissolved; the caps share edges the same way
	// the originals did.
	if !m.IsQuadMesh() {
		t.Error("extrusion of quads should yield only quads")
	}
	if errs := Validate(m); len(errs) != 0 {
		t.Errorf("Validate found %d problems: %v", len(errs), errs)
	}
}

func TestExtrudeFacesRejectsDuplicates(t *testing.T) {
	m, _, f := newQuad(t)
	if _, err := m.ExtrudeFaces([]FaceID{f, f}); !errors.Is(err, ErrTopology) {
		t.Errorf("error = %v, want ErrTopology", err)
	}
	if _, err := m.ExtrudeFaces([]FaceID{{}}); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
	if _, err := m.ExtrudeFaces(nil); err != nil {
		t.Errorf("empty input should be a no-op, got %v", err)
	}
}
