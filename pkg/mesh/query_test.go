package mesh

import (
	"errors"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestQueryHalfedgeTo(t *testing.T) {
	m, v, _ := newQuad(t)

	h, err := QueryVertex(v[0]).HalfedgeTo(v[1]).Run(m)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	dst, err := QueryHalfedge(h).DstVert().Run(m)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if dst != v[1] {
		t.Errorf("destination = %s, want %s", dst, v[1])
	}
}

func TestQueryChainAroundFace(t *testing.T) {
	m, v, f := newQuad(t)

	// Walking the loop four times with Next returns to the start.
	h, err := QueryFace(f).Halfedge().Run(m)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	back, err := QueryHalfedge(h).Next().Next().Next().Next().Run(m)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if back != h {
		t.Errorf("four Next steps land on %s, want %s", back, h)
	}
	// Prev undoes Next.
	same, err := QueryHalfedge(h).Next().Prev().Run(m)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if same != h {
		t.Errorf("Next then Prev = %s, want %s", same, h)
	}
	// The loop's face is f from any position.
	got, err := QueryVertex(v[0]).HalfedgeTo(v[1]).Face().Run(m)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != f {
		t.Errorf("face = %s, want %s", got, f)
	}
}

func TestQueryOppositeAndRotation(t *testing.T) {
	m, v, _ := newQuad(t)

	h, err := QueryVertex(v[0]).HalfedgeTo(v[1]).Run(m)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	src, err := QueryHalfedge(h).Opposite().DstVert().Run(m)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if src != v[0] {
		t.Errorf("opposite destination = %s, want %s", src, v[0])
	}
	round, err := QueryHalfedge(h).CWRotated().CCWRotated().Run(m)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if round != h {
		t.Errorf("cw then ccw = %s, want %s", round, h)
	}
}

func TestQueryIsLazy(t *testing.T) {
	// A chain built before its target exists fails only at Run time, and
	// the same immutable value succeeds once the mesh catches up.
	m := New()
	v0 := m.AddVertex(v3.Vec{})
	v1 := m.AddVertex(v3.Vec{X: 1})
	v2 := m.AddVertex(v3.Vec{Y: 1})
	q := QueryVertex(v0).HalfedgeTo(v1).Face()

	if _, err := q.Run(m); err == nil {
		t.Fatal("query over an unconnected mesh should fail")
	}
	f, err := m.MakeTriangle(v0, v1, v2)
	if err != nil {
		t.Fatalf("MakeTriangle: %v", err)
	}
	got, err := q.Run(m)
	if err != nil {
		t.Fatalf("Run after MakeTriangle: %v", err)
	}
	if got != f {
		t.Errorf("face = %s, want %s", got, f)
	}
}

func TestQueryReRunAfterMutation(t *testing.T) {
	m, v, _ := newQuad(t)
	q := QueryVertex(v[0]).HalfedgeTo(v[1])

	first, err := q.Run(m)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	m.AddVertex(v3.Vec{X: 5})
	second, err := q.Run(m)
	if err != nil {
		t.Fatalf("re-Run: %v", err)
	}
	if second != first {
		t.Errorf("re-run = %s, want %s", second, first)
	}
}

func TestQueryImmutableChains(t *testing.T) {
	m, _, f := newQuad(t)

	base := QueryFace(f).Halfedge()
	next := base.Next()
	prev := base.Prev()

	hb, err := base.Run(m)
	if err != nil {
		t.Fatalf("base: %v", err)
	}
	hn, err := next.Run(m)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	hp, err := prev.Run(m)
	if err != nil {
		t.Fatalf("prev: %v", err)
	}
	if hn == hb || hp == hb || hn == hp {
		t.Errorf("extended chains alias the base: %s %s %s", hb, hn, hp)
	}
	// Re-running the base after extending it still yields the original.
	hb2, err := base.Run(m)
	if err != nil {
		t.Fatalf("base again: %v", err)
	}
	if hb2 != hb {
		t.Errorf("base re-run = %s, want %s", hb2, hb)
	}
}

func TestQueryStaleResult(t *testing.T) {
	m, v, f := newQuad(t)
	q := QueryVertex(v[0]).HalfedgeTo(v[1])
	if err := m.DeleteFace(f); err != nil {
		t.Fatalf("DeleteFace: %v", err)
	}
	if _, err := q.Run(m); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
