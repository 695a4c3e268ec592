package mesh

import "fmt"

// ValidationError describes a single connectivity or attribute finding.
type ValidationError struct {
	Element string // which element has the problem, empty if mesh-level
	Message string
}

func (e ValidationError) Error() string {
	if e.Element == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Element, e.Message)
}

// Validate runs all structural checks on the mesh and returns a slice
// of findings. An empty slice means the mesh is consistent. This
// function is read-only and never mutates the mesh.
func Validate(m *Mesh) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateHalfedges(m)...)
	errs = append(errs, validateFaceLoops(m)...)
	errs = append(errs, validateVertices(m)...)
	return errs
}

// validateHalfedges checks opposite involution, next/prev inversion and
// destination liveness for every halfedge.
func validateHalfedges(m *Mesh) []ValidationError {
	var errs []ValidationError
	for _, h := range m.Halfedges() {
		rec, _ := m.hes.get(h.k)
		if !m.HasVertex(rec.vertex) {
			errs = append(errs, ValidationError{h.String(), fmt.Sprintf("destination %s is not live", rec.vertex)})
		}
		o, err := m.OppositeHalfedge(h)
		if err != nil {
			errs = append(errs, ValidationError{h.String(), "no opposite"})
		} else if oo, err := m.OppositeHalfedge(o); err != nil || oo != h {
			errs = append(errs, ValidationError{h.String(), fmt.Sprintf("opposite of opposite is %s", oo)})
		}
		n, err := m.NextHalfedge(h)
		if err != nil {
			errs = append(errs, ValidationError{h.String(), "no next"})
		} else if p, err := m.PrevHalfedge(n); err != nil || p != h {
			errs = append(errs, ValidationError{h.String(), fmt.Sprintf("prev of next is %s", p)})
		}
	}
	return errs
}

// validateFaceLoops checks that every face loop closes and that each
// loop halfedge references the face it bounds.
func validateFaceLoops(m *Mesh) []ValidationError {
	var errs []ValidationError
	for _, f := range m.Faces() {
		loop := m.HalfedgesAroundFace(f)
		if len(loop) < 3 {
			errs = append(errs, ValidationError{f.String(), fmt.Sprintf("loop has %d halfedges", len(loop))})
			continue
		}
		last := loop[len(loop)-1]
		if n, err := m.NextHalfedge(last); err != nil || n != loop[0] {
			errs = append(errs, ValidationError{f.String(), "loop does not close"})
		}
		for _, h := range loop {
			got, err := m.HalfedgeFace(h)
			if err != nil || got != f {
				errs = append(errs, ValidationError{h.String(), fmt.Sprintf("face reference is %s, loop belongs to %s", got, f)})
			}
		}
	}
	return errs
}

// validateVertices checks outgoing halfedge liveness, rotation closure,
// the boundary-first outgoing rule and position presence.
func validateVertices(m *Mesh) []ValidationError {
	var errs []ValidationError
	for _, v := range m.Vertices() {
		if _, ok := m.positions[v]; !ok {
			errs = append(errs, ValidationError{v.String(), "no position"})
		}
		rec, _ := m.verts.get(v.k)
		if rec.halfedge.IsZero() {
			continue
		}
		if !m.HasHalfedge(rec.halfedge) {
			errs = append(errs, ValidationError{v.String(), fmt.Sprintf("outgoing halfedge %s is not live", rec.halfedge)})
			continue
		}
		if src, err := m.SrcVert(rec.halfedge); err != nil || src != v {
			errs = append(errs, ValidationError{v.String(), fmt.Sprintf("outgoing halfedge %s starts at %s", rec.halfedge, src)})
			continue
		}
		ring := m.HalfedgesAroundVertex(v)
		hasBoundary := false
		for _, h := range ring {
			if m.IsBoundaryHalfedge(h) {
				hasBoundary = true
			}
		}
		if hasBoundary && !m.IsBoundaryHalfedge(rec.halfedge) {
			errs = append(errs, ValidationError{v.String(), "outgoing halfedge is interior although the vertex is on the boundary"})
		}
		// Rotation closure: cw from the last ring entry returns to the
		// start.
		lastCW, err := m.CWRotatedNeighbour(ring[0])
		if err != nil {
			errs = append(errs, ValidationError{v.String(), "ring is not closed under rotation"})
		} else if src, err := m.SrcVert(lastCW); err != nil || src != v {
			errs = append(errs, ValidationError{v.String(), fmt.Sprintf("rotation leaves the vertex, reaches %s", src)})
		}
	}
	return errs
}
