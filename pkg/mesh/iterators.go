package mesh

import "fmt"

// maxLoopIterations bounds every ring walk. Connectivity is maintained
// as closed loops by all mutations, so hitting the bound means the mesh
// is corrupt and continuing would spin forever. This is the one place
// the package panics instead of returning an error.
const maxLoopIterations = 1 << 20

func guardLoop(i int) {
	if i >= maxLoopIterations {
		panic(fmt.Sprintf("mesh: ring walk exceeded %d iterations, connectivity is corrupt", maxLoopIterations))
	}
}

// HalfedgesAroundVertex returns the outgoing halfedges of v in
// counter-clockwise order, starting at the stored outgoing halfedge.
// Isolated or unknown vertices yield an empty slice.
func (m *Mesh) HalfedgesAroundVertex(v VertexID) []HalfedgeID {
	rec, ok := m.verts.get(v.k)
	if !ok || rec.halfedge.IsZero() {
		return nil
	}
	start := rec.halfedge
	var out []HalfedgeID
	h := start
	for i := 0; ; i++ {
		guardLoop(i)
		out = append(out, h)
		next, err := m.CCWRotatedNeighbour(h)
		if err != nil || next == start {
			return out
		}
		h = next
	}
}

// IncomingHalfedgesAroundVertex returns the halfedges pointing at v, in
// the same ring order as HalfedgesAroundVertex.
func (m *Mesh) IncomingHalfedgesAroundVertex(v VertexID) []HalfedgeID {
	outgoing := m.HalfedgesAroundVertex(v)
	out := make([]HalfedgeID, 0, len(outgoing))
	for _, h := range outgoing {
		if o, err := m.OppositeHalfedge(h); err == nil {
			out = append(out, o)
		}
	}
	return out
}

// VerticesAroundVertex returns the one-ring neighbours of v in
// counter-clockwise order.
func (m *Mesh) VerticesAroundVertex(v VertexID) []VertexID {
	outgoing := m.HalfedgesAroundVertex(v)
	out := make([]VertexID, 0, len(outgoing))
	for _, h := range outgoing {
		if dst, err := m.DstVert(h); err == nil {
			out = append(out, dst)
		}
	}
	return out
}

// FacesAroundVertex returns the faces incident to v in ring order,
// skipping the boundary gap.
func (m *Mesh) FacesAroundVertex(v VertexID) []FaceID {
	outgoing := m.HalfedgesAroundVertex(v)
	out := make([]FaceID, 0, len(outgoing))
	for _, h := range outgoing {
		if f, err := m.HalfedgeFace(h); err == nil {
			out = append(out, f)
		}
	}
	return out
}

// HalfedgesAroundFace returns f's loop in winding order. Unknown faces
// yield an empty slice.
func (m *Mesh) HalfedgesAroundFace(f FaceID) []HalfedgeID {
	rec, ok := m.fcs.get(f.k)
	if !ok || rec.halfedge.IsZero() {
		return nil
	}
	start := rec.halfedge
	var out []HalfedgeID
	h := start
	for i := 0; ; i++ {
		guardLoop(i)
		out = append(out, h)
		next, err := m.NextHalfedge(h)
		if err != nil || next == start {
			return out
		}
		h = next
	}
}

// VerticesAroundFace returns f's vertices in winding order. The i-th
// vertex is the destination of the i-th loop halfedge.
func (m *Mesh) VerticesAroundFace(f FaceID) []VertexID {
	loop := m.HalfedgesAroundFace(f)
	out := make([]VertexID, 0, len(loop))
	for _, h := range loop {
		if dst, err := m.DstVert(h); err == nil {
			out = append(out, dst)
		}
	}
	return out
}
