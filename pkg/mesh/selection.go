package mesh

import "sort"

// Selection is a set of vertices, halfedges and faces, independent of
// any mesh. Resolving a selection against a mesh converts it to a
// single element kind: faces contribute their loops, halfedges their
// endpoints, and so on. Selections are plain values; the zero value is
// empty.
type Selection struct {
	vertices  map[VertexID]struct{}
	halfedges map[HalfedgeID]struct{}
	faces     map[FaceID]struct{}
}

// SelectVertices builds a selection from vertex IDs.
func SelectVertices(ids ...VertexID) Selection {
	var s Selection
	for _, id := range ids {
		s.AddVertex(id)
	}
	return s
}

// SelectHalfedges builds a selection from halfedge IDs.
func SelectHalfedges(ids ...HalfedgeID) Selection {
	var s Selection
	for _, id := range ids {
		s.AddHalfedge(id)
	}
	return s
}

// SelectFaces builds a selection from face IDs.
func SelectFaces(ids ...FaceID) Selection {
	var s Selection
	for _, id := range ids {
		s.AddFace(id)
	}
	return s
}

// SelectAll returns a selection containing every face, halfedge and
// vertex of m.
func (m *Mesh) SelectAll() Selection {
	var s Selection
	for _, v := range m.Vertices() {
		s.AddVertex(v)
	}
	for _, h := range m.Halfedges() {
		s.AddHalfedge(h)
	}
	for _, f := range m.Faces() {
		s.AddFace(f)
	}
	return s
}

// AddVertex adds a vertex to the selection.
func (s *Selection) AddVertex(id VertexID) {
	if s.vertices == nil {
		s.vertices = make(map[VertexID]struct{})
	}
	s.vertices[id] = struct{}{}
}

// AddHalfedge adds a halfedge to the selection.
func (s *Selection) AddHalfedge(id HalfedgeID) {
	if s.halfedges == nil {
		s.halfedges = make(map[HalfedgeID]struct{})
	}
	s.halfedges[id] = struct{}{}
}

// AddFace adds a face to the selection.
func (s *Selection) AddFace(id FaceID) {
	if s.faces == nil {
		s.faces = make(map[FaceID]struct{})
	}
	s.faces[id] = struct{}{}
}

// Merge returns the union of s and other.
func (s Selection) Merge(other Selection) Selection {
	var out Selection
	for id := range s.vertices {
		out.AddVertex(id)
	}
	for id := range other.vertices {
		out.AddVertex(id)
	}
	for id := range s.halfedges {
		out.AddHalfedge(id)
	}
	for id := range other.halfedges {
		out.AddHalfedge(id)
	}
	for id := range s.faces {
		out.AddFace(id)
	}
	for id := range other.faces {
		out.AddFace(id)
	}
	return out
}

// IsEmpty reports whether the selection contains nothing.
func (s Selection) IsEmpty() bool {
	return len(s.vertices) == 0 && len(s.halfedges) == 0 && len(s.faces) == 0
}

// ResolveVertices returns every vertex covered by the selection:
// selected vertices, endpoints of selected halfedges and loop vertices
// of selected faces. IDs that no longer resolve fail with ErrNotFound.
// The result is deduplicated and in deterministic order.
func (s Selection) ResolveVertices(m *Mesh) ([]VertexID, error) {
	set := make(map[VertexID]struct{})
	for id := range s.vertices {
		if !m.HasVertex(id) {
			return nil, errVertexNotFound(id)
		}
		set[id] = struct{}{}
	}
	for id := range s.halfedges {
		src, err := m.SrcVert(id)
		if err != nil {
			return nil, err
		}
		dst, err := m.DstVert(id)
		if err != nil {
			return nil, err
		}
		set[src] = struct{}{}
		set[dst] = struct{}{}
	}
	for id := range s.faces {
		if !m.HasFace(id) {
			return nil, errFaceNotFound(id)
		}
		for _, v := range m.VerticesAroundFace(id) {
			set[v] = struct{}{}
		}
	}
	out := make([]VertexID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sortVertexIDs(out)
	return out, nil
}

// ResolveHalfedges returns every halfedge covered by the selection:
// selected halfedges, outgoing rings of selected vertices and loops of
// selected faces.
func (s Selection) ResolveHalfedges(m *Mesh) ([]HalfedgeID, error) {
	set := make(map[HalfedgeID]struct{})
	for id := range s.halfedges {
		if !m.HasHalfedge(id) {
			return nil, errHalfedgeNotFound(id)
		}
		set[id] = struct{}{}
	}
	for id := range s.vertices {
		if !m.HasVertex(id) {
			return nil, errVertexNotFound(id)
		}
		for _, h := range m.HalfedgesAroundVertex(id) {
			set[h] = struct{}{}
		}
	}
	for id := range s.faces {
		if !m.HasFace(id) {
			return nil, errFaceNotFound(id)
		}
		for _, h := range m.HalfedgesAroundFace(id) {
			set[h] = struct{}{}
		}
	}
	out := make([]HalfedgeID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sortHalfedgeIDs(out)
	return out, nil
}

// ResolveFaces returns every face covered by the selection: selected
// faces plus faces incident to selected vertices and halfedges.
func (s Selection) ResolveFaces(m *Mesh) ([]FaceID, error) {
	set := make(map[FaceID]struct{})
	for id := range s.faces {
		if !m.HasFace(id) {
			return nil, errFaceNotFound(id)
		}
		set[id] = struct{}{}
	}
	for id := range s.halfedges {
		if !m.HasHalfedge(id) {
			return nil, errHalfedgeNotFound(id)
		}
		if f, err := m.HalfedgeFace(id); err == nil {
			set[f] = struct{}{}
		}
	}
	for id := range s.vertices {
		if !m.HasVertex(id) {
			return nil, errVertexNotFound(id)
		}
		for _, f := range m.FacesAroundVertex(id) {
			set[f] = struct{}{}
		}
	}
	out := make([]FaceID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sortFaceIDs(out)
	return out, nil
}

func sortVertexIDs(ids []VertexID) {
	sort.Slice(ids, func(i, j int) bool { return lessKey(ids[i].k, ids[j].k) })
}

func sortHalfedgeIDs(ids []HalfedgeID) {
	sort.Slice(ids, func(i, j int) bool { return lessKey(ids[i].k, ids[j].k) })
}

func sortFaceIDs(ids []FaceID) {
	sort.Slice(ids, func(i, j int) bool { return lessKey(ids[i].k, ids[j].k) })
}

func lessKey(a, b arenaKey) bool {
	if a.idx != b.idx {
		return a.idx < b.idx
	}
	return a.gen < b.gen
}
