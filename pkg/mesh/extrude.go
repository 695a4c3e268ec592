package mesh

// ExtrudeEdge extrudes the boundary edge of h, creating two vertices at
// the same positions as the edge endpoints and a quad between old and
// new. The returned halfedge runs along the new edge, parallel to h,
// ready for chained extrusion. h may also name the interior side of a
// boundary edge; the boundary side is resolved automatically.
func (m *Mesh) ExtrudeEdge(h HalfedgeID) (HalfedgeID, error) {
	if !m.IsBoundaryHalfedge(h) {
		o, err := m.OppositeHalfedge(h)
		if err != nil {
			return HalfedgeID{}, err
		}
		if !m.IsBoundaryHalfedge(o) {
			return HalfedgeID{}, errTopology("can only extrude boundary edges")
		}
		h = o
	}
	v0, err := m.SrcVert(h)
	if err != nil {
		return HalfedgeID{}, err
	}
	v1, err := m.DstVert(h)
	if err != nil {
		return HalfedgeID{}, err
	}
	p0, err := m.Position(v0)
	if err != nil {
		return HalfedgeID{}, err
	}
	p1, err := m.Position(v1)
	if err != nil {
		return HalfedgeID{}, err
	}
	n0 := m.AddVertex(p0)
	n1 := m.AddVertex(p1)
	if _, err := m.MakeFace([]VertexID{v0, v1, n1, n0}); err != nil {
		return HalfedgeID{}, err
	}
	return m.FindHalfedge(n0, n1)
}

// ExtrudeFace extrudes f in place: the face is lifted onto duplicated
// vertices with quad walls connecting old and new rims. The new top
// face is returned; callers typically Translate its vertices afterwards.
func (m *Mesh) ExtrudeFace(f FaceID) (FaceID, error) {
	faces, err := m.ExtrudeFaces([]FaceID{f})
	if err != nil {
		return FaceID{}, err
	}
	return faces[0], nil
}

// ExtrudeFaces extrudes a connected (or disconnected) set of faces as
// one region. Edges interior to the region are dissolved rather than
// walled, so the region rim gets exactly one quad per boundary edge.
// The new top faces are returned in input order.
func (m *Mesh) ExtrudeFaces(faces []FaceID) ([]FaceID, error) {
	if len(faces) == 0 {
		return nil, nil
	}
	inSet := make(map[FaceID]bool, len(faces))
	for _, f := range faces {
		if !m.HasFace(f) {
			return nil, errFaceNotFound(f)
		}
		if inSet[f] {
			return nil, errTopology("face %s listed twice", f)
		}
		inSet[f] = true
	}

	type rimEdge struct{ src, dst VertexID }
	var rim []rimEdge
	var internal []HalfedgeID
	loops := make([][]VertexID, 0, len(faces))
	var region []VertexID
	seen := make(map[VertexID]bool)

	// Record everything before mutating: face loops, rim edges and the
	// edges interior to the region.
	for _, f := range faces {
		loop := m.VerticesAroundFace(f)
		loops = append(loops, loop)
		for _, v := range loop {
			if !seen[v] {
				seen[v] = true
				region = append(region, v)
			}
		}
		for _, h := range m.HalfedgesAroundFace(f) {
			o, err := m.OppositeHalfedge(h)
			if err != nil {
				return nil, err
			}
			if of, err := m.HalfedgeFace(o); err == nil && inSet[of] {
				internal = append(internal, h)
				continue
			}
			src, err := m.SrcVert(h)
			if err != nil {
				return nil, err
			}
			dst, err := m.DstVert(h)
			if err != nil {
				return nil, err
			}
			rim = append(rim, rimEdge{src, dst})
		}
	}

	// Duplicate the region vertices in place.
	dup := make(map[VertexID]VertexID, len(region))
	for _, v := range region {
		p, err := m.Position(v)
		if err != nil {
			return nil, err
		}
		dup[v] = m.AddVertex(p)
	}

	for _, f := range faces {
		if err := m.DeleteOnlyFace(f); err != nil {
			return nil, err
		}
	}
	for _, h := range internal {
		if !m.HasHalfedge(h) {
			continue
		}
		if err := m.DeleteOnlyEdge(h); err != nil {
			return nil, err
		}
	}

	for _, e := range rim {
		_, err := m.MakeFace([]VertexID{e.src, e.dst, dup[e.dst], dup[e.src]})
		if err != nil {
			return nil, err
		}
	}

	tops := make([]FaceID, 0, len(loops))
	for _, loop := range loops {
		lifted := make([]VertexID, len(loop))
		for i, v := range loop {
			lifted[i] = dup[v]
		}
		top, err := m.MakeFace(lifted)
		if err != nil {
			return nil, err
		}
		tops = append(tops, top)
	}

	// Old vertices fully interior to the region have no edges left.
	for _, v := range region {
		if m.HasVertex(v) && m.IsIsolated(v) {
			m.removeVertex(v)
		}
	}
	return tops, nil
}
