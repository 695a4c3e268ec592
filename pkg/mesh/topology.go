package mesh

// InsertVertex splits the edge of h0 at v, rewiring both sides of the
// pair. v must be an existing (typically fresh) vertex. The returned
// halfedge points from h0's original destination to v, so
// FindHalfedge(dst, v) after the call yields the same ID.
func (m *Mesh) InsertVertex(h0 HalfedgeID, v VertexID) (HalfedgeID, error) {
	if !m.HasVertex(v) {
		return HalfedgeID{}, errVertexNotFound(v)
	}
	o0, err := m.OppositeHalfedge(h0)
	if err != nil {
		return HalfedgeID{}, err
	}
	v2, err := m.DstVert(h0)
	if err != nil {
		return HalfedgeID{}, err
	}

	// Optional context: loop successors and faces exist only on wired,
	// interior sides.
	h2, hasH2 := m.optNext(h0)
	o2, hasO2 := m.optPrev(o0)
	fh, _ := m.hes.get(h0.k)
	fo, _ := m.hes.get(o0.k)
	faceH := fh.face
	faceO := fo.face

	h1, o1 := m.addEdgePair(v, v2)

	r1, _ := m.hes.get(h1.k)
	r1.face = faceH
	ro1, _ := m.hes.get(o1.k)
	ro1.face = faceO

	m.setNext(h0, h1)
	if hasH2 {
		m.setNext(h1, h2)
	}
	rh0, _ := m.hes.get(h0.k)
	rh0.vertex = v

	m.setNext(o1, o0)
	if hasO2 {
		m.setNext(o2, o1)
	}

	rv2, err := m.vertexRec(v2)
	if err != nil {
		return HalfedgeID{}, err
	}
	rv2.halfedge = o1
	if err := m.adjustOutgoingHalfedge(v2); err != nil {
		return HalfedgeID{}, err
	}
	rv, _ := m.verts.get(v.k)
	rv.halfedge = h1
	if err := m.adjustOutgoingHalfedge(v); err != nil {
		return HalfedgeID{}, err
	}

	if !faceH.IsZero() {
		if rec, err := m.faceRec(faceH); err == nil {
			rec.halfedge = h0
		}
	}
	if !faceO.IsZero() {
		if rec, err := m.faceRec(faceO); err == nil {
			rec.halfedge = o1
		}
	}
	return o1, nil
}

func (m *Mesh) optNext(h HalfedgeID) (HalfedgeID, bool) {
	rec, ok := m.hes.get(h.k)
	if !ok || rec.next.IsZero() {
		return HalfedgeID{}, false
	}
	return rec.next, true
}

func (m *Mesh) optPrev(h HalfedgeID) (HalfedgeID, bool) {
	rec, ok := m.hes.get(h.k)
	if !ok || rec.prev.IsZero() {
		return HalfedgeID{}, false
	}
	return rec.prev, true
}

// DeleteOnlyFace removes f but keeps its edges and vertices. The loop
// halfedges become boundary and the loop vertices get their outgoing
// halfedge re-pointed to satisfy the boundary-first rule.
func (m *Mesh) DeleteOnlyFace(f FaceID) error {
	loop := m.HalfedgesAroundFace(f)
	if _, err := m.faceRec(f); err != nil {
		return err
	}
	for _, h := range loop {
		rec, _ := m.hes.get(h.k)
		rec.face = FaceID{}
	}
	m.removeFace(f)
	// Each loop halfedge is now a boundary halfedge outgoing from its
	// source vertex.
	for _, h := range loop {
		src, err := m.SrcVert(h)
		if err != nil {
			return err
		}
		rec, err := m.vertexRec(src)
		if err != nil {
			return err
		}
		rec.halfedge = h
	}
	return nil
}

// DeleteOnlyEdge removes the halfedge pair of h and any faces bordering
// it, keeping the endpoint vertices. Boundary loops on either side are
// re-threaded around the gap; endpoints left without edges become
// isolated.
func (m *Mesh) DeleteOnlyEdge(h HalfedgeID) error {
	o, err := m.OppositeHalfedge(h)
	if err != nil {
		return err
	}
	if f, err := m.HalfedgeFace(h); err == nil {
		if err := m.DeleteOnlyFace(f); err != nil {
			return err
		}
	}
	if f, err := m.HalfedgeFace(o); err == nil {
		if err := m.DeleteOnlyFace(f); err != nil {
			return err
		}
	}

	hp, hasHP := m.optPrev(h)
	hn, hasHN := m.optNext(h)
	op, hasOP := m.optPrev(o)
	on, hasON := m.optNext(o)

	v0, err := m.DstVert(o)
	if err != nil {
		return err
	}
	v1, err := m.DstVert(h)
	if err != nil {
		return err
	}

	// Thread the boundary loops past the removed pair.
	if hasHP && hp != o && hasON {
		m.setNext(hp, on)
	}
	if hasOP && op != h && hasHN {
		m.setNext(op, hn)
	}

	// Fix outgoing halfedges of the endpoints.
	rv0, err := m.vertexRec(v0)
	if err != nil {
		return err
	}
	if rv0.halfedge == h {
		if hasON && on != h {
			rv0.halfedge = on
		} else {
			rv0.halfedge = HalfedgeID{}
		}
	}
	rv1, err := m.vertexRec(v1)
	if err != nil {
		return err
	}
	if rv1.halfedge == o {
		if hasHN && hn != o {
			rv1.halfedge = hn
		} else {
			rv1.halfedge = HalfedgeID{}
		}
	}

	m.removeHalfedge(h)
	m.removeHalfedge(o)

	if !rv0.halfedge.IsZero() {
		if err := m.adjustOutgoingHalfedge(v0); err != nil {
			return err
		}
	}
	if !rv1.halfedge.IsZero() {
		if err := m.adjustOutgoingHalfedge(v1); err != nil {
			return err
		}
	}
	return nil
}

// DeleteFace removes f and cascades: edges left bordering no face on
// either side are removed, and vertices left without edges are removed.
func (m *Mesh) DeleteFace(f FaceID) error {
	loop := m.HalfedgesAroundFace(f)
	verts := m.VerticesAroundFace(f)
	if err := m.DeleteOnlyFace(f); err != nil {
		return err
	}
	for _, h := range loop {
		if !m.HasHalfedge(h) {
			continue
		}
		o, err := m.OppositeHalfedge(h)
		if err != nil {
			return err
		}
		if m.IsBoundaryHalfedge(h) && m.IsBoundaryHalfedge(o) {
			if err := m.DeleteOnlyEdge(h); err != nil {
				return err
			}
		}
	}
	for _, v := range verts {
		if m.HasVertex(v) && m.IsIsolated(v) {
			m.removeVertex(v)
		}
	}
	return nil
}

// DeleteEdge removes the halfedge pair of h with the same cascade rules
// as DeleteFace: bordering faces go first, dangling edges and isolated
// vertices follow.
func (m *Mesh) DeleteEdge(h HalfedgeID) error {
	o, err := m.OppositeHalfedge(h)
	if err != nil {
		return err
	}
	v0, err := m.DstVert(o)
	if err != nil {
		return err
	}
	v1, err := m.DstVert(h)
	if err != nil {
		return err
	}
	if f, err := m.HalfedgeFace(h); err == nil {
		if err := m.DeleteFace(f); err != nil {
			return err
		}
	}
	if m.HasHalfedge(o) {
		if f, err := m.HalfedgeFace(o); err == nil {
			if err := m.DeleteFace(f); err != nil {
				return err
			}
		}
	}
	if m.HasHalfedge(h) {
		if err := m.DeleteOnlyEdge(h); err != nil {
			return err
		}
	}
	for _, v := range []VertexID{v0, v1} {
		if m.HasVertex(v) && m.IsIsolated(v) {
			m.removeVertex(v)
		}
	}
	return nil
}

// DeleteVertex removes v together with every incident face, cascading
// like DeleteFace.
func (m *Mesh) DeleteVertex(v VertexID) error {
	if !m.HasVertex(v) {
		return errVertexNotFound(v)
	}
	for _, f := range m.FacesAroundVertex(v) {
		if !m.HasFace(f) {
			continue
		}
		if err := m.DeleteFace(f); err != nil {
			return err
		}
	}
	if m.HasVertex(v) {
		// Remaining incident edges (wire edges without faces).
		for _, h := range m.HalfedgesAroundVertex(v) {
			if m.HasHalfedge(h) {
				if err := m.DeleteOnlyEdge(h); err != nil {
					return err
				}
			}
		}
		m.removeVertex(v)
	}
	return nil
}

// IsCollapseOK checks whether collapsing h (merging its source vertex
// into its destination) keeps the mesh manifold. Faces incident to the
// edge must be triangles.
func (m *Mesh) IsCollapseOK(h HalfedgeID) error {
	o, err := m.OppositeHalfedge(h)
	if err != nil {
		return err
	}
	v0, err := m.DstVert(o)
	if err != nil {
		return err
	}
	v1, err := m.DstVert(h)
	if err != nil {
		return err
	}

	// vl and vr are the apex vertices of the triangles on either side,
	// when those sides have faces.
	var vl, vr VertexID
	if !m.IsBoundaryHalfedge(h) {
		if fv := m.faceValenceOf(h); fv != 3 {
			return errTopology("collapse needs triangle faces, got valence %d", fv)
		}
		h1, err := m.NextHalfedge(h)
		if err != nil {
			return err
		}
		h2, err := m.NextHalfedge(h1)
		if err != nil {
			return err
		}
		o1, err := m.OppositeHalfedge(h1)
		if err != nil {
			return err
		}
		o2, err := m.OppositeHalfedge(h2)
		if err != nil {
			return err
		}
		if m.IsBoundaryHalfedge(o1) && m.IsBoundaryHalfedge(o2) {
			return errTopology("collapse of %s would pinch a dangling triangle", h)
		}
		vl, _ = m.DstVert(h1)
	}
	if !m.IsBoundaryHalfedge(o) {
		if fv := m.faceValenceOf(o); fv != 3 {
			return errTopology("collapse needs triangle faces, got valence %d", fv)
		}
		h1, err := m.NextHalfedge(o)
		if err != nil {
			return err
		}
		h2, err := m.NextHalfedge(h1)
		if err != nil {
			return err
		}
		o1, err := m.OppositeHalfedge(h1)
		if err != nil {
			return err
		}
		o2, err := m.OppositeHalfedge(h2)
		if err != nil {
			return err
		}
		if m.IsBoundaryHalfedge(o1) && m.IsBoundaryHalfedge(o2) {
			return errTopology("collapse of %s would pinch a dangling triangle", h)
		}
		vr, _ = m.DstVert(h1)
	}
	if vl.IsZero() && vr.IsZero() {
		return errTopology("cannot collapse an isolated edge")
	}
	if m.IsBoundaryVertex(v0) && m.IsBoundaryVertex(v1) &&
		!m.IsBoundaryHalfedge(h) && !m.IsBoundaryHalfedge(o) {
		return errTopology("collapse of interior edge %s would join two boundaries", h)
	}

	// Any shared one-ring neighbour other than the triangle apexes
	// would fold into a non-manifold edge.
	for _, vv := range m.VerticesAroundVertex(v0) {
		if vv == v1 || vv == vl || vv == vr {
			continue
		}
		if _, err := m.FindHalfedge(vv, v1); err == nil {
			return errTopology("collapse of %s would fold vertex %s onto a shared neighbour", h, vv)
		}
	}
	return nil
}

func (m *Mesh) faceValenceOf(h HalfedgeID) int {
	f, err := m.HalfedgeFace(h)
	if err != nil {
		return 0
	}
	return m.FaceValence(f)
}

// Collapse merges the source vertex of h into its destination. The
// destination vertex survives and is returned; degenerate two-sided
// loops left behind are dissolved. Callers that need the operation to
// be safe should consult IsCollapseOK first.
func (m *Mesh) Collapse(h HalfedgeID) (VertexID, error) {
	if err := m.IsCollapseOK(h); err != nil {
		return VertexID{}, err
	}
	h1, err := m.PrevHalfedge(h)
	if err != nil {
		return VertexID{}, err
	}
	o0, err := m.OppositeHalfedge(h)
	if err != nil {
		return VertexID{}, err
	}
	o1, err := m.NextHalfedge(o0)
	if err != nil {
		return VertexID{}, err
	}
	v1, err := m.DstVert(h)
	if err != nil {
		return VertexID{}, err
	}

	if err := m.collapseEdge(h); err != nil {
		return VertexID{}, err
	}
	if m.HasHalfedge(h1) && m.isDegenerateLoop(h1) {
		if err := m.collapseLoop(h1); err != nil {
			return VertexID{}, err
		}
	}
	if m.HasHalfedge(o1) && m.isDegenerateLoop(o1) {
		if err := m.collapseLoop(o1); err != nil {
			return VertexID{}, err
		}
	}
	return v1, nil
}

func (m *Mesh) isDegenerateLoop(h HalfedgeID) bool {
	n, err := m.NextHalfedge(h)
	if err != nil {
		return false
	}
	nn, err := m.NextHalfedge(n)
	if err != nil {
		return false
	}
	return nn == h && n != h
}

// collapseEdge retargets every halfedge pointing at the source vertex
// onto the destination, threads the loops past the removed pair and
// drops the source vertex.
func (m *Mesh) collapseEdge(h HalfedgeID) error {
	o, err := m.OppositeHalfedge(h)
	if err != nil {
		return err
	}
	hn, err := m.NextHalfedge(h)
	if err != nil {
		return err
	}
	hp, err := m.PrevHalfedge(h)
	if err != nil {
		return err
	}
	on, err := m.NextHalfedge(o)
	if err != nil {
		return err
	}
	op, err := m.PrevHalfedge(o)
	if err != nil {
		return err
	}
	vKeep, err := m.DstVert(h)
	if err != nil {
		return err
	}
	vGone, err := m.DstVert(o)
	if err != nil {
		return err
	}
	faceH, _ := m.HalfedgeFace(h)
	faceO, _ := m.HalfedgeFace(o)

	for _, in := range m.IncomingHalfedgesAroundVertex(vGone) {
		rec, err := m.halfedgeRec(in)
		if err != nil {
			return err
		}
		rec.vertex = vKeep
	}

	m.setNext(hp, hn)
	m.setNext(op, on)

	if !faceH.IsZero() {
		if rec, err := m.faceRec(faceH); err == nil {
			rec.halfedge = hn
		}
	}
	if !faceO.IsZero() {
		if rec, err := m.faceRec(faceO); err == nil {
			rec.halfedge = on
		}
	}

	rv, err := m.vertexRec(vKeep)
	if err != nil {
		return err
	}
	if rv.halfedge == o {
		rv.halfedge = hn
	}

	m.removeVertex(vGone)
	m.removeHalfedge(h)
	m.removeHalfedge(o)

	return m.adjustOutgoingHalfedge(vKeep)
}

// collapseLoop dissolves a two-sided loop containing h, gluing the
// surviving side onto the neighbouring face.
func (m *Mesh) collapseLoop(h HalfedgeID) error {
	h1, err := m.NextHalfedge(h)
	if err != nil {
		return err
	}
	o0, err := m.OppositeHalfedge(h)
	if err != nil {
		return err
	}
	o1, err := m.OppositeHalfedge(h1)
	if err != nil {
		return err
	}
	v0, err := m.DstVert(h)
	if err != nil {
		return err
	}
	v1, err := m.DstVert(h1)
	if err != nil {
		return err
	}
	faceH, _ := m.HalfedgeFace(h)
	faceO, _ := m.HalfedgeFace(o0)

	on, err := m.NextHalfedge(o0)
	if err != nil {
		return err
	}
	op, err := m.PrevHalfedge(o0)
	if err != nil {
		return err
	}

	m.setNext(h1, on)
	m.setNext(op, h1)

	r1, err := m.halfedgeRec(h1)
	if err != nil {
		return err
	}
	r1.face = faceO

	rv0, err := m.vertexRec(v0)
	if err != nil {
		return err
	}
	rv0.halfedge = h1
	rv1, err := m.vertexRec(v1)
	if err != nil {
		return err
	}
	rv1.halfedge = o1

	if !faceO.IsZero() {
		if rec, err := m.faceRec(faceO); err == nil && rec.halfedge == o0 {
			rec.halfedge = h1
		}
	}
	if !faceH.IsZero() {
		m.removeFace(faceH)
	}

	m.removeHalfedge(h)
	m.removeHalfedge(o0)

	if err := m.adjustOutgoingHalfedge(v0); err != nil {
		return err
	}
	return m.adjustOutgoingHalfedge(v1)
}

// IsRemovalOK checks whether the edge of h can be dissolved to merge
// its two faces: both sides must have distinct faces that share no
// vertex beyond the edge's endpoints.
func (m *Mesh) IsRemovalOK(h HalfedgeID) error {
	o, err := m.OppositeHalfedge(h)
	if err != nil {
		return err
	}
	f0, err := m.HalfedgeFace(h)
	if err != nil {
		return errTopology("cannot remove boundary edge %s", h)
	}
	f1, err := m.HalfedgeFace(o)
	if err != nil {
		return errTopology("cannot remove boundary edge %s", h)
	}
	if f0 == f1 {
		return errTopology("edge %s borders face %s on both sides", h, f0)
	}
	v0, err := m.SrcVert(h)
	if err != nil {
		return err
	}
	v1, err := m.DstVert(h)
	if err != nil {
		return err
	}
	other := make(map[VertexID]bool)
	for _, v := range m.VerticesAroundFace(f1) {
		other[v] = true
	}
	for _, v := range m.VerticesAroundFace(f0) {
		if v == v0 || v == v1 {
			continue
		}
		if other[v] {
			return errTopology("faces %s and %s share vertex %s beyond the removed edge", f0, f1, v)
		}
	}
	return nil
}

// RemoveEdge dissolves the edge of h, merging the face on its opposite
// side into the face on its own side. The surviving face is returned.
func (m *Mesh) RemoveEdge(h HalfedgeID) (FaceID, error) {
	if err := m.IsRemovalOK(h); err != nil {
		return FaceID{}, err
	}
	o, _ := m.OppositeHalfedge(h)
	f0, _ := m.HalfedgeFace(h)
	f1, _ := m.HalfedgeFace(o)
	h0prev, err := m.PrevHalfedge(h)
	if err != nil {
		return FaceID{}, err
	}
	h0next, err := m.NextHalfedge(h)
	if err != nil {
		return FaceID{}, err
	}
	h1prev, err := m.PrevHalfedge(o)
	if err != nil {
		return FaceID{}, err
	}
	h1next, err := m.NextHalfedge(o)
	if err != nil {
		return FaceID{}, err
	}
	v0, _ := m.SrcVert(h)
	v1, _ := m.DstVert(h)

	for _, hh := range m.HalfedgesAroundFace(f1) {
		rec, err := m.halfedgeRec(hh)
		if err != nil {
			return FaceID{}, err
		}
		rec.face = f0
	}

	m.setNext(h0prev, h1next)
	m.setNext(h1prev, h0next)

	rf0, _ := m.faceRec(f0)
	if rf0.halfedge == h {
		rf0.halfedge = h1next
	}
	rv0, _ := m.vertexRec(v0)
	if rv0.halfedge == h {
		rv0.halfedge = h1next
	}
	rv1, _ := m.vertexRec(v1)
	if rv1.halfedge == o {
		rv1.halfedge = h0next
	}

	m.removeFace(f1)
	m.removeHalfedge(h)
	m.removeHalfedge(o)

	if err := m.adjustOutgoingHalfedge(v0); err != nil {
		return FaceID{}, err
	}
	if err := m.adjustOutgoingHalfedge(v1); err != nil {
		return FaceID{}, err
	}
	return f0, nil
}
