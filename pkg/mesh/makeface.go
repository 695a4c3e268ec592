package mesh

// MakeFace adds a face over the given vertex loop, reusing existing
// boundary halfedges between consecutive vertices and allocating fresh
// pairs elsewhere. Vertices must be listed counter-clockwise when seen
// from the side the face normal should point to.
//
// The operation is transactional: link writes are buffered in a next
// cache and only committed once the whole loop has validated, so a
// failed call leaves the mesh exactly as it was.
func (m *Mesh) MakeFace(vertices []VertexID) (FaceID, error) {
	n := len(vertices)
	if n < 3 {
		return FaceID{}, errTopology("face needs at least 3 vertices, got %d", n)
	}

	type loopEdge struct {
		he    HalfedgeID
		isNew bool
	}

	var created []HalfedgeID // first halfedge of each fresh pair
	rollback := func() {
		for _, h := range created {
			if rec, ok := m.hes.get(h.k); ok {
				opp := rec.opposite
				m.removeHalfedge(h)
				m.removeHalfedge(opp)
			}
		}
	}

	// Pass 1: validate vertices, resolve or allocate the loop edges.
	edges := make([]loopEdge, 0, n)
	for i := 0; i < n; i++ {
		v0 := vertices[i]
		v1 := vertices[(i+1)%n]
		if !m.HasVertex(v0) {
			rollback()
			return FaceID{}, errVertexNotFound(v0)
		}
		if !m.IsBoundaryVertex(v0) {
			rollback()
			return FaceID{}, errTopology("vertex %s is not on the boundary", v0)
		}
		he, err := m.FindHalfedge(v0, v1)
		if err == nil {
			if !m.IsBoundaryHalfedge(he) {
				rollback()
				return FaceID{}, errTopology("halfedge %s->%s already borders a face", v0, v1)
			}
			edges = append(edges, loopEdge{he: he})
			continue
		}
		he, _ = m.addEdgePair(v0, v1)
		created = append(created, he)
		edges = append(edges, loopEdge{he: he, isNew: true})
	}

	type link struct{ from, to HalfedgeID }
	type vertLink struct {
		v VertexID
		h HalfedgeID
	}
	var nextCache []link
	var vertCache []vertLink
	var needsAdjust []VertexID

	// Pass 2: where two pre-existing edges meet but do not chain, splice
	// the boundary patch between them out of the gap.
	for i := 0; i < n; i++ {
		ii := (i + 1) % n
		innerPrev := edges[i]
		innerNext := edges[ii]
		if innerPrev.isNew || innerNext.isNew {
			continue
		}
		pn, err := m.NextHalfedge(innerPrev.he)
		if err != nil {
			rollback()
			return FaceID{}, err
		}
		if pn == innerNext.he {
			continue
		}
		outerPrev, err := m.OppositeHalfedge(innerNext.he)
		if err != nil {
			rollback()
			return FaceID{}, err
		}
		boundaryPrev := outerPrev
		for j := 0; ; j++ {
			guardLoop(j)
			bn, err := m.NextHalfedge(boundaryPrev)
			if err != nil {
				rollback()
				return FaceID{}, err
			}
			boundaryPrev, err = m.OppositeHalfedge(bn)
			if err != nil {
				rollback()
				return FaceID{}, err
			}
			if m.IsBoundaryHalfedge(boundaryPrev) && boundaryPrev != innerPrev.he {
				break
			}
		}
		boundaryNext, err := m.NextHalfedge(boundaryPrev)
		if err != nil {
			rollback()
			return FaceID{}, err
		}
		if !m.IsBoundaryHalfedge(boundaryNext) || boundaryNext == innerNext.he {
			rollback()
			return FaceID{}, errTopology("no free boundary gap at vertex %s to relink patch", vertices[ii])
		}
		patchStart, err := m.NextHalfedge(innerPrev.he)
		if err != nil {
			rollback()
			return FaceID{}, err
		}
		patchEnd, err := m.PrevHalfedge(innerNext.he)
		if err != nil {
			rollback()
			return FaceID{}, err
		}
		nextCache = append(nextCache,
			link{boundaryPrev, patchStart},
			link{patchEnd, boundaryNext},
			link{innerPrev.he, innerNext.he})
	}

	// Pass 3: wire loop links around each corner vertex.
	for i := 0; i < n; i++ {
		ii := (i + 1) % n
		v := vertices[ii]
		innerPrev := edges[i]
		innerNext := edges[ii]

		if innerPrev.isNew || innerNext.isNew {
			outerPrev, err := m.OppositeHalfedge(innerNext.he)
			if err != nil {
				rollback()
				return FaceID{}, err
			}
			outerNext, err := m.OppositeHalfedge(innerPrev.he)
			if err != nil {
				rollback()
				return FaceID{}, err
			}
			switch {
			case innerPrev.isNew && !innerNext.isNew:
				boundaryPrev, err := m.PrevHalfedge(innerNext.he)
				if err != nil {
					rollback()
					return FaceID{}, err
				}
				nextCache = append(nextCache, link{boundaryPrev, outerNext})
				vertCache = append(vertCache, vertLink{v, outerNext})
			case !innerPrev.isNew && innerNext.isNew:
				boundaryNext, err := m.NextHalfedge(innerPrev.he)
				if err != nil {
					rollback()
					return FaceID{}, err
				}
				nextCache = append(nextCache, link{outerPrev, boundaryNext})
				vertCache = append(vertCache, vertLink{v, boundaryNext})
			default: // both new
				if out, err := m.OutgoingHalfedge(v); err == nil {
					boundaryNext := out
					boundaryPrev, err := m.PrevHalfedge(boundaryNext)
					if err != nil {
						rollback()
						return FaceID{}, err
					}
					nextCache = append(nextCache,
						link{boundaryPrev, outerNext},
						link{outerPrev, boundaryNext})
				} else {
					vertCache = append(vertCache, vertLink{v, outerNext})
					nextCache = append(nextCache, link{outerPrev, outerNext})
				}
			}
			nextCache = append(nextCache, link{innerPrev.he, innerNext.he})
		} else if out, err := m.OutgoingHalfedge(v); err == nil && out == innerNext.he {
			// The vertex loses this boundary halfedge to the new face;
			// re-point it after commit.
			needsAdjust = append(needsAdjust, v)
		}
	}

	// Commit. Nothing below can fail.
	face := FaceID{m.fcs.insert(faceRecord{halfedge: edges[n-1].he})}
	for _, e := range edges {
		rec, _ := m.hes.get(e.he.k)
		rec.face = face
	}
	for _, l := range nextCache {
		m.setNext(l.from, l.to)
	}
	for _, vl := range vertCache {
		rec, _ := m.verts.get(vl.v.k)
		rec.halfedge = vl.h
	}
	for _, v := range needsAdjust {
		m.adjustOutgoingHalfedge(v)
	}
	return face, nil
}

// MakeTriangle adds a triangle over v0, v1, v2.
func (m *Mesh) MakeTriangle(v0, v1, v2 VertexID) (FaceID, error) {
	return m.MakeFace([]VertexID{v0, v1, v2})
}

// MakeQuad adds a quad over v0, v1, v2, v3.
func (m *Mesh) MakeQuad(v0, v1, v2, v3 VertexID) (FaceID, error) {
	return m.MakeFace([]VertexID{v0, v1, v2, v3})
}
