package mesh

// Subdivide splits every edge covered by the selection at its midpoint,
// then rebuilds the resolved faces from the split loops. Triangles
// become four triangles (three corner triangles plus the middle one),
// quads become a triangle fan around a new centroid vertex. Faces whose
// post-split loop has any other shape are left as polygons with the
// midpoints in place.
func (m *Mesh) Subdivide(sel Selection) error {
	faces, err := sel.ResolveFaces(m)
	if err != nil {
		return err
	}
	hes, err := sel.ResolveHalfedges(m)
	if err != nil {
		return err
	}

	// Split each edge once. Both halfedges of a pair may be resolved;
	// the second one is skipped.
	split := make(map[HalfedgeID]bool)
	midpoint := make(map[VertexID]bool)
	for _, h := range hes {
		if split[h] {
			continue
		}
		o, err := m.OppositeHalfedge(h)
		if err != nil {
			return err
		}
		split[h] = true
		split[o] = true
		src, err := m.SrcVert(h)
		if err != nil {
			return err
		}
		dst, err := m.DstVert(h)
		if err != nil {
			return err
		}
		p0, err := m.Position(src)
		if err != nil {
			return err
		}
		p1, err := m.Position(dst)
		if err != nil {
			return err
		}
		mid := m.AddVertex(p0.Add(p1).MulScalar(0.5))
		midpoint[mid] = true
		if _, err := m.InsertVertex(h, mid); err != nil {
			return err
		}
	}

	for _, f := range faces {
		loop := m.VerticesAroundFace(f)
		switch len(loop) {
		case 6:
			corners, mids, ok := splitLoop(loop, midpoint, 3)
			if !ok {
				continue
			}
			if err := m.DeleteOnlyFace(f); err != nil {
				return err
			}
			c0, c1, c2 := corners[0], corners[1], corners[2]
			m0, m1, m2 := mids[0], mids[1], mids[2]
			for _, tri := range [][]VertexID{
				{c0, m0, m2},
				{m0, c1, m1},
				{m1, c2, m2},
				{m0, m1, m2},
			} {
				if _, err := m.MakeFace(tri); err != nil {
					return err
				}
			}
		case 8:
			if _, _, ok := splitLoop(loop, midpoint, 4); !ok {
				continue
			}
			centroid, err := m.FaceCentroid(f)
			if err != nil {
				return err
			}
			if err := m.DeleteOnlyFace(f); err != nil {
				return err
			}
			center := m.AddVertex(centroid)
			for i := range loop {
				next := loop[(i+1)%len(loop)]
				if _, err := m.MakeTriangle(center, loop[i], next); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// splitLoop checks that loop alternates corner/midpoint and returns the
// corners and midpoints rotated so that a corner comes first, with
// mids[i] following corners[i] in winding order.
func splitLoop(loop []VertexID, midpoint map[VertexID]bool, n int) (corners, mids []VertexID, ok bool) {
	if len(loop) != 2*n {
		return nil, nil, false
	}
	start := -1
	for i, v := range loop {
		if !midpoint[v] && midpoint[loop[(i+1)%len(loop)]] {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, nil, false
	}
	for i := 0; i < 2*n; i++ {
		v := loop[(start+i)%len(loop)]
		if i%2 == 0 {
			if midpoint[v] {
				return nil, nil, false
			}
			corners = append(corners, v)
		} else {
			if !midpoint[v] {
				return nil, nil, false
			}
			mids = append(mids, v)
		}
	}
	return corners, mids, true
}
