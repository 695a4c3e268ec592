package mesh

import v2 "github.com/deadsy/sdfx/vec/v2"

// Clone returns a deep copy of m. IDs remain valid across the copy, so
// a query built against m can run against the clone.
func (m *Mesh) Clone() *Mesh {
	out := New()
	out.verts = cloneArena(m.verts)
	out.hes = cloneArena(m.hes)
	out.fcs = cloneArena(m.fcs)
	for k, v := range m.positions {
		out.positions[k] = v
	}
	for k, v := range m.vertexNormals {
		out.vertexNormals[k] = v
	}
	for k, v := range m.faceNormals {
		out.faceNormals[k] = v
	}
	for k, v := range m.uvs {
		out.uvs[k] = v
	}
	for name, am := range m.vertexAttrs {
		out.vertexAttrs[name] = cloneAttrs(am)
	}
	for name, am := range m.halfedgeAttrs {
		out.halfedgeAttrs[name] = cloneAttrs(am)
	}
	for name, am := range m.faceAttrs {
		out.faceAttrs[name] = cloneAttrs(am)
	}
	return out
}

func cloneArena[T any](a arena[T]) arena[T] {
	out := arena[T]{
		slots: make([]slot[T], len(a.slots)),
		free:  make([]uint32, len(a.free)),
		count: a.count,
	}
	copy(out.slots, a.slots)
	copy(out.free, a.free)
	return out
}

func cloneAttrs[K comparable](am *AttributeMap[K]) *AttributeMap[K] {
	out := newAttributeMap[K]()
	for k, v := range am.values {
		out.values[k] = v
	}
	return out
}

// CombineWith copies every element of other into m, leaving other
// untouched. The returned map translates other's vertex IDs to the
// corresponding IDs in m. Positions, normals, UVs and custom attributes
// come along.
func (m *Mesh) CombineWith(other *Mesh) (map[VertexID]VertexID, error) {
	vertMap := make(map[VertexID]VertexID, other.VertexCount())
	for _, v := range other.Vertices() {
		p, err := other.Position(v)
		if err != nil {
			return nil, err
		}
		nv := m.AddVertex(p)
		vertMap[v] = nv
		if n, ok := other.VertexNormal(v); ok {
			m.vertexNormals[nv] = n
		}
	}
	faceMap := make(map[FaceID]FaceID, other.FaceCount())
	for _, f := range other.Faces() {
		loop := other.VerticesAroundFace(f)
		mapped := make([]VertexID, len(loop))
		for i, v := range loop {
			mapped[i] = vertMap[v]
		}
		nf, err := m.MakeFace(mapped)
		if err != nil {
			return nil, err
		}
		faceMap[f] = nf
		if n, ok := other.FaceNormal(f); ok {
			m.faceNormals[nf] = n
		}
		// Corner UVs carry over, matched by destination vertex since
		// the rebuilt loop may start at a different corner.
		cornerUV := make(map[VertexID]Vec2Attr)
		for _, oh := range other.HalfedgesAroundFace(f) {
			dst, err := other.DstVert(oh)
			if err != nil {
				continue
			}
			if uv, ok := other.UV(oh); ok {
				cornerUV[vertMap[dst]] = Vec2Attr(uv)
			}
		}
		for _, nh := range m.HalfedgesAroundFace(nf) {
			dst, err := m.DstVert(nh)
			if err != nil {
				continue
			}
			if uv, ok := cornerUV[dst]; ok {
				m.uvs[nh] = v2.Vec(uv)
			}
		}
	}
	for name, am := range other.vertexAttrs {
		out := m.VertexAttribute(name)
		for k, v := range am.values {
			if nk, ok := vertMap[k]; ok {
				out.Set(nk, v)
			}
		}
	}
	for name, am := range other.faceAttrs {
		out := m.FaceAttribute(name)
		for k, v := range am.values {
			if nk, ok := faceMap[k]; ok {
				out.Set(nk, v)
			}
		}
	}
	// Halfedge attributes are matched by endpoint pair, which also covers
	// boundary halfedges that no face loop visits.
	for name, am := range other.halfedgeAttrs {
		out := m.HalfedgeAttribute(name)
		for oh, val := range am.values {
			s, err := other.SrcVert(oh)
			if err != nil {
				continue
			}
			d, err := other.DstVert(oh)
			if err != nil {
				continue
			}
			nh, err := m.FindHalfedge(vertMap[s], vertMap[d])
			if err != nil {
				continue
			}
			out.Set(nh, val)
		}
	}
	return vertMap, nil
}
