package mesh

// Queries are immutable chains of connectivity steps. Building a query
// touches no mesh; Run evaluates the chain against one and returns the
// first error it hits. Because queries are plain values they can be
// stored, copied and re-run after the mesh has changed.

type stepKind uint8

const (
	stepDstVert stepKind = iota
	stepSrcVert
	stepOutgoing
	stepOpposite
	stepNext
	stepPrev
	stepFace
	stepFaceHalfedge
	stepHalfedgeTo
	stepCWRotated
	stepCCWRotated
)

type queryStep struct {
	kind stepKind
	to   VertexID // destination for stepHalfedgeTo
}

// queryValue is the cursor moved along a chain during evaluation.
// Exactly one field is meaningful at a time.
type queryValue struct {
	vertex   VertexID
	halfedge HalfedgeID
	face     FaceID
}

type queryChain struct {
	start queryValue
	steps []queryStep
}

// extend copies the chain with one more step. The shared prefix is
// copied so sibling queries never alias each other's step slices.
func (c queryChain) extend(s queryStep) queryChain {
	steps := make([]queryStep, len(c.steps), len(c.steps)+1)
	copy(steps, c.steps)
	return queryChain{start: c.start, steps: append(steps, s)}
}

func (c queryChain) run(m *Mesh) (queryValue, error) {
	cur := c.start
	var err error
	for _, s := range c.steps {
		switch s.kind {
		case stepDstVert:
			cur.vertex, err = m.DstVert(cur.halfedge)
		case stepSrcVert:
			cur.vertex, err = m.SrcVert(cur.halfedge)
		case stepOutgoing:
			cur.halfedge, err = m.OutgoingHalfedge(cur.vertex)
		case stepOpposite:
			cur.halfedge, err = m.OppositeHalfedge(cur.halfedge)
		case stepNext:
			cur.halfedge, err = m.NextHalfedge(cur.halfedge)
		case stepPrev:
			cur.halfedge, err = m.PrevHalfedge(cur.halfedge)
		case stepFace:
			cur.face, err = m.HalfedgeFace(cur.halfedge)
		case stepFaceHalfedge:
			cur.halfedge, err = m.FaceHalfedge(cur.face)
		case stepHalfedgeTo:
			cur.halfedge, err = m.FindHalfedge(cur.vertex, s.to)
		case stepCWRotated:
			cur.halfedge, err = m.CWRotatedNeighbour(cur.halfedge)
		case stepCCWRotated:
			cur.halfedge, err = m.CCWRotatedNeighbour(cur.halfedge)
		}
		if err != nil {
			return queryValue{}, err
		}
	}
	return cur, nil
}

// VertexQuery is a query currently positioned at a vertex.
type VertexQuery struct{ chain queryChain }

// HalfedgeQuery is a query currently positioned at a halfedge.
type HalfedgeQuery struct{ chain queryChain }

// FaceQuery is a query currently positioned at a face.
type FaceQuery struct{ chain queryChain }

// QueryVertex starts a query at v.
func QueryVertex(v VertexID) VertexQuery {
	return VertexQuery{queryChain{start: queryValue{vertex: v}}}
}

// QueryHalfedge starts a query at h.
func QueryHalfedge(h HalfedgeID) HalfedgeQuery {
	return HalfedgeQuery{queryChain{start: queryValue{halfedge: h}}}
}

// QueryFace starts a query at f.
func QueryFace(f FaceID) FaceQuery {
	return FaceQuery{queryChain{start: queryValue{face: f}}}
}

// Halfedge steps to the vertex's outgoing halfedge.
func (q VertexQuery) Halfedge() HalfedgeQuery {
	return HalfedgeQuery{q.chain.extend(queryStep{kind: stepOutgoing})}
}

// HalfedgeTo steps to the halfedge connecting this vertex to dst.
func (q VertexQuery) HalfedgeTo(dst VertexID) HalfedgeQuery {
	return HalfedgeQuery{q.chain.extend(queryStep{kind: stepHalfedgeTo, to: dst})}
}

// Run evaluates the chain and returns the vertex it lands on.
func (q VertexQuery) Run(m *Mesh) (VertexID, error) {
	val, err := q.chain.run(m)
	if err != nil {
		return VertexID{}, err
	}
	if !m.HasVertex(val.vertex) {
		return VertexID{}, errVertexNotFound(val.vertex)
	}
	return val.vertex, nil
}

// DstVert steps to the halfedge's destination vertex.
func (q HalfedgeQuery) DstVert() VertexQuery {
	return VertexQuery{q.chain.extend(queryStep{kind: stepDstVert})}
}

// SrcVert steps to the halfedge's source vertex.
func (q HalfedgeQuery) SrcVert() VertexQuery {
	return VertexQuery{q.chain.extend(queryStep{kind: stepSrcVert})}
}

// Opposite steps to the paired halfedge.
func (q HalfedgeQuery) Opposite() HalfedgeQuery {
	return HalfedgeQuery{q.chain.extend(queryStep{kind: stepOpposite})}
}

// Next steps forward in the loop.
func (q HalfedgeQuery) Next() HalfedgeQuery {
	return HalfedgeQuery{q.chain.extend(queryStep{kind: stepNext})}
}

// Prev steps backward in the loop.
func (q HalfedgeQuery) Prev() HalfedgeQuery {
	return HalfedgeQuery{q.chain.extend(queryStep{kind: stepPrev})}
}

// Face steps to the bordered face.
func (q HalfedgeQuery) Face() FaceQuery {
	return FaceQuery{q.chain.extend(queryStep{kind: stepFace})}
}

// CWRotated steps to the clockwise outgoing neighbour around the source
// vertex.
func (q HalfedgeQuery) CWRotated() HalfedgeQuery {
	return HalfedgeQuery{q.chain.extend(queryStep{kind: stepCWRotated})}
}

// CCWRotated steps to the counter-clockwise outgoing neighbour around
// the source vertex.
func (q HalfedgeQuery) CCWRotated() HalfedgeQuery {
	return HalfedgeQuery{q.chain.extend(queryStep{kind: stepCCWRotated})}
}

// Run evaluates the chain and returns the halfedge it lands on.
func (q HalfedgeQuery) Run(m *Mesh) (HalfedgeID, error) {
	val, err := q.chain.run(m)
	if err != nil {
		return HalfedgeID{}, err
	}
	if !m.HasHalfedge(val.halfedge) {
		return HalfedgeID{}, errHalfedgeNotFound(val.halfedge)
	}
	return val.halfedge, nil
}

// Halfedge steps to one halfedge of the face loop.
func (q FaceQuery) Halfedge() HalfedgeQuery {
	return HalfedgeQuery{q.chain.extend(queryStep{kind: stepFaceHalfedge})}
}

// Run evaluates the chain and returns the face it lands on.
func (q FaceQuery) Run(m *Mesh) (FaceID, error) {
	val, err := q.chain.run(m)
	if err != nil {
		return FaceID{}, err
	}
	if !m.HasFace(val.face) {
		return FaceID{}, errFaceNotFound(val.face)
	}
	return val.face, nil
}
