// Package mesh implements an editable halfedge data structure for
// manifold polygon meshes. Connectivity lives in generational arenas;
// geometry and other attributes are stored in side maps keyed by
// element ID, so deleting an element invalidates its ID everywhere.
package mesh

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// vertexRecord stores per-vertex connectivity. The outgoing halfedge is
// a boundary halfedge whenever the vertex has one, which makes boundary
// tests O(1) and ring walks start on the open side.
type vertexRecord struct {
	halfedge HalfedgeID // outgoing, zero if isolated
}

// halfedgeRecord stores per-halfedge connectivity. vertex is the
// destination; face is zero for boundary halfedges.
type halfedgeRecord struct {
	vertex   VertexID
	face     FaceID
	opposite HalfedgeID
	prev     HalfedgeID
	next     HalfedgeID
}

type faceRecord struct {
	halfedge HalfedgeID // one halfedge of the face loop
}

// Mesh is an editable halfedge mesh. The zero value is not usable; use
// New.
type Mesh struct {
	verts arena[vertexRecord]
	hes   arena[halfedgeRecord]
	fcs   arena[faceRecord]

	positions     map[VertexID]v3.Vec
	vertexNormals map[VertexID]v3.Vec
	faceNormals   map[FaceID]v3.Vec
	uvs           map[HalfedgeID]v2.Vec

	vertexAttrs   map[string]*AttributeMap[VertexID]
	halfedgeAttrs map[string]*AttributeMap[HalfedgeID]
	faceAttrs     map[string]*AttributeMap[FaceID]
}

// New returns an empty mesh.
func New() *Mesh {
	return &Mesh{
		positions:     make(map[VertexID]v3.Vec),
		vertexNormals: make(map[VertexID]v3.Vec),
		faceNormals:   make(map[FaceID]v3.Vec),
		uvs:           make(map[HalfedgeID]v2.Vec),
		vertexAttrs:   make(map[string]*AttributeMap[VertexID]),
		halfedgeAttrs: make(map[string]*AttributeMap[HalfedgeID]),
		faceAttrs:     make(map[string]*AttributeMap[FaceID]),
	}
}

// VertexCount returns the number of live vertices.
func (m *Mesh) VertexCount() int { return m.verts.count }

// HalfedgeCount returns the number of live halfedges.
func (m *Mesh) HalfedgeCount() int { return m.hes.count }

// FaceCount returns the number of live faces.
func (m *Mesh) FaceCount() int { return m.fcs.count }

// HasVertex reports whether id refers to a live vertex.
func (m *Mesh) HasVertex(id VertexID) bool { return m.verts.contains(id.k) }

// HasHalfedge reports whether id refers to a live halfedge.
func (m *Mesh) HasHalfedge(id HalfedgeID) bool { return m.hes.contains(id.k) }

// HasFace reports whether id refers to a live face.
func (m *Mesh) HasFace(id FaceID) bool { return m.fcs.contains(id.k) }

// Vertices returns all live vertex IDs in allocation order.
func (m *Mesh) Vertices() []VertexID {
	keys := m.verts.keys()
	out := make([]VertexID, len(keys))
	for i, k := range keys {
		out[i] = VertexID{k}
	}
	return out
}

// Halfedges returns all live halfedge IDs in allocation order.
func (m *Mesh) Halfedges() []HalfedgeID {
	keys := m.hes.keys()
	out := make([]HalfedgeID, len(keys))
	for i, k := range keys {
		out[i] = HalfedgeID{k}
	}
	return out
}

// Faces returns all live face IDs in allocation order.
func (m *Mesh) Faces() []FaceID {
	keys := m.fcs.keys()
	out := make([]FaceID, len(keys))
	for i, k := range keys {
		out[i] = FaceID{k}
	}
	return out
}

func (m *Mesh) vertexRec(id VertexID) (*vertexRecord, error) {
	rec, ok := m.verts.get(id.k)
	if !ok {
		return nil, errVertexNotFound(id)
	}
	return rec, nil
}

func (m *Mesh) halfedgeRec(id HalfedgeID) (*halfedgeRecord, error) {
	rec, ok := m.hes.get(id.k)
	if !ok {
		return nil, errHalfedgeNotFound(id)
	}
	return rec, nil
}

func (m *Mesh) faceRec(id FaceID) (*faceRecord, error) {
	rec, ok := m.fcs.get(id.k)
	if !ok {
		return nil, errFaceNotFound(id)
	}
	return rec, nil
}

// AddVertex creates an isolated vertex at position p.
func (m *Mesh) AddVertex(p v3.Vec) VertexID {
	id := VertexID{m.verts.insert(vertexRecord{})}
	m.positions[id] = p
	return id
}

// removeVertex drops the vertex record along with all its attributes.
func (m *Mesh) removeVertex(id VertexID) {
	m.verts.remove(id.k)
	delete(m.positions, id)
	delete(m.vertexNormals, id)
	for _, am := range m.vertexAttrs {
		am.Remove(id)
	}
}

// removeHalfedge drops one halfedge record (not its opposite) along
// with its attributes.
func (m *Mesh) removeHalfedge(id HalfedgeID) {
	m.hes.remove(id.k)
	delete(m.uvs, id)
	for _, am := range m.halfedgeAttrs {
		am.Remove(id)
	}
}

// removeFace drops the face record along with its attributes.
func (m *Mesh) removeFace(id FaceID) {
	m.fcs.remove(id.k)
	delete(m.faceNormals, id)
	for _, am := range m.faceAttrs {
		am.Remove(id)
	}
}

// addEdgePair allocates an opposite halfedge pair between v0 and v1.
// The returned halfedges point v0->v1 and v1->v0; next/prev and face
// references are left unset for the caller to wire.
func (m *Mesh) addEdgePair(v0, v1 VertexID) (HalfedgeID, HalfedgeID) {
	h0 := HalfedgeID{m.hes.insert(halfedgeRecord{vertex: v1})}
	h1 := HalfedgeID{m.hes.insert(halfedgeRecord{vertex: v0})}
	r0, _ := m.hes.get(h0.k)
	r0.opposite = h1
	r1, _ := m.hes.get(h1.k)
	r1.opposite = h0
	return h0, h1
}

// setNext links a -> b in face-loop order, keeping next and prev
// mutually consistent.
func (m *Mesh) setNext(a, b HalfedgeID) {
	if ra, ok := m.hes.get(a.k); ok {
		ra.next = b
	}
	if rb, ok := m.hes.get(b.k); ok {
		rb.prev = a
	}
}

// OutgoingHalfedge returns the stored outgoing halfedge of v. Isolated
// vertices fail with ErrMissingRef.
func (m *Mesh) OutgoingHalfedge(v VertexID) (HalfedgeID, error) {
	rec, err := m.vertexRec(v)
	if err != nil {
		return HalfedgeID{}, err
	}
	if rec.halfedge.IsZero() {
		return HalfedgeID{}, errMissingRef("vertex %s has no outgoing halfedge", v)
	}
	return rec.halfedge, nil
}

// DstVert returns the destination vertex of h.
func (m *Mesh) DstVert(h HalfedgeID) (VertexID, error) {
	rec, err := m.halfedgeRec(h)
	if err != nil {
		return VertexID{}, err
	}
	return rec.vertex, nil
}

// SrcVert returns the source vertex of h, i.e. the destination of its
// opposite.
func (m *Mesh) SrcVert(h HalfedgeID) (VertexID, error) {
	o, err := m.OppositeHalfedge(h)
	if err != nil {
		return VertexID{}, err
	}
	return m.DstVert(o)
}

// OppositeHalfedge returns the paired halfedge of h.
func (m *Mesh) OppositeHalfedge(h HalfedgeID) (HalfedgeID, error) {
	rec, err := m.halfedgeRec(h)
	if err != nil {
		return HalfedgeID{}, err
	}
	if rec.opposite.IsZero() {
		return HalfedgeID{}, errMissingRef("halfedge %s has no opposite", h)
	}
	return rec.opposite, nil
}

// NextHalfedge returns the successor of h in its loop.
func (m *Mesh) NextHalfedge(h HalfedgeID) (HalfedgeID, error) {
	rec, err := m.halfedgeRec(h)
	if err != nil {
		return HalfedgeID{}, err
	}
	if rec.next.IsZero() {
		return HalfedgeID{}, errMissingRef("halfedge %s has no next", h)
	}
	return rec.next, nil
}

// PrevHalfedge returns the predecessor of h in its loop.
func (m *Mesh) PrevHalfedge(h HalfedgeID) (HalfedgeID, error) {
	rec, err := m.halfedgeRec(h)
	if err != nil {
		return HalfedgeID{}, err
	}
	if rec.prev.IsZero() {
		return HalfedgeID{}, errMissingRef("halfedge %s has no prev", h)
	}
	return rec.prev, nil
}

// HalfedgeFace returns the face h borders. Boundary halfedges fail with
// ErrMissingRef.
func (m *Mesh) HalfedgeFace(h HalfedgeID) (FaceID, error) {
	rec, err := m.halfedgeRec(h)
	if err != nil {
		return FaceID{}, err
	}
	if rec.face.IsZero() {
		return FaceID{}, errMissingRef("halfedge %s is on the boundary", h)
	}
	return rec.face, nil
}

// FaceHalfedge returns one halfedge of f's loop.
func (m *Mesh) FaceHalfedge(f FaceID) (HalfedgeID, error) {
	rec, err := m.faceRec(f)
	if err != nil {
		return HalfedgeID{}, err
	}
	if rec.halfedge.IsZero() {
		return HalfedgeID{}, errMissingRef("face %s has no halfedge", f)
	}
	return rec.halfedge, nil
}

// CWRotatedNeighbour returns the next outgoing halfedge of the same
// source vertex in clockwise order.
func (m *Mesh) CWRotatedNeighbour(h HalfedgeID) (HalfedgeID, error) {
	o, err := m.OppositeHalfedge(h)
	if err != nil {
		return HalfedgeID{}, err
	}
	return m.NextHalfedge(o)
}

// CCWRotatedNeighbour returns the next outgoing halfedge of the same
// source vertex in counter-clockwise order.
func (m *Mesh) CCWRotatedNeighbour(h HalfedgeID) (HalfedgeID, error) {
	p, err := m.PrevHalfedge(h)
	if err != nil {
		return HalfedgeID{}, err
	}
	return m.OppositeHalfedge(p)
}

// FindHalfedge returns the halfedge pointing from v0 to v1, scanning
// v0's outgoing ring.
func (m *Mesh) FindHalfedge(v0, v1 VertexID) (HalfedgeID, error) {
	if v0 == v1 {
		return HalfedgeID{}, errTopology("no halfedge from %s to itself", v0)
	}
	if !m.HasVertex(v1) {
		return HalfedgeID{}, errVertexNotFound(v1)
	}
	start, err := m.OutgoingHalfedge(v0)
	if err != nil {
		return HalfedgeID{}, err
	}
	h := start
	for i := 0; ; i++ {
		guardLoop(i)
		dst, err := m.DstVert(h)
		if err != nil {
			return HalfedgeID{}, err
		}
		if dst == v1 {
			return h, nil
		}
		h, err = m.CWRotatedNeighbour(h)
		if err != nil {
			return HalfedgeID{}, err
		}
		if h == start {
			return HalfedgeID{}, errMissingRef("no halfedge from %s to %s", v0, v1)
		}
	}
}

// FindFace returns the face whose loop traverses the given vertices in
// winding order, starting anywhere.
func (m *Mesh) FindFace(verts []VertexID) (FaceID, error) {
	if len(verts) < 3 {
		return FaceID{}, errTopology("face lookup needs at least 3 vertices, got %d", len(verts))
	}
	h, err := m.FindHalfedge(verts[0], verts[1])
	if err != nil {
		return FaceID{}, err
	}
	f, err := m.HalfedgeFace(h)
	if err != nil {
		return FaceID{}, err
	}
	loop := m.VerticesAroundFace(f)
	if len(loop) != len(verts) {
		return FaceID{}, errMissingRef("no face over %d given vertices", len(verts))
	}
	set := make(map[VertexID]bool, len(loop))
	for _, v := range loop {
		set[v] = true
	}
	for _, v := range verts {
		if !set[v] {
			return FaceID{}, errMissingRef("no face containing vertex %s in the given loop", v)
		}
	}
	return f, nil
}

// IsBoundaryHalfedge reports whether h has no face. Unknown halfedges
// report false.
func (m *Mesh) IsBoundaryHalfedge(h HalfedgeID) bool {
	rec, ok := m.hes.get(h.k)
	return ok && rec.face.IsZero()
}

// IsBoundaryVertex reports whether v is isolated or has a boundary
// halfedge in its outgoing ring.
func (m *Mesh) IsBoundaryVertex(v VertexID) bool {
	rec, ok := m.verts.get(v.k)
	if !ok {
		return false
	}
	if rec.halfedge.IsZero() {
		return true
	}
	for _, h := range m.HalfedgesAroundVertex(v) {
		if m.IsBoundaryHalfedge(h) {
			return true
		}
	}
	return false
}

// IsBoundaryFace reports whether any halfedge of f's loop has a
// boundary opposite.
func (m *Mesh) IsBoundaryFace(f FaceID) bool {
	for _, h := range m.HalfedgesAroundFace(f) {
		o, err := m.OppositeHalfedge(h)
		if err == nil && m.IsBoundaryHalfedge(o) {
			return true
		}
	}
	return false
}

// IsIsolated reports whether v has no outgoing halfedge.
func (m *Mesh) IsIsolated(v VertexID) bool {
	rec, ok := m.verts.get(v.k)
	return ok && rec.halfedge.IsZero()
}

// IsManifoldVertex reports whether v sees at most one boundary gap in
// its outgoing ring.
func (m *Mesh) IsManifoldVertex(v VertexID) bool {
	n := 0
	for _, h := range m.HalfedgesAroundVertex(v) {
		if m.IsBoundaryHalfedge(h) {
			n++
		}
	}
	return n <= 1
}

// VertexValence returns the number of neighbouring vertices of v.
func (m *Mesh) VertexValence(v VertexID) int {
	return len(m.VerticesAroundVertex(v))
}

// FaceValence returns the number of vertices in f's loop.
func (m *Mesh) FaceValence(f FaceID) int {
	return len(m.VerticesAroundFace(f))
}

// IsTriangleMesh reports whether every face is a triangle.
func (m *Mesh) IsTriangleMesh() bool {
	for _, f := range m.Faces() {
		if m.FaceValence(f) != 3 {
			return false
		}
	}
	return true
}

// IsQuadMesh reports whether every face is a quad.
func (m *Mesh) IsQuadMesh() bool {
	for _, f := range m.Faces() {
		if m.FaceValence(f) != 4 {
			return false
		}
	}
	return true
}

// adjustOutgoingHalfedge rotates v's stored outgoing halfedge onto a
// boundary halfedge if one exists. Fully interior vertices keep their
// current reference. Calling it again is a no-op once a boundary
// halfedge is stored.
func (m *Mesh) adjustOutgoingHalfedge(v VertexID) error {
	rec, err := m.vertexRec(v)
	if err != nil {
		return err
	}
	if rec.halfedge.IsZero() {
		return nil
	}
	start := rec.halfedge
	h := start
	for i := 0; ; i++ {
		guardLoop(i)
		if m.IsBoundaryHalfedge(h) {
			rec.halfedge = h
			return nil
		}
		h, err = m.CWRotatedNeighbour(h)
		if err != nil {
			return err
		}
		if h == start {
			return nil
		}
	}
}
