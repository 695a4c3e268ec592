package mesh

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Position returns the position of v.
func (m *Mesh) Position(v VertexID) (v3.Vec, error) {
	if !m.HasVertex(v) {
		return v3.Vec{}, errVertexNotFound(v)
	}
	p, ok := m.positions[v]
	if !ok {
		return v3.Vec{}, errMissingRef("vertex %s has no position", v)
	}
	return p, nil
}

// SetPosition moves v to p.
func (m *Mesh) SetPosition(v VertexID, p v3.Vec) error {
	if !m.HasVertex(v) {
		return errVertexNotFound(v)
	}
	m.positions[v] = p
	return nil
}

// VertexNormal returns the stored normal of v, if any. Normals are only
// present after RecalculateNormals.
func (m *Mesh) VertexNormal(v VertexID) (v3.Vec, bool) {
	n, ok := m.vertexNormals[v]
	return n, ok
}

// FaceNormal returns the stored normal of f, if any.
func (m *Mesh) FaceNormal(f FaceID) (v3.Vec, bool) {
	n, ok := m.faceNormals[f]
	return n, ok
}

// UV returns the texture coordinate stored on h, if any. UVs live on
// halfedges rather than vertices so that seams can carry different
// coordinates per face corner.
func (m *Mesh) UV(h HalfedgeID) (v2.Vec, bool) {
	uv, ok := m.uvs[h]
	return uv, ok
}

// SetUV stores a texture coordinate on h.
func (m *Mesh) SetUV(h HalfedgeID, uv v2.Vec) error {
	if !m.HasHalfedge(h) {
		return errHalfedgeNotFound(h)
	}
	m.uvs[h] = uv
	return nil
}

// RecalculateNormals recomputes face and vertex normals from positions.
// Face normals come from the cross product of the first two edges of
// the loop. Vertex normals accumulate the unnormalized cross products
// of all incident faces, so larger faces weigh more, and are normalized
// at the end.
func (m *Mesh) RecalculateNormals() error {
	sums := make(map[VertexID]v3.Vec, m.verts.count)
	for _, f := range m.Faces() {
		verts := m.VerticesAroundFace(f)
		if len(verts) < 3 {
			return errTopology("face %s has fewer than 3 vertices", f)
		}
		p0, err := m.Position(verts[0])
		if err != nil {
			return err
		}
		p1, err := m.Position(verts[1])
		if err != nil {
			return err
		}
		p2, err := m.Position(verts[2])
		if err != nil {
			return err
		}
		cross := p1.Sub(p0).Cross(p2.Sub(p0))
		m.faceNormals[f] = cross.Normalize()
		for _, v := range verts {
			sums[v] = sums[v].Add(cross)
		}
	}
	for v, sum := range sums {
		m.vertexNormals[v] = sum.Normalize()
	}
	return nil
}

// FlipNormals negates all stored normals. Connectivity and winding are
// untouched.
func (m *Mesh) FlipNormals() {
	for f, n := range m.faceNormals {
		m.faceNormals[f] = n.Neg()
	}
	for v, n := range m.vertexNormals {
		m.vertexNormals[v] = n.Neg()
	}
}

// Attribute is a value storable in a custom attribute map. The variants
// are IntAttr, FloatAttr, Vec2Attr, Vec3Attr and StringAttr.
type Attribute interface {
	attribute()
}

// IntAttr is an integer attribute value.
type IntAttr int

// FloatAttr is a scalar attribute value.
type FloatAttr float64

// Vec2Attr is a 2D vector attribute value.
type Vec2Attr v2.Vec

// Vec3Attr is a 3D vector attribute value.
type Vec3Attr v3.Vec

// StringAttr is a string attribute value.
type StringAttr string

func (IntAttr) attribute()    {}
func (FloatAttr) attribute()  {}
func (Vec2Attr) attribute()   {}
func (Vec3Attr) attribute()   {}
func (StringAttr) attribute() {}

// AttributeMap stores custom per-element values, keyed by element ID.
// Deleting an element drops its entries from every registered map.
type AttributeMap[K comparable] struct {
	values map[K]Attribute
}

func newAttributeMap[K comparable]() *AttributeMap[K] {
	return &AttributeMap[K]{values: make(map[K]Attribute)}
}

// Set stores val for k, replacing any previous value.
func (am *AttributeMap[K]) Set(k K, val Attribute) {
	am.values[k] = val
}

// Get returns the stored value for k.
func (am *AttributeMap[K]) Get(k K) (Attribute, bool) {
	v, ok := am.values[k]
	return v, ok
}

// Remove drops the value for k.
func (am *AttributeMap[K]) Remove(k K) {
	delete(am.values, k)
}

// Len returns the number of stored values.
func (am *AttributeMap[K]) Len() int {
	return len(am.values)
}

// Int returns the value for k as an int, failing with ErrAttribute if
// missing or of a different variant.
func (am *AttributeMap[K]) Int(k K) (int, error) {
	v, ok := am.values[k]
	if !ok {
		return 0, errAttrMissing(k)
	}
	i, ok := v.(IntAttr)
	if !ok {
		return 0, errAttrVariant(k, v)
	}
	return int(i), nil
}

// Float returns the value for k as a float64.
func (am *AttributeMap[K]) Float(k K) (float64, error) {
	v, ok := am.values[k]
	if !ok {
		return 0, errAttrMissing(k)
	}
	f, ok := v.(FloatAttr)
	if !ok {
		return 0, errAttrVariant(k, v)
	}
	return float64(f), nil
}

// Vec2 returns the value for k as a v2.Vec.
func (am *AttributeMap[K]) Vec2(k K) (v2.Vec, error) {
	v, ok := am.values[k]
	if !ok {
		return v2.Vec{}, errAttrMissing(k)
	}
	vec, ok := v.(Vec2Attr)
	if !ok {
		return v2.Vec{}, errAttrVariant(k, v)
	}
	return v2.Vec(vec), nil
}

// Vec3 returns the value for k as a v3.Vec.
func (am *AttributeMap[K]) Vec3(k K) (v3.Vec, error) {
	v, ok := am.values[k]
	if !ok {
		return v3.Vec{}, errAttrMissing(k)
	}
	vec, ok := v.(Vec3Attr)
	if !ok {
		return v3.Vec{}, errAttrVariant(k, v)
	}
	return v3.Vec(vec), nil
}

// String returns the value for k as a string.
func (am *AttributeMap[K]) String(k K) (string, error) {
	v, ok := am.values[k]
	if !ok {
		return "", errAttrMissing(k)
	}
	s, ok := v.(StringAttr)
	if !ok {
		return "", errAttrVariant(k, v)
	}
	return string(s), nil
}

// VertexAttribute returns the named custom vertex attribute map,
// creating it on first use.
func (m *Mesh) VertexAttribute(name string) *AttributeMap[VertexID] {
	am, ok := m.vertexAttrs[name]
	if !ok {
		am = newAttributeMap[VertexID]()
		m.vertexAttrs[name] = am
	}
	return am
}

// HalfedgeAttribute returns the named custom halfedge attribute map,
// creating it on first use.
func (m *Mesh) HalfedgeAttribute(name string) *AttributeMap[HalfedgeID] {
	am, ok := m.halfedgeAttrs[name]
	if !ok {
		am = newAttributeMap[HalfedgeID]()
		m.halfedgeAttrs[name] = am
	}
	return am
}

// FaceAttribute returns the named custom face attribute map, creating
// it on first use.
func (m *Mesh) FaceAttribute(name string) *AttributeMap[FaceID] {
	am, ok := m.faceAttrs[name]
	if !ok {
		am = newAttributeMap[FaceID]()
		m.faceAttrs[name] = am
	}
	return am
}
