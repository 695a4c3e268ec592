// Package tessellate flattens halfedge meshes into triangle buffers
// suitable for rendering. Polygon faces are fan-triangulated; every
// face corner gets its own buffer entry so per-corner UVs and flat face
// normals survive the conversion.
package tessellate

import (
	"fmt"

	"github.com/chazu/lamina/pkg/mesh"
)

// Buffers is a triangle mesh in flat arrays.
// Positions and Normals have 3 floats per corner (x,y,z), UVs have 2,
// Indices has 3 uint32s per triangle.
type Buffers struct {
	Positions []float32 `json:"positions"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals   []float32 `json:"normals"`   // [nx0,ny0,nz0, ...]
	UVs       []float32 `json:"uvs"`       // [u0,v0, u1,v1, ...]
	Indices   []uint32  `json:"indices"`   // [i0,i1,i2, ...] triangles
	Name      string    `json:"name"`      // optional label for the consumer
}

// VertexCount returns the number of buffer vertices (face corners).
func (b *Buffers) VertexCount() int {
	return len(b.Positions) / 3
}

// TriangleCount returns the number of triangles.
func (b *Buffers) TriangleCount() int {
	return len(b.Indices) / 3
}

// IsEmpty returns true if the buffers hold no geometry.
func (b *Buffers) IsEmpty() bool {
	return len(b.Positions) == 0
}

// ToBuffers converts m into flat triangle buffers. The tessellator is
// read-only and never mutates the mesh. Faces with more than three
// vertices are triangulated as a fan around their first loop vertex,
// which is exact for convex faces.
func ToBuffers(m *mesh.Mesh) (*Buffers, error) {
	b := &Buffers{}
	for _, f := range m.Faces() {
		loop := m.HalfedgesAroundFace(f)
		if len(loop) < 3 {
			return nil, fmt.Errorf("tessellate: face %v has only %d halfedges", f, len(loop))
		}
		faceNormal, hasFaceNormal := m.FaceNormal(f)

		base := uint32(b.VertexCount())
		for _, h := range loop {
			v, err := m.DstVert(h)
			if err != nil {
				return nil, fmt.Errorf("tessellate: face %v: %w", f, err)
			}
			p, err := m.Position(v)
			if err != nil {
				return nil, fmt.Errorf("tessellate: face %v: %w", f, err)
			}
			b.Positions = append(b.Positions, float32(p.X), float32(p.Y), float32(p.Z))

			// Flat shading wants the face normal on every corner; fall
			// back to the vertex normal, then to zero.
			n := faceNormal
			if !hasFaceNormal {
				n, _ = m.VertexNormal(v)
			}
			b.Normals = append(b.Normals, float32(n.X), float32(n.Y), float32(n.Z))

			uv, _ := m.UV(h)
			b.UVs = append(b.UVs, float32(uv.X), float32(uv.Y))
		}
		for i := 1; i < len(loop)-1; i++ {
			b.Indices = append(b.Indices, base, base+uint32(i), base+uint32(i)+1)
		}
	}
	return b, nil
}
