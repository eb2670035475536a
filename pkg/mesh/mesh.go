// Package mesh is the surface mesh layer: leaf meshes of quadrilateral and
// triangular panels, ordered collections of meshes, and the rigid transforms
// applied to both. Triangles are stored as quadrilaterals whose last index
// repeats the first.
package mesh

import (
	"errors"
	"fmt"

	"github.com/chazu/symbem/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrBadFace is returned when a face references a vertex that does not exist.
var ErrBadFace = errors.New("mesh: face index out of range")

// Face holds four vertex indices in counter-clockwise order seen from the
// outside. A triangle [a b c] is stored as [a b c a].
type Face [4]int

// IsTriangle reports whether the face is a triangle stored as a quad.
func (f Face) IsTriangle() bool {
	return f[3] == f[0]
}

// Mesh is a leaf surface mesh.
type Mesh struct {
	name     string
	vertices []v3.Vec
	faces    []Face
}

// Compile-time interface check.
var _ Shape = (*Mesh)(nil)

// New returns a mesh owning copies of vertices and faces.
func New(vertices []v3.Vec, faces []Face, name string) (*Mesh, error) {
	for i, f := range faces {
		for _, idx := range f {
			if idx < 0 || idx >= len(vertices) {
				return nil, fmt.Errorf("%w: face %d references vertex %d of %d", ErrBadFace, i, idx, len(vertices))
			}
		}
	}
	m := &Mesh{
		name:     name,
		vertices: make([]v3.Vec, len(vertices)),
		faces:    make([]Face, len(faces)),
	}
	copy(m.vertices, vertices)
	copy(m.faces, faces)
	return m, nil
}

// Name returns the display name.
func (m *Mesh) Name() string { return m.name }

// SetName overrides the display name.
func (m *Mesh) SetName(name string) { m.name = name }

// NbFaces returns the number of panels.
func (m *Mesh) NbFaces() int { return len(m.faces) }

// NbVertices returns the number of vertices.
func (m *Mesh) NbVertices() int { return len(m.vertices) }

// IsEmpty returns true if the mesh has no panels.
func (m *Mesh) IsEmpty() bool { return len(m.faces) == 0 }

// Vertices returns the vertex array in row order. Callers must not modify it.
func (m *Mesh) Vertices() []v3.Vec { return m.vertices }

// Faces returns the face array. Callers must not modify it.
func (m *Mesh) Faces() []Face { return m.faces }

// Copy returns a deep copy.
func (m *Mesh) Copy() Shape { return m.clone() }

func (m *Mesh) clone() *Mesh {
	c, _ := New(m.vertices, m.faces, m.name) // indices were validated on construction
	return c
}

// Transform moves every vertex. An orientation-reversing isometry also
// reverses the winding of every face so that normals stay outward.
func (m *Mesh) Transform(iso geom.Isometry) {
	for i, v := range m.vertices {
		m.vertices[i] = iso.Point(v)
	}
	if iso.Reflects() {
		for i, f := range m.faces {
			m.faces[i] = Face{f[3], f[2], f[1], f[0]}
		}
	}
}

// Merge returns a copy of the mesh; a leaf is already merged.
func (m *Mesh) Merge() *Mesh { return m.clone() }

func (m *Mesh) String() string {
	return fmt.Sprintf("Mesh(%s, %d vertices, %d faces)", m.name, len(m.vertices), len(m.faces))
}

// concat appends the geometry of others to a new mesh named name.
func concat(name string, parts ...*Mesh) *Mesh {
	out := &Mesh{name: name}
	for _, p := range parts {
		offset := len(out.vertices)
		out.vertices = append(out.vertices, p.vertices...)
		for _, f := range p.faces {
			out.faces = append(out.faces, Face{f[0] + offset, f[1] + offset, f[2] + offset, f[3] + offset})
		}
	}
	return out
}
