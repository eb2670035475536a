package mesh

import (
	"github.com/chazu/symbem/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Shape is anything that can stand in for a mesh: a leaf Mesh, a Collection,
// or one of the symmetric composites built on top of a Collection.
//
// Transform mutates the receiver. Constructors that need a moved version of
// a shape Copy it first.
type Shape interface {
	Name() string
	SetName(name string)
	NbFaces() int
	Copy() Shape
	Transform(iso geom.Isometry)
	Merge() *Mesh
}

// Composite is a Shape made of an ordered list of sub-meshes.
type Composite interface {
	Shape
	Submeshes() []Shape
}

// Mirror reflects s across plane.
func Mirror(s Shape, plane geom.Plane) {
	s.Transform(geom.Reflection(plane))
}

// Translate moves s by v.
func Translate(s Shape, v v3.Vec) {
	s.Transform(geom.Translation(v))
}

// RotateZ rotates s by angle radians about the vertical axis through the origin.
func RotateZ(s Shape, angle float64) {
	s.Transform(geom.RotationZ(angle))
}

// Union merges several shapes into a single leaf mesh.
func Union(name string, shapes ...Shape) *Mesh {
	parts := make([]*Mesh, len(shapes))
	for i, s := range shapes {
		parts[i] = s.Merge()
	}
	return concat(name, parts...)
}
