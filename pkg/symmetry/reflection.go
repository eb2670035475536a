package symmetry

import (
	"fmt"

	"github.com/chazu/symbem/pkg/geom"
	"github.com/chazu/symbem/pkg/mesh"
)

// Reflection is a body with one vertical symmetry plane. Its sub-meshes are
// the reference half and the mirror image of that half.
type Reflection struct {
	composite
	plane geom.Plane
}

// Compile-time interface check.
var _ mesh.Composite = (*Reflection)(nil)

// NewReflection mirrors a copy of half across plane. half itself becomes the
// first sub-mesh and is not modified.
func NewReflection(half mesh.Shape, plane geom.Plane, opts ...Option) (*Reflection, error) {
	if half == nil {
		return nil, fmt.Errorf("%w: reflection of a nil mesh", ErrInvalidSymmetry)
	}
	p, err := geom.NewPlane(plane.Normal, plane.C)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSymmetry, err)
	}
	if !p.IsVertical() {
		return nil, fmt.Errorf("%w: only vertical mirror planes are supported, got %s", ErrInvalidSymmetry, p)
	}

	other := half.Copy()
	mesh.Mirror(other, p)
	other.SetName("mirror_of_" + half.Name())

	name := resolveName(opts, mesh.FormatName("ReflectionSymmetry", half.Name()))
	return &Reflection{
		composite: newComposite([]mesh.Shape{half, other}, name),
		plane:     p,
	}, nil
}

// Plane returns the symmetry plane.
func (r *Reflection) Plane() geom.Plane { return r.plane }

// Kind returns KindReflection.
func (r *Reflection) Kind() Kind { return KindReflection }

// Copy returns a deep copy that is still a Reflection.
func (r *Reflection) Copy() mesh.Shape {
	return &Reflection{composite: composite{body: r.body.Clone()}, plane: r.plane}
}

// Transform moves both halves and the plane with them.
func (r *Reflection) Transform(iso geom.Isometry) {
	r.body.Transform(iso)
	r.plane = iso.Plane(r.plane)
}
