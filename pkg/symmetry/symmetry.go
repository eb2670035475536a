// Package symmetry builds meshes that record a geometric symmetry together
// with the sub-meshes it repeats: a mirror pair, a row of translated copies,
// or a ring of rotated copies. The symmetric composites are ordinary
// mesh.Shape values, so they nest inside each other and inside collections.
package symmetry

import (
	"errors"

	"github.com/chazu/symbem/pkg/mesh"
)

// ErrInvalidSymmetry is returned when the geometric parameters of a symmetry
// are not supported: a non-vertical mirror plane, a non-horizontal
// translation, a repetition count below one or a malformed profile.
var ErrInvalidSymmetry = errors.New("symmetry: invalid symmetry")

// Kind tags the variant of a shape.
type Kind int

const (
	KindPlain       Kind = iota // leaf mesh or plain collection
	KindReflection              // mirror pair
	KindTranslation             // translated copies
	KindAxial                   // rotated copies
)

func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindReflection:
		return "reflection"
	case KindTranslation:
		return "translation"
	case KindAxial:
		return "axial"
	default:
		return "unknown"
	}
}

// KindOf returns the symmetry variant of s.
func KindOf(s mesh.Shape) Kind {
	switch s.(type) {
	case *Reflection:
		return KindReflection
	case *Translation:
		return KindTranslation
	case *Axial:
		return KindAxial
	default:
		return KindPlain
	}
}

// Option configures a symmetric mesh constructor.
type Option func(*options)

type options struct {
	name string
}

// WithName overrides the default display name.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

func resolveName(opts []Option, fallback string) string {
	o := options{}
	for _, fn := range opts {
		fn(&o)
	}
	if o.name == "" {
		return fallback
	}
	return o.name
}

// composite holds the ordered sub-meshes shared by every symmetric variant.
type composite struct {
	body *mesh.Collection
}

func newComposite(children []mesh.Shape, name string) composite {
	return composite{body: mesh.NewCollection(children, name)}
}

// Name returns the display name.
func (c composite) Name() string { return c.body.Name() }

// SetName overrides the display name.
func (c composite) SetName(name string) { c.body.SetName(name) }

// NbFaces is the total panel count.
func (c composite) NbFaces() int { return c.body.NbFaces() }

// Submeshes returns the sub-meshes in block order.
func (c composite) Submeshes() []mesh.Shape { return c.body.Submeshes() }

// NbSubmeshes returns the number of sub-meshes.
func (c composite) NbSubmeshes() int { return c.body.NbSubmeshes() }

// Merge flattens the symmetric mesh into one leaf mesh.
func (c composite) Merge() *mesh.Mesh { return c.body.Merge() }
