package mesh

import (
	"fmt"
	"strings"

	"github.com/chazu/symbem/pkg/geom"
	"github.com/samber/lo"
)

// Collection is an ordered, fixed list of sub-meshes. The order is the block
// order of any matrix assembled over the collection.
type Collection struct {
	name     string
	children []Shape
}

// Compile-time interface check.
var _ Composite = (*Collection)(nil)

// NewCollection groups children. The default name lists the children.
func NewCollection(children []Shape, name string) *Collection {
	c := &Collection{children: append([]Shape(nil), children...)}
	if name == "" {
		name = FormatName("Collection", lo.Map(c.children, func(s Shape, _ int) string { return s.Name() })...)
	}
	c.name = name
	return c
}

// FormatName is the composite naming convention: kind(a, b, ...).
func FormatName(kind string, names ...string) string {
	return fmt.Sprintf("%s(%s)", kind, strings.Join(names, ", "))
}

// Name returns the display name.
func (c *Collection) Name() string { return c.name }

// SetName overrides the display name.
func (c *Collection) SetName(name string) { c.name = name }

// NbFaces is the total panel count of all children.
func (c *Collection) NbFaces() int {
	return lo.SumBy(c.children, func(s Shape) int { return s.NbFaces() })
}

// NbSubmeshes returns the number of children.
func (c *Collection) NbSubmeshes() int { return len(c.children) }

// Submeshes returns the children in order. Callers must not modify the slice.
func (c *Collection) Submeshes() []Shape { return c.children }

// Copy returns a deep copy.
func (c *Collection) Copy() Shape { return c.Clone() }

// Clone is Copy with the concrete type preserved.
func (c *Collection) Clone() *Collection {
	children := make([]Shape, len(c.children))
	for i, s := range c.children {
		children[i] = s.Copy()
	}
	return &Collection{name: c.name, children: children}
}

// Transform moves every child.
func (c *Collection) Transform(iso geom.Isometry) {
	for _, s := range c.children {
		s.Transform(iso)
	}
}

// Merge flattens the collection into a single leaf mesh whose panels are the
// panels of the children in order.
func (c *Collection) Merge() *Mesh {
	parts := make([]*Mesh, len(c.children))
	for i, s := range c.children {
		parts[i] = s.Merge()
	}
	return concat(c.name+"_merged", parts...)
}

func (c *Collection) String() string {
	return fmt.Sprintf("Collection(%s, %d submeshes, %d faces)", c.name, len(c.children), c.NbFaces())
}
