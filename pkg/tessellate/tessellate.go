// Package tessellate walks symmetric mesh trees: it visits every node in
// block order, lists the leaf meshes and renders a textual description of
// the tree. Walking is read-only and never mutates the shapes.
package tessellate

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chazu/symbem/pkg/mesh"
	"github.com/chazu/symbem/pkg/symmetry"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// SkipChildren may be returned by a VisitFunc to skip the sub-meshes of the
// current node.
var SkipChildren = errors.New("tessellate: skip children")

// Node is one visited shape.
type Node struct {
	Shape mesh.Shape
	Kind  symmetry.Kind
	Depth int // 0 for the root
	Index int // position among the parent's sub-meshes
}

// VisitFunc is called for each node in depth-first block order.
type VisitFunc func(n Node) error

// Walk visits s and all its sub-meshes depth first.
func Walk(s mesh.Shape, fn VisitFunc) error {
	if s == nil {
		return nil
	}
	err := walkNode(s, 0, 0, fn)
	if errors.Is(err, SkipChildren) {
		return nil
	}
	return err
}

func walkNode(s mesh.Shape, depth, index int, fn VisitFunc) error {
	err := fn(Node{Shape: s, Kind: symmetry.KindOf(s), Depth: depth, Index: index})
	if errors.Is(err, SkipChildren) {
		return nil
	}
	if err != nil {
		return err
	}

	c, ok := s.(mesh.Composite)
	if !ok {
		return nil
	}
	for i, child := range c.Submeshes() {
		if err := walkNode(child, depth+1, i, fn); err != nil {
			return fmt.Errorf("tessellate: %s: %w", s.Name(), err)
		}
	}
	return nil
}

// Leaves returns the leaf meshes of s in block order. Concatenating their
// panels gives the panel order of s.Merge(). Shapes that are neither leaves
// nor composites are flattened with Merge.
func Leaves(s mesh.Shape) []*mesh.Mesh {
	var out []*mesh.Mesh
	_ = Walk(s, func(n Node) error {
		switch x := n.Shape.(type) {
		case *mesh.Mesh:
			out = append(out, x)
		case mesh.Composite:
			return nil
		default:
			out = append(out, x.Merge())
			return SkipChildren
		}
		return nil
	})
	return out
}

// Summary counts the nodes of a tree.
type Summary struct {
	Nodes    int
	Leaves   int
	Faces    int
	MaxDepth int
	ByKind   map[symmetry.Kind]int
}

// Summarize walks s and counts its nodes by kind.
func Summarize(s mesh.Shape) Summary {
	sum := Summary{ByKind: make(map[symmetry.Kind]int)}
	_ = Walk(s, func(n Node) error {
		sum.Nodes++
		sum.ByKind[n.Kind]++
		if n.Depth > sum.MaxDepth {
			sum.MaxDepth = n.Depth
		}
		if _, ok := n.Shape.(mesh.Composite); !ok {
			sum.Leaves++
			sum.Faces += n.Shape.NbFaces()
		}
		return nil
	})
	return sum
}

// Describe writes one line per node, indented by depth:
//
//	ReflectionSymmetry(half) [reflection] faces=8 plane=(0,1,0)·p=0
//	  half [plain] faces=4
//	  mirror_of_half [plain] faces=4
func Describe(w io.Writer, s mesh.Shape) error {
	return Walk(s, func(n Node) error {
		_, err := fmt.Fprintf(w, "%s%s [%s] faces=%d%s\n",
			strings.Repeat("  ", n.Depth), n.Shape.Name(), n.Kind, n.Shape.NbFaces(), params(n.Shape))
		return err
	})
}

func params(s mesh.Shape) string {
	switch x := s.(type) {
	case *symmetry.Reflection:
		p := x.Plane()
		return fmt.Sprintf(" plane=%s·p=%g", vec(p.Normal), p.C)
	case *symmetry.Translation:
		return fmt.Sprintf(" translation=%s repetitions=%d", vec(x.Translation()), x.NbRepetitions())
	case *symmetry.Axial:
		return fmt.Sprintf(" axis=%s repetitions=%d", vec(x.AxisPoint()), x.NbRepetitions())
	default:
		return ""
	}
}

func vec(v v3.Vec) string {
	return fmt.Sprintf("(%g,%g,%g)", v.X, v.Y, v.Z)
}
