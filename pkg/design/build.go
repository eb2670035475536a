package design

import (
	"context"
	"fmt"

	"github.com/chazu/symbem/pkg/engine"
	"github.com/chazu/symbem/pkg/geom"
	"github.com/chazu/symbem/pkg/mesh"
	"github.com/chazu/symbem/pkg/symmetry"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Defaults applied while building.
const (
	DefaultGridName = "grid"
	DefaultPanels   = 1
)

// Builder turns validated design trees into shapes. Profile expressions are
// evaluated with Engine.
type Builder struct {
	Engine *engine.Engine
}

// NewBuilder returns a Builder using a default engine.
func NewBuilder() *Builder {
	return &Builder{Engine: engine.NewEngine()}
}

// Build validates n and builds it. Warnings are not returned; call Validate
// to inspect them.
func (b *Builder) Build(ctx context.Context, n *Node) (mesh.Shape, error) {
	if err := Validate(n).Err(); err != nil {
		return nil, err
	}
	return b.buildNode(ctx, "body", n)
}

func (b *Builder) buildNode(ctx context.Context, path string, n *Node) (mesh.Shape, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		s   mesh.Shape
		err error
	)
	switch n.Kind {
	case NodeGrid:
		s, err = buildGrid(n)
	case NodeProfile:
		s, err = b.buildProfile(ctx, n)
	case NodeCollection:
		s, err = b.buildCollection(ctx, path, n)
	case NodeReflection:
		s, err = b.buildReflection(ctx, path, n)
	case NodeTranslation:
		s, err = b.buildTranslation(ctx, path, n)
	case NodeRotation:
		s, err = b.buildRotation(ctx, path, n)
	default:
		err = fmt.Errorf("%w: unknown node kind %v", ErrInvalidDesign, n.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("design: %s: %w", path, err)
	}

	if n.Offset != nil {
		mesh.Translate(s, n.Offset.Vec())
	}
	return s, nil
}

func buildGrid(n *Node) (mesh.Shape, error) {
	var origin v3.Vec
	if n.Origin != nil {
		origin = n.Origin.Vec()
	}
	return mesh.NewGrid(origin, n.U.Vec(), n.V.Vec(), orDefault(n.NU, DefaultPanels), orDefault(n.NV, DefaultPanels),
		orDefaultName(n.Name, DefaultGridName))
}

func (b *Builder) buildProfile(ctx context.Context, n *Node) (mesh.Shape, error) {
	opts := []symmetry.ProfileOption{symmetry.WithNPhi(orDefault(n.NPhi, symmetry.DefaultNPhi))}
	if n.Name != "" {
		opts = append(opts, symmetry.WithProfileName(n.Name))
	}
	if n.Axis != nil {
		opts = append(opts, symmetry.WithAxisPoint(n.Axis.Vec()))
	}

	if len(n.Points) > 0 {
		points := make([]v3.Vec, len(n.Points))
		for i, p := range n.Points {
			points[i] = p.Vec()
		}
		return symmetry.FromProfile(points, opts...)
	}

	zs := symmetry.Linspace(symmetry.DefaultZMin, symmetry.DefaultZMax, symmetry.DefaultZPoints)
	if n.Z != nil {
		zs = symmetry.Linspace(n.Z.Min, n.Z.Max, n.Z.N)
	}
	eng := b.Engine
	if eng == nil {
		eng = engine.NewEngine()
	}
	radii, evalErrs, err := eng.Sample(ctx, n.Expr, zs)
	if err != nil {
		return nil, err
	}
	if len(evalErrs) > 0 {
		return nil, fmt.Errorf("%w: expr: %v", ErrInvalidDesign, evalErrs[0])
	}
	points := make([]v3.Vec, len(zs))
	for i, z := range zs {
		points[i] = v3.Vec{X: radii[i], Y: 0, Z: z}
	}
	return symmetry.FromProfile(points, opts...)
}

func (b *Builder) buildCollection(ctx context.Context, path string, n *Node) (mesh.Shape, error) {
	children := make([]mesh.Shape, len(n.Children))
	for i, c := range n.Children {
		s, err := b.buildNode(ctx, fmt.Sprintf("%s.children[%d]", path, i), c)
		if err != nil {
			return nil, err
		}
		children[i] = s
	}
	return mesh.NewCollection(children, n.Name), nil
}

func (b *Builder) buildReflection(ctx context.Context, path string, n *Node) (mesh.Shape, error) {
	half, err := b.buildNode(ctx, path+".child", n.Child)
	if err != nil {
		return nil, err
	}
	plane, err := geom.NewPlane(n.Plane.Normal.Vec(), n.Plane.C)
	if err != nil {
		return nil, err
	}
	return symmetry.NewReflection(half, plane, nameOpts(n)...)
}

func (b *Builder) buildTranslation(ctx context.Context, path string, n *Node) (mesh.Shape, error) {
	slice, err := b.buildNode(ctx, path+".child", n.Child)
	if err != nil {
		return nil, err
	}
	return symmetry.NewTranslation(slice, n.Translation.Vec(), n.Repetitions, nameOpts(n)...)
}

func (b *Builder) buildRotation(ctx context.Context, path string, n *Node) (mesh.Shape, error) {
	slice, err := b.buildNode(ctx, path+".child", n.Child)
	if err != nil {
		return nil, err
	}
	var axis v3.Vec
	if n.Axis != nil {
		axis = n.Axis.Vec()
	}
	return symmetry.NewAxial(slice, axis, n.Repetitions, nameOpts(n)...)
}

func nameOpts(n *Node) []symmetry.Option {
	if n.Name == "" {
		return nil
	}
	return []symmetry.Option{symmetry.WithName(n.Name)}
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func orDefaultName(name, def string) string {
	if name == "" {
		return def
	}
	return name
}
