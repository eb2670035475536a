// Package assemble builds influence matrices between two mesh trees while
// exploiting the symmetries recorded in them.
//
// When both meshes carry a matching symmetry, only the distinct blocks are
// evaluated, by recursion on representative sub-meshes, and the matrix is
// returned in block-Toeplitz or block-circulant form. Otherwise the base
// evaluator is called on the meshes as given. The dispatch order is:
//
//  1. both reflections with the same plane: BlockToeplitz of 2 blocks
//  2. both translations with the same vector and size: BlockToeplitz
//  3. rotation of a mesh with itself: BlockCirculant from n/2+1 blocks
//  4. anything else: the base evaluator
//
// The result equals the base evaluator on the merged meshes whenever the
// base evaluator meets the requirements documented on kernel.Evaluator.
package assemble

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/chazu/symbem/pkg/geom"
	"github.com/chazu/symbem/pkg/kernel"
	"github.com/chazu/symbem/pkg/matrix"
	"github.com/chazu/symbem/pkg/mesh"
	"github.com/chazu/symbem/pkg/symmetry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Compile-time interface check.
var _ kernel.Evaluator = (*Assembler)(nil)

// Assembler is a symmetry-aware kernel.Evaluator wrapping a base evaluator.
// It is safe for concurrent use if the base evaluator is.
type Assembler struct {
	base        kernel.Evaluator
	log         *zap.Logger
	concurrency int

	evaluations atomic.Int64
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the logger receiving one debug entry per dispatch
// decision. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(a *Assembler) {
		if l != nil {
			a.log = l
		}
	}
}

// WithConcurrency evaluates up to n sibling blocks of each symmetric node in
// parallel. n <= 1 keeps assembly sequential.
func WithConcurrency(n int) Option {
	return func(a *Assembler) { a.concurrency = n }
}

// New wraps base.
func New(base kernel.Evaluator, opts ...Option) *Assembler {
	a := &Assembler{base: base, log: zap.NewNop(), concurrency: 1}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Evaluations returns the number of base evaluator calls made so far.
func (a *Assembler) Evaluations() int64 { return a.evaluations.Load() }

type depthKey struct{}

// Depth returns the recursion depth recorded in ctx, 0 at the top level.
// It is only used for diagnostics.
func Depth(ctx context.Context) int {
	d, _ := ctx.Value(depthKey{}).(int)
	return d
}

func withDepth(ctx context.Context, d int) context.Context {
	return context.WithValue(ctx, depthKey{}, d)
}

// pair is one block to evaluate: rows from a, columns from b.
type pair struct {
	a, b mesh.Shape
}

// BuildMatrices returns the S and V matrices between m1 and m2. Its
// signature matches kernel.Evaluator so assemblers can be stacked.
func (a *Assembler) BuildMatrices(ctx context.Context, solver kernel.Solver, m1, m2 mesh.Shape, args ...any) (S, V matrix.Matrix, err error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	switch {
	case a.mirrorMatch(m1, m2):
		r1, r2 := m1.(*symmetry.Reflection), m2.(*symmetry.Reflection)
		a.trace(ctx, m1, m2, "reflection")
		half, sub := r1.Submeshes()[0], r2.Submeshes()
		return a.toeplitz(ctx, solver, []pair{{half, sub[0]}, {half, sub[1]}}, args)

	case a.translationMatch(m1, m2):
		t1, t2 := m1.(*symmetry.Translation), m2.(*symmetry.Translation)
		a.trace(ctx, m1, m2, "translation")
		first := t1.Submeshes()[0]
		pairs := make([]pair, 0, t2.NbSubmeshes())
		for _, s := range t2.Submeshes() {
			pairs = append(pairs, pair{first, s})
		}
		return a.toeplitz(ctx, solver, pairs, args)

	case a.rotationMatch(m1, m2):
		ax := m2.(*symmetry.Axial)
		a.trace(ctx, m1, m2, "rotation")
		subs := ax.Submeshes()
		n := len(subs)
		pairs := make([]pair, 0, n/2+1)
		for k := 0; k < n/2+1; k++ {
			pairs = append(pairs, pair{subs[0], subs[k]})
		}
		sBlocks, vBlocks, err := a.evaluate(ctx, solver, pairs, args)
		if err != nil {
			return nil, nil, err
		}
		S, err = matrix.NewBlockCirculant(sBlocks, n)
		if err != nil {
			return nil, nil, fmt.Errorf("assemble: %s: %w", m1.Name(), err)
		}
		V, err = matrix.NewBlockCirculant(vBlocks, n)
		if err != nil {
			return nil, nil, fmt.Errorf("assemble: %s: %w", m1.Name(), err)
		}
		return S, V, nil

	default:
		a.trace(ctx, m1, m2, "none")
		a.evaluations.Add(1)
		S, V, err = a.base.BuildMatrices(ctx, solver, m1, m2, args...)
		if err != nil {
			return nil, nil, fmt.Errorf("assemble: base evaluation %s x %s: %w", m1.Name(), m2.Name(), err)
		}
		return S, V, nil
	}
}

func (a *Assembler) mirrorMatch(m1, m2 mesh.Shape) bool {
	r1, ok1 := m1.(*symmetry.Reflection)
	r2, ok2 := m2.(*symmetry.Reflection)
	return ok1 && ok2 && r1.Plane().Equal(r2.Plane())
}

func (a *Assembler) translationMatch(m1, m2 mesh.Shape) bool {
	t1, ok1 := m1.(*symmetry.Translation)
	t2, ok2 := m2.(*symmetry.Translation)
	return ok1 && ok2 &&
		geom.AllClose(t1.Translation(), t2.Translation()) &&
		t1.NbSubmeshes() == t2.NbSubmeshes()
}

// rotationMatch only recognizes a rotation body interacting with itself;
// two distinct but equal bodies fall through to the base evaluator.
func (a *Assembler) rotationMatch(m1, m2 mesh.Shape) bool {
	ax, ok := m1.(*symmetry.Axial)
	return ok && mesh.Shape(ax) == m2
}

func (a *Assembler) toeplitz(ctx context.Context, solver kernel.Solver, pairs []pair, args []any) (matrix.Matrix, matrix.Matrix, error) {
	sBlocks, vBlocks, err := a.evaluate(ctx, solver, pairs, args)
	if err != nil {
		return nil, nil, err
	}
	S, err := matrix.NewBlockToeplitz(sBlocks)
	if err != nil {
		return nil, nil, fmt.Errorf("assemble: %s: %w", pairs[0].a.Name(), err)
	}
	V, err := matrix.NewBlockToeplitz(vBlocks)
	if err != nil {
		return nil, nil, fmt.Errorf("assemble: %s: %w", pairs[0].a.Name(), err)
	}
	return S, V, nil
}

// evaluate recurses on every pair one level deeper and returns the blocks in
// pair order.
func (a *Assembler) evaluate(ctx context.Context, solver kernel.Solver, pairs []pair, args []any) ([]matrix.Matrix, []matrix.Matrix, error) {
	sBlocks := make([]matrix.Matrix, len(pairs))
	vBlocks := make([]matrix.Matrix, len(pairs))
	child := withDepth(ctx, Depth(ctx)+1)

	if a.concurrency <= 1 || len(pairs) == 1 {
		for i, p := range pairs {
			s, v, err := a.BuildMatrices(child, solver, p.a, p.b, args...)
			if err != nil {
				return nil, nil, err
			}
			sBlocks[i], vBlocks[i] = s, v
		}
		return sBlocks, vBlocks, nil
	}

	g, gctx := errgroup.WithContext(child)
	g.SetLimit(a.concurrency)
	for i, p := range pairs {
		g.Go(func() error {
			s, v, err := a.BuildMatrices(gctx, solver, p.a, p.b, args...)
			if err != nil {
				return err
			}
			sBlocks[i], vBlocks[i] = s, v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return sBlocks, vBlocks, nil
}

func (a *Assembler) trace(ctx context.Context, m1, m2 mesh.Shape, sym string) {
	if ce := a.log.Check(zap.DebugLevel, "dispatch"); ce != nil {
		name2 := m2.Name()
		if m1 == m2 {
			name2 = "itself"
		}
		ce.Write(
			zap.String("mesh1", m1.Name()),
			zap.String("mesh2", name2),
			zap.String("symmetry", sym),
			zap.Int("depth", Depth(ctx)),
		)
	}
}
