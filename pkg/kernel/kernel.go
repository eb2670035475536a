// Package kernel defines the base influence-matrix evaluator contract.
// An evaluator computes the dense single-layer (S) and double-layer (V)
// matrices between the panels of two meshes; rows follow the panels of the
// first mesh, columns those of the second.
//
// The symmetry-aware assembler in package assemble is itself an Evaluator,
// so evaluators compose.
package kernel

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/chazu/symbem/pkg/matrix"
	"github.com/chazu/symbem/pkg/mesh"
)

// ErrUnknownKernel is returned by Lookup for unregistered names.
var ErrUnknownKernel = errors.New("kernel: unknown kernel")

// Solver is an opaque configuration object forwarded to the evaluator
// unchanged, for example a Green function choice or quadrature settings.
type Solver any

// Evaluator builds the influence matrices between two meshes.
//
// Evaluators used behind symmetry-aware assembly must be invariant under
// isometries applied to both meshes. Translation and rotation matching
// additionally require the block between copies i and j to depend only on
// the distance |j-i|, resp. on (j-i) mod n up to sign.
type Evaluator interface {
	BuildMatrices(ctx context.Context, solver Solver, a, b mesh.Shape, args ...any) (S, V matrix.Matrix, err error)
}

// EvaluatorFunc adapts a function to the Evaluator interface.
type EvaluatorFunc func(ctx context.Context, solver Solver, a, b mesh.Shape, args ...any) (S, V matrix.Matrix, err error)

// BuildMatrices calls f.
func (f EvaluatorFunc) BuildMatrices(ctx context.Context, solver Solver, a, b mesh.Shape, args ...any) (matrix.Matrix, matrix.Matrix, error) {
	return f(ctx, solver, a, b, args...)
}

// Counting wraps an Evaluator and counts its invocations. It is safe for
// concurrent use.
type Counting struct {
	base  Evaluator
	calls atomic.Int64
}

// NewCounting wraps base.
func NewCounting(base Evaluator) *Counting {
	return &Counting{base: base}
}

// BuildMatrices forwards to the wrapped evaluator.
func (c *Counting) BuildMatrices(ctx context.Context, solver Solver, a, b mesh.Shape, args ...any) (matrix.Matrix, matrix.Matrix, error) {
	c.calls.Add(1)
	return c.base.BuildMatrices(ctx, solver, a, b, args...)
}

// Calls returns the number of evaluations so far.
func (c *Counting) Calls() int64 { return c.calls.Load() }

// Reset sets the counter back to zero.
func (c *Counting) Reset() { c.calls.Store(0) }

var registry = map[string]func() Evaluator{
	"rankine": func() Evaluator { return Rankine{} },
}

// Lookup returns a fresh evaluator registered under name.
func Lookup(name string) (Evaluator, error) {
	mk, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (known: %v)", ErrUnknownKernel, name, Names())
	}
	return mk(), nil
}

// Names lists the registered evaluators in sorted order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
