package kernel

import (
	"context"
	"fmt"
	"math"

	"github.com/chazu/symbem/pkg/matrix"
	"github.com/chazu/symbem/pkg/mesh"
)

// selfDistance is the center distance below which two panels are treated as
// the same panel.
const selfDistance = 1e-10

// Rankine evaluates the free-space Rankine source 1/(4πr) with one-point
// collocation at panel centers:
//
//	S[p][q] = A_q / (4π r)
//	V[p][q] = -A_q (x_p - x_q)·n_p / (4π r³)
//
// with r = |x_p - x_q|. On the diagonal S is the integral over a disk of
// area A_q and V is the 1/2 jump term.
//
// Rankine depends only on relative panel positions, so it is invariant under
// isometries applied to both meshes.
type Rankine struct{}

// BuildMatrices implements Evaluator. The solver and extra arguments are
// ignored.
func (Rankine) BuildMatrices(ctx context.Context, _ Solver, a, b mesh.Shape, _ ...any) (matrix.Matrix, matrix.Matrix, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	rows, cols := mesh.Panels(a), mesh.Panels(b)
	S, err := matrix.NewDense(len(rows), len(cols))
	if err != nil {
		return nil, nil, fmt.Errorf("kernel: rankine %s x %s: %w", a.Name(), b.Name(), err)
	}
	V, err := matrix.NewDense(len(rows), len(cols))
	if err != nil {
		return nil, nil, fmt.Errorf("kernel: rankine %s x %s: %w", a.Name(), b.Name(), err)
	}

	for i, p := range rows {
		for j, q := range cols {
			s, v := rankine(p, q)
			// Indices are in range by construction.
			_ = S.Set(i, j, s)
			_ = V.Set(i, j, v)
		}
	}
	return S, V, nil
}

func rankine(p, q mesh.Panel) (s, v float64) {
	d := p.Center.Sub(q.Center)
	r := d.Length()
	if r < selfDistance {
		return math.Sqrt(q.Area/math.Pi) / 2, 0.5
	}
	s = q.Area / (4 * math.Pi * r)
	v = -q.Area * d.Dot(p.Normal) / (4 * math.Pi * r * r * r)
	return s, v
}
