package assemble

import (
	"context"
	"fmt"

	"github.com/chazu/symbem/pkg/kernel"
	"github.com/chazu/symbem/pkg/matrix"
	"github.com/chazu/symbem/pkg/mesh"
	"github.com/chazu/symbem/pkg/tessellate"
)

// BruteForce evaluates base on every pair of leaf meshes of m1 and m2 and
// stitches the blocks into dense matrices, ignoring all symmetries. Its
// panel order is that of m1.Merge() and m2.Merge().
func BruteForce(ctx context.Context, base kernel.Evaluator, solver kernel.Solver, m1, m2 mesh.Shape, args ...any) (S, V *matrix.Dense, err error) {
	rows, cols := tessellate.Leaves(m1), tessellate.Leaves(m2)
	if len(rows) == 0 || len(cols) == 0 {
		return nil, nil, fmt.Errorf("assemble: brute force %s x %s: %w", m1.Name(), m2.Name(), matrix.ErrInvalidDimensions)
	}

	sGrid := make([][]matrix.Matrix, len(rows))
	vGrid := make([][]matrix.Matrix, len(rows))
	for i, r := range rows {
		sGrid[i] = make([]matrix.Matrix, len(cols))
		vGrid[i] = make([]matrix.Matrix, len(cols))
		for j, c := range cols {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
			s, v, err := base.BuildMatrices(ctx, solver, r, c, args...)
			if err != nil {
				return nil, nil, fmt.Errorf("assemble: brute force %s x %s: %w", r.Name(), c.Name(), err)
			}
			sGrid[i][j], vGrid[i][j] = s, v
		}
	}

	if S, err = matrix.FromBlocks(sGrid); err != nil {
		return nil, nil, fmt.Errorf("assemble: brute force: %w", err)
	}
	if V, err = matrix.FromBlocks(vGrid); err != nil {
		return nil, nil, fmt.Errorf("assemble: brute force: %w", err)
	}
	return S, V, nil
}
