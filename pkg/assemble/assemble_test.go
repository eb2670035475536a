package assemble

import (
	"context"
	"errors"
	"testing"

	"github.com/chazu/symbem/pkg/geom"
	"github.com/chazu/symbem/pkg/kernel"
	"github.com/chazu/symbem/pkg/matrix"
	"github.com/chazu/symbem/pkg/mesh"
	"github.com/chazu/symbem/pkg/symmetry"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const (
	rtol = 1e-9
	atol = 1e-12
)

// wall is a single panel at distance y from the xOz plane, centered at x=0
// and facing -Y. Panels built from it keep their centers in the plane x=0
// and have no normal component along X.
func wall(t *testing.T, name string, y, z float64) *mesh.Mesh {
	t.Helper()
	m, err := mesh.NewGrid(v3.Vec{X: -0.5, Y: y, Z: z - 0.5}, v3.Vec{X: 1}, v3.Vec{Z: 1}, 1, 1, name)
	require.NoError(t, err)
	return m
}

func reflection(t *testing.T, half mesh.Shape, plane geom.Plane) *symmetry.Reflection {
	t.Helper()
	r, err := symmetry.NewReflection(half, plane)
	require.NoError(t, err)
	return r
}

func translation(t *testing.T, slice mesh.Shape, v v3.Vec, n int) *symmetry.Translation {
	t.Helper()
	tr, err := symmetry.NewTranslation(slice, v, n)
	require.NoError(t, err)
	return tr
}

// tube is a square ring whose panel centers lie on the bisector of each
// quarter slice.
func tube(t *testing.T) *symmetry.Axial {
	t.Helper()
	a, err := symmetry.FromProfile(
		[]v3.Vec{{X: 1, Z: -1}, {X: 1, Z: -0.5}, {X: 1, Z: 0}},
		symmetry.WithNPhi(4), symmetry.WithProfileName("tube"),
	)
	require.NoError(t, err)
	return a
}

// assertMatchesBruteForce checks the assembled matrices against the plain
// Cartesian assembly of the leaves.
func assertMatchesBruteForce(t *testing.T, S, V matrix.Matrix, m1, m2 mesh.Shape) {
	t.Helper()
	wantS, wantV, err := BruteForce(context.Background(), kernel.Rankine{}, nil, m1, m2)
	require.NoError(t, err)
	require.Equal(t, wantS.Rows(), S.Rows())
	require.Equal(t, wantS.Cols(), S.Cols())
	assert.True(t, matrix.AllClose(S, wantS, rtol, atol), "S differs from brute force")
	assert.True(t, matrix.AllClose(V, wantV, rtol, atol), "V differs from brute force")
}

func TestDispatch(t *testing.T) {
	barge := func(t *testing.T) *symmetry.Translation {
		return translation(t, reflection(t, wall(t, "side", 1, 0), geom.PlaneXOz), v3.Vec{X: 2}, 3)
	}

	tests := []struct {
		name      string
		build     func(t *testing.T) (m1, m2 mesh.Shape)
		wantEvals int64
		wantType  matrix.Matrix
	}{
		{
			name: "mirror self",
			build: func(t *testing.T) (mesh.Shape, mesh.Shape) {
				r := reflection(t, wall(t, "half", 1, 0), geom.PlaneXOz)
				return r, r
			},
			wantEvals: 2,
			wantType:  &matrix.BlockToeplitz{},
		},
		{
			name: "mirror distinct bodies",
			build: func(t *testing.T) (mesh.Shape, mesh.Shape) {
				a := reflection(t, wall(t, "a", 1, 0), geom.PlaneXOz)
				b := reflection(t, wall(t, "b", 2, -1), geom.PlaneXOz)
				return a, b
			},
			wantEvals: 2,
			wantType:  &matrix.BlockToeplitz{},
		},
		{
			name: "mirror planes differ",
			build: func(t *testing.T) (mesh.Shape, mesh.Shape) {
				a := reflection(t, wall(t, "a", 1, 0), geom.PlaneXOz)
				off, err := geom.NewPlane(v3.Vec{Y: 1}, 0.25)
				require.NoError(t, err)
				b := reflection(t, wall(t, "b", 1, 0), off)
				return a, b
			},
			wantEvals: 1,
			wantType:  &matrix.Dense{},
		},
		{
			name: "translation self",
			build: func(t *testing.T) (mesh.Shape, mesh.Shape) {
				slice := mesh.Union("pair", wall(t, "front", 0, 0), wall(t, "back", 1, -0.5))
				tr := translation(t, slice, v3.Vec{X: 1.5}, 3)
				return tr, tr
			},
			wantEvals: 4,
			wantType:  &matrix.BlockToeplitz{},
		},
		{
			name: "translation vectors differ",
			build: func(t *testing.T) (mesh.Shape, mesh.Shape) {
				a := translation(t, wall(t, "a", 0, 0), v3.Vec{X: 2}, 2)
				b := translation(t, wall(t, "b", 0, 0), v3.Vec{X: 2.5}, 2)
				return a, b
			},
			wantEvals: 1,
			wantType:  &matrix.Dense{},
		},
		{
			name: "translation counts differ",
			build: func(t *testing.T) (mesh.Shape, mesh.Shape) {
				a := translation(t, wall(t, "a", 0, 0), v3.Vec{X: 2}, 2)
				b := translation(t, wall(t, "b", 0, 0), v3.Vec{X: 2}, 3)
				return a, b
			},
			wantEvals: 1,
			wantType:  &matrix.Dense{},
		},
		{
			name: "reflection inside translation",
			build: func(t *testing.T) (mesh.Shape, mesh.Shape) {
				b := barge(t)
				return b, b
			},
			wantEvals: 8,
			wantType:  &matrix.BlockToeplitz{},
		},
		{
			name: "rotation self",
			build: func(t *testing.T) (mesh.Shape, mesh.Shape) {
				a := tube(t)
				return a, a
			},
			wantEvals: 3,
			wantType:  &matrix.BlockCirculant{},
		},
		{
			name: "rotation of equal copies",
			build: func(t *testing.T) (mesh.Shape, mesh.Shape) {
				a := tube(t)
				return a, a.Copy()
			},
			wantEvals: 1,
			wantType:  &matrix.Dense{},
		},
		{
			name: "plain meshes",
			build: func(t *testing.T) (mesh.Shape, mesh.Shape) {
				return wall(t, "a", 0, 0), wall(t, "b", 3, 1)
			},
			wantEvals: 1,
			wantType:  &matrix.Dense{},
		},
		{
			name: "symmetric against plain",
			build: func(t *testing.T) (mesh.Shape, mesh.Shape) {
				return barge(t), wall(t, "probe", 4, -2)
			},
			wantEvals: 1,
			wantType:  &matrix.Dense{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m1, m2 := tt.build(t)
			base := kernel.NewCounting(kernel.Rankine{})
			a := New(base)

			S, V, err := a.BuildMatrices(context.Background(), nil, m1, m2)
			require.NoError(t, err)
			assert.Equal(t, tt.wantEvals, base.Calls())
			assert.Equal(t, tt.wantEvals, a.Evaluations())
			assert.IsType(t, tt.wantType, S)
			assert.IsType(t, tt.wantType, V)
			assert.Equal(t, m1.NbFaces(), S.Rows())
			assert.Equal(t, m2.NbFaces(), S.Cols())
			assertMatchesBruteForce(t, S, V, m1, m2)
		})
	}
}

func TestBaseResultReturnedUnchanged(t *testing.T) {
	S0, err := matrix.NewDense(1, 1)
	require.NoError(t, err)
	V0, err := matrix.NewDense(1, 1)
	require.NoError(t, err)

	var gotSolver kernel.Solver
	var gotArgs []any
	base := kernel.EvaluatorFunc(func(_ context.Context, solver kernel.Solver, _, _ mesh.Shape, args ...any) (matrix.Matrix, matrix.Matrix, error) {
		gotSolver, gotArgs = solver, args
		return S0, V0, nil
	})

	S, V, err := New(base).BuildMatrices(context.Background(), "solver", wall(t, "a", 0, 0), wall(t, "b", 1, 0), 1, "x")
	require.NoError(t, err)
	assert.Same(t, S0, S)
	assert.Same(t, V0, V)
	assert.Equal(t, "solver", gotSolver)
	assert.Equal(t, []any{1, "x"}, gotArgs)
}

func TestToeplitzBlockLayout(t *testing.T) {
	r := reflection(t, wall(t, "half", 1, 0), geom.PlaneXOz)
	S, _, err := New(kernel.Rankine{}).BuildMatrices(context.Background(), nil, r, r)
	require.NoError(t, err)

	tp, ok := S.(*matrix.BlockToeplitz)
	require.True(t, ok)
	require.Equal(t, 2, tp.NbBlocks())

	direct, _, err := kernel.Rankine{}.BuildMatrices(context.Background(), nil, r.Submeshes()[0], r.Submeshes()[1])
	require.NoError(t, err)
	assert.True(t, matrix.AllClose(direct, tp.FirstBlockRow()[1], 0, 0))
}

func TestConcurrentAssembly(t *testing.T) {
	b := translation(t, reflection(t, wall(t, "side", 1, 0), geom.PlaneXOz), v3.Vec{X: 2}, 5)

	seqS, seqV, err := New(kernel.Rankine{}).BuildMatrices(context.Background(), nil, b, b)
	require.NoError(t, err)

	base := kernel.NewCounting(kernel.Rankine{})
	a := New(base, WithConcurrency(4))
	S, V, err := a.BuildMatrices(context.Background(), nil, b, b)
	require.NoError(t, err)
	assert.Equal(t, int64(12), base.Calls())
	assert.True(t, matrix.AllClose(seqS, S, 0, 0))
	assert.True(t, matrix.AllClose(seqV, V, 0, 0))
}

func TestCancellation(t *testing.T) {
	b := translation(t, reflection(t, wall(t, "side", 1, 0), geom.PlaneXOz), v3.Vec{X: 2}, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, n := range []int{1, 4} {
		base := kernel.NewCounting(kernel.Rankine{})
		_, _, err := New(base, WithConcurrency(n)).BuildMatrices(ctx, nil, b, b)
		require.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, base.Calls())
	}
}

func TestBaseErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	base := kernel.EvaluatorFunc(func(context.Context, kernel.Solver, mesh.Shape, mesh.Shape, ...any) (matrix.Matrix, matrix.Matrix, error) {
		return nil, nil, boom
	})
	b := translation(t, reflection(t, wall(t, "side", 1, 0), geom.PlaneXOz), v3.Vec{X: 2}, 3)

	for _, n := range []int{1, 3} {
		_, _, err := New(base, WithConcurrency(n)).BuildMatrices(context.Background(), nil, b, b)
		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "assemble: base evaluation side x")
	}
}

func TestDispatchLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := reflection(t, wall(t, "half", 1, 0), geom.PlaneXOz)

	_, _, err := New(kernel.Rankine{}, WithLogger(zap.New(core))).BuildMatrices(context.Background(), nil, r, r)
	require.NoError(t, err)

	entries := logs.FilterMessage("dispatch").All()
	require.Len(t, entries, 3)

	first := entries[0].ContextMap()
	assert.Equal(t, "ReflectionSymmetry(half)", first["mesh1"])
	assert.Equal(t, "itself", first["mesh2"])
	assert.Equal(t, "reflection", first["symmetry"])
	assert.Equal(t, int64(0), first["depth"])

	second := entries[1].ContextMap()
	assert.Equal(t, "half", second["mesh1"])
	assert.Equal(t, "itself", second["mesh2"])
	assert.Equal(t, "none", second["symmetry"])
	assert.Equal(t, int64(1), second["depth"])

	third := entries[2].ContextMap()
	assert.Equal(t, "mirror_of_half", third["mesh2"])
}

func TestDepth(t *testing.T) {
	assert.Zero(t, Depth(context.Background()))
	assert.Equal(t, 3, Depth(withDepth(context.Background(), 3)))
}

func TestBruteForceErrors(t *testing.T) {
	empty := mesh.NewCollection(nil, "nothing")
	_, _, err := BruteForce(context.Background(), kernel.Rankine{}, nil, empty, wall(t, "a", 0, 0))
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = BruteForce(ctx, kernel.Rankine{}, nil, wall(t, "a", 0, 0), wall(t, "b", 1, 0))
	require.ErrorIs(t, err, context.Canceled)
}
