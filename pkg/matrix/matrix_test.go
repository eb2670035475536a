package matrix

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDense(t *testing.T, rows [][]float64) *Dense {
	t.Helper()
	m, err := NewDenseFrom(rows)
	require.NoError(t, err)
	return m
}

func rowsOf(t *testing.T, m Matrix) [][]float64 {
	t.Helper()
	out := make([][]float64, m.Rows())
	for i := range out {
		out[i] = make([]float64, m.Cols())
		for j := range out[i] {
			v, err := m.At(i, j)
			require.NoError(t, err)
			out[i][j] = v
		}
	}
	return out
}

func TestDense(t *testing.T) {
	_, err := NewDense(0, 2)
	require.ErrorIs(t, err, ErrInvalidDimensions)
	_, err = NewDenseFrom([][]float64{{1, 2}, {3}})
	require.ErrorIs(t, err, ErrDimensionMismatch)

	m := mustDense(t, [][]float64{{1, 2}, {3, 4}, {5, 6}})
	assert.Equal(t, 3, m.Rows())
	assert.Equal(t, 2, m.Cols())

	require.NoError(t, m.Set(2, 1, 7))
	v, err := m.At(2, 1)
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)

	_, err = m.At(3, 0)
	require.ErrorIs(t, err, ErrOutOfRange)
	require.ErrorIs(t, m.Set(0, -1, 1), ErrOutOfRange)

	y, err := m.MatVec([]float64{1, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 7, 12}, y)
	_, err = m.MatVec([]float64{1})
	require.ErrorIs(t, err, ErrDimensionMismatch)

	c := m.ToDense()
	require.NoError(t, c.Set(0, 0, 100))
	v, _ = m.At(0, 0)
	assert.Equal(t, 1.0, v)
}

func TestBlockToeplitz(t *testing.T) {
	a := mustDense(t, [][]float64{{1}, {2}})
	b := mustDense(t, [][]float64{{3}, {4}})
	c := mustDense(t, [][]float64{{5}, {6}})

	tp, err := NewBlockToeplitz([]Matrix{a, b, c})
	require.NoError(t, err)
	assert.Equal(t, 3, tp.NbBlocks())
	assert.Equal(t, 6, tp.Rows())
	assert.Equal(t, 3, tp.Cols())

	want := [][]float64{
		{1, 3, 5},
		{2, 4, 6},
		{3, 1, 3},
		{4, 2, 4},
		{5, 3, 1},
		{6, 4, 2},
	}
	if diff := cmp.Diff(want, rowsOf(t, tp)); diff != "" {
		t.Errorf("At mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, rowsOf(t, tp.ToDense())); diff != "" {
		t.Errorf("ToDense mismatch (-want +got):\n%s", diff)
	}

	blk, err := tp.Block(2, 0)
	require.NoError(t, err)
	assert.Same(t, c, blk)
	_, err = tp.Block(3, 0)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = tp.At(6, 0)
	require.ErrorIs(t, err, ErrOutOfRange)

	x := []float64{1, 2, 3}
	got, err := tp.MatVec(x)
	require.NoError(t, err)
	expect, err := tp.ToDense().MatVec(x)
	require.NoError(t, err)
	assert.Equal(t, expect, got)
}

func TestStructuredShapeErrors(t *testing.T) {
	a := mustDense(t, [][]float64{{1, 2}})
	b := mustDense(t, [][]float64{{1}, {2}})

	tests := []struct {
		name   string
		blocks []Matrix
	}{
		{"empty", nil},
		{"unequal", []Matrix{a, b}},
		{"nil block", []Matrix{a, nil}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBlockToeplitz(tt.blocks)
			require.ErrorIs(t, err, ErrShapeMismatch)
			_, err = NewBlockCirculant(tt.blocks, 2)
			require.ErrorIs(t, err, ErrShapeMismatch)
		})
	}
}

func TestBlockCirculantCompletion(t *testing.T) {
	blocks := []Matrix{
		mustDense(t, [][]float64{{0}}),
		mustDense(t, [][]float64{{1}}),
		mustDense(t, [][]float64{{2}}),
	}

	tests := []struct {
		name string
		size int
		want [][]float64
	}{
		{"even", 4, [][]float64{
			{0, 1, 2, 1},
			{1, 0, 1, 2},
			{2, 1, 0, 1},
			{1, 2, 1, 0},
		}},
		{"odd", 5, [][]float64{
			{0, 1, 2, 2, 1},
			{1, 0, 1, 2, 2},
			{2, 1, 0, 1, 2},
			{2, 2, 1, 0, 1},
			{1, 2, 2, 1, 0},
		}},
		{"full", 3, [][]float64{
			{0, 1, 2},
			{2, 0, 1},
			{1, 2, 0},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewBlockCirculant(blocks, tt.size)
			require.NoError(t, err)
			assert.Equal(t, tt.size, c.NbBlocks())
			if diff := cmp.Diff(tt.want, rowsOf(t, c)); diff != "" {
				t.Errorf("At mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.want, rowsOf(t, c.ToDense())); diff != "" {
				t.Errorf("ToDense mismatch (-want +got):\n%s", diff)
			}

			x := make([]float64, tt.size)
			for i := range x {
				x[i] = float64(i + 1)
			}
			got, err := c.MatVec(x)
			require.NoError(t, err)
			expect, err := c.ToDense().MatVec(x)
			require.NoError(t, err)
			assert.Equal(t, expect, got)
		})
	}

	_, err := NewBlockCirculant(blocks, 6)
	require.ErrorIs(t, err, ErrInvalidDimensions)
	_, err = NewBlockCirculant(blocks, 2)
	require.ErrorIs(t, err, ErrInvalidDimensions)
}

func TestAllCloseAndMaxAbsDiff(t *testing.T) {
	a := mustDense(t, [][]float64{{1, 2}, {3, 4}})
	b := mustDense(t, [][]float64{{1, 2}, {3, 4 + 1e-9}})
	c := mustDense(t, [][]float64{{1, 2, 3}})

	assert.True(t, AllClose(a, b, 1e-5, 1e-8))
	assert.False(t, AllClose(a, mustDense(t, [][]float64{{1, 2}, {3, 5}}), 1e-5, 1e-8))
	assert.False(t, AllClose(a, c, 1e-5, 1e-8))

	d, err := MaxAbsDiff(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 1e-9, d, 1e-15)
	_, err = MaxAbsDiff(a, c)
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestFromBlocks(t *testing.T) {
	a := mustDense(t, [][]float64{{1, 2}})
	b := mustDense(t, [][]float64{{3}})
	c := mustDense(t, [][]float64{{4, 5}, {6, 7}})
	d := mustDense(t, [][]float64{{8}, {9}})

	m, err := FromBlocks([][]Matrix{{a, b}, {c, d}})
	require.NoError(t, err)
	want := [][]float64{
		{1, 2, 3},
		{4, 5, 8},
		{6, 7, 9},
	}
	if diff := cmp.Diff(want, rowsOf(t, m)); diff != "" {
		t.Errorf("FromBlocks mismatch (-want +got):\n%s", diff)
	}

	_, err = FromBlocks(nil)
	require.ErrorIs(t, err, ErrInvalidDimensions)
	_, err = FromBlocks([][]Matrix{{a, b}, {c}})
	require.ErrorIs(t, err, ErrInvalidDimensions)
	_, err = FromBlocks([][]Matrix{{a, b}, {d, c}})
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestStoredEntries(t *testing.T) {
	a := mustDense(t, [][]float64{{1, 2}, {3, 4}})
	b := mustDense(t, [][]float64{{5, 6}, {7, 8}})
	c := mustDense(t, [][]float64{{9, 0}, {1, 2}})

	assert.Equal(t, 4, StoredEntries(a))
	assert.InDelta(t, 1.0, Compression(a), 1e-12)

	toe, err := NewBlockToeplitz([]Matrix{a, b, c})
	require.NoError(t, err)
	assert.Equal(t, 12, StoredEntries(toe))
	assert.InDelta(t, 3.0, Compression(toe), 1e-12)

	// A circulant of 4 blocks keeps n/2+1 = 3 of them.
	circ, err := NewBlockCirculant([]Matrix{a, b, c}, 4)
	require.NoError(t, err)
	assert.Equal(t, 12, StoredEntries(circ))
	assert.InDelta(t, 64.0/12, Compression(circ), 1e-12)

	// Nested structure counts only the innermost distinct blocks.
	outer, err := NewBlockToeplitz([]Matrix{toe, toe})
	require.NoError(t, err)
	assert.Equal(t, 24, StoredEntries(outer))
	assert.Equal(t, 12, outer.Rows())
}
