package matrix

import (
	"fmt"
	"strings"
)

// Dense is a row-major matrix.
type Dense struct {
	r, c int
	data []float64 // len == r*c, offset i*c + j
}

// NewDense creates a rows×cols zero matrix.
//
// Errors:
//   - ErrInvalidDimensions if rows <= 0 or cols <= 0.
func NewDense(rows, cols int) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("NewDense(%d,%d): %w", rows, cols, ErrInvalidDimensions)
	}
	return &Dense{r: rows, c: cols, data: make([]float64, rows*cols)}, nil
}

// NewDenseFrom copies a rectangular slice of rows.
//
// Errors:
//   - ErrInvalidDimensions if rows is empty or the first row is empty.
//   - ErrDimensionMismatch if the rows have different lengths.
func NewDenseFrom(rows [][]float64) (*Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("NewDenseFrom: %w", ErrInvalidDimensions)
	}
	m, err := NewDense(len(rows), len(rows[0]))
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != m.c {
			return nil, fmt.Errorf("NewDenseFrom: row %d has %d values, want %d: %w", i, len(row), m.c, ErrDimensionMismatch)
		}
		copy(m.data[i*m.c:], row)
	}
	return m, nil
}

func (m *Dense) Rows() int { return m.r }

func (m *Dense) Cols() int { return m.c }

func (m *Dense) indexOf(i, j int) (int, error) {
	if i < 0 || i >= m.r || j < 0 || j >= m.c {
		return 0, fmt.Errorf("Dense(%d,%d) of %dx%d: %w", i, j, m.r, m.c, ErrOutOfRange)
	}
	return i*m.c + j, nil
}

// At returns the element (i, j).
func (m *Dense) At(i, j int) (float64, error) {
	off, err := m.indexOf(i, j)
	if err != nil {
		return 0, err
	}
	return m.data[off], nil
}

// Set stores v at (i, j).
func (m *Dense) Set(i, j int, v float64) error {
	off, err := m.indexOf(i, j)
	if err != nil {
		return err
	}
	m.data[off] = v
	return nil
}

// MatVec returns m·x.
func (m *Dense) MatVec(x []float64) ([]float64, error) {
	if len(x) != m.c {
		return nil, fmt.Errorf("Dense.MatVec: vector of length %d for %d columns: %w", len(x), m.c, ErrDimensionMismatch)
	}
	y := make([]float64, m.r)
	for i := 0; i < m.r; i++ {
		row := m.data[i*m.c : (i+1)*m.c]
		var s float64
		for j, v := range row {
			s += v * x[j]
		}
		y[i] = s
	}
	return y, nil
}

// ToDense returns a deep copy.
func (m *Dense) ToDense() *Dense {
	return &Dense{r: m.r, c: m.c, data: append([]float64(nil), m.data...)}
}

// setBlock copies b into m with its top-left corner at (r0, c0). The caller
// guarantees that b fits.
func (m *Dense) setBlock(r0, c0 int, b *Dense) {
	for i := 0; i < b.r; i++ {
		copy(m.data[(r0+i)*m.c+c0:], b.data[i*b.c:(i+1)*b.c])
	}
}

func (m *Dense) String() string {
	var sb strings.Builder
	for i := 0; i < m.r; i++ {
		for j := 0; j < m.c; j++ {
			if j > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%.6g", m.data[i*m.c+j])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// blockShape validates that blocks is non-empty and that every block has the
// same shape, and returns that shape.
func blockShape(blocks []Matrix) (rows, cols int, err error) {
	if len(blocks) == 0 {
		return 0, 0, fmt.Errorf("%w: empty block list", ErrShapeMismatch)
	}
	for k, b := range blocks {
		if b == nil {
			return 0, 0, fmt.Errorf("%w: block %d is nil", ErrShapeMismatch, k)
		}
		if k == 0 {
			rows, cols = b.Rows(), b.Cols()
			continue
		}
		if b.Rows() != rows || b.Cols() != cols {
			return 0, 0, fmt.Errorf("%w: block %d is %dx%d, block 0 is %dx%d",
				ErrShapeMismatch, k, b.Rows(), b.Cols(), rows, cols)
		}
	}
	return rows, cols, nil
}

// blockMatVec computes y = Σ_j block(i, j)·x_j for a square grid of n×n
// blocks of size br×bc, where pick(i, j) selects the block.
func blockMatVec(n, br, bc int, pick func(i, j int) Matrix, x []float64) ([]float64, error) {
	if len(x) != n*bc {
		return nil, fmt.Errorf("MatVec: vector of length %d for %d columns: %w", len(x), n*bc, ErrDimensionMismatch)
	}
	y := make([]float64, n*br)
	for i := 0; i < n; i++ {
		out := y[i*br : (i+1)*br]
		for j := 0; j < n; j++ {
			part, err := pick(i, j).MatVec(x[j*bc : (j+1)*bc])
			if err != nil {
				return nil, err
			}
			for k, v := range part {
				out[k] += v
			}
		}
	}
	return y, nil
}

// expand builds the dense form of a square grid of n×n blocks.
func expand(n, br, bc int, distinct []Matrix, index func(i, j int) int) *Dense {
	dense := make([]*Dense, len(distinct))
	for k, b := range distinct {
		dense[k] = b.ToDense()
	}
	out := &Dense{r: n * br, c: n * bc, data: make([]float64, n*br*n*bc)}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out.setBlock(i*br, j*bc, dense[index(i, j)])
		}
	}
	return out
}

// FromBlocks expands a rectangular grid of blocks into a Dense matrix. The
// blocks of a block row must share their row count, those of a block column
// their column count.
//
// Errors:
//   - ErrInvalidDimensions if the grid is empty or ragged.
//   - ErrShapeMismatch if block sizes do not line up.
func FromBlocks(grid [][]Matrix) (*Dense, error) {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return nil, fmt.Errorf("FromBlocks: %w", ErrInvalidDimensions)
	}
	nc := len(grid[0])
	rowSizes := make([]int, len(grid))
	colSizes := make([]int, nc)
	for i, row := range grid {
		if len(row) != nc {
			return nil, fmt.Errorf("FromBlocks: block row %d has %d blocks, want %d: %w", i, len(row), nc, ErrInvalidDimensions)
		}
		for j, b := range row {
			if b == nil {
				return nil, fmt.Errorf("FromBlocks: block (%d,%d) is nil: %w", i, j, ErrShapeMismatch)
			}
			if i == 0 {
				colSizes[j] = b.Cols()
			}
			if j == 0 {
				rowSizes[i] = b.Rows()
			}
			if b.Rows() != rowSizes[i] || b.Cols() != colSizes[j] {
				return nil, fmt.Errorf("FromBlocks: block (%d,%d) is %dx%d, want %dx%d: %w",
					i, j, b.Rows(), b.Cols(), rowSizes[i], colSizes[j], ErrShapeMismatch)
			}
		}
	}

	rows, cols := 0, 0
	for _, r := range rowSizes {
		rows += r
	}
	for _, c := range colSizes {
		cols += c
	}
	out, err := NewDense(rows, cols)
	if err != nil {
		return nil, fmt.Errorf("FromBlocks: %w", err)
	}
	r0 := 0
	for i, row := range grid {
		c0 := 0
		for j, b := range row {
			out.setBlock(r0, c0, b.ToDense())
			c0 += colSizes[j]
		}
		r0 += rowSizes[i]
	}
	return out, nil
}
