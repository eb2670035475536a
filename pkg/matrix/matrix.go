// Package matrix provides the dense and block-structured matrices produced by
// influence-matrix assembly.
//
// Structured matrices keep only their distinct blocks:
//
//	BlockToeplitz   block(i, j) = blocks[|j-i|]
//	BlockCirculant  block(i, j) = c[(j-i) mod n]
//
// They answer element queries and matrix-vector products directly and can be
// expanded with ToDense.
package matrix

// Matrix is a read-only two-dimensional array of float64 values.
type Matrix interface {
	// Rows returns the number of rows.
	Rows() int

	// Cols returns the number of columns.
	Cols() int

	// At returns the element (i, j) or ErrOutOfRange.
	At(i, j int) (float64, error)

	// MatVec returns the product of the matrix with x, or
	// ErrDimensionMismatch when len(x) != Cols().
	MatVec(x []float64) ([]float64, error)

	// ToDense expands the matrix into an independent Dense copy.
	ToDense() *Dense
}

// Ensure the structured types satisfy the interface.
var (
	_ Matrix = (*Dense)(nil)
	_ Matrix = (*BlockToeplitz)(nil)
	_ Matrix = (*BlockCirculant)(nil)
)
