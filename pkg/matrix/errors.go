package matrix

import "errors"

// Sentinel errors. Every message is prefixed with "matrix:"; callers match
// with errors.Is.
var (
	// ErrShapeMismatch is returned when a structured matrix is built from an
	// empty block list or from blocks of different shapes.
	ErrShapeMismatch = errors.New("matrix: block shape mismatch")

	// ErrInvalidDimensions indicates non-positive dimensions or an
	// inconsistent block count.
	ErrInvalidDimensions = errors.New("matrix: invalid dimensions")

	// ErrOutOfRange indicates a row or column index outside the matrix.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible operand sizes, such as a
	// vector whose length differs from the column count.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")
)
