package matrix

import (
	"fmt"
	"math"
)

// AllClose reports whether a and b have the same shape and every pair of
// elements satisfies |x-y| <= atol + rtol*|y|.
func AllClose(a, b Matrix, rtol, atol float64) bool {
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return false
	}
	da, db := a.ToDense(), b.ToDense()
	for k, x := range da.data {
		y := db.data[k]
		if math.Abs(x-y) > atol+rtol*math.Abs(y) {
			return false
		}
	}
	return true
}

// MaxAbsDiff returns the largest elementwise difference between a and b.
//
// Errors:
//   - ErrDimensionMismatch if the shapes differ.
func MaxAbsDiff(a, b Matrix) (float64, error) {
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return 0, fmt.Errorf("MaxAbsDiff: %dx%d vs %dx%d: %w", a.Rows(), a.Cols(), b.Rows(), b.Cols(), ErrDimensionMismatch)
	}
	da, db := a.ToDense(), b.ToDense()
	var worst float64
	for k, x := range da.data {
		if d := math.Abs(x - db.data[k]); d > worst {
			worst = d
		}
	}
	return worst, nil
}
