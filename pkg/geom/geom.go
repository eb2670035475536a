// Package geom provides the small amount of 3D geometry the mesh layer needs:
// planes, isometries and tolerance comparisons. Points and vectors are
// sdfx v3.Vec values and every rigid transform is an sdfx 4x4 matrix.
package geom

import (
	"errors"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Tolerances used by AllClose, matching the usual allclose defaults.
const (
	RTol = 1e-5
	ATol = 1e-8
)

// ErrDegeneratePlane is returned when a plane is built from a zero normal.
var ErrDegeneratePlane = errors.New("geom: plane normal has zero length")

// Origin is the zero vector.
var Origin = v3.Vec{}

// Vertical is the unit vector along +Z, the direction of every rotation axis.
var Vertical = v3.Vec{X: 0, Y: 0, Z: 1}

// Close reports whether a and b agree to within atol + rtol*|b|.
func Close(a, b float64) bool {
	return math.Abs(a-b) <= ATol+RTol*math.Abs(b)
}

// AllClose reports whether every component of a is Close to the matching
// component of b.
func AllClose(a, b v3.Vec) bool {
	return Close(a.X, b.X) && Close(a.Y, b.Y) && Close(a.Z, b.Z)
}

// Distance returns |a - b|.
func Distance(a, b v3.Vec) float64 {
	return a.Sub(b).Length()
}

// Unit returns v scaled to unit length. The zero vector is returned unchanged.
func Unit(v v3.Vec) v3.Vec {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.MulScalar(1 / l)
}

// Vec builds a vector from a three-element array, as decoded from config files.
func Vec(a [3]float64) v3.Vec {
	return v3.Vec{X: a[0], Y: a[1], Z: a[2]}
}
