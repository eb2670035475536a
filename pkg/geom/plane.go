package geom

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Plane is the set of points p with Normal·p == C. Normal has unit length.
type Plane struct {
	Normal v3.Vec
	C      float64
}

// Frequently used vertical planes through the origin.
var (
	PlaneXOz = Plane{Normal: v3.Vec{X: 0, Y: 1, Z: 0}}
	PlaneYOz = Plane{Normal: v3.Vec{X: 1, Y: 0, Z: 0}}
)

// NewPlane returns the plane normal·p == c. The normal is normalized and c is
// rescaled accordingly, so NewPlane((0,2,0), 2) is the plane y == 1.
func NewPlane(normal v3.Vec, c float64) (Plane, error) {
	l := normal.Length()
	if l == 0 || math.IsNaN(l) {
		return Plane{}, ErrDegeneratePlane
	}
	return Plane{Normal: normal.MulScalar(1 / l), C: c / l}, nil
}

// PlaneThrough returns the plane with the given normal containing point.
func PlaneThrough(normal, point v3.Vec) (Plane, error) {
	p, err := NewPlane(normal, 0)
	if err != nil {
		return Plane{}, err
	}
	p.C = p.Normal.Dot(point)
	return p, nil
}

// IsVertical reports whether the plane contains the vertical direction.
func (p Plane) IsVertical() bool {
	return p.Normal.Z == 0
}

// Point returns the point of the plane closest to the origin.
func (p Plane) Point() v3.Vec {
	return p.Normal.MulScalar(p.C)
}

// SignedDistance returns the signed distance from the plane to q.
func (p Plane) SignedDistance(q v3.Vec) float64 {
	return p.Normal.Dot(q) - p.C
}

// Equal reports whether two planes have the same orientation and offset
// within tolerance.
func (p Plane) Equal(o Plane) bool {
	return AllClose(p.Normal, o.Normal) && Close(p.C, o.C)
}

func (p Plane) String() string {
	return fmt.Sprintf("Plane(normal=(%g, %g, %g), c=%g)", p.Normal.X, p.Normal.Y, p.Normal.Z, p.C)
}
