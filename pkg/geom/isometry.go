package geom

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Isometry is a rigid motion of space, possibly orientation reversing.
// It is stored as an sdfx homogeneous matrix plus a flag recording whether
// the motion contains an odd number of reflections.
type Isometry struct {
	m        sdf.M44
	reflects bool
}

// Identity returns the isometry that leaves every point in place.
func Identity() Isometry {
	return Isometry{m: sdf.Identity3d()}
}

// Translation returns the translation by v.
func Translation(v v3.Vec) Isometry {
	return Isometry{m: sdf.Translate3d(v)}
}

// RotationZ returns the rotation by angle radians about the vertical axis
// through the origin (right hand rule).
func RotationZ(angle float64) Isometry {
	return Isometry{m: sdf.RotateZ(angle)}
}

// RotationAboutAxis returns the rotation by angle radians about the vertical
// axis through point: translate point to the origin, rotate, translate back.
func RotationAboutAxis(point v3.Vec, angle float64) Isometry {
	return Translation(point.MulScalar(-1)).Then(RotationZ(angle)).Then(Translation(point))
}

// Reflection returns the mirror transform across p.
//
// The plane normal is first rotated onto +X, the YZ mirror applied, and the
// rotation undone, all conjugated by the translation to a point of the plane.
func Reflection(p Plane) Isometry {
	n := p.Normal
	h := math.Hypot(n.X, n.Y)
	theta := math.Atan2(n.Y, n.X)
	phi := math.Atan2(n.Z, h)

	align := sdf.RotateY(phi).Mul(sdf.RotateZ(-theta))
	unalign := sdf.RotateZ(theta).Mul(sdf.RotateY(-phi))
	q := p.Point()

	m := sdf.Translate3d(q).
		Mul(unalign).
		Mul(sdf.MirrorYZ()).
		Mul(align).
		Mul(sdf.Translate3d(q.MulScalar(-1)))
	return Isometry{m: m, reflects: true}
}

// Then returns the isometry that applies a first and b second.
func (a Isometry) Then(b Isometry) Isometry {
	return Isometry{m: b.m.Mul(a.m), reflects: a.reflects != b.reflects}
}

// Reflects reports whether the isometry reverses orientation.
func (a Isometry) Reflects() bool {
	return a.reflects
}

// Point maps a position.
func (a Isometry) Point(p v3.Vec) v3.Vec {
	return a.m.MulPosition(p)
}

// Direction maps a free vector (the translation part is ignored).
func (a Isometry) Direction(d v3.Vec) v3.Vec {
	return a.m.MulPosition(d).Sub(a.m.MulPosition(Origin))
}

// Plane maps a plane, keeping the normal attached to the same side.
func (a Isometry) Plane(p Plane) Plane {
	n := Unit(a.Direction(p.Normal))
	q := a.Point(p.Point())
	return Plane{Normal: n, C: n.Dot(q)}
}
