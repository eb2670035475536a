package geom

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-12

func assertVec(t *testing.T, want, got v3.Vec) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, tol, "x")
	assert.InDelta(t, want.Y, got.Y, tol, "y")
	assert.InDelta(t, want.Z, got.Z, tol, "z")
}

func TestNewPlaneNormalizes(t *testing.T) {
	p, err := NewPlane(v3.Vec{X: 0, Y: 2, Z: 0}, 2)
	require.NoError(t, err)
	assertVec(t, v3.Vec{X: 0, Y: 1, Z: 0}, p.Normal)
	assert.InDelta(t, 1.0, p.C, tol)
	assert.True(t, p.IsVertical())

	_, err = NewPlane(v3.Vec{}, 1)
	require.ErrorIs(t, err, ErrDegeneratePlane)
}

func TestPlaneThrough(t *testing.T) {
	p, err := PlaneThrough(v3.Vec{X: 1, Y: 0, Z: 0}, v3.Vec{X: 3, Y: 7, Z: -1})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, p.C, tol)
	assert.InDelta(t, 0.0, p.SignedDistance(v3.Vec{X: 3, Y: -2, Z: 5}), tol)
}

func TestReflection(t *testing.T) {
	diag, err := PlaneThrough(v3.Vec{X: 1, Y: 1, Z: 0}, v3.Vec{X: 1, Y: 0, Z: 0})
	require.NoError(t, err)

	tests := []struct {
		name  string
		plane Plane
		in    v3.Vec
		want  v3.Vec
	}{
		{"xOz", PlaneXOz, v3.Vec{X: 1, Y: 2, Z: 3}, v3.Vec{X: 1, Y: -2, Z: 3}},
		{"yOz", PlaneYOz, v3.Vec{X: 1, Y: 2, Z: 3}, v3.Vec{X: -1, Y: 2, Z: 3}},
		{"offset", Plane{Normal: v3.Vec{X: 1, Y: 0, Z: 0}, C: 2}, v3.Vec{X: 0, Y: 1, Z: -1}, v3.Vec{X: 4, Y: 1, Z: -1}},
		{"diagonal", diag, v3.Vec{X: 0, Y: 0, Z: 5}, v3.Vec{X: 1, Y: 1, Z: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Reflection(tt.plane)
			assert.True(t, r.Reflects())
			assertVec(t, tt.want, r.Point(tt.in))
			// Mirroring twice is the identity.
			assertVec(t, tt.in, r.Point(r.Point(tt.in)))
		})
	}
}

func TestRotationAboutAxis(t *testing.T) {
	r := RotationAboutAxis(v3.Vec{X: 1, Y: 1, Z: 0}, math.Pi/2)
	assert.False(t, r.Reflects())
	assertVec(t, v3.Vec{X: 1, Y: 2, Z: 4}, r.Point(v3.Vec{X: 2, Y: 1, Z: 4}))

	// Four quarter turns close the circle.
	p := v3.Vec{X: 3, Y: -2, Z: 1}
	q := p
	for i := 0; i < 4; i++ {
		q = r.Point(q)
	}
	assertVec(t, p, q)
}

func TestIsometryComposition(t *testing.T) {
	a := Translation(v3.Vec{X: 1, Y: 0, Z: 0})
	b := RotationZ(math.Pi)
	ab := a.Then(b)
	assertVec(t, v3.Vec{X: -1, Y: 0, Z: 0}, ab.Point(Origin))
	ba := b.Then(a)
	assertVec(t, v3.Vec{X: 1, Y: 0, Z: 0}, ba.Point(Origin))

	m := Reflection(PlaneXOz)
	assert.False(t, m.Then(m).Reflects())
	assert.True(t, m.Then(a).Reflects())
}

func TestIsometryDirectionAndPlane(t *testing.T) {
	tr := Translation(v3.Vec{X: 5, Y: 5, Z: 0})
	assertVec(t, v3.Vec{X: 1, Y: 0, Z: 0}, tr.Direction(v3.Vec{X: 1, Y: 0, Z: 0}))

	moved := tr.Plane(PlaneXOz)
	assertVec(t, PlaneXOz.Normal, moved.Normal)
	assert.InDelta(t, 5.0, moved.C, tol)

	rot := RotationZ(math.Pi / 2).Plane(PlaneXOz)
	assertVec(t, v3.Vec{X: -1, Y: 0, Z: 0}, rot.Normal)
	assert.InDelta(t, 0.0, rot.C, tol)
}

func TestPlaneEqual(t *testing.T) {
	p := Plane{Normal: v3.Vec{X: 0, Y: 1, Z: 0}, C: 1}
	assert.True(t, p.Equal(Plane{Normal: v3.Vec{X: 0, Y: 1, Z: 1e-12}, C: 1 + 1e-12}))
	assert.False(t, p.Equal(Plane{Normal: v3.Vec{X: 0, Y: 1, Z: 0}, C: 1.1}))
	assert.False(t, p.Equal(Plane{Normal: v3.Vec{X: 0, Y: -1, Z: 0}, C: -1}))
}

func TestAllClose(t *testing.T) {
	assert.True(t, AllClose(v3.Vec{X: 1, Y: 0, Z: 0}, v3.Vec{X: 1 + 1e-9, Y: 1e-9, Z: 0}))
	assert.False(t, AllClose(v3.Vec{X: 1, Y: 0, Z: 0}, v3.Vec{X: 1.01, Y: 0, Z: 0}))
	assert.Equal(t, v3.Vec{X: 1, Y: 2, Z: 3}, Vec([3]float64{1, 2, 3}))
	assert.InDelta(t, 1.0, Unit(v3.Vec{X: 3, Y: 4, Z: 0}).Length(), tol)
	assert.InDelta(t, 5.0, Distance(v3.Vec{X: 3, Y: 4, Z: 0}, Origin), tol)
}
