package symmetry

import (
	"fmt"
	"math"

	"github.com/chazu/symbem/pkg/geom"
	"github.com/chazu/symbem/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Defaults used by FromProfile and FromProfileFunc.
const (
	DefaultNPhi        = 20
	DefaultProfileName = "axisymmetric_mesh"
	DefaultZMin        = -5.0
	DefaultZMax        = 0.0
	DefaultZPoints     = 20
)

// ProfileOption configures FromProfile and FromProfileFunc.
type ProfileOption func(*profileOptions)

type profileOptions struct {
	zRange    []float64
	axisPoint v3.Vec
	nphi      int
	name      string
}

func defaultProfileOptions() profileOptions {
	return profileOptions{
		zRange: Linspace(DefaultZMin, DefaultZMax, DefaultZPoints),
		nphi:   DefaultNPhi,
		name:   DefaultProfileName,
	}
}

// WithZRange sets the heights at which a profile function is sampled.
func WithZRange(z []float64) ProfileOption {
	return func(o *profileOptions) { o.zRange = append([]float64(nil), z...) }
}

// WithAxisPoint sets a point of the vertical rotation axis.
func WithAxisPoint(p v3.Vec) ProfileOption {
	return func(o *profileOptions) { o.axisPoint = p }
}

// WithNPhi sets the number of slices around the axis.
func WithNPhi(n int) ProfileOption {
	return func(o *profileOptions) { o.nphi = n }
}

// WithProfileName sets the name of the resulting body.
func WithProfileName(name string) ProfileOption {
	return func(o *profileOptions) { o.name = name }
}

// Linspace returns n evenly spaced values from a to b inclusive.
func Linspace(a, b float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{a}
	}
	out := make([]float64, n)
	step := (b - a) / float64(n-1)
	for i := range out {
		out[i] = a + float64(i)*step
	}
	out[n-1] = b
	return out
}

// FromProfileFunc samples radius(z) over the z range and builds the body of
// revolution of the profile (radius(z), 0, z).
func FromProfileFunc(radius func(z float64) float64, opts ...ProfileOption) (*Axial, error) {
	if radius == nil {
		return nil, fmt.Errorf("%w: nil profile function", ErrInvalidSymmetry)
	}
	o := defaultProfileOptions()
	for _, fn := range opts {
		fn(&o)
	}
	points := make([]v3.Vec, len(o.zRange))
	for i, z := range o.zRange {
		points[i] = v3.Vec{X: radius(z), Y: 0, Z: z}
	}
	return fromProfile(points, o)
}

// FromProfile builds a body of revolution from a polyline profile. One slice
// is the band of quads between the profile and its rotation by 2π/nphi; the
// body is that slice repeated nphi times around the axis.
//
// Profile points lying on the axis collapse into shared vertices, and the
// quads touching them become triangles.
func FromProfile(points []v3.Vec, opts ...ProfileOption) (*Axial, error) {
	o := defaultProfileOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return fromProfile(points, o)
}

func fromProfile(points []v3.Vec, o profileOptions) (*Axial, error) {
	n := len(points)
	if n < 2 {
		return nil, fmt.Errorf("%w: a profile needs at least 2 points, got %d", ErrInvalidSymmetry, n)
	}
	if o.nphi < 2 {
		return nil, fmt.Errorf("%w: nphi must be at least 2, got %d", ErrInvalidSymmetry, o.nphi)
	}

	rot := geom.RotationAboutAxis(o.axisPoint, 2*math.Pi/float64(o.nphi))
	vertices := make([]v3.Vec, 0, 2*n)
	vertices = append(vertices, points...)
	for _, p := range points {
		vertices = append(vertices, rot.Point(p))
	}

	faces := make([]mesh.Face, 0, n-1)
	for i := 0; i < n-1; i++ {
		faces = append(faces, mesh.Face{i, i + n, i + n + 1, i + 1})
	}

	slice, err := mesh.New(vertices, faces, "slice_of_"+o.name+"_mesh")
	if err != nil {
		return nil, fmt.Errorf("symmetry: profile slice: %w", err)
	}
	slice.MergeDuplicates()
	slice.HealTriangles()
	if slice.IsEmpty() {
		return nil, fmt.Errorf("%w: profile %s produces no panels", ErrInvalidSymmetry, o.name)
	}

	return NewAxial(slice, o.axisPoint, o.nphi-1, WithName(o.name))
}
