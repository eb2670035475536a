package symmetry

import (
	"fmt"
	"math"

	"github.com/chazu/symbem/pkg/geom"
	"github.com/chazu/symbem/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Axial is a body made of a slice repeated by rotation about a vertical axis.
// Sub-mesh i is the slice rotated by 2πi/n, n being the number of sub-meshes.
type Axial struct {
	composite
	axisPoint v3.Vec
}

// Compile-time interface check.
var _ mesh.Composite = (*Axial)(nil)

// NewAxial builds slice followed by nbRepetitions rotated copies. The axis is
// vertical and goes through axisPoint.
func NewAxial(slice mesh.Shape, axisPoint v3.Vec, nbRepetitions int, opts ...Option) (*Axial, error) {
	if slice == nil {
		return nil, fmt.Errorf("%w: rotation of a nil mesh", ErrInvalidSymmetry)
	}
	if nbRepetitions < 1 {
		return nil, fmt.Errorf("%w: nb_repetitions must be at least 1, got %d", ErrInvalidSymmetry, nbRepetitions)
	}

	slices := make([]mesh.Shape, 0, nbRepetitions+1)
	slices = append(slices, slice)
	for i := 1; i <= nbRepetitions; i++ {
		s := slice.Copy()
		s.SetName(fmt.Sprintf("rotation_%d_of_%s", i, slice.Name()))
		mesh.Translate(s, axisPoint.MulScalar(-1))
		mesh.RotateZ(s, 2*float64(i)*math.Pi/float64(nbRepetitions+1))
		mesh.Translate(s, axisPoint)
		slices = append(slices, s)
	}

	name := resolveName(opts, mesh.FormatName("AxialSymmetry", slice.Name()))
	return &Axial{
		composite: newComposite(slices, name),
		axisPoint: axisPoint,
	}, nil
}

// AxisPoint returns a point of the vertical rotation axis.
func (a *Axial) AxisPoint() v3.Vec { return a.axisPoint }

// NbRepetitions returns the number of copies after the original slice.
func (a *Axial) NbRepetitions() int { return a.NbSubmeshes() - 1 }

// Angle returns the rotation between two consecutive sub-meshes.
func (a *Axial) Angle() float64 { return 2 * math.Pi / float64(a.NbSubmeshes()) }

// Kind returns KindAxial.
func (a *Axial) Kind() Kind { return KindAxial }

// Copy returns a deep copy that is still an Axial.
func (a *Axial) Copy() mesh.Shape {
	return &Axial{composite: composite{body: a.body.Clone()}, axisPoint: a.axisPoint}
}

// Transform moves every slice and the axis with them.
func (a *Axial) Transform(iso geom.Isometry) {
	a.body.Transform(iso)
	a.axisPoint = iso.Point(a.axisPoint)
}
