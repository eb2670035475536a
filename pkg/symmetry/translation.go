package symmetry

import (
	"fmt"
	"strings"

	"github.com/chazu/symbem/pkg/geom"
	"github.com/chazu/symbem/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Translation is a body made of a slice repeated along a horizontal vector.
// Sub-mesh i is the slice translated by i times the vector.
type Translation struct {
	composite
	translation v3.Vec
}

// Compile-time interface check.
var _ mesh.Composite = (*Translation)(nil)

// NewTranslation builds slice followed by nbRepetitions translated copies.
func NewTranslation(slice mesh.Shape, translation v3.Vec, nbRepetitions int, opts ...Option) (*Translation, error) {
	if slice == nil {
		return nil, fmt.Errorf("%w: translation of a nil mesh", ErrInvalidSymmetry)
	}
	if translation.Z != 0 {
		return nil, fmt.Errorf("%w: only horizontal translations are supported, got z=%g", ErrInvalidSymmetry, translation.Z)
	}
	if nbRepetitions < 1 {
		return nil, fmt.Errorf("%w: nb_repetitions must be at least 1, got %d", ErrInvalidSymmetry, nbRepetitions)
	}

	slices := make([]mesh.Shape, 0, nbRepetitions+1)
	slices = append(slices, slice)
	for i := 1; i <= nbRepetitions; i++ {
		s := slice.Copy()
		s.SetName(fmt.Sprintf("repetition_%d_of_%s", i, slice.Name()))
		mesh.Translate(s, translation.MulScalar(float64(i)))
		slices = append(slices, s)
	}

	name := resolveName(opts, mesh.FormatName("TranslationalSymmetry", slice.Name()))
	return &Translation{
		composite:   newComposite(slices, name),
		translation: translation,
	}, nil
}

// Translation returns the repetition vector.
func (t *Translation) Translation() v3.Vec { return t.translation }

// NbRepetitions returns the number of copies after the original slice.
func (t *Translation) NbRepetitions() int { return t.NbSubmeshes() - 1 }

// Kind returns KindTranslation.
func (t *Translation) Kind() Kind { return KindTranslation }

// Copy returns a deep copy that is still a Translation.
func (t *Translation) Copy() mesh.Shape {
	return &Translation{composite: composite{body: t.body.Clone()}, translation: t.translation}
}

// Transform moves every slice; the repetition vector follows the linear part.
func (t *Translation) Transform(iso geom.Isometry) {
	t.body.Transform(iso)
	t.translation = iso.Direction(t.translation)
}

// Join merges several translational bodies sharing the same vector and
// repetition count into one: sub-mesh i of the result is the union of
// sub-mesh i of every input.
//
// Join panics if the inputs are empty or disagree on the vector or the
// repetition count; both are programming errors.
func Join(meshes ...*Translation) *Translation {
	if len(meshes) == 0 {
		panic("symmetry: Join needs at least one mesh")
	}
	first := meshes[0]
	for _, m := range meshes[1:] {
		if !geom.AllClose(first.translation, m.translation) {
			panic(fmt.Sprintf("symmetry: Join of %s and %s: translations differ", first.Name(), m.Name()))
		}
		if first.NbSubmeshes() != m.NbSubmeshes() {
			panic(fmt.Sprintf("symmetry: Join of %s and %s: %d vs %d submeshes",
				first.Name(), m.Name(), first.NbSubmeshes(), m.NbSubmeshes()))
		}
	}

	names := make([]string, len(meshes))
	slices := make([]mesh.Shape, len(meshes))
	for i, m := range meshes {
		names[i] = m.Submeshes()[0].Name()
		slices[i] = m.Submeshes()[0]
	}
	slice := mesh.Union("union_of_"+strings.Join(names, "_and_"), slices...)

	joined, err := NewTranslation(slice, first.translation, first.NbRepetitions())
	if err != nil {
		panic(fmt.Sprintf("symmetry: Join: %v", err))
	}
	return joined
}
