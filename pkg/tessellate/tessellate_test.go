package tessellate_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/chazu/symbem/pkg/geom"
	"github.com/chazu/symbem/pkg/mesh"
	"github.com/chazu/symbem/pkg/symmetry"
	"github.com/chazu/symbem/pkg/tessellate"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeWall creates a vertical strip of nu panels at y=1.
func makeWall(t *testing.T, name string, nu int) *mesh.Mesh {
	t.Helper()
	m, err := mesh.NewGrid(v3.Vec{X: 0, Y: 1, Z: -1}, v3.Vec{X: 1}, v3.Vec{Z: 1}, nu, 1, name)
	require.NoError(t, err)
	return m
}

// makeBarge is a translation of a reflection: two rows of walls.
func makeBarge(t *testing.T) *symmetry.Translation {
	t.Helper()
	r, err := symmetry.NewReflection(makeWall(t, "side", 2), geom.PlaneXOz, symmetry.WithName("section"))
	require.NoError(t, err)
	tr, err := symmetry.NewTranslation(r, v3.Vec{X: 2}, 2, symmetry.WithName("barge"))
	require.NoError(t, err)
	return tr
}

func TestWalkOrder(t *testing.T) {
	barge := makeBarge(t)

	var got []string
	err := tessellate.Walk(barge, func(n tessellate.Node) error {
		got = append(got, strings.Repeat(".", n.Depth)+n.Shape.Name())
		return nil
	})
	require.NoError(t, err)

	want := []string{
		"barge",
		".section",
		"..side",
		"..mirror_of_side",
		".repetition_1_of_section",
		"..side",
		"..mirror_of_side",
		".repetition_2_of_section",
		"..side",
		"..mirror_of_side",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("walk order mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkSkipAndError(t *testing.T) {
	barge := makeBarge(t)

	visited := 0
	err := tessellate.Walk(barge, func(n tessellate.Node) error {
		visited++
		if n.Kind == symmetry.KindReflection {
			return tessellate.SkipChildren
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 4, visited)

	boom := errors.New("boom")
	err = tessellate.Walk(barge, func(n tessellate.Node) error {
		if n.Depth == 2 {
			return boom
		}
		return nil
	})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "tessellate: barge")

	require.NoError(t, tessellate.Walk(nil, func(tessellate.Node) error { return boom }))
}

func TestLeavesMatchMerge(t *testing.T) {
	barge := makeBarge(t)
	leaves := tessellate.Leaves(barge)
	require.Len(t, leaves, 6)

	var centers []v3.Vec
	for _, l := range leaves {
		for _, p := range l.Panels() {
			centers = append(centers, p.Center)
		}
	}
	merged := barge.Merge().Panels()
	require.Len(t, centers, len(merged))
	for i, p := range merged {
		assert.True(t, geom.AllClose(p.Center, centers[i]), "panel %d", i)
	}

	single := makeWall(t, "w", 1)
	assert.Equal(t, []*mesh.Mesh{single}, tessellate.Leaves(single))
}

func TestSummarize(t *testing.T) {
	sum := tessellate.Summarize(makeBarge(t))
	assert.Equal(t, 10, sum.Nodes)
	assert.Equal(t, 6, sum.Leaves)
	assert.Equal(t, 12, sum.Faces)
	assert.Equal(t, 2, sum.MaxDepth)
	assert.Equal(t, 1, sum.ByKind[symmetry.KindTranslation])
	assert.Equal(t, 3, sum.ByKind[symmetry.KindReflection])
	assert.Equal(t, 6, sum.ByKind[symmetry.KindPlain])
}

func TestDescribe(t *testing.T) {
	r, err := symmetry.NewReflection(makeWall(t, "half", 2), geom.PlaneXOz)
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, tessellate.Describe(&sb, r))
	want := "ReflectionSymmetry(half) [reflection] faces=4 plane=(0,1,0)·p=0\n" +
		"  half [plain] faces=2\n" +
		"  mirror_of_half [plain] faces=2\n"
	assert.Equal(t, want, sb.String())

	a, err := symmetry.NewAxial(makeWall(t, "blade", 1), geom.Origin, 2, symmetry.WithName("rotor"))
	require.NoError(t, err)
	sb.Reset()
	require.NoError(t, tessellate.Describe(&sb, a))
	assert.True(t, strings.HasPrefix(sb.String(), "rotor [axial] faces=3 axis=(0,0,0) repetitions=2\n"))
}
