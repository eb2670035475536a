package mesh

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// weldDecimals is the number of decimals two vertices must share to be
// considered the same point.
const weldDecimals = 8

type weldKey [3]int64

func keyOf(v v3.Vec) weldKey {
	scale := math.Pow10(weldDecimals)
	return weldKey{
		int64(math.Round(v.X * scale)),
		int64(math.Round(v.Y * scale)),
		int64(math.Round(v.Z * scale)),
	}
}

// MergeDuplicates welds vertices that coincide up to weldDecimals decimals and
// reindexes the faces. The first occurrence of each point is kept. It returns
// the number of vertices removed.
func (m *Mesh) MergeDuplicates() int {
	seen := make(map[weldKey]int, len(m.vertices))
	remap := make([]int, len(m.vertices))
	kept := make([]v3.Vec, 0, len(m.vertices))
	for i, v := range m.vertices {
		k := keyOf(v)
		if j, ok := seen[k]; ok {
			remap[i] = j
			continue
		}
		seen[k] = len(kept)
		remap[i] = len(kept)
		kept = append(kept, v)
	}
	removed := len(m.vertices) - len(kept)
	m.vertices = kept
	for i, f := range m.faces {
		m.faces[i] = Face{remap[f[0]], remap[f[1]], remap[f[2]], remap[f[3]]}
	}
	return removed
}

// HealTriangles rewrites quads with two equal consecutive vertices as
// triangles in the [a b c a] convention and drops faces with fewer than three
// distinct vertices. It returns the number of faces dropped.
func (m *Mesh) HealTriangles() int {
	healed := m.faces[:0]
	dropped := 0
	for _, f := range m.faces {
		g, ok := healFace(f)
		if !ok {
			dropped++
			continue
		}
		healed = append(healed, g)
	}
	m.faces = healed
	return dropped
}

func healFace(f Face) (Face, bool) {
	distinct := map[int]struct{}{f[0]: {}, f[1]: {}, f[2]: {}, f[3]: {}}
	switch len(distinct) {
	case 4:
		return f, true
	case 3:
		for k := 0; k < 4; k++ {
			if f[k] == f[(k+1)%4] {
				return Face{f[(k+1)%4], f[(k+2)%4], f[(k+3)%4], f[k]}, true
			}
		}
		// The repeated vertices sit on a diagonal: the face folds onto itself.
		return f, false
	default:
		return f, false
	}
}
