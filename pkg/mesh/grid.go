package mesh

import (
	"errors"
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrBadGrid is returned for grids without panels.
var ErrBadGrid = errors.New("mesh: grid needs at least one panel in each direction")

// NewGrid returns the flat parallelogram origin + s*u + t*v, s,t in [0,1],
// split into nu x nv quads. Panel normals point along u x v.
func NewGrid(origin, u, v v3.Vec, nu, nv int, name string) (*Mesh, error) {
	if nu < 1 || nv < 1 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrBadGrid, nu, nv)
	}
	index := func(i, j int) int { return j*(nu+1) + i }

	vertices := make([]v3.Vec, 0, (nu+1)*(nv+1))
	for j := 0; j <= nv; j++ {
		for i := 0; i <= nu; i++ {
			p := origin.
				Add(u.MulScalar(float64(i) / float64(nu))).
				Add(v.MulScalar(float64(j) / float64(nv)))
			vertices = append(vertices, p)
		}
	}

	faces := make([]Face, 0, nu*nv)
	for j := 0; j < nv; j++ {
		for i := 0; i < nu; i++ {
			faces = append(faces, Face{index(i, j), index(i+1, j), index(i+1, j+1), index(i, j+1)})
		}
	}
	return New(vertices, faces, name)
}
