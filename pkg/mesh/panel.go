package mesh

import (
	"github.com/chazu/symbem/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Panel is the collocation data of one face.
type Panel struct {
	Center v3.Vec
	Normal v3.Vec
	Area   float64
}

// Panels returns the geometry of every face in face order. Area and normal
// come from the cross product of the diagonals, which is exact for planar
// quads and for triangles stored as [a b c a].
func (m *Mesh) Panels() []Panel {
	panels := make([]Panel, len(m.faces))
	for i, f := range m.faces {
		p0, p1, p2, p3 := m.vertices[f[0]], m.vertices[f[1]], m.vertices[f[2]], m.vertices[f[3]]
		cross := p2.Sub(p0).Cross(p3.Sub(p1))

		var center v3.Vec
		if f.IsTriangle() {
			center = p0.Add(p1).Add(p2).MulScalar(1.0 / 3)
		} else {
			center = p0.Add(p1).Add(p2).Add(p3).MulScalar(0.25)
		}
		panels[i] = Panel{
			Center: center,
			Normal: geom.Unit(cross),
			Area:   cross.Length() / 2,
		}
	}
	return panels
}

// Panels returns the panels of any shape, in block order.
func Panels(s Shape) []Panel {
	if m, ok := s.(*Mesh); ok {
		return m.Panels()
	}
	return s.Merge().Panels()
}
