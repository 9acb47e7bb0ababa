package softbody

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softsim/internal/geom"
)

// Edge is a distance constraint between two particles.
type Edge struct {
	V          [2]int
	RestLength float64
}

// Tet is a volume constraint over four particles.
type Tet struct {
	V          [4]int
	RestVolume float64
}

// volumeOrder lists, for each tet vertex, the opposite triangle wound so
// that cross(p[o1]-p[o0], p[o2]-p[o0]) is the volume gradient times 6.
var volumeOrder = [4][3]int{{1, 3, 2}, {0, 2, 3}, {0, 3, 1}, {0, 1, 2}}

func buildEdges(pos []mgl64.Vec3, ids []int) []Edge {
	edges := make([]Edge, len(ids)/2)
	for i := range edges {
		a, b := ids[2*i], ids[2*i+1]
		edges[i] = Edge{V: [2]int{a, b}, RestLength: pos[a].Sub(pos[b]).Len()}
	}
	return edges
}

// buildTets computes rest volumes and accumulates inverse masses. A tet
// with non-positive rest volume adds no mass.
func buildTets(pos []mgl64.Vec3, ids []int, invMass []float64) []Tet {
	tets := make([]Tet, len(ids)/4)
	for i := range tets {
		var v [4]int
		copy(v[:], ids[4*i:4*i+4])
		vol := geom.TetVolume(pos[v[0]], pos[v[1]], pos[v[2]], pos[v[3]])
		tets[i] = Tet{V: v, RestVolume: vol}
		if vol > 0 {
			w := 1 / (vol / 4)
			for _, id := range v {
				invMass[id] += w
			}
		}
	}
	return tets
}
