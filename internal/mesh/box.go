package mesh

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softsim/internal/geom"
)

// kuhn lists the six tetrahedra of a cube cell as corner indices, where a
// corner index has bit 0 for +x, bit 1 for +y and bit 2 for +z. Every
// tetrahedron runs along the main diagonal 0 -> 7, so neighbouring cells
// share faces exactly.
var kuhn = [6][4]int{
	{0, 1, 3, 7},
	{0, 1, 5, 7},
	{0, 2, 3, 7},
	{0, 2, 6, 7},
	{0, 4, 5, 7},
	{0, 4, 6, 7},
}

// Box builds a tetrahedralized box of res vertices per axis spanning
// [0,width] x [0,height] x [0,depth]. Vertices are laid out with x varying
// fastest. res below 2 is raised to 2.
func Box(res int, width, height, depth float64) *TetMesh {
	if res < 2 {
		res = 2
	}
	step := mgl64.Vec3{
		width / float64(res-1),
		height / float64(res-1),
		depth / float64(res-1),
	}
	idx := func(i, j, k int) int { return i + j*res + k*res*res }

	m := &TetMesh{Name: "box", Verts: make([]float64, 0, 3*res*res*res)}
	for k := 0; k < res; k++ {
		for j := 0; j < res; j++ {
			for i := 0; i < res; i++ {
				m.Verts = append(m.Verts, float64(i)*step[0], float64(j)*step[1], float64(k)*step[2])
			}
		}
	}
	pos := m.Positions()

	cells := res - 1
	m.TetIDs = make([]int, 0, 4*6*cells*cells*cells)
	for k := 0; k < cells; k++ {
		for j := 0; j < cells; j++ {
			for i := 0; i < cells; i++ {
				var corner [8]int
				for b := 0; b < 8; b++ {
					corner[b] = idx(i+b&1, j+(b>>1)&1, k+(b>>2)&1)
				}
				for _, t := range kuhn {
					v := [4]int{corner[t[0]], corner[t[1]], corner[t[2]], corner[t[3]]}
					if geom.TetVolume(pos[v[0]], pos[v[1]], pos[v[2]], pos[v[3]]) < 0 {
						v[2], v[3] = v[3], v[2]
					}
					m.TetIDs = append(m.TetIDs, v[:]...)
				}
			}
		}
	}

	m.EdgeIDs = uniqueEdges(m.TetIDs)
	m.SurfaceTriIDs = surfaceTriangles(m.TetIDs, pos)
	return m
}

// Tetrahedron builds a single right-corner tetrahedron with legs of the
// given size.
func Tetrahedron(size float64) *TetMesh {
	m := &TetMesh{
		Name:   "tet",
		Verts:  []float64{0, 0, 0, size, 0, 0, 0, size, 0, 0, 0, size},
		TetIDs: []int{0, 1, 2, 3},
	}
	m.EdgeIDs = uniqueEdges(m.TetIDs)
	m.SurfaceTriIDs = surfaceTriangles(m.TetIDs, m.Positions())
	return m
}

// uniqueEdges returns every tetrahedron edge once, in order of first use.
func uniqueEdges(tets []int) []int {
	seen := make(map[[2]int]bool)
	var edges []int
	for t := 0; t+3 < len(tets); t += 4 {
		for a := 0; a < 4; a++ {
			for b := a + 1; b < 4; b++ {
				e := [2]int{tets[t+a], tets[t+b]}
				if e[0] > e[1] {
					e[0], e[1] = e[1], e[0]
				}
				if seen[e] {
					continue
				}
				seen[e] = true
				edges = append(edges, e[0], e[1])
			}
		}
	}
	return edges
}

// surfaceTriangles returns the faces used by exactly one tetrahedron,
// wound so their normals point away from the owning tetrahedron.
func surfaceTriangles(tets []int, pos []mgl64.Vec3) []int {
	type face struct {
		tri [3]int
		opp int
	}
	key := func(tri [3]int) [3]int {
		k := tri
		sort.Ints(k[:])
		return k
	}

	count := make(map[[3]int]int)
	var faces []face
	for t := 0; t+3 < len(tets); t += 4 {
		v := tets[t : t+4]
		for skip := 0; skip < 4; skip++ {
			var tri [3]int
			n := 0
			for a := 0; a < 4; a++ {
				if a != skip {
					tri[n] = v[a]
					n++
				}
			}
			count[key(tri)]++
			faces = append(faces, face{tri: tri, opp: v[skip]})
		}
	}

	var out []int
	for _, f := range faces {
		if count[key(f.tri)] != 1 {
			continue
		}
		a, b, c := pos[f.tri[0]], pos[f.tri[1]], pos[f.tri[2]]
		if b.Sub(a).Cross(c.Sub(a)).Dot(pos[f.opp].Sub(a)) > 0 {
			f.tri[1], f.tri[2] = f.tri[2], f.tri[1]
		}
		out = append(out, f.tri[:]...)
	}
	return out
}
