// Package skin binds the vertices of a display mesh to the tetrahedra of a
// simulation mesh and evaluates that binding after every step.
package skin

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softsim/internal/geom"
	"github.com/san-kum/softsim/internal/spatial"
)

// Unbound marks a display vertex with no tetrahedron.
const Unbound = -1

const (
	DefaultCellSize = 0.05
	DefaultBorder   = 0.05
)

// Binding places one display vertex inside tetrahedron Tet. The fourth
// weight is 1 - B[0] - B[1] - B[2].
type Binding struct {
	Tet int
	B   [3]float64
}

// Weights returns all four barycentric weights.
func (b Binding) Weights() [4]float64 {
	return [4]float64{b.B[0], b.B[1], b.B[2], 1 - b.B[0] - b.B[1] - b.B[2]}
}

// Bound reports whether the vertex is attached to a tetrahedron.
func (b Binding) Bound() bool { return b.Tet != Unbound }

// Table holds one binding per display vertex. It is computed once and only
// read afterwards.
type Table []Binding

type Options struct {
	CellSize float64
	Border   float64
}

func DefaultOptions() Options {
	return Options{CellSize: DefaultCellSize, Border: DefaultBorder}
}

// Bind attaches each display vertex to the tetrahedron it lies in, or the
// one it lies least outside of. tets holds four vertex indices per entry.
func Bind(simPos []mgl64.Vec3, tets [][4]int, display []mgl64.Vec3, opts Options) Table {
	if opts.CellSize <= 0 {
		opts.CellSize = DefaultCellSize
	}

	table := make(Table, len(display))
	score := make([]float64, len(display))
	for i := range table {
		table[i].Tet = Unbound
		score[i] = math.Inf(1)
	}
	if len(display) == 0 {
		return table
	}

	grid := spatial.NewGrid(opts.CellSize)
	grid.Build(display)

	for ti, t := range tets {
		p0, p1, p2, p3 := simPos[t[0]], simPos[t[1]], simPos[t[2]], simPos[t[3]]
		center := geom.Centroid(p0, p1, p2, p3)
		rMax := 0.0
		for _, p := range [4]mgl64.Vec3{p0, p1, p2, p3} {
			rMax = math.Max(rMax, p.Sub(center).Len())
		}
		rMax += opts.Border

		candidates := grid.Query(center, rMax)
		if len(candidates) == 0 {
			continue
		}

		m := mgl64.Mat3FromCols(p0.Sub(p3), p1.Sub(p3), p2.Sub(p3))
		if math.Abs(m.Det()) < geom.Epsilon {
			continue
		}
		inv := m.Inv()

		for _, id := range candidates {
			if score[id] <= 0 {
				continue
			}
			v := display[id]
			if v.Sub(center).LenSqr() > rMax*rMax {
				continue
			}
			b := inv.Mul3x1(v.Sub(p3))
			w := [4]float64{b[0], b[1], b[2], 1 - b[0] - b[1] - b[2]}
			s := 0.0
			for _, wk := range w {
				s = math.Max(s, -wk)
			}
			if s < score[id] {
				score[id] = s
				table[id] = Binding{Tet: ti, B: [3]float64{b[0], b[1], b[2]}}
			}
		}
	}
	return table
}

// Apply writes the skinned position of every bound vertex into out. Unbound
// vertices keep whatever out already holds.
func (t Table) Apply(simPos []mgl64.Vec3, tets [][4]int, out []mgl64.Vec3) {
	for i, b := range t {
		if b.Tet == Unbound {
			continue
		}
		w := b.Weights()
		tet := tets[b.Tet]
		var p mgl64.Vec3
		for k := 0; k < 4; k++ {
			p = p.Add(simPos[tet[k]].Mul(w[k]))
		}
		out[i] = p
	}
}

// UnboundCount returns the number of display vertices without a tetrahedron.
func (t Table) UnboundCount() int {
	n := 0
	for _, b := range t {
		if b.Tet == Unbound {
			n++
		}
	}
	return n
}
