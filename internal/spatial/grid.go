// Package spatial provides a uniform hash grid for "points near a location"
// queries.
package spatial

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// CellKey identifies one grid cell.
type CellKey [3]int

// Grid buckets point indices by cell. A Grid is rebuilt from scratch by
// Build and is not meant to be updated incrementally.
type Grid struct {
	cellSize    float64
	invCellSize float64
	cells       map[CellKey][]int
	count       int
}

// NewGrid creates an empty grid. cellSize must be positive.
func NewGrid(cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &Grid{
		cellSize:    cellSize,
		invCellSize: 1 / cellSize,
		cells:       make(map[CellKey][]int),
	}
}

func (g *Grid) CellSize() float64 { return g.cellSize }

// Len returns the number of indexed points.
func (g *Grid) Len() int { return g.count }

// CellKey returns the cell containing p.
func (g *Grid) CellKey(p mgl64.Vec3) CellKey {
	return CellKey{g.coord(p[0]), g.coord(p[1]), g.coord(p[2])}
}

func (g *Grid) coord(x float64) int {
	return int(math.Floor(x * g.invCellSize))
}

// Build clears the grid and inserts the index of every point.
func (g *Grid) Build(points []mgl64.Vec3) {
	clear(g.cells)
	for i, p := range points {
		k := g.CellKey(p)
		g.cells[k] = append(g.cells[k], i)
	}
	g.count = len(points)
}

// Query returns the indices stored in every cell overlapping the cube
// [center-radius, center+radius]. The result is a superset of the points
// within radius of center; callers re-check the exact distance.
func (g *Grid) Query(center mgl64.Vec3, radius float64) []int {
	if g.count == 0 || !(radius >= 0) {
		return nil
	}

	// Cell bounds stay in float64 until they are known to fit an int.
	var lo, hi [3]float64
	cells := 1.0
	for a := 0; a < 3; a++ {
		lo[a] = math.Floor((center[a] - radius) * g.invCellSize)
		hi[a] = math.Floor((center[a] + radius) * g.invCellSize)
		if math.IsNaN(lo[a]) || math.IsNaN(hi[a]) {
			return nil
		}
		cells *= hi[a] - lo[a] + 1
	}

	var out []int
	if !(cells <= float64(len(g.cells))) || !fitsInt(lo) || !fitsInt(hi) {
		for k, bucket := range g.cells {
			if inRange(k, lo, hi) {
				out = append(out, bucket...)
			}
		}
		return out
	}

	for x := int(lo[0]); x <= int(hi[0]); x++ {
		for y := int(lo[1]); y <= int(hi[1]); y++ {
			for z := int(lo[2]); z <= int(hi[2]); z++ {
				out = append(out, g.cells[CellKey{x, y, z}]...)
			}
		}
	}
	return out
}

const maxExactCell = 1 << 53

func fitsInt(b [3]float64) bool {
	for _, v := range b {
		if math.Abs(v) > maxExactCell {
			return false
		}
	}
	return true
}

func inRange(k CellKey, lo, hi [3]float64) bool {
	for a := 0; a < 3; a++ {
		if c := float64(k[a]); c < lo[a] || c > hi[a] {
			return false
		}
	}
	return true
}
