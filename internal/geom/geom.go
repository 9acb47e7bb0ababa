// Package geom holds the small amount of 3D geometry shared by the solver,
// the skin binder and the grabbers.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the threshold below which lengths and weights count as zero.
const Epsilon = 1e-9

// TetVolume returns the signed volume of the tetrahedron (p0, p1, p2, p3).
func TetVolume(p0, p1, p2, p3 mgl64.Vec3) float64 {
	return p1.Sub(p0).Cross(p2.Sub(p0)).Dot(p3.Sub(p0)) / 6
}

// Centroid returns the average of the given points.
func Centroid(points ...mgl64.Vec3) mgl64.Vec3 {
	var c mgl64.Vec3
	if len(points) == 0 {
		return c
	}
	for _, p := range points {
		c = c.Add(p)
	}
	return c.Mul(1 / float64(len(points)))
}

// IsFinite reports whether every component of v is a real number.
func IsFinite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
