package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Ray is a half line starting at Origin. Dir does not need to be normalized,
// but hit distances are only metric when it is.
type Ray struct {
	Origin mgl64.Vec3
	Dir    mgl64.Vec3
}

// NewRay builds a ray with a normalized direction.
func NewRay(origin, dir mgl64.Vec3) Ray {
	if l := dir.Len(); l > Epsilon {
		dir = dir.Mul(1 / l)
	}
	return Ray{Origin: origin, Dir: dir}
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// IntersectTriangle implements the Möller–Trumbore test. Only hits in front
// of the origin are reported.
func IntersectTriangle(r Ray, a, b, c mgl64.Vec3) (float64, bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	h := r.Dir.Cross(e2)
	det := e1.Dot(h)
	if math.Abs(det) < Epsilon {
		return 0, false
	}
	inv := 1 / det
	s := r.Origin.Sub(a)
	u := inv * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := inv * r.Dir.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := inv * e2.Dot(q)
	if t <= Epsilon {
		return 0, false
	}
	return t, true
}

// AABB is an axis-aligned box.
type AABB struct {
	Min, Max mgl64.Vec3
}

// Contains reports whether p lies inside the box, boundary included.
func (b AABB) Contains(p mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Bounds returns the tight box around points.
func Bounds(points []mgl64.Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	b := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		for i := 0; i < 3; i++ {
			b.Min[i] = math.Min(b.Min[i], p[i])
			b.Max[i] = math.Max(b.Max[i], p[i])
		}
	}
	return b
}
