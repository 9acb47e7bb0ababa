package softbody

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softsim/internal/dynamo"
	"github.com/san-kum/softsim/internal/geom"
)

// GrabbedVertex remembers the inverse mass a pinned vertex had before it
// was grabbed.
type GrabbedVertex struct {
	Index        int
	SavedInvMass float64
}

// Grabbed returns a copy of the currently held vertices in grab order.
func (b *Body) Grabbed() []GrabbedVertex {
	return append([]GrabbedVertex(nil), b.grabbed...)
}

// IsGrabbed reports whether index is currently held.
func (b *Body) IsGrabbed(index int) bool { return b.grabIndex(index) >= 0 }

func (b *Body) grabIndex(index int) int {
	for i, g := range b.grabbed {
		if g.Index == index {
			return i
		}
	}
	return -1
}

func (b *Body) hold(point mgl64.Vec3, index int) {
	b.grabbed = append(b.grabbed, GrabbedVertex{Index: index, SavedInvMass: b.p.InvMass[index]})
	b.p.InvMass[index] = 0
	b.p.Pos[index] = point
}

// StartGrab pins the particle nearest to point and snaps it there. It
// fails when the body has no particles or the nearest one is already held.
func (b *Body) StartGrab(point mgl64.Vec3) (int, bool) {
	best, bestD2 := -1, math.Inf(1)
	for i, p := range b.p.Pos {
		if d2 := point.Sub(p).LenSqr(); d2 < bestD2 {
			best, bestD2 = i, d2
		}
	}
	if best < 0 || b.grabIndex(best) >= 0 {
		return -1, false
	}
	b.hold(point, best)
	return best, true
}

// StartGrabVertex pins a specific particle at point.
func (b *Body) StartGrabVertex(point mgl64.Vec3, index int) bool {
	if index < 0 || index >= b.p.Len() || b.grabIndex(index) >= 0 {
		return false
	}
	b.hold(point, index)
	return true
}

// MoveGrabbed moves a held particle. Unknown indices are ignored.
func (b *Body) MoveGrabbed(point mgl64.Vec3, index int) {
	if b.grabIndex(index) < 0 {
		return
	}
	b.p.Pos[index] = point
}

// EndGrab releases a held particle with the given velocity and restores its
// inverse mass. Unknown indices are ignored.
func (b *Body) EndGrab(point, velocity mgl64.Vec3, index int) {
	k := b.grabIndex(index)
	if k < 0 {
		return
	}
	b.p.InvMass[index] = b.grabbed[k].SavedInvMass
	b.p.Vel[index] = velocity
	b.grabbed = append(b.grabbed[:k], b.grabbed[k+1:]...)
}

// GrabbedPos returns the current position of a particle.
func (b *Body) GrabbedPos(index int) mgl64.Vec3 { return b.p.Pos[index] }

// IsRayHittingBody returns the closest hit of ray against the surface
// triangles, falling back to the display mesh when the tet mesh carries no
// surface.
func (b *Body) IsRayHittingBody(ray geom.Ray) (dynamo.RayHit, bool) {
	pos, tris := b.p.Pos, b.surface
	if len(tris) == 0 {
		pos, tris = b.display, b.displayTris
	}

	hit := dynamo.RayHit{Distance: math.Inf(1), Triangle: -1}
	for i := 0; i+2 < len(tris); i += 3 {
		t, ok := geom.IntersectTriangle(ray, pos[tris[i]], pos[tris[i+1]], pos[tris[i+2]])
		if ok && t < hit.Distance {
			hit.Distance = t
			hit.Triangle = i / 3
		}
	}
	if hit.Triangle < 0 {
		return dynamo.RayHit{}, false
	}
	hit.Point = ray.At(hit.Distance)
	return hit, true
}

// IsSphereInsideBody returns the free particle closest to center among
// those strictly inside the sphere.
func (b *Body) IsSphereInsideBody(center mgl64.Vec3, radius float64) (dynamo.SphereHit, bool) {
	hit := dynamo.SphereHit{Distance: math.Inf(1), Vertex: -1}
	for i, p := range b.p.Pos {
		if b.p.InvMass[i] == 0 {
			continue
		}
		d := p.Sub(center).Len()
		if d < radius && d < hit.Distance {
			hit = dynamo.SphereHit{Distance: d, Point: p, Vertex: i}
		}
	}
	return hit, hit.Vertex >= 0
}
