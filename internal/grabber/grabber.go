// Package grabber turns pointer rays and probe spheres into vertex grabs
// on any dynamo.Grabbable body.
package grabber

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softsim/internal/dynamo"
	"github.com/san-kum/softsim/internal/geom"
)

type grab struct {
	body    dynamo.Grabbable
	vertex  int
	pos     mgl64.Vec3
	lastPos mgl64.Vec3
}

func (g *grab) moveTo(p mgl64.Vec3) {
	g.lastPos = g.body.GrabbedPos(g.vertex)
	g.pos = p
	g.body.MoveGrabbed(p, g.vertex)
}

func (g *grab) release(dt float64) {
	var vel mgl64.Vec3
	if dt > 0 {
		vel = g.pos.Sub(g.lastPos).Mul(1 / dt)
	}
	g.body.EndGrab(g.pos, vel, g.vertex)
}

// Pointer grabs along a ray, the way a mouse cursor does.
type Pointer struct {
	active   *grab
	distance float64
}

func NewPointer() *Pointer { return &Pointer{} }

// Held reports whether a vertex is currently held.
func (p *Pointer) Held() bool { return p.active != nil }

// Vertex returns the held vertex index, or -1.
func (p *Pointer) Vertex() int {
	if p.active == nil {
		return -1
	}
	return p.active.vertex
}

// StartGrab picks the closest surface hit among bodies and grabs the vertex
// nearest to it.
func (p *Pointer) StartGrab(ray geom.Ray, bodies []dynamo.Grabbable) bool {
	if p.active != nil {
		return false
	}
	var target dynamo.Grabbable
	best := dynamo.RayHit{Distance: math.Inf(1)}
	for _, b := range bodies {
		if hit, ok := b.IsRayHittingBody(ray); ok && hit.Distance < best.Distance {
			best, target = hit, b
		}
	}
	if target == nil {
		return false
	}
	idx, ok := target.StartGrab(best.Point)
	if !ok {
		return false
	}
	p.active = &grab{body: target, vertex: idx, pos: best.Point, lastPos: best.Point}
	p.distance = best.Distance
	return true
}

// MoveGrab keeps the held vertex at the grab distance along ray.
func (p *Pointer) MoveGrab(ray geom.Ray) {
	if p.active == nil {
		return
	}
	p.active.moveTo(ray.At(p.distance))
}

// EndGrab moves to the final ray position and releases with the velocity of
// the last move.
func (p *Pointer) EndGrab(ray geom.Ray, dt float64) {
	if p.active == nil {
		return
	}
	p.active.moveTo(ray.At(p.distance))
	p.active.release(dt)
	p.active = nil
}

// Sphere grabs the nearest free vertex inside a probe sphere and drags it
// with the sphere.
type Sphere struct {
	Center mgl64.Vec3
	Radius float64

	active *grab
}

func NewSphere(center mgl64.Vec3, radius float64) *Sphere {
	return &Sphere{Center: center, Radius: radius}
}

func (s *Sphere) Held() bool { return s.active != nil }

func (s *Sphere) Vertex() int {
	if s.active == nil {
		return -1
	}
	return s.active.vertex
}

// StartGrab pins the closest free vertex inside the sphere across bodies.
func (s *Sphere) StartGrab(bodies []dynamo.Grabbable) bool {
	if s.active != nil {
		return false
	}
	var target dynamo.Grabbable
	best := dynamo.SphereHit{Distance: math.Inf(1)}
	for _, b := range bodies {
		if hit, ok := b.IsSphereInsideBody(s.Center, s.Radius); ok && hit.Distance < best.Distance {
			best, target = hit, b
		}
	}
	if target == nil || !target.StartGrabVertex(best.Point, best.Vertex) {
		return false
	}
	s.active = &grab{body: target, vertex: best.Vertex, pos: best.Point, lastPos: best.Point}
	return true
}

// MoveTo moves the sphere and drags the held vertex by the same offset.
func (s *Sphere) MoveTo(center mgl64.Vec3) {
	delta := center.Sub(s.Center)
	s.Center = center
	if s.active == nil {
		return
	}
	s.active.moveTo(s.active.pos.Add(delta))
}

// EndGrab releases the held vertex with the velocity of the last move.
func (s *Sphere) EndGrab(dt float64) {
	if s.active == nil {
		return
	}
	s.active.release(dt)
	s.active = nil
}
