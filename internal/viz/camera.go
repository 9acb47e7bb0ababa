package viz

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softsim/internal/geom"
)

const (
	DefaultZoom     = 18.0
	DefaultDistance = 8.0
	MinZoom         = 2.0
	MaxZoom         = 200.0

	maxPitch = math.Pi/2 - 0.05
)

// Camera orbits a target point. Yaw, pitch and zoom ease towards their
// goals with critically damped springs advanced once per frame by Update.
type Camera struct {
	Target   mgl64.Vec3
	Distance float64

	yaw, pitch, zoom          float64
	yawVel, pitchVel, zoomVel float64
	goalYaw, goalPitch        float64
	goalZoom                  float64

	spring harmonica.Spring
}

// NewCamera returns a camera looking at target slightly from above.
func NewCamera(target mgl64.Vec3, fps int) *Camera {
	if fps < 1 {
		fps = 60
	}
	c := &Camera{
		Target:   target,
		Distance: DefaultDistance,
		spring:   harmonica.NewSpring(harmonica.FPS(fps), 8.0, 1.0),
	}
	c.goalYaw, c.goalPitch, c.goalZoom = 0.6, 0.35, DefaultZoom
	c.Snap()
	return c
}

// Orbit adds to the yaw and pitch goals. Pitch stays short of the poles.
func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.goalYaw += dYaw
	c.goalPitch = geom.Clamp(c.goalPitch+dPitch, -maxPitch, maxPitch)
}

// ZoomBy multiplies the zoom goal.
func (c *Camera) ZoomBy(f float64) {
	if f > 0 {
		c.goalZoom = geom.Clamp(c.goalZoom*f, MinZoom, MaxZoom)
	}
}

// Update advances the springs by one frame.
func (c *Camera) Update() {
	c.yaw, c.yawVel = c.spring.Update(c.yaw, c.yawVel, c.goalYaw)
	c.pitch, c.pitchVel = c.spring.Update(c.pitch, c.pitchVel, c.goalPitch)
	c.zoom, c.zoomVel = c.spring.Update(c.zoom, c.zoomVel, c.goalZoom)
}

// Snap jumps straight to the goals.
func (c *Camera) Snap() {
	c.yaw, c.pitch, c.zoom = c.goalYaw, c.goalPitch, c.goalZoom
	c.yawVel, c.pitchVel, c.zoomVel = 0, 0, 0
}

func (c *Camera) Yaw() float64   { return c.yaw }
func (c *Camera) Pitch() float64 { return c.pitch }
func (c *Camera) Zoom() float64  { return c.zoom }

func (c *Camera) rotation() mgl64.Mat3 {
	return mgl64.Rotate3DX(-c.pitch).Mul3(mgl64.Rotate3DY(c.yaw))
}

// View maps a world point into camera space: x left, y up, z away from
// the eye, origin at the target.
func (c *Camera) View(p mgl64.Vec3) mgl64.Vec3 {
	return c.rotation().Mul3x1(p.Sub(c.Target))
}

// Project maps p onto a w x h dot raster. depth grows away from the eye;
// ok is false for points at or behind the eye.
func (c *Camera) Project(p mgl64.Vec3, w, h int) (x, y, depth float64, ok bool) {
	v := c.View(p)
	den := c.Distance + v.Z()
	if den <= geom.Epsilon {
		return 0, 0, den, false
	}
	f := c.zoom * c.Distance / den
	x = float64(w)/2 - v.X()*f
	y = float64(h)/2 - v.Y()*f
	return x, y, den, true
}

// Ray returns the world ray through dot (x, y) of a w x h raster. It
// inverts Project: every point of the ray projects back to (x, y).
func (c *Camera) Ray(x, y float64, w, h int) geom.Ray {
	inv := c.rotation().Transpose()
	onPlane := mgl64.Vec3{(float64(w)/2 - x) / c.zoom, (float64(h)/2 - y) / c.zoom, 0}
	eye := mgl64.Vec3{0, 0, -c.Distance}
	origin := c.Target.Add(inv.Mul3x1(eye))
	dir := inv.Mul3x1(onPlane.Sub(eye))
	return geom.NewRay(origin, dir)
}

// Eye returns the camera position in world space.
func (c *Camera) Eye() mgl64.Vec3 {
	return c.Target.Add(c.rotation().Transpose().Mul3x1(mgl64.Vec3{0, 0, -c.Distance}))
}
