package viz

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Renderer draws meshes onto a canvas through a camera.
type Renderer struct {
	Canvas *Canvas
	Camera *Camera

	// Cull skips triangles facing away from the eye.
	Cull bool
}

func NewRenderer(c *Canvas, cam *Camera) *Renderer {
	return &Renderer{Canvas: c, Camera: cam, Cull: true}
}

func (r *Renderer) project(p mgl64.Vec3) (float64, float64, bool) {
	w, h := r.Canvas.Dots()
	x, y, _, ok := r.Camera.Project(p, w, h)
	return x, y, ok
}

func (r *Renderer) line(a, b mgl64.Vec3) {
	x0, y0, ok0 := r.project(a)
	x1, y1, ok1 := r.project(b)
	if ok0 && ok1 {
		r.Canvas.DrawLineF(x0, y0, x1, y1)
	}
}

// FacesEye reports whether the triangle (a, b, c), wound counter-clockwise
// around its outward normal, is seen from the front.
func (r *Renderer) FacesEye(a, b, c mgl64.Vec3) bool {
	va, vb, vc := r.Camera.View(a), r.Camera.View(b), r.Camera.View(c)
	n := vb.Sub(va).Cross(vc.Sub(va))
	eye := mgl64.Vec3{0, 0, -r.Camera.Distance}
	return n.Dot(va.Sub(eye)) < 0
}

// Triangles draws the outline of each triangle in tris. It returns the
// number of triangles drawn.
func (r *Renderer) Triangles(pos []mgl64.Vec3, tris []int) int {
	drawn := 0
	for i := 0; i+2 < len(tris); i += 3 {
		a, b, c := pos[tris[i]], pos[tris[i+1]], pos[tris[i+2]]
		if r.Cull && !r.FacesEye(a, b, c) {
			continue
		}
		r.line(a, b)
		r.line(b, c)
		r.line(c, a)
		drawn++
	}
	return drawn
}

// Edges draws index pairs.
func (r *Renderer) Edges(pos []mgl64.Vec3, edges []int) {
	for i := 0; i+1 < len(edges); i += 2 {
		r.line(pos[edges[i]], pos[edges[i+1]])
	}
}

// Floor outlines the bottom face of the world box.
func (r *Renderer) Floor(min, max mgl64.Vec3) {
	y := min.Y()
	c := [4]mgl64.Vec3{
		{min.X(), y, min.Z()},
		{max.X(), y, min.Z()},
		{max.X(), y, max.Z()},
		{min.X(), y, max.Z()},
	}
	for i := range c {
		r.line(c[i], c[(i+1)%4])
	}
}

// Sphere draws a screen-space circle of the sphere's projected radius.
func (r *Renderer) Sphere(center mgl64.Vec3, radius float64) {
	w, h := r.Canvas.Dots()
	x, y, depth, ok := r.Camera.Project(center, w, h)
	if !ok {
		return
	}
	r.Canvas.DrawCircle(x, y, radius*r.Camera.Zoom()*r.Camera.Distance/depth)
}
