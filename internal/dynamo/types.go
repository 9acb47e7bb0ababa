package dynamo

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softsim/internal/geom"
)

// Kind tags the concrete variant behind a Body.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindTetSoftBody
)

func (k Kind) String() string {
	switch k {
	case KindTetSoftBody:
		return "tet-softbody"
	default:
		return "unknown"
	}
}

// Body is the stepping contract a World drives once per substep.
type Body interface {
	Name() string
	Kind() Kind
	PreSolve(dt float64, gravity, worldMin, worldMax mgl64.Vec3)
	Solve(dt float64)
	PostSolve(dt float64)
	Translate(offset mgl64.Vec3)
}

// RayHit describes where a ray first meets a body surface.
type RayHit struct {
	Distance float64
	Point    mgl64.Vec3
	Triangle int
}

// SphereHit describes the nearest free vertex inside a probe sphere.
type SphereHit struct {
	Distance float64
	Point    mgl64.Vec3
	Vertex   int
}

// Grabbable is implemented by bodies whose vertices can be pinned and
// dragged by an interaction controller.
type Grabbable interface {
	StartGrab(point mgl64.Vec3) (int, bool)
	StartGrabVertex(point mgl64.Vec3, index int) bool
	MoveGrabbed(point mgl64.Vec3, index int)
	EndGrab(point, velocity mgl64.Vec3, index int)
	IsRayHittingBody(ray geom.Ray) (RayHit, bool)
	IsSphereInsideBody(center mgl64.Vec3, radius float64) (SphereHit, bool)
	GrabbedPos(index int) mgl64.Vec3
}

// Validator is implemented by bodies that can report numeric blow-ups.
type Validator interface {
	Valid() bool
}
