package grabber

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softsim/internal/dynamo"
	"github.com/san-kum/softsim/internal/geom"
	"github.com/san-kum/softsim/internal/mesh"
	"github.com/san-kum/softsim/internal/softbody"
)

func newBody(t *testing.T, name string, offset mgl64.Vec3) *softbody.Body {
	t.Helper()
	opts := softbody.DefaultOptions()
	opts.Name = name
	opts.Offset = offset
	b, err := softbody.New(mesh.Box(3, 1, 1, 1), nil, opts)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestPointerPicksClosestBody(t *testing.T) {
	near := newBody(t, "near", mgl64.Vec3{0, 0, 0})
	far := newBody(t, "far", mgl64.Vec3{0, 0, -3})

	p := NewPointer()
	ray := geom.NewRay(mgl64.Vec3{0.3, 0.4, 5}, mgl64.Vec3{0, 0, -1})
	if !p.StartGrab(ray, []dynamo.Grabbable{far, near}) {
		t.Fatal("expected a grab")
	}
	if !near.IsGrabbed(p.Vertex()) || len(far.Grabbed()) != 0 {
		t.Error("grab should land on the nearer body")
	}
	if p.StartGrab(ray, []dynamo.Grabbable{near}) {
		t.Error("pointer already holds a vertex")
	}
}

func TestPointerDragAndRelease(t *testing.T) {
	b := newBody(t, "b", mgl64.Vec3{})
	p := NewPointer()
	origin := mgl64.Vec3{0.3, 0.4, 5}
	if !p.StartGrab(geom.NewRay(origin, mgl64.Vec3{0, 0, -1}), []dynamo.Grabbable{b}) {
		t.Fatal("expected a grab")
	}
	v := p.Vertex()

	moved := geom.NewRay(origin.Add(mgl64.Vec3{0.1, 0, 0}), mgl64.Vec3{0, 0, -1})
	p.MoveGrab(moved)
	want := mgl64.Vec3{0.4, 0.4, 1}
	if !b.GrabbedPos(v).ApproxEqualThreshold(want, 1e-9) {
		t.Errorf("expected %v, got %v", want, b.GrabbedPos(v))
	}

	final := geom.NewRay(origin.Add(mgl64.Vec3{0.2, 0, 0}), mgl64.Vec3{0, 0, -1})
	p.EndGrab(final, 0.1)
	if p.Held() || b.IsGrabbed(v) {
		t.Fatal("expected release")
	}
	if !b.Velocity(v).ApproxEqualThreshold(mgl64.Vec3{1, 0, 0}, 1e-9) {
		t.Errorf("expected release velocity (1,0,0), got %v", b.Velocity(v))
	}
	if b.InvMass(v) == 0 {
		t.Error("inverse mass should be restored")
	}
}

func TestPointerMiss(t *testing.T) {
	b := newBody(t, "b", mgl64.Vec3{})
	p := NewPointer()
	if p.StartGrab(geom.NewRay(mgl64.Vec3{5, 5, 5}, mgl64.Vec3{0, 0, -1}), []dynamo.Grabbable{b}) {
		t.Error("ray should miss")
	}
	p.MoveGrab(geom.NewRay(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}))
	p.EndGrab(geom.NewRay(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}), 1)
	if p.Vertex() != -1 {
		t.Error("nothing should be held")
	}
}

func TestSphereGrab(t *testing.T) {
	b := newBody(t, "b", mgl64.Vec3{})
	s := NewSphere(mgl64.Vec3{0.45, 0.5, 0.5}, 0.2)

	if !s.StartGrab([]dynamo.Grabbable{b}) {
		t.Fatal("expected a grab")
	}
	if s.Vertex() != 13 {
		t.Errorf("expected the centre vertex, got %d", s.Vertex())
	}
	if got := b.GrabbedPos(13); got != (mgl64.Vec3{0.5, 0.5, 0.5}) {
		t.Errorf("grab should not snap the vertex, got %v", got)
	}

	s.MoveTo(mgl64.Vec3{0.45, 0.7, 0.5})
	if !b.GrabbedPos(13).ApproxEqualThreshold(mgl64.Vec3{0.5, 0.7, 0.5}, 1e-12) {
		t.Errorf("vertex should follow the sphere, got %v", b.GrabbedPos(13))
	}

	s.EndGrab(0.1)
	if !b.Velocity(13).ApproxEqualThreshold(mgl64.Vec3{0, 2, 0}, 1e-9) {
		t.Errorf("expected release velocity (0,2,0), got %v", b.Velocity(13))
	}
	if s.Held() {
		t.Error("sphere should be empty after release")
	}
}

func TestSphereReleaseWithoutTime(t *testing.T) {
	b := newBody(t, "b", mgl64.Vec3{})
	s := NewSphere(mgl64.Vec3{0.5, 0.5, 0.5}, 0.1)
	if !s.StartGrab([]dynamo.Grabbable{b}) {
		t.Fatal("expected a grab")
	}
	s.MoveTo(mgl64.Vec3{1, 1, 1})
	s.EndGrab(0)
	if b.Velocity(13) != (mgl64.Vec3{}) {
		t.Errorf("zero dt should release at rest, got %v", b.Velocity(13))
	}
}

func TestSphereEmpty(t *testing.T) {
	b := newBody(t, "b", mgl64.Vec3{})
	s := NewSphere(mgl64.Vec3{3, 3, 3}, 0.1)
	if s.StartGrab([]dynamo.Grabbable{b}) {
		t.Error("sphere is outside the body")
	}
	s.MoveTo(mgl64.Vec3{})
	if s.Center != (mgl64.Vec3{}) {
		t.Error("sphere should move even when empty")
	}
}
