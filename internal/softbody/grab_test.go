package softbody_test

import (
	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/softsim/internal/geom"
	"github.com/san-kum/softsim/internal/mesh"
	"github.com/san-kum/softsim/internal/softbody"
)

var _ = Describe("Grabbing", func() {
	var body *softbody.Body

	BeforeEach(func() {
		var err error
		body, err = softbody.New(mesh.Box(3, 1, 1, 1), nil, softbody.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("StartGrab", func() {
		It("pins the nearest particle and snaps it to the point", func() {
			point := mgl64.Vec3{-0.1, -0.1, -0.1}
			idx, ok := body.StartGrab(point)
			Expect(ok).To(BeTrue())
			Expect(idx).To(Equal(0))
			Expect(body.InvMass(idx)).To(BeZero())
			Expect(body.GrabbedPos(idx)).To(Equal(point))
			Expect(body.IsGrabbed(idx)).To(BeTrue())
		})

		It("rejects a particle that is already held", func() {
			_, ok := body.StartGrab(mgl64.Vec3{})
			Expect(ok).To(BeTrue())

			idx, ok := body.StartGrab(mgl64.Vec3{0.01, 0, 0})
			Expect(ok).To(BeFalse())
			Expect(idx).To(Equal(-1))
			Expect(body.Grabbed()).To(HaveLen(1))
		})
	})

	Describe("StartGrabVertex", func() {
		It("rejects out of range and duplicate indices", func() {
			Expect(body.StartGrabVertex(mgl64.Vec3{}, -1)).To(BeFalse())
			Expect(body.StartGrabVertex(mgl64.Vec3{}, body.NumParticles())).To(BeFalse())
			Expect(body.StartGrabVertex(mgl64.Vec3{}, 4)).To(BeTrue())
			Expect(body.StartGrabVertex(mgl64.Vec3{1, 1, 1}, 4)).To(BeFalse())
			Expect(body.Grabbed()).To(HaveLen(1))
		})

		It("holds several particles independently", func() {
			Expect(body.StartGrabVertex(mgl64.Vec3{0, 2, 0}, 2)).To(BeTrue())
			Expect(body.StartGrabVertex(mgl64.Vec3{0, 3, 0}, 5)).To(BeTrue())

			body.MoveGrabbed(mgl64.Vec3{1, 2, 0}, 2)
			Expect(body.GrabbedPos(2)).To(Equal(mgl64.Vec3{1, 2, 0}))
			Expect(body.GrabbedPos(5)).To(Equal(mgl64.Vec3{0, 3, 0}))

			body.EndGrab(mgl64.Vec3{}, mgl64.Vec3{}, 2)
			Expect(body.IsGrabbed(2)).To(BeFalse())
			Expect(body.IsGrabbed(5)).To(BeTrue())
		})
	})

	Describe("EndGrab", func() {
		It("restores the saved inverse mass and applies the release velocity", func() {
			before := body.InvMass(13)
			Expect(body.StartGrabVertex(mgl64.Vec3{0.5, 0.5, 0.5}, 13)).To(BeTrue())

			vel := mgl64.Vec3{0, 3, 0}
			body.EndGrab(mgl64.Vec3{0.5, 0.5, 0.5}, vel, 13)

			Expect(body.InvMass(13)).To(Equal(before))
			Expect(body.Velocity(13)).To(Equal(vel))
			Expect(body.Grabbed()).To(BeEmpty())
		})

		It("ignores particles that are not held", func() {
			before := body.InvMass(3)
			body.EndGrab(mgl64.Vec3{}, mgl64.Vec3{9, 9, 9}, 3)
			body.MoveGrabbed(mgl64.Vec3{9, 9, 9}, 3)

			Expect(body.InvMass(3)).To(Equal(before))
			Expect(body.Velocity(3)).To(Equal(mgl64.Vec3{}))
			Expect(body.GrabbedPos(3)).NotTo(Equal(mgl64.Vec3{9, 9, 9}))
		})
	})

	Describe("IsSphereInsideBody", func() {
		It("returns the closest free particle strictly inside", func() {
			hit, ok := body.IsSphereInsideBody(mgl64.Vec3{0.45, 0.5, 0.5}, 0.2)
			Expect(ok).To(BeTrue())
			Expect(hit.Vertex).To(Equal(13))
			Expect(hit.Distance).To(BeNumerically("~", 0.05, 1e-12))
		})

		It("skips held particles", func() {
			Expect(body.StartGrabVertex(mgl64.Vec3{0.5, 0.5, 0.5}, 13)).To(BeTrue())
			_, ok := body.IsSphereInsideBody(mgl64.Vec3{0.5, 0.5, 0.5}, 0.2)
			Expect(ok).To(BeFalse())
		})

		It("treats the radius as exclusive", func() {
			_, ok := body.IsSphereInsideBody(mgl64.Vec3{0.5, 0.5, 0.25}, 0.25)
			Expect(ok).To(BeFalse())
			_, ok = body.IsSphereInsideBody(mgl64.Vec3{0.5, 0.5, 0.25}, 0.2501)
			Expect(ok).To(BeTrue())
		})
	})

	Describe("IsRayHittingBody", func() {
		It("hits the nearest surface triangle", func() {
			ray := geom.NewRay(mgl64.Vec3{0.3, 0.4, 5}, mgl64.Vec3{0, 0, -1})
			hit, ok := body.IsRayHittingBody(ray)
			Expect(ok).To(BeTrue())
			Expect(hit.Distance).To(BeNumerically("~", 4, 1e-9))
			Expect(hit.Point.Z()).To(BeNumerically("~", 1, 1e-9))
		})

		It("misses when pointing away", func() {
			ray := geom.NewRay(mgl64.Vec3{0.3, 0.4, 5}, mgl64.Vec3{0, 0, 1})
			_, ok := body.IsRayHittingBody(ray)
			Expect(ok).To(BeFalse())
		})
	})
})
