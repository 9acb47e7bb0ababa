package softbody

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softsim/internal/dynamo"
	"github.com/san-kum/softsim/internal/geom"
	"github.com/san-kum/softsim/internal/mesh"
	"github.com/san-kum/softsim/internal/skin"
)

// Particles is the per-vertex state, stored as parallel slices.
type Particles struct {
	Pos     []mgl64.Vec3
	Prev    []mgl64.Vec3
	Vel     []mgl64.Vec3
	InvMass []float64
}

func newParticles(pos []mgl64.Vec3) Particles {
	return Particles{
		Pos:     pos,
		Prev:    append([]mgl64.Vec3(nil), pos...),
		Vel:     make([]mgl64.Vec3, len(pos)),
		InvMass: make([]float64, len(pos)),
	}
}

func (p *Particles) Len() int { return len(p.Pos) }

// Body is a tetrahedral soft body solved with compliant position
// constraints.
type Body struct {
	name string
	opts Options

	p       Particles
	edges   []Edge
	tets    []Tet
	tetIDs  [][4]int
	surface []int

	grabbed []GrabbedVertex

	// Per-constraint multipliers, only allocated for Accumulated.
	edgeLambda []float64
	tetLambda  []float64

	display     []mgl64.Vec3
	displayTris []int
	skin        skin.Table

	restPos     []mgl64.Vec3
	restInvMass []float64
	restDisplay []mgl64.Vec3
	restVolume  float64
}

var _ dynamo.Body = (*Body)(nil)
var _ dynamo.Grabbable = (*Body)(nil)

// New builds a body from a tet mesh and an optional display mesh. The
// meshes are copied, so callers may reuse them.
func New(tm *mesh.TetMesh, vm *mesh.VisMesh, opts Options) (*Body, error) {
	if tm == nil {
		return nil, fmt.Errorf("nil tet mesh: %w", dynamo.ErrInvalidMesh)
	}
	if err := tm.Validate(); err != nil {
		return nil, err
	}
	if vm != nil {
		if err := vm.Validate(); err != nil {
			return nil, err
		}
	}
	if err := opts.normalize(); err != nil {
		return nil, err
	}

	tm = tm.Clone()
	tm.Transform(opts.Scale, opts.Offset)

	b := &Body{
		name:    opts.Name,
		opts:    opts,
		p:       newParticles(tm.Positions()),
		surface: append([]int(nil), tm.SurfaceTriIDs...),
	}
	b.edges = buildEdges(b.p.Pos, tm.EdgeIDs)
	b.tets = buildTets(b.p.Pos, tm.TetIDs, b.p.InvMass)
	b.tetIDs = make([][4]int, len(b.tets))
	for i, t := range b.tets {
		b.tetIDs[i] = t.V
		b.restVolume += t.RestVolume
	}

	if opts.Formulation == Accumulated {
		b.edgeLambda = make([]float64, len(b.edges))
		b.tetLambda = make([]float64, len(b.tets))
	}

	if opts.PinBase {
		for i, p := range b.p.Pos {
			if p.Y() < opts.PinHeight {
				b.p.InvMass[i] = 0
			}
		}
	}

	if vm != nil {
		vm = vm.Clone()
		vm.Transform(opts.Scale, opts.Offset)
		b.display = vm.Positions()
		b.displayTris = vm.TriIDs
		b.skin = skin.Bind(b.p.Pos, b.tetIDs, b.display, opts.Skin)
		b.restDisplay = append([]mgl64.Vec3(nil), b.display...)
	}

	b.restPos = append([]mgl64.Vec3(nil), b.p.Pos...)
	b.restInvMass = append([]float64(nil), b.p.InvMass...)
	return b, nil
}

func (b *Body) Name() string       { return b.name }
func (b *Body) Kind() dynamo.Kind  { return dynamo.KindTetSoftBody }
func (b *Body) Options() Options   { return b.opts }
func (b *Body) NumParticles() int  { return b.p.Len() }
func (b *Body) Edges() []Edge      { return b.edges }
func (b *Body) Tets() []Tet        { return b.tets }
func (b *Body) Skin() skin.Table   { return b.skin }
func (b *Body) SurfaceTris() []int { return b.surface }

// Positions returns the live particle positions. Callers must not modify
// the slice.
func (b *Body) Positions() []mgl64.Vec3 { return b.p.Pos }

func (b *Body) Velocity(i int) mgl64.Vec3 { return b.p.Vel[i] }
func (b *Body) InvMass(i int) float64     { return b.p.InvMass[i] }

// Display returns the skinned display vertices and their triangles, or nil
// when the body has no display mesh.
func (b *Body) Display() ([]mgl64.Vec3, []int) { return b.display, b.displayTris }

// SetEdgeCompliance changes edge softness for subsequent solves.
func (b *Body) SetEdgeCompliance(c float64) {
	if c >= 0 {
		b.opts.EdgeCompliance = c
	}
}

// SetVolumeCompliance changes volume softness for subsequent solves.
func (b *Body) SetVolumeCompliance(c float64) {
	if c >= 0 {
		b.opts.VolumeCompliance = c
	}
}

// Translate shifts the whole body without giving it velocity.
func (b *Body) Translate(offset mgl64.Vec3) {
	for i := range b.p.Pos {
		b.p.Pos[i] = b.p.Pos[i].Add(offset)
		b.p.Prev[i] = b.p.Prev[i].Add(offset)
	}
	b.updateSkin()
}

// Squeeze flattens every particle to the given height. The body springs
// back on the following steps.
func (b *Body) Squeeze(height float64) {
	for i := range b.p.Pos {
		b.p.Pos[i][1] = height
	}
	b.updateSkin()
}

// Reset restores the construction-time state and releases all grabs.
func (b *Body) Reset() {
	copy(b.p.Pos, b.restPos)
	copy(b.p.Prev, b.restPos)
	copy(b.p.InvMass, b.restInvMass)
	for i := range b.p.Vel {
		b.p.Vel[i] = mgl64.Vec3{}
	}
	b.grabbed = b.grabbed[:0]
	copy(b.display, b.restDisplay)
}

func (b *Body) updateSkin() {
	if b.skin != nil {
		b.skin.Apply(b.p.Pos, b.tetIDs, b.display)
	}
}

// Volume returns the current signed volume summed over all tets.
func (b *Body) Volume() float64 {
	v := 0.0
	for _, t := range b.tets {
		v += geom.TetVolume(b.p.Pos[t.V[0]], b.p.Pos[t.V[1]], b.p.Pos[t.V[2]], b.p.Pos[t.V[3]])
	}
	return v
}

func (b *Body) RestVolume() float64 { return b.restVolume }

// KineticEnergy sums 1/2 m v^2 over free particles.
func (b *Body) KineticEnergy() float64 {
	e := 0.0
	for i, w := range b.p.InvMass {
		if w == 0 {
			continue
		}
		e += 0.5 * b.p.Vel[i].LenSqr() / w
	}
	return e
}

// MeanEdgeStrain is the average of |len-rest|/rest over all edges.
func (b *Body) MeanEdgeStrain() float64 {
	sum, n := 0.0, 0
	for _, e := range b.edges {
		if e.RestLength <= geom.Epsilon {
			continue
		}
		l := b.p.Pos[e.V[0]].Sub(b.p.Pos[e.V[1]]).Len()
		d := l - e.RestLength
		if d < 0 {
			d = -d
		}
		sum += d / e.RestLength
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Centroid returns the mean particle position.
func (b *Body) Centroid() mgl64.Vec3 { return geom.Centroid(b.p.Pos...) }

// Valid reports whether every particle position is finite.
func (b *Body) Valid() bool {
	for _, p := range b.p.Pos {
		if !geom.IsFinite(p) {
			return false
		}
	}
	return true
}
