package softbody

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softsim/internal/geom"
)

// PreSolve integrates free particles under gravity and clamps them into
// the world box. A particle leaving the box on some axis falls back to its
// previous position with that axis pinned to the nearest wall.
func (b *Body) PreSolve(dt float64, gravity, worldMin, worldMax mgl64.Vec3) {
	p := &b.p
	for i := range p.Pos {
		if p.InvMass[i] == 0 {
			continue
		}
		p.Vel[i] = p.Vel[i].Add(gravity.Mul(dt))
		p.Prev[i] = p.Pos[i]
		next := p.Pos[i].Add(p.Vel[i].Mul(dt))

		// Every offending axis is pinned to its wall; the rest fall back to prev.
		clamped := p.Prev[i]
		hit := false
		for a := 0; a < 3; a++ {
			if next[a] < worldMin[a] {
				clamped[a] = worldMin[a]
				hit = true
			} else if next[a] > worldMax[a] {
				clamped[a] = worldMax[a]
				hit = true
			}
		}
		if hit {
			next = clamped
		}
		p.Pos[i] = next
	}
}

// Solve relaxes edge constraints and then volume constraints in their
// construction order, applying each correction immediately.
func (b *Body) Solve(dt float64) {
	if dt <= 0 {
		return
	}
	if b.opts.Formulation == Accumulated {
		clear(b.edgeLambda)
		clear(b.tetLambda)
	}
	for it := 0; it < b.opts.Iterations; it++ {
		b.solveEdges(b.opts.EdgeCompliance, dt)
		b.solveVolumes(b.opts.VolumeCompliance, dt)
	}
}

// PostSolve derives velocities from the position change and refreshes the
// skinned display mesh.
func (b *Body) PostSolve(dt float64) {
	if dt <= 0 {
		return
	}
	p := &b.p
	inv := 1 / dt
	for i := range p.Pos {
		if p.InvMass[i] == 0 {
			continue
		}
		p.Vel[i] = p.Pos[i].Sub(p.Prev[i]).Mul(inv)
	}
	b.updateSkin()
}

func (b *Body) solveEdges(compliance, dt float64) {
	p := &b.p
	alpha := compliance / (dt * dt)
	for i := range b.edges {
		e := &b.edges[i]
		i0, i1 := e.V[0], e.V[1]
		w0, w1 := p.InvMass[i0], p.InvMass[i1]
		w := w0 + w1
		if w <= 0 {
			continue
		}
		n := p.Pos[i0].Sub(p.Pos[i1])
		l := n.Len()
		if l < geom.Epsilon {
			continue
		}
		n = n.Mul(1 / l)
		c := l - e.RestLength

		var s float64
		if b.edgeLambda != nil {
			s = -(c + alpha*b.edgeLambda[i]) / (w + alpha)
			b.edgeLambda[i] += s
		} else {
			s = -c / (w + alpha)
		}

		if w0 != 0 {
			p.Pos[i0] = p.Pos[i0].Add(n.Mul(s * w0))
		}
		if w1 != 0 {
			p.Pos[i1] = p.Pos[i1].Sub(n.Mul(s * w1))
		}
	}
}

func (b *Body) solveVolumes(compliance, dt float64) {
	p := &b.p
	alpha := compliance / (dt * dt)
	for i := range b.tets {
		t := &b.tets[i]

		var x, grad [4]mgl64.Vec3
		for k, id := range t.V {
			x[k] = p.Pos[id]
		}

		w := 0.0
		for j := 0; j < 4; j++ {
			o := volumeOrder[j]
			grad[j] = x[o[1]].Sub(x[o[0]]).Cross(x[o[2]].Sub(x[o[0]])).Mul(1.0 / 6)
			w += p.InvMass[t.V[j]] * grad[j].LenSqr()
		}
		if w < geom.Epsilon {
			continue
		}

		c := geom.TetVolume(x[0], x[1], x[2], x[3]) - t.RestVolume

		var s float64
		if b.tetLambda != nil {
			s = -(c + alpha*b.tetLambda[i]) / (w + alpha)
			b.tetLambda[i] += s
		} else {
			s = -c / (w + alpha)
		}

		for j, id := range t.V {
			if wj := p.InvMass[id]; wj != 0 {
				p.Pos[id] = p.Pos[id].Add(grad[j].Mul(s * wj))
			}
		}
	}
}
