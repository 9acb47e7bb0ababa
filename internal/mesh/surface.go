package mesh

import (
	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl64"
)

// NoiseOptions perturbs generated display vertices radially from the box
// centre. A zero Amplitude disables the noise.
type NoiseOptions struct {
	Amplitude float64 `yaml:"amplitude"`
	Frequency float64 `yaml:"frequency"`
	Seed      int64   `yaml:"seed"`
}

// SurfaceGrid builds a display mesh covering the surface of the box
// [0,width] x [0,height] x [0,depth] with res vertices along each edge.
// Triangles are wound counter-clockwise seen from outside.
func SurfaceGrid(res int, width, height, depth float64, noise NoiseOptions) *VisMesh {
	if res < 2 {
		res = 2
	}
	size := mgl64.Vec3{width, height, depth}
	last := res - 1

	ids := make(map[[3]int]int)
	m := &VisMesh{Name: "surface"}
	vertex := func(l [3]int) int {
		if id, ok := ids[l]; ok {
			return id
		}
		id := len(ids)
		ids[l] = id
		for a := 0; a < 3; a++ {
			m.Verts = append(m.Verts, float64(l[a])/float64(last)*size[a])
		}
		return id
	}

	for a := 0; a < 3; a++ {
		b, c := (a+1)%3, (a+2)%3
		for _, f := range []int{0, last} {
			for u := 0; u < last; u++ {
				for v := 0; v < last; v++ {
					var l00, l10, l11, l01 [3]int
					l00[a], l10[a], l11[a], l01[a] = f, f, f, f
					l00[b], l00[c] = u, v
					l10[b], l10[c] = u+1, v
					l11[b], l11[c] = u+1, v+1
					l01[b], l01[c] = u, v+1

					p00, p10, p11, p01 := vertex(l00), vertex(l10), vertex(l11), vertex(l01)
					if f == last {
						m.TriIDs = append(m.TriIDs, p00, p10, p11, p00, p11, p01)
					} else {
						m.TriIDs = append(m.TriIDs, p00, p11, p10, p00, p01, p11)
					}
				}
			}
		}
	}

	if noise.Amplitude != 0 {
		applyNoise(m, size.Mul(0.5), noise)
	}
	return m
}

func applyNoise(m *VisMesh, center mgl64.Vec3, opts NoiseOptions) {
	freq := opts.Frequency
	if freq == 0 {
		freq = 1
	}
	p := perlin.NewPerlin(2, 2, 3, opts.Seed)
	for i := 0; i+2 < len(m.Verts); i += 3 {
		v := mgl64.Vec3{m.Verts[i], m.Verts[i+1], m.Verts[i+2]}
		dir := v.Sub(center)
		l := dir.Len()
		if l == 0 {
			continue
		}
		n := p.Noise3D(v[0]*freq, v[1]*freq, v[2]*freq)
		v = v.Add(dir.Mul(opts.Amplitude * n / l))
		m.Verts[i], m.Verts[i+1], m.Verts[i+2] = v[0], v[1], v[2]
	}
}
