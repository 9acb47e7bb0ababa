package metrics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softsim/internal/mesh"
	"github.com/san-kum/softsim/internal/softbody"
)

type sample struct {
	volume, rest, energy, strain float64
}

func (s sample) Volume() float64         { return s.volume }
func (s sample) RestVolume() float64     { return s.rest }
func (s sample) KineticEnergy() float64  { return s.energy }
func (s sample) MeanEdgeStrain() float64 { return s.strain }

func TestVolumeDriftKeepsWorst(t *testing.T) {
	m := NewVolumeDrift()
	for _, v := range []float64{1.0, 0.9, 1.05, 0.98} {
		m.Observe(sample{volume: v, rest: 1}, 0)
	}
	if math.Abs(m.Value()-0.1) > 1e-12 {
		t.Errorf("expected drift 0.1, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
	m.Observe(sample{volume: 2, rest: 0}, 0)
	if m.Value() != 0 {
		t.Error("zero rest volume should not produce drift")
	}
}

func TestAverages(t *testing.T) {
	tests := []struct {
		name   string
		metric Metric
		in     []sample
		want   float64
	}{
		{"kinetic", NewKineticEnergy(), []sample{{energy: 1}, {energy: 3}}, 2},
		{"strain", NewEdgeStrain(), []sample{{strain: 0.1}, {strain: 0.3}, {strain: 0.2}}, 0.2},
		{"stability", NewStability(0.25), []sample{{strain: 0.1}, {strain: 0.5}, {strain: math.NaN()}, {strain: 0.2}}, 0.5},
		{"empty stability", NewStability(0.25), nil, 1},
		{"empty kinetic", NewKineticEnergy(), nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, s := range tt.in {
				tt.metric.Observe(s, 0)
			}
			if got := tt.metric.Value(); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}

func TestDefaultsObserveBody(t *testing.T) {
	opts := softbody.DefaultOptions()
	opts.Offset = mgl64.Vec3{0, 1, 0}
	b, err := softbody.New(mesh.Box(2, 1, 1, 1), nil, opts)
	if err != nil {
		t.Fatal(err)
	}

	ms := Defaults()
	names := map[string]bool{}
	for _, m := range ms {
		m.Observe(b, 0)
		names[m.Name()] = true
	}
	for _, n := range []string{"volume_drift", "edge_strain", "kinetic_energy", "stability"} {
		if !names[n] {
			t.Errorf("missing default metric %s", n)
		}
	}
	for _, m := range ms {
		if m.Name() == "stability" && m.Value() != 1 {
			t.Errorf("body at rest should be stable, got %f", m.Value())
		}
		if m.Name() == "volume_drift" && m.Value() > 1e-12 {
			t.Errorf("body at rest should not drift, got %f", m.Value())
		}
	}
}
