package metrics

import "math"

// KineticEnergy averages the kinetic energy over all observations.
type KineticEnergy struct {
	name    string
	total   float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(s Sampler, t float64) {
	k.total += s.KineticEnergy()
	k.samples++
}

func (k *KineticEnergy) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.total / float64(k.samples)
}

func (k *KineticEnergy) Reset() {
	k.total = 0
	k.samples = 0
}

// VolumeDrift tracks the worst relative deviation from the rest volume.
type VolumeDrift struct {
	name     string
	maxDrift float64
	samples  int
}

func NewVolumeDrift() *VolumeDrift {
	return &VolumeDrift{name: "volume_drift"}
}

func (v *VolumeDrift) Name() string { return v.name }

func (v *VolumeDrift) Observe(s Sampler, t float64) {
	v.samples++
	rest := s.RestVolume()
	if rest == 0 {
		return
	}
	drift := math.Abs(s.Volume()-rest) / math.Abs(rest)
	v.maxDrift = math.Max(v.maxDrift, drift)
}

func (v *VolumeDrift) Value() float64 { return v.maxDrift }

func (v *VolumeDrift) Reset() {
	v.maxDrift = 0
	v.samples = 0
}
