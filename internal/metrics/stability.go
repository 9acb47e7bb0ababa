package metrics

import "math"

const DefaultStrainThreshold = 0.25

// Stability is the fraction of observations whose mean edge strain stayed
// under the threshold. Non-finite strain always counts as a violation.
type Stability struct {
	threshold float64
	calm      int
	seen      int
}

func NewStability(threshold float64) *Stability {
	return &Stability{threshold: threshold}
}

func (s *Stability) Name() string { return "stability" }

func (s *Stability) Observe(smp Sampler, t float64) {
	s.seen++
	if strain := smp.MeanEdgeStrain(); !math.IsNaN(strain) && strain <= s.threshold {
		s.calm++
	}
}

// Value is 1 before anything has been observed.
func (s *Stability) Value() float64 {
	if s.seen == 0 {
		return 1
	}
	return float64(s.calm) / float64(s.seen)
}

func (s *Stability) Reset() { s.calm, s.seen = 0, 0 }
