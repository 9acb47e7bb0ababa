package metrics

// EdgeStrain averages the mean edge strain over all observations.
type EdgeStrain struct {
	name    string
	sum     float64
	samples int
}

func NewEdgeStrain() *EdgeStrain {
	return &EdgeStrain{name: "edge_strain"}
}

func (e *EdgeStrain) Name() string { return e.name }

func (e *EdgeStrain) Observe(s Sampler, t float64) {
	e.sum += s.MeanEdgeStrain()
	e.samples++
}

func (e *EdgeStrain) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.sum / float64(e.samples)
}

func (e *EdgeStrain) Reset() {
	e.sum = 0
	e.samples = 0
}
