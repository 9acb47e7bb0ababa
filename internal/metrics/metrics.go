package metrics

// Sampler is the read-only view of a body a metric observes.
type Sampler interface {
	Volume() float64
	RestVolume() float64
	KineticEnergy() float64
	MeanEdgeStrain() float64
}

type Metric interface {
	Name() string
	Observe(s Sampler, t float64)
	Value() float64
	Reset()
}

// Defaults returns the metrics recorded for every headless run.
func Defaults() []Metric {
	return []Metric{
		NewVolumeDrift(),
		NewEdgeStrain(),
		NewKineticEnergy(),
		NewStability(DefaultStrainThreshold),
	}
}
