package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes a sampled series.
type Summary struct {
	Min, Max  float64
	Mean, Std float64
	// Frequency is the dominant oscillation in Hz, zero when none was found.
	Frequency float64
	Settling  float64
}

// Summarize computes the statistics the analyze command prints.
func Summarize(series []float64, dt float64) Summary {
	if len(series) == 0 {
		return Summary{}
	}
	s := Summary{
		Min:      floats.Min(series),
		Max:      floats.Max(series),
		Settling: SettlingTime(series, dt, 0.05),
	}
	s.Mean, s.Std = stat.MeanStdDev(series, nil)
	if math.IsNaN(s.Std) {
		s.Std = 0
	}
	if f, ok := DominantFrequency(series, dt); ok {
		s.Frequency = f
	}
	return s
}
