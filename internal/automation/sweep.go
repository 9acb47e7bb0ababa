package automation

import (
	"context"
	"fmt"

	"github.com/san-kum/softsim/internal/config"
	"github.com/san-kum/softsim/internal/experiment"
)

// ParameterSweep runs the base config across evenly spaced values of one
// parameter.
type ParameterSweep struct {
	Base     *config.Config
	Param    string
	Min      float64
	Max      float64
	NumSteps int
	Workers  int
}

type SweepResult struct {
	Value       float64
	VolumeDrift float64
	EdgeStrain  float64
	Stability   float64
	FinalHeight float64
}

// Values returns the parameter values the sweep visits.
func (s *ParameterSweep) Values() []float64 {
	if s.NumSteps <= 1 {
		return []float64{s.Min}
	}
	step := (s.Max - s.Min) / float64(s.NumSteps-1)
	out := make([]float64, s.NumSteps)
	for i := range out {
		out[i] = s.Min + float64(i)*step
	}
	return out
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.Base == nil {
		return nil, fmt.Errorf("sweep needs a base config")
	}
	values := sweep.Values()
	cfgs := make([]*config.Config, len(values))
	for i, v := range values {
		cfg := sweep.Base.Clone()
		if err := cfg.Set(sweep.Param, v); err != nil {
			return nil, err
		}
		cfgs[i] = cfg
	}

	results, err := experiment.RunBatch(ctx, cfgs, sweep.Workers)
	if err != nil {
		return nil, err
	}

	out := make([]SweepResult, len(values))
	for i, r := range results {
		out[i] = SweepResult{
			Value:       values[i],
			VolumeDrift: r.Metrics["volume_drift"],
			EdgeStrain:  r.Metrics["edge_strain"],
			Stability:   r.Metrics["stability"],
		}
		if n := len(r.Samples); n > 0 {
			out[i].FinalHeight = r.Samples[n-1].Centroid.Y()
		}
	}
	return out, nil
}
