package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/softsim/internal/config"
	"github.com/san-kum/softsim/internal/experiment"
	"go.uber.org/zap"
)

// Trial is one evaluated grid point.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	log        *zap.Logger
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges, log: zap.NewNop()}
}

func (g *GridSearch) WithLogger(l *zap.Logger) *GridSearch {
	g.log = l
	return g
}

// Points enumerates the grid, last parameter varying fastest.
func (g *GridSearch) Points() []map[string]float64 {
	var out []map[string]float64
	g.points(0, map[string]float64{}, &out)
	return out
}

func (g *GridSearch) points(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		cp := make(map[string]float64, len(current))
		for k, v := range current {
			cp[k] = v
		}
		*out = append(*out, cp)
		return
	}
	name := g.paramNames[depth]
	for _, v := range g.ranges[depth] {
		current[name] = v
		g.points(depth+1, current, out)
	}
	delete(current, name)
}

// Search runs one experiment per grid point on a copy of base and returns
// the parameters minimising metric. Failed runs are kept in the trial list
// and never win.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metric string) (map[string]float64, float64, []Trial, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, nil, fmt.Errorf("got %d parameter names for %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := math.Inf(1)
	var bestParams map[string]float64
	var trials []Trial

	for _, params := range g.Points() {
		if err := ctx.Err(); err != nil {
			return bestParams, best, trials, err
		}
		trial := Trial{Params: params, Value: math.NaN()}
		trial.Value, trial.Err = g.evaluate(ctx, base, params, metric)
		trials = append(trials, trial)
		g.log.Debug("trial", zap.Any("params", params), zap.Float64("value", trial.Value), zap.Error(trial.Err))

		if trial.Err == nil && trial.Value < best {
			best, bestParams = trial.Value, params
		}
	}

	if bestParams == nil {
		return nil, best, trials, fmt.Errorf("no trial succeeded")
	}
	return bestParams, best, trials, nil
}

func (g *GridSearch) evaluate(ctx context.Context, base *config.Config, params map[string]float64, metric string) (float64, error) {
	cfg := base.Clone()
	for name, v := range params {
		if err := cfg.Set(name, v); err != nil {
			return math.NaN(), err
		}
	}
	exp := experiment.New(cfg)
	if err := exp.Setup(); err != nil {
		return math.NaN(), err
	}
	result, err := exp.Run(ctx)
	if err != nil {
		return math.NaN(), err
	}
	val, ok := result.Metrics[metric]
	if !ok {
		return math.NaN(), fmt.Errorf("unknown metric: %s", metric)
	}
	return val, nil
}
