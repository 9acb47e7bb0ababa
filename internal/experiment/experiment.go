package experiment

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softsim/internal/config"
	"github.com/san-kum/softsim/internal/metrics"
	"github.com/san-kum/softsim/internal/softbody"
	"github.com/san-kum/softsim/internal/world"
	"go.uber.org/zap"
)

// Sample is one row of a recorded run.
type Sample struct {
	Tick     int        `json:"tick"`
	Time     float64    `json:"time"`
	Volume   float64    `json:"volume"`
	Energy   float64    `json:"energy"`
	Strain   float64    `json:"strain"`
	Centroid mgl64.Vec3 `json:"centroid"`
}

type Result struct {
	Samples []Sample           `json:"samples"`
	Metrics map[string]float64 `json:"metrics"`
	Ticks   int                `json:"ticks"`
}

// Series extracts one column from the samples.
func (r *Result) Series(field string) ([]float64, error) {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		switch field {
		case "time":
			out[i] = s.Time
		case "volume":
			out[i] = s.Volume
		case "energy":
			out[i] = s.Energy
		case "strain":
			out[i] = s.Strain
		case "height":
			out[i] = s.Centroid.Y()
		default:
			return nil, fmt.Errorf("unknown series: %s", field)
		}
	}
	return out, nil
}

// Hook runs before every tick. Scenarios use it to drive grabs.
type Hook interface {
	BeforeTick(tick int, t float64, e *Experiment) error
}

type HookFunc func(tick int, t float64, e *Experiment) error

func (f HookFunc) BeforeTick(tick int, t float64, e *Experiment) error { return f(tick, t, e) }

type Option func(*Experiment)

func WithLogger(l *zap.Logger) Option {
	return func(e *Experiment) { e.log = l }
}

func WithRegistry(r *Registry) Option {
	return func(e *Experiment) { e.reg = r }
}

func WithMetrics(ms ...metrics.Metric) Option {
	return func(e *Experiment) { e.metrics = ms }
}

type Experiment struct {
	cfg     *config.Config
	reg     *Registry
	log     *zap.Logger
	metrics []metrics.Metric
	hooks   []Hook

	world *world.World
	body  *softbody.Body
}

func New(cfg *config.Config, opts ...Option) *Experiment {
	e := &Experiment{cfg: cfg, log: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	if e.reg == nil {
		e.reg = NewRegistry()
	}
	if e.metrics == nil {
		e.metrics = e.reg.DefaultMetrics()
	}
	return e
}

func (e *Experiment) Config() *config.Config { return e.cfg }
func (e *Experiment) World() *world.World    { return e.world }
func (e *Experiment) Body() *softbody.Body   { return e.body }

func (e *Experiment) AddHook(h Hook) { e.hooks = append(e.hooks, h) }

// Setup validates the config and builds the world and its body.
func (e *Experiment) Setup() error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	tm, vm, err := e.reg.BuildMesh(e.cfg.Mesh)
	if err != nil {
		return fmt.Errorf("build mesh: %w", err)
	}
	opts, err := e.cfg.BodyOptions()
	if err != nil {
		return err
	}
	body, err := softbody.New(tm, vm, opts)
	if err != nil {
		return fmt.Errorf("build body: %w", err)
	}
	w, err := world.New(e.cfg.WorldConfig(), world.WithLogger(e.log.Named("world")))
	if err != nil {
		return err
	}
	if err := w.Add(body); err != nil {
		return err
	}
	w.AddObserver(world.ObserverFunc(e.observe))
	e.world, e.body = w, body

	e.log.Debug("experiment ready",
		zap.String("body", body.Name()),
		zap.Int("particles", body.NumParticles()),
		zap.Int("tets", len(body.Tets())),
		zap.Int("edges", len(body.Edges())),
		zap.Int("unbound_display", body.Skin().UnboundCount()))
	return nil
}

// Run steps the world for the configured duration. On cancellation or
// divergence the samples recorded so far are returned with the error.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.world == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	ticks := e.cfg.Ticks()
	every := e.cfg.Run.SampleEvery
	if every < 1 {
		every = 1
	}
	result := &Result{
		Samples: make([]Sample, 0, ticks/every+1),
		Metrics: make(map[string]float64),
	}
	for _, m := range e.metrics {
		m.Reset()
	}
	result.Samples = append(result.Samples, e.sample(0))

	var runErr error
	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		for _, h := range e.hooks {
			if err := h.BeforeTick(i, e.world.Time(), e); err != nil {
				runErr = err
				break
			}
		}
		if runErr != nil {
			break
		}

		if err := e.world.Step(e.cfg.Run.Dt); err != nil {
			e.log.Warn("run aborted", zap.Int("tick", i), zap.Error(err))
			runErr = err
			break
		}
		result.Ticks++
		if result.Ticks%every == 0 {
			result.Samples = append(result.Samples, e.sample(result.Ticks))
		}
	}

	for _, m := range e.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	e.log.Info("run finished", zap.Int("ticks", result.Ticks), zap.Int("samples", len(result.Samples)))
	return result, runErr
}

// observe feeds the metrics after every tick the world actually advanced.
func (e *Experiment) observe(_ int, t float64) {
	for _, m := range e.metrics {
		m.Observe(e.body, t)
	}
}

func (e *Experiment) sample(tick int) Sample {
	return Sample{
		Tick:     tick,
		Time:     e.world.Time(),
		Volume:   e.body.Volume(),
		Energy:   e.body.KineticEnergy(),
		Strain:   e.body.MeanEdgeStrain(),
		Centroid: e.body.Centroid(),
	}
}
