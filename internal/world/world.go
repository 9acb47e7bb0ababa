package world

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softsim/internal/dynamo"
	"go.uber.org/zap"
)

const DefaultSubsteps = 10

// Config holds the shared simulation parameters every body sees.
type Config struct {
	Gravity       mgl64.Vec3
	Min           mgl64.Vec3
	Max           mgl64.Vec3
	Substeps      int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Gravity:  mgl64.Vec3{0, -9.81, 0},
		Min:      mgl64.Vec3{-2.5, 0, -2.5},
		Max:      mgl64.Vec3{2.5, 5, 2.5},
		Substeps: DefaultSubsteps,
	}
}

func (c Config) validate() error {
	if c.Substeps < 1 {
		return fmt.Errorf("substeps must be at least 1, got %d: %w", c.Substeps, dynamo.ErrInvalidParams)
	}
	for a := 0; a < 3; a++ {
		if c.Min[a] >= c.Max[a] {
			return fmt.Errorf("world box is empty on axis %d (%f >= %f): %w", a, c.Min[a], c.Max[a], dynamo.ErrInvalidParams)
		}
	}
	return nil
}

// Observer is notified after every completed tick.
type Observer interface {
	OnTick(tick int, t float64)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(tick int, t float64)

func (f ObserverFunc) OnTick(tick int, t float64) { f(tick, t) }

type Option func(*World)

// WithLogger routes world events to l.
func WithLogger(l *zap.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.log = l
		}
	}
}

// World owns the bodies and advances them in lock-step. It is not safe for
// concurrent use.
type World struct {
	cfg       Config
	log       *zap.Logger
	bodies    []dynamo.Body
	observers []Observer

	paused bool
	tick   int
	time   float64
}

func New(cfg Config, opts ...Option) (*World, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	w := &World{cfg: cfg, log: zap.NewNop()}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

func (w *World) Config() Config { return w.cfg }
func (w *World) Tick() int      { return w.tick }
func (w *World) Time() float64  { return w.time }
func (w *World) Paused() bool   { return w.paused }

func (w *World) AddObserver(o Observer) { w.observers = append(w.observers, o) }

// Add registers a body. Names must be unique.
func (w *World) Add(b dynamo.Body) error {
	for _, other := range w.bodies {
		if other.Name() == b.Name() {
			return fmt.Errorf("body %q already registered: %w", b.Name(), dynamo.ErrInvalidParams)
		}
	}
	w.bodies = append(w.bodies, b)
	w.log.Debug("body added", zap.String("name", b.Name()), zap.Stringer("kind", b.Kind()))
	return nil
}

// Remove drops a body by name and reports whether it was present.
func (w *World) Remove(name string) bool {
	for i, b := range w.bodies {
		if b.Name() == name {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			w.log.Debug("body removed", zap.String("name", name))
			return true
		}
	}
	return false
}

func (w *World) Body(name string) (dynamo.Body, error) {
	for _, b := range w.bodies {
		if b.Name() == name {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", name, dynamo.ErrUnknownBody)
}

// Bodies returns the registered bodies in insertion order.
func (w *World) Bodies() []dynamo.Body {
	return append([]dynamo.Body(nil), w.bodies...)
}

// Grabbables returns the bodies that accept grab interaction.
func (w *World) Grabbables() []dynamo.Grabbable {
	var out []dynamo.Grabbable
	for _, b := range w.bodies {
		if g, ok := b.(dynamo.Grabbable); ok {
			out = append(out, g)
		}
	}
	return out
}

func (w *World) SetPaused(p bool) {
	if w.paused == p {
		return
	}
	w.paused = p
	w.log.Info("pause changed", zap.Bool("paused", p), zap.Int("tick", w.tick))
}

func (w *World) TogglePause() { w.SetPaused(!w.paused) }

// Step advances the world by one fixed tick split into substeps. Within a
// substep every body finishes a phase before any body starts the next one.
// A paused world or a non-positive dt leaves everything untouched.
func (w *World) Step(dt float64) error {
	if w.paused || dt <= 0 {
		return nil
	}
	sdt := dt / float64(w.cfg.Substeps)
	for s := 0; s < w.cfg.Substeps; s++ {
		for _, b := range w.bodies {
			b.PreSolve(sdt, w.cfg.Gravity, w.cfg.Min, w.cfg.Max)
		}
		for _, b := range w.bodies {
			b.Solve(sdt)
		}
		for _, b := range w.bodies {
			b.PostSolve(sdt)
		}
	}
	w.tick++
	w.time += dt

	for _, o := range w.observers {
		o.OnTick(w.tick, w.time)
	}

	if w.cfg.ValidateState {
		return w.validate()
	}
	return nil
}

func (w *World) validate() error {
	for _, b := range w.bodies {
		v, ok := b.(dynamo.Validator)
		if !ok || v.Valid() {
			continue
		}
		w.log.Warn("body diverged", zap.String("name", b.Name()), zap.Int("tick", w.tick))
		return &dynamo.SimulationError{Tick: w.tick, Time: w.time, Body: b.Name(), Wrapped: dynamo.ErrUnstable}
	}
	return nil
}
