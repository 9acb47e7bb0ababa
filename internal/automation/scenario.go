package automation

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softsim/internal/config"
	"github.com/san-kum/softsim/internal/experiment"
	"github.com/san-kum/softsim/internal/grabber"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type Action string

const (
	ActionGrab      Action = "grab"
	ActionMove      Action = "move"
	ActionRelease   Action = "release"
	ActionPause     Action = "pause"
	ActionResume    Action = "resume"
	ActionTranslate Action = "translate"
	ActionSqueeze   Action = "squeeze"
)

const DefaultGrabRadius = 0.2

// Scenario scripts interaction with a single body. Config is decoded on
// top of the preset, so it only needs the fields that differ.
type Scenario struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Preset      string    `yaml:"preset"`
	Config      yaml.Node `yaml:"config"`
	Events      []Event   `yaml:"events"`
}

// Event fires once, before the first tick whose start time reaches At.
type Event struct {
	At     float64    `yaml:"at"`
	Action Action     `yaml:"action"`
	Point  [3]float64 `yaml:"point"`
	Radius float64    `yaml:"radius"`
	Height float64    `yaml:"height"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (sc *Scenario) Validate() error {
	for i, ev := range sc.Events {
		switch ev.Action {
		case ActionGrab, ActionMove, ActionRelease, ActionPause, ActionResume, ActionTranslate, ActionSqueeze:
		default:
			return fmt.Errorf("event %d: unknown action %q", i+1, ev.Action)
		}
		if ev.At < 0 {
			return fmt.Errorf("event %d: negative time %f", i+1, ev.At)
		}
	}
	if sc.Preset != "" && config.GetPreset(sc.Preset) == nil {
		return fmt.Errorf("unknown preset: %s", sc.Preset)
	}
	return nil
}

// BuildConfig resolves the preset and applies the inline overrides.
func (sc *Scenario) BuildConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if sc.Preset != "" {
		if cfg = config.GetPreset(sc.Preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", sc.Preset)
		}
	}
	if !sc.Config.IsZero() {
		if err := sc.Config.Decode(cfg); err != nil {
			return nil, fmt.Errorf("scenario config: %w", err)
		}
	}
	return cfg, cfg.Validate()
}

// RunScenario executes the events against a fresh experiment and returns
// its recorded result.
func RunScenario(ctx context.Context, sc *Scenario, log *zap.Logger) (*experiment.Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	cfg, err := sc.BuildConfig()
	if err != nil {
		return nil, err
	}

	exp := experiment.New(cfg, experiment.WithLogger(log))
	if err := exp.Setup(); err != nil {
		return nil, fmt.Errorf("scenario %s setup: %w", sc.Name, err)
	}
	exp.AddHook(newPlayer(sc.Events, cfg.Run.Dt, log))

	log.Info("scenario started", zap.String("name", sc.Name), zap.Int("events", len(sc.Events)))
	result, err := exp.Run(ctx)
	if err != nil {
		return result, fmt.Errorf("scenario %s run: %w", sc.Name, err)
	}
	return result, nil
}

// player replays events on tick boundaries. It schedules on tick count
// rather than world time, which stands still while paused.
type player struct {
	events []Event
	next   int
	dt     float64
	sphere *grabber.Sphere
	log    *zap.Logger
}

func newPlayer(events []Event, dt float64, log *zap.Logger) *player {
	if log == nil {
		log = zap.NewNop()
	}
	sorted := append([]Event(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At < sorted[j].At })
	return &player{events: sorted, dt: dt, sphere: grabber.NewSphere(mgl64.Vec3{}, DefaultGrabRadius), log: log}
}

func (p *player) BeforeTick(tick int, _ float64, e *experiment.Experiment) error {
	now := float64(tick) * p.dt
	for p.next < len(p.events) && p.events[p.next].At <= now+1e-9 {
		ev := p.events[p.next]
		p.next++
		p.apply(ev, e)
		p.log.Debug("scenario event", zap.String("action", string(ev.Action)), zap.Float64("at", ev.At), zap.Int("tick", tick))
	}
	return nil
}

func (p *player) apply(ev Event, e *experiment.Experiment) {
	w, body := e.World(), e.Body()
	point := mgl64.Vec3(ev.Point)
	switch ev.Action {
	case ActionGrab:
		p.sphere.Center = point
		p.sphere.Radius = DefaultGrabRadius
		if ev.Radius > 0 {
			p.sphere.Radius = ev.Radius
		}
		if !p.sphere.StartGrab(w.Grabbables()) {
			p.log.Warn("grab found no vertex", zap.Float64s("point", ev.Point[:]))
		}
	case ActionMove:
		p.sphere.MoveTo(point)
	case ActionRelease:
		p.sphere.EndGrab(p.dt)
	case ActionPause:
		w.SetPaused(true)
	case ActionResume:
		w.SetPaused(false)
	case ActionTranslate:
		body.Translate(point)
	case ActionSqueeze:
		body.Squeeze(ev.Height)
	}
}
