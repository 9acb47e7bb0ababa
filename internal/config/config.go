package config

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softsim/internal/dynamo"
	"github.com/san-kum/softsim/internal/mesh"
	"github.com/san-kum/softsim/internal/skin"
	"github.com/san-kum/softsim/internal/softbody"
	"github.com/san-kum/softsim/internal/world"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt                = 1.0 / 60
	DefaultDuration          = 5.0
	DefaultResolution        = 4
	DefaultDisplayResolution = 8
	DefaultHeight            = 1.0
)

type Config struct {
	Mesh    MeshConfig    `yaml:"mesh"`
	Body    BodyConfig    `yaml:"body"`
	World   WorldConfig   `yaml:"world"`
	Run     RunConfig     `yaml:"run"`
	Logging LoggingConfig `yaml:"logging"`
}

// MeshConfig selects the simulation mesh and the optional display mesh.
// Source is one of box, tet or file.
type MeshConfig struct {
	Source            string            `yaml:"source"`
	Path              string            `yaml:"path,omitempty"`
	DisplayPath       string            `yaml:"display_path,omitempty"`
	Resolution        int               `yaml:"resolution"`
	Size              [3]float64        `yaml:"size"`
	DisplayResolution int               `yaml:"display_resolution"`
	Noise             mesh.NoiseOptions `yaml:"noise"`
}

type BodyConfig struct {
	Name             string     `yaml:"name"`
	EdgeCompliance   float64    `yaml:"edge_compliance"`
	VolumeCompliance float64    `yaml:"volume_compliance"`
	Formulation      string     `yaml:"formulation"`
	Iterations       int        `yaml:"iterations"`
	Scale            float64    `yaml:"scale"`
	Offset           [3]float64 `yaml:"offset"`
	PinBase          bool       `yaml:"pin_base"`
	PinHeight        float64    `yaml:"pin_height"`
	SkinCellSize     float64    `yaml:"skin_cell_size"`
	SkinBorder       float64    `yaml:"skin_border"`
}

type WorldConfig struct {
	Gravity       [3]float64 `yaml:"gravity"`
	Min           [3]float64 `yaml:"min"`
	Max           [3]float64 `yaml:"max"`
	Substeps      int        `yaml:"substeps"`
	ValidateState bool       `yaml:"validate_state"`
}

type RunConfig struct {
	Dt          float64 `yaml:"dt"`
	Duration    float64 `yaml:"duration"`
	SampleEvery int     `yaml:"sample_every"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Mesh: MeshConfig{
			Source:            "box",
			Resolution:        DefaultResolution,
			Size:              [3]float64{1, 1, 1},
			DisplayResolution: DefaultDisplayResolution,
		},
		Body: BodyConfig{
			Name:             "jelly",
			EdgeCompliance:   softbody.DefaultEdgeCompliance,
			VolumeCompliance: softbody.DefaultVolumeCompliance,
			Formulation:      softbody.Direct.String(),
			Iterations:       1,
			Scale:            1,
			Offset:           [3]float64{-0.5, DefaultHeight, -0.5},
			PinHeight:        softbody.DefaultPinHeight,
			SkinCellSize:     skin.DefaultCellSize,
			SkinBorder:       skin.DefaultBorder,
		},
		World: WorldConfig{
			Gravity:  [3]float64{0, -9.81, 0},
			Min:      [3]float64{-2.5, 0, -2.5},
			Max:      [3]float64{2.5, 5, 2.5},
			Substeps: world.DefaultSubsteps,
		},
		Run: RunConfig{
			Dt:          DefaultDt,
			Duration:    DefaultDuration,
			SampleEvery: 1,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads a YAML file on top of DefaultConfig.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects configurations no run could start from.
func (c *Config) Validate() error {
	if c.Run.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f: %w", c.Run.Dt, dynamo.ErrInvalidParams)
	}
	if c.Run.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f: %w", c.Run.Duration, dynamo.ErrInvalidParams)
	}
	switch c.Mesh.Source {
	case "box":
		if c.Mesh.Resolution < 2 {
			return fmt.Errorf("box resolution must be at least 2, got %d: %w", c.Mesh.Resolution, dynamo.ErrInvalidParams)
		}
		for _, s := range c.Mesh.Size {
			if s <= 0 {
				return fmt.Errorf("box size must be positive, got %v: %w", c.Mesh.Size, dynamo.ErrInvalidParams)
			}
		}
	case "tet":
	case "file":
		if c.Mesh.Path == "" {
			return fmt.Errorf("mesh source file needs a path: %w", dynamo.ErrInvalidParams)
		}
	default:
		return fmt.Errorf("unknown mesh source %q: %w", c.Mesh.Source, dynamo.ErrInvalidParams)
	}
	if _, err := c.BodyOptions(); err != nil {
		return err
	}
	_, err := world.New(c.WorldConfig())
	return err
}

// BodyOptions converts the body section into solver options.
func (c *Config) BodyOptions() (softbody.Options, error) {
	f, err := softbody.ParseFormulation(c.Body.Formulation)
	if err != nil {
		return softbody.Options{}, err
	}
	opts := softbody.Options{
		Name:             c.Body.Name,
		EdgeCompliance:   c.Body.EdgeCompliance,
		VolumeCompliance: c.Body.VolumeCompliance,
		Formulation:      f,
		Iterations:       c.Body.Iterations,
		Scale:            c.Body.Scale,
		Offset:           mgl64.Vec3(c.Body.Offset),
		PinBase:          c.Body.PinBase,
		PinHeight:        c.Body.PinHeight,
		Skin:             skin.Options{CellSize: c.Body.SkinCellSize, Border: c.Body.SkinBorder},
	}
	return opts, opts.Validate()
}

func (c *Config) WorldConfig() world.Config {
	return world.Config{
		Gravity:       mgl64.Vec3(c.World.Gravity),
		Min:           mgl64.Vec3(c.World.Min),
		Max:           mgl64.Vec3(c.World.Max),
		Substeps:      c.World.Substeps,
		ValidateState: c.World.ValidateState,
	}
}

// Ticks is the number of fixed steps a run covers.
func (c *Config) Ticks() int {
	return int(c.Run.Duration/c.Run.Dt + 0.5)
}

func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
