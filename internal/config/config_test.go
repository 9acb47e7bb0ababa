package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/softsim/internal/dynamo"
	"github.com/san-kum/softsim/internal/softbody"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Body.EdgeCompliance != 100 || cfg.Body.VolumeCompliance != 0 {
		t.Errorf("unexpected default compliances %+v", cfg.Body)
	}
	if cfg.World.Substeps != 10 {
		t.Errorf("expected 10 substeps, got %d", cfg.World.Substeps)
	}
	if cfg.Run.Dt <= 0 || cfg.Run.Duration <= 0 {
		t.Error("dt and duration should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
	if cfg.Ticks() != 300 {
		t.Errorf("expected 300 ticks, got %d", cfg.Ticks())
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	data := []byte("body:\n  edge_compliance: 2.5\n  formulation: accumulated\nrun:\n  duration: 1\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Body.EdgeCompliance != 2.5 || cfg.Run.Duration != 1 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.World.Substeps != 10 || cfg.Mesh.Source != "box" {
		t.Error("defaults should survive the overlay")
	}
	opts, err := cfg.BodyOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Formulation != softbody.Accumulated {
		t.Errorf("expected accumulated formulation, got %v", opts.Formulation)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := GetPreset("noisy")
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Mesh.Noise != cfg.Mesh.Noise || got.Body.Name != "noisy" {
		t.Errorf("round trip lost data: %+v", got.Mesh)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	_ = os.WriteFile(path, []byte("run: [1, 2"), 0644)
	if _, err := Load(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Run.Dt = 0 }},
		{"negative duration", func(c *Config) { c.Run.Duration = -1 }},
		{"coarse box", func(c *Config) { c.Mesh.Resolution = 1 }},
		{"flat box", func(c *Config) { c.Mesh.Size[1] = 0 }},
		{"file without path", func(c *Config) { c.Mesh.Source = "file" }},
		{"unknown source", func(c *Config) { c.Mesh.Source = "sphere" }},
		{"negative compliance", func(c *Config) { c.Body.VolumeCompliance = -1 }},
		{"unknown formulation", func(c *Config) { c.Body.Formulation = "implicit" }},
		{"mirrored body", func(c *Config) { c.Body.Scale = -1 }},
		{"infinite scale", func(c *Config) { c.Body.Scale = math.Inf(1) }},
		{"no substeps", func(c *Config) { c.World.Substeps = 0 }},
		{"inverted box", func(c *Config) { c.World.Min[1] = 10 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, dynamo.ErrInvalidParams) {
				t.Errorf("expected ErrInvalidParams, got %v", err)
			}
		})
	}
}

func TestPresets(t *testing.T) {
	names := ListPresets()
	want := []string{"jelly", "noisy", "pinned", "soft", "stiff", "tower"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("expected sorted %v, got %v", want, names)
			break
		}
	}
	for _, n := range names {
		cfg := GetPreset(n)
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s does not validate: %v", n, err)
		}
	}
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for unknown preset")
	}
	if a, b := GetPreset("stiff"), GetPreset("stiff"); a == b {
		t.Error("presets should return fresh copies")
	}
}

func TestSet(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		check func(*Config) bool
	}{
		{"edge_compliance", 3, func(c *Config) bool { return c.Body.EdgeCompliance == 3 }},
		{"iterations", 3.6, func(c *Config) bool { return c.Body.Iterations == 4 }},
		{"substeps", 20, func(c *Config) bool { return c.World.Substeps == 20 }},
		{"gravity_y", -1.62, func(c *Config) bool { return c.World.Gravity[1] == -1.62 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if err := cfg.Set(tt.name, tt.value); err != nil {
				t.Fatal(err)
			}
			if !tt.check(cfg) {
				t.Errorf("parameter %s not applied", tt.name)
			}
		})
	}

	if err := DefaultConfig().Set("colour", 1); !errors.Is(err, dynamo.ErrInvalidParams) {
		t.Errorf("expected ErrInvalidParams, got %v", err)
	}
	if len(Params()) != 8 {
		t.Errorf("expected 8 parameters, got %v", Params())
	}
}
