package config

import "sort"

// Presets are named tweaks applied on top of DefaultConfig.
var Presets = map[string]func(*Config){
	"jelly": func(c *Config) {},
	"stiff": func(c *Config) {
		c.Body.Name = "stiff"
		c.Body.EdgeCompliance = 0
		c.Body.Formulation = "accumulated"
		c.Body.Iterations = 4
	},
	"soft": func(c *Config) {
		c.Body.Name = "soft"
		c.Body.EdgeCompliance = 1000
		c.Body.VolumeCompliance = 1e-6
	},
	"pinned": func(c *Config) {
		c.Body.Name = "pinned"
		c.Body.Offset = [3]float64{-0.5, 0, -0.5}
		c.Body.PinBase = true
		c.Body.EdgeCompliance = 1
	},
	"tower": func(c *Config) {
		c.Body.Name = "tower"
		c.Mesh.Resolution = 5
		c.Mesh.Size = [3]float64{0.5, 2, 0.5}
		c.Body.Offset = [3]float64{-0.25, 0, -0.25}
		c.Body.PinBase = true
		c.Body.EdgeCompliance = 0.1
	},
	"noisy": func(c *Config) {
		c.Body.Name = "noisy"
		c.Mesh.DisplayResolution = 12
		c.Mesh.Noise.Amplitude = 0.03
		c.Mesh.Noise.Frequency = 3
		c.Mesh.Noise.Seed = 7
	},
}

// GetPreset returns a fresh config for the named preset, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
