package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/softsim/internal/dynamo"
)

var params = map[string]func(c *Config, v float64){
	"edge_compliance":   func(c *Config, v float64) { c.Body.EdgeCompliance = v },
	"volume_compliance": func(c *Config, v float64) { c.Body.VolumeCompliance = v },
	"iterations":        func(c *Config, v float64) { c.Body.Iterations = int(v + 0.5) },
	"scale":             func(c *Config, v float64) { c.Body.Scale = v },
	"pin_height":        func(c *Config, v float64) { c.Body.PinHeight = v },
	"substeps":          func(c *Config, v float64) { c.World.Substeps = int(v + 0.5) },
	"gravity_y":         func(c *Config, v float64) { c.World.Gravity[1] = v },
	"dt":                func(c *Config, v float64) { c.Run.Dt = v },
}

// Set assigns a numeric parameter by name. Sweeps and tuning use it.
func (c *Config) Set(name string, v float64) error {
	fn, ok := params[name]
	if !ok {
		return fmt.Errorf("unknown parameter %q: %w", name, dynamo.ErrInvalidParams)
	}
	fn(c, v)
	return nil
}

// Params lists the names accepted by Set.
func Params() []string {
	names := make([]string, 0, len(params))
	for n := range params {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
