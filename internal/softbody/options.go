package softbody

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softsim/internal/dynamo"
	"github.com/san-kum/softsim/internal/skin"
)

// Formulation selects how constraint corrections are computed.
type Formulation int

const (
	// Direct applies s = -C/(w+alpha) on every sweep.
	Direct Formulation = iota
	// Accumulated keeps one Lagrange multiplier per constraint, reset at
	// the start of every Solve and accumulated over Iterations sweeps.
	Accumulated
)

func (f Formulation) String() string {
	switch f {
	case Accumulated:
		return "accumulated"
	default:
		return "direct"
	}
}

// ParseFormulation maps a config string onto a Formulation.
func ParseFormulation(s string) (Formulation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "direct":
		return Direct, nil
	case "accumulated", "xpbd":
		return Accumulated, nil
	default:
		return Direct, fmt.Errorf("unknown formulation %q: %w", s, dynamo.ErrInvalidParams)
	}
}

const (
	DefaultEdgeCompliance   = 100.0
	DefaultVolumeCompliance = 0.0
	DefaultPinHeight        = 0.1
)

// Options configures a Body at construction time.
type Options struct {
	Name string

	// Compliance is inverse stiffness: 0 is rigid, larger is softer.
	EdgeCompliance   float64
	VolumeCompliance float64
	Formulation      Formulation
	// Iterations is the number of relaxation sweeps per Solve.
	Iterations int

	// Scale and Offset are applied to both meshes before binding.
	Scale  float64
	Offset mgl64.Vec3

	// PinBase pins every vertex whose height is below PinHeight.
	PinBase   bool
	PinHeight float64

	Skin skin.Options
}

func DefaultOptions() Options {
	return Options{
		Name:             "softbody",
		EdgeCompliance:   DefaultEdgeCompliance,
		VolumeCompliance: DefaultVolumeCompliance,
		Formulation:      Direct,
		Iterations:       1,
		Scale:            1,
		PinHeight:        DefaultPinHeight,
		Skin:             skin.DefaultOptions(),
	}
}

// Validate rejects options no body can be built from. A zero Scale is
// allowed and means 1.
func (o Options) Validate() error {
	if o.EdgeCompliance < 0 || o.VolumeCompliance < 0 {
		return fmt.Errorf("compliance must be non-negative, got edge=%g volume=%g: %w",
			o.EdgeCompliance, o.VolumeCompliance, dynamo.ErrInvalidParams)
	}
	// A negative scale mirrors the mesh and inverts every tet.
	if o.Scale < 0 || math.IsNaN(o.Scale) || math.IsInf(o.Scale, 0) {
		return fmt.Errorf("scale must be a positive finite number, got %g: %w", o.Scale, dynamo.ErrInvalidParams)
	}
	return nil
}

func (o *Options) normalize() error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.Iterations < 1 {
		o.Iterations = 1
	}
	if o.Scale == 0 {
		o.Scale = 1
	}
	if o.Name == "" {
		o.Name = "softbody"
	}
	return nil
}
