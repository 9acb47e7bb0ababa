package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors. None of these are raised from the substep hot path.
var (
	// ErrInvalidMesh indicates a mesh descriptor with broken strides or no data.
	ErrInvalidMesh = errors.New("dynamo: invalid mesh")

	// ErrIndexOutOfRange indicates a topology index past the vertex count.
	ErrIndexOutOfRange = errors.New("dynamo: vertex index out of range")

	// ErrInvalidParams indicates a non-physical parameter (dt, substeps, bounds).
	ErrInvalidParams = errors.New("dynamo: parameter out of valid bounds")

	// ErrUnstable indicates a body produced NaN or Inf positions.
	ErrUnstable = errors.New("dynamo: simulation unstable (state diverged)")

	// ErrUnknownBody indicates a lookup for a body name that is not registered.
	ErrUnknownBody = errors.New("dynamo: unknown body")
)

// SimulationError wraps an error with the tick it happened on.
type SimulationError struct {
	Tick    int
	Time    float64
	Body    string
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("tick %d (t=%.4f) body %q: %v", e.Tick, e.Time, e.Body, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
