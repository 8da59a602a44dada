package dynamo

import "errors"

// Domain errors for chain simulation.
var (
	// ErrInvalidState indicates a state vector with NaN or Inf values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrUnstable indicates an integration step diverged and was discarded.
	ErrUnstable = errors.New("dynamo: simulation unstable (state diverged)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrUnknownParameter indicates a parameter name nobody recognises.
	ErrUnknownParameter = errors.New("dynamo: unknown parameter")

	// ErrInvalidMass indicates a node mass that is not strictly positive.
	ErrInvalidMass = errors.New("dynamo: mass must be positive")

	// ErrIndexOutOfRange indicates a node index past the end of the chain.
	ErrIndexOutOfRange = errors.New("dynamo: node index out of range")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Frame   int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return e.Wrapped.Error()
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
