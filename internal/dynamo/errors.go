package dynamo

import "errors"

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a state vector with NaN or Inf values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrInvalidConfig indicates a non-positive step, duration or tolerance.
	ErrInvalidConfig = errors.New("dynamo: invalid simulation config")

	// ErrStepTooSmall indicates adaptive timestep became too small.
	ErrStepTooSmall = errors.New("dynamo: adaptive timestep below minimum")

	// ErrMaxSteps indicates the step budget ran out before the final time.
	ErrMaxSteps = errors.New("dynamo: step budget exhausted")

	// ErrDimensionMismatch indicates mismatched state/system dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")

	// ErrIntegrationFailed is reported for every run that stops before
	// reaching the final time for a numerical reason.
	ErrIntegrationFailed = errors.New("dynamo: integration failed")
)

// SimulationError wraps an error with simulation context and the
// trajectory computed up to the failure.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Partial *Result
	Wrapped error
}

func (e *SimulationError) Error() string {
	return ErrIntegrationFailed.Error() + ": " + SimError{Time: e.Time, Step: e.Step, Message: e.Wrapped.Error()}.Error()
}

func (e *SimulationError) Unwrap() []error {
	return []error{ErrIntegrationFailed, e.Wrapped}
}
