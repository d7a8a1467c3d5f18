package kinetics

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/reactsim/internal/dynamo"
	"github.com/san-kum/reactsim/internal/integrators"
	"github.com/san-kum/reactsim/internal/odesys"
)

// Options tunes the integration. Zero values pick defaults.
type Options struct {
	// Integrator defaults to Dormand-Prince RK45.
	Integrator dynamo.Integrator
	// Fixed disables adaptive stepping; Dt is then the step size.
	Fixed bool
	// Dt is the first (or fixed) step. Defaults to tEnd/100.
	Dt       float64
	AbsTol   float64
	RelTol   float64
	MinDt    float64
	MaxDt    float64
	MaxSteps int
	// Points > 0 reports on a uniform grid of that many times instead of
	// at every accepted step.
	Points    int
	Observers []dynamo.Observer
}

func DefaultOptions() Options {
	return Options{
		AbsTol:   1e-10,
		RelTol:   1e-10,
		MaxSteps: 1_000_000,
	}
}

// IntegrationError is returned when the solver stops before tEnd.
type IntegrationError struct {
	Partial *Result
	err     *dynamo.SimulationError
}

func (e *IntegrationError) Error() string { return e.err.Error() }
func (e *IntegrationError) Unwrap() error { return e.err }

// PartialResult extracts the trajectory computed before a failure.
func PartialResult(err error) (*Result, bool) {
	var ie *IntegrationError
	if errors.As(err, &ie) && ie.Partial != nil {
		return ie.Partial, true
	}
	return nil, false
}

// Integrate solves sys from t=0 to tEnd. init must name every species
// exactly once; params must cover every declared parameter, extra keys are
// ignored.
func Integrate(ctx context.Context, sys *odesys.System, init, params map[string]float64, tEnd float64, opts Options) (*Result, error) {
	if !(tEnd > 0) || math.IsInf(tEnd, 0) {
		return nil, fmt.Errorf("%w: final time must be positive and finite, got %g", dynamo.ErrInvalidConfig, tEnd)
	}

	x0, err := sys.InitialState(init)
	if err != nil {
		return nil, err
	}
	bound, err := sys.Bind(params)
	if err != nil {
		return nil, err
	}

	integ := opts.Integrator
	if integ == nil {
		integ = integrators.NewRK45()
	}

	cfg := simConfig(tEnd, opts)
	sim := dynamo.New(bound, integ)
	for _, o := range opts.Observers {
		sim.AddObserver(o)
	}

	names := sys.Names()
	raw, err := sim.Run(ctx, x0, cfg)
	if err != nil {
		var simErr *dynamo.SimulationError
		if errors.As(err, &simErr) {
			partial := newResult(simErr.Partial, names, bound.Params())
			return partial, &IntegrationError{Partial: partial, err: simErr}
		}
		if raw != nil {
			return newResult(raw, names, bound.Params()), err
		}
		return nil, err
	}

	return newResult(raw, names, bound.Params()), nil
}

func simConfig(tEnd float64, opts Options) dynamo.Config {
	def := DefaultOptions()
	cfg := dynamo.Config{
		Dt:            opts.Dt,
		Duration:      tEnd,
		Tolerance:     dynamo.Tolerance{Abs: opts.AbsTol, Rel: opts.RelTol},
		MinDt:         opts.MinDt,
		MaxDt:         opts.MaxDt,
		MaxSteps:      opts.MaxSteps,
		Points:        opts.Points,
		Adaptive:      !opts.Fixed,
		ValidateState: true,
	}
	if cfg.Dt <= 0 {
		cfg.Dt = tEnd / 100
	}
	if cfg.Tolerance.Abs <= 0 && cfg.Tolerance.Rel <= 0 {
		cfg.Tolerance = dynamo.Tolerance{Abs: def.AbsTol, Rel: def.RelTol}
	}
	if cfg.MinDt <= 0 {
		cfg.MinDt = 1e-14 * tEnd
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = def.MaxSteps
	}
	return cfg
}
