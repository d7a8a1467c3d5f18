package dynamo

import (
	"context"
	"fmt"
	"math"
)

type Simulator struct {
	sys        System
	integrator Integrator
	observers  []Observer
}

func New(sys System, integrator Integrator) *Simulator {
	return &Simulator{
		sys:        sys,
		integrator: integrator,
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// counted forwards to the wrapped system and tallies RHS evaluations.
type counted struct {
	System
	n int
}

func (c *counted) Derive(x State, t float64) State {
	c.n++
	return c.System.Derive(x, t)
}

func (c *counted) Jacobian(x State, t float64) [][]float64 {
	if j, ok := c.System.(Jacobian); ok {
		return j.Jacobian(x, t)
	}
	return nil
}

// Run integrates from t=0 to cfg.Duration. On cancellation the trajectory
// so far is returned together with ctx.Err().
func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	if len(x0) != s.sys.Dim() {
		return nil, fmt.Errorf("%w: state has %d components, system has %d", ErrDimensionMismatch, len(x0), s.sys.Dim())
	}

	grid := outputGrid(cfg)
	capacity := len(grid)
	if capacity == 0 {
		capacity = int(math.Min(cfg.Duration/cfg.Dt, 1<<16)) + 1
	}
	result := &Result{
		States: make([]State, 0, capacity),
		Times:  make([]float64, 0, capacity),
	}

	sys := &counted{System: s.sys}
	defer func() { result.Stats.Evaluations = sys.n }()

	x := x0.Clone()
	t := 0.0
	dt := cfg.Dt
	if cfg.MaxDt > 0 {
		dt = math.Min(dt, cfg.MaxDt)
	}

	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)
	nextOut := 1

	fail := func(err error) (*Result, error) {
		result.Stats.Evaluations = sys.n
		return result, &SimulationError{
			Step:    result.Stats.Accepted,
			Time:    t,
			State:   x.Clone(),
			Partial: result,
			Wrapped: err,
		}
	}

	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if cfg.MaxSteps > 0 && result.Stats.Accepted+result.Stats.Rejected >= cfg.MaxSteps {
			return fail(ErrMaxSteps)
		}

		target := cfg.Duration
		if grid != nil {
			target = grid[nextOut]
		}

		h := dt
		reached := false
		if t+h >= target || target-(t+h) < 1e-9*h {
			h = target - t
			reached = true
		}

		var newX State
		if cfg.Adaptive {
			var next float64
			var ok bool
			newX, next, ok = s.adaptiveStep(sys, x, t, h, cfg)
			if cfg.MaxDt > 0 {
				next = math.Min(next, cfg.MaxDt)
			}
			if !ok {
				result.Stats.Rejected++
				for _, obs := range s.observers {
					if ro, isRO := obs.(RejectObserver); isRO {
						ro.OnReject(t, h)
					}
				}
				if next < cfg.MinDt {
					return fail(ErrStepTooSmall)
				}
				dt = next
				continue
			}
			if reached {
				dt = math.Max(dt, next)
			} else {
				dt = next
			}
		} else {
			newX = s.integrator.Step(sys, x, t, h)
		}

		if cfg.ValidateState && !newX.IsValid() {
			return fail(ErrInvalidState)
		}

		x = newX
		if reached {
			t = target
		} else {
			t += h
		}
		result.Stats.Accepted++

		for _, obs := range s.observers {
			obs.OnStep(x, t)
		}

		if grid == nil {
			result.States = append(result.States, x.Clone())
			result.Times = append(result.Times, t)
		} else if reached {
			result.States = append(result.States, x.Clone())
			result.Times = append(result.Times, t)
			nextOut++
			if nextOut == len(grid) {
				break
			}
		}
	}

	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfig, cfg.Dt)
	}
	if !(cfg.Duration > 0) || math.IsInf(cfg.Duration, 0) {
		return fmt.Errorf("%w: duration must be positive and finite, got %g", ErrInvalidConfig, cfg.Duration)
	}
	if cfg.Adaptive {
		tol := cfg.Tolerance
		if tol.Abs < 0 || tol.Rel < 0 || (tol.Abs == 0 && tol.Rel == 0) {
			return fmt.Errorf("%w: tolerance must be positive for adaptive stepping", ErrInvalidConfig)
		}
	}
	if cfg.Points == 1 || cfg.Points < 0 {
		return fmt.Errorf("%w: output grid needs at least 2 points, got %d", ErrInvalidConfig, cfg.Points)
	}
	return nil
}

func outputGrid(cfg Config) []float64 {
	if cfg.Points < 2 {
		return nil
	}
	grid := make([]float64, cfg.Points)
	last := float64(cfg.Points - 1)
	for i := range grid {
		grid[i] = cfg.Duration * float64(i) / last
	}
	grid[len(grid)-1] = cfg.Duration
	return grid
}

// adaptiveStep uses the integrator's embedded error estimate when it has
// one and falls back to step doubling otherwise.
func (s *Simulator) adaptiveStep(sys System, x State, t, dt float64, cfg Config) (State, float64, bool) {
	if adaptive, ok := s.integrator.(AdaptiveIntegrator); ok {
		return adaptive.StepAdaptive(sys, x, t, dt, cfg.Tolerance)
	}

	x1 := s.integrator.Step(sys, x, t, dt)
	xHalf := s.integrator.Step(sys, x, t, dt/2)
	x2 := s.integrator.Step(sys, xHalf, t+dt/2, dt/2)

	errMax := 0.0
	for i := range x2 {
		scale := cfg.Tolerance.Abs + cfg.Tolerance.Rel*math.Max(math.Abs(x[i]), math.Abs(x2[i]))
		errMax = math.Max(errMax, math.Abs(x1[i]-x2[i])/scale)
	}

	if math.IsNaN(errMax) || errMax > 1 {
		return x, dt / 2, false
	}
	if errMax < 0.1 {
		return x2, dt * 2, true
	}
	return x2, dt, true
}
