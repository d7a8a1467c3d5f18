package dynamo

import (
	"context"
	"errors"
	"math"
	"testing"
)

type decay struct{ k float64 }

func (d *decay) Derive(x State, t float64) State { return State{-d.k * x[0]} }
func (d *decay) Dim() int                        { return 1 }

type eulerStep struct{}

func (e *eulerStep) Step(sys System, x State, t float64, dt float64) State {
	dx := sys.Derive(x, t)
	return State{x[0] + dt*dx[0]}
}

type blowUp struct{}

func (b *blowUp) Derive(x State, t float64) State { return State{math.Inf(1)} }
func (b *blowUp) Dim() int                        { return 1 }

type stepCounter struct {
	steps   int
	rejects int
}

func (c *stepCounter) OnStep(x State, t float64) { c.steps++ }
func (c *stepCounter) OnReject(t, dt float64)    { c.rejects++ }

func fixedConfig(dt, duration float64) Config {
	return Config{Dt: dt, Duration: duration}
}

func TestSimulatorRun(t *testing.T) {
	sim := New(&decay{k: 1}, &eulerStep{})

	result, err := sim.Run(context.Background(), State{1.0}, fixedConfig(0.1, 1.0))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.States) != 11 {
		t.Errorf("expected 11 states, got %d", len(result.States))
	}
	if len(result.Times) != 11 {
		t.Errorf("expected 11 times, got %d", len(result.Times))
	}
	if last := result.Times[len(result.Times)-1]; last != 1.0 {
		t.Errorf("expected final time exactly 1.0, got %v", last)
	}

	finalState := result.States[len(result.States)-1][0]
	expected := math.Exp(-1.0)
	if math.Abs(finalState-expected) > 0.2 {
		t.Errorf("expected final state ~%.4f, got %.4f", expected, finalState)
	}
	if result.Stats.Evaluations != 10 {
		t.Errorf("expected 10 evaluations, got %d", result.Stats.Evaluations)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := New(&decay{k: 1}, &eulerStep{})

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}},
		{"infinite duration", Config{Dt: 0.1, Duration: math.Inf(1)}},
		{"adaptive without tolerance", Config{Dt: 0.1, Duration: 1.0, Adaptive: true}},
		{"single output point", Config{Dt: 0.1, Duration: 1.0, Points: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(context.Background(), State{1.0}, tt.cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSimulatorDimensionMismatch(t *testing.T) {
	sim := New(&decay{k: 1}, &eulerStep{})

	_, err := sim.Run(context.Background(), State{1.0, 2.0}, fixedConfig(0.1, 1.0))
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestSimulatorOutputGrid(t *testing.T) {
	sim := New(&decay{k: 1}, &eulerStep{})
	cfg := fixedConfig(0.03, 1.0)
	cfg.Points = 5

	result, err := sim.Run(context.Background(), State{1.0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	want := []float64{0, 0.25, 0.5, 0.75, 1.0}
	if len(result.Times) != len(want) {
		t.Fatalf("expected %d times, got %v", len(want), result.Times)
	}
	for i, tm := range want {
		if math.Abs(result.Times[i]-tm) > 1e-12 {
			t.Errorf("time %d: expected %v, got %v", i, tm, result.Times[i])
		}
	}
}

func TestSimulatorAdaptiveFallback(t *testing.T) {
	sim := New(&decay{k: 2}, &eulerStep{})
	counter := &stepCounter{}
	sim.AddObserver(counter)

	cfg := DefaultConfig()
	cfg.Duration = 1.0
	cfg.Dt = 0.5
	cfg.Tolerance = Tolerance{Abs: 1e-4, Rel: 1e-4}

	result, err := sim.Run(context.Background(), State{1.0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if counter.rejects == 0 {
		t.Error("expected the oversized first step to be rejected")
	}
	if counter.steps != result.Stats.Accepted {
		t.Errorf("observer saw %d steps, stats report %d", counter.steps, result.Stats.Accepted)
	}
	if result.Stats.Rejected != counter.rejects {
		t.Errorf("observer saw %d rejects, stats report %d", counter.rejects, result.Stats.Rejected)
	}

	final := result.States[len(result.States)-1][0]
	if math.Abs(final-math.Exp(-2)) > 1e-2 {
		t.Errorf("expected ~%.4f, got %.4f", math.Exp(-2), final)
	}
}

func TestSimulatorInvalidStateCarriesPartial(t *testing.T) {
	sim := New(&blowUp{}, &eulerStep{})
	cfg := fixedConfig(0.1, 1.0)
	cfg.ValidateState = true

	result, err := sim.Run(context.Background(), State{1.0}, cfg)
	if !errors.Is(err, ErrIntegrationFailed) {
		t.Fatalf("expected ErrIntegrationFailed, got %v", err)
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState in chain, got %v", err)
	}

	var simErr *SimulationError
	if !errors.As(err, &simErr) {
		t.Fatalf("expected *SimulationError, got %T", err)
	}
	if simErr.Partial == nil || len(simErr.Partial.States) != 1 {
		t.Errorf("expected partial trajectory with the initial state, got %+v", simErr.Partial)
	}
	if result != simErr.Partial {
		t.Error("returned result should be the partial trajectory")
	}
}

func TestSimulatorMaxSteps(t *testing.T) {
	sim := New(&decay{k: 1}, &eulerStep{})
	cfg := fixedConfig(0.1, 1.0)
	cfg.MaxSteps = 3

	_, err := sim.Run(context.Background(), State{1.0}, cfg)
	if !errors.Is(err, ErrMaxSteps) {
		t.Errorf("expected ErrMaxSteps, got %v", err)
	}
}

func TestSimulatorCanceled(t *testing.T) {
	sim := New(&decay{k: 1}, &eulerStep{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := sim.Run(ctx, State{1.0}, fixedConfig(0.1, 1.0))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if result == nil || len(result.States) != 1 {
		t.Error("expected the initial state in the partial result")
	}
}
