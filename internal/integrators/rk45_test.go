package integrators

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/reactsim/internal/dynamo"
)

func TestRK45_EnergyConservation(t *testing.T) {
	integrator := NewRK45()
	dyn := &harmonicOscillator{}
	x0 := dynamo.State{1.0, 0.0}

	initialEnergy := dyn.Energy(x0)
	x := x0.Clone()
	dt := 0.01

	for i := 0; i < 10000; i++ {
		x = integrator.Step(dyn, x, float64(i)*dt, dt)
	}

	if !x.IsValid() {
		t.Fatal("RK45 produced invalid state")
	}

	drift := math.Abs(dyn.Energy(x)-initialEnergy) / initialEnergy
	if drift > 1e-6 {
		t.Errorf("RK45 energy drift too high: %e", drift)
	}
}

func TestRK45_AdaptiveStep(t *testing.T) {
	integrator := NewRK45()
	dyn := &harmonicOscillator{}
	x0 := dynamo.State{1.0, 0.0}
	tol := dynamo.Tolerance{Abs: 1e-8, Rel: 1e-8}

	x, newDt, ok := integrator.StepAdaptive(dyn, x0, 0, 0.01, tol)
	if !ok {
		t.Fatal("small step should be accepted")
	}
	if !x.IsValid() {
		t.Error("StepAdaptive produced invalid state")
	}
	if newDt <= 0.01 {
		t.Errorf("expected the step to grow after an accurate step, got %g", newDt)
	}
}

func TestRK45_RejectsLargeStep(t *testing.T) {
	integrator := NewRK45()
	dyn := &linearDecay{k: 50}
	x0 := dynamo.State{1.0}
	tol := dynamo.Tolerance{Abs: 1e-10, Rel: 1e-10}

	x, newDt, ok := integrator.StepAdaptive(dyn, x0, 0, 1.0, tol)
	if ok {
		t.Fatal("oversized step should be rejected")
	}
	if x[0] != x0[0] {
		t.Errorf("rejected step must return the input state, got %v", x)
	}
	if newDt >= 1.0 || newDt <= 0 {
		t.Errorf("expected a smaller positive retry size, got %g", newDt)
	}
}

func TestRK45_DrivenBySimulator(t *testing.T) {
	cfg := dynamo.DefaultConfig()
	cfg.Duration = 2.0
	cfg.Dt = 0.1

	s := dynamo.New(&linearDecay{k: 0.8}, NewRK45())
	res, err := s.Run(context.Background(), dynamo.State{0.15}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for i, tm := range res.Times {
		want := 0.15 * math.Exp(-0.8*tm)
		if math.Abs(res.States[i][0]-want) > 1e-9 {
			t.Fatalf("t=%v: got %v, want %v", tm, res.States[i][0], want)
		}
	}
	if res.Times[len(res.Times)-1] != 2.0 {
		t.Errorf("expected to stop exactly at 2.0, got %v", res.Times[len(res.Times)-1])
	}
}
