package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/reactsim/internal/dynamo"
)

type harmonicOscillator struct{}

func (h *harmonicOscillator) Dim() int { return 2 }

func (h *harmonicOscillator) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (h *harmonicOscillator) Energy(x dynamo.State) float64 {
	return 0.5 * (x[0]*x[0] + x[1]*x[1])
}

type linearDecay struct{ k float64 }

func (l *linearDecay) Dim() int { return 1 }

func (l *linearDecay) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{-l.k * x[0]}
}

func TestRK4Accuracy(t *testing.T) {
	dyn := &harmonicOscillator{}
	integ := NewRK4()

	dt := 0.01
	steps := 100

	x := dynamo.State{1.0, 0.0}
	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-8 {
		t.Errorf("position error too large: got %.10f, expected %.10f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-8 {
		t.Errorf("velocity error too large: got %.10f, expected %.10f", x[1], expectedV)
	}
}

func TestEulerFirstOrder(t *testing.T) {
	integ := NewEuler()
	x := integ.Step(&linearDecay{k: 2}, dynamo.State{1.0}, 0, 0.1)
	if math.Abs(x[0]-0.8) > 1e-15 {
		t.Errorf("expected 0.8, got %v", x[0])
	}
}

func TestRK4ReusesScratchAcrossSizes(t *testing.T) {
	integ := NewRK4()
	integ.Step(&harmonicOscillator{}, dynamo.State{1, 0}, 0, 0.1)
	x := integ.Step(&linearDecay{k: 1}, dynamo.State{1}, 0, 0.1)
	if len(x) != 1 {
		t.Fatalf("expected 1 component, got %d", len(x))
	}
	if math.Abs(x[0]-math.Exp(-0.1)) > 1e-6 {
		t.Errorf("expected %v, got %v", math.Exp(-0.1), x[0])
	}
}
