package dynamo

import (
	"fmt"
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// MaxAbsDiff returns the largest componentwise |s[i]-other[i]|.
func (s State) MaxAbsDiff(other State) float64 {
	m := 0.0
	for i := range s {
		if i >= len(other) {
			break
		}
		m = math.Max(m, math.Abs(s[i]-other[i]))
	}
	return m
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// System is an autonomous or time-dependent ODE right-hand side dx/dt = f(x, t).
type System interface {
	Derive(x State, t float64) State
	Dim() int
}

// Jacobian is implemented by systems that can report df/dx analytically.
type Jacobian interface {
	Jacobian(x State, t float64) [][]float64
}

type Integrator interface {
	Step(sys System, x State, t float64, dt float64) State
}

// Tolerance holds the mixed absolute/relative error bound used by adaptive
// integrators: a component passes when |err| <= Abs + Rel*|x|.
type Tolerance struct {
	Abs float64
	Rel float64
}

type AdaptiveIntegrator interface {
	Integrator
	// StepAdaptive attempts one step of size dt. It returns the new state,
	// the suggested size for the next attempt, and whether the step met tol.
	// A rejected step must be retried from x with the suggested size.
	StepAdaptive(sys System, x State, t, dt float64, tol Tolerance) (State, float64, bool)
}

type Observer interface {
	OnStep(x State, t float64)
}

// RejectObserver is notified of adaptive steps that failed the error test.
type RejectObserver interface {
	OnReject(t, dt float64)
}

type Config struct {
	Dt        float64
	Duration  float64
	Tolerance Tolerance
	MaxDt     float64
	MinDt     float64
	MaxSteps  int
	// Points, when positive, replaces natural step output with values on
	// the uniform grid of Points times spanning [0, Duration].
	Points        int
	Adaptive      bool
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      10.0,
		Tolerance:     Tolerance{Abs: 1e-10, Rel: 1e-10},
		MaxDt:         1.0,
		MinDt:         1e-12,
		MaxSteps:      1_000_000,
		Adaptive:      true,
		ValidateState: true,
	}
}

type Stats struct {
	Accepted    int `json:"accepted"`
	Rejected    int `json:"rejected"`
	Evaluations int `json:"evaluations"`
}

type Result struct {
	States []State
	Times  []float64
	Stats  Stats
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
