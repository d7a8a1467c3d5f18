package integrators

import (
	"math"

	"github.com/san-kum/reactsim/internal/dynamo"
)

// BackwardEuler is the first-order implicit Euler method. Each step solves
// y - x - dt*f(y, t+dt) = 0 by Newton iteration, using the system's
// analytic Jacobian when it provides one and forward differences otherwise.
// It stays stable on stiff networks where explicit methods need tiny steps.
// A step whose Newton iteration does not converge yields a NaN state.
type BackwardEuler struct {
	maxIter int
	tol     float64
}

func NewBackwardEuler() *BackwardEuler {
	return &BackwardEuler{maxIter: 50, tol: 1e-12}
}

func (b *BackwardEuler) Step(sys dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	n := len(x)
	tNext := t + dt

	// Explicit Euler predictor.
	y := x.Add(sys.Derive(x, t).Scale(dt))

	for iter := 0; iter < b.maxIter; iter++ {
		f := sys.Derive(y, tNext)
		g := make([]float64, n)
		for i := 0; i < n; i++ {
			g[i] = y[i] - x[i] - dt*f[i]
		}

		jf := jacobian(sys, y, tNext, f)
		m := make([][]float64, n)
		for i := 0; i < n; i++ {
			m[i] = make([]float64, n)
			for j := 0; j < n; j++ {
				m[i][j] = -dt * jf[i][j]
			}
			m[i][i] += 1
		}

		delta, ok := solve(m, g)
		if !ok {
			break
		}

		maxDelta := 0.0
		for i := 0; i < n; i++ {
			y[i] -= delta[i]
			maxDelta = math.Max(maxDelta, math.Abs(delta[i])/(1+math.Abs(y[i])))
		}
		if maxDelta < b.tol {
			return y
		}
	}

	failed := make(dynamo.State, n)
	for i := range failed {
		failed[i] = math.NaN()
	}
	return failed
}

func jacobian(sys dynamo.System, x dynamo.State, t float64, fx dynamo.State) [][]float64 {
	if j, ok := sys.(dynamo.Jacobian); ok {
		if m := j.Jacobian(x, t); m != nil {
			return m
		}
	}

	n := len(x)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	probe := x.Clone()
	for j := 0; j < n; j++ {
		h := 1e-8 * math.Max(1, math.Abs(x[j]))
		probe[j] = x[j] + h
		fp := sys.Derive(probe, t)
		for i := 0; i < n; i++ {
			m[i][j] = (fp[i] - fx[i]) / h
		}
		probe[j] = x[j]
	}
	return m
}
