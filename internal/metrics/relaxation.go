package metrics

import (
	"math"

	"github.com/san-kum/reactsim/internal/dynamo"
)

// Relaxation estimates how far the run is from steady state: Value is
// max|dx/dt| over the last step, by finite difference.
type Relaxation struct {
	name  string
	prev  dynamo.State
	prevT float64
	rate  float64
}

func NewRelaxation() *Relaxation {
	return &Relaxation{name: "relaxation_rate"}
}

func (r *Relaxation) Name() string { return r.name }

func (r *Relaxation) OnStep(x dynamo.State, t float64) {
	if r.prev != nil && t > r.prevT {
		r.rate = 0
		for i := range x {
			r.rate = math.Max(r.rate, math.Abs(x[i]-r.prev[i])/(t-r.prevT))
		}
	}
	r.prev = x.Clone()
	r.prevT = t
}

func (r *Relaxation) Value() float64 { return r.rate }

func (r *Relaxation) Reset() {
	r.prev = nil
	r.prevT = 0
	r.rate = 0
}
