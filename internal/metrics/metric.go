package metrics

import "github.com/san-kum/reactsim/internal/dynamo"

// Metric accumulates a scalar over the accepted steps of a run. Every
// Metric is a dynamo.Observer.
type Metric interface {
	dynamo.Observer
	Name() string
	Value() float64
	Reset()
}

// Defaults returns fresh instances of the per-run trajectory metrics.
func Defaults() []Metric {
	return []Metric{
		NewConservation(),
		NewPositivity(1e-9),
		NewRelaxation(),
	}
}
