package metrics

import (
	"math"

	"github.com/san-kum/reactsim/internal/dynamo"
)

// Conservation tracks the total concentration sum(x). In a closed vessel
// with mass-conserving reactions it stays constant; Value is the largest
// deviation from the first observed total.
type Conservation struct {
	name     string
	ref      float64
	maxDrift float64
	samples  int
}

func NewConservation() *Conservation {
	return &Conservation{name: "conservation_drift"}
}

func (c *Conservation) Name() string { return c.name }

func (c *Conservation) OnStep(x dynamo.State, t float64) {
	total := 0.0
	for _, v := range x {
		total += v
	}
	if c.samples == 0 {
		c.ref = total
	}
	c.samples++
	c.maxDrift = math.Max(c.maxDrift, math.Abs(total-c.ref))
}

func (c *Conservation) Value() float64 { return c.maxDrift }

func (c *Conservation) Reset() {
	c.ref = 0
	c.maxDrift = 0
	c.samples = 0
}
