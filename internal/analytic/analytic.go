// Package analytic holds closed-form concentration profiles used as
// reference solutions for the numeric integrators.
package analytic

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidParameter = errors.New("analytic: invalid parameter")

// Point is the pair of concentrations at one time.
type Point struct {
	T float64
	A float64
	B float64
}

// CSTRParams describes A -> B (first order, rate constant K) in a CSTR
// with feed ratio FeedRatio, feed concentrations FeedA, FeedB and initial
// concentrations InitA, InitB.
type CSTRParams struct {
	K         float64
	FeedRatio float64
	FeedA     float64
	FeedB     float64
	InitA     float64
	InitB     float64
}

func (p CSTRParams) validate() error {
	for name, v := range map[string]float64{
		"k": p.K, "feed ratio": p.FeedRatio,
		"feed A": p.FeedA, "feed B": p.FeedB,
		"initial A": p.InitA, "initial B": p.InitB,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is %v", ErrInvalidParameter, name, v)
		}
	}
	if p.K < 0 {
		return fmt.Errorf("%w: rate constant %g is negative", ErrInvalidParameter, p.K)
	}
	if p.FeedRatio < 0 {
		return fmt.Errorf("%w: feed ratio %g is negative", ErrInvalidParameter, p.FeedRatio)
	}
	return nil
}

// UnaryIrrevCSTR evaluates
//
//	A(t) = A∞ + (IA - A∞) e^(-(f+k)t),  A∞ = fc_A f/(f+k)
//	B(t) = fc_A + fc_B - A∞ + (IA + IB - fc_A - fc_B) e^(-f t) - (IA - A∞) e^(-(f+k)t)
//
// The B form uses that A+B relaxes to fc_A+fc_B at rate f. With f = k = 0
// nothing changes and both concentrations stay at their initial values.
func UnaryIrrevCSTR(t []float64, p CSTRParams) ([]Point, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	out := make([]Point, len(t))
	for i, ti := range t {
		a, b := unaryIrrevCSTR(ti, p)
		out[i] = Point{T: ti, A: a, B: b}
	}
	return out, nil
}

func unaryIrrevCSTR(t float64, p CSTRParams) (float64, float64) {
	f, k := p.FeedRatio, p.K
	s := f + k
	if s == 0 {
		return p.InitA, p.InitB
	}

	aInf := p.FeedA * f / s
	fast := math.Exp(-s * t)
	slow := math.Exp(-f * t)

	a := aInf + (p.InitA-aInf)*fast
	b := p.FeedA + p.FeedB - aInf + (p.InitA+p.InitB-p.FeedA-p.FeedB)*slow - (p.InitA-aInf)*fast
	return a, b
}

// unaryIrrevCSTRExpanded is the textbook presentation obtained by solving
// dB/dt = kA - fB + f fc_B directly with the integrating factor e^(f t):
//
//	B(t) = B∞ + (IB - B∞) e^(-f t) + (IA - A∞)(e^(-f t) - e^(-(f+k)t))
//
// with B∞ = (fc_A k + fc_B (f+k))/(f+k). It must agree with the form
// used by UnaryIrrevCSTR.
func unaryIrrevCSTRExpanded(t float64, p CSTRParams) (float64, float64) {
	f, k := p.FeedRatio, p.K
	s := f + k
	if s == 0 {
		return p.InitA, p.InitB
	}

	aInf := p.FeedA * f / s
	bInf := (p.FeedA*k + p.FeedB*s) / s
	a := aInf + (p.InitA-aInf)*math.Exp(-s*t)
	b := bInf + (p.InitB-bInf)*math.Exp(-f*t) + (p.InitA-aInf)*(math.Exp(-f*t)-math.Exp(-s*t))
	return a, b
}

// UnaryIrrevCSTRSteadyState returns the t -> inf limit. With f = 0 it is
// the batch end state; with f = k = 0 the initial state.
func UnaryIrrevCSTRSteadyState(p CSTRParams) (Point, error) {
	if err := p.validate(); err != nil {
		return Point{}, err
	}
	f, k := p.FeedRatio, p.K
	s := f + k
	switch {
	case s == 0:
		return Point{T: math.Inf(1), A: p.InitA, B: p.InitB}, nil
	case f == 0:
		return Point{T: math.Inf(1), A: 0, B: p.InitA + p.InitB}, nil
	}
	return Point{
		T: math.Inf(1),
		A: p.FeedA * f / s,
		B: (p.FeedA*k + p.FeedB*s) / s,
	}, nil
}

// FirstOrderDecay is A -> B in a closed vessel:
// A(t) = a0 e^(-kt), B(t) = b0 + a0 (1 - e^(-kt)).
func FirstOrderDecay(t []float64, k, a0, b0 float64) ([]Point, error) {
	return UnaryIrrevCSTR(t, CSTRParams{K: k, InitA: a0, InitB: b0})
}
