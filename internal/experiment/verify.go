package experiment

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/reactsim/internal/analytic"
	"github.com/san-kum/reactsim/internal/ctxlog"
	"github.com/san-kum/reactsim/internal/kinetics"
)

// Verification compares a numeric run of X -> Y (first order) with the
// closed-form CSTR solution at every output time.
type Verification struct {
	Reactant string
	Product  string
	Params   analytic.CSTRParams
	Numeric  *kinetics.Result
	Exact    []analytic.Point
	MaxErrA  float64
	MaxErrB  float64
}

func (v *Verification) MaxErr() float64 { return math.Max(v.MaxErrA, v.MaxErrB) }

// Verify runs e (which must be set up) and compares the result with the
// analytic solution. The model must be a single first-order reaction
// between two species; without CSTR the feed ratio is zero.
func (e *Experiment) Verify(ctx context.Context) (*Verification, error) {
	if e.system == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	rxns := e.reactions.Reactions()
	if len(rxns) != 1 || e.system.Dim() != 2 {
		return nil, fmt.Errorf("verify needs exactly one reaction between two species, got %d reactions over %d species", len(rxns), e.system.Dim())
	}
	r := rxns[0]
	if len(r.Reactants) != 1 || len(r.Products) != 1 || r.Reactants[0].Coeff != 1 || r.Products[0].Coeff != 1 {
		return nil, fmt.Errorf("verify needs a reaction of the form X -> Y, got %s", r)
	}

	v := &Verification{Reactant: r.Reactants[0].Species, Product: r.Products[0].Species}
	p := analytic.CSTRParams{
		K:     e.cfg.Params[r.Rate],
		InitA: e.cfg.Init[v.Reactant],
		InitB: e.cfg.Init[v.Product],
	}
	if e.feed != nil {
		p.FeedRatio = e.cfg.Params[e.feed.Ratio]
		fa, _ := e.feed.ConcentrationParam(v.Reactant)
		fb, _ := e.feed.ConcentrationParam(v.Product)
		p.FeedA = e.cfg.Params[fa]
		p.FeedB = e.cfg.Params[fb]
	}
	v.Params = p

	res, err := e.Run(ctx)
	if err != nil {
		return nil, err
	}
	exact, err := analytic.UnaryIrrevCSTR(res.Times, p)
	if err != nil {
		return nil, err
	}

	a, _ := res.Species(v.Reactant)
	b, _ := res.Species(v.Product)
	for i, pt := range exact {
		v.MaxErrA = math.Max(v.MaxErrA, math.Abs(a[i]-pt.A))
		v.MaxErrB = math.Max(v.MaxErrB, math.Abs(b[i]-pt.B))
	}
	v.Numeric, v.Exact = res, exact

	ctxlog.FromContext(ctx).Info("verified against closed form", "model", e.cfg.Name,
		"max_err_a", v.MaxErrA, "max_err_b", v.MaxErrB)
	return v, nil
}
