package odesys

import (
	"fmt"

	"github.com/san-kum/reactsim/internal/dynamo"
)

type compiledTerm struct {
	k       float64
	species []Factor
}

// Bound is a System with numeric parameter values. It implements
// dynamo.System and dynamo.Jacobian.
type Bound struct {
	sys    *System
	values map[string]float64
	terms  [][]compiledTerm
}

// Bind resolves every declared parameter from params. Keys that the system
// does not declare are ignored.
func (s *System) Bind(params map[string]float64) (*Bound, error) {
	values := make(map[string]float64, len(s.params))
	for _, p := range s.params {
		v, ok := params[p]
		if !ok {
			return nil, fmt.Errorf("%w: missing value for parameter %s", ErrIncompleteParameters, p)
		}
		values[p] = v
	}

	terms := make([][]compiledTerm, len(s.equations))
	for i, eq := range s.equations {
		terms[i] = make([]compiledTerm, len(eq.Terms))
		for j, t := range eq.Terms {
			k := t.Coeff
			for _, p := range t.Params {
				k *= values[p]
			}
			terms[i][j] = compiledTerm{k: k, species: t.Species}
		}
	}

	return &Bound{sys: s, values: values, terms: terms}, nil
}

func (b *Bound) System() *System { return b.sys }
func (b *Bound) Dim() int        { return len(b.terms) }

// Params returns a copy of the bound parameter values.
func (b *Bound) Params() map[string]float64 {
	out := make(map[string]float64, len(b.values))
	for k, v := range b.values {
		out[k] = v
	}
	return out
}

func (b *Bound) Derive(x dynamo.State, t float64) dynamo.State {
	dx := make(dynamo.State, len(b.terms))
	for i, eq := range b.terms {
		sum := 0.0
		for _, term := range eq {
			v := term.k
			for _, f := range term.species {
				v *= ipow(x[f.Index], f.Power)
			}
			sum += v
		}
		dx[i] = sum
	}
	return dx
}

func (b *Bound) Jacobian(x dynamo.State, t float64) [][]float64 {
	n := len(b.terms)
	jac := make([][]float64, n)
	for i, eq := range b.terms {
		row := make([]float64, n)
		for _, term := range eq {
			for fi, f := range term.species {
				d := term.k * float64(f.Power) * ipow(x[f.Index], f.Power-1)
				for gi, g := range term.species {
					if gi != fi {
						d *= ipow(x[g.Index], g.Power)
					}
				}
				row[f.Index] += d
			}
		}
		jac[i] = row
	}
	return jac
}

func ipow(x float64, n int) float64 {
	result := 1.0
	for ; n > 0; n-- {
		result *= x
	}
	return result
}
