package kinetics

import (
	"fmt"

	"github.com/san-kum/reactsim/internal/dynamo"
)

// Result is an integrated trajectory. Row i of States holds the species
// concentrations, in Names order, at Times[i].
type Result struct {
	Times  []float64
	States []dynamo.State
	Names  []string
	Params map[string]float64
	Stats  dynamo.Stats
	index  map[string]int
}

func newResult(raw *dynamo.Result, names []string, params map[string]float64) *Result {
	index := make(map[string]int, len(names))
	for i, n := range names {
		index[n] = i
	}
	return &Result{
		Times:  raw.Times,
		States: raw.States,
		Names:  names,
		Params: params,
		Stats:  raw.Stats,
		index:  index,
	}
}

func (r *Result) Len() int { return len(r.Times) }

// Species returns the concentration column of name.
func (r *Result) Species(name string) ([]float64, error) {
	i, ok := r.index[name]
	if !ok {
		return nil, fmt.Errorf("kinetics: no species %q in result", name)
	}
	col := make([]float64, len(r.States))
	for row, x := range r.States {
		col[row] = x[i]
	}
	return col, nil
}

func (r *Result) Param(name string) (float64, bool) {
	v, ok := r.Params[name]
	return v, ok
}

// Final returns the last state, or nil for an empty result.
func (r *Result) Final() dynamo.State {
	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1].Clone()
}

// Matrix copies the states into a rows-by-species matrix.
func (r *Result) Matrix() [][]float64 {
	m := make([][]float64, len(r.States))
	for i, x := range r.States {
		m[i] = append([]float64(nil), x...)
	}
	return m
}
