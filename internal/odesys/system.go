package odesys

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/reactsim/internal/dynamo"
)

// Factor raises the concentration of species Index to Power.
type Factor struct {
	Index int
	Power int
}

// Term is Coeff * prod(Params) * prod(x[f.Index]^f.Power for f in Species).
type Term struct {
	Coeff   float64
	Params  []string
	Species []Factor
}

func (t Term) clone() Term {
	return Term{
		Coeff:   t.Coeff,
		Params:  append([]string(nil), t.Params...),
		Species: append([]Factor(nil), t.Species...),
	}
}

// Equation is the right-hand side of one species: the sum of its terms.
type Equation struct {
	Terms []Term
}

func (e Equation) clone() Equation {
	if e.Terms == nil {
		return Equation{}
	}
	terms := make([]Term, len(e.Terms))
	for i, t := range e.Terms {
		terms[i] = t.clone()
	}
	return Equation{Terms: terms}
}

// System is an immutable ODE system over named species concentrations.
type System struct {
	names     []string
	params    []string
	equations []Equation
	index     map[string]int
}

// New validates and assembles a system by hand. eqs[i] is the right-hand
// side for names[i].
func New(names, params []string, eqs []Equation) (*System, error) {
	if len(eqs) != len(names) {
		return nil, fmt.Errorf("%w: %d equations for %d species", ErrInvalidSystem, len(eqs), len(names))
	}

	index := make(map[string]int, len(names))
	for i, name := range names {
		if name == "" {
			return nil, fmt.Errorf("%w: species %d has no name", ErrInvalidSystem, i)
		}
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("%w: species %s listed twice", ErrInvalidSystem, name)
		}
		index[name] = i
	}

	declared := make(map[string]bool, len(params))
	for _, p := range params {
		if p == "" {
			return nil, fmt.Errorf("%w: empty parameter name", ErrInvalidSystem)
		}
		if declared[p] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateParameterName, p)
		}
		declared[p] = true
	}

	for i, eq := range eqs {
		for _, term := range eq.Terms {
			if math.IsNaN(term.Coeff) || math.IsInf(term.Coeff, 0) {
				return nil, fmt.Errorf("%w: d%s/dt has a non-finite coefficient", ErrInvalidSystem, names[i])
			}
			for _, p := range term.Params {
				if !declared[p] {
					return nil, fmt.Errorf("%w: d%s/dt uses undeclared parameter %s", ErrInvalidSystem, names[i], p)
				}
			}
			for _, f := range term.Species {
				if f.Index < 0 || f.Index >= len(names) {
					return nil, fmt.Errorf("%w: d%s/dt references species index %d", ErrInvalidSystem, names[i], f.Index)
				}
				if f.Power <= 0 {
					return nil, fmt.Errorf("%w: d%s/dt raises %s to power %d", ErrInvalidSystem, names[i], names[f.Index], f.Power)
				}
			}
		}
	}

	s := &System{
		names:     append([]string(nil), names...),
		params:    append([]string(nil), params...),
		equations: make([]Equation, len(eqs)),
		index:     index,
	}
	for i, eq := range eqs {
		s.equations[i] = eq.clone()
	}
	return s, nil
}

func (s *System) Names() []string  { return append([]string(nil), s.names...) }
func (s *System) Params() []string { return append([]string(nil), s.params...) }
func (s *System) Dim() int         { return len(s.names) }

func (s *System) Equations() []Equation {
	out := make([]Equation, len(s.equations))
	for i, eq := range s.equations {
		out[i] = eq.clone()
	}
	return out
}

func (s *System) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Augment returns a new system with terms appended to the named species'
// equations and extraParams appended to the parameter list.
func (s *System) Augment(terms map[string][]Term, extraParams ...string) (*System, error) {
	eqs := s.Equations()

	names := make([]string, 0, len(terms))
	for name := range terms {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		i, ok := s.index[name]
		if !ok {
			return nil, fmt.Errorf("%w: no species %s to augment", ErrInvalidSystem, name)
		}
		for _, t := range terms[name] {
			eqs[i].Terms = append(eqs[i].Terms, t.clone())
		}
	}

	params := append(s.Params(), extraParams...)
	return New(s.names, params, eqs)
}

// InitialState orders init by species. Every species needs a value and no
// other keys are allowed.
func (s *System) InitialState(init map[string]float64) (dynamo.State, error) {
	x := make(dynamo.State, len(s.names))
	for i, name := range s.names {
		v, ok := init[name]
		if !ok {
			return nil, fmt.Errorf("%w: missing initial concentration for %s", ErrIncompleteInitialConditions, name)
		}
		x[i] = v
	}
	if len(init) != len(s.names) {
		extra := make([]string, 0)
		for name := range init {
			if _, ok := s.index[name]; !ok {
				extra = append(extra, name)
			}
		}
		sort.Strings(extra)
		return nil, fmt.Errorf("%w: unknown species %s", ErrIncompleteInitialConditions, strings.Join(extra, ", "))
	}
	return x, nil
}

func (s *System) String() string {
	var sb strings.Builder
	for i, name := range s.names {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "d%s/dt = %s", name, s.formatEquation(s.equations[i]))
	}
	return sb.String()
}

func (s *System) formatEquation(eq Equation) string {
	if len(eq.Terms) == 0 {
		return "0"
	}

	var sb strings.Builder
	for i, t := range eq.Terms {
		neg := t.Coeff < 0
		switch {
		case i == 0 && neg:
			sb.WriteString("-")
		case i > 0 && neg:
			sb.WriteString(" - ")
		case i > 0:
			sb.WriteString(" + ")
		}

		var factors []string
		if c := math.Abs(t.Coeff); c != 1 || (len(t.Params) == 0 && len(t.Species) == 0) {
			factors = append(factors, strconv.FormatFloat(c, 'g', -1, 64))
		}
		factors = append(factors, t.Params...)
		for _, f := range t.Species {
			if f.Power == 1 {
				factors = append(factors, s.names[f.Index])
			} else {
				factors = append(factors, s.names[f.Index]+"^"+strconv.Itoa(f.Power))
			}
		}
		sb.WriteString(strings.Join(factors, "*"))
	}
	return sb.String()
}
