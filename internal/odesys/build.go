package odesys

import (
	"fmt"

	"github.com/san-kum/reactsim/internal/reaction"
)

const (
	DefaultFeedRatio  = "fr"
	DefaultFeedPrefix = "fc_"
)

type options struct {
	order      []string
	cstr       bool
	feedRatio  string
	feedPrefix string
}

type Option func(*options)

// WithSpeciesOrder fixes the order of dependent variables. names must be a
// permutation of the reaction system's substances.
func WithSpeciesOrder(names ...string) Option {
	return func(o *options) { o.order = append([]string(nil), names...) }
}

// WithCSTR adds continuous feed and outflow terms to every equation.
func WithCSTR() Option {
	return func(o *options) { o.cstr = true }
}

// WithFeedNames overrides the generated CSTR parameter names: the shared
// feed ratio and the prefix put in front of each species name.
func WithFeedNames(ratio, prefix string) Option {
	return func(o *options) {
		o.feedRatio = ratio
		o.feedPrefix = prefix
	}
}

// FeedConcentration names the feed-concentration parameter of one species.
type FeedConcentration struct {
	Species string
	Param   string
}

// FeedParams reports the parameters generated by CSTR augmentation. They
// follow the rate constants in the parameter list: Ratio first, then Feed
// in species order.
type FeedParams struct {
	Ratio string
	Feed  []FeedConcentration
}

// ConcentrationParam returns the feed-concentration parameter of species.
func (f *FeedParams) ConcentrationParam(species string) (string, bool) {
	for _, fc := range f.Feed {
		if fc.Species == species {
			return fc.Param, true
		}
	}
	return "", false
}

// Build derives one mass-action ODE per substance of rs. For every reaction
// a species takes part in, its equation gains
// net * k * prod([reactant]^coeff), net being products minus reactants.
// Parameters are the rate constants in reaction order.
//
// With WithCSTR each equation also gains -fr*C + fr*fc_C, and the returned
// FeedParams names the generated parameters; it is nil otherwise. CSTR mode
// on a system without species fails with ErrEmptyReactionSystem.
func Build(rs *reaction.System, opts ...Option) (*System, *FeedParams, error) {
	o := options{feedRatio: DefaultFeedRatio, feedPrefix: DefaultFeedPrefix}
	for _, opt := range opts {
		opt(&o)
	}

	names, err := speciesOrder(rs, o.order)
	if err != nil {
		return nil, nil, err
	}
	index := make(map[string]int, len(names))
	for i, name := range names {
		index[name] = i
	}

	eqs := make([]Equation, len(names))
	for _, r := range rs.Reactions() {
		rate := make([]Factor, 0, len(r.Reactants))
		for _, st := range r.Reactants {
			rate = append(rate, Factor{Index: index[st.Species], Power: st.Coeff})
		}
		for _, species := range r.Species() {
			net := r.Net(species)
			if net == 0 {
				continue
			}
			i := index[species]
			eqs[i].Terms = append(eqs[i].Terms, Term{
				Coeff:   float64(net),
				Params:  []string{r.Rate},
				Species: append([]Factor(nil), rate...),
			})
		}
	}

	sys, err := New(names, rs.RateParams(), eqs)
	if err != nil {
		return nil, nil, err
	}
	if !o.cstr {
		return sys, nil, nil
	}
	return augmentCSTR(sys, o.feedRatio, o.feedPrefix)
}

func speciesOrder(rs *reaction.System, order []string) ([]string, error) {
	known := rs.SubstanceNames()
	if order == nil {
		return known, nil
	}

	seen := make(map[string]bool, len(order))
	for _, name := range order {
		if _, ok := rs.Index(name); !ok {
			return nil, fmt.Errorf("%w: species order names %s, which no reaction defines", reaction.ErrInvalidReactionSpec, name)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: species %s appears twice in species order", reaction.ErrInvalidReactionSpec, name)
		}
		seen[name] = true
	}
	for _, name := range known {
		if !seen[name] {
			return nil, fmt.Errorf("%w: substance %s is missing from species order", reaction.ErrInvalidReactionSpec, name)
		}
	}
	return append([]string(nil), order...), nil
}

func augmentCSTR(sys *System, ratio, prefix string) (*System, *FeedParams, error) {
	names := sys.Names()
	if len(names) == 0 {
		return nil, nil, ErrEmptyReactionSystem
	}

	taken := make(map[string]bool)
	for _, p := range sys.Params() {
		taken[p] = true
	}
	claim := func(name string) error {
		if taken[name] {
			return fmt.Errorf("%w: generated feed parameter %s collides with an existing parameter", ErrDuplicateParameterName, name)
		}
		taken[name] = true
		return nil
	}

	if err := claim(ratio); err != nil {
		return nil, nil, err
	}
	feed := &FeedParams{Ratio: ratio, Feed: make([]FeedConcentration, len(names))}
	extra := []string{ratio}
	terms := make(map[string][]Term, len(names))
	for i, name := range names {
		fc := prefix + name
		if err := claim(fc); err != nil {
			return nil, nil, err
		}
		feed.Feed[i] = FeedConcentration{Species: name, Param: fc}
		extra = append(extra, fc)
		terms[name] = []Term{
			{Coeff: -1, Params: []string{ratio}, Species: []Factor{{Index: i, Power: 1}}},
			{Coeff: 1, Params: []string{ratio, fc}},
		}
	}

	augmented, err := sys.Augment(terms, extra...)
	if err != nil {
		return nil, nil, err
	}
	return augmented, feed, nil
}
