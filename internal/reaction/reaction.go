package reaction

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Substance is a chemical species. Mass and Charge are carried as metadata
// only.
type Substance struct {
	Name   string
	Mass   float64
	Charge int
}

// Stoich pairs a species with its positive stoichiometric coefficient.
type Stoich struct {
	Species string
	Coeff   int
}

// Reaction is an irreversible mass-action reaction. Its rate is
// Rate * prod([reactant]^coeff).
type Reaction struct {
	Reactants []Stoich
	Products  []Stoich
	Rate      string
}

// NewReaction builds a reaction from coefficient maps. Species are ordered
// by name since maps carry no order.
func NewReaction(reactants, products map[string]int, rate string) (Reaction, error) {
	r := Reaction{
		Reactants: fromMap(reactants),
		Products:  fromMap(products),
		Rate:      rate,
	}
	if err := r.Validate(); err != nil {
		return Reaction{}, err
	}
	return r, nil
}

func fromMap(m map[string]int) []Stoich {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Stoich, 0, len(names))
	for _, name := range names {
		out = append(out, Stoich{Species: name, Coeff: m[name]})
	}
	return out
}

func (r Reaction) Validate() error {
	if !identifier.MatchString(r.Rate) {
		return fmt.Errorf("%w: rate constant name %q is not an identifier", ErrInvalidReactionSpec, r.Rate)
	}
	if len(r.Reactants) == 0 && len(r.Products) == 0 {
		return fmt.Errorf("%w: reaction %q has neither reactants nor products", ErrInvalidReactionSpec, r.Rate)
	}
	for _, side := range [][]Stoich{r.Reactants, r.Products} {
		seen := make(map[string]bool, len(side))
		for _, st := range side {
			if !identifier.MatchString(st.Species) {
				return fmt.Errorf("%w: species name %q is not an identifier", ErrInvalidReactionSpec, st.Species)
			}
			if st.Coeff <= 0 {
				return fmt.Errorf("%w: coefficient %d for %s in reaction %q must be positive", ErrInvalidReactionSpec, st.Coeff, st.Species, r.Rate)
			}
			if seen[st.Species] {
				return fmt.Errorf("%w: species %s listed twice on one side of reaction %q", ErrInvalidReactionSpec, st.Species, r.Rate)
			}
			seen[st.Species] = true
		}
	}
	return nil
}

// Net returns products minus reactants for species.
func (r Reaction) Net(species string) int {
	net := 0
	for _, st := range r.Products {
		if st.Species == species {
			net += st.Coeff
		}
	}
	for _, st := range r.Reactants {
		if st.Species == species {
			net -= st.Coeff
		}
	}
	return net
}

// Order is the sum of reactant coefficients.
func (r Reaction) Order() int {
	order := 0
	for _, st := range r.Reactants {
		order += st.Coeff
	}
	return order
}

// Species lists reactants then products, each name once.
func (r Reaction) Species() []string {
	var names []string
	seen := make(map[string]bool)
	for _, side := range [][]Stoich{r.Reactants, r.Products} {
		for _, st := range side {
			if !seen[st.Species] {
				seen[st.Species] = true
				names = append(names, st.Species)
			}
		}
	}
	return names
}

func (r Reaction) clone() Reaction {
	return Reaction{
		Reactants: append([]Stoich(nil), r.Reactants...),
		Products:  append([]Stoich(nil), r.Products...),
		Rate:      r.Rate,
	}
}

func (r Reaction) String() string {
	return fmt.Sprintf("%s -> %s; '%s'", formatSide(r.Reactants), formatSide(r.Products), r.Rate)
}

func formatSide(side []Stoich) string {
	if len(side) == 0 {
		return "∅"
	}
	parts := make([]string, len(side))
	for i, st := range side {
		if st.Coeff == 1 {
			parts[i] = st.Species
		} else {
			parts[i] = strconv.Itoa(st.Coeff) + " " + st.Species
		}
	}
	return strings.Join(parts, " + ")
}
