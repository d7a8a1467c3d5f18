package reaction

import (
	"fmt"
	"strings"
)

// System is an ordered set of reactions together with every substance they
// reference. Substance order is the explicit declaration order followed by
// first reference order for undeclared substances.
type System struct {
	reactions  []Reaction
	substances []Substance
	index      map[string]int
}

// NewSystem validates reactions and collects their substances. When
// substances are given, every species a reaction references must be among
// them; substances that no reaction references are kept.
func NewSystem(reactions []Reaction, substances ...Substance) (*System, error) {
	s := &System{
		reactions: make([]Reaction, 0, len(reactions)),
		index:     make(map[string]int),
	}

	for _, sub := range substances {
		if !identifier.MatchString(sub.Name) {
			return nil, fmt.Errorf("%w: substance name %q is not an identifier", ErrInvalidReactionSpec, sub.Name)
		}
		if _, dup := s.index[sub.Name]; dup {
			return nil, fmt.Errorf("%w: substance %s declared twice", ErrInvalidReactionSpec, sub.Name)
		}
		s.index[sub.Name] = len(s.substances)
		s.substances = append(s.substances, sub)
	}
	declared := len(substances) > 0

	rates := make(map[string]bool, len(reactions))
	for _, r := range reactions {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if rates[r.Rate] {
			return nil, fmt.Errorf("%w: rate constant %q used by more than one reaction", ErrInvalidReactionSpec, r.Rate)
		}
		rates[r.Rate] = true

		for _, name := range r.Species() {
			if _, ok := s.index[name]; ok {
				continue
			}
			if declared {
				return nil, fmt.Errorf("%w: reaction %q references undeclared substance %s", ErrInvalidReactionSpec, r.Rate, name)
			}
			s.index[name] = len(s.substances)
			s.substances = append(s.substances, Substance{Name: name})
		}
		s.reactions = append(s.reactions, r.clone())
	}

	return s, nil
}

func (s *System) Reactions() []Reaction {
	out := make([]Reaction, len(s.reactions))
	for i, r := range s.reactions {
		out[i] = r.clone()
	}
	return out
}

func (s *System) Substances() []Substance {
	return append([]Substance(nil), s.substances...)
}

func (s *System) SubstanceNames() []string {
	names := make([]string, len(s.substances))
	for i, sub := range s.substances {
		names[i] = sub.Name
	}
	return names
}

// Index returns the position of a substance in declaration order.
func (s *System) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// RateParams lists rate-constant names in reaction order.
func (s *System) RateParams() []string {
	names := make([]string, len(s.reactions))
	for i, r := range s.reactions {
		names[i] = r.Rate
	}
	return names
}

func (s *System) Len() int { return len(s.reactions) }

func (s *System) String() string {
	lines := make([]string, len(s.reactions))
	for i, r := range s.reactions {
		lines[i] = r.String()
	}
	return strings.Join(lines, "\n")
}
