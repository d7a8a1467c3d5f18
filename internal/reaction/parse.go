package reaction

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

const emptySide = "∅"

// Parse reads one line of reaction notation:
//
//	<reactants> -> <products>; '<k>'
//	<reactants> <-> <products>; '<kf>', '<kb>'
//
// Species are separated by '+' and may carry a leading integer coefficient.
// An empty side, or '∅', denotes a source or sink. The reversible form
// yields a forward and a backward reaction.
func Parse(line string) ([]Reaction, error) {
	eqn, rates, ok := strings.Cut(line, ";")
	if !ok {
		return nil, fmt.Errorf("%w: %q: missing ';' before rate constant", ErrInvalidReactionSpec, line)
	}

	reversible := false
	lhs, rhs, ok := strings.Cut(eqn, "<->")
	if ok {
		reversible = true
	} else if lhs, rhs, ok = strings.Cut(eqn, "->"); !ok {
		return nil, fmt.Errorf("%w: %q: missing '->'", ErrInvalidReactionSpec, line)
	}
	if strings.Contains(rhs, "->") {
		return nil, fmt.Errorf("%w: %q: more than one arrow", ErrInvalidReactionSpec, line)
	}

	reactants, err := parseSide(lhs)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidReactionSpec, line, err)
	}
	products, err := parseSide(rhs)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidReactionSpec, line, err)
	}

	names, err := parseRates(rates)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidReactionSpec, line, err)
	}

	want := 1
	if reversible {
		want = 2
	}
	if len(names) != want {
		return nil, fmt.Errorf("%w: %q: expected %d rate constant(s), got %d", ErrInvalidReactionSpec, line, want, len(names))
	}

	out := []Reaction{{Reactants: reactants, Products: products, Rate: names[0]}}
	if reversible {
		out = append(out, Reaction{Reactants: products, Products: reactants, Rate: names[1]})
	}
	for _, r := range out {
		if err := r.Validate(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ParseSystem parses one reaction per line and builds a System. Blank lines
// and lines starting with '#' are skipped.
func ParseSystem(lines []string, substances ...Substance) (*System, error) {
	var reactions []Reaction
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		rs, err := Parse(trimmed)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		reactions = append(reactions, rs...)
	}
	return NewSystem(reactions, substances...)
}

func parseSide(side string) ([]Stoich, error) {
	side = strings.TrimSpace(side)
	if side == "" || side == emptySide {
		return nil, nil
	}

	var out []Stoich
	pos := make(map[string]int)
	for _, tok := range strings.Split(side, "+") {
		st, err := parseTerm(tok)
		if err != nil {
			return nil, err
		}
		if i, ok := pos[st.Species]; ok {
			out[i].Coeff += st.Coeff
			continue
		}
		pos[st.Species] = len(out)
		out = append(out, st)
	}
	return out, nil
}

func parseTerm(tok string) (Stoich, error) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return Stoich{}, fmt.Errorf("empty species term")
	}

	digits := strings.IndexFunc(tok, func(r rune) bool { return !unicode.IsDigit(r) })
	if digits == -1 {
		return Stoich{}, fmt.Errorf("term %q has a coefficient but no species", tok)
	}

	coeff := 1
	if digits > 0 {
		n, err := strconv.Atoi(tok[:digits])
		if err != nil {
			return Stoich{}, fmt.Errorf("term %q: %v", tok, err)
		}
		coeff = n
	}

	name := strings.TrimSpace(tok[digits:])
	if !identifier.MatchString(name) {
		return Stoich{}, fmt.Errorf("term %q: %q is not a species name", tok, name)
	}
	if coeff <= 0 {
		return Stoich{}, fmt.Errorf("term %q: coefficient must be positive", tok)
	}
	return Stoich{Species: name, Coeff: coeff}, nil
}

func parseRates(s string) ([]string, error) {
	var names []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if len(part) < 2 {
			return nil, fmt.Errorf("rate constant %q must be quoted", part)
		}
		q := part[0]
		if (q != '\'' && q != '"') || part[len(part)-1] != q {
			return nil, fmt.Errorf("rate constant %s must be quoted", part)
		}
		name := part[1 : len(part)-1]
		if !identifier.MatchString(name) {
			return nil, fmt.Errorf("rate constant name %q is not an identifier", name)
		}
		names = append(names, name)
	}
	return names, nil
}
