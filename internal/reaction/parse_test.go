package reaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		want []Reaction
	}{
		{
			"A -> B; 'k'",
			[]Reaction{{Reactants: []Stoich{{"A", 1}}, Products: []Stoich{{"B", 1}}, Rate: "k"}},
		},
		{
			"2 A + B -> 3C; \"k_2\"",
			[]Reaction{{Reactants: []Stoich{{"A", 2}, {"B", 1}}, Products: []Stoich{{"C", 3}}, Rate: "k_2"}},
		},
		{
			"A + A -> A2; 'kd'",
			[]Reaction{{Reactants: []Stoich{{"A", 2}}, Products: []Stoich{{"A2", 1}}, Rate: "kd"}},
		},
		{
			"-> A; 'src'",
			[]Reaction{{Products: []Stoich{{"A", 1}}, Rate: "src"}},
		},
		{
			"A -> ∅; 'sink'",
			[]Reaction{{Reactants: []Stoich{{"A", 1}}, Rate: "sink"}},
		},
		{
			"A <-> 2 B; 'kf', 'kb'",
			[]Reaction{
				{Reactants: []Stoich{{"A", 1}}, Products: []Stoich{{"B", 2}}, Rate: "kf"},
				{Reactants: []Stoich{{"B", 2}}, Products: []Stoich{{"A", 1}}, Rate: "kb"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := Parse(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMalformed(t *testing.T) {
	lines := []string{
		"A -> B",
		"A B; 'k'",
		"A -> B -> C; 'k'",
		"A -> B; k",
		"A -> B; 'k",
		"A -> B; ''",
		"A -> B; 'k1', 'k2'",
		"A <-> B; 'kf'",
		"0 A -> B; 'k'",
		"A + -> B; 'k'",
		"2 -> B; 'k'",
		"A$ -> B; 'k'",
		"-> ; 'k'",
	}

	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			_, err := Parse(line)
			assert.ErrorIs(t, err, ErrInvalidReactionSpec)
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	sys, err := ParseSystem([]string{
		"# comment",
		"A + 2 B -> C; 'k1'",
		"",
		"C -> ∅; 'k2'",
	})
	require.NoError(t, err)

	again, err := ParseSystem([]string{sys.Reactions()[0].String(), sys.Reactions()[1].String()})
	require.NoError(t, err)
	assert.Equal(t, sys.Reactions(), again.Reactions())
}

func TestParseSystemReportsLine(t *testing.T) {
	_, err := ParseSystem([]string{"A -> B; 'k'", "bad"})
	require.ErrorIs(t, err, ErrInvalidReactionSpec)
	assert.Contains(t, err.Error(), "line 2")
}
