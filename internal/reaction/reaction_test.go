package reaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReaction(t *testing.T) {
	r, err := NewReaction(map[string]int{"B": 2, "A": 1}, map[string]int{"C": 1}, "k1")
	require.NoError(t, err)

	assert.Equal(t, []Stoich{{"A", 1}, {"B", 2}}, r.Reactants)
	assert.Equal(t, []Stoich{{"C", 1}}, r.Products)
	assert.Equal(t, 3, r.Order())
	assert.Equal(t, -2, r.Net("B"))
	assert.Equal(t, 1, r.Net("C"))
	assert.Equal(t, 0, r.Net("D"))
	assert.Equal(t, "A + 2 B -> C; 'k1'", r.String())
}

func TestNewReactionInvalid(t *testing.T) {
	tests := []struct {
		name      string
		reactants map[string]int
		products  map[string]int
		rate      string
	}{
		{"zero coefficient", map[string]int{"A": 0}, map[string]int{"B": 1}, "k"},
		{"negative coefficient", map[string]int{"A": -1}, map[string]int{"B": 1}, "k"},
		{"empty rate", map[string]int{"A": 1}, map[string]int{"B": 1}, ""},
		{"rate not identifier", map[string]int{"A": 1}, map[string]int{"B": 1}, "k 1"},
		{"species not identifier", map[string]int{"A-": 1}, map[string]int{"B": 1}, "k"},
		{"nothing at all", nil, nil, "k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReaction(tt.reactants, tt.products, tt.rate)
			assert.ErrorIs(t, err, ErrInvalidReactionSpec)
		})
	}
}

func TestCatalystHasNoNetChange(t *testing.T) {
	rs, err := Parse("A + C -> B + C; 'k'")
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, 0, rs[0].Net("C"))
	assert.Equal(t, []string{"A", "C", "B"}, rs[0].Species())
}
