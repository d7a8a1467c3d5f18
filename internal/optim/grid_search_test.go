package optim

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/reactsim/internal/config"
	"github.com/san-kum/reactsim/internal/odesys"
)

func TestParseAxis(t *testing.T) {
	a, err := ParseAxis("fr=0:1:5")
	require.NoError(t, err)
	assert.Equal(t, "fr", a.Param)
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, a.Values)

	a, err = ParseAxis(" k = 0.1, 0.2,0.8")
	require.NoError(t, err)
	assert.Equal(t, "k", a.Param)
	assert.Equal(t, []float64{0.1, 0.2, 0.8}, a.Values)

	a, err = ParseAxis("k=2:9:1")
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, a.Values)

	for _, bad := range []string{"k", "=1,2", "k=", "k=1:2:0", "k=a:2:3", "k=1,x"} {
		_, err := ParseAxis(bad)
		assert.Error(t, err, bad)
	}
}

func TestGridPoints(t *testing.T) {
	g := NewGridSearch(
		Axis{Param: "k", Values: []float64{1, 2}},
		Axis{Param: "fr", Values: []float64{0.1, 0.2, 0.3}},
	)
	points := g.Points()
	require.Len(t, points, 6)
	assert.Equal(t, map[string]float64{"k": 1, "fr": 0.1}, points[0])
	assert.Equal(t, map[string]float64{"k": 1, "fr": 0.3}, points[2])
	assert.Equal(t, map[string]float64{"k": 2, "fr": 0.1}, points[3])

	assert.Nil(t, NewGridSearch().Points())
}

func TestSearchFeedRatio(t *testing.T) {
	base := config.GetPreset("unary_irrev_cstr")
	base.Duration = 200
	base.Points = 0

	g := NewGridSearch(Axis{Param: "fr", Values: []float64{0.1, 0.3, 1.0}})
	outcomes, err := g.Search(context.Background(), base, 2)
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	// Steady state B = (fc_A*k + fc_B*(f+k))/(f+k) decreases with f.
	k, fcA, fcB := 0.8, 0.7, 0.1
	for _, o := range outcomes {
		require.NoError(t, o.Err)
		f := o.Params["fr"]
		assert.InDelta(t, (fcA*k+fcB*(f+k))/(f+k), o.Final["B"], 1e-7, "fr=%v", f)
		assert.Greater(t, o.Stats.Accepted, 0)
	}

	best, ok := Best(outcomes, "B", true)
	require.True(t, ok)
	assert.Equal(t, 0.1, best.Params["fr"])

	worst, ok := Best(outcomes, "B", false)
	require.True(t, ok)
	assert.Equal(t, 1.0, worst.Params["fr"])

	assert.Equal(t, 0.3, base.Params["fr"], "base config must not be modified")
}

func TestSearchRecordsFailures(t *testing.T) {
	base := config.GetPreset("unary_irrev_cstr")
	delete(base.Params, "fc_B")

	g := NewGridSearch(Axis{Param: "k", Values: []float64{0.5}}, Axis{Param: "fc_B", Values: []float64{math.NaN()}})
	outcomes, err := g.Search(context.Background(), base, 0)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Error(t, outcomes[0].Err)

	_, ok := Best(outcomes, "B", true)
	assert.False(t, ok)

	delete(base.Params, "fr")
	outcomes, err = NewGridSearch(Axis{Param: "k", Values: []float64{0.5}}).Search(context.Background(), base, 1)
	require.NoError(t, err)
	assert.ErrorIs(t, outcomes[0].Err, odesys.ErrIncompleteParameters)
}

func TestSearchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewGridSearch(Axis{Param: "k", Values: []float64{0.5, 1}})
	_, err := g.Search(ctx, config.GetPreset("unary_irrev"), 1)
	assert.ErrorIs(t, err, context.Canceled)
}
