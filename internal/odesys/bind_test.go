package odesys

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/reactsim/internal/dynamo"
)

func TestBindMissingParameter(t *testing.T) {
	sys, _, err := Build(mustSystem(t, "A -> B; 'k'"), WithCSTR())
	require.NoError(t, err)

	params := map[string]float64{"k": 0.8, "fr": 0.3, "fc_A": 0.7, "fc_B": 0.1}
	_, err = sys.Bind(params)
	require.NoError(t, err)

	for name := range params {
		partial := make(map[string]float64)
		for k, v := range params {
			if k != name {
				partial[k] = v
			}
		}
		_, err := sys.Bind(partial)
		assert.ErrorIs(t, err, ErrIncompleteParameters)
		assert.Contains(t, err.Error(), name)
	}
}

func TestBindIgnoresExtraParameters(t *testing.T) {
	sys, _, err := Build(mustSystem(t, "A -> B; 'k'"))
	require.NoError(t, err)

	b, err := sys.Bind(map[string]float64{"k": 1, "unused": 2})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"k": 1}, b.Params())
	assert.Same(t, sys, b.System())
}

func TestBoundDerive(t *testing.T) {
	sys, _, err := Build(mustSystem(t, "A -> B; 'k'"), WithCSTR())
	require.NoError(t, err)

	b, err := sys.Bind(map[string]float64{"k": 0.8, "fr": 0.3, "fc_A": 0.7, "fc_B": 0.1})
	require.NoError(t, err)
	assert.Equal(t, 2, b.Dim())

	dx := b.Derive(dynamo.State{0.15, 0.1}, 0)
	assert.InDelta(t, -0.8*0.15-0.3*0.15+0.3*0.7, dx[0], 1e-15)
	assert.InDelta(t, 0.8*0.15-0.3*0.1+0.3*0.1, dx[1], 1e-15)
}

func TestBoundJacobianMatchesFiniteDifferences(t *testing.T) {
	sys, _, err := Build(mustSystem(t,
		"2 A + B -> C; 'k1'",
		"C -> A; 'k2'",
	), WithCSTR())
	require.NoError(t, err)

	b, err := sys.Bind(map[string]float64{
		"k1": 1.3, "k2": 0.4, "fr": 0.2,
		"fc_A": 1, "fc_B": 0.5, "fc_C": 0,
	})
	require.NoError(t, err)

	x := dynamo.State{0.7, 0.3, 0.2}
	jac := b.Jacobian(x, 0)
	f0 := b.Derive(x, 0)

	h := 1e-7
	for j := range x {
		probe := x.Clone()
		probe[j] += h
		f1 := b.Derive(probe, 0)
		for i := range x {
			fd := (f1[i] - f0[i]) / h
			assert.InDelta(t, fd, jac[i][j], 1e-5, "d f%d / d x%d", i, j)
		}
	}
}

func TestIpow(t *testing.T) {
	assert.Equal(t, 1.0, ipow(3, 0))
	assert.Equal(t, -8.0, ipow(-2, 3))
	assert.InDelta(t, math.Pow(1.1, 7), ipow(1.1, 7), 1e-12)
}
