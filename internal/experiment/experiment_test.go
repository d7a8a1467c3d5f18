package experiment

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/reactsim/internal/config"
	"github.com/san-kum/reactsim/internal/ctxlog"
	"github.com/san-kum/reactsim/internal/dynamo"
	"github.com/san-kum/reactsim/internal/odesys"
	"github.com/san-kum/reactsim/internal/reaction"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"backward_euler", "euler", "rk4", "rk45"}, r.ListIntegrators())

	a, adaptive, err := r.GetIntegrator("rk45")
	require.NoError(t, err)
	assert.True(t, adaptive)
	b, _, err := r.GetIntegrator("rk45")
	require.NoError(t, err)
	assert.NotSame(t, a, b, "each call must hand out a fresh integrator")

	_, adaptive, err = r.GetIntegrator("rk4")
	require.NoError(t, err)
	assert.False(t, adaptive)

	_, _, err = r.GetIntegrator("leapfrog")
	assert.Error(t, err)
}

func TestRunPreset(t *testing.T) {
	var buf bytes.Buffer
	ctx := ctxlog.WithLogger(context.Background(), ctxlog.New(&buf, "debug"))

	e := New(config.GetPreset("unary_irrev"), nil)
	require.NoError(t, e.Setup(ctx))
	assert.Equal(t, 2, e.System().Dim())
	assert.Nil(t, e.Feed())

	res, err := e.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 11, res.Len())
	a, err := res.Species("A")
	require.NoError(t, err)
	assert.InDelta(t, 0.15*math.Exp(-0.8), a[10], 1e-9)

	assert.Contains(t, buf.String(), "built ode system")
	assert.Contains(t, buf.String(), "integration finished")
}

func TestRunWithoutSetup(t *testing.T) {
	_, err := New(config.GetPreset("unary_irrev"), nil).Run(context.Background())
	assert.Error(t, err)
}

func TestSetupErrors(t *testing.T) {
	cfg := config.GetPreset("unary_irrev")
	cfg.Reactions = []string{"A -> B"}
	assert.ErrorIs(t, New(cfg, nil).Setup(context.Background()), reaction.ErrInvalidReactionSpec)

	cfg = config.GetPreset("unary_irrev")
	cfg.Species = []string{"A"}
	assert.ErrorIs(t, New(cfg, nil).Setup(context.Background()), reaction.ErrInvalidReactionSpec)

	cfg = config.GetPreset("unary_irrev")
	cfg.Reactions = nil
	cfg.Species = []string{"X"}
	cfg.Params = map[string]float64{"fr": 1, "fc_X": 1}
	cfg.Init = map[string]float64{"X": 0}
	cfg.CSTR = true
	e := New(cfg, nil)
	require.NoError(t, e.Setup(context.Background()), "a feed-only tank is a valid model")
	res, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 1-math.Exp(-1), res.Final()[0], 1e-8)
}

func TestRunMissingParameter(t *testing.T) {
	cfg := config.GetPreset("unary_irrev_cstr")
	delete(cfg.Params, "fc_B")

	e := New(cfg, nil)
	require.NoError(t, e.Setup(context.Background()))
	_, err := e.Run(context.Background())
	assert.ErrorIs(t, err, odesys.ErrIncompleteParameters)
}

func TestRunUnknownIntegrator(t *testing.T) {
	cfg := config.GetPreset("unary_irrev")
	cfg.Integrator = "leapfrog"

	e := New(cfg, nil)
	require.NoError(t, e.Setup(context.Background()))
	_, err := e.Run(context.Background())
	assert.Error(t, err)
}

func TestFixedStepOptions(t *testing.T) {
	cfg := config.GetPreset("unary_irrev")
	cfg.Integrator = "rk4"
	e := New(cfg, nil)

	opts, err := e.Options()
	require.NoError(t, err)
	assert.True(t, opts.Fixed)
	assert.Equal(t, cfg.Duration/fixedSteps, opts.Dt)

	cfg.Dt = 0.05
	opts, err = e.Options()
	require.NoError(t, err)
	assert.Equal(t, 0.05, opts.Dt)
}

func TestRunFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	ctx := ctxlog.WithLogger(context.Background(), ctxlog.New(&buf, "info"))

	cfg := config.DefaultConfig()
	cfg.Name = "runaway"
	cfg.Reactions = []string{"2 A -> 3 A; 'k'"}
	cfg.Params = map[string]float64{"k": 1}
	cfg.Init = map[string]float64{"A": 1}
	cfg.Duration = 5

	e := New(cfg, nil)
	require.NoError(t, e.Setup(ctx))
	res, err := e.Run(ctx)
	assert.True(t, errors.Is(err, dynamo.ErrIntegrationFailed))
	require.NotNil(t, res)
	assert.Contains(t, buf.String(), "integration failed")
}

func TestVerifyPresets(t *testing.T) {
	for _, name := range []string{"unary_irrev", "unary_irrev_cstr"} {
		t.Run(name, func(t *testing.T) {
			e := New(config.GetPreset(name), nil)
			require.NoError(t, e.Setup(context.Background()))

			v, err := e.Verify(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "A", v.Reactant)
			assert.Equal(t, "B", v.Product)
			assert.Len(t, v.Exact, v.Numeric.Len())
			assert.Less(t, v.MaxErr(), 1e-7)
		})
	}
}

func TestVerifyRejectsOtherModels(t *testing.T) {
	e := New(config.GetPreset("reversible_cstr"), nil)
	require.NoError(t, e.Setup(context.Background()))
	_, err := e.Verify(context.Background())
	assert.Error(t, err)
}
