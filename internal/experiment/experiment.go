package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/reactsim/internal/config"
	"github.com/san-kum/reactsim/internal/ctxlog"
	"github.com/san-kum/reactsim/internal/dynamo"
	"github.com/san-kum/reactsim/internal/kinetics"
	"github.com/san-kum/reactsim/internal/odesys"
	"github.com/san-kum/reactsim/internal/reaction"
)

// fixedSteps is the number of steps a fixed-step method takes when the
// model leaves dt unset.
const fixedSteps = 1000

type Experiment struct {
	cfg       *config.Config
	registry  *Registry
	reactions *reaction.System
	system    *odesys.System
	feed      *odesys.FeedParams
	observers []dynamo.Observer
}

func New(cfg *config.Config, registry *Registry) *Experiment {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Experiment{cfg: cfg, registry: registry}
}

// Setup parses the reactions and builds the ODE system.
func (e *Experiment) Setup(ctx context.Context) error {
	log := ctxlog.FromContext(ctx)

	if err := e.cfg.Validate(); err != nil {
		return err
	}

	var subs []reaction.Substance
	for _, name := range e.cfg.Species {
		subs = append(subs, reaction.Substance{Name: name})
	}
	rs, err := reaction.ParseSystem(e.cfg.Reactions, subs...)
	if err != nil {
		return err
	}
	log.Debug("parsed reaction system", "model", e.cfg.Name, "reactions", rs.Len(), "species", rs.SubstanceNames())

	var opts []odesys.Option
	if e.cfg.CSTR {
		opts = append(opts, odesys.WithCSTR())
	}
	sys, feed, err := odesys.Build(rs, opts...)
	if err != nil {
		return err
	}
	log.Debug("built ode system", "model", e.cfg.Name, "dim", sys.Dim(), "params", sys.Params(), "cstr", e.cfg.CSTR)

	e.reactions, e.system, e.feed = rs, sys, feed
	return nil
}

func (e *Experiment) AddObserver(o dynamo.Observer) { e.observers = append(e.observers, o) }

func (e *Experiment) Config() *config.Config      { return e.cfg }
func (e *Experiment) Reactions() *reaction.System { return e.reactions }
func (e *Experiment) System() *odesys.System      { return e.system }
func (e *Experiment) Feed() *odesys.FeedParams    { return e.feed }

// Options translates the model's solver settings for kinetics.Integrate.
func (e *Experiment) Options() (kinetics.Options, error) {
	integ, adaptive, err := e.registry.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return kinetics.Options{}, err
	}

	opts := kinetics.DefaultOptions()
	opts.Integrator = integ
	opts.Fixed = !adaptive
	opts.Dt = e.cfg.Dt
	if opts.Fixed && opts.Dt == 0 {
		opts.Dt = e.cfg.Duration / fixedSteps
	}
	if e.cfg.AbsTol > 0 || e.cfg.RelTol > 0 {
		opts.AbsTol = e.cfg.AbsTol
		opts.RelTol = e.cfg.RelTol
	}
	opts.Points = e.cfg.Points
	opts.Observers = append([]dynamo.Observer(nil), e.observers...)
	return opts, nil
}

func (e *Experiment) Run(ctx context.Context) (*kinetics.Result, error) {
	if e.system == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	log := ctxlog.FromContext(ctx)

	opts, err := e.Options()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := kinetics.Integrate(ctx, e.system, e.cfg.Init, e.cfg.Params, e.cfg.Duration, opts)
	if err != nil {
		if partial, ok := kinetics.PartialResult(err); ok {
			log.Warn("integration failed", "model", e.cfg.Name, "error", err,
				"reached", partial.Times[partial.Len()-1], "duration", e.cfg.Duration)
		}
		return res, err
	}

	log.Info("integration finished", "model", e.cfg.Name, "integrator", e.cfg.Integrator,
		"points", res.Len(), "accepted", res.Stats.Accepted, "rejected", res.Stats.Rejected,
		"evaluations", res.Stats.Evaluations, "elapsed", time.Since(start))
	return res, nil
}
