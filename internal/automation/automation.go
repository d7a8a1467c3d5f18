package automation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/reactsim/internal/config"
	"github.com/san-kum/reactsim/internal/ctxlog"
	"github.com/san-kum/reactsim/internal/experiment"
	"github.com/san-kum/reactsim/internal/kinetics"
	"github.com/san-kum/reactsim/internal/metrics"
	"github.com/san-kum/reactsim/internal/storage"
)

// Scenario is a scripted batch of model runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep names a preset or a model file (relative paths resolve
// against the scenario file) and optional overrides.
type ScenarioStep struct {
	Preset     string             `yaml:"preset,omitempty"`
	Model      string             `yaml:"model,omitempty"`
	Integrator string             `yaml:"integrator,omitempty"`
	Duration   float64            `yaml:"duration,omitempty"`
	Params     map[string]float64 `yaml:"params,omitempty"`
	Init       map[string]float64 `yaml:"init,omitempty"`
	SaveAs     string             `yaml:"save_as,omitempty"`
}

// StepResult reports one step. RunID is empty when the step failed
// before anything could be stored.
type StepResult struct {
	Name  string
	RunID string
	Err   error
}

type Runner struct {
	Registry *experiment.Registry
	Store    *storage.Store
	Recorder *metrics.Recorder
	// ContinueOnError keeps going after a failed step.
	ContinueOnError bool
	dir             string
}

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s: no steps", path)
	}
	return &scenario, nil
}

// RunFile loads and runs a scenario file.
func (r *Runner) RunFile(ctx context.Context, path string) ([]StepResult, error) {
	scenario, err := LoadScenario(path)
	if err != nil {
		return nil, err
	}
	r.dir = filepath.Dir(path)
	return r.Run(ctx, scenario)
}

// Run executes the steps in order and stores every run that produced a
// trajectory, failed runs included.
func (r *Runner) Run(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	log := ctxlog.FromContext(ctx)
	results := make([]StepResult, 0, len(scenario.Steps))

	var failed error
	for i, step := range scenario.Steps {
		cfg, err := r.stepConfig(step)
		name := fmt.Sprintf("step %d", i+1)
		if cfg != nil {
			name = cfg.Name
		}
		log.Info("running scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "model", name)

		res := StepResult{Name: name}
		if err == nil {
			res.RunID, _, err = r.RunConfig(ctx, cfg)
		}
		if err != nil {
			res.Err = fmt.Errorf("step %d: %w", i+1, err)
			failed = errors.Join(failed, res.Err)
		}
		results = append(results, res)

		if ctx.Err() != nil {
			return results, ctx.Err()
		}
		if err != nil && !r.ContinueOnError {
			return results, res.Err
		}
	}
	return results, failed
}

func (r *Runner) stepConfig(step ScenarioStep) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case step.Preset != "" && step.Model != "":
		return nil, fmt.Errorf("step sets both preset %q and model %q", step.Preset, step.Model)
	case step.Preset != "":
		if cfg = config.GetPreset(step.Preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", step.Preset)
		}
	case step.Model != "":
		path := step.Model
		if !filepath.IsAbs(path) && r.dir != "" {
			path = filepath.Join(r.dir, path)
		}
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("step needs a preset or a model file")
	}

	if step.Integrator != "" {
		cfg.Integrator = step.Integrator
	}
	if step.Duration > 0 {
		cfg.Duration = step.Duration
	}
	for k, v := range step.Params {
		cfg.Params[k] = v
	}
	for k, v := range step.Init {
		cfg.Init[k] = v
	}
	if step.SaveAs != "" {
		cfg.Name = step.SaveAs
	}
	return cfg, nil
}

// RunConfig runs one model, records it on the Recorder and saves it to
// the Store when those are set. The returned result may be partial when
// err is non-nil.
func (r *Runner) RunConfig(ctx context.Context, cfg *config.Config) (string, *kinetics.Result, error) {
	exp := experiment.New(cfg, r.Registry)
	if err := exp.Setup(ctx); err != nil {
		return "", nil, err
	}

	var ms []metrics.Metric
	if r.Recorder != nil {
		ms = metrics.Defaults()
		for _, m := range ms {
			exp.AddObserver(m)
		}
		exp.AddObserver(r.Recorder.StepObserver(cfg.Name))
	}

	start := time.Now()
	res, runErr := exp.Run(ctx)
	if r.Recorder != nil {
		r.Recorder.Observe(cfg.Name, cfg.Integrator, res, time.Since(start), runErr)
		r.Recorder.ObserveMetrics(cfg.Name, ms)
	}
	if res == nil || r.Store == nil {
		return "", res, runErr
	}

	meta := storage.RunMetadata{
		Model:      cfg.Name,
		Reactions:  cfg.Reactions,
		CSTR:       cfg.CSTR,
		Params:     cfg.Params,
		Init:       cfg.Init,
		Duration:   cfg.Duration,
		Integrator: cfg.Integrator,
		Points:     cfg.Points,
	}
	if len(ms) > 0 {
		meta.Metrics = make(map[string]float64, len(ms))
		for _, m := range ms {
			meta.Metrics[m.Name()] = m.Value()
		}
	}
	if runErr != nil {
		meta.Error = runErr.Error()
	}
	id, err := r.Store.Save(meta, res)
	if err != nil {
		return "", res, errors.Join(runErr, err)
	}
	ctxlog.FromContext(ctx).Debug("run stored", "id", id, "model", cfg.Name)
	return id, res, runErr
}
