package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/go-playground/validator.v9"
	"gopkg.in/yaml.v3"
)

const (
	DefaultIntegrator = "rk45"
	DefaultDuration   = 10.0
	DefaultAbsTol     = 1e-10
	DefaultRelTol     = 1e-10
)

var ErrInvalidConfig = errors.New("config: invalid model config")

var validate = validator.New()

// Config is a reaction model plus the solver settings to integrate it.
type Config struct {
	Name       string             `yaml:"name"`
	Reactions  []string           `yaml:"reactions" validate:"dive,required"`
	Species    []string           `yaml:"species,omitempty" validate:"dive,required"`
	CSTR       bool               `yaml:"cstr"`
	Params     map[string]float64 `yaml:"params"`
	Init       map[string]float64 `yaml:"init"`
	Duration   float64            `yaml:"duration" validate:"gt=0"`
	Integrator string             `yaml:"integrator" validate:"required"`
	Dt         float64            `yaml:"dt,omitempty" validate:"gte=0"`
	AbsTol     float64            `yaml:"atol" validate:"gte=0"`
	RelTol     float64            `yaml:"rtol" validate:"gte=0"`
	Points     int                `yaml:"points,omitempty" validate:"eq=0|gte=2"`
}

func DefaultConfig() *Config {
	return &Config{
		Params:     map[string]float64{},
		Init:       map[string]float64{},
		Duration:   DefaultDuration,
		Integrator: DefaultIntegrator,
		AbsTol:     DefaultAbsTol,
		RelTol:     DefaultRelTol,
	}
}

// Load reads a YAML model file on top of DefaultConfig and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the solver settings. Reaction lines, parameters and
// initial conditions are checked when the model is built.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if len(c.Reactions) == 0 && len(c.Species) == 0 {
		return fmt.Errorf("%w: no reactions or species", ErrInvalidConfig)
	}
	if math.IsInf(c.Duration, 0) {
		return fmt.Errorf("%w: duration must be finite, got %g", ErrInvalidConfig, c.Duration)
	}
	return nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Reactions = append([]string(nil), c.Reactions...)
	out.Species = append([]string(nil), c.Species...)
	out.Params = cloneMap(c.Params)
	out.Init = cloneMap(c.Init)
	return &out
}

func cloneMap(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
