package config

import "sort"

var Presets = map[string]*Config{
	"unary_irrev": {
		Name:       "unary_irrev",
		Reactions:  []string{"A -> B; 'k'"},
		Params:     map[string]float64{"k": 0.8},
		Init:       map[string]float64{"A": 0.15, "B": 0.1},
		Duration:   1.0,
		Integrator: "rk45",
		AbsTol:     DefaultAbsTol,
		RelTol:     DefaultRelTol,
		Points:     11,
	},
	"unary_irrev_cstr": {
		Name:       "unary_irrev_cstr",
		Reactions:  []string{"A -> B; 'k'"},
		CSTR:       true,
		Params:     map[string]float64{"k": 0.8, "fr": 0.3, "fc_A": 0.7, "fc_B": 0.1},
		Init:       map[string]float64{"A": 0.15, "B": 0.1},
		Duration:   10.0,
		Integrator: "rk45",
		AbsTol:     DefaultAbsTol,
		RelTol:     DefaultRelTol,
		Points:     101,
	},
	"reversible_cstr": {
		Name:       "reversible_cstr",
		Reactions:  []string{"A <-> B; 'kf', 'kb'", "B -> C; 'k2'"},
		CSTR:       true,
		Params:     map[string]float64{"kf": 1.2, "kb": 0.4, "k2": 0.25, "fr": 0.1, "fc_A": 1.0, "fc_B": 0, "fc_C": 0},
		Init:       map[string]float64{"A": 1.0, "B": 0, "C": 0},
		Duration:   50.0,
		Integrator: "rk45",
		AbsTol:     1e-9,
		RelTol:     1e-9,
		Points:     201,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
