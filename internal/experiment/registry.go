package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/reactsim/internal/dynamo"
	"github.com/san-kum/reactsim/internal/integrators"
)

// Method is a named integrator. Adaptive methods run with error control,
// the others step with a fixed dt.
type Method struct {
	New      func() dynamo.Integrator
	Adaptive bool
}

type Registry struct {
	integrators map[string]Method
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]Method),
	}

	r.integrators["euler"] = Method{New: func() dynamo.Integrator { return integrators.NewEuler() }}
	r.integrators["rk4"] = Method{New: func() dynamo.Integrator { return integrators.NewRK4() }}
	r.integrators["rk45"] = Method{New: func() dynamo.Integrator { return integrators.NewRK45() }, Adaptive: true}
	r.integrators["backward_euler"] = Method{New: func() dynamo.Integrator { return integrators.NewBackwardEuler() }}

	return r
}

// Register adds or replaces a named integrator.
func (r *Registry) Register(name string, m Method) {
	r.integrators[name] = m
}

// GetIntegrator returns a fresh integrator instance; integrators keep
// scratch buffers and must not be shared between runs.
func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, bool, error) {
	m, ok := r.integrators[name]
	if !ok {
		return nil, false, fmt.Errorf("unknown integrator: %s", name)
	}
	return m.New(), m.Adaptive, nil
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
