// Package dynamo provides core simulation primitives for ODE systems.
//
// The package defines the fundamental interfaces and types for numerical
// integration of ordinary differential equations:
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator], [AdaptiveIntegrator]: numerical steppers
//   - [Simulator]: drives a stepper from t=0 to the final time
//
// # Example
//
//	sys, _ := odeSystem.Bind(params)
//	s := dynamo.New(sys, integrators.NewRK45())
//	result, err := s.Run(ctx, x0, cfg)
//
// A run that cannot reach the final time returns a [*SimulationError]
// matching [ErrIntegrationFailed] and carrying the partial trajectory.
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe: integrators keep scratch
// buffers. Use one Simulator and one integrator per goroutine.
package dynamo
