// Package kinetics integrates ODE systems built by package odesys.
//
// [Integrate] checks the caller's named initial concentrations and
// parameter values, binds them, and drives a dynamo.Simulator from t=0 to
// the final time. The returned [Result] keeps the species names and bound
// parameters so columns and values can be looked up by name.
//
//	sys, _, _ := odesys.Build(rs, odesys.WithCSTR())
//	res, err := kinetics.Integrate(ctx, sys,
//		map[string]float64{"A": 0.15, "B": 0.1},
//		map[string]float64{"k": 0.8, "fr": 0.3, "fc_A": 0.7, "fc_B": 0.1},
//		10, kinetics.DefaultOptions())
//	a, _ := res.Species("A")
//
// A run that fails numerically returns an error matching
// dynamo.ErrIntegrationFailed; [PartialResult] recovers the trajectory
// computed before the failure.
package kinetics
