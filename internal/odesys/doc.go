// Package odesys turns reaction networks into systems of first-order ODEs,
// one per species concentration.
//
// Each right-hand side is kept as an explicit list of signed mass-action
// terms rather than a symbolic expression, so the same structure drives
// printing, numeric evaluation and the Jacobian:
//
//	dA/dt = -k*A
//	dB/dt = k*A
//
// [Build] can fold in the flow terms of a continuously stirred tank reactor,
// dC/dt = ... - fr*C + fr*fc_C, and reports the generated parameter names
// in a [FeedParams] value.
package odesys
