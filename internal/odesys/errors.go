package odesys

import "errors"

var (
	// ErrDuplicateParameterName indicates two parameters share a name, most
	// often a rate constant colliding with a generated feed parameter.
	ErrDuplicateParameterName = errors.New("odesys: duplicate parameter name")

	// ErrEmptyReactionSystem is returned when CSTR augmentation is requested
	// for a system without species.
	ErrEmptyReactionSystem = errors.New("odesys: reaction system has no species")

	// ErrIncompleteInitialConditions indicates initial values that do not
	// cover every species exactly once.
	ErrIncompleteInitialConditions = errors.New("odesys: incomplete initial conditions")

	// ErrIncompleteParameters indicates a declared parameter without a value.
	ErrIncompleteParameters = errors.New("odesys: incomplete parameters")

	// ErrInvalidSystem indicates a malformed hand-built system.
	ErrInvalidSystem = errors.New("odesys: invalid ODE system")
)
