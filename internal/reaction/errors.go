package reaction

import "errors"

// ErrInvalidReactionSpec is returned for malformed notation, non-positive
// coefficients, bad or duplicate rate-constant names and references to
// undeclared substances.
var ErrInvalidReactionSpec = errors.New("reaction: invalid reaction spec")
