// Package reaction models chemical reaction networks: substances, reactions
// with integer stoichiometry and a named mass-action rate constant, and the
// validated [System] that groups them.
//
// Reactions can be built programmatically or parsed from one-line notation:
//
//	A + 2 B -> C; 'k1'
//	A <-> B; 'kf', 'kb'
//
// Values are immutable once constructed; accessors return copies.
package reaction
