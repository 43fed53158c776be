// Package match implements the matcher dispatch of spec.md §4.2–§4.5
// (C5–C8): category, literal, and regex primitive matchers plus the
// composite Sequence/Or Multi matcher, selected by a tagged-variant
// switch on db.Definition.Kind rather than an interface vtable (spec.md
// §9 "dynamic dispatch of matchers").
//
// C8 (Multi) lives in this package rather than a separate one because
// its dispatch recurses into both the primitive matchers and into
// nested Multis; splitting it out would make lexlib/match and its
// sibling import each other.
package match

import "github.com/polylex/lexgen/lexlib/db"

// Outcome is the flow-control result of a match attempt (spec.md §4.9).
type Outcome int

const (
	// OK means a match was made; the caller's Token/State were updated.
	OK Outcome = iota
	// NoMatch is local to the current alternative; it drives
	// alternation/backtracking in a Multi and rule-walking in the driver.
	NoMatch
	// More means the matcher ran out of buffered bytes before it could
	// decide; the caller should append bytes and retry from the same
	// starting position.
	More
	// EOF means the input is cleanly exhausted (only returned by the
	// driver, not by individual matchers).
	EOF
)

func (o Outcome) String() string {
	switch o {
	case OK:
		return "OK"
	case NoMatch:
		return "NO_MATCH"
	case More:
		return "MORE"
	case EOF:
		return "EOF"
	default:
		return "outcome(?)"
	}
}

// Error re-exports db.Error so callers of this package need not import
// lexlib/db solely to type-assert an error kind.
type Error = db.Error

// ErrKind re-exports db.ErrKind for the same reason.
type ErrKind = db.ErrKind
