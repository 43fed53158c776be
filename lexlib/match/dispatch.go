package match

import "github.com/polylex/lexgen/lexlib/db"

// Dispatch invokes the matcher for def's Kind against st, the tagged-
// variant switch spec.md §9 calls out in place of the source's
// function-pointer vtable.
func Dispatch(def *db.Definition, st *db.State) (*db.Token, Outcome, error) {
	switch def.Kind {
	case db.KindCategory:
		return matchCategory(def, st)
	case db.KindLiteral:
		return matchLiteral(def, st)
	case db.KindRegex:
		return matchRegex(def, st)
	case db.KindMulti:
		return matchMulti(def, st)
	default:
		return nil, NoMatch, db.NewError(db.ErrBadDefinitionType, "unknown definition kind")
	}
}
