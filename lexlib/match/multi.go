package match

import (
	"github.com/polylex/lexgen/lexlib/db"
	"github.com/polylex/lexgen/lexlib/position"
)

// matchMulti implements C8 (spec.md §4.5): the composite Sequence/Or
// matcher. Stack depth is bounded via db.State.Enter/Leave so a cyclic
// or deeply self-referential grammar fails with a typed error instead of
// overflowing the Go call stack.
func matchMulti(def *db.Definition, st *db.State) (*db.Token, Outcome, error) {
	if err := st.Enter(); err != nil {
		return nil, NoMatch, err
	}
	defer st.Leave()

	switch def.MultiKind {
	case db.Sequence:
		return matchSequence(def, st)
	case db.Or:
		return matchOr(def, st)
	default:
		return nil, NoMatch, db.NewError(db.ErrBadMultiKind, "unknown multi kind for "+def.Name)
	}
}

// matchSequence requires every Reference in order to reach its Min
// count; any shortfall rolls the whole attempt back (spec.md §4.5
// "Sequence kind").
func matchSequence(def *db.Definition, st *db.State) (*db.Token, Outcome, error) {
	start := st.Pos
	cp := st.Checkpoint()
	subMark := st.SubTokenMark()

	for _, ref := range db.References(def) {
		if ref.Target == nil {
			st.Rollback(cp)
			return nil, NoMatch, db.NewError(db.ErrUnresolvedDef, "unresolved reference "+ref.TargetName+" in "+def.Name)
		}
		successes := 0
		for ref.Max == db.Unbounded || successes < ref.Max {
			tok, outcome, err := Dispatch(ref.Target, st)
			if err != nil {
				st.Rollback(cp)
				return nil, NoMatch, err
			}
			if outcome == More {
				st.Rollback(cp)
				return nil, More, nil
			}
			if outcome == NoMatch {
				break
			}
			if err := st.PushSubToken(tok); err != nil {
				st.Rollback(cp)
				return nil, NoMatch, err
			}
			successes++
		}
		if successes < ref.Min {
			st.Rollback(cp)
			return nil, NoMatch, nil
		}
	}

	subs := st.SubTokensSince(subMark)
	st.Commit(cp)
	return finishMulti(def, start, subs), OK, nil
}

// matchOr tries each Reference in order, committing the first that
// reaches its Min count and resetting to the pre-reference point
// otherwise (spec.md §4.5 "Or kind").
func matchOr(def *db.Definition, st *db.State) (*db.Token, Outcome, error) {
	start := st.Pos
	cp := st.Checkpoint()
	subMark := st.SubTokenMark()

	for _, ref := range db.References(def) {
		if ref.Target == nil {
			st.Rollback(cp)
			return nil, NoMatch, db.NewError(db.ErrUnresolvedDef, "unresolved reference "+ref.TargetName+" in "+def.Name)
		}
		attemptCP := st.Checkpoint()
		successes := 0
		gotMore := false
		for ref.Max == db.Unbounded || successes < ref.Max {
			tok, outcome, err := Dispatch(ref.Target, st)
			if err != nil {
				st.Rollback(cp)
				return nil, NoMatch, err
			}
			if outcome == More {
				gotMore = true
				break
			}
			if outcome == NoMatch {
				break
			}
			if err := st.PushSubToken(tok); err != nil {
				st.Rollback(cp)
				return nil, NoMatch, err
			}
			successes++
		}
		if gotMore {
			st.Rollback(cp)
			return nil, More, nil
		}
		if successes >= ref.Min {
			subs := st.SubTokensSince(subMark)
			st.Commit(cp)
			return finishMulti(def, start, subs), OK, nil
		}
		st.Rollback(attemptCP)
	}

	st.Rollback(cp)
	return nil, NoMatch, nil
}

// finishMulti assembles the Multi's own Token from its sub-tokens'
// accumulated span. A single sub-token is flattened away per spec.md
// §4.5: the Multi's own token stands alone, without a nested SubTokens
// list of length one.
func finishMulti(def *db.Definition, start position.Set, subs []*db.Token) *db.Token {
	total := zeroTotal(start)
	for _, sub := range subs {
		total = accumulate(total, sub.Locations)
	}
	tok := buildToken(def, total)
	if len(subs) > 1 {
		tok.SubTokens = subs
		for _, s := range subs {
			s.Parent = tok
		}
	}
	return tok
}
