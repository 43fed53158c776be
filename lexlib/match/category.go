package match

import (
	"github.com/polylex/lexgen/lexlib/db"
	"github.com/polylex/lexgen/lexlib/grapheme"
	"github.com/polylex/lexgen/lexlib/position"
)

// matchCategory implements C5 (spec.md §4.2): match between CatMin and
// CatMax consecutive graphemes whose representative codepoint's category
// intersects def's mask.
func matchCategory(def *db.Definition, st *db.State) (*db.Token, Outcome, error) {
	start := st.Pos
	cur := st.Cursor
	total := zeroTotal(start)
	count := 0

	for def.CatMax == db.Unbounded || count < def.CatMax {
		curPos := position.Advance(start, total)
		res, outcome := grapheme.ReadOne(&cur, curPos)
		switch outcome {
		case grapheme.OK:
			if !res.Cat.Is(def.CatMask) {
				goto stop
			}
			total = accumulate(total, res.Delta)
			count++
			continue
		case grapheme.NoMatch:
			goto stop
		case grapheme.More:
			// Greedy matching cannot stop at a buffer boundary without
			// knowing whether a further grapheme would also match
			// (spec.md §8's MORE-flow scenario requires this even once
			// CatMin is already satisfied).
			return nil, More, nil
		case grapheme.BadUTF8:
			return nil, NoMatch, db.NewError(db.ErrBadUTF8, "invalid UTF-8 while matching "+def.Name)
		}
	}
stop:
	if count < def.CatMin {
		return nil, NoMatch, nil
	}
	st.Cursor = cur
	st.Pos = position.Advance(start, total)
	return buildToken(def, total), OK, nil
}
