package match

import (
	"github.com/polylex/lexgen/lexlib/db"
	"github.com/polylex/lexgen/lexlib/grapheme"
	"github.com/polylex/lexgen/lexlib/position"
	"github.com/polylex/lexgen/lexlib/srcbuf"
)

// PrecomputeLiteral walks lit with the grapheme reader once, at
// definition-creation time, to produce the per-unit Location spec.md
// §4.3 says a Literal definition carries from the start (lengths and
// hash, anchored at zero — the Start fields are meaningless until the
// literal is matched at a real offset and are overwritten then).
func PrecomputeLiteral(lit []byte) (position.Set, error) {
	chain := srcbuf.NewChain()
	chain.Append(lit)
	chain.MarkEOF()
	cur := srcbuf.NewCursor(chain)
	total := zeroTotal(position.NewSet())
	for {
		curPos := position.Advance(position.NewSet(), total)
		res, outcome := grapheme.ReadOne(&cur, curPos)
		switch outcome {
		case grapheme.OK:
			total = accumulate(total, res.Delta)
		case grapheme.NoMatch:
			return total, nil
		case grapheme.BadUTF8:
			return position.Set{}, db.NewError(db.ErrBadUTF8, "literal is not valid UTF-8")
		case grapheme.More:
			// Impossible: lit's chain is fully buffered and EOF-marked.
			return position.Set{}, db.NewError(db.ErrState, "literal precompute requested more bytes")
		}
	}
}

// matchLiteral implements C6 (spec.md §4.3): compare def's precomputed
// literal bytes against the buffer at the cursor's current offset.
func matchLiteral(def *db.Definition, st *db.State) (*db.Token, Outcome, error) {
	if len(def.LiteralBytes) == 0 {
		return nil, NoMatch, db.NewError(db.ErrEmptyLiteral, "empty literal definition "+def.Name)
	}
	start := st.Pos
	cur := st.Cursor
	for _, want := range def.LiteralBytes {
		for cur.AtEnd() {
			if !cur.Advance() {
				if cur.AtEOF() {
					return nil, NoMatch, nil
				}
				return nil, More, nil
			}
		}
		got, _ := cur.PeekByte()
		if got != want {
			return nil, NoMatch, nil
		}
		stepBytes(&cur, 1)
	}

	total := zeroTotal(start)
	for _, u := range units {
		total[u].Length = def.LiteralUnits[u].Length
		total[u].After = def.LiteralUnits[u].After
		total[u].Hash = def.LiteralUnits[u].Hash
	}

	st.Cursor = cur
	st.Pos = position.Advance(start, total)
	return buildToken(def, total), OK, nil
}
