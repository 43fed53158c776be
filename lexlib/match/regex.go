package match

import (
	"github.com/polylex/lexgen/lexlib/db"
	"github.com/polylex/lexgen/lexlib/grapheme"
	"github.com/polylex/lexgen/lexlib/position"
	"github.com/polylex/lexgen/lexlib/srcbuf"
)

// gatherRemaining collects every committed byte from cur to the end of
// its chain without mutating cur, and reports whether the chain is
// truly exhausted there (tail buffer marked EOF). The regex matcher
// needs all available bytes at once since RE2 has no incremental/resume
// API the way the grapheme reader does.
func gatherRemaining(cur srcbuf.Cursor) ([]byte, bool) {
	var out []byte
	w := cur
	for {
		if w.AtEnd() {
			if w.Buf != nil && w.Buf.Next != nil {
				w.Buf = w.Buf.Next
				w.Offset = 0
				continue
			}
			return out, w.Buf != nil && w.Buf.IsEOF
		}
		out = append(out, w.Buf.Bytes[w.Offset:w.Buf.Length]...)
		w.Offset = w.Buf.Length
	}
}

// replayBytes walks matched through the grapheme reader to produce its
// per-unit Location, anchored at zero (callers re-anchor at the match's
// real start). It is an error for the walk not to consume matched
// exactly — spec.md §4.4 calls a regex/grapheme length disagreement a
// bug to be reported, not silently tolerated.
func replayBytes(matched []byte) (position.Set, error) {
	chain := srcbuf.NewChain()
	chain.Append(matched)
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
			if total[position.Byte].Length != len(matched) {
				return position.Set{}, db.NewError(db.ErrBadLength, "regex match length disagrees with grapheme walk")
			}
			return total, nil
		case grapheme.BadUTF8:
			return position.Set{}, db.NewError(db.ErrBadUTF8, "regex matched invalid UTF-8")
		case grapheme.More:
			return position.Set{}, db.NewError(db.ErrState, "regex replay requested more bytes")
		}
	}
}

// matchRegex implements C7 (spec.md §4.4): an anchored search of def's
// pre-compiled pattern against all bytes currently available at the
// cursor, grounded on cmakelib/lexer/lexer.go's scanPattern and
// cmakelib/lexer/rules/rules.go's Rules.Match anchoring technique
// (FindIndex, then require the match start at offset 0).
func matchRegex(def *db.Definition, st *db.State) (*db.Token, Outcome, error) {
	start := st.Pos
	data, atEOF := gatherRemaining(st.Cursor)

	loc := def.RegexCompiled.FindIndex(data)
	if loc == nil || loc[0] != 0 {
		if !atEOF {
			return nil, More, nil
		}
		return nil, NoMatch, nil
	}
	if loc[1] == len(data) && !atEOF {
		// The match reaches every byte we currently have buffered; more
		// input could still extend it (RE2 is already in longest-match
		// mode), so we cannot commit yet.
		return nil, More, nil
	}

	matched := data[loc[0]:loc[1]]
	delta, err := replayBytes(matched)
	if err != nil {
		return nil, NoMatch, err
	}

	cur := st.Cursor
	stepBytes(&cur, loc[1])
	total := zeroTotal(start)
	for _, u := range units {
		total[u].Length = delta[u].Length
		total[u].After = delta[u].After
		total[u].Hash = delta[u].Hash
	}

	st.Cursor = cur
	st.Pos = position.Advance(start, total)
	return buildToken(def, total), OK, nil
}
