package match

import (
	"github.com/polylex/lexgen/lexlib/db"
	"github.com/polylex/lexgen/lexlib/position"
	"github.com/polylex/lexgen/lexlib/srcbuf"
)

var units = [4]position.Unit{position.Byte, position.Char, position.Grapheme, position.Line}

// zeroTotal returns the zero-length running accumulator a multi-grapheme
// or multi-reference matcher builds up, anchored at start.
func zeroTotal(start position.Set) position.Set {
	var out position.Set
	for _, u := range units {
		out[u] = position.Location{Start: start[u].Start, After: position.NoReset}
	}
	return out
}

// accumulate folds one grapheme's (or sub-match's) delta onto total:
// lengths add, After/Hash take delta's value whenever delta sets one
// (spec.md §4.2 "lengths add; after and hash take the last grapheme's").
func accumulate(total, delta position.Set) position.Set {
	var out position.Set
	for _, u := range units {
		out[u] = position.Location{
			Start:  total[u].Start,
			Length: total[u].Length + delta[u].Length,
			Hash:   delta[u].Hash,
			After:  total[u].After,
		}
		if delta[u].After != position.NoReset {
			out[u].After = delta[u].After
		}
	}
	return out
}

// stepBytes advances cur by n bytes, crossing buffer boundaries. Callers
// only call this immediately after confirming n bytes are available
// (e.g. via successive PeekByte calls), so running off the chain here
// would be a bug.
func stepBytes(cur *srcbuf.Cursor, n int) {
	for n > 0 {
		if cur.AtEnd() {
			if !cur.Advance() {
				return
			}
			continue
		}
		avail := cur.Buf.Length - cur.Offset
		step := avail
		if step > n {
			step = n
		}
		cur.Offset += step
		n -= step
	}
}

// buildToken assembles a Token for a successful primitive match: def is
// the matching Definition and total is the accumulated per-unit Location
// (already anchored at the token's start, per zeroTotal/accumulate). The
// token's absolute byte offset is total's own Byte.Start, since the Byte
// unit's Start field is literally the byte offset.
func buildToken(def *db.Definition, total position.Set) *db.Token {
	return &db.Token{
		Definition: def,
		ByteStart:  total[position.Byte].Start,
		ByteLength: total[position.Byte].Length,
		Locations:  total,
	}
}
