// Package grapheme implements the extended grapheme cluster reader of
// spec.md §4.1, consuming one UAX #29 extended grapheme cluster at a time
// from a srcbuf.Chain and reporting its four-unit Location contribution.
//
// The rule evaluation (break-or-continue decisions driven by a switch on
// category-mask tests) is grounded on
// clipperhouse-uax29/graphemes/splitfunc.go, adapted from a
// bufio.SplitFunc over a contiguous []byte to a reader that can ask its
// caller for more bytes mid-cluster by walking a srcbuf.Chain.
//
// This port implements the rules spec.md §4.1 calls out by name (GB3's
// CR×LF exception, GB4/GB5 control/CR/LF breaks, GB9/GB9a
// Extend/SpacingMark non-breaks, and GB12/GB13 regional-indicator
// pairing) and documents in DESIGN.md that the Hangul-syllable (GB6–GB8)
// and Prepend (GB9b) rules, and the ZWJ/Extended_Pictographic emoji rule
// (GB11), are out of scope: this generator's category model (spec.md §3)
// only carries Unicode General_Category plus the line-break bit, not the
// separate Grapheme_Cluster_Break property values those rules need.
package grapheme

import (
	"unicode/utf8"

	"github.com/polylex/lexgen/lexlib/category"
	"github.com/polylex/lexgen/lexlib/position"
	"github.com/polylex/lexgen/lexlib/srcbuf"
)

// Outcome mirrors the shared flow-control taxonomy for this package's one
// operation: success, no-match (nothing left to read, cleanly at EOF),
// need-more, or bad UTF-8.
type Outcome int

const (
	OK Outcome = iota
	NoMatch
	More
	BadUTF8
)

// Result is what ReadOne returns on OK: the grapheme's Location
// contribution, its representative (first) codepoint, and that
// codepoint's category.
type Result struct {
	Delta position.Set
	Rune  rune
	Cat   category.Mask
}

// decoded is one successfully-decoded scalar: its rune value, category,
// and raw encoded bytes (copied out, since they may have been assembled
// across a buffer boundary).
type decoded struct {
	r   rune
	cat category.Mask
	raw []byte
}

// decodeAt gathers up to utf8.UTFMax bytes starting at cur (without
// mutating cur) by walking forward across buffer boundaries, then
// decodes one rune from them.
func decodeAt(cur srcbuf.Cursor) (decoded, Outcome) {
	var scratch [utf8.UTFMax]byte
	n := 0
	walker := cur
	for n < utf8.UTFMax {
		if walker.AtEnd() {
			if walker.Buf != nil && walker.Buf.Next != nil {
				walker.Buf = walker.Buf.Next
				walker.Offset = 0
				continue
			}
			break
		}
		scratch[n] = walker.Buf.Bytes[walker.Offset]
		n++
		walker.Offset++
	}
	if n == 0 {
		if cur.NeedsMore() {
			return decoded{}, More
		}
		return decoded{}, NoMatch
	}
	r, w := utf8.DecodeRune(scratch[:n])
	if r == utf8.RuneError && w <= 1 {
		if n < utf8.UTFMax && !atTrueEnd(walker) {
			// Might just be truncated at the supplied data's edge.
			return decoded{}, More
		}
		return decoded{}, BadUTF8
	}
	raw := append([]byte(nil), scratch[:w]...)
	return decoded{r: r, cat: category.Lookup(r), raw: raw}, OK
}

// atTrueEnd reports whether walking forward from cur reaches a chain end
// whose tail buffer is marked EOF (i.e. no amount of appending will ever
// produce more bytes here).
func atTrueEnd(cur srcbuf.Cursor) bool {
	w := cur
	for {
		if !w.AtEnd() {
			return false
		}
		if w.Buf != nil && w.Buf.Next != nil {
			w.Buf = w.Buf.Next
			w.Offset = 0
			continue
		}
		return w.Buf == nil || w.Buf.IsEOF
	}
}

// advance moves cur forward by n bytes, crossing buffer boundaries as
// needed. n must not exceed the bytes available before the next "need
// more"/EOF boundary (callers only call this after decodeAt succeeded
// for exactly that many bytes).
func advance(cur *srcbuf.Cursor, n int) {
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

// isExtender reports whether cat should be folded into the preceding
// grapheme rather than starting a new one (GB9/GB9a: Extend, combining
// spacing marks).
func isExtender(cat category.Mask) bool {
	return cat.Is(category.Mn | category.Me | category.Mc)
}

// ReadOne consumes exactly one extended grapheme cluster starting at
// cur's current position. On OK, cur has been advanced past the cluster
// and the returned Result carries its Location delta (start fields taken
// from the given start Set), representative rune, and category. On
// More/BadUTF8/NoMatch, cur is left at its original position so the
// caller may retry after appending bytes.
func ReadOne(cur *srcbuf.Cursor, start position.Set) (Result, Outcome) {
	save := *cur

	first, outcome := decodeAt(*cur)
	if outcome != OK {
		return Result{}, outcome
	}

	b := position.NewBuilder(start)
	b.AddBytes(first.raw)
	b.AddChar()
	advance(cur, len(first.raw))

	// GB3 exception: CR immediately followed by LF is a single grapheme
	// and a single line, unlike a lone CR or LF+CR (two graphemes).
	if first.r == '\r' {
		peek, peekOutcome := decodeAt(*cur)
		if peekOutcome == More {
			*cur = save
			return Result{}, More
		}
		if peekOutcome == OK && peek.r == '\n' {
			b.AddBytes(peek.raw)
			b.AddChar()
			advance(cur, len(peek.raw))
		}
		b.AddGrapheme()
		b.Break()
		return Result{Delta: b.Set(), Rune: first.r, Cat: first.cat}, OK
	}

	b.AddGrapheme()
	if first.cat.Is(category.LineBreak) {
		b.Break()
		return Result{Delta: b.Set(), Rune: first.r, Cat: first.cat}, OK
	}
	b.BumpAfter()

	isRI := func(r rune) bool { return r >= 0x1F1E6 && r <= 0x1F1FF }
	regionalCount := 0
	if isRI(first.r) {
		regionalCount = 1
	}

	// Extend the cluster with any immediately-following combining marks,
	// or with the second half of a regional-indicator pair (flag emoji).
	for {
		peek, peekOutcome := decodeAt(*cur)
		if peekOutcome == More {
			*cur = save
			return Result{}, More
		}
		if peekOutcome != OK {
			break
		}
		if peek.r == '\r' || peek.r == '\n' || peek.cat.Is(category.LineBreak) {
			break
		}
		switch {
		case isExtender(peek.cat):
			// GB9/GB9a: fold in, cluster continues.
		case isRI(peek.r) && isRI(first.r) && regionalCount%2 == 1:
			// GB12/GB13: second half of a regional-indicator pair.
			regionalCount++
		default:
			return Result{Delta: b.Set(), Rune: first.r, Cat: first.cat}, OK
		}
		b.AddBytes(peek.raw)
		b.AddChar()
		advance(cur, len(peek.raw))
		if isRI(peek.r) {
			// Only one regional-indicator pair per cluster.
			return Result{Delta: b.Set(), Rune: first.r, Cat: first.cat}, OK
		}
	}

	return Result{Delta: b.Set(), Rune: first.r, Cat: first.cat}, OK
}
