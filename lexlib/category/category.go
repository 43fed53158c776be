// Package category implements the 32-bit Unicode general-category mask
// described in spec.md §3 ("Category (cat)"), built from the standard
// library's unicode.RangeTables and combined with golang.org/x/text's
// rangetable helper the way clipperhouse-uax29/internal/gen/main.go
// combines range tables when generating its own segmentation tries.
package category

import (
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

// Mask is a bitmask over the Unicode General_Category values plus one
// extended line-break bit (spec.md §3). The Unicode Standard defines 30
// General_Category values (including Cn, unassigned); together with the
// line-break bit that is 31 of the mask's 32 bits, leaving one spare.
type Mask uint32

// Base category bits, in Unicode's canonical General_Category order.
const (
	Lu Mask = 1 << iota
	Ll
	Lt
	Lm
	Lo
	Mn
	Mc
	Me
	Nd
	Nl
	No
	Pc
	Pd
	Ps
	Pe
	Pi
	Pf
	Po
	Sm
	Sc
	Sk
	So
	Zs
	Zl
	Zp
	Cc
	Cf
	Cs
	Co
	Cn
	// LineBreak is set (in addition to any base category bit) for
	// codepoints in the extended line-separator set of spec.md §4.1:
	// Unicode Zl/Zp plus the explicit CR/LF/VT/FF/NEL codepoints called
	// out by UAX #14.
	LineBreak
)

// Group constants are bitwise unions of the base categories, named the
// way spec.md §3 names them.
const (
	Letter     = Lu | Ll | Lt | Lm | Lo
	Mark       = Mn | Mc | Me
	Number     = Nd | Nl | No
	Punct      = Pc | Pd | Ps | Pe | Pi | Pf | Po
	Sym        = Sm | Sc | Sk | So
	Whitespace = Zs | Zl | Zp
	Other      = Cc | Cf | Cs | Co | Cn

	All = Letter | Mark | Number | Punct | Sym | Whitespace | Other

	// HSpace is horizontal whitespace: the separator-space category (Zs)
	// only; tab is a control character (Cc) and is not included.
	HSpace = Zs
	// VSpace is vertical whitespace: the line/paragraph separators plus
	// the extended line-break bit.
	VSpace = Zl | Zp | LineBreak
)

// NotWhitespace and NotVSpace deliberately exclude Control (Cc) per
// spec.md §3: "control characters deliberately excluded from 'Not-VSpace'
// and 'Not-Whitespace'" — i.e. a control character is in neither the
// Whitespace/VSpace group nor its complement.
var (
	NotWhitespace = All &^ Whitespace &^ Cc
	NotVSpace     = All &^ VSpace &^ Cc
)

// base maps each bit to the stdlib unicode.RangeTable it is built from.
// Cn (unassigned) has no RangeTable of its own in the standard library;
// Lookup reports Cn for any rune that none of these tables contains.
var base = map[Mask]*unicode.RangeTable{
	Lu: unicode.Lu, Ll: unicode.Ll, Lt: unicode.Lt, Lm: unicode.Lm, Lo: unicode.Lo,
	Mn: unicode.Mn, Mc: unicode.Mc, Me: unicode.Me,
	Nd: unicode.Nd, Nl: unicode.Nl, No: unicode.No,
	Pc: unicode.Pc, Pd: unicode.Pd, Ps: unicode.Ps, Pe: unicode.Pe,
	Pi: unicode.Pi, Pf: unicode.Pf, Po: unicode.Po,
	Sm: unicode.Sm, Sc: unicode.Sc, Sk: unicode.Sk, So: unicode.So,
	Zs: unicode.Zs, Zl: unicode.Zl, Zp: unicode.Zp,
	Cc: unicode.Cc, Cf: unicode.Cf, Cs: unicode.Cs, Co: unicode.Co,
}

// lineBreakRunes are the explicit UAX #14 codepoints spec.md §4.1 calls
// out by name, beyond Zl/Zp: CR, LF, VT, FF, NEL.
var lineBreakRunes = []rune{'\r', '\n', '\v', '\f', '\u0085'}

var lineBreakTable *unicode.RangeTable

func init() {
	lineBreakTable = rangetable.New(lineBreakRunes...)
	lineBreakTable = rangetable.Merge(lineBreakTable, unicode.Zl, unicode.Zp)
}

// Lookup returns the Mask for codepoint r: exactly one base category bit
// (Cn if unassigned) plus LineBreak if r is in the extended line-break
// set.
func Lookup(r rune) Mask {
	var m Mask
	found := false
	for bit, table := range base {
		if unicode.Is(table, r) {
			m |= bit
			found = true
			break
		}
	}
	if !found {
		m |= Cn
	}
	if unicode.Is(lineBreakTable, r) {
		m |= LineBreak
	}
	return m
}

// Is reports whether mask intersects any bit of want.
func (mask Mask) Is(want Mask) bool {
	return mask&want != 0
}

// Name is a Name/Mask pair for one pre-populated category definition
// (spec.md §4.6 "Pre-population").
type Name struct {
	Name string
	Mask Mask
}

// Predefined is the ordered list of pre-populated category definitions
// lexlib/db seeds its Definition table with, named in uppercase as
// spec.md §4.6 specifies (e.g. LETTER_UPPER, NUM_DECIMAL, HSPACE, VSPACE).
var Predefined = []Name{
	{"LETTER_UPPER", Lu}, {"LETTER_LOWER", Ll}, {"LETTER_TITLE", Lt},
	{"LETTER_MODIFIER", Lm}, {"LETTER_OTHER", Lo},
	{"MARK_NONSPACING", Mn}, {"MARK_SPACING", Mc}, {"MARK_ENCLOSING", Me},
	{"NUM_DECIMAL", Nd}, {"NUM_LETTER", Nl}, {"NUM_OTHER", No},
	{"PUNCT_CONNECTOR", Pc}, {"PUNCT_DASH", Pd}, {"PUNCT_OPEN", Ps},
	{"PUNCT_CLOSE", Pe}, {"PUNCT_INITIAL", Pi}, {"PUNCT_FINAL", Pf},
	{"PUNCT_OTHER", Po},
	{"SYM_MATH", Sm}, {"SYM_CURRENCY", Sc}, {"SYM_MODIFIER", Sk}, {"SYM_OTHER", So},
	{"SEP_SPACE", Zs}, {"SEP_LINE", Zl}, {"SEP_PARAGRAPH", Zp},
	{"CTRL_CONTROL", Cc}, {"CTRL_FORMAT", Cf}, {"CTRL_SURROGATE", Cs},
	{"CTRL_PRIVATE", Co}, {"CTRL_UNASSIGNED", Cn},
	{"LETTER", Letter}, {"MARK", Mark}, {"NUMBER", Number}, {"PUNCT", Punct},
	{"SYM", Sym}, {"WHITESPACE", Whitespace}, {"OTHER", Other},
	{"HSPACE", HSpace}, {"VSPACE", VSpace},
	{"NOT_WHITESPACE", NotWhitespace}, {"NOT_VSPACE", NotVSpace},
	{"ALL", All},
}
