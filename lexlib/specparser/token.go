// Package specparser implements the three-section specification-file
// reader of spec.md §4.8 (C11): Definitions, Rules, and User code,
// separated by lines holding only "%%".
//
// The raw meta-tokenizer below is grounded on cmakelib/lexer/lexer.go's
// tokenDefs/scanPattern: an ordered table of regexes compiled once into
// a single named-group alternation, scanned with a bufio.Scanner whose
// SplitFunc requests more data whenever a match consumes the entire
// buffer without having reached true EOF.
package specparser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/participle/lexer"
)

// Meta-token kinds. These are the lexical units spec.md §4.8 names for
// driving the definition-body state machine: newline, space, id, '|',
// '*', '+', '{', '}', '"', '\', "%%", "%{", "%}", plus EOF and a
// catch-all single-rune Other token for regex/verbatim body text.
const (
	_ rune = lexer.EOF - iota
	Space
	Newline
	Ident
	Pipe
	Star
	Plus
	LBrace
	RBrace
	Quote
	Backslash
	Escape
	SectionBreak
	VerbatimOpen
	VerbatimClose
	VerbatimContent
	LiteralContent
	Other
)

type tokenDefinition struct {
	kind rune
	name string
	pat  string
}

// Ordered meta-token definitions. Longer, more specific patterns are
// listed before the generic single-rune fallback so the alternation
// regex prefers them (Go's regexp alternation is leftmost-first among
// equal-length matches at a given start, and RE2 finds the longest
// match for POSIX-style `Longest()`; tokenDefs relies on ordering the
// way the teacher's does, not on Longest semantics).
var tokenDefs = []tokenDefinition{
	{lexer.EOF, "EOF", ``},
	{SectionBreak, "SectionBreak", `%%`},
	{VerbatimOpen, "VerbatimOpen", `%\{`},
	{VerbatimClose, "VerbatimClose", `%\}`},
	{Newline, "Newline", `\n`},
	{Space, "Space", `[ \t]+`},
	{Escape, "Escape", `(?s:\\.)`},
	{Backslash, "Backslash", `\\`},
	{Quote, "Quote", `"`},
	{Pipe, "Pipe", `\|`},
	{Star, "Star", `\*`},
	{Plus, "Plus", `\+`},
	{LBrace, "LBrace", `\{`},
	{RBrace, "RBrace", `\}`},
	{Ident, "Ident", `[_\pL][_\pL\pN]*`},
	{Other, "Other", `[^\s]`},
}

var (
	tokenSyms  = make(map[string]rune)
	tokenNames = make(map[rune]string)
	tokPattern *regexp.Regexp
)

func init() {
	var parts []string
	for _, def := range tokenDefs {
		if len(def.pat) > 0 {
			parts = append(parts, fmt.Sprintf(`(?P<%s>%s)`, def.name, def.pat))
		}
		tokenSyms[def.name] = def.kind
		tokenNames[def.kind] = def.name
	}
	tokPattern = regexp.MustCompile(strings.Join(parts, "|"))
	tokenNames[VerbatimContent] = "VerbatimContent"
	tokenNames[LiteralContent] = "LiteralContent"
}

// KindName returns the human-readable name of a meta-token kind, used
// when formatting parse errors.
func KindName(kind rune) string {
	if kind == lexer.EOF {
		return "EOF"
	}
	if n, ok := tokenNames[kind]; ok {
		return n
	}
	return "UNKNOWN"
}
