package specparser

import (
	"strings"

	"github.com/alecthomas/participle/lexer"
)

// filterLexer merges the raw meta-token stream into the units the
// definition-body state machine expects: a verbatim %{ ... %} block
// collapses to one VerbatimContent token, and a quoted "..." literal
// collapses to one LiteralContent token with its escapes resolved.
//
// Grounded on cmakelib/lexer/filter.go's filterLexer, which performs
// the same raw-stream-to-combined-token reduction for CMake's bracket
// and quoted-argument content ahead of the grammar-level parser.
type filterLexer struct {
	l    *scanner
	buf  []lexer.Token
	prev lexer.Token
}

func newFilterLexer(l *scanner) *filterLexer {
	return &filterLexer{l: l}
}

func (f *filterLexer) Next() (lexer.Token, error) {
	if len(f.buf) > 0 {
		tok := f.buf[0]
		f.buf = f.buf[1:]
		return tok, nil
	}
	switch f.prev.Type {
	case VerbatimOpen:
		return f.bufferTokens(combineVerbatim(f.l))
	case Quote:
		return f.bufferTokens(combineQuoted(f.l))
	}
	var err error
	f.prev, err = f.l.Next()
	if err != nil {
		f.prev = lexer.Token{}
	}
	return f.prev, err
}

func (f *filterLexer) bufferTokens(toks []lexer.Token, done bool, err error) (lexer.Token, error) {
	if done || err != nil {
		f.prev = lexer.Token{}
	}
	if len(toks) > 0 {
		f.buf = toks[1:]
		return toks[0], err
	}
	f.buf = nil
	return lexer.Token{}, err
}

// combineVerbatim reads raw tokens until VerbatimClose or EOF, merging
// their text into a single VerbatimContent token (the closing %} is
// returned separately so the parser can observe the block boundary).
func combineVerbatim(l *scanner) ([]lexer.Token, bool, error) {
	var content lexer.Token
	started := false
	for {
		next, err := l.Next()
		if err != nil {
			return nil, true, err
		}
		switch next.Type {
		case VerbatimClose, lexer.EOF:
			if !started {
				return []lexer.Token{next}, true, nil
			}
			return []lexer.Token{content, next}, true, nil
		default:
			if !started {
				content = lexer.Token{Type: VerbatimContent, Pos: next.Pos, Value: next.Value}
				started = true
			} else {
				content.Value += next.Value
			}
		}
	}
}

// combineQuoted reads raw tokens until a closing Quote or EOF,
// resolving Escape tokens and merging the rest into a single
// LiteralContent token.
func combineQuoted(l *scanner) ([]lexer.Token, bool, error) {
	var content lexer.Token
	started := false
	for {
		next, err := l.Next()
		if err != nil {
			return nil, true, err
		}
		switch next.Type {
		case Quote, lexer.EOF:
			if !started {
				content = lexer.Token{Type: LiteralContent, Pos: next.Pos}
			}
			return []lexer.Token{content, next}, true, nil
		case Escape:
			piece := unescape(next.Value)
			if !started {
				content = lexer.Token{Type: LiteralContent, Pos: next.Pos, Value: piece}
				started = true
			} else {
				content.Value += piece
			}
		default:
			if !started {
				content = lexer.Token{Type: LiteralContent, Pos: next.Pos, Value: next.Value}
				started = true
			} else {
				content.Value += next.Value
			}
		}
	}
}

// unescape resolves a two-rune `\x` escape sequence per the enabled
// set spec.md §6 names for the printable-string utility: \\ \a \b \f
// \n \r \t \v \".
func unescape(seq string) string {
	if len(seq) != 2 || seq[0] != '\\' {
		return seq
	}
	switch seq[1] {
	case '\\':
		return "\\"
	case 'a':
		return "\a"
	case 'b':
		return "\b"
	case 'f':
		return "\f"
	case 'n':
		return "\n"
	case 'r':
		return "\r"
	case 't':
		return "\t"
	case 'v':
		return "\v"
	case '"':
		return "\""
	default:
		return strings.TrimPrefix(seq, "\\")
	}
}
