package specparser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/participle/lexer"
	"github.com/polylex/lexgen/lexlib/db"
	"github.com/polylex/lexgen/lexlib/match"
)

// parseBody implements the definition-body sub-grammar of spec.md §4.8's
// table: a quoted literal, a reference list (Sequence/Or, optionally
// quantified with '*'/'+'), or — anything else — a regex pattern. p.cur
// must already be positioned at the first token of the body; on return
// it is positioned at the terminator (Newline, SectionBreak, LBrace, or
// EOF) without having consumed it.
//
// Regex patterns in this grammar never contain a literal '{' or '}':
// spec.md §4.8's table gives quantifiers only as the Reference suffixes
// '*'/'+', so an LBrace always introduces a rule's user-code block,
// never bounded regex repetition. That reading is what lets the rules
// section attach a "{ ... }" block to a regex-bodied rule without
// ambiguity.
func (p *Parser) parseBody() (*db.Definition, error) {
	if err := p.skipSpace(); err != nil {
		return nil, err
	}
	if p.cur.Type == Quote {
		def, err := p.parseLiteralBody()
		if err != nil {
			return nil, err
		}
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		return def, nil
	}
	start := p.cur
	toks, err := p.collectLineTokens()
	if err != nil {
		return nil, err
	}
	if p.cur.Type == Quote {
		return nil, p.errorf(db.ErrToken, p.cur.Pos, "quote not allowed inside a pattern")
	}
	toks = trimTrailingSpace(toks)
	if len(toks) == 0 {
		return nil, p.errorf(db.ErrEmptyDef, start.Pos, "empty definition body")
	}
	if isReferenceList(toks) {
		return buildMulti(p, toks)
	}
	return buildRegex(p, toks)
}

// collectLineTokens reads filtered tokens up to (but not consuming) the
// next Newline, SectionBreak, LBrace, EOF, or an out-of-place Quote.
func (p *Parser) collectLineTokens() ([]lexer.Token, error) {
	var toks []lexer.Token
	for {
		switch p.cur.Type {
		case Newline, SectionBreak, LBrace, lexer.EOF, Quote:
			return toks, nil
		default:
			toks = append(toks, p.cur)
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
}

func trimTrailingSpace(toks []lexer.Token) []lexer.Token {
	for len(toks) > 0 && toks[len(toks)-1].Type == Space {
		toks = toks[:len(toks)-1]
	}
	return toks
}

func isReferenceList(toks []lexer.Token) bool {
	seenIdent := false
	for _, t := range toks {
		switch t.Type {
		case Ident:
			seenIdent = true
		case Space, Pipe, Star, Plus:
		default:
			return false
		}
	}
	return seenIdent
}

func (p *Parser) parseLiteralBody() (*db.Definition, error) {
	if err := p.advance(); err != nil { // consume opening Quote
		return nil, err
	}
	var content string
	if p.cur.Type == LiteralContent {
		content = p.cur.Value
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if p.cur.Type != Quote {
		return nil, p.errorf(db.ErrToken, p.cur.Pos, "unterminated literal")
	}
	if err := p.advance(); err != nil { // consume closing Quote
		return nil, err
	}
	units, err := match.PrecomputeLiteral([]byte(content))
	if err != nil {
		return nil, err
	}
	return &db.Definition{Kind: db.KindLiteral, LiteralBytes: []byte(content), LiteralUnits: units}, nil
}

// splitOnPipe partitions toks on Pipe tokens into alternative groups.
func splitOnPipe(toks []lexer.Token) [][]lexer.Token {
	var groups [][]lexer.Token
	var cur []lexer.Token
	for _, t := range toks {
		if t.Type == Pipe {
			groups = append(groups, cur)
			cur = nil
			continue
		}
		cur = append(cur, t)
	}
	groups = append(groups, cur)
	return groups
}

// parseGroup reads a space-separated run of (possibly quantified)
// identifiers into an ordered list of unresolved References.
func parseGroup(toks []lexer.Token) ([]*db.Reference, error) {
	var refs []*db.Reference
	i := 0
	for i < len(toks) {
		t := toks[i]
		switch t.Type {
		case Space:
			i++
		case Ident:
			min, max := 1, 1
			if i+1 < len(toks) {
				switch toks[i+1].Type {
				case Star:
					min, max = 0, db.Unbounded
					i++
				case Plus:
					min, max = 1, db.Unbounded
					i++
				}
			}
			refs = append(refs, &db.Reference{TargetName: t.Value, Min: min, Max: max})
			i++
		default:
			return nil, &db.Error{Kind: db.ErrToken, Message: "unexpected token in reference list"}
		}
	}
	return refs, nil
}

func buildMulti(p *Parser, toks []lexer.Token) (*db.Definition, error) {
	groups := splitOnPipe(toks)
	if len(groups) == 1 {
		refs, err := parseGroup(groups[0])
		if err != nil {
			return nil, p.errorf(db.ErrToken, toks[0].Pos, "%v", err)
		}
		if len(refs) == 0 {
			return nil, p.errorf(db.ErrEmptyDef, toks[0].Pos, "empty sequence")
		}
		m := &db.Definition{Kind: db.KindMulti, MultiKind: db.Sequence}
		for _, r := range refs {
			r.ParentMulti = m
			db.AppendReference(m, r)
		}
		return m, nil
	}
	m := &db.Definition{Kind: db.KindMulti, MultiKind: db.Or}
	var nested *db.Database
	for i, g := range groups {
		refs, err := parseGroup(g)
		if err != nil {
			return nil, p.errorf(db.ErrToken, toks[0].Pos, "%v", err)
		}
		if len(refs) == 0 {
			return nil, p.errorf(db.ErrEmptyDef, toks[0].Pos, "empty alternative")
		}
		if len(refs) == 1 {
			refs[0].ParentMulti = m
			db.AppendReference(m, refs[0])
			continue
		}
		// A multi-reference alternative (spec.md §8's backtracking
		// scenario "ALT = ID WS NUM | ID") is wrapped in an anonymous
		// Sequence child, the same nested-Multi shape spec.md §3 reserves
		// for parenthesization, and the Or references that instead of a
		// bare Definition name.
		if nested == nil {
			nested = db.NewDatabase(0)
			m.NestedDB = nested
		}
		alt := &db.Definition{
			Kind:      db.KindMulti,
			MultiKind: db.Sequence,
			Name:      fmt.Sprintf("_alt%d", i+1),
			Parent:    m,
		}
		for _, r := range refs {
			r.ParentMulti = alt
			db.AppendReference(alt, r)
		}
		if err := nested.Append(alt); err != nil {
			return nil, p.errorf(db.ErrMaxLength, toks[0].Pos, "%v", err)
		}
		ref := &db.Reference{TargetName: alt.Name, Target: alt, Min: 1, Max: 1, ParentMulti: m}
		db.AppendReference(m, ref)
	}
	return m, nil
}

func buildRegex(p *Parser, toks []lexer.Token) (*db.Definition, error) {
	var sb strings.Builder
	for _, t := range toks {
		sb.WriteString(t.Value)
	}
	src := sb.String()
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, p.errorf(db.ErrBadRegex, toks[0].Pos, "%v", err)
	}
	re.Longest()
	return &db.Definition{Kind: db.KindRegex, RegexSource: src, RegexCompiled: re}, nil
}
