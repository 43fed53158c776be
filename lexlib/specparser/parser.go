package specparser

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/lexer"
	"github.com/polylex/lexgen/lexlib/db"
	"github.com/polylex/lexgen/lexlib/match"
)

// maxAdvances bounds the total number of meta-tokens a single Parse
// call may consume (spec.md §4.8 "infinite-loop guards": every loop is
// bounded by an explicit maximum, and exceeding it is an error rather
// than a hang).
const maxAdvances = 2_000_000

// Result is the parsed and reference-resolved content of a spec file.
type Result struct {
	Definitions *db.Database
	Rules       *db.RuleDatabase
	Preamble    string // verbatim/indented passthrough text from the Definitions section
	RulesPrelude string // same, from the Rules section
	UserCode    string // Section 3, copied verbatim
}

// Parser holds the state for one Parse call: the filtered meta-token
// stream, one token of lookahead, and the raw source (kept for
// "nearby bytes" diagnostics and for copying Section 3 verbatim).
type Parser struct {
	src      []byte
	fileName string
	raw      *scanner
	filt     *filterLexer
	cur      lexer.Token
	advances int

	maxDefinitions int
	maxRules       int
}

// Parse reads a full specification file from r and returns its parsed,
// reference-resolved Definitions, Rules, and passthrough text.
func Parse(r io.Reader, filename string, maxDefinitions, maxRules int) (*Result, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	p := &Parser{
		src:            src,
		fileName:       filename,
		maxDefinitions: maxDefinitions,
		maxRules:       maxRules,
	}
	p.raw = newScanner(bytes.NewReader(src), filename)
	p.filt = newFilterLexer(p.raw)
	if err := p.advance(); err != nil {
		return nil, err
	}

	defs := db.NewDatabase(maxDefinitions)
	if err := defs.PrepopulateCategories(); err != nil {
		return nil, err
	}
	preamble, err := p.parseDefinitionsSection(defs)
	if err != nil {
		return nil, err
	}
	if p.cur.Type != SectionBreak {
		return nil, p.errorf(db.ErrToken, p.cur.Pos, "expected %%%% to end the definitions section, got %s", KindName(p.cur.Type))
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	resolver := &match.Resolver{Main: defs}
	if err := resolver.ResolveAll(defs.All()); err != nil {
		return nil, err
	}

	rules := db.NewRuleDatabase(maxRules)
	rulesPrelude, err := p.parseRulesSection(rules)
	if err != nil {
		return nil, err
	}
	var ruleDefs []*db.Definition
	for _, ru := range rules.All() {
		ruleDefs = append(ruleDefs, ru.Definition)
	}
	if err := resolver.ResolveAll(ruleDefs); err != nil {
		return nil, err
	}

	userCode := ""
	if p.cur.Type == SectionBreak {
		userCodeStart := p.cur.Pos.Offset + len(p.cur.Value)
		rest := src[userCodeStart:]
		rest = bytes.TrimPrefix(rest, []byte("\n"))
		userCode = string(rest)
	}

	return &Result{
		Definitions:  defs,
		Rules:        rules,
		Preamble:     preamble,
		RulesPrelude: rulesPrelude,
		UserCode:     userCode,
	}, nil
}

func (p *Parser) advance() error {
	p.advances++
	if p.advances > maxAdvances {
		return p.errorf(db.ErrInfiniteLoop, p.cur.Pos, "exceeded maximum token count parsing %s", p.fileName)
	}
	tok, err := p.filt.Next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *Parser) skipSpace() error {
	if p.cur.Type == Space {
		return p.advance()
	}
	return nil
}

// parseDefinitionsSection reads Section 1: blank lines, verbatim %{ %}
// blocks, indented passthrough code, and named definitions.
func (p *Parser) parseDefinitionsSection(defs *db.Database) (string, error) {
	var preamble strings.Builder
	for {
		switch p.cur.Type {
		case SectionBreak, lexer.EOF:
			return preamble.String(), nil
		case Newline:
			preamble.WriteByte('\n')
			if err := p.advance(); err != nil {
				return "", err
			}
		case VerbatimOpen:
			text, err := p.parseVerbatimBlock()
			if err != nil {
				return "", err
			}
			preamble.WriteString(text)
		case Space:
			text, err := p.consumeRestOfLine()
			if err != nil {
				return "", err
			}
			preamble.WriteString(text)
			preamble.WriteByte('\n')
		case Ident:
			name := p.cur.Value
			if err := p.advance(); err != nil {
				return "", err
			}
			def, err := p.parseBody()
			if err != nil {
				return "", err
			}
			if p.cur.Type == LBrace {
				return "", p.errorf(db.ErrToken, p.cur.Pos, "definitions cannot carry a user-code block")
			}
			def.Name = name
			if err := defs.Append(def); err != nil {
				return "", err
			}
			if err := p.endOfLine(); err != nil {
				return "", err
			}
		default:
			return "", p.errorf(db.ErrToken, p.cur.Pos, "unexpected %s at start of definitions line", KindName(p.cur.Type))
		}
	}
}

// parseRulesSection reads Section 2: blank lines, the same verbatim/
// indented passthrough tokens, and anonymous rules (a body, optionally
// followed by a brace-delimited user-code block).
func (p *Parser) parseRulesSection(rules *db.RuleDatabase) (string, error) {
	var prelude strings.Builder
	index := 0
	for {
		switch p.cur.Type {
		case SectionBreak, lexer.EOF:
			return prelude.String(), nil
		case Newline:
			prelude.WriteByte('\n')
			if err := p.advance(); err != nil {
				return "", err
			}
		case VerbatimOpen:
			text, err := p.parseVerbatimBlock()
			if err != nil {
				return "", err
			}
			prelude.WriteString(text)
		case Space:
			text, err := p.consumeRestOfLine()
			if err != nil {
				return "", err
			}
			prelude.WriteString(text)
			prelude.WriteByte('\n')
		default:
			def, err := p.parseBody()
			if err != nil {
				return "", err
			}
			userCode := ""
			if p.cur.Type == LBrace {
				userCode, err = p.parseUserCodeBlock()
				if err != nil {
					return "", err
				}
			}
			def.Name = "_rule" + strconv.Itoa(index)
			index++
			rule := &db.Rule{Name: def.Name, Definition: def, UserCode: userCode}
			if err := rules.Append(rule); err != nil {
				return "", err
			}
			if err := p.endOfLine(); err != nil {
				return "", err
			}
		}
	}
}

// endOfLine consumes a single trailing Newline, if present; it is not
// an error to already be at SectionBreak/EOF (a rule's user-code block
// may itself end the line).
func (p *Parser) endOfLine() error {
	if p.cur.Type == Newline {
		return p.advance()
	}
	switch p.cur.Type {
	case SectionBreak, lexer.EOF:
		return nil
	default:
		return p.errorf(db.ErrToken, p.cur.Pos, "unexpected %s after definition body", KindName(p.cur.Type))
	}
}

// consumeRestOfLine concatenates raw token text through the next
// Newline/EOF, used for indented passthrough code lines.
func (p *Parser) consumeRestOfLine() (string, error) {
	var sb strings.Builder
	for {
		switch p.cur.Type {
		case Newline, SectionBreak, lexer.EOF:
			if p.cur.Type == Newline {
				if err := p.advance(); err != nil {
					return "", err
				}
			}
			return sb.String(), nil
		default:
			sb.WriteString(p.cur.Value)
			if err := p.advance(); err != nil {
				return "", err
			}
		}
	}
}

// parseVerbatimBlock consumes a %{ ... %} block and returns its inner
// text. p.cur is at VerbatimOpen on entry.
func (p *Parser) parseVerbatimBlock() (string, error) {
	if err := p.advance(); err != nil { // consume %{
		return "", err
	}
	var content string
	if p.cur.Type == VerbatimContent {
		content = p.cur.Value
		if err := p.advance(); err != nil {
			return "", err
		}
	}
	if p.cur.Type != VerbatimClose {
		return "", p.errorf(db.ErrToken, p.cur.Pos, "unterminated %%{ block")
	}
	if err := p.advance(); err != nil { // consume %}
		return "", err
	}
	if p.cur.Type == Newline {
		if err := p.advance(); err != nil {
			return "", err
		}
	}
	return content, nil
}

// parseUserCodeBlock reads a balanced { ... } block, returning its
// interior text. p.cur is at the opening LBrace on entry; on return it
// is positioned just past the matching RBrace.
func (p *Parser) parseUserCodeBlock() (string, error) {
	if p.cur.Type != LBrace {
		return "", p.errorf(db.ErrState, p.cur.Pos, "internal error: expected { to start user code")
	}
	depth := 1
	if err := p.advance(); err != nil {
		return "", err
	}
	var sb strings.Builder
	for {
		switch p.cur.Type {
		case lexer.EOF:
			return "", p.errorf(db.ErrToken, p.cur.Pos, "unterminated user-code block")
		case LBrace:
			depth++
			sb.WriteString(p.cur.Value)
		case RBrace:
			depth--
			if depth == 0 {
				if err := p.advance(); err != nil {
					return "", err
				}
				return sb.String(), nil
			}
			sb.WriteString(p.cur.Value)
		default:
			sb.WriteString(p.cur.Value)
		}
		if err := p.advance(); err != nil {
			return "", err
		}
	}
}
