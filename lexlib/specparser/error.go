package specparser

import (
	"fmt"

	"github.com/alecthomas/participle/lexer"
	"github.com/polylex/lexgen/lexlib/db"
)

// nearbyWindow bounds the "nearby bytes" excerpt spec.md §7 requires in
// a parse diagnostic to a fixed size.
const nearbyWindow = 32

// ParseError is the diagnostic spec.md §7 requires for a spec-parse
// failure: "ERROR <file>: [<line>.<column>] <message> <nearby bytes>".
type ParseError struct {
	Kind    db.ErrKind
	Pos     lexer.Position
	Message string
	Nearby  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ERROR %s: [%d.%d] %s %q", e.Pos.Filename, e.Pos.Line, e.Pos.Column, e.Message, e.Nearby)
}

func (p *Parser) errorf(kind db.ErrKind, pos lexer.Position, format string, args ...interface{}) error {
	return &ParseError{
		Kind:    kind,
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
		Nearby:  p.nearby(pos),
	}
}

// nearby returns a fixed-size window of source text starting at pos,
// for inclusion in a ParseError.
func (p *Parser) nearby(pos lexer.Position) string {
	start := pos.Offset
	if start < 0 || start > len(p.src) {
		return ""
	}
	end := start + nearbyWindow
	if end > len(p.src) {
		end = len(p.src)
	}
	return string(p.src[start:end])
}
