package specparser

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/alecthomas/participle/lexer"
)

var eolBytes = []byte("\n")

// scanner is the raw meta-tokenizer, adapted from cmakelib/lexer/lexer.go's
// scanner: a bufio.Scanner driven by a SplitFunc over the compiled
// tokPattern alternation, tracking byte offset, line and column as it
// goes.
type scanner struct {
	s   *bufio.Scanner
	pos lexer.Position
	tok lexer.Token
}

func newScanner(r io.Reader, filename string) *scanner {
	sc := &scanner{
		s:   bufio.NewScanner(r),
		pos: lexer.Position{Filename: filename, Line: 1, Column: 1},
	}
	sc.s.Buffer(make([]byte, 0, 4096), 1<<20)
	sc.s.Split(sc.scanPattern)
	return sc
}

// Next returns the next raw meta-token.
func (s *scanner) Next() (lexer.Token, error) {
	for s.scan() {
		return s.tok, s.s.Err()
	}
	if err := s.s.Err(); err != nil {
		return lexer.Token{}, err
	}
	return lexer.EOFToken(s.pos), nil
}

func (s *scanner) scan() bool {
	if s.s.Scan() {
		s.tok.Pos = s.pos
		s.tok.Value = s.s.Text()
		s.updatePosition(s.s.Bytes())
		return true
	}
	return false
}

func (s *scanner) updatePosition(data []byte) lexer.Position {
	s.pos.Offset += len(data)
	lines := bytes.Count(data, eolBytes)
	s.pos.Line += lines
	if lines == 0 {
		s.pos.Column += utf8.RuneCount(data)
	} else {
		s.pos.Column = utf8.RuneCount(data[bytes.LastIndex(data, eolBytes):])
	}
	return s.pos
}

// scanPattern is the bufio.SplitFunc that partitions input into meta-tokens.
func (s *scanner) scanPattern(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		s.tok.Type = lexer.EOF
		return 0, nil, nil
	}
	matches := tokPattern.FindSubmatchIndex(data)
	if matches == nil || matches[0] != 0 {
		rn, _ := utf8.DecodeRune(data)
		return 0, nil, lexer.Errorf(s.pos, "invalid token %q", rn)
	}
	for i := 2; i < len(matches); i += 2 {
		if matches[i] != -1 {
			name := tokPattern.SubexpNames()[i/2]
			s.tok.Type = tokenSyms[name]
			break
		}
	}
	if !atEOF && len(data) == matches[1]-matches[0] {
		return 0, nil, nil
	}
	return matches[1], data[matches[0]:matches[1]], nil
}
