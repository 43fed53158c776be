// Package driver implements the top-level Lex entry point of spec.md
// §4.7 (C10): walk the rule list in declaration order against the
// current State and commit the first match.
//
// Grounded on cmakelib/lexer/rules/rules.go's Rules.Match ordered scan,
// but without that function's longest-match bookkeeping — spec.md §4.7
// is explicit that "priority is purely declaration order; no
// longest-match tie-breaking is performed across rules," so the first
// rule to return OK wins outright instead of racing every rule to find
// the longest span.
package driver

import (
	"github.com/polylex/lexgen/lexlib/db"
	"github.com/polylex/lexgen/lexlib/match"
)

// Lex walks rules in declaration order against st, returning the token
// produced by the first rule whose definition matches at the current
// position.
//
//   - match.More propagates immediately: the caller must append bytes
//     and call Lex again from the same position.
//   - match.EOF is returned once the buffer chain is exhausted and
//     marked EOF.
//   - match.NoMatch is returned if no rule matches at all.
//   - any other error is fatal to this call.
func Lex(rules *db.RuleDatabase, st *db.State) (*db.Token, match.Outcome, error) {
	if st.Cursor.AtEnd() {
		if !st.Cursor.Advance() {
			if st.Cursor.AtEOF() {
				return nil, match.EOF, nil
			}
			return nil, match.More, nil
		}
	}

	for _, rule := range rules.All() {
		if rule.Definition == nil {
			return nil, match.NoMatch, db.NewError(db.ErrEmptyDef, "rule "+rule.Name+" has no definition")
		}
		tok, outcome, err := match.Dispatch(rule.Definition, st)
		if err != nil {
			return nil, match.NoMatch, err
		}
		switch outcome {
		case match.More:
			return nil, match.More, nil
		case match.OK:
			tok.Rule = rule
			return tok, match.OK, nil
		case match.NoMatch:
			continue
		}
	}
	return nil, match.NoMatch, nil
}
