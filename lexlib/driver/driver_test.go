package driver

import (
	"regexp"
	"testing"

	"github.com/polylex/lexgen/lexlib/category"
	"github.com/polylex/lexgen/lexlib/db"
	"github.com/polylex/lexgen/lexlib/match"
	"github.com/polylex/lexgen/lexlib/position"
	"github.com/polylex/lexgen/lexlib/srcbuf"
)

func catDef(name string, mask category.Mask) *db.Definition {
	return &db.Definition{Name: name, Kind: db.KindCategory, CatMask: mask, CatMin: 1, CatMax: db.Unbounded}
}

func regexDef(name, pat string) *db.Definition {
	re := regexp.MustCompile(pat)
	re.Longest()
	return &db.Definition{Name: name, Kind: db.KindRegex, RegexSource: pat, RegexCompiled: re}
}

func rule(name string, def *db.Definition) *db.Rule {
	return &db.Rule{Name: name, Definition: def}
}

func buildRules(t *testing.T) *db.RuleDatabase {
	t.Helper()
	rd := db.NewRuleDatabase(0)
	rules := []*db.Rule{
		rule("ID", catDef("ID", category.Letter)),
		rule("NUM", regexDef("NUM", `[0-9]+`)),
		rule("WS", catDef("WS", category.HSpace)),
		rule("NL", catDef("NL", category.VSpace)),
	}
	for _, r := range rules {
		if err := rd.Append(r); err != nil {
			t.Fatalf("append rule %s: %v", r.Name, err)
		}
	}
	return rd
}

func newState(s string, eof bool) *db.State {
	chain := srcbuf.NewChain()
	chain.Append([]byte(s))
	if eof {
		chain.MarkEOF()
	}
	return db.NewState(chain, position.NewSet(), db.DefaultSettings())
}

func TestLexIdentifierNumberWhitespaceNewline(t *testing.T) {
	rules := buildRules(t)
	st := newState("abc 123\n", true)

	want := []struct {
		rule string
		text string
	}{
		{"ID", "abc"},
		{"WS", " "},
		{"NUM", "123"},
		{"NL", "\n"},
	}
	for i, w := range want {
		tok, outcome, err := Lex(rules, st)
		if err != nil {
			t.Fatalf("token %d: err = %v", i, err)
		}
		if outcome != match.OK {
			t.Fatalf("token %d: outcome = %v, want OK", i, outcome)
		}
		if tok.Rule.Name != w.rule {
			t.Errorf("token %d: rule = %q, want %q", i, tok.Rule.Name, w.rule)
		}
		if tok.ByteLength != len(w.text) {
			t.Errorf("token %d (%s): byte length = %d, want %d", i, w.rule, tok.ByteLength, len(w.text))
		}
	}
	_, outcome, err := Lex(rules, st)
	if err != nil || outcome != match.EOF {
		t.Fatalf("final outcome = %v, err = %v, want EOF", outcome, err)
	}
}

func TestLexPriorityFirstDeclaredWins(t *testing.T) {
	rd := db.NewRuleDatabase(0)
	_ = rd.Append(rule("FOO", catDef("FOO", category.Letter)))
	_ = rd.Append(rule("BAR", catDef("BAR", category.Letter)))
	st := newState("x", true)
	tok, outcome, err := Lex(rd, st)
	if err != nil || outcome != match.OK {
		t.Fatalf("outcome = %v err = %v", outcome, err)
	}
	if tok.Rule.Name != "FOO" {
		t.Errorf("rule = %q, want FOO (declared first)", tok.Rule.Name)
	}
}

func TestLexNoMatch(t *testing.T) {
	rd := db.NewRuleDatabase(0)
	_ = rd.Append(rule("ID", catDef("ID", category.Letter)))
	st := newState("123", true)
	_, outcome, err := Lex(rd, st)
	if err != nil || outcome != match.NoMatch {
		t.Fatalf("outcome = %v err = %v, want NoMatch", outcome, err)
	}
}

func TestLexMoreThenToken(t *testing.T) {
	rd := db.NewRuleDatabase(0)
	_ = rd.Append(rule("ID", catDef("ID", category.Letter)))
	chain := srcbuf.NewChain()
	chain.Append([]byte("abc"))
	st := db.NewState(chain, position.NewSet(), db.DefaultSettings())

	_, outcome, err := Lex(rd, st)
	if err != nil || outcome != match.More {
		t.Fatalf("outcome = %v err = %v, want More", outcome, err)
	}
	chain.Append([]byte(" "))
	chain.MarkEOF()
	tok, outcome, err := Lex(rd, st)
	if err != nil || outcome != match.OK || tok.ByteLength != 3 {
		t.Fatalf("tok = %+v outcome = %v err = %v", tok, outcome, err)
	}
}

func TestLexMoreIsIdempotentWithoutMoreBytes(t *testing.T) {
	rd := db.NewRuleDatabase(0)
	_ = rd.Append(rule("ID", catDef("ID", category.Letter)))
	chain := srcbuf.NewChain()
	chain.Append([]byte("abc"))
	st := db.NewState(chain, position.NewSet(), db.DefaultSettings())

	_, outcome1, err1 := Lex(rd, st)
	_, outcome2, err2 := Lex(rd, st)
	if err1 != nil || err2 != nil || outcome1 != match.More || outcome2 != match.More {
		t.Fatalf("outcomes = %v, %v; errs = %v, %v; want More, More", outcome1, outcome2, err1, err2)
	}
	if st.Pos[position.Byte].Start != 0 {
		t.Errorf("cursor advanced past unseen bytes: byte pos = %d, want 0", st.Pos[position.Byte].Start)
	}
}
