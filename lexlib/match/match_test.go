package match

import (
	"regexp"
	"testing"

	"github.com/polylex/lexgen/lexlib/category"
	"github.com/polylex/lexgen/lexlib/db"
	"github.com/polylex/lexgen/lexlib/position"
	"github.com/polylex/lexgen/lexlib/srcbuf"
)

func newState(s string, eof bool) (*db.State, *srcbuf.Chain) {
	chain := srcbuf.NewChain()
	chain.Append([]byte(s))
	if eof {
		chain.MarkEOF()
	}
	return db.NewState(chain, position.NewSet(), db.DefaultSettings()), chain
}

func identDef() *db.Definition {
	return &db.Definition{Name: "IDENT_START", Kind: db.KindCategory, CatMask: category.Letter | category.Pc, CatMin: 1, CatMax: db.Unbounded}
}

func numDef() *db.Definition {
	return &db.Definition{Name: "NUM", Kind: db.KindCategory, CatMask: category.Number, CatMin: 1, CatMax: db.Unbounded}
}

func wsDef() *db.Definition {
	return &db.Definition{Name: "WS", Kind: db.KindCategory, CatMask: category.HSpace, CatMin: 1, CatMax: db.Unbounded}
}

func mustLiteral(s string) *db.Definition {
	units, err := PrecomputeLiteral([]byte(s))
	if err != nil {
		panic(err)
	}
	return &db.Definition{Name: "lit(" + s + ")", Kind: db.KindLiteral, LiteralBytes: []byte(s), LiteralUnits: units}
}

func mustRegex(pat string) *db.Definition {
	re := regexp.MustCompile(pat)
	re.Longest()
	return &db.Definition{Name: "re(" + pat + ")", Kind: db.KindRegex, RegexSource: pat, RegexCompiled: re}
}

func TestMatchCategoryBasic(t *testing.T) {
	st, _ := newState("abc 123", true)
	tok, outcome, err := Dispatch(identDef(), st)
	if err != nil || outcome != OK {
		t.Fatalf("outcome=%v err=%v", outcome, err)
	}
	if tok.ByteLength != 3 {
		t.Errorf("byte length = %d, want 3", tok.ByteLength)
	}
	if st.Pos[position.Byte].Start != 3 {
		t.Errorf("cursor byte pos = %d, want 3", st.Pos[position.Byte].Start)
	}
}

func TestMatchCategoryStopsAtMismatch(t *testing.T) {
	st, _ := newState("ab1", true)
	tok, outcome, err := Dispatch(identDef(), st)
	if err != nil || outcome != OK || tok.ByteLength != 2 {
		t.Fatalf("tok=%+v outcome=%v err=%v", tok, outcome, err)
	}
}

func TestMatchLiteralExactAndMismatch(t *testing.T) {
	st, _ := newState("foobar", true)
	tok, outcome, err := Dispatch(mustLiteral("foo"), st)
	if err != nil || outcome != OK || tok.ByteLength != 3 {
		t.Fatalf("tok=%+v outcome=%v err=%v", tok, outcome, err)
	}
	st2, _ := newState("xyz", true)
	_, outcome2, err2 := Dispatch(mustLiteral("foo"), st2)
	if err2 != nil || outcome2 != NoMatch {
		t.Fatalf("outcome=%v err=%v, want NoMatch", outcome2, err2)
	}
}

func TestMatchLiteralNeedsMore(t *testing.T) {
	chain := srcbuf.NewChain()
	chain.Append([]byte("fo"))
	st := db.NewState(chain, position.NewSet(), db.DefaultSettings())
	_, outcome, err := Dispatch(mustLiteral("foo"), st)
	if err != nil || outcome != More {
		t.Fatalf("outcome=%v err=%v, want More", outcome, err)
	}
	chain.Append([]byte("o"))
	chain.MarkEOF()
	tok, outcome, err := Dispatch(mustLiteral("foo"), st)
	if err != nil || outcome != OK || tok.ByteLength != 3 {
		t.Fatalf("tok=%+v outcome=%v err=%v", tok, outcome, err)
	}
}

func TestMatchRegexBasic(t *testing.T) {
	st, _ := newState("123abc", true)
	tok, outcome, err := Dispatch(mustRegex(`[0-9]+`), st)
	if err != nil || outcome != OK || tok.ByteLength != 3 {
		t.Fatalf("tok=%+v outcome=%v err=%v", tok, outcome, err)
	}
}

func TestMatchRegexNeedsMoreAtBufferEnd(t *testing.T) {
	chain := srcbuf.NewChain()
	chain.Append([]byte("123"))
	st := db.NewState(chain, position.NewSet(), db.DefaultSettings())
	_, outcome, err := Dispatch(mustRegex(`[0-9]+`), st)
	if err != nil || outcome != More {
		t.Fatalf("outcome=%v err=%v, want More", outcome, err)
	}
	chain.Append([]byte("x"))
	chain.MarkEOF()
	tok, outcome, err := Dispatch(mustRegex(`[0-9]+`), st)
	if err != nil || outcome != OK || tok.ByteLength != 3 {
		t.Fatalf("tok=%+v outcome=%v err=%v", tok, outcome, err)
	}
}

// seqDef builds PHRASE = ID WS NUM (spec.md §8 "Multi sequence").
func seqDef(refs ...*db.Reference) *db.Definition {
	m := &db.Definition{Name: "PHRASE", Kind: db.KindMulti, MultiKind: db.Sequence}
	for _, r := range refs {
		db.AppendReference(m, r)
	}
	return m
}

func oneRef(target *db.Definition) *db.Reference {
	return &db.Reference{TargetName: target.Name, Target: target, Min: 1, Max: 1}
}

func TestMatchMultiSequence(t *testing.T) {
	id, ws, num := identDef(), wsDef(), numDef()
	phrase := seqDef(oneRef(id), oneRef(ws), oneRef(num))

	st, _ := newState("k 42", true)
	tok, outcome, err := Dispatch(phrase, st)
	if err != nil || outcome != OK {
		t.Fatalf("outcome=%v err=%v", outcome, err)
	}
	if len(tok.SubTokens) != 3 {
		t.Fatalf("sub-tokens = %d, want 3", len(tok.SubTokens))
	}
	if tok.ByteLength != len("k 42") {
		t.Errorf("byte length = %d, want %d", tok.ByteLength, len("k 42"))
	}
}

func TestMatchMultiAlternation(t *testing.T) {
	id, num := identDef(), numDef()
	atom := &db.Definition{Name: "ATOM", Kind: db.KindMulti, MultiKind: db.Or}
	db.AppendReference(atom, oneRef(id))
	db.AppendReference(atom, oneRef(num))

	st1, _ := newState("foo", true)
	tok1, outcome1, err1 := Dispatch(atom, st1)
	if err1 != nil || outcome1 != OK || tok1.Definition.Name != "ATOM" || tok1.ByteLength != 3 {
		t.Fatalf("foo: tok=%+v outcome=%v err=%v", tok1, outcome1, err1)
	}
	if len(tok1.SubTokens) != 0 {
		t.Errorf("single-match flattening should leave no SubTokens, got %d", len(tok1.SubTokens))
	}

	st2, _ := newState("7", true)
	tok2, outcome2, err2 := Dispatch(atom, st2)
	if err2 != nil || outcome2 != OK || tok2.Definition.Name != "ATOM" || tok2.ByteLength != 1 {
		t.Fatalf("7: tok=%+v outcome=%v err=%v", tok2, outcome2, err2)
	}

	st3, _ := newState("!", true)
	_, outcome3, err3 := Dispatch(atom, st3)
	if err3 != nil || outcome3 != NoMatch {
		t.Fatalf("!: outcome=%v err=%v, want NoMatch", outcome3, err3)
	}
}

func TestMatchMultiBacktracking(t *testing.T) {
	id, ws, num := identDef(), wsDef(), numDef()
	seq := seqDef(oneRef(id), oneRef(ws), oneRef(num))
	alt := &db.Definition{Name: "ALT", Kind: db.KindMulti, MultiKind: db.Or}
	db.AppendReference(alt, oneRef(seq))
	db.AppendReference(alt, oneRef(id))

	st, _ := newState("ab", true)
	tok, outcome, err := Dispatch(alt, st)
	if err != nil || outcome != OK {
		t.Fatalf("outcome=%v err=%v", outcome, err)
	}
	if tok.ByteLength != 2 {
		t.Errorf("byte length = %d, want 2", tok.ByteLength)
	}
	if len(tok.SubTokens) != 0 {
		t.Errorf("single-match flattening should leave no SubTokens, got %d", len(tok.SubTokens))
	}
	if tok.Definition.Name != "ALT" {
		t.Errorf("flattened token definition = %q, want ALT", tok.Definition.Name)
	}
}

func TestMatchMultiQuantifier(t *testing.T) {
	id, ws := identDef(), wsDef()
	wsIDDef := &db.Definition{Name: "wsid", Kind: db.KindMulti, MultiKind: db.Sequence}
	db.AppendReference(wsIDDef, oneRef(ws))
	db.AppendReference(wsIDDef, oneRef(id))

	list := &db.Definition{Name: "LIST", Kind: db.KindMulti, MultiKind: db.Sequence}
	db.AppendReference(list, oneRef(id))
	db.AppendReference(list, &db.Reference{TargetName: "wsid", Target: wsIDDef, Min: 0, Max: db.Unbounded})

	st, _ := newState("a b c", true)
	tok, outcome, err := Dispatch(list, st)
	if err != nil || outcome != OK {
		t.Fatalf("outcome=%v err=%v", outcome, err)
	}
	if tok.ByteLength != len("a b c") {
		t.Errorf("byte length = %d, want %d", tok.ByteLength, len("a b c"))
	}
}

func TestMatchCategoryMoreFlow(t *testing.T) {
	id := identDef()
	chain := srcbuf.NewChain()
	chain.Append([]byte("abc"))
	st := db.NewState(chain, position.NewSet(), db.DefaultSettings())
	_, outcome, err := Dispatch(id, st)
	if err != nil || outcome != More {
		t.Fatalf("outcome=%v err=%v, want More", outcome, err)
	}
	chain.Append([]byte("\n"))
	chain.MarkEOF()
	tok, outcome, err := Dispatch(id, st)
	if err != nil || outcome != OK || tok.ByteLength != 3 {
		t.Fatalf("tok=%+v outcome=%v err=%v", tok, outcome, err)
	}
}

func TestMatchMultiUnresolvedReference(t *testing.T) {
	m := &db.Definition{Name: "BAD", Kind: db.KindMulti, MultiKind: db.Sequence}
	db.AppendReference(m, &db.Reference{TargetName: "missing", Min: 1, Max: 1})
	st, _ := newState("x", true)
	_, outcome, err := Dispatch(m, st)
	if err == nil {
		t.Fatal("expected unresolved-definition error")
	}
	dbErr, ok := err.(*db.Error)
	if !ok || dbErr.Kind != db.ErrUnresolvedDef {
		t.Errorf("err = %v, want UNRESOLVED_DEFINITION", err)
	}
	_ = outcome
}
