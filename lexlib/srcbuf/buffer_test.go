package srcbuf

import "testing"

func TestChainAppendAndCursor(t *testing.T) {
	c := NewChain()
	c.Append([]byte("abc"))
	c.Append([]byte("def"))
	c.MarkEOF()

	cur := NewCursor(c)
	if cur.AtEOF() {
		t.Fatal("cursor should not be at EOF before consuming anything")
	}
	b, ok := cur.PeekByte()
	if !ok || b != 'a' {
		t.Fatalf("PeekByte = %q, %v; want 'a', true", b, ok)
	}
	cur.Offset = 3
	if !cur.AtEnd() {
		t.Fatal("expected AtEnd after consuming first buffer")
	}
	if !cur.Advance() {
		t.Fatal("expected Advance to succeed to second buffer")
	}
	if string(cur.Remaining()) != "def" {
		t.Fatalf("Remaining = %q, want def", cur.Remaining())
	}
	cur.Offset = 3
	if cur.Advance() {
		t.Fatal("expected Advance to fail at chain end")
	}
	if !cur.AtEOF() {
		t.Fatal("expected AtEOF at chain end with IsEOF set")
	}
}

func TestChainNeedsMoreWithoutEOF(t *testing.T) {
	c := NewChain()
	c.Append([]byte("ab"))
	cur := NewCursor(c)
	cur.Offset = 2
	if !cur.NeedsMore() {
		t.Fatal("expected NeedsMore without EOF mark")
	}
	if cur.AtEOF() {
		t.Fatal("should not report AtEOF without EOF mark")
	}
}

func TestAppendAfterEOFPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic appending after EOF")
		}
	}()
	c := NewChain()
	c.MarkEOF()
	c.Append([]byte("x"))
}
