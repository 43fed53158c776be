// Package srcbuf implements the append-only byte buffer chain that the
// lexing core reads from. Memory-mapping and file reads are external
// collaborators (spec.md §1); this package only models the in-memory
// chain contract, in the same spirit as cmakelib/lexer/rules/scanner.go's
// bufio.Scanner-driven reads, but exposing the chain explicitly so a
// caller can append new tail buffers as bytes arrive.
package srcbuf

// Buffer is one link in a chain of byte slices. A lexer's cursor walks
// forward through committed bytes; when Length is reached the reader
// advances to Next, and the chain only reports "need more" when the tail
// buffer lacks IsEOF.
type Buffer struct {
	Bytes    []byte
	Length   int // committed length; may be < len(Bytes) while appending
	IsEOF    bool
	Next     *Buffer
	Prev     *Buffer
}

// NewBuffer returns a new unlinked Buffer wrapping data, not yet marked
// EOF.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{Bytes: data, Length: len(data)}
}

// Chain is a cursor-free handle on the head of a buffer chain. The chain
// itself is just the linked Buffers; Chain exists so callers have a place
// to hang Append/Tail without threading *Buffer everywhere.
type Chain struct {
	head *Buffer
	tail *Buffer
}

// NewChain returns an empty chain.
func NewChain() *Chain {
	return &Chain{}
}

// Head returns the first Buffer in the chain, or nil if empty.
func (c *Chain) Head() *Buffer {
	return c.head
}

// Tail returns the last Buffer in the chain, or nil if empty.
func (c *Chain) Tail() *Buffer {
	return c.tail
}

// Append adds data as a new tail buffer. If the current tail is marked
// EOF, Append panics: appending after EOF is a caller bug, not a flow
// control outcome.
func (c *Chain) Append(data []byte) *Buffer {
	if c.tail != nil && c.tail.IsEOF {
		panic("srcbuf: append after EOF")
	}
	b := NewBuffer(data)
	if c.tail == nil {
		c.head, c.tail = b, b
		return b
	}
	b.Prev = c.tail
	c.tail.Next = b
	c.tail = b
	return b
}

// MarkEOF marks the current tail buffer (creating an empty one if the
// chain is still empty) as the terminal buffer.
func (c *Chain) MarkEOF() {
	if c.tail == nil {
		c.Append(nil)
	}
	c.tail.IsEOF = true
}

// Cursor is a position within a Chain: the current Buffer and a byte
// offset into it. A Cursor does not own the chain; many Cursors (e.g. one
// per db.State, one private copy per Multi attempt) may walk the same
// chain concurrently so long as none of them mutate it.
type Cursor struct {
	Buf    *Buffer
	Offset int
}

// NewCursor returns a Cursor positioned at the start of chain.
func NewCursor(c *Chain) Cursor {
	return Cursor{Buf: c.head}
}

// AtEnd reports whether the cursor has consumed all committed bytes in
// its current buffer.
func (c Cursor) AtEnd() bool {
	return c.Buf == nil || c.Offset >= c.Buf.Length
}

// Advance moves past the current buffer's end to the next buffer, if any.
// It returns false if there is no next buffer (caller must then check
// IsEOF to distinguish EOF from MORE).
func (c *Cursor) Advance() bool {
	if c.Buf == nil || c.Buf.Next == nil {
		return false
	}
	c.Buf = c.Buf.Next
	c.Offset = 0
	return true
}

// NeedsMore reports whether the cursor has run off the end of the chain
// without the tail being marked EOF.
func (c Cursor) NeedsMore() bool {
	return c.AtEnd() && (c.Buf == nil || !c.Buf.IsEOF)
}

// AtEOF reports whether the cursor has run off the end of a chain whose
// tail is marked EOF.
func (c Cursor) AtEOF() bool {
	return c.AtEnd() && c.Buf != nil && c.Buf.IsEOF && c.Buf.Next == nil
}

// PeekByte returns the byte at the cursor and true, or 0, false if the
// cursor is at the end of its current buffer (caller should Advance and
// retry, or treat as MORE/EOF).
func (c Cursor) PeekByte() (byte, bool) {
	if c.AtEnd() {
		return 0, false
	}
	return c.Buf.Bytes[c.Offset], true
}

// Remaining returns the unconsumed bytes of the cursor's current buffer
// only (not across the chain) — most callers should use the grapheme
// reader rather than slicing directly, since a cluster or regex
// match may span multiple buffers.
func (c Cursor) Remaining() []byte {
	if c.AtEnd() {
		return nil
	}
	return c.Buf.Bytes[c.Offset:c.Buf.Length]
}
