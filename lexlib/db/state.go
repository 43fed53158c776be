package db

import (
	"github.com/polylex/lexgen/lexlib/position"
	"github.com/polylex/lexgen/lexlib/srcbuf"
)

// State is the per-lex mutable context threaded through every matcher
// (spec.md §3 "State"): the input cursor, the four-unit position a match
// attempt starts from, the active Settings, a bounded sub-token arena for
// Multi matches, and a recursion guard.
//
// checkpoint/commit/rollback give a Multi matcher (spec.md §4.8, C8) a
// private view of State that it can discard entirely on backtrack,
// mirroring cmakelib/tools/cmaketobzl.go's eval/commandList pattern of
// speculatively walking a command list and restoring on failure.
type State struct {
	Cursor   srcbuf.Cursor
	Pos      position.Set
	Settings Settings

	subTokens []*Token
	depth     int
}

// NewState returns a State positioned at the start of chain, with pos as
// its initial four-unit Location (normally position.NewSet()).
func NewState(chain *srcbuf.Chain, pos position.Set, settings Settings) *State {
	return &State{
		Cursor:   srcbuf.NewCursor(chain),
		Pos:      pos,
		Settings: settings,
	}
}

// checkpoint is an opaque snapshot of everything a Multi match attempt
// can roll back: cursor position, four-unit location, and sub-token
// arena length (entries appended after the checkpoint are discarded on
// both rollback and commit).
type checkpoint struct {
	cursor     srcbuf.Cursor
	pos        position.Set
	subTokens  int
}

// Checkpoint captures the current State so a speculative sub-match can
// be rolled back without disturbing the caller's view.
func (s *State) Checkpoint() checkpoint {
	return checkpoint{cursor: s.Cursor, pos: s.Pos, subTokens: len(s.subTokens)}
}

// Rollback restores State to a prior Checkpoint, discarding any progress
// (including sub-tokens appended) made since.
func (s *State) Rollback(cp checkpoint) {
	s.Cursor = cp.cursor
	s.Pos = cp.pos
	s.subTokens = s.subTokens[:cp.subTokens]
}

// Commit finalizes a successful Multi attempt: the cursor and position
// advances made since cp are kept, but the sub-token arena is truncated
// back to cp's mark. The caller has already pulled this attempt's own
// sub-tokens out via SubTokensSince and is about to push its own finished
// Token into the enclosing scope instead, so the grandchildren must not
// also remain in the arena — left in place, they would be double-counted
// once the enclosing Multi later reads its own SubTokensSince range.
func (s *State) Commit(cp checkpoint) {
	s.subTokens = s.subTokens[:cp.subTokens]
}

// PushSubToken appends tok to the current Multi match's sub-token arena,
// enforcing the MaxSubTokens cap of spec.md §9 (Settings.MaxSubTokens).
func (s *State) PushSubToken(tok *Token) error {
	limit := s.Settings.MaxSubTokens
	if limit <= 0 {
		limit = DefaultSettings().MaxSubTokens
	}
	if len(s.subTokens) >= limit {
		return newErr(ErrMaxLength, "sub-token arena at capacity")
	}
	s.subTokens = append(s.subTokens, tok)
	return nil
}

// SubTokensSince returns the sub-tokens pushed since mark (typically a
// checkpoint's sub-token count, or 0), without truncating the arena.
func (s *State) SubTokensSince(mark int) []*Token {
	return append([]*Token(nil), s.subTokens[mark:]...)
}

// SubTokenMark returns the current sub-token arena length, for pairing
// with a later SubTokensSince call.
func (s *State) SubTokenMark() int { return len(s.subTokens) }

// Enter increments the recursion depth guard (spec.md §9
// Settings.MaxStackDepth), returning an error once the cap is exceeded.
// Callers must pair a successful Enter with a deferred Leave.
func (s *State) Enter() error {
	limit := s.Settings.MaxStackDepth
	if limit <= 0 {
		limit = DefaultSettings().MaxStackDepth
	}
	if s.depth >= limit {
		return newErr(ErrMaxLength, "reference resolution stack too deep")
	}
	s.depth++
	return nil
}

// Leave decrements the recursion depth guard set up by Enter.
func (s *State) Leave() {
	if s.depth > 0 {
		s.depth--
	}
}

// Depth reports the current recursion depth.
func (s *State) Depth() int { return s.depth }
