package db

import (
	"bitbucket.org/creachadair/stringset"

	"github.com/polylex/lexgen/lexlib/category"
)

// ErrKind is spec.md §7's error taxonomy. lexlib/db raises some of these
// kinds itself; lexlib/match, lexlib/driver and lexlib/specparser raise
// the rest through NewError.
type ErrKind string

const (
	ErrNullInput         ErrKind = "NULL_INPUT"
	ErrBadUTF8           ErrKind = "BAD_UTF8"
	ErrBadLength         ErrKind = "BAD_LENGTH"
	ErrBadOffset         ErrKind = "BAD_OFFSET"
	ErrBadStart          ErrKind = "BAD_START"
	ErrBadMin            ErrKind = "BAD_MIN"
	ErrBadMax            ErrKind = "BAD_MAX"
	ErrBadRegex          ErrKind = "BAD_REGEX"
	ErrBadCategory       ErrKind = "BAD_CATEGORY"
	ErrBadDefinitionType ErrKind = "BAD_DEFINITION_TYPE"
	ErrBadMultiKind      ErrKind = "BAD_MULTI_KIND"
	ErrEmptyLiteral      ErrKind = "EMPTY_LITERAL"
	ErrEmptyDef          ErrKind = "EMPTY_DEFINITION"
	ErrChainInsert       ErrKind = "CHAIN_INSERT"
	ErrMaxLength         ErrKind = "MAX_LENGTH"
	ErrInfiniteLoop      ErrKind = "INFINITE_LOOP"
	ErrNotFound          ErrKind = "NOT_FOUND"
	ErrUnresolvedDef     ErrKind = "UNRESOLVED_DEFINITION"
	ErrToken             ErrKind = "TOKEN"
	ErrState             ErrKind = "STATE"
)

// Error is a typed error from the taxonomy of spec.md §7.
type Error struct {
	Kind    ErrKind
	Message string
}

func (e *Error) Error() string { return string(e.Kind) + ": " + e.Message }

func newErr(kind ErrKind, msg string) *Error { return &Error{Kind: kind, Message: msg} }

// NewError constructs a typed Error of the given kind, for use by
// lexlib/match, lexlib/driver, and lexlib/specparser.
func NewError(kind ErrKind, msg string) *Error { return newErr(kind, msg) }

// Database is the ordered Definition table of spec.md §4.6/§9: a
// doubly-linked list of Definition nodes, optionally capped at maxLen
// live entries, with name and id indices. Names remain live in the name index after a removal so
// that earlier-captured Reference.Target pointers keep valid name
// strings (spec.md §3 invariant on name reuse).
type Database struct {
	maxLen int
	count  int
	nextID int

	head *Definition
	tail *Definition

	byName map[string]*Definition // most recent (possibly unlinked) entry
	liveNames stringset.Set
}

// NewDatabase returns an empty Definition database capped at maxLen live
// entries. maxLen <= 0 means unbounded.
func NewDatabase(maxLen int) *Database {
	return &Database{
		maxLen:    maxLen,
		byName:    make(map[string]*Definition),
		liveNames: stringset.New(),
	}
}

// Len returns the number of currently-linked (live) definitions.
func (d *Database) Len() int { return d.count }

// Head returns the first live Definition, or nil if empty.
func (d *Database) Head() *Definition { return d.head }

// Append adds def to the end of the database, assigning it the next
// monotonic id. If a live definition with the same name already exists,
// it is unlinked (detached, not freed) first — spec.md §4.6
// "Pre-population" override semantics.
func (d *Database) Append(def *Definition) error {
	if d.maxLen > 0 && d.count >= d.maxLen {
		return newErr(ErrMaxLength, "definition table at capacity")
	}
	if prev, ok := d.byName[def.Name]; ok && prev.live {
		d.unlink(prev)
	}
	def.ID = d.nextID
	d.nextID++
	def.live = true
	def.prev = d.tail
	if d.tail != nil {
		d.tail.next = def
	} else {
		d.head = def
	}
	d.tail = def
	d.count++
	d.byName[def.Name] = def
	d.liveNames.Add(def.Name)
	return nil
}

// unlink detaches def from the traversal list without touching its name
// string or the byName entry that still points at it (so a Reference
// resolved before the override keeps working, per spec.md §3).
func (d *Database) unlink(def *Definition) {
	if !def.live {
		return
	}
	if def.prev != nil {
		def.prev.next = def.next
	} else {
		d.head = def.next
	}
	if def.next != nil {
		def.next.prev = def.prev
	} else {
		d.tail = def.prev
	}
	def.prev, def.next = nil, nil
	def.live = false
	d.count--
	d.liveNames.Remove(def.Name)
}

// RemoveByName unlinks the live definition named name, if any.
func (d *Database) RemoveByName(name string) bool {
	def, ok := d.byName[name]
	if !ok || !def.live {
		return false
	}
	d.unlink(def)
	return true
}

// FindByName returns the live definition named name, or nil.
func (d *Database) FindByName(name string) *Definition {
	if !d.liveNames.Contains(name) {
		return nil
	}
	return d.byName[name]
}

// FindByID scans the live chain for a definition with the given id.
// IDs are small in practice (one per spec definition), so a linear scan
// matches spec.md's "ordered tables" model without a second index.
func (d *Database) FindByID(id int) *Definition {
	for def := d.head; def != nil; def = def.next {
		if def.ID == id {
			return def
		}
	}
	return nil
}

// All returns the live definitions in declaration order.
func (d *Database) All() []*Definition {
	out := make([]*Definition, 0, d.count)
	for def := d.head; def != nil; def = def.next {
		out = append(out, def)
	}
	return out
}

// PrepopulateCategories appends one KindCategory Definition per entry of
// category.Predefined (LETTER_UPPER, NUM_DECIMAL, ALL, ...), in table order, so
// a .lexspec file can reference them without declaring its own category
// rules (spec.md §4.6 "Pre-population"). A spec file that later defines
// its own definition with one of these names overrides it via Append's
// unlink-on-override behavior, per spec.md §3.
func (d *Database) PrepopulateCategories() error {
	for _, n := range category.Predefined {
		def := &Definition{
			Name:   n.Name,
			Kind:   KindCategory,
			CatMask: n.Mask,
			CatMin:  1,
			CatMax:  Unbounded,
		}
		if err := d.Append(def); err != nil {
			return err
		}
	}
	return nil
}

// RuleDatabase is the ordered Rule table of spec.md §4.6: priority is
// purely declaration order (spec.md §4.7), so unlike Database it never
// needs override-by-name semantics.
type RuleDatabase struct {
	maxLen int
	count  int
	nextID int

	head *Rule
	tail *Rule

	byName map[string]*Rule
}

// NewRuleDatabase returns an empty Rule database capped at maxLen rules.
// maxLen <= 0 means unbounded.
func NewRuleDatabase(maxLen int) *RuleDatabase {
	return &RuleDatabase{maxLen: maxLen, byName: make(map[string]*Rule)}
}

// Len returns the number of rules.
func (d *RuleDatabase) Len() int { return d.count }

// Head returns the first Rule in declaration order, or nil if empty.
func (d *RuleDatabase) Head() *Rule { return d.head }

// Append adds r to the end of the rule list, assigning the next id.
func (d *RuleDatabase) Append(r *Rule) error {
	if d.maxLen > 0 && d.count >= d.maxLen {
		return newErr(ErrMaxLength, "rule table at capacity")
	}
	r.ID = d.nextID
	d.nextID++
	r.prev = d.tail
	if d.tail != nil {
		d.tail.next = r
	} else {
		d.head = r
	}
	d.tail = r
	d.count++
	d.byName[r.Name] = r
	return nil
}

// FindByName returns the rule named name, or nil.
func (d *RuleDatabase) FindByName(name string) *Rule {
	return d.byName[name]
}

// All returns the rules in declaration order (= match priority order,
// spec.md §4.7: "earlier rules win ties").
func (d *RuleDatabase) All() []*Rule {
	out := make([]*Rule, 0, d.count)
	for r := d.head; r != nil; r = r.next {
		out = append(out, r)
	}
	return out
}

// AppendReference links ref onto the end of parent's References list and
// sets ref.ParentMulti.
func AppendReference(parent *Definition, ref *Reference) {
	ref.ParentMulti = parent
	if parent.References == nil {
		parent.References = ref
		return
	}
	tail := parent.References
	for tail.next != nil {
		tail = tail.next
	}
	tail.next = ref
	ref.prev = tail
}

// References returns parent's References list as a slice, in order.
func References(parent *Definition) []*Reference {
	var out []*Reference
	for r := parent.References; r != nil; r = r.next {
		out = append(out, r)
	}
	return out
}
