package match

import "github.com/polylex/lexgen/lexlib/db"

// Resolver resolves References against the scope chain of spec.md §4.5:
// a parenthesized Multi's NestedDB nests inside its enclosing Multi, so
// resolving a name means walking that nesting outward before falling
// back to the top-level database.
//
// Structurally this mirrors cmakelib/bindings/stack.go's varStack (a
// parent-linked scope chain), but walked in the opposite order: varStack
// resolves innermost-scope-wins, while a Reference's ancestors are
// searched outermost-to-innermost-reversed, with the main DB searched
// last rather than first (see SPEC_FULL.md's addition on this).
type Resolver struct {
	Main *db.Database
}

// Resolve fills in ref.Target if it is not already set. It is
// idempotent: a previously-resolved Reference is left untouched.
func (r *Resolver) Resolve(ref *db.Reference) error {
	if ref.Target != nil {
		return nil
	}
	ancestors := ancestorsOutermostFirst(ref.ParentMulti)
	for _, anc := range ancestors {
		if anc.NestedDB == nil {
			continue
		}
		if def := anc.NestedDB.FindByName(ref.TargetName); def != nil {
			ref.Target = def
			return nil
		}
	}
	if def := r.Main.FindByName(ref.TargetName); def != nil {
		ref.Target = def
		return nil
	}
	return db.NewError(db.ErrUnresolvedDef, "unresolved definition "+ref.TargetName)
}

// ResolveAll resolves every Reference reachable from defs' Multi
// definitions, recursing into NestedDBs. It is used for the two-pass
// resolution spec.md §4.8 requires (once after the Definitions section,
// again after the Rules section).
func (r *Resolver) ResolveAll(defs []*db.Definition) error {
	for _, def := range defs {
		if def.Kind != db.KindMulti {
			continue
		}
		for _, ref := range db.References(def) {
			if err := r.Resolve(ref); err != nil {
				return err
			}
		}
		if def.NestedDB != nil {
			if err := r.ResolveAll(def.NestedDB.All()); err != nil {
				return err
			}
		}
	}
	return nil
}

// ancestorsOutermostFirst walks parent's ancestor chain (excluding
// parent itself, which owns the reference rather than enclosing it) and
// returns it ordered outermost-to-innermost, per spec.md §4.5.
func ancestorsOutermostFirst(parent *db.Definition) []*db.Definition {
	var innermostFirst []*db.Definition
	for anc := parent.Parent; anc != nil; anc = anc.Parent {
		innermostFirst = append(innermostFirst, anc)
	}
	for i, j := 0, len(innermostFirst)-1; i < j; i, j = i+1, j-1 {
		innermostFirst[i], innermostFirst[j] = innermostFirst[j], innermostFirst[i]
	}
	return innermostFirst
}
