// Package writer implements the code-emitter half of spec.md §6's
// "Generated-source interface": given a compiled Definition/Rule
// database, write a sequence of declarations, a rebuild function, and a
// lex() entry point in the target language.
//
// GoEmitter is the one concrete emitter, targeting Go itself. It keeps
// the teacher's writer/starlark.go shape — a dedicated Writer type that
// brackets a generated unit and defers most of the formatting to a
// template — but swaps the teacher's hand-rolled string concatenation
// for text/template, since a full Go source file (package clause,
// imports, a rebuild function, a lex entry point) is naturally
// template-shaped where a handful of fixed Starlark macro forms was not.
// Per-field literal encoding still goes through Marshal (writer/marshal.go),
// adapted from the teacher's Starlark marshaling to Go literal syntax.
package writer

import (
	"fmt"
	"io"
	"text/template"

	"github.com/polylex/lexgen/lexlib/db"
)

// EmitInput is the flattened, template-ready view of a compiled
// database that GoEmitter.Emit renders.
type EmitInput struct {
	Package  string
	Preamble string
	UserCode string

	Definitions []defEntry
	Rules       []ruleEntry
}

type defEntry struct {
	Name string
	Kind db.Kind

	CatMaskHex string
	CatMin     int
	CatMax     int

	LiteralText string

	RegexSource string

	MultiKind db.MultiKind
	Refs      []refEntry
}

type refEntry struct {
	TargetName string
	Min, Max   int
}

type ruleEntry struct {
	Name     string
	Def      defEntry
	UserCode string
}

// BuildInput flattens a resolved Definition/Rule database into the
// shape the default template walks. It takes the database's live
// entries exactly as recorded (including any user override of a
// pre-populated category), so the generated NewLexer need not re-run
// category pre-population itself.
func BuildInput(pkg string, defs *db.Database, rules *db.RuleDatabase, preamble, userCode string) (*EmitInput, error) {
	in := &EmitInput{Package: pkg, Preamble: preamble, UserCode: userCode}
	for _, def := range defs.All() {
		e, err := buildDefEntry(def)
		if err != nil {
			return nil, err
		}
		in.Definitions = append(in.Definitions, e)
	}
	for _, r := range rules.All() {
		e, err := buildDefEntry(r.Definition)
		if err != nil {
			return nil, err
		}
		in.Rules = append(in.Rules, ruleEntry{Name: r.Name, Def: e, UserCode: r.UserCode})
	}
	return in, nil
}

func buildDefEntry(def *db.Definition) (defEntry, error) {
	e := defEntry{Name: def.Name, Kind: def.Kind}
	switch def.Kind {
	case db.KindCategory:
		e.CatMaskHex = fmt.Sprintf("0x%08x", uint32(def.CatMask))
		e.CatMin = def.CatMin
		e.CatMax = def.CatMax
	case db.KindLiteral:
		e.LiteralText = string(def.LiteralBytes)
	case db.KindRegex:
		e.RegexSource = def.RegexSource
	case db.KindMulti:
		e.MultiKind = def.MultiKind
		for _, ref := range db.References(def) {
			e.Refs = append(e.Refs, refEntry{TargetName: ref.TargetName, Min: ref.Min, Max: ref.Max})
		}
	default:
		return defEntry{}, db.NewError(db.ErrBadDefinitionType, "unknown definition kind for "+def.Name)
	}
	return e, nil
}

// GoEmitter renders an EmitInput as a standalone Go source file
// implementing the generated-lexer interface of spec.md §6.
type GoEmitter struct {
	tmpl *template.Template
}

var templateFuncs = template.FuncMap{
	"quote": func(s string) string {
		q, _ := Marshal(s)
		return string(q)
	},
}

// NewGoEmitter parses tmplText as the Go source template. Passing ""
// uses DefaultTemplate.
func NewGoEmitter(tmplText string) (*GoEmitter, error) {
	if tmplText == "" {
		tmplText = DefaultTemplate
	}
	t, err := template.New("lexer.go").Funcs(templateFuncs).Parse(tmplText)
	if err != nil {
		return nil, err
	}
	return &GoEmitter{tmpl: t}, nil
}

// Emit writes the rendered Go source for in to w.
func (e *GoEmitter) Emit(w io.Writer, in *EmitInput) error {
	return e.tmpl.Execute(w, in)
}

// DefaultTemplate is the built-in Go-source template: a rebuild
// function, NewLexer, that reconstructs the Definition/Rule databases
// each time it is called, plus a Lex entry point delegating to
// lexlib/driver.
const DefaultTemplate = `// Code generated by lexgen. DO NOT EDIT.

package {{.Package}}

import (
	"regexp"

	"github.com/polylex/lexgen/lexlib/category"
	"github.com/polylex/lexgen/lexlib/db"
	"github.com/polylex/lexgen/lexlib/driver"
	"github.com/polylex/lexgen/lexlib/match"
)

{{.Preamble}}

{{define "appendDef"}}{{if eq .Kind 0}}	if err := addCategory(defs, {{quote .Name}}, {{.CatMaskHex}}, {{.CatMin}}, {{.CatMax}}); err != nil {
		return nil, nil, err
	}
{{else if eq .Kind 1}}	if err := addLiteral(defs, {{quote .Name}}, {{quote .LiteralText}}); err != nil {
		return nil, nil, err
	}
{{else if eq .Kind 2}}	if err := addRegex(defs, {{quote .Name}}, {{quote .RegexSource}}); err != nil {
		return nil, nil, err
	}
{{else}}	if err := addMulti(defs, {{quote .Name}}, {{if eq .MultiKind 0}}db.Sequence{{else}}db.Or{{end}}, []refSpec{
{{range .Refs}}		{Target: {{quote .TargetName}}, Min: {{.Min}}, Max: {{.Max}}},
{{end}}	}); err != nil {
		return nil, nil, err
	}
{{end}}{{end}}

// NewLexer rebuilds the compiled Definition and Rule databases.
func NewLexer() (*db.Database, *db.RuleDatabase, error) {
	defs := db.NewDatabase(0)
{{range .Definitions}}{{template "appendDef" .}}{{end}}
	resolver := &match.Resolver{Main: defs}
	if err := resolver.ResolveAll(defs.All()); err != nil {
		return nil, nil, err
	}

	rules := db.NewRuleDatabase(0)
{{range .Rules}}{{template "appendDef" .Def}}	if err := rules.Append(&db.Rule{Name: {{quote .Name}}, Definition: mustFind(defs, {{quote .Def.Name}}), UserCode: {{quote .UserCode}}}); err != nil {
		return nil, nil, err
	}
{{end}}
	if err := resolver.ResolveAll(defs.All()); err != nil {
		return nil, nil, err
	}
	return defs, rules, nil
}

type refSpec struct {
	Target   string
	Min, Max int
}

func addCategory(defs *db.Database, name string, mask category.Mask, min, max int) error {
	return defs.Append(&db.Definition{Name: name, Kind: db.KindCategory, CatMask: mask, CatMin: min, CatMax: max})
}

func addLiteral(defs *db.Database, name, text string) error {
	units, err := match.PrecomputeLiteral([]byte(text))
	if err != nil {
		return err
	}
	return defs.Append(&db.Definition{Name: name, Kind: db.KindLiteral, LiteralBytes: []byte(text), LiteralUnits: units})
}

func addRegex(defs *db.Database, name, src string) error {
	re, err := regexp.Compile(src)
	if err != nil {
		return db.NewError(db.ErrBadRegex, err.Error())
	}
	re.Longest()
	return defs.Append(&db.Definition{Name: name, Kind: db.KindRegex, RegexSource: src, RegexCompiled: re})
}

func addMulti(defs *db.Database, name string, kind db.MultiKind, specs []refSpec) error {
	def := &db.Definition{Name: name, Kind: db.KindMulti, MultiKind: kind}
	for _, s := range specs {
		db.AppendReference(def, &db.Reference{TargetName: s.Target, Min: s.Min, Max: s.Max})
	}
	return defs.Append(def)
}

func mustFind(defs *db.Database, name string) *db.Definition {
	return defs.FindByName(name)
}

// Lex reads one token from st against the generated rule table.
func Lex(rules *db.RuleDatabase, st *db.State) (*db.Token, match.Outcome, error) {
	return driver.Lex(rules, st)
}

{{.UserCode}}
`
