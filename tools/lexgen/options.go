package main

// Option configures a generator, following the functional-options shape
// of tools/cmaketobzl.go's eval/Option pair: a private options struct
// mutated by a chain of small constructors instead of a long
// constructor argument list.
type Option func(*generator)

type generator struct {
	cfg          Config
	templates    string
	templateText string
	lang         string
}

// WithConfig sets the generator's ambient Config (trace flag, table-size
// bounds).
func WithConfig(cfg Config) Option {
	return func(g *generator) { g.cfg = cfg }
}

// WithTemplates sets the templates directory. The built-in Go emitter
// falls back to its DefaultTemplate when no "go.tmpl" exists there;
// callers interface-compatible with a future per-language template set
// still need the directory threaded through.
func WithTemplates(dir string) Option {
	return func(g *generator) { g.templates = dir }
}

// WithTemplateText overrides the Go source template verbatim, as read
// from "go.tmpl" inside the templates directory.
func WithTemplateText(text string) Option {
	return func(g *generator) { g.templateText = text }
}

// WithLang selects the target-language tag. Only "go" is implemented.
func WithLang(lang string) Option {
	return func(g *generator) { g.lang = lang }
}

// newGenerator builds a generator from the given options, defaulting to
// an unconfigured Config and the "go" target language.
func newGenerator(opts ...Option) *generator {
	g := &generator{cfg: DefaultConfig(), lang: "go"}
	for _, o := range opts {
		o(g)
	}
	return g
}
