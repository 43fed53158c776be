package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testSpec = `IDENT LETTER+
NUMBER [0-9]+
GREETING "hi"
%%
IDENT
NUMBER { }
%%
// generated user code placeholder
`

func TestGenerateFileProducesGoSource(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "greeting.lexspec")
	if err := os.WriteFile(inPath, []byte(testSpec), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	outPath := filepath.Join(dir, "greeting", "greeting.go")
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	g := newGenerator(WithConfig(DefaultConfig()))
	if err := g.GenerateFile(inPath, outPath); err != nil {
		t.Fatalf("GenerateFile: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	out := string(data)
	for _, want := range []string{
		"package greeting",
		`addMulti(defs, "IDENT"`,
		`addRegex(defs, "NUMBER"`,
		`addLiteral(defs, "GREETING", "hi")`,
		`addMulti(defs, "_rule0"`,
		`addMulti(defs, "_rule1"`,
		"generated user code placeholder",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("generated source missing %q\n---\n%s", want, out)
		}
	}
}

func TestGenerateFileRejectsUnsupportedLanguage(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "greeting.lexspec")
	if err := os.WriteFile(inPath, []byte(testSpec), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	g := newGenerator(WithLang("rust"))
	if err := g.GenerateFile(inPath, filepath.Join(dir, "out.rs")); err == nil {
		t.Errorf("expected an error for an unsupported target language")
	}
}

func TestGenerateDirWalksNestedSpecFiles(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "sub")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "top.lexspec"), []byte(testSpec), 0o644); err != nil {
		t.Fatalf("WriteFile top: %v", err)
	}
	if err := os.WriteFile(filepath.Join(nested, "nested.lexspec"), []byte(testSpec), 0o644); err != nil {
		t.Fatalf("WriteFile nested: %v", err)
	}

	g := newGenerator()
	if err := g.GenerateDir(root); err != nil {
		t.Fatalf("GenerateDir: %v", err)
	}

	for _, want := range []string{
		filepath.Join(root, "top.go"),
		filepath.Join(nested, "nested.go"),
	} {
		if _, err := os.Stat(want); err != nil {
			t.Errorf("expected generated file %s: %v", want, err)
		}
	}
}

func TestPackageNameForSanitizesDirectoryName(t *testing.T) {
	tests := map[string]string{
		filepath.Join("out", "my-lexer", "a.go"): "my_lexer",
		filepath.Join("a.go"):                    "main",
		filepath.Join("123start", "a.go"):        "main",
	}
	for in, want := range tests {
		if got := packageNameFor(in); got != want {
			t.Errorf("packageNameFor(%q) = %q, want %q", in, got, want)
		}
	}
}
