package main

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/polylex/lexgen/lexlib/db"
	"github.com/polylex/lexgen/lexlib/specparser"
	"github.com/polylex/lexgen/path"
	"github.com/polylex/lexgen/writer"
)

var nonIdentRun = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// GenerateFile parses the spec file at inPath and writes the generated
// Go source for it to outPath.
func (g *generator) GenerateFile(inPath, outPath string) error {
	if g.lang != "go" {
		return db.NewError(db.ErrNotFound, "unsupported target language "+g.lang)
	}

	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	res, err := specparser.Parse(in, inPath, g.cfg.MaxRuleLen, g.cfg.MaxRuleLen)
	if err != nil {
		return err
	}

	preamble := res.Preamble
	if res.RulesPrelude != "" {
		if preamble != "" {
			preamble += "\n"
		}
		preamble += res.RulesPrelude
	}

	input, err := writer.BuildInput(packageNameFor(outPath), res.Definitions, res.Rules, preamble, res.UserCode)
	if err != nil {
		return err
	}

	emitter, err := writer.NewGoEmitter(g.templateText)
	if err != nil {
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	return emitter.Emit(out, input)
}

// GenerateDir walks root (via the path package's depth-first Walker,
// the same traversal tools/cmaketobzl used for CMake subdirectories)
// and generates Go source for every ".lexspec" file it finds, alongside
// its source with a ".go" extension.
func (g *generator) GenerateDir(root string) error {
	return path.Walk(root, func(dir string) ([]string, func() error, error) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, nil, err
		}
		var subdirs []string
		for _, entry := range entries {
			if entry.IsDir() {
				subdirs = append(subdirs, entry.Name())
				continue
			}
			if filepath.Ext(entry.Name()) != ".lexspec" {
				continue
			}
			full := filepath.Join(dir, entry.Name())
			outPath := strings.TrimSuffix(full, ".lexspec") + ".go"
			if err := g.GenerateFile(full, outPath); err != nil {
				return nil, nil, err
			}
		}
		return subdirs, nil, nil
	})
}

// packageNameFor derives a Go package name from the directory an
// output file lives in, sanitizing it into a valid identifier.
func packageNameFor(outPath string) string {
	base := filepath.Base(filepath.Dir(outPath))
	base = nonIdentRun.ReplaceAllString(base, "_")
	base = strings.Trim(base, "_")
	if base == "" || base[0] >= '0' && base[0] <= '9' {
		return "main"
	}
	return base
}
