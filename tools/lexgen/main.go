/*
 * Copyright 2019 The Kythe Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Command lexgen is the "generate" CLI front end of SPEC_FULL.md §6: it
// reads a spec file (or, given a directory, every ".lexspec" file
// beneath it), compiles the Definition/Rule database, and writes the
// generated Go source implementing it.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/polylex/lexgen/lexlib/db"
	"github.com/polylex/lexgen/lexlib/specparser"
)

var (
	inPath     = flag.String("in", "", "input spec file, or a directory to batch-generate from")
	templates  = flag.String("templates", "", "template directory (optional; built-in Go template used if empty or go.tmpl is absent)")
	outPath    = flag.String("out", "", "output file; required but unused when -in is a directory (outputs go beside each spec file)")
	lang       = flag.String("lang", "go", "target language tag (only \"go\" is implemented)")
	configPath = flag.String("config", "", "optional ini file of [lexgen] defaults")
	trace      = flag.Bool("trace", false, "set Config.TraceMatches (no trace output is produced)")
)

func main() {
	flag.Parse()
	if *inPath == "" || *outPath == "" {
		log.Fatal("both -in and -out are required")
	}

	cfg := DefaultConfig()
	cfg.TraceMatches = *trace
	if *configPath != "" {
		var err error
		cfg, err = loadConfig(*configPath, cfg)
		if err != nil {
			log.Fatal(err)
		}
		cfg.TraceMatches = cfg.TraceMatches || *trace
	}

	opts := []Option{WithConfig(cfg), WithLang(*lang), WithTemplates(*templates)}
	if *templates != "" {
		text, err := readTemplateFile(*templates)
		if err != nil {
			log.Fatal(err)
		}
		if text != "" {
			opts = append(opts, WithTemplateText(text))
		}
	}

	g := newGenerator(opts...)

	info, err := os.Stat(*inPath)
	if err != nil {
		os.Exit(exitCode(err))
	}
	if info.IsDir() {
		err = g.GenerateDir(*inPath)
	} else {
		err = g.GenerateFile(*inPath, *outPath)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// readTemplateFile reads "go.tmpl" from dir, returning "" (not an
// error) if the directory has no such file.
func readTemplateFile(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.tmpl"))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// exitCode maps the error taxonomy of spec.md §7 to a process exit
// status, mirroring how tools/cmaketobzl.go's main mapped any parse
// error straight to log.Fatal's exit(1) — refined here into a small
// taxonomy so a caller script can distinguish a bad spec file from an
// internal/database failure.
func exitCode(err error) int {
	switch err.(type) {
	case *specparser.ParseError:
		return 2
	case *db.Error:
		return 3
	default:
		return 1
	}
}
