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

// Config and loadConfig give tools/lexgen an optional checked-in ini
// file of generator defaults, the same way llvmbuildtobzl read
// LLVMBuild.txt's key/value sections with github.com/creachadair/ini —
// here repurposed to a single "[lexgen]" section of generator settings
// instead of LLVMBuild component metadata.
package main

import (
	"os"
	"strconv"

	"github.com/creachadair/ini"
)

// Config collects the ambient settings SPEC_FULL.md's Config addition
// lists: trace flag, diagnostic source name, and table-size/depth
// bounds. Generation reads only MaxRuleLen, as the table cap passed to
// the spec parser; the other fields are loaded but not used.
type Config struct {
	TraceMatches  bool
	SourceName    string
	MaxRuleLen    int
	MaxSubTokens  int
	MaxStackDepth int
}

// DefaultConfig returns the settings used when no ini file overrides
// them.
func DefaultConfig() Config {
	return Config{
		MaxRuleLen:    0, // unbounded, per db.NewDatabase's maxLen<=0 convention
		MaxSubTokens:  4096,
		MaxStackDepth: 256,
	}
}

// loadConfig reads the "[lexgen]" section of an ini file at path,
// overriding only the keys present. A missing file is reported to the
// caller; an absent "[lexgen]" section simply leaves cfg untouched.
func loadConfig(path string, cfg Config) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	err = ini.Parse(f, ini.Handler{
		KeyValue: func(loc ini.Location, key string, values []string) error {
			if loc.Section != "lexgen" || len(values) == 0 {
				return nil
			}
			v := values[len(values)-1]
			switch key {
			case "trace":
				b, err := strconv.ParseBool(v)
				if err != nil {
					return err
				}
				cfg.TraceMatches = b
			case "source_name":
				cfg.SourceName = v
			case "max_rule_len":
				n, err := strconv.Atoi(v)
				if err != nil {
					return err
				}
				cfg.MaxRuleLen = n
			case "max_sub_tokens":
				n, err := strconv.Atoi(v)
				if err != nil {
					return err
				}
				cfg.MaxSubTokens = n
			case "max_stack_depth":
				n, err := strconv.Atoi(v)
				if err != nil {
					return err
				}
				cfg.MaxStackDepth = n
			}
			return nil
		},
	})
	return cfg, err
}
