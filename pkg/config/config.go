// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultFile is the manifest looked up when none is given
const DefaultFile = ".mshar.yaml"

// NoScript is the script value meaning "no script"
const NoScript = "-"

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Config describes one archive. All paths are relative to the directory
// holding the manifest.
type Config struct {
	PreScript  string   `json:"prescript,omitempty" yaml:"prescript,omitempty" toml:"prescript,omitempty" hcl:"prescript,optional"`    // Script file run before extraction
	PostScript string   `json:"postscript,omitempty" yaml:"postscript,omitempty" toml:"postscript,omitempty" hcl:"postscript,optional"` // Script file run after extraction
	Files      []string `json:"files,omitempty" yaml:"files,omitempty" toml:"files,omitempty" hcl:"files,optional"`                     // Explicit paths, archived first and in order
	Include    []string `json:"include,omitempty" yaml:"include,omitempty" toml:"include,omitempty" hcl:"include,optional"`             // Glob patterns expanded after Files
	Exclude    []string `json:"exclude,omitempty" yaml:"exclude,omitempty" toml:"exclude,omitempty" hcl:"exclude,optional"`             // Glob patterns removed from the result
	Strict     bool     `json:"strict,omitempty" yaml:"strict,omitempty" toml:"strict,omitempty" hcl:"strict,optional"`                 // Fail on unreadable files
	Output     string   `json:"output,omitempty" yaml:"output,omitempty" toml:"output,omitempty" hcl:"output,optional"`                 // Archive destination, stdout when empty
	Jobs       int      `json:"jobs,omitempty" yaml:"jobs,omitempty" toml:"jobs,omitempty" hcl:"jobs,optional"`                         // Parallel encoders

	location string
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.location = path

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 📂 Dir returns the directory paths in the config are relative to
func (cfg *Config) Dir() string {
	if cfg.location == "" {
		return "."
	}
	return filepath.Dir(cfg.location)
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	// Normalize "no script"
	if strings.TrimSpace(cfg.PreScript) == NoScript {
		cfg.PreScript = ""
	}
	if strings.TrimSpace(cfg.PostScript) == NoScript {
		cfg.PostScript = ""
	}

	// Check required fields
	if len(cfg.Files) == 0 && len(cfg.Include) == 0 {
		return errors.Errorf("one of files or include is required")
	}
	if cfg.Jobs < 0 {
		return errors.Errorf("jobs must not be negative, got %d", cfg.Jobs)
	}

	// Check paths
	for _, p := range []string{cfg.PreScript, cfg.PostScript} {
		if p != "" && filepath.IsAbs(p) {
			return errors.Errorf("script %q must be relative to the manifest", p)
		}
	}
	for i, f := range cfg.Files {
		if f == "" {
			return errors.Errorf("files[%d] is empty", i)
		}
		if filepath.IsAbs(f) {
			return errors.Errorf("files[%d] %q must be relative to the manifest", i, f)
		}
	}
	for _, group := range []struct {
		name     string
		patterns []string
	}{{"include", cfg.Include}, {"exclude", cfg.Exclude}} {
		for i, p := range group.patterns {
			if strings.HasPrefix(p, "/") {
				return errors.Errorf("%s[%d] %q must be relative to the manifest", group.name, i, p)
			}
			if !doublestar.ValidatePattern(p) {
				return errors.Errorf("%s[%d] %q is not a valid pattern", group.name, i, p)
			}
		}
	}

	// Set defaults
	if cfg.Jobs == 0 {
		cfg.Jobs = 1
	}

	return nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	mode := "lenient"
	if cfg.Strict {
		mode = "strict"
	}
	out := cfg.Output
	if out == "" {
		out = "stdout"
	}
	return fmt.Sprintf("%d files + %d patterns (%s) -> %s", len(cfg.Files), len(cfg.Include), mode, out)
}
