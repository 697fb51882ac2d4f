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

// Package input turns manifests and command line arguments into archive
// requests: it loads script contents and expands file patterns.
package input

import (
	"context"
	"io/fs"
	"path"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/mshar/pkg/archive"
	"github.com/walteh/mshar/pkg/config"
)

// 🧭 Resolver reads scripts from files and expands patterns against tree.
// Both should be rooted at the same directory.
type Resolver struct {
	files billy.Basic
	tree  fs.FS
}

// 🏭 NewResolver creates a new Resolver
func NewResolver(files billy.Basic, tree fs.FS) *Resolver {
	return &Resolver{
		files: files,
		tree:  tree,
	}
}

// 📜 Script returns the contents of the named script file. An empty name
// or "-" means no script and yields "".
func (r *Resolver) Script(ctx context.Context, name string) (string, error) {
	if name == "" || name == config.NoScript {
		return "", nil
	}

	zerolog.Ctx(ctx).Debug().Str("script", name).Msg("loading script")

	data, err := util.ReadFile(r.files, name)
	if err != nil {
		return "", errors.Errorf("reading script %s: %w", name, err)
	}
	return string(data), nil
}

// 📋 Paths returns files followed by the matches of each include pattern,
// minus anything matching an exclude pattern. Explicit files keep their
// order and duplicates; each pattern's matches are sorted and only added
// if not already listed.
func (r *Resolver) Paths(ctx context.Context, files, include, exclude []string) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	excluded := func(p string) (bool, error) {
		name := path.Clean(filepath.ToSlash(p))
		for _, pattern := range exclude {
			ok, err := doublestar.Match(pattern, name)
			if err != nil {
				return false, errors.Errorf("matching exclude pattern %q: %w", pattern, err)
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	}

	out := make([]string, 0, len(files))
	seen := make(map[string]bool, len(files))

	for _, f := range files {
		skip, err := excluded(f)
		if err != nil {
			return nil, err
		}
		if skip {
			logger.Debug().Str("path", f).Msg("excluded")
			continue
		}
		out = append(out, f)
		seen[path.Clean(filepath.ToSlash(f))] = true
	}

	for _, pattern := range include {
		if r.tree == nil {
			return nil, errors.Errorf("include pattern %q given without a directory to search", pattern)
		}
		matches, err := doublestar.Glob(r.tree, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("expanding pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			logger.Warn().Str("pattern", pattern).Msg("pattern matched no files")
		}
		sort.Strings(matches)

		for _, m := range matches {
			if seen[m] {
				continue
			}
			skip, err := excluded(m)
			if err != nil {
				return nil, err
			}
			if skip {
				logger.Debug().Str("path", m).Msg("excluded")
				continue
			}
			seen[m] = true
			out = append(out, m)
		}
	}

	return out, nil
}

// 📦 Request resolves cfg into a request for the archive builder
func (r *Resolver) Request(ctx context.Context, cfg *config.Config) (archive.Request, error) {
	pre, err := r.Script(ctx, cfg.PreScript)
	if err != nil {
		return archive.Request{}, errors.Errorf("resolving prescript: %w", err)
	}
	post, err := r.Script(ctx, cfg.PostScript)
	if err != nil {
		return archive.Request{}, errors.Errorf("resolving postscript: %w", err)
	}

	paths, err := r.Paths(ctx, cfg.Files, cfg.Include, cfg.Exclude)
	if err != nil {
		return archive.Request{}, errors.Errorf("resolving paths: %w", err)
	}

	return archive.Request{
		PreScript:        pre,
		PostScript:       post,
		Paths:            paths,
		IgnoreFileErrors: !cfg.Strict,
	}, nil
}
