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

package archive

import (
	"context"

	"github.com/go-git/go-billy/v5"
)

// 📣 Reporter is told about every input path once its fate is known.
// Calls arrive in input order on the goroutine that called Build, after the
// build has succeeded; an aborted build reports nothing.
type Reporter interface {
	// FileArchived is called for each path that produced a block
	FileArchived(ctx context.Context, path string, size int64)
	// FileSkipped is called for each path dropped in lenient mode
	FileSkipped(ctx context.Context, path string, err error)
}

type nopReporter struct{}

func (nopReporter) FileArchived(context.Context, string, int64) {}
func (nopReporter) FileSkipped(context.Context, string, error)  {}

// ⚙️ Option configures a Builder
type Option func(*Builder)

// WithFileSystem sets where input paths are opened from.
func WithFileSystem(fs billy.Basic) Option {
	return func(b *Builder) {
		if fs != nil {
			b.fs = fs
		}
	}
}

// WithReporter registers a Reporter for per-file outcomes.
func WithReporter(r Reporter) Option {
	return func(b *Builder) {
		if r != nil {
			b.reporter = r
		}
	}
}

// WithConcurrency sets how many blocks may be encoded at once. Files are
// still opened and read one at a time, in order. Values below 1 mean 1.
func WithConcurrency(n int) Option {
	return func(b *Builder) {
		if n < 1 {
			n = 1
		}
		b.jobs = n
	}
}
