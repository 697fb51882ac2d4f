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
	"io"
	"math"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/mshar/pkg/b64"
)

// blockOverhead is roughly the size of block.sh.tmpl without its fields
const blockOverhead = 256

// 📦 Request describes one archive.
type Request struct {
	// PreScript is copied verbatim after the header. Empty means none.
	PreScript string
	// PostScript is copied verbatim before the footer. Empty means none.
	PostScript string
	// Paths lists the files to embed, in output order. A nil slice is
	// rejected; an empty one yields an archive with no blocks.
	Paths []string
	// IgnoreFileErrors skips unreadable files instead of failing.
	IgnoreFileErrors bool
}

// 🏗️ Builder assembles shell archives. A Builder holds no per-build state
// and may be reused and shared. The zero value reads from the OS filesystem
// with no reporter and no concurrency.
type Builder struct {
	fs       billy.Basic
	reporter Reporter
	jobs     int
}

// 🏭 New creates a Builder reading from the OS filesystem
func New(opts ...Option) *Builder {
	b := &Builder{
		fs:       osfs.Default,
		reporter: nopReporter{},
		jobs:     1,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) source() billy.Basic {
	if b.fs == nil {
		return osfs.Default
	}
	return b.fs
}

func (b *Builder) report() Reporter {
	if b.reporter == nil {
		return nopReporter{}
	}
	return b.reporter
}

// 🎯 Build renders the archive described by req. On failure the returned
// error is a *BuildError and no text is returned.
func (b *Builder) Build(ctx context.Context, req Request) (string, error) {
	logger := zerolog.Ctx(ctx)

	if req.Paths == nil {
		return "", newBuildError(KindInvalidArgument, "", errors.New("path list is required"))
	}
	for _, p := range req.Paths {
		if err := validatePath(p); err != nil {
			return "", newBuildError(KindInvalidArgument, "", err)
		}
	}

	logger.Debug().
		Int("files", len(req.Paths)).
		Bool("ignore_file_errors", req.IgnoreFileErrors).
		Int("jobs", b.jobs).
		Msg("building archive")

	blocks, err := b.blocks(ctx, req)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	out.Grow(size(req, blocks))

	if err := render(&out, headerTemplate, frameData{Tool: ToolName}); err != nil {
		return "", newBuildError(KindFormat, "", errors.Errorf("rendering header: %w", err))
	}
	out.WriteString(req.PreScript)
	for _, blk := range blocks {
		out.WriteString(blk)
	}
	out.WriteString(req.PostScript)
	if err := render(&out, footerTemplate, frameData{Tool: ToolName}); err != nil {
		return "", newBuildError(KindFormat, "", errors.Errorf("rendering footer: %w", err))
	}

	logger.Debug().
		Int("blocks", len(blocks)).
		Int("skipped", len(req.Paths)-len(blocks)).
		Int("bytes", out.Len()).
		Msg("archive built")

	return out.String(), nil
}

// BuildStrict fails on the first file that cannot be read.
func (b *Builder) BuildStrict(ctx context.Context, preScript, postScript string, paths []string) (string, error) {
	return b.Build(ctx, Request{PreScript: preScript, PostScript: postScript, Paths: paths})
}

// BuildLenient leaves out files that cannot be read.
func (b *Builder) BuildLenient(ctx context.Context, preScript, postScript string, paths []string) (string, error) {
	return b.Build(ctx, Request{PreScript: preScript, PostScript: postScript, Paths: paths, IgnoreFileErrors: true})
}

// blocks reads every path in order and returns the rendered blocks of the
// files that made it, also in order. Reads are sequential; encoding fans
// out to at most b.jobs goroutines.
func (b *Builder) blocks(ctx context.Context, req Request) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	slots := make([]string, len(req.Paths))
	sizes := make([]int64, len(req.Paths))
	kept := make([]bool, len(req.Paths))
	skipped := make([]error, len(req.Paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(b.jobs, 1))

	abort := func(err error) ([]string, error) {
		_ = g.Wait()
		return nil, err
	}

	for i, path := range req.Paths {
		if gctx.Err() != nil {
			break
		}

		var data []byte
		var err error
		if path == "" {
			if !req.IgnoreFileErrors {
				return abort(newBuildError(KindInvalidArgument, "", errors.Errorf("path %d is empty", i)))
			}
			err = newBuildError(KindFile, "", errors.Errorf("path %d is empty", i))
		} else {
			data, err = b.readFile(path)
		}

		if err != nil {
			if !req.IgnoreFileErrors || KindOf(err) != KindFile {
				return abort(err)
			}
			logger.Warn().Err(err).Str("path", path).Msg("skipping unreadable file")
			skipped[i] = err
			continue
		}

		kept[i] = true
		sizes[i] = int64(len(data))
		i, path, data := i, path, data
		g.Go(func() error {
			blk, err := renderBlock(path, data)
			if err != nil {
				return err
			}
			slots[i] = blk
			logger.Debug().
				Str("path", path).
				Int("size", len(data)).
				Int("block", len(blk)).
				Msg("file block rendered")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Errorf("building archive: %w", err)
	}

	out := make([]string, 0, len(slots))
	for i, path := range req.Paths {
		switch {
		case kept[i]:
			out = append(out, slots[i])
			b.report().FileArchived(ctx, path, sizes[i])
		case skipped[i] != nil:
			b.report().FileSkipped(ctx, path, skipped[i])
		}
	}
	return out, nil
}

// readFile loads path fully. The size is found by reading to the end and
// asking for the position, then the file is rewound and read again.
func (b *Builder) readFile(path string) ([]byte, error) {
	f, err := b.source().Open(path)
	if err != nil {
		return nil, newBuildError(KindFile, path, errors.Errorf("opening: %w", err))
	}
	defer f.Close()

	if _, err := io.Copy(io.Discard, f); err != nil {
		return nil, newBuildError(KindFile, path, errors.Errorf("reading: %w", err))
	}
	end, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, newBuildError(KindFile, path, errors.Errorf("measuring: %w", err))
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, newBuildError(KindFile, path, errors.Errorf("rewinding: %w", err))
	}

	if end < 0 || end > int64(math.MaxInt) {
		return nil, newBuildError(KindAllocation, path, errors.Errorf("file size %d is not addressable", end))
	}

	data := make([]byte, end)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, newBuildError(KindFile, path, errors.Errorf("reading: %w", err))
	}
	return data, nil
}

func renderBlock(path string, data []byte) (string, error) {
	payload, err := b64.Encode(data)
	if err != nil {
		return "", newBuildError(KindAllocation, path, errors.Errorf("encoding: %w", err))
	}

	var sb strings.Builder
	sb.Grow(len(payload) + len(path) + blockOverhead)
	if err := render(&sb, blockTemplate, blockData{Path: path, Payload: payload}); err != nil {
		return "", newBuildError(KindFormat, path, errors.Errorf("rendering block: %w", err))
	}
	return sb.String(), nil
}

func size(req Request, blocks []string) int {
	n := 2*blockOverhead + len(req.PreScript) + len(req.PostScript)
	for _, blk := range blocks {
		n += len(blk)
	}
	return n
}

// validatePath rejects paths that cannot sit inside single quotes in the
// generated script or would break the surrounding line structure.
func validatePath(p string) error {
	if i := strings.IndexAny(p, "'\n\x00"); i >= 0 {
		return errors.Errorf("path %q contains %q, which cannot be embedded in a single-quoted shell string", p, p[i])
	}
	return nil
}

// 🎯 BuildArchive builds an archive from the OS filesystem.
func BuildArchive(ctx context.Context, preScript, postScript string, paths []string, ignoreFileErrors bool) (string, error) {
	return New().Build(ctx, Request{
		PreScript:        preScript,
		PostScript:       postScript,
		Paths:            paths,
		IgnoreFileErrors: ignoreFileErrors,
	})
}

// BuildArchiveStrict is BuildArchive with ignoreFileErrors unset.
func BuildArchiveStrict(ctx context.Context, preScript, postScript string, paths []string) (string, error) {
	return New().BuildStrict(ctx, preScript, postScript, paths)
}

// BuildArchiveLenient is BuildArchive with ignoreFileErrors set.
func BuildArchiveLenient(ctx context.Context, preScript, postScript string, paths []string) (string, error) {
	return New().BuildLenient(ctx, preScript, postScript, paths)
}
