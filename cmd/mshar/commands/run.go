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

package commands

import (
	"context"
	"io"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/term"

	"github.com/walteh/mshar/pkg/archive"
	"github.com/walteh/mshar/pkg/log"
)

// Target says where a finished archive goes
type Target struct {
	Path   string    // File to write, mode 0755; empty means Stdout
	Stdout io.Writer // Used when Path is empty
}

// Run builds req with inputs opened from files and writes the archive to
// target. Nothing is written when the build fails. Console feedback goes to
// the logger from log.FromContext.
func Run(ctx context.Context, files billy.Basic, req archive.Request, jobs int, target Target) error {
	logger := log.FromContext(ctx)

	mode := "lenient"
	if !req.IgnoreFileErrors {
		mode = "strict"
	}
	logger.Header("building archive")
	logger.Infof("%d files, %s mode", len(req.Paths), mode)

	builder := archive.New(
		archive.WithFileSystem(files),
		archive.WithConcurrency(jobs),
		archive.WithReporter(logger),
	)

	text, err := builder.Build(ctx, req)
	if err != nil {
		return errors.Errorf("building archive: %w", err)
	}

	if err := logger.Summary(ctx); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("rendering summary")
	}
	skipped := 0
	for _, op := range logger.Operations() {
		if op.Status == log.StatusSkipped {
			skipped++
		}
	}
	if skipped > 0 {
		logger.Warningf("%d of %d files could not be read and were left out", skipped, len(req.Paths))
	}

	if target.Path != "" {
		if err := util.WriteFile(osfs.Default, target.Path, []byte(text), 0o755); err != nil {
			return errors.Errorf("writing archive to %s: %w", target.Path, err)
		}
		logger.Successf("wrote %s", target.Path)
		return nil
	}

	if f, ok := target.Stdout.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		logger.Warning("writing archive to a terminal, redirect stdout or use --output")
	}
	if _, err := io.WriteString(target.Stdout, text); err != nil {
		return errors.Errorf("writing archive: %w", err)
	}
	return nil
}
