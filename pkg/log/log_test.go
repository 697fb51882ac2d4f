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

package log

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/mshar/pkg/archive"
)

func plainOutput(t *testing.T) {
	t.Helper()
	color.NoColor = true
	pterm.DisableStyling()
	t.Cleanup(func() {
		color.NoColor = false
		pterm.EnableStyling()
	})
}

func TestLogger(t *testing.T) {
	plainOutput(t)

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Warningf("warning %s", "test")
				logger.Successf("success %s", "test")
			},
			wantLogs: []string{
				"ℹ️  info test",
				"⚠️  warning test",
				"✅ success test",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("building archive")
			},
			wantLogs: []string{
				"mshar • building archive",
			},
		},
		{
			name: "quiet_keeps_errors",
			op: func(t *testing.T, logger *Logger) {
				logger.SetQuiet(true)
				logger.Info("hidden")
				logger.FileArchived(context.Background(), "a.txt", 3)
				logger.Error("shown")
			},
			wantLogs: []string{
				"❌ shown",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create buffer for console output
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.Nop())

			// Perform operation
			tt.op(t, logger)

			// Check output
			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	// Create logger
	logger := New(io.Discard, zerolog.Nop())

	// Add to context
	ctx := context.Background()
	ctx = NewContext(ctx, logger)

	// Get from context
	got := FromContext(ctx)
	assert.Same(t, logger, got, "logger from context should be the same instance")

	// Check panic on missing logger
	assert.Panics(t, func() {
		FromContext(context.Background())
	}, "FromContext should panic when logger is missing")
}

func TestFileOperationFormatting(t *testing.T) {
	plainOutput(t)

	tests := []struct {
		name string
		op   FileOperation
		want []string
	}{
		{
			name: "archived_file",
			op:   FileOperation{Path: "docs/readme.md", Size: 1500, Status: StatusArchived},
			want: []string{"✓", "docs/readme.md", "1.5", "kB", "archived"},
		},
		{
			name: "empty_file",
			op:   FileOperation{Path: "empty.txt", Status: StatusArchived},
			want: []string{"✓", "empty.txt", "0", "B", "archived"},
		},
		{
			name: "skipped_file",
			op:   FileOperation{Path: "gone.txt", Status: StatusSkipped, Err: errors.New("missing")},
			want: []string{"✗", "gone.txt", "-", "skipped", "missing"},
		},
	}

	logger := New(io.Discard, zerolog.Nop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := logger.formatFileOperation(tt.op)
			assert.True(t, strings.HasPrefix(got, "    "), "file lines should be indented")
			assert.Equal(t, tt.want, strings.Fields(got), "formatted columns should match")
		})
	}
}

func TestLoggerAsReporter(t *testing.T) {
	plainOutput(t)

	ctx := context.Background()
	buf := &bytes.Buffer{}
	zbuf := &bytes.Buffer{}
	logger := New(buf, zerolog.New(zbuf))

	skipErr := errors.New("permission denied")
	var reporter archive.Reporter = logger
	reporter.FileArchived(ctx, "a.txt", 5)
	reporter.FileSkipped(ctx, "b.txt", skipErr)
	reporter.FileArchived(ctx, "c/d.txt", 2048)

	ops := logger.Operations()
	require.Len(t, ops, 3, "every outcome should be recorded")
	assert.Equal(t, FileOperation{Path: "a.txt", Size: 5, Status: StatusArchived}, ops[0])
	assert.Equal(t, StatusSkipped, ops[1].Status)
	assert.ErrorIs(t, ops[1].Err, skipErr)
	assert.Equal(t, "c/d.txt", ops[2].Path)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3, "one console line per file")
	assert.Contains(t, lines[1], "b.txt")
	assert.Contains(t, lines[1], "permission denied")

	assert.Contains(t, zbuf.String(), `"level":"warn"`, "skips should be warnings")
	assert.Contains(t, zbuf.String(), `"file":"c/d.txt"`)

	buf.Reset()
	require.NoError(t, logger.Summary(ctx))
	summary := buf.String()
	assert.Regexp(t, `Path\s*\|\s*Size\s*\|\s*Status`, summary, "table should have a header")
	assert.Regexp(t, `a\.txt\s*\|\s*5 B\s*\|\s*archived`, summary)
	assert.Regexp(t, `b\.txt\s*\|\s*-\s*\|\s*skipped`, summary)
	assert.Regexp(t, `c/d\.txt\s*\|\s*2\.0 kB\s*\|\s*archived`, summary)
	assert.Contains(t, summary, "total 2 archived (2.1 kB), 1 skipped")
	assert.Contains(t, zbuf.String(), `"archived":2`)
}

func TestLoggerSetLevel(t *testing.T) {
	zbuf := &bytes.Buffer{}
	logger := New(io.Discard, zerolog.New(zbuf).Level(zerolog.Disabled))

	logger.Info("before")
	assert.Empty(t, zbuf.String(), "disabled logger should write nothing")

	logger.SetLevel(zerolog.DebugLevel)
	logger.Info("after")
	assert.Contains(t, zbuf.String(), `"message":"after"`)
	assert.NotContains(t, zbuf.String(), "before")
}

func TestSummaryEmpty(t *testing.T) {
	plainOutput(t)

	buf := &bytes.Buffer{}
	logger := New(buf, zerolog.Nop())
	require.NoError(t, logger.Summary(context.Background()))
	assert.NotContains(t, buf.String(), "|", "no table without files")
	assert.Contains(t, buf.String(), "total 0 archived (0 B), 0 skipped")
}
