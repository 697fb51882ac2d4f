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

// Package log prints human readable progress for mshar runs and mirrors
// every line to zerolog.
package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"

	"github.com/walteh/mshar/pkg/archive"
)

// 🎨 Display configuration
const (
	fileIndent = 4  // spaces to indent file entries
	nameWidth  = 40 // Base width for filename
	sizeWidth  = 10 // Width for file size
)

// 🎯 FileStatus is what happened to one input path
type FileStatus string

const (
	StatusArchived FileStatus = "archived"
	StatusSkipped  FileStatus = "skipped"
)

// 🎯 FileOperation represents a file outcome for logging
type FileOperation struct {
	Path   string     // Path as given to the builder
	Size   int64      // Bytes read, zero when skipped
	Status FileStatus // Outcome
	Err    error      // Why the file was skipped
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	quiet      bool
	operations []FileOperation
}

var _ archive.Reporter = (*Logger)(nil)

// 🏭 New creates a new logger. Console lines go to console; zlog receives
// a structured copy of each one.
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🎚️ SetLevel changes the level of the mirrored zerolog output
func (l *Logger) SetLevel(level zerolog.Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.zlog = l.zlog.Level(level)
}

// 🔇 SetQuiet suppresses console output; zerolog still receives everything
func (l *Logger) SetQuiet(quiet bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.quiet = quiet
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// printf writes to the console unless quiet. Callers hold l.mu.
func (l *Logger) printf(format string, args ...any) {
	if l.quiet {
		return
	}
	fmt.Fprintf(l.console, format, args...)
}

// 📝 formatFileOperation formats a file operation for display
func (l *Logger) formatFileOperation(op FileOperation) string {
	symbol, symbolColor := '✓', color.FgGreen
	size := humanize.Bytes(uint64(op.Size))
	if op.Status == StatusSkipped {
		symbol, symbolColor = '✗', color.FgYellow
		size = "-"
	}

	line := fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		color.New(color.Faint).Sprint(fmt.Sprintf("%*s", sizeWidth, size)),
		color.New(symbolColor).Sprint(string(op.Status)))
	if op.Err != nil {
		line += " " + color.New(color.Faint).Sprint(op.Err.Error())
	}
	return line
}

// 📝 LogFileOperation logs a file operation
func (l *Logger) LogFileOperation(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Add to operations list
	l.operations = append(l.operations, op)

	// Format and print
	l.printf("%s\n", l.formatFileOperation(op))

	// Log to zerolog
	ev := l.zlog.Info()
	if op.Err != nil {
		ev = l.zlog.Warn().Err(op.Err)
	}
	ev.Str("file", op.Path).
		Int64("size", op.Size).
		Str("status", string(op.Status)).
		Msg("file operation")
}

// 📦 FileArchived records a path that became an extraction block
func (l *Logger) FileArchived(ctx context.Context, path string, size int64) {
	l.LogFileOperation(ctx, FileOperation{Path: path, Size: size, Status: StatusArchived})
}

// ⏭️ FileSkipped records a path left out of a lenient build
func (l *Logger) FileSkipped(ctx context.Context, path string, err error) {
	l.LogFileOperation(ctx, FileOperation{Path: path, Status: StatusSkipped, Err: err})
}

// 📊 Operations returns a copy of every file outcome logged so far
func (l *Logger) Operations() []FileOperation {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]FileOperation(nil), l.operations...)
}

// 📊 Summary prints a table of every file outcome followed by totals
func (l *Logger) Summary(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var archived, skipped int
	var total int64
	data := pterm.TableData{{"Path", "Size", "Status"}}
	for _, op := range l.operations {
		size := "-"
		if op.Status == StatusArchived {
			archived++
			total += op.Size
			size = humanize.Bytes(uint64(op.Size))
		} else {
			skipped++
		}
		data = append(data, []string{op.Path, size, string(op.Status)})
	}

	l.zlog.Info().
		Int("archived", archived).
		Int("skipped", skipped).
		Int64("bytes", total).
		Msg("archive summary")

	if len(l.operations) > 0 {
		table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return err
		}
		l.printf("\n%s\n", table)
	}
	l.printf("\n%s %d archived (%s), %d skipped\n",
		color.New(color.Bold).Sprint("total"),
		archived, humanize.Bytes(uint64(total)), skipped)
	return nil
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint(archive.ToolName)
	l.printf("\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.printf("✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.printf("⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message. Errors are printed even when quiet.
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.printf("ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
