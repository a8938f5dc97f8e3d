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
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	rowIndent   = 4  // spaces to indent row entries
	rowNumWidth = 10 // width for the row number column
	fieldWidth  = 20 // width for the field name
)

// 🎯 RowChange represents a modified row for logging
type RowChange struct {
	Row      int    // 1-based row number in the input file
	Field    string // JSON field whose value changed
	Original string // Value before replacement
	New      string // Value after replacement
}

// 📦 RunOperation represents a processing run for logging
type RunOperation struct {
	Input  string // Input file path
	Output string // Output file path
	Field  string // Target field name
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	mu        sync.Mutex
	currentOp *RunOperation
	changes   []RowChange
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
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

// 📝 formatRowChange formats a row change for display
func (l *Logger) formatRowChange(ch RowChange) string {
	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", rowIndent, ""),
		color.New(color.FgBlue).Sprint("⟳"),
		fmt.Sprintf("%-*s", rowNumWidth, fmt.Sprintf("row %d", ch.Row)),
		color.New(color.FgCyan).Sprint(fmt.Sprintf("%-*s", fieldWidth, ch.Field)),
		fmt.Sprintf("'%s' -> '%s'", ch.Original, ch.New))
}

// 📝 LogRowChange logs a modified row
func (l *Logger) LogRowChange(ctx context.Context, ch RowChange) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Add to changes list
	l.changes = append(l.changes, ch)

	// Format and print
	fmt.Fprintln(l.console, l.formatRowChange(ch))

	// Log to zerolog
	l.zlog.Info().
		Int("row", ch.Row).
		Str("field", ch.Field).
		Str("original", ch.Original).
		Str("new", ch.New).
		Msg("row modified")
}

// 📝 StartRun starts a new processing run
func (l *Logger) StartRun(ctx context.Context, op RunOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.changes = nil

	// Print run header
	fmt.Fprintf(l.console, "[processing %s]\n",
		color.New(color.FgCyan).Sprint(op.Input))

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Output),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(op.Field))

	// Log to zerolog
	l.zlog.Info().
		Str("input", op.Input).
		Str("output", op.Output).
		Str("field", op.Field).
		Msg("starting processing run")
}

// 📝 EndRun ends the current processing run
func (l *Logger) EndRun(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return
	}

	// Log summary
	l.zlog.Info().
		Str("input", l.currentOp.Input).
		Int("rows", len(l.changes)).
		Msg("processing run complete")

	l.currentOp = nil
	l.changes = nil
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	nameText := color.New(color.Bold, color.FgCyan).Sprint("csvpatch")
	fmt.Fprintf(l.console, "\n%s %s\n\n", nameText, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
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
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
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

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
