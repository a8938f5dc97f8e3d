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

// Package report writes the per-run log artifacts and the console summary.
package report

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/csvpatch/pkg/csvio"
	"github.com/walteh/csvpatch/pkg/stats"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🎨 Artifact naming
const (
	bannerWidth = 60

	successPrefix = "successful_changes_"
	errorPrefix   = "errors_malformed_json_"
	missingPrefix = "missing_target_field_"
	logExt        = ".log"

	stampLayout = "2006-01-02 15:04:05"
)

// 🎯 Writer emits one detail log per outcome category of a finished run
type Writer struct {
	dir string
}

// 🏭 NewWriter creates a writer that places artifacts in dir
func NewWriter(dir string) *Writer {
	if dir == "" {
		dir = "."
	}
	return &Writer{dir: dir}
}

// 📝 WriteAll writes the detail logs for every non-empty category and returns
// the paths written, sorted. Categories with no entries produce no file.
func (w *Writer) WriteAll(ctx context.Context, st stats.RunStats, now time.Time) ([]string, error) {
	logger := zerolog.Ctx(ctx)
	ts := now.Format(csvio.TimestampLayout)
	stamp := now.Format(stampLayout)

	var (
		mu      sync.Mutex
		written []string
	)
	record := func(path string) {
		mu.Lock()
		defer mu.Unlock()
		written = append(written, path)
	}

	g, gctx := errgroup.WithContext(ctx)

	if len(st.Changes) > 0 {
		g.Go(func() error {
			lines := make([]string, 0, len(st.Changes))
			for _, ch := range st.Changes {
				lines = append(lines, fmt.Sprintf("Row %d: '%s' -> '%s'", ch.Row, ch.Original, ch.New))
			}
			path := filepath.Join(w.dir, successPrefix+ts+logExt)
			if err := writeDetailLog(gctx, path, "SUCCESSFUL FIELD MODIFICATIONS", "Total modifications", stamp, lines); err != nil {
				return errors.Errorf("writing changes log: %w", err)
			}
			record(path)
			logger.Info().Str("path", path).Int("entries", len(lines)).Msg("successful changes log written")
			return nil
		})
	}

	if len(st.Malformed) > 0 {
		g.Go(func() error {
			lines := make([]string, 0, len(st.Malformed))
			for _, m := range st.Malformed {
				lines = append(lines, fmt.Sprintf("Row %d: %s", m.Row, m.Err))
			}
			path := filepath.Join(w.dir, errorPrefix+ts+logExt)
			if err := writeDetailLog(gctx, path, "ERRORS AND MALFORMED JSON", "Total errors", stamp, lines); err != nil {
				return errors.Errorf("writing malformed log: %w", err)
			}
			record(path)
			logger.Info().Str("path", path).Int("entries", len(lines)).Msg("malformed JSON log written")
			return nil
		})
	}

	if len(st.MissingField) > 0 {
		g.Go(func() error {
			lines := make([]string, 0, len(st.MissingField))
			for _, m := range st.MissingField {
				lines = append(lines, fmt.Sprintf("Row %d: %s", m.Row, m.Reason))
			}
			path := filepath.Join(w.dir, missingPrefix+ts+logExt)
			if err := writeDetailLog(gctx, path, "ROWS MISSING TARGET FIELD", "Total rows missing target field", stamp, lines); err != nil {
				return errors.Errorf("writing missing field log: %w", err)
			}
			record(path)
			logger.Info().Str("path", path).Int("entries", len(lines)).Msg("missing target field log written")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Strings(written)
	return written, nil
}

// 📝 writeDetailLog renders one category log in the banner format
func writeDetailLog(ctx context.Context, path, title, counter, stamp string, lines []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	bar := strings.Repeat("=", bannerWidth)

	var buf bytes.Buffer
	buf.WriteString(bar + "\n")
	buf.WriteString(title + "\n")
	buf.WriteString(bar + "\n")
	fmt.Fprintf(&buf, "Timestamp: %s\n", stamp)
	fmt.Fprintf(&buf, "%s: %d\n", counter, len(lines))
	buf.WriteString(bar + "\n\n")

	for _, line := range lines {
		buf.WriteString(line + "\n")
	}

	buf.WriteString("\n" + bar + "\n")
	fmt.Fprintf(&buf, "End of log - Total entries: %d\n", len(lines))
	buf.WriteString(bar + "\n")

	return os.WriteFile(path, buf.Bytes(), 0644)
}

// 🧹 Clean removes detail logs left behind by previous runs and returns the
// removed paths, sorted.
func Clean(ctx context.Context, dir string) ([]string, error) {
	logger := zerolog.Ctx(ctx)
	if dir == "" {
		dir = "."
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Errorf("reading directory: %w", err)
	}

	patterns := []string{
		successPrefix + "*" + logExt,
		errorPrefix + "*" + logExt,
		missingPrefix + "*" + logExt,
	}

	var removed []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		for _, pattern := range patterns {
			ok, err := doublestar.Match(pattern, entry.Name())
			if err != nil {
				return nil, errors.Errorf("matching %s: %w", pattern, err)
			}
			if !ok {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if err := os.Remove(path); err != nil {
				return nil, errors.Errorf("removing %s: %w", entry.Name(), err)
			}
			logger.Debug().Str("path", path).Msg("removed detail log")
			removed = append(removed, path)
			break
		}
	}

	sort.Strings(removed)
	return removed, nil
}
