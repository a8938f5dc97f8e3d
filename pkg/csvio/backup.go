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

package csvio

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// TimestampLayout is the timestamp embedded in backup and report file names.
const TimestampLayout = "20060102_150405"

// 🛟 CreateBackup copies the input aside before processing. The backup lands
// next to the input as {name}{suffix}_{timestamp}{ext}, so repeated runs never
// overwrite an earlier backup.
func CreateBackup(ctx context.Context, inputPath, suffix string, now time.Time) (string, error) {
	ext := filepath.Ext(inputPath)
	stem := strings.TrimSuffix(inputPath, ext)
	backupPath := fmt.Sprintf("%s%s_%s%s", stem, suffix, now.Format(TimestampLayout), ext)

	if err := copyFile(inputPath, backupPath); err != nil {
		return "", errors.Errorf("copying input to backup: %w", err)
	}

	zerolog.Ctx(ctx).Info().Str("backup", backupPath).Msg("backup created")
	return backupPath, nil
}

// 🔍 ListBackups returns backups of input made with the given suffix, sorted
// by name so older timestamps come first.
func ListBackups(inputPath, suffix string) ([]string, error) {
	dir := filepath.Dir(inputPath)
	ext := filepath.Ext(inputPath)
	stem := strings.TrimSuffix(filepath.Base(inputPath), ext)
	pattern := stem + suffix + "_*" + ext

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Errorf("reading directory: %w", err)
	}

	var matches []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ok, err := doublestar.Match(pattern, entry.Name())
		if err != nil {
			return nil, errors.Errorf("matching pattern %q: %w", pattern, err)
		}
		if ok {
			matches = append(matches, filepath.Join(dir, entry.Name()))
		}
	}

	sort.Strings(matches)
	return matches, nil
}

// 🧹 CleanBackups removes backups of input, returning the removed paths.
func CleanBackups(ctx context.Context, inputPath, suffix string) ([]string, error) {
	backups, err := ListBackups(inputPath, suffix)
	if err != nil {
		return nil, err
	}

	for _, path := range backups {
		if err := os.Remove(path); err != nil {
			return nil, errors.Errorf("removing backup %s: %w", path, err)
		}
		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("backup removed")
	}
	return backups, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return errors.Errorf("creating destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Errorf("copying content: %w", err)
	}
	return out.Close()
}
