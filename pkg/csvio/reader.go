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

// Package csvio handles the delimited files a run touches: reading the input,
// writing the output atomically and copying backups aside.
package csvio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"os"

	"gitlab.com/tozd/go/errors"
)

// utf8BOM is the byte order mark Windows tools prepend to UTF-8 files.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// 📖 Reader yields delimited rows from a file one at a time
type Reader struct {
	file *os.File
	csv  *csv.Reader
}

// 🏭 Open opens path for row-by-row reading. A UTF-8 byte order mark at the
// start of the file is skipped so it never leaks into the first header cell.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Errorf("opening input file: %w", err)
	}

	buf := bufio.NewReader(f)
	if head, err := buf.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		if _, err := buf.Discard(len(utf8BOM)); err != nil {
			f.Close()
			return nil, errors.Errorf("skipping byte order mark: %w", err)
		}
	}

	r := csv.NewReader(buf)
	r.FieldsPerRecord = -1 // rows may be ragged, the pipeline decides what to do with them
	return &Reader{file: f, csv: r}, nil
}

// Read returns the next row, io.EOF at clean end of input.
func (r *Reader) Read() ([]string, error) {
	return r.csv.Read()
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}
