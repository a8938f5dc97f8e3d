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
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "writing fixture should succeed")
	return path
}

func readAll(t *testing.T, r *Reader) [][]string {
	t.Helper()
	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			return rows
		}
		require.NoError(t, err, "reading row should not fail")
		rows = append(rows, row)
	}
}

func TestReader(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    [][]string
	}{
		{
			name:    "simple_rows",
			content: "id,attributes\n1,a\n2,b\n",
			want:    [][]string{{"id", "attributes"}, {"1", "a"}, {"2", "b"}},
		},
		{
			name:    "utf8_bom_skipped",
			content: "\xEF\xBB\xBFid,attributes\n1,a\n",
			want:    [][]string{{"id", "attributes"}, {"1", "a"}},
		},
		{
			name:    "crlf_line_endings",
			content: "id,attributes\r\n1,a\r\n",
			want:    [][]string{{"id", "attributes"}, {"1", "a"}},
		},
		{
			name:    "ragged_rows_pass_through",
			content: "id,attributes,extra\n1\n2,b,c,d\n",
			want:    [][]string{{"id", "attributes", "extra"}, {"1"}, {"2", "b", "c", "d"}},
		},
		{
			name:    "quoted_cells",
			content: "id,attributes\n1,\"[{\"\"name\"\": \"\"sku\"\"}]\"\n2,\"line\nbreak\"\n",
			want:    [][]string{{"id", "attributes"}, {"1", `[{"name": "sku"}]`}, {"2", "line\nbreak"}},
		},
		{
			name:    "empty_file",
			content: "",
			want:    nil,
		},
		{
			name:    "bom_only_file",
			content: "\xEF\xBB\xBF",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempFile(t, "input.csv", tt.content)

			r, err := Open(path)
			require.NoError(t, err, "opening reader should not fail")
			defer r.Close()

			assert.Equal(t, tt.want, readAll(t, r), "rows should match expected")
		})
	}
}

func TestOpen_MissingFile(t *testing.T) {
	r, err := Open(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err, "opening a missing file should fail")
	assert.Nil(t, r)
	assert.Contains(t, err.Error(), "opening input file", "error should name the failing step")
}
