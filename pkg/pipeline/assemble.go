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

package pipeline

// Assemble builds the output row sequence: the header first, then every
// retained row in encounter order. A nil header, as read from an empty input,
// yields the retained rows alone.
func Assemble(header []string, retained [][]string) [][]string {
	if header == nil {
		return retained
	}
	rows := make([][]string, 0, len(retained)+1)
	rows = append(rows, header)
	return append(rows, retained...)
}
