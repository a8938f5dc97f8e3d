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

package stats

import (
	"github.com/walteh/csvpatch/pkg/payload"
)

// 📝 Change records one successful value replacement
type Change struct {
	Row      int    // 1-based row number, header included
	Original string // value before replacement
	New      string // value after replacement
}

// 💥 MalformedRow records a payload that failed to parse
type MalformedRow struct {
	Row int
	Err string // parser message
}

// 🔍 MissingFieldRow records a row whose payload held no usable target field
type MissingFieldRow struct {
	Row    int
	Reason string
}

// 📊 RunStats is the aggregate accounting of one processing run
type RunStats struct {
	TotalRows     int // every row read, header and overflow rows included
	RowsProcessed int // rows whose target column was present
	RowsModified  int // rows whose payload value was replaced
	Unchanged     int // rows whose target field held no occurrence of the search value
	Errors        int // rows whose payload did not parse

	Changes      []Change
	Malformed    []MalformedRow
	MissingField []MissingFieldRow
}

// RowsInOutput returns the number of rows the output file holds, header included.
func (s RunStats) RowsInOutput() int {
	return s.RowsModified + 1
}

// RowsExcluded returns the number of data rows dropped from the output.
func (s RunStats) RowsExcluded() int {
	return s.TotalRows - s.RowsModified - 1
}

// 🔧 Aggregator accumulates RunStats as the pipeline classifies rows. It is
// driven by a single goroutine and does no locking of its own.
type Aggregator struct {
	stats RunStats
}

// 🏭 NewAggregator creates an empty Aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// TrackRow counts a row read from the source, whatever becomes of it.
func (a *Aggregator) TrackRow() {
	a.stats.TotalRows++
}

// TrackProcessed counts a row whose target column was present.
func (a *Aggregator) TrackProcessed() {
	a.stats.RowsProcessed++
}

// Record books the classification of one processed row.
func (a *Aggregator) Record(row int, result payload.Result) {
	switch result.Outcome {
	case payload.OutcomeModified:
		a.stats.RowsModified++
		a.stats.Changes = append(a.stats.Changes, Change{
			Row:      row,
			Original: result.Original,
			New:      result.New,
		})
	case payload.OutcomeUnchanged:
		a.stats.Unchanged++
	case payload.OutcomeFieldMissing:
		a.stats.MissingField = append(a.stats.MissingField, MissingFieldRow{
			Row:    row,
			Reason: result.Reason,
		})
	case payload.OutcomeMalformed:
		a.stats.Errors++
		a.stats.Malformed = append(a.stats.Malformed, MalformedRow{
			Row: row,
			Err: result.ParseErr,
		})
	}
}

// Snapshot returns a copy of the accumulated statistics. The copy shares no
// slices with the Aggregator, so callers may hold it across further updates.
func (a *Aggregator) Snapshot() RunStats {
	out := a.stats
	out.Changes = append([]Change(nil), a.stats.Changes...)
	out.Malformed = append([]MalformedRow(nil), a.stats.Malformed...)
	out.MissingField = append([]MissingFieldRow(nil), a.stats.MissingField...)
	return out
}
