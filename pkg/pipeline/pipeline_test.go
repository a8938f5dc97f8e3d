package pipeline

import (
	"context"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/csvpatch/pkg/config"
	"github.com/walteh/csvpatch/pkg/payload"
	"github.com/walteh/csvpatch/pkg/stats"
	"gitlab.com/tozd/go/errors"
)

// sliceSource is a RowSource backed by an in-memory row slice
type sliceSource struct {
	rows [][]string
	next int
}

func (s *sliceSource) Read() ([]string, error) {
	if s.next >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.next]
	s.next++
	return row, nil
}

// failingSource yields its rows, then a read error instead of io.EOF
type failingSource struct {
	sliceSource
	err error
}

func (s *failingSource) Read() ([]string, error) {
	row, err := s.sliceSource.Read()
	if err == io.EOF {
		return nil, s.err
	}
	return row, err
}

func testRule() config.Rule {
	return config.Rule{
		TargetFieldName:   "sku",
		SearchValue:       "OLD",
		ReplaceValue:      "NEW",
		TargetColumnIndex: 1,
		MaxRowsToProcess:  50000,
	}
}

func newTestPipeline(t *testing.T, rule config.Rule) *Pipeline {
	t.Helper()
	p, err := New(Options{
		Rule:        rule,
		Transformer: payload.NewTransformer(rule.TargetFieldName, rule.SearchValue, rule.ReplaceValue),
		Aggregator:  stats.NewAggregator(),
	})
	require.NoError(t, err, "creating pipeline should not fail")
	return p
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func TestPipeline_Run(t *testing.T) {
	src := &sliceSource{rows: [][]string{
		{"id", "attributes"},
		{"1", `[{"name": "sku", "value": "OLD-1"}]`},
		{"2", `[{"name": "sku", "value": "KEEP"}]`},
		{"3", `[{"name": "color", "value": "red"}]`},
		{"4", `not json`},
		{"5"},
	}}

	p := newTestPipeline(t, testRule())
	result, err := p.Run(testContext(t), src)
	require.NoError(t, err, "running pipeline should not fail")

	// Only the header and the modified row survive
	require.Len(t, result.Rows, 2, "output should hold header plus modified rows")
	assert.Equal(t, []string{"id", "attributes"}, result.Rows[0], "header should come first")
	assert.Equal(t, []string{"1", `[{"name":"sku","value":"NEW-1"}]`}, result.Rows[1],
		"modified row should carry the re-encoded payload")

	s := result.Stats
	assert.Equal(t, 6, s.TotalRows, "every row should be counted")
	assert.Equal(t, 4, s.RowsProcessed, "short rows should not count as processed")
	assert.Equal(t, 1, s.RowsModified)
	assert.Equal(t, 1, s.Unchanged)
	assert.Equal(t, 1, s.Errors)
	require.Len(t, s.Changes, 1)
	assert.Equal(t, stats.Change{Row: 2, Original: "OLD-1", New: "NEW-1"}, s.Changes[0])
	require.Len(t, s.MissingField, 1)
	assert.Equal(t, 4, s.MissingField[0].Row, "missing field row number should match")
	require.Len(t, s.Malformed, 1)
	assert.Equal(t, 5, s.Malformed[0].Row, "malformed row number should match")
}

func TestPipeline_Run_NoModifications(t *testing.T) {
	src := &sliceSource{rows: [][]string{
		{"id", "attributes"},
		{"1", `[{"name": "sku", "value": "KEEP"}]`},
	}}

	p := newTestPipeline(t, testRule())
	result, err := p.Run(testContext(t), src)
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"id", "attributes"}}, result.Rows, "header alone should remain")
	assert.Equal(t, 2, result.Stats.TotalRows)
	assert.Equal(t, 1, result.Stats.Unchanged)
}

func TestPipeline_Run_RowLimit(t *testing.T) {
	src := &sliceSource{rows: [][]string{
		{"id", "attributes"},
		{"1", `[{"name": "sku", "value": "OLD-1"}]`},
		{"2", `[{"name": "sku", "value": "OLD-2"}]`},
		{"3", `[{"name": "sku", "value": "OLD-3"}]`},
		{"4", `[{"name": "sku", "value": "OLD-4"}]`},
		{"5", `[{"name": "sku", "value": "OLD-5"}]`},
	}}

	rule := testRule()
	rule.MaxRowsToProcess = 3
	p := newTestPipeline(t, rule)

	result, err := p.Run(testContext(t), src)
	require.NoError(t, err)

	s := result.Stats
	assert.Equal(t, 4, s.TotalRows, "the row past the limit is counted before stopping")
	assert.Equal(t, 2, s.RowsProcessed, "rows within the limit are processed")
	assert.Equal(t, 2, s.RowsModified)
	require.Len(t, result.Rows, 3, "header plus the two modified rows")
	assert.Equal(t, []string{"1", `[{"name":"sku","value":"NEW-1"}]`}, result.Rows[1])
	assert.Equal(t, []string{"2", `[{"name":"sku","value":"NEW-2"}]`}, result.Rows[2])
}

func TestPipeline_Run_ColumnBoundary(t *testing.T) {
	// Column index 1 needs at least two cells
	src := &sliceSource{rows: [][]string{
		{"id", "attributes"},
		{"1", `[{"name": "sku", "value": "OLD-1"}]`, "extra"},
		{"2", `[{"name": "sku", "value": "OLD-2"}]`},
		{"3"},
		{},
	}}

	p := newTestPipeline(t, testRule())
	result, err := p.Run(testContext(t), src)
	require.NoError(t, err)

	s := result.Stats
	assert.Equal(t, 5, s.TotalRows)
	assert.Equal(t, 2, s.RowsProcessed, "only rows holding the column are processed")
	assert.Equal(t, 2, s.RowsModified)
}

func TestPipeline_Run_KeepsEncounterOrder(t *testing.T) {
	src := &sliceSource{rows: [][]string{
		{"id", "attributes"},
		{"1", `[{"name": "sku", "value": "OLD-a"}]`},
		{"2", `[{"name": "color", "value": "red"}]`},
		{"3", `[{"name": "sku", "value": "OLD-b"}]`},
		{"4", `[{"name": "sku", "value": "OLD-c"}]`},
	}}

	p := newTestPipeline(t, testRule())
	result, err := p.Run(testContext(t), src)
	require.NoError(t, err)

	require.Len(t, result.Rows, 4)
	assert.Equal(t, "1", result.Rows[1][0])
	assert.Equal(t, "3", result.Rows[2][0])
	assert.Equal(t, "4", result.Rows[3][0])

	rows := make([]int, 0, len(result.Stats.Changes))
	for _, c := range result.Stats.Changes {
		rows = append(rows, c.Row)
	}
	assert.Equal(t, []int{2, 4, 5}, rows, "change log should follow encounter order")
}

func TestPipeline_Run_ReadError(t *testing.T) {
	src := &failingSource{
		sliceSource: sliceSource{rows: [][]string{
			{"id", "attributes"},
			{"1", `[{"name": "sku", "value": "OLD-1"}]`},
		}},
		err: errors.Errorf("disk fault"),
	}

	p := newTestPipeline(t, testRule())
	result, err := p.Run(testContext(t), src)

	require.Error(t, err, "a non-EOF read error should abort the run")
	assert.Nil(t, result, "no result should be returned on abort")
	assert.Contains(t, err.Error(), "reading row 3", "error should name the failing row")
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr string
	}{
		{
			name: "missing_transformer",
			opts: Options{
				Rule:       testRule(),
				Aggregator: stats.NewAggregator(),
			},
			wantErr: "transformer is required",
		},
		{
			name: "missing_aggregator",
			opts: Options{
				Rule:        testRule(),
				Transformer: payload.NewTransformer("sku", "a", "b"),
			},
			wantErr: "aggregator is required",
		},
		{
			name: "negative_column_index",
			opts: Options{
				Rule:        config.Rule{TargetFieldName: "sku", TargetColumnIndex: -1, MaxRowsToProcess: 10},
				Transformer: payload.NewTransformer("sku", "a", "b"),
				Aggregator:  stats.NewAggregator(),
			},
			wantErr: "target column index",
		},
		{
			name: "zero_row_limit",
			opts: Options{
				Rule:        config.Rule{TargetFieldName: "sku", TargetColumnIndex: 0},
				Transformer: payload.NewTransformer("sku", "a", "b"),
				Aggregator:  stats.NewAggregator(),
			},
			wantErr: "max rows to process",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.opts)
			require.Error(t, err, "invalid options should be rejected")
			assert.Nil(t, p)
			assert.Contains(t, err.Error(), tt.wantErr, "error should name the missing piece")
		})
	}
}

func TestAssemble(t *testing.T) {
	tests := []struct {
		name     string
		header   []string
		retained [][]string
		want     [][]string
	}{
		{
			name:     "header_and_rows",
			header:   []string{"id", "attributes"},
			retained: [][]string{{"1", "x"}, {"2", "y"}},
			want:     [][]string{{"id", "attributes"}, {"1", "x"}, {"2", "y"}},
		},
		{
			name:     "header_only",
			header:   []string{"id", "attributes"},
			retained: nil,
			want:     [][]string{{"id", "attributes"}},
		},
		{
			name:     "no_header",
			header:   nil,
			retained: nil,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Assemble(tt.header, tt.retained), "assembled rows should match expected")
		})
	}
}
