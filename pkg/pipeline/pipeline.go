// Package pipeline drives delimited rows through the payload transformer and
// collects the per-row outcomes.
package pipeline

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/walteh/csvpatch/pkg/config"
	"github.com/walteh/csvpatch/pkg/payload"
	"github.com/walteh/csvpatch/pkg/stats"
	"gitlab.com/tozd/go/errors"
)

// progressEvery is how often the row walk reports progress.
const progressEvery = 5000

// 🎯 RowSource yields delimited rows in file order. Read returns io.EOF when
// the input is exhausted.
type RowSource interface {
	Read() ([]string, error)
}

// 🔧 Options contains the collaborators for a pipeline run
type Options struct {
	// Rule is the replacement rule being applied
	Rule config.Rule
	// Transformer rewrites payload cells
	Transformer *payload.Transformer
	// Aggregator collects per-row outcomes
	Aggregator *stats.Aggregator
}

// 🏭 New creates a new Pipeline with the given options
func New(opts Options) (*Pipeline, error) {
	if opts.Transformer == nil {
		return nil, errors.Errorf("transformer is required")
	}
	if opts.Aggregator == nil {
		return nil, errors.Errorf("aggregator is required")
	}
	if opts.Rule.TargetColumnIndex < 0 {
		return nil, errors.Errorf("target column index must not be negative")
	}
	if opts.Rule.MaxRowsToProcess <= 0 {
		return nil, errors.Errorf("max rows to process must be positive")
	}
	return &Pipeline{
		rule:        opts.Rule,
		transformer: opts.Transformer,
		agg:         opts.Aggregator,
	}, nil
}

// 🎮 Pipeline walks rows one at a time, in file order
type Pipeline struct {
	rule        config.Rule
	transformer *payload.Transformer
	agg         *stats.Aggregator
}

// 📈 RunResult carries the rows to write out and the final accounting
type RunResult struct {
	Rows  [][]string // header first, then every modified row in encounter order
	Stats stats.RunStats
}

// Run reads src to exhaustion, transforming the target column of each data
// row. Row numbers are 1-based and include the header, which is always
// retained and never transformed. Rows numbered past the configured limit are
// counted but not read further.
func (p *Pipeline) Run(ctx context.Context, src RowSource) (*RunResult, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().
		Str("field", p.rule.TargetFieldName).
		Int("column", p.rule.TargetColumnIndex).
		Int("max_rows", p.rule.MaxRowsToProcess).
		Msg("starting row walk")

	var (
		header   []string
		retained [][]string
		rowNum   int
	)

	for {
		cells, err := src.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Errorf("reading row %d: %w", rowNum+1, err)
		}

		rowNum++
		p.agg.TrackRow()

		// Row 1 is the header
		if rowNum == 1 {
			header = cells
			continue
		}

		if rowNum > p.rule.MaxRowsToProcess {
			logger.Warn().
				Int("row", rowNum).
				Int("max_rows", p.rule.MaxRowsToProcess).
				Msg("row limit reached, stopping")
			break
		}

		if len(cells) > p.rule.TargetColumnIndex {
			result := p.transformer.Transform(ctx, cells[p.rule.TargetColumnIndex], rowNum)
			cells[p.rule.TargetColumnIndex] = result.Text
			p.agg.TrackProcessed()
			p.agg.Record(rowNum, result)
			if result.Outcome == payload.OutcomeModified {
				retained = append(retained, cells)
			}
		} else {
			logger.Debug().
				Int("row", rowNum).
				Int("cells", len(cells)).
				Int("column", p.rule.TargetColumnIndex).
				Msg("target column not present")
		}

		if rowNum%progressEvery == 0 {
			logger.Info().Int("rows", rowNum).Msg("processing rows")
		}
	}

	logger.Debug().Int("rows", rowNum).Msg("row walk finished")
	return &RunResult{
		Rows:  Assemble(header, retained),
		Stats: p.agg.Snapshot(),
	}, nil
}
