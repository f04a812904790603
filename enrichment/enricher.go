// Package enrichment appends derived columns to a dataset: processing metadata,
// a per-group rolling mean and a per-row quality score.
package enrichment

import (
	"log/slog"
	"time"

	"github.com/turbot/tailpipe-cleanse/constants"
	"github.com/turbot/tailpipe-cleanse/table"
)

// Enricher appends derived columns to every row of a dataset.
// Columns are appended in a fixed order:
// processed_timestamp, source_identifier, row_number, the rolling mean (if enabled), quality_score (if enabled)
type Enricher struct {
	sourceIdentifier string
	now              func() time.Time
	rolling          *RollingConfig
	quality          *QualityConfig
}

func NewEnricher(sourceIdentifier string, opts ...EnricherOption) *Enricher {
	e := &Enricher{
		sourceIdentifier: sourceIdentifier,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DerivedColumns returns the names of the columns Enrich will append
func (e *Enricher) DerivedColumns() []string {
	res := []string{constants.ProcessedTimestamp, constants.SourceIdentifier, constants.RowNumber}
	if e.rolling != nil {
		res = append(res, e.rolling.OutputColumn())
	}
	if e.quality != nil {
		res = append(res, constants.QualityScore)
	}
	return res
}

// Enrich returns a new dataset with the derived columns appended.
// Rows are first aligned to the header width so every output row has the same column set.
// It only fails if rolling is enabled and the group or order column is absent.
func (e *Enricher) Enrich(d *table.Dataset) (*table.Dataset, error) {
	if e.rolling != nil {
		if err := e.rolling.validateColumns(d); err != nil {
			return nil, err
		}
	}

	width := d.Width()
	// the timestamp is taken once per invocation, not per row
	processed := table.String(e.now().UTC().Format(time.RFC3339))
	source := table.String(e.sourceIdentifier)

	truncatedCells := 0
	rows := make([]table.Row, d.Len())
	for i, row := range d.Rows() {
		if len(row) > width {
			truncatedCells += len(row) - width
		}
		enriched := append(row.Aligned(width), processed, source, table.Int(i+1))
		rows[i] = enriched
	}
	if truncatedCells > 0 {
		slog.Warn("Dropped cells beyond header width", "cells", truncatedCells, "source", e.sourceIdentifier)
	}

	header := append(d.Header(), constants.ProcessedTimestamp, constants.SourceIdentifier, constants.RowNumber)

	if e.rolling != nil {
		group := d.ColumnIndex(e.rolling.GroupColumn)
		order := d.ColumnIndex(e.rolling.OrderColumn)
		value := d.ColumnIndex(e.rolling.ValueColumn)
		if value == -1 {
			slog.Warn("Rolling value column not found - rolling mean will be null", "column", e.rolling.ValueColumn)
		}

		sorted, means := RollingMean(rows, group, order, value, e.rolling.window())
		for i := range sorted {
			sorted[i] = append(sorted[i], means[i])
		}
		rows = sorted
		header = append(header, e.rolling.OutputColumn())
	}

	if e.quality != nil {
		// score against the original columns - derived columns never affect the score
		base := table.NewDataset(d.Header(), nil)
		deductions := e.quality.Deductions()
		for i, row := range rows {
			rows[i] = append(row, table.Int(QualityScore(base, row, deductions)))
		}
		header = append(header, constants.QualityScore)
	}

	return table.NewDataset(header, rows), nil
}
