// Package pipeline runs the cleanse stages over one input file:
// parse, dedupe, filter, enrich, summarize.
package pipeline

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/turbot/go-kit/helpers"
	"github.com/turbot/tailpipe-cleanse/dedupe"
	"github.com/turbot/tailpipe-cleanse/enrichment"
	"github.com/turbot/tailpipe-cleanse/errhandling"
	"github.com/turbot/tailpipe-cleanse/filter"
	"github.com/turbot/tailpipe-cleanse/summary"
	"github.com/turbot/tailpipe-cleanse/table"
)

// Config is the resolved configuration of a single pipeline run
type Config struct {
	CsvOptions []table.CsvOption
	// DedupeKey is the list of columns compared for uniqueness - empty means the whole row
	DedupeKey []string
	Filters   []filter.Predicate
	// Rolling and Quality are optional enrichment modes
	Rolling *enrichment.RollingConfig
	Quality *enrichment.QualityConfig
	Summary summary.Config
	// Now defaults to time.Now
	Now func() time.Time
}

// Stats are the row counts of a run
type Stats struct {
	OriginalRows      int `json:"original_rows"`
	CleanedRows       int `json:"cleaned_rows"`
	DuplicatesRemoved int `json:"duplicates_removed"`
	FilteredOut       int `json:"filtered_out"`
}

type Result struct {
	Dataset *table.Dataset
	Summary *summary.Summary
	Stats   Stats
}

// Process runs every stage in order. The first failing stage aborts the run and the
// returned error is an [errhandling.StageError] naming that stage.
func Process(raw []byte, sourceId string, config *Config) (res *Result, err error) {
	stage := errhandling.StageParse
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = errhandling.NewStageError(stage, helpers.ToError(r))
		}
	}()

	ds, err := table.ParseCsv(raw, config.CsvOptions...)
	if err != nil {
		return nil, errhandling.NewStageError(stage, err)
	}
	stats := Stats{OriginalRows: ds.Len()}

	stage = errhandling.StageDedupe
	ds, stats.DuplicatesRemoved = dedupe.Dedupe(ds, config.DedupeKey...)
	slog.Debug("Deduplicated rows", "source", sourceId, "duplicates_removed", stats.DuplicatesRemoved)

	stage = errhandling.StageFilter
	beforeFilter := ds.Len()
	ds = filter.Apply(ds, config.Filters...)
	stats.FilteredOut = beforeFilter - ds.Len()
	if len(config.Filters) > 0 {
		slog.Debug("Filtered rows", "source", sourceId, "filters", fmt.Sprint(config.Filters), "filtered_out", stats.FilteredOut)
	}

	stage = errhandling.StageEnrich
	ds, err = config.enricher(sourceId).Enrich(ds)
	if err != nil {
		return nil, errhandling.NewStageError(stage, err)
	}
	stats.CleanedRows = ds.Len()

	stage = errhandling.StageSummarize
	s := summary.Summarize(ds, config.Summary)

	return &Result{Dataset: ds, Summary: s, Stats: stats}, nil
}

func (c *Config) enricher(sourceId string) *enrichment.Enricher {
	var opts []enrichment.EnricherOption
	if c.Now != nil {
		opts = append(opts, enrichment.WithClock(c.Now))
	}
	if c.Rolling != nil {
		opts = append(opts, enrichment.WithRolling(c.Rolling))
	}
	if c.Quality != nil {
		opts = append(opts, enrichment.WithQuality(c.Quality))
	}
	return enrichment.NewEnricher(sourceId, opts...)
}
