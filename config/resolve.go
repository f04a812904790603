package config

import (
	typehelpers "github.com/turbot/go-kit/types"
	"github.com/turbot/tailpipe-cleanse/enrichment"
	"github.com/turbot/tailpipe-cleanse/filter"
	"github.com/turbot/tailpipe-cleanse/pipeline"
	"github.com/turbot/tailpipe-cleanse/rate_limiter"
	"github.com/turbot/tailpipe-cleanse/summary"
	"github.com/turbot/tailpipe-cleanse/table"
	"golang.org/x/time/rate"
)

// PipelineConfig resolves the config into the settings of a single pipeline run
func (c *Config) PipelineConfig() *pipeline.Config {
	res := &pipeline.Config{
		CsvOptions: c.csvOptions(),
		DedupeKey:  c.Dedupe.Key,
		Summary: summary.Config{
			DateColumn:   typehelpers.SafeString(c.Summary.DateColumn),
			TotalColumns: c.Summary.TotalColumns,
			DeltaColumns: c.Summary.DeltaColumns,
			Labels:       c.Summary.Labels,
		},
	}

	for _, f := range c.Filters {
		if len(f.In) > 0 {
			res.Filters = append(res.Filters, filter.In(f.Column, f.In...))
		}
		if len(f.NotIn) > 0 {
			res.Filters = append(res.Filters, filter.NotIn(f.Column, f.NotIn...))
		}
	}

	if c.Enrichment != nil {
		if r := c.Enrichment.Rolling; r != nil {
			res.Rolling = &enrichment.RollingConfig{
				GroupColumn: r.GroupColumn,
				OrderColumn: r.OrderColumn,
				ValueColumn: r.ValueColumn,
				ColumnName:  typehelpers.SafeString(r.ColumnName),
			}
			if r.Window != nil {
				res.Rolling.Window = *r.Window
			}
		}
		if q := c.Enrichment.Quality; q != nil {
			res.Quality = &enrichment.QualityConfig{
				PrimaryCount:   typehelpers.SafeString(q.PrimaryCount),
				SecondaryCount: typehelpers.SafeString(q.SecondaryCount),
				SecondaryTotal: typehelpers.SafeString(q.SecondaryTotal),
				DeltaColumns:   q.DeltaColumns,
			}
		}
	}
	return res
}

func (c *Config) csvOptions() []table.CsvOption {
	opts := []table.CsvOption{table.WithCsvDelimiter(*c.Csv.Delimiter)}
	if c.Csv.Comment != nil {
		opts = append(opts, table.WithCsvComment(*c.Csv.Comment))
	}
	if c.Csv.TrimLeadingSpace != nil {
		opts = append(opts, table.WithCsvTrimLeadingSpace(*c.Csv.TrimLeadingSpace))
	}
	return opts
}

// AlertLimiter returns the limiter definition used to throttle alert publishing
func (c *Config) AlertLimiter() *rate_limiter.Definition {
	d := &rate_limiter.Definition{Name: "alert"}
	if c.Alert.FillRate != nil {
		d.FillRate = rate.Limit(*c.Alert.FillRate)
		d.BucketSize = 1
	}
	if c.Alert.BucketSize != nil {
		d.BucketSize = *c.Alert.BucketSize
	}
	return d
}

// BatchLimiter returns the limiter definition used to bound parallel invocations
func (c *Config) BatchLimiter() *rate_limiter.Definition {
	return &rate_limiter.Definition{Name: "batch", MaxConcurrency: *c.Store.MaxConcurrency}
}

// AlertEnabled returns whether an alert topic has been configured
func (c *Config) AlertEnabled() bool {
	return typehelpers.SafeString(c.Alert.Topic) != ""
}
