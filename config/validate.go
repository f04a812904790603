package config

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/turbot/pipe-fittings/utils"
)

// Validate checks the config after defaults have been applied, reporting every problem found
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if utf8.RuneCountInString(*c.Csv.Delimiter) != 1 {
		add("csv delimiter must be a single character")
	}
	if c.Csv.Comment != nil && utf8.RuneCountInString(*c.Csv.Comment) > 1 {
		add("csv comment must be a single character")
	}
	if c.Csv.Comment != nil && *c.Csv.Comment == *c.Csv.Delimiter {
		add("csv comment must differ from the delimiter")
	}

	for i, f := range c.Filters {
		if f.Column == "" {
			add("filter %d: column must be set", i+1)
		}
		if len(f.In) == 0 && len(f.NotIn) == 0 {
			add("filter %d: one of 'in' or 'not_in' must be set", i+1)
		}
	}

	if c.Enrichment != nil && c.Enrichment.Rolling != nil {
		r := c.Enrichment.Rolling
		if r.GroupColumn == "" || r.OrderColumn == "" || r.ValueColumn == "" {
			add("rolling: group_column, order_column and value_column must all be set")
		}
		if r.Window != nil && *r.Window < 1 {
			add("rolling: window must be at least 1")
		}
	}

	switch *c.Output.KeyMode {
	case KeyModeFilename, KeyModeDate:
	default:
		add("output key_mode must be '%s' or '%s', got '%s'", KeyModeFilename, KeyModeDate, *c.Output.KeyMode)
	}

	switch *c.Alert.Publisher {
	case PublisherSns, PublisherLog:
	default:
		add("alert publisher must be '%s' or '%s', got '%s'", PublisherSns, PublisherLog, *c.Alert.Publisher)
	}
	problems = append(problems, c.AlertLimiter().Validate()...)

	switch *c.Store.Type {
	case StoreS3, StoreGcs:
	case StoreFile:
		if c.Store.Root == nil || *c.Store.Root == "" {
			add("store root must be set for a file store")
		}
	default:
		add("store type must be one of %s, %s or %s, got '%s'", StoreS3, StoreGcs, StoreFile, *c.Store.Type)
	}
	if *c.Store.MaxConcurrency < 1 {
		add("store max_concurrency must be at least 1")
	}

	if err := c.Aws.Validate(); err != nil {
		add("aws: %s", err.Error())
	}
	if err := c.Gcp.Validate(); err != nil {
		add("gcp: %s", err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config, %d %s: %s", len(problems), utils.Pluralize("problem", len(problems)), strings.Join(problems, "; "))
	}
	return nil
}
