// Package config loads the HCL configuration of the cleanse pipeline and resolves it
// into the settings used by the pipeline and the handler
package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/turbot/tailpipe-cleanse/connection"
)

const (
	EnvConfigPath   = "CLEANSE_CONFIG"
	EnvOutputBucket = "CLEANSE_OUTPUT_BUCKET"
	EnvAlertTopic   = "CLEANSE_ALERT_TOPIC"
)

type Config struct {
	Csv        *CsvConfig                `hcl:"csv,block"`
	Dedupe     *DedupeConfig             `hcl:"dedupe,block"`
	Filters    []FilterConfig            `hcl:"filter,block"`
	Enrichment *EnrichmentConfig         `hcl:"enrichment,block"`
	Summary    *SummaryConfig            `hcl:"summary,block"`
	Output     *OutputConfig             `hcl:"output,block"`
	Alert      *AlertConfig              `hcl:"alert,block"`
	Store      *StoreConfig              `hcl:"store,block"`
	Aws        *connection.AwsConnection `hcl:"aws,block"`
	Gcp        *connection.GcpConnection `hcl:"gcp,block"`
}

type CsvConfig struct {
	Delimiter        *string `hcl:"delimiter"`
	Comment          *string `hcl:"comment"`
	TrimLeadingSpace *bool   `hcl:"trim_leading_space"`
}

type DedupeConfig struct {
	// Key columns, empty means the whole row
	Key []string `hcl:"key,optional"`
}

// FilterConfig keeps rows whose column value is in In and not in NotIn
type FilterConfig struct {
	Column string   `hcl:"column"`
	In     []string `hcl:"in,optional"`
	NotIn  []string `hcl:"not_in,optional"`
}

type EnrichmentConfig struct {
	Rolling *RollingConfig `hcl:"rolling,block"`
	Quality *QualityConfig `hcl:"quality,block"`
}

type RollingConfig struct {
	GroupColumn string  `hcl:"group_column"`
	OrderColumn string  `hcl:"order_column"`
	ValueColumn string  `hcl:"value_column"`
	Window      *int    `hcl:"window"`
	ColumnName  *string `hcl:"column_name"`
}

type QualityConfig struct {
	PrimaryCount   *string  `hcl:"primary_count"`
	SecondaryCount *string  `hcl:"secondary_count"`
	SecondaryTotal *string  `hcl:"secondary_total"`
	DeltaColumns   []string `hcl:"delta_columns,optional"`
}

type SummaryConfig struct {
	DateColumn   *string           `hcl:"date_column"`
	TotalColumns []string          `hcl:"total_columns,optional"`
	DeltaColumns []string          `hcl:"delta_columns,optional"`
	Labels       map[string]string `hcl:"labels,optional"`
}

type OutputConfig struct {
	Bucket       *string `hcl:"bucket"`
	Prefix       *string `hcl:"prefix"`
	KeyMode      *string `hcl:"key_mode"`
	ReportPrefix *string `hcl:"report_prefix"`
	WriteReport  *bool   `hcl:"write_report"`
}

type AlertConfig struct {
	Topic   *string `hcl:"topic"`
	Subject *string `hcl:"subject"`
	// Publisher is sns or log
	Publisher *string `hcl:"publisher"`
	// alerts per second, with a burst of BucketSize
	FillRate   *float64 `hcl:"fill_rate"`
	BucketSize *int64   `hcl:"bucket_size"`
}

type StoreConfig struct {
	// Type is s3, gcs or file
	Type *string `hcl:"type"`
	// Root is the base directory of a file store
	Root *string `hcl:"root"`
	// MaxConcurrency limits parallel objects processed by the run command
	MaxConcurrency *int64 `hcl:"max_concurrency"`
}

// Load reads the config file at path, or the path named by CLEANSE_CONFIG if path is empty.
// With neither set the default config is returned.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}

	c := &Config{}
	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return nil, fmt.Errorf("failed to expand config path %s, %w", path, err)
		}
		data, err := os.ReadFile(expanded)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s, %w", expanded, err)
		}
		if err := ParseConfig(data, expanded, c); err != nil {
			return nil, err
		}
	}

	c.SetDefaults()
	c.applyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Parse decodes an HCL document and applies defaults and validation, ignoring the environment
func Parse(data []byte, filename string) (*Config, error) {
	c := &Config{}
	if err := ParseConfig(data, filename, c); err != nil {
		return nil, err
	}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() {
	if bucket := os.Getenv(EnvOutputBucket); bucket != "" {
		c.Output.Bucket = &bucket
	}
	if topic := os.Getenv(EnvAlertTopic); topic != "" {
		c.Alert.Topic = &topic
	}
}
