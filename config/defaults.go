package config

import (
	"github.com/turbot/pipe-fittings/utils"
	"github.com/turbot/tailpipe-cleanse/connection"
)

const (
	KeyModeFilename = "filename"
	KeyModeDate     = "date"

	PublisherSns = "sns"
	PublisherLog = "log"

	StoreS3   = "s3"
	StoreGcs  = "gcs"
	StoreFile = "file"

	DefaultOutputPrefix   = "cleaned/"
	DefaultReportPrefix   = "reports/"
	DefaultAlertSubject   = "Data anomalies detected"
	DefaultMaxConcurrency = 4
)

// SetDefaults fills every unset optional setting. Blocks which are always needed are created.
func (c *Config) SetDefaults() {
	if c.Csv == nil {
		c.Csv = &CsvConfig{}
	}
	if c.Csv.Delimiter == nil {
		c.Csv.Delimiter = utils.ToStringPointer(",")
	}

	if c.Dedupe == nil {
		c.Dedupe = &DedupeConfig{}
	}

	if c.Summary == nil {
		c.Summary = &SummaryConfig{}
	}
	// anomalies are counted over the quality delta columns unless configured separately
	if len(c.Summary.DeltaColumns) == 0 && c.Enrichment != nil && c.Enrichment.Quality != nil {
		c.Summary.DeltaColumns = c.Enrichment.Quality.DeltaColumns
	}

	if c.Output == nil {
		c.Output = &OutputConfig{}
	}
	if c.Output.Prefix == nil {
		c.Output.Prefix = utils.ToStringPointer(DefaultOutputPrefix)
	}
	if c.Output.KeyMode == nil {
		c.Output.KeyMode = utils.ToStringPointer(KeyModeFilename)
	}
	if c.Output.ReportPrefix == nil {
		c.Output.ReportPrefix = utils.ToStringPointer(DefaultReportPrefix)
	}
	if c.Output.WriteReport == nil {
		c.Output.WriteReport = utils.ToPointer(true)
	}

	if c.Alert == nil {
		c.Alert = &AlertConfig{}
	}
	if c.Alert.Subject == nil {
		c.Alert.Subject = utils.ToStringPointer(DefaultAlertSubject)
	}
	if c.Alert.Publisher == nil {
		c.Alert.Publisher = utils.ToStringPointer(PublisherSns)
	}

	if c.Store == nil {
		c.Store = &StoreConfig{}
	}
	if c.Store.Type == nil {
		c.Store.Type = utils.ToStringPointer(StoreS3)
	}
	if c.Store.MaxConcurrency == nil {
		c.Store.MaxConcurrency = utils.ToPointer(int64(DefaultMaxConcurrency))
	}

	if c.Aws == nil {
		c.Aws = &connection.AwsConnection{}
	}
	if c.Gcp == nil {
		c.Gcp = &connection.GcpConnection{}
	}
}
