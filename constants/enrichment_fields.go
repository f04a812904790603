package constants

// derived columns appended by the enricher, in the order they are appended
const (
	ProcessedTimestamp = "processed_timestamp"
	SourceIdentifier   = "source_identifier"
	RowNumber          = "row_number"
	QualityScore       = "quality_score"
)

const (
	// DefaultRollingWindow is the default size of the trailing rolling window
	DefaultRollingWindow = 7
	// LowQualityThreshold - rows scoring below this are reported as low quality
	LowQualityThreshold = 70
	MaxQualityScore     = 100
)
