package enrichment

import "time"

// EnricherOption is a function that can be used to configure an Enricher
type EnricherOption func(*Enricher)

// WithClock sets the function used to obtain the processing timestamp
func WithClock(now func() time.Time) EnricherOption {
	return func(e *Enricher) {
		e.now = now
	}
}

// WithRolling enables the rolling mean column
func WithRolling(config *RollingConfig) EnricherOption {
	return func(e *Enricher) {
		e.rolling = config
	}
}

// WithQuality enables the quality score column
func WithQuality(config *QualityConfig) EnricherOption {
	return func(e *Enricher) {
		e.quality = config
	}
}
