// Package summary builds the report describing a cleaned dataset
package summary

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/turbot/tailpipe-cleanse/constants"
	"github.com/turbot/tailpipe-cleanse/table"
	"golang.org/x/exp/maps"
)

// Config names the columns the summary is computed over
type Config struct {
	// DateColumn is the date-like column used for the date range
	DateColumn string
	// TotalColumns are summed into total_<column>
	TotalColumns []string
	// DeltaColumns are checked for negative (anomalous) values
	DeltaColumns []string
	// Labels are passed through to the summary unchanged
	Labels map[string]string
}

type DateRange struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

// Summary is computed once per invocation from the final dataset
type Summary struct {
	TotalRows int
	// DateRange is nil if no row has a parsable date
	DateRange *DateRange
	Labels    map[string]string
	// Totals is keyed by source column name
	Totals map[string]int64
	// AvgQualityScore is 0 when there are no rows or no quality score column
	AvgQualityScore   float64
	LowQualityRows    int
	AnomaliesDetected int
}

// ShouldAlert returns true if any anomalies were detected
func (s *Summary) ShouldAlert() bool {
	return s.AnomaliesDetected > 0
}

// TotalKey returns the report key for the total of a column
func TotalKey(column string) string {
	return "total_" + strcase.ToSnake(column)
}

// MarshalJSON writes the summary as a flat report object, with a total_<column> key per total
func (s *Summary) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"total_rows":         s.TotalRows,
		"date_range":         s.DateRange,
		"avg_quality_score":  s.AvgQualityScore,
		"low_quality_rows":   s.LowQualityRows,
		"anomalies_detected": s.AnomaliesDetected,
	}
	if len(s.Labels) > 0 {
		m["labels"] = s.Labels
	}
	for column, total := range s.Totals {
		key := TotalKey(column)
		if _, exists := m[key]; exists {
			return nil, fmt.Errorf("total for column '%s' collides with report key '%s'", column, key)
		}
		m[key] = total
	}
	return json.Marshal(m)
}

// Summarize computes the summary of d in a single pass. It does not modify d.
func Summarize(d *table.Dataset, config Config) *Summary {
	s := &Summary{
		TotalRows: d.Len(),
		Totals:    make(map[string]int64, len(config.TotalColumns)),
	}
	if len(config.Labels) > 0 {
		s.Labels = maps.Clone(config.Labels)
	}

	dateIdx := -1
	if config.DateColumn != "" {
		dateIdx = d.ColumnIndex(config.DateColumn)
	}
	// the derived score, not an input column that happens to share its name
	qualityIdx := d.LastColumnIndex(constants.QualityScore)
	totalIdx := d.Positions(config.TotalColumns)
	deltaIdx := d.Positions(config.DeltaColumns)

	sums := make([]float64, len(config.TotalColumns))
	var minDate, maxDate time.Time
	haveDate := false
	qualitySum, qualityCount := 0.0, 0

	for _, row := range d.Rows() {
		if dateIdx != -1 {
			if t, ok := row.At(dateIdx).Time(); ok {
				if !haveDate || t.Before(minDate) {
					minDate = t
				}
				if !haveDate || t.After(maxDate) {
					maxDate = t
				}
				haveDate = true
			}
		}

		for i, idx := range totalIdx {
			if f, ok := row.At(idx).Float(); ok {
				sums[i] += f
			}
		}

		if qualityIdx != -1 {
			if q, ok := row.At(qualityIdx).Float(); ok {
				qualitySum += q
				qualityCount++
				if q < constants.LowQualityThreshold {
					s.LowQualityRows++
				}
			}
		}

		// a row negative in both delta columns is counted twice
		for _, idx := range deltaIdx {
			if f, ok := row.At(idx).Float(); ok && f < 0 {
				s.AnomaliesDetected++
			}
		}
	}

	for i, column := range config.TotalColumns {
		s.Totals[column] = int64(sums[i])
	}
	if haveDate {
		s.DateRange = &DateRange{
			Min: minDate.Format(time.DateOnly),
			Max: maxDate.Format(time.DateOnly),
		}
	}
	if qualityCount > 0 {
		s.AvgQualityScore = math.Round(qualitySum/float64(qualityCount)*100) / 100
	}
	return s
}
