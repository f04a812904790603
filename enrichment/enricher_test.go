package enrichment

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turbot/tailpipe-cleanse/errhandling"
	"github.com/turbot/tailpipe-cleanse/table"
)

var fixedNow = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

func clock() time.Time {
	return fixedNow
}

func strRows(values ...[]string) []table.Row {
	var res []table.Row
	for _, v := range values {
		row := make(table.Row, len(v))
		for i, s := range v {
			if s == "" {
				row[i] = table.Null()
			} else {
				row[i] = table.String(s)
			}
		}
		res = append(res, row)
	}
	return res
}

func columnStrings(d *table.Dataset, name string) []string {
	var res []string
	for _, row := range d.Rows() {
		res = append(res, d.Value(row, name).String())
	}
	return res
}

func TestEnricher_BaseColumns(t *testing.T) {
	d := table.NewDataset([]string{"k", "v"}, strRows([]string{"a", "1"}, []string{"b", "2"}))

	got, err := NewEnricher("raw/data.csv", WithClock(clock)).Enrich(d)
	require.NoError(t, err)

	assert.Equal(t, []string{"k", "v", "processed_timestamp", "source_identifier", "row_number"}, got.Header())
	assert.Equal(t, []string{"2024-05-06T07:08:09Z", "2024-05-06T07:08:09Z"}, columnStrings(got, "processed_timestamp"))
	assert.Equal(t, []string{"raw/data.csv", "raw/data.csv"}, columnStrings(got, "source_identifier"))
	assert.Equal(t, []string{"1", "2"}, columnStrings(got, "row_number"))
	// input is untouched
	assert.Equal(t, []string{"k", "v"}, d.Header())
	assert.Len(t, d.Row(0), 2)
}

func TestEnricher_AlignsRowsToHeader(t *testing.T) {
	d := table.NewDataset([]string{"a", "b"}, strRows([]string{"1"}, []string{"1", "2", "3"}))

	got, err := NewEnricher("src", WithClock(clock)).Enrich(d)
	require.NoError(t, err)

	for _, row := range got.Rows() {
		assert.Len(t, row, got.Width())
	}
	assert.Equal(t, []string{"", "2"}, columnStrings(got, "b"))
	assert.Equal(t, []string{"1", "2"}, columnStrings(got, "row_number"))
}

func TestEnricher_DerivedColumnOrder(t *testing.T) {
	e := NewEnricher("src",
		WithRolling(&RollingConfig{GroupColumn: "location", OrderColumn: "date", ValueColumn: "new_cases"}),
		WithQuality(&QualityConfig{PrimaryCount: "total_cases"}),
	)
	assert.Equal(t, []string{"processed_timestamp", "source_identifier", "row_number", "new_cases_7day_avg", "quality_score"}, e.DerivedColumns())

	d := table.NewDataset([]string{"location", "date", "new_cases", "total_cases"}, nil)
	got, err := e.Enrich(d)
	require.NoError(t, err)
	assert.Equal(t, append(d.Header(), e.DerivedColumns()...), got.Header())
}

func TestEnricher_Rolling(t *testing.T) {
	d := table.NewDataset([]string{"location", "date", "new_cases"}, strRows(
		[]string{"Y", "2021-01-02", "5"},
		[]string{"X", "2021-01-03", "30"},
		[]string{"X", "2021-01-01", "10"},
		[]string{"Y", "2021-01-01", "1"},
		[]string{"X", "2021-01-02", "20"},
	))

	got, err := NewEnricher("src", WithClock(clock),
		WithRolling(&RollingConfig{GroupColumn: "location", OrderColumn: "date", ValueColumn: "new_cases"}),
	).Enrich(d)
	require.NoError(t, err)

	// output is in (group, date) order
	assert.Equal(t, []string{"X", "X", "X", "Y", "Y"}, columnStrings(got, "location"))
	assert.Equal(t, []string{"2021-01-01", "2021-01-02", "2021-01-03", "2021-01-01", "2021-01-02"}, columnStrings(got, "date"))
	assert.Equal(t, []string{"10", "15", "20", "1", "3"}, columnStrings(got, "new_cases_7day_avg"))
	// row numbers reflect the pre-sort position
	assert.Equal(t, []string{"3", "5", "2", "4", "1"}, columnStrings(got, "row_number"))
}

func TestEnricher_MissingRollingColumns(t *testing.T) {
	tests := []struct {
		name       string
		header     []string
		wantColumn string
	}{
		{name: "missing group column", header: []string{"date", "v"}, wantColumn: "location"},
		{name: "missing order column", header: []string{"location", "v"}, wantColumn: "date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := table.NewDataset(tt.header, nil)
			_, err := NewEnricher("src", WithRolling(&RollingConfig{GroupColumn: "location", OrderColumn: "date", ValueColumn: "v"})).Enrich(d)

			var enrichmentErr *errhandling.EnrichmentError
			require.True(t, errors.As(err, &enrichmentErr))
			assert.Equal(t, tt.wantColumn, enrichmentErr.Column)
		})
	}
}

func TestEnricher_MissingValueColumnYieldsNull(t *testing.T) {
	d := table.NewDataset([]string{"location", "date"}, strRows([]string{"X", "2021-01-01"}))

	got, err := NewEnricher("src", WithRolling(&RollingConfig{GroupColumn: "location", OrderColumn: "date", ValueColumn: "v", Window: 3})).Enrich(d)
	require.NoError(t, err)
	assert.True(t, got.Value(got.Row(0), "v_3day_avg").IsNull())
}

func TestEnricher_QualityScore(t *testing.T) {
	d := table.NewDataset([]string{"total_cases", "new_deaths", "total_deaths", "new_cases"}, strRows(
		[]string{"10", "1", "1", "5"},
		[]string{"", "", "1", "5"},
		[]string{"10", "1", "1", "-5"},
		[]string{"", "", "", "-5", "-1"},
	))

	got, err := NewEnricher("src", WithQuality(&QualityConfig{
		PrimaryCount:   "total_cases",
		SecondaryCount: "new_deaths",
		SecondaryTotal: "total_deaths",
		DeltaColumns:   []string{"new_cases", "new_deaths"},
	})).Enrich(d)
	require.NoError(t, err)

	// the surplus fifth cell of the last row is dropped when aligning to the header
	assert.Equal(t, []string{"100", "65", "70", "20"}, columnStrings(got, "quality_score"))
}
