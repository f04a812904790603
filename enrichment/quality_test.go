package enrichment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/turbot/tailpipe-cleanse/table"
)

func qualityConfig() *QualityConfig {
	return &QualityConfig{
		PrimaryCount:   "total_cases",
		SecondaryCount: "new_deaths",
		SecondaryTotal: "total_deaths",
		DeltaColumns:   []string{"new_cases", "new_deaths"},
	}
}

func TestQualityScore(t *testing.T) {
	header := []string{"total_cases", "new_deaths", "total_deaths", "new_cases"}
	tests := []struct {
		name string
		row  table.Row
		want int
	}{
		{
			name: "complete row",
			row:  table.Row{table.String("1"), table.String("1"), table.String("1"), table.String("1")},
			want: 100,
		},
		{
			name: "missing primary and secondary count",
			row:  table.Row{table.Null(), table.Null(), table.String("1"), table.String("1")},
			want: 65,
		},
		{
			name: "blank string counts as missing",
			row:  table.Row{table.String("  "), table.String("1"), table.String("1"), table.String("1")},
			want: 80,
		},
		{
			name: "negative delta",
			row:  table.Row{table.String("1"), table.String("1"), table.String("1"), table.String("-3")},
			want: 70,
		},
		{
			name: "both deltas negative",
			row:  table.Row{table.String("1"), table.String("-1"), table.String("1"), table.String("-3")},
			want: 40,
		},
		{
			name: "missing and negative deductions combine",
			row:  table.Row{table.Null(), table.String("-1"), table.Null(), table.String("-3")},
			want: 5,
		},
		{
			name: "short row reads missing",
			row:  table.Row{table.String("1")},
			want: 70,
		},
		{
			name: "number values",
			row:  table.Row{table.Number(3), table.Number(-2), table.Number(1), table.Number(0)},
			want: 70,
		},
	}
	d := table.NewDataset(header, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QualityScore(d, tt.row, qualityConfig().Deductions()))
		})
	}
}

func TestQualityScore_AlwaysInRange(t *testing.T) {
	d := table.NewDataset([]string{"total_cases", "new_deaths", "total_deaths", "new_cases"}, nil)
	candidates := []table.Value{table.Null(), table.String(""), table.String("-1"), table.String("1"), table.String("x")}

	deductions := qualityConfig().Deductions()
	for _, a := range candidates {
		for _, b := range candidates {
			for _, c := range candidates {
				for _, e := range candidates {
					score := QualityScore(d, table.Row{a, b, c, e}, deductions)
					assert.GreaterOrEqual(t, score, 0)
					assert.LessOrEqual(t, score, 100)
				}
			}
		}
	}
}

func TestQualityScore_MissingColumnsFloorAtZero(t *testing.T) {
	config := &QualityConfig{
		PrimaryCount:   "a",
		SecondaryCount: "b",
		SecondaryTotal: "c",
		DeltaColumns:   []string{"d", "e"},
	}
	d := table.NewDataset([]string{"d", "e"}, nil)
	row := table.Row{table.String("-1"), table.String("-1")}

	assert.Equal(t, 0, QualityScore(d, row, config.Deductions()))
}
