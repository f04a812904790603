package enrichment

import (
	"strings"

	"github.com/turbot/tailpipe-cleanse/constants"
	"github.com/turbot/tailpipe-cleanse/table"
)

// QualityConfig names the columns checked by the quality score
type QualityConfig struct {
	// PrimaryCount - missing costs 20 points
	PrimaryCount string
	// SecondaryCount - missing costs 15 points
	SecondaryCount string
	// SecondaryTotal - missing costs 15 points
	SecondaryTotal string
	// DeltaColumns - each negative value costs 30 points
	DeltaColumns []string
}

type Rule int

const (
	RuleMissing Rule = iota
	RuleNegative
)

// Deduction is a fixed number of points subtracted when Rule holds for Column
type Deduction struct {
	Column string
	Rule   Rule
	Points int
}

const (
	primaryCountPoints   = 20
	secondaryCountPoints = 15
	secondaryTotalPoints = 15
	negativeDeltaPoints  = 30
)

// Deductions returns the deduction table for the configured columns.
// Columns which are not configured contribute no deduction.
func (c *QualityConfig) Deductions() []Deduction {
	var res []Deduction
	add := func(column string, rule Rule, points int) {
		if column != "" {
			res = append(res, Deduction{Column: column, Rule: rule, Points: points})
		}
	}
	add(c.PrimaryCount, RuleMissing, primaryCountPoints)
	add(c.SecondaryCount, RuleMissing, secondaryCountPoints)
	add(c.SecondaryTotal, RuleMissing, secondaryTotalPoints)
	for _, col := range c.DeltaColumns {
		add(col, RuleNegative, negativeDeltaPoints)
	}
	return res
}

// QualityScore starts at 100 and applies every matching deduction independently.
// Only the final result is floored at 0.
func QualityScore(d *table.Dataset, row table.Row, deductions []Deduction) int {
	score := constants.MaxQualityScore
	for _, deduction := range deductions {
		v := d.Value(row, deduction.Column)
		switch deduction.Rule {
		case RuleMissing:
			if isMissing(v) {
				score -= deduction.Points
			}
		case RuleNegative:
			if f, ok := v.Float(); ok && f < 0 {
				score -= deduction.Points
			}
		}
	}
	return max(0, score)
}

func isMissing(v table.Value) bool {
	return v.IsNull() || (v.Kind() == table.KindString && strings.TrimSpace(v.String()) == "")
}
