package enrichment

import (
	"fmt"
	"sort"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/turbot/tailpipe-cleanse/constants"
	"github.com/turbot/tailpipe-cleanse/errhandling"
	"github.com/turbot/tailpipe-cleanse/table"
)

// RollingConfig configures the trailing mean of a numeric column within each group
type RollingConfig struct {
	GroupColumn string
	OrderColumn string
	ValueColumn string
	// Window is the maximum number of rows in the trailing window (default 7)
	Window int
	// ColumnName overrides the output column name (default <value_column>_<window>day_avg)
	ColumnName string
}

func (c *RollingConfig) window() int {
	if c.Window <= 0 {
		return constants.DefaultRollingWindow
	}
	return c.Window
}

// OutputColumn returns the name of the column the rolling mean is written to
func (c *RollingConfig) OutputColumn() string {
	if c.ColumnName != "" {
		return c.ColumnName
	}
	return fmt.Sprintf("%s_%dday_avg", strcase.ToSnake(c.ValueColumn), c.window())
}

func (c *RollingConfig) validateColumns(d *table.Dataset) error {
	if !d.HasColumn(c.GroupColumn) {
		return errhandling.NewEnrichmentError(c.GroupColumn, "group")
	}
	if !d.HasColumn(c.OrderColumn) {
		return errhandling.NewEnrichmentError(c.OrderColumn, "order")
	}
	return nil
}

// order keys are ranked: dates sort before plain numbers, and values which are neither sort last
const (
	rankTime = iota
	rankNumber
	rankInvalid
)

type orderKey struct {
	rank int
	t    time.Time
	n    float64
}

func newOrderKey(v table.Value) orderKey {
	if t, ok := v.Time(); ok {
		return orderKey{rank: rankTime, t: t}
	}
	if n, ok := v.Float(); ok {
		return orderKey{rank: rankNumber, n: n}
	}
	return orderKey{rank: rankInvalid}
}

func (k orderKey) less(other orderKey) bool {
	if k.rank != other.rank {
		return k.rank < other.rank
	}
	switch k.rank {
	case rankTime:
		return k.t.Before(other.t)
	case rankNumber:
		return k.n < other.n
	default:
		// unorderable values keep their relative position
		return false
	}
}

type rollingEntry struct {
	row   table.Row
	group string
	order orderKey
	value float64
	valid bool
}

// RollingMean sorts rows by (group, order) ascending and computes, for each row, the mean of the
// value column over that row and up to window-1 immediately preceding rows of the same group.
// The sort is stable. Rows whose order value cannot be parsed are kept, after the ordered rows of their group.
// Null or non-numeric values are skipped when averaging; a window with no numeric values yields null.
// group, order and value are column positions; a position of -1 reads as null for every row.
// It returns the sorted rows and the mean for each sorted row.
func RollingMean(rows []table.Row, group, order, value, window int) ([]table.Row, []table.Value) {
	if window <= 0 {
		window = constants.DefaultRollingWindow
	}

	entries := make([]rollingEntry, len(rows))
	for i, row := range rows {
		v, ok := row.At(value).Float()
		entries[i] = rollingEntry{
			row:   row,
			group: row.At(group).String(),
			order: newOrderKey(row.At(order)),
			value: v,
			valid: ok,
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].group != entries[j].group {
			return entries[i].group < entries[j].group
		}
		return entries[i].order.less(entries[j].order)
	})

	sorted := make([]table.Row, len(entries))
	means := make([]table.Value, len(entries))
	groupStart := 0
	for i, e := range entries {
		if i > 0 && e.group != entries[i-1].group {
			groupStart = i
		}
		// the window is clipped at the start of the group
		start := max(groupStart, i-window+1)
		sum, count := 0.0, 0
		for _, w := range entries[start : i+1] {
			if w.valid {
				sum += w.value
				count++
			}
		}
		sorted[i] = e.row
		if count == 0 {
			means[i] = table.Null()
		} else {
			means[i] = table.Number(sum / float64(count))
		}
	}
	return sorted, means
}
