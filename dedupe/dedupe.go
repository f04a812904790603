// Package dedupe removes duplicate rows from a dataset
package dedupe

import (
	"log/slog"

	"github.com/turbot/tailpipe-cleanse/table"
)

// Dedupe returns a new dataset containing the first occurrence of each distinct key,
// in original order, along with the number of rows removed.
// The key is the list of columns to compare - if empty, the whole row is compared.
// Values are compared exactly: no normalization or type coercion is applied.
func Dedupe(d *table.Dataset, key ...string) (*table.Dataset, int) {
	positions := d.Positions(key)
	var missing []string
	for i, p := range positions {
		if p < 0 {
			missing = append(missing, key[i])
		}
	}
	if len(missing) > 0 {
		slog.Warn("Dedupe key columns not found, they compare as null for every row", "columns", missing)
	}

	seen := make(map[string]struct{}, d.Len())
	var unique []table.Row
	duplicates := 0
	for _, row := range d.Rows() {
		k := row.Key(positions)
		if _, ok := seen[k]; ok {
			duplicates++
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, row)
	}

	return table.NewDataset(d.Header(), unique), duplicates
}
