package table

import (
	"strings"
)

// Row is an ordered list of values, associated positionally with the dataset header.
// A row may be shorter or longer than the header: cells past the end of a short row read as null.
type Row []Value

// At returns the value at position i, or null if the row is too short
func (r Row) At(i int) Value {
	if i < 0 || i >= len(r) {
		return Null()
	}
	return r[i]
}

// Aligned returns a copy of the row padded with nulls (or truncated) to width n
func (r Row) Aligned(n int) Row {
	res := make(Row, n)
	copy(res, r)
	return res
}

// Key returns an unambiguous identity string for the values at the given positions.
// If positions is nil, the whole row is used.
func (r Row) Key(positions []int) string {
	var sb strings.Builder
	if positions == nil {
		for _, v := range r {
			sb.WriteString(v.identity())
			sb.WriteByte('|')
		}
		return sb.String()
	}
	for _, p := range positions {
		sb.WriteString(r.At(p).identity())
		sb.WriteByte('|')
	}
	return sb.String()
}

// Dataset is a header plus an ordered list of rows.
// Pipeline stages never mutate a Dataset; each stage builds a new one.
type Dataset struct {
	header []string
	rows   []Row
}

// NewDataset creates a dataset, taking a copy of the header and row list
func NewDataset(header []string, rows []Row) *Dataset {
	h := make([]string, len(header))
	copy(h, header)
	r := make([]Row, len(rows))
	copy(r, rows)
	return &Dataset{header: h, rows: r}
}

// Header returns a copy of the column names
func (d *Dataset) Header() []string {
	res := make([]string, len(d.header))
	copy(res, d.header)
	return res
}

// Rows returns a copy of the row list. The rows themselves are shared and must not be modified.
func (d *Dataset) Rows() []Row {
	res := make([]Row, len(d.rows))
	copy(res, d.rows)
	return res
}

func (d *Dataset) Len() int {
	return len(d.rows)
}

func (d *Dataset) Width() int {
	return len(d.header)
}

func (d *Dataset) Row(i int) Row {
	return d.rows[i]
}

// ColumnIndex returns the first position of the named column, or -1 if it is absent.
// Duplicate header names are distinct positions; lookup by name always resolves to the first.
func (d *Dataset) ColumnIndex(name string) int {
	for i, c := range d.header {
		if c == name {
			return i
		}
	}
	return -1
}

// LastColumnIndex returns the last position of the named column, or -1 if it is absent.
// Derived columns are appended after the input columns, so this resolves a derived
// column even when the input already has a column of the same name.
func (d *Dataset) LastColumnIndex(name string) int {
	for i := len(d.header) - 1; i >= 0; i-- {
		if d.header[i] == name {
			return i
		}
	}
	return -1
}

func (d *Dataset) HasColumn(name string) bool {
	return d.ColumnIndex(name) != -1
}

// Value returns the named cell of the row, or null if the column is absent or the row is short
func (d *Dataset) Value(row Row, column string) Value {
	return row.At(d.ColumnIndex(column))
}

// Positions resolves a list of column names to header positions (-1 for absent columns).
// A nil or empty list resolves to nil, meaning "the whole row".
func (d *Dataset) Positions(columns []string) []int {
	if len(columns) == 0 {
		return nil
	}
	res := make([]int, len(columns))
	for i, c := range columns {
		res[i] = d.ColumnIndex(c)
	}
	return res
}
