// Package filter selects the subset of dataset rows matching a set of predicates
package filter

import (
	"fmt"
	"strings"

	"github.com/turbot/pipe-fittings/utils"
	"github.com/turbot/tailpipe-cleanse/table"
)

// Predicate decides whether a row of a dataset is retained
type Predicate interface {
	Match(d *table.Dataset, row table.Row) bool
	fmt.Stringer
}

// Apply returns the rows of d matching every predicate, in their original order.
// With no predicates the dataset is returned unchanged.
func Apply(d *table.Dataset, predicates ...Predicate) *table.Dataset {
	if len(predicates) == 0 {
		return d
	}
	var res []table.Row
	for _, row := range d.Rows() {
		if matchAll(d, row, predicates) {
			res = append(res, row)
		}
	}
	return table.NewDataset(d.Header(), res)
}

func matchAll(d *table.Dataset, row table.Row, predicates []Predicate) bool {
	for _, p := range predicates {
		if !p.Match(d, row) {
			return false
		}
	}
	return true
}

// InPredicate matches rows whose column value is a member of an allow-list.
// Rows where the column is absent or null never match.
type InPredicate struct {
	Column string
	values map[string]struct{}
	list   []string
}

func In(column string, values ...string) *InPredicate {
	return &InPredicate{Column: column, values: utils.SliceToLookup(values), list: values}
}

func (p *InPredicate) Match(d *table.Dataset, row table.Row) bool {
	v := d.Value(row, p.Column)
	if v.IsNull() {
		return false
	}
	_, ok := p.values[v.String()]
	return ok
}

func (p *InPredicate) String() string {
	return fmt.Sprintf("%s in (%s)", p.Column, strings.Join(p.list, ", "))
}

// NotInPredicate matches rows whose column value is present and not in a deny-list
type NotInPredicate struct {
	in *InPredicate
}

func NotIn(column string, values ...string) *NotInPredicate {
	return &NotInPredicate{in: In(column, values...)}
}

func (p *NotInPredicate) Match(d *table.Dataset, row table.Row) bool {
	if d.Value(row, p.in.Column).IsNull() {
		return false
	}
	return !p.in.Match(d, row)
}

func (p *NotInPredicate) String() string {
	return fmt.Sprintf("%s not in (%s)", p.in.Column, strings.Join(p.in.list, ", "))
}
