package table

import (
	"strconv"
	"strings"
	"time"
)

type ValueKind int

const (
	KindNull ValueKind = iota
	KindString
	KindNumber
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	default:
		return "null"
	}
}

// Value is a single cell: null, a string or a number.
// Two values are equal only if both kind and content match, so "1" and 1 are distinct.
type Value struct {
	kind ValueKind
	str  string
	num  float64
}

func Null() Value {
	return Value{}
}

func String(s string) Value {
	return Value{kind: KindString, str: s}
}

func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

func Int(i int) Value {
	return Number(float64(i))
}

func (v Value) Kind() ValueKind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// String renders the value as it is written to CSV - null renders as the empty string
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return ""
	}
}

// Float returns the numeric content of the value.
// String values are parsed; null and non-numeric strings return false.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// dateLayouts are the layouts accepted for date-like columns, most specific first
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"20060102",
}

// Time parses the value as a date or timestamp
func (v Value) Time() (time.Time, bool) {
	if v.kind != KindString {
		return time.Time{}, false
	}
	s := strings.TrimSpace(v.str)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Equal returns true if both values have the same kind and content
func (v Value) Equal(other Value) bool {
	return v.kind == other.kind && v.str == other.str && v.num == other.num
}

// identity returns a kind-tagged, unambiguous encoding of the value used for key comparison
func (v Value) identity() string {
	switch v.kind {
	case KindString:
		return "s" + strconv.Quote(v.str)
	case KindNumber:
		return "n" + strconv.FormatFloat(v.num, 'g', -1, 64)
	default:
		return "_"
	}
}
