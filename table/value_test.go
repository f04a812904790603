package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValue_Equal(t *testing.T) {
	assert.False(t, String("1").Equal(Number(1)), "string and number must be distinct")
	assert.True(t, String("1").Equal(String("1")))
	assert.True(t, Null().Equal(Null()))
	assert.False(t, Null().Equal(String("")))
}

func TestValue_Float(t *testing.T) {
	tests := []struct {
		name   string
		value  Value
		want   float64
		wantOk bool
	}{
		{name: "number", value: Number(-3.5), want: -3.5, wantOk: true},
		{name: "numeric string", value: String(" 42 "), want: 42, wantOk: true},
		{name: "non numeric string", value: String("n/a"), wantOk: false},
		{name: "null", value: Null(), wantOk: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.value.Float()
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValue_Time(t *testing.T) {
	tests := []struct {
		name   string
		value  Value
		want   time.Time
		wantOk bool
	}{
		{name: "iso date", value: String("2021-03-04"), want: time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC), wantOk: true},
		{name: "rfc3339", value: String("2021-03-04T10:00:00Z"), want: time.Date(2021, 3, 4, 10, 0, 0, 0, time.UTC), wantOk: true},
		{name: "us date", value: String("03/04/2021"), want: time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC), wantOk: true},
		{name: "garbage", value: String("yesterday"), wantOk: false},
		{name: "null", value: Null(), wantOk: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.value.Time()
			assert.Equal(t, tt.wantOk, ok)
			if ok {
				assert.True(t, tt.want.Equal(got), "got %s", got)
			}
		})
	}
}

func TestRow_Key(t *testing.T) {
	a := Row{String("a"), String("1")}
	b := Row{String("a"), Number(1)}
	c := Row{String("a|s"), String("1")}

	assert.NotEqual(t, a.Key(nil), b.Key(nil))
	assert.NotEqual(t, a.Key(nil), c.Key(nil))
	assert.Equal(t, a.Key([]int{0}), b.Key([]int{0}))
	assert.NotEqual(t, Row{String("a")}.Key(nil), Row{String("a"), Null()}.Key(nil))
	// out of range positions read as null
	assert.Equal(t, Row{String("a")}.Key([]int{0, 5}), Row{String("a"), Null()}.Key([]int{0, 1}))
}
