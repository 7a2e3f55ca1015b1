package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "empty", input: "", want: 0},
		{name: "whitespace", input: "   ", want: 0},
		{name: "plain number", input: "42", want: 42},
		{name: "padded number", input: " 17 ", want: 17},
		{name: "negative accepted", input: "-3", want: -3},
		{name: "leading digits", input: "12 ewes", want: 12},
		{name: "decimal truncated", input: "12.7", want: 12},
		{name: "text", input: "abc", want: 0},
		{name: "sign only", input: "-", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCount(tt.input))
		})
	}
}

func TestTally_UnmarshalJSON(t *testing.T) {
	var row CountRow
	err := json.Unmarshal([]byte(`{"stands":["10", 20, null, ""],"sheepType":"Ewes","total":30}`), &row)
	require.NoError(t, err)

	assert.Equal(t, []Tally{"10", "20", "", ""}, row.Stands)
	assert.Equal(t, 20, row.Stands[1].Count())
	assert.True(t, row.Stands[2].IsEmpty())
}

func TestShedStaffEntry_LegacyHoursKey(t *testing.T) {
	var staff []ShedStaffEntry
	err := json.Unmarshal([]byte(`[{"name":"Kim","hours":"8"},{"name":"Lee","hoursWorked":7.5},{"name":"Max"}]`), &staff)
	require.NoError(t, err)

	require.Len(t, staff, 3)
	assert.Equal(t, Hours("8"), staff[0].Hours)
	assert.Equal(t, Hours("7.5"), staff[1].Hours)
	assert.True(t, staff[2].Hours.IsEmpty())
	assert.True(t, decimal.RequireFromString("7.5").Equal(staff[1].Hours.Decimal()))
	assert.True(t, staff[2].Hours.Decimal().IsZero())
}

func TestStand_UnmarshalJSON(t *testing.T) {
	var stands []Stand
	err := json.Unmarshal([]byte(`[{"index":1,"name":"Alice"},{"index":"2","name":"Bob"},"Cara"]`), &stands)
	require.NoError(t, err)

	assert.Equal(t, []Stand{
		{Index: 1, Name: "Alice"},
		{Index: 2, Name: "Bob"},
		{Index: 0, Name: "Cara"},
	}, stands)
}

func TestStand_DisplayName(t *testing.T) {
	assert.Equal(t, "Alice", Stand{Index: 1, Name: " Alice "}.DisplayName())
	assert.Equal(t, "Stand 3", Stand{Index: 3}.DisplayName())
}

func TestTimeSystem(t *testing.T) {
	assert.Equal(t, 4, TimeSystemEightHour.ScaffoldRows())
	assert.Equal(t, 5, TimeSystemNineHour.ScaffoldRows())
	assert.Equal(t, 4, TimeSystem("").ScaffoldRows())
	assert.Equal(t, TimeSystemNineHour, TimeSystemFor(true))
	assert.Equal(t, TimeSystemEightHour, TimeSystemFor(false))
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		want  time.Time
		name  string
		input string
		ok    bool
	}{
		{name: "iso date", input: "2025-01-10", want: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "rfc3339 keeps calendar date", input: "2025-06-01T23:30:00+12:00", want: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "empty", input: "", ok: false},
		{name: "garbage", input: "10/01/2025", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %v", got)
			}
		})
	}
}

func TestSessionKey(t *testing.T) {
	a := Session{Date: "2025-01-10", StationName: " Glenorchy "}
	b := Session{Date: "2025-01-10", StationName: "glenorchy"}
	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, "2025-01-10/glenorchy", a.Key().String())
}

func TestCountRow_Sum(t *testing.T) {
	row := CountRow{Stands: []Tally{"10", "", "7b", "x"}, Total: 999}
	assert.Equal(t, 17, row.Sum())
	assert.Zero(t, CountRow{}.Sum())
}

func TestSumSheepTypes(t *testing.T) {
	got := SumSheepTypes([]string{"Ewes", "", " Lambs", "Ewes "}, []int{10, 2, 5, 3})
	assert.Equal(t, []SheepTypeTotal{
		{Type: "Ewes", Total: 13},
		{Type: "Lambs", Total: 5},
		{Type: SheepTypeTotalLabel, Total: 20},
	}, got)

	assert.Equal(t, []SheepTypeTotal{{Type: SheepTypeTotalLabel}}, SumSheepTypes(nil, nil))
}
