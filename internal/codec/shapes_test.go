package codec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/shedtally/internal/model"
)

type flat struct {
	name      string
	sheepType string
	count     int
}

func flatten(records []model.TallyRecord) []flat {
	out := make([]flat, 0, len(records))
	for _, r := range records {
		out = append(out, flat{name: r.ShearerName, sheepType: r.SheepType, count: r.Count})
	}
	return out
}

func decodeOne(t *testing.T, data string) Document {
	t.Helper()
	doc, ok := DecodeDocument([]byte(data))
	require.True(t, ok)
	return doc
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		data string
		kind ShapeKind
		want []flat
	}{
		{
			name: "shearer counts",
			data: `{"date":"2025-01-10","stands":[{"index":1,"name":"Alice"},{"index":2,"name":"Bob"}],
				"shearerCounts":[{"stands":["10","20"],"sheepType":"Full Wool"},{"stands":["3",""],"sheepType":"Lambs"}]}`,
			kind: ShapeShearerCounts,
			want: []flat{{"Alice", "Full Wool", 10}, {"Bob", "Full Wool", 20}, {"Alice", "Lambs", 3}},
		},
		{
			name: "flat tallies",
			data: `{"date":"2025-01-10","tallies":[{"shearerName":"Alice","count":12,"sheepType":"Ewes"},{"shearer":"Bob","total":"8"}]}`,
			kind: ShapeFlatTallies,
			want: []flat{{"Alice", "Ewes", 12}, {"Bob", "", 8}},
		},
		{
			name: "shearer runs",
			data: `{"date":"2025-01-10","shearers":[{"name":"Alice","sheepType":"Ewes","runs":[10,"5",{"count":2,"sheepType":"Lambs"}]},{"name":"Bob","total":4}]}`,
			kind: ShapeShearerRuns,
			want: []flat{{"Alice", "Ewes", 10}, {"Alice", "Ewes", 5}, {"Alice", "Lambs", 2}, {"Bob", "", 4}},
		},
		{
			name: "shearer totals",
			data: `{"date":"2025-01-10","shearers":[{"name":"Alice","total":40},{"name":"Bob","total":"33","sheepType":"Hoggets"}]}`,
			kind: ShapeShearerTotals,
			want: []flat{{"Alice", "", 40}, {"Bob", "Hoggets", 33}},
		},
		{
			name: "tally map keeps key order",
			data: `{"date":"2025-01-10","shearerTallies":{"Zed":[1,2],"Alice":[5],"Bob":7}}`,
			kind: ShapeTallyMap,
			want: []flat{{"Zed", "", 1}, {"Zed", "", 2}, {"Alice", "", 5}, {"Bob", "", 7}},
		},
		{
			name: "unknown",
			data: `{"date":"2025-01-10","stationName":"Glenorchy"}`,
			kind: ShapeUnknown,
			want: []flat{},
		},
		{
			name: "shearer counts win over legacy fields",
			data: `{"stands":[{"index":1,"name":"Alice"}],"shearerCounts":[{"stands":["1"]}],"tallies":[{"shearerName":"Bob","count":9}]}`,
			kind: ShapeShearerCounts,
			want: []flat{{"Alice", "", 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := decodeOne(t, tt.data)
			src := Detect(doc)
			assert.Equal(t, tt.kind, src.Kind())
			assert.Equal(t, tt.want, flatten(src.Records()))
		})
	}
}

func TestRecords_SkipsZeroAndBlank(t *testing.T) {
	doc := decodeOne(t, `{"date":"2025-06-01","stands":[{"index":1,"name":"Alice"},{"index":2,"name":"Bob"}],
		"shearerCounts":[{"stands":["5","0"],"sheepType":"crutching"}]}`)

	assert.Equal(t, []flat{{"Alice", "crutching", 5}}, flatten(doc.Records()))

	doc = decodeOne(t, `{"tallies":[{"shearerName":"  ","count":4},{"shearerName":"Ann","count":0}]}`)
	assert.Empty(t, doc.Records())
}

func TestRecords_Dates(t *testing.T) {
	doc := decodeOne(t, `{"date":"2025-01-10","tallies":[{"shearerName":"Alice","count":1},{"shearerName":"Bob","count":1,"date":"2024-12-31"}]}`)
	records := doc.Records()
	require.Len(t, records, 2)

	assert.True(t, records[0].Dated)
	assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), records[0].Date)
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), records[1].Date)

	undated := decodeOne(t, `{"date":"sometime","shearers":[{"name":"Alice","total":3}]}`)
	records = undated.Records()
	require.Len(t, records, 1)
	assert.False(t, records[0].Dated)
}

func TestResolveStandNames(t *testing.T) {
	tests := []struct {
		name   string
		stands []model.Stand
		width  int
		want   []string
	}{
		{
			name:   "one based",
			stands: []model.Stand{{Index: 1, Name: "Alice"}, {Index: 2, Name: "Bob"}},
			width:  2,
			want:   []string{"Alice", "Bob"},
		},
		{
			name:   "zero based",
			stands: []model.Stand{{Index: 0, Name: "Alice"}, {Index: 1, Name: "Bob"}},
			width:  2,
			want:   []string{"Alice", "Bob"},
		},
		{
			name:   "indexes out of order",
			stands: []model.Stand{{Index: 2, Name: "Bob"}, {Index: 1, Name: "Alice"}},
			width:  2,
			want:   []string{"Alice", "Bob"},
		},
		{
			name:   "placeholder names fall back to position",
			stands: []model.Stand{{Index: 1, Name: "Stand 4"}, {Index: 2, Name: " "}},
			width:  2,
			want:   []string{"Stand 1", "Stand 2"},
		},
		{
			name:   "bare name list is positional",
			stands: []model.Stand{{Name: "Alice"}, {Name: "Bob"}},
			width:  2,
			want:   []string{"Alice", "Bob"},
		},
		{
			name:   "rows wider than stand list",
			stands: []model.Stand{{Index: 1, Name: "Alice"}},
			width:  3,
			want:   []string{"Alice", "Stand 2", "Stand 3"},
		},
		{
			name:  "no stands",
			width: 2,
			want:  []string{"Stand 1", "Stand 2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveStandNames(tt.stands, tt.width))
		})
	}
}

func TestIsPlaceholderStandName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"", true},
		{"   ", true},
		{"Stand 3", true},
		{"stand12", true},
		{"STAND  7", true},
		{"Alice", false},
		{"Stand Alice", false},
		{"Stand 3b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPlaceholderStandName(tt.name))
		})
	}
}

func TestDecodeDocuments(t *testing.T) {
	tests := []struct {
		name string
		data string
		want int
	}{
		{name: "array", data: `[{"date":"2025-01-10"},{"date":"2025-01-11"}]`, want: 2},
		{name: "single object", data: `{"date":"2025-01-10"}`, want: 1},
		{name: "bad element skipped", data: `[{"date":"2025-01-10"},{"stands":{"oops":true}}]`, want: 1},
		{name: "corrupt", data: `[{"date":`, want: 0},
		{name: "empty", data: ``, want: 0},
		{name: "not json", data: `hello`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, DecodeDocuments([]byte(tt.data)), tt.want)
		})
	}
}

func TestDecodeDocument_Corrupt(t *testing.T) {
	doc, ok := DecodeDocument([]byte(`{"shearerCounts":`))
	assert.False(t, ok)
	assert.Empty(t, doc.Records())
	assert.Equal(t, ShapeUnknown, Detect(doc).Kind())
}
