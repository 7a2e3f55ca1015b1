package sheets

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/shedtally/internal/export"
)

func testSheet() export.Sheet {
	return export.Sheet{
		Name: "Glenorchy_14-03-2025",
		Rows: []export.Row{
			{Kind: export.KindMeta, Cells: []string{"Station", "Glenorchy"}},
			{Kind: export.KindBlank},
			{Kind: export.KindTitle, Cells: []string{export.TitleShearerCounts}},
			{Kind: export.KindHeader, Cells: []string{"Count", "Alice", "Bob", "Total", "Sheep Type"}},
			{Kind: export.KindData, Cells: []string{"1", "100", "80", "180", "Ewes"}},
			{Kind: export.KindData, Cells: []string{"Total", "100", "80", "180", ""}},
			{Kind: export.KindBlank},
			{Kind: export.KindTitle, Cells: []string{export.TitleShedStaff}},
			{Kind: export.KindData, Cells: []string{"=HYPERLINK(\"x\")", "8"}},
		},
	}
}

func TestSheetValues(t *testing.T) {
	values := SheetValues(testSheet())

	require.Len(t, values, 9)
	assert.Equal(t, []any{"Station", "Glenorchy"}, values[0])
	assert.Empty(t, values[1])
	assert.Equal(t, []any{"'=HYPERLINK(\"x\")", "8"}, values[8])
}

func TestBlocks(t *testing.T) {
	got := blocks(testSheet())

	assert.Equal(t, []block{
		{start: 0, end: 1, width: 2},
		{start: 2, end: 6, width: 5},
		{start: 7, end: 9, width: 2},
	}, got)
}

func TestFormatRequests(t *testing.T) {
	requests := FormatRequests(42, testSheet())

	// centre + 3 bold rows + 3 bordered blocks + auto-resize
	require.Len(t, requests, 8)

	centre := requests[0].RepeatCell
	require.NotNil(t, centre)
	assert.Equal(t, int64(42), centre.Range.SheetId)
	assert.Equal(t, int64(9), centre.Range.EndRowIndex)
	assert.Equal(t, int64(5), centre.Range.EndColumnIndex)
	assert.Equal(t, "CENTER", centre.Cell.UserEnteredFormat.HorizontalAlignment)

	header := requests[2].RepeatCell
	require.NotNil(t, header)
	assert.Equal(t, int64(3), header.Range.StartRowIndex)
	assert.Equal(t, int64(5), header.Range.EndColumnIndex)
	assert.True(t, header.Cell.UserEnteredFormat.TextFormat.Bold)

	borders := requests[5].UpdateBorders
	require.NotNil(t, borders)
	assert.Equal(t, int64(2), borders.Range.StartRowIndex)
	assert.Equal(t, int64(6), borders.Range.EndRowIndex)
	assert.Equal(t, "SOLID", borders.InnerVertical.Style)

	resize := requests[7].AutoResizeDimensions
	require.NotNil(t, resize)
	assert.Equal(t, "COLUMNS", resize.Dimensions.Dimension)
	assert.Equal(t, int64(5), resize.Dimensions.EndIndex)
}

func TestFormatRequests_EmptySheet(t *testing.T) {
	assert.Nil(t, FormatRequests(0, export.Sheet{Name: "empty"}))
}

func TestA1(t *testing.T) {
	tests := []struct {
		tab   string
		cells string
		want  string
	}{
		{"Glenorchy_14-03-2025", "A1", "'Glenorchy_14-03-2025'!A1"},
		{"O'Brien Station", "A:ZZ", "'O''Brien Station'!A:ZZ"},
	}

	for _, tt := range tests {
		t.Run(tt.tab, func(t *testing.T) {
			assert.Equal(t, tt.want, a1(tt.tab, tt.cells))
		})
	}
}

func TestTabTitle(t *testing.T) {
	assert.Equal(t, "Shearers", tabTitle(export.Sheet{Name: " Shearers "}))
	assert.Equal(t, "Tally", tabTitle(export.Sheet{}))
}

func TestSpreadsheetURL(t *testing.T) {
	assert.Equal(t,
		"https://docs.google.com/spreadsheets/d/abc123/edit#gid=7",
		SpreadsheetURL("abc123", 7))
}

func TestMockWriter(t *testing.T) {
	mock := NewMockWriter()
	ctx := context.Background()

	url, err := mock.Write(ctx, testSheet())
	require.NoError(t, err)
	assert.Equal(t, "mock://sheets/Glenorchy_14-03-2025", url)
	mock.AssertWriteCalled(t, 1)
	require.NotNil(t, mock.LastSheet)
	assert.Equal(t, "Glenorchy_14-03-2025", mock.LastSheet.Name)

	errQuota := errors.New("quota exceeded")
	mock.SetWriteError(errQuota)
	_, err = mock.Write(ctx, testSheet())
	assert.ErrorIs(t, err, errQuota)

	calls := mock.GetWriteCalls()
	require.Len(t, calls, 2)
	assert.ErrorIs(t, calls[1].Error, errQuota)

	mock.Reset()
	mock.AssertWriteCalled(t, 0)
	assert.Nil(t, mock.LastSheet)
}

func TestNewWriter_InvalidConfig(t *testing.T) {
	_, err := NewWriter(context.Background(), Config{BatchSize: 10}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestOAuth2Config_RedirectURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8080/callback", OAuth2Config{}.redirectURL())
	assert.Equal(t, "http://localhost:9090/callback", OAuth2Config{CallbackPort: 9090}.redirectURL())
}
