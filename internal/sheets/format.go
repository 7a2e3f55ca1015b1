package sheets

import (
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/shedtally/internal/export"
)

var (
	headerBackground = &sheets.Color{Red: 0.85, Green: 0.88, Blue: 0.95, Alpha: 1.0}
	borderColor      = &sheets.Color{Red: 0.65, Green: 0.65, Blue: 0.65, Alpha: 1.0}
)

// FormatRequests builds the formatting for a written sheet: centred cells,
// bold shaded title and header rows, borders around each table block and
// auto-sized columns.
func FormatRequests(sheetID int64, s export.Sheet) []*sheets.Request {
	width := int64(s.Width())
	if width == 0 || len(s.Rows) == 0 {
		return nil
	}

	requests := []*sheets.Request{
		// Center everything
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    0,
					EndRowIndex:      int64(len(s.Rows)),
					StartColumnIndex: 0,
					EndColumnIndex:   width,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						HorizontalAlignment: "CENTER",
						VerticalAlignment:   "MIDDLE",
					},
				},
				Fields: "userEnteredFormat.horizontalAlignment,userEnteredFormat.verticalAlignment",
			},
		},
	}

	for i, row := range s.Rows {
		if !row.Kind.Bold() || len(row.Cells) == 0 {
			continue
		}
		requests = append(requests, &sheets.Request{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    int64(i),
					EndRowIndex:      int64(i + 1),
					StartColumnIndex: 0,
					EndColumnIndex:   int64(len(row.Cells)),
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{
							Bold: true,
						},
						BackgroundColor: headerBackground,
					},
				},
				Fields: "userEnteredFormat.textFormat.bold,userEnteredFormat.backgroundColor",
			},
		})
	}

	for _, b := range blocks(s) {
		solid := &sheets.Border{Style: "SOLID", Color: borderColor}
		requests = append(requests, &sheets.Request{
			UpdateBorders: &sheets.UpdateBordersRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    int64(b.start),
					EndRowIndex:      int64(b.end),
					StartColumnIndex: 0,
					EndColumnIndex:   int64(b.width),
				},
				Top:             solid,
				Bottom:          solid,
				Left:            solid,
				Right:           solid,
				InnerHorizontal: solid,
				InnerVertical:   solid,
			},
		})
	}

	// Auto-resize columns
	requests = append(requests, &sheets.Request{
		AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
			Dimensions: &sheets.DimensionRange{
				SheetId:    sheetID,
				Dimension:  "COLUMNS",
				StartIndex: 0,
				EndIndex:   width,
			},
		},
	})

	return requests
}

type block struct {
	start, end, width int
}

// blocks returns the runs of consecutive non-blank rows.
func blocks(s export.Sheet) []block {
	var out []block
	cur := block{start: -1}
	for i, row := range s.Rows {
		if row.Kind == export.KindBlank || len(row.Cells) == 0 {
			if cur.start >= 0 {
				out = append(out, cur)
				cur = block{start: -1}
			}
			continue
		}
		if cur.start < 0 {
			cur = block{start: i}
		}
		cur.end = i + 1
		cur.width = max(cur.width, len(row.Cells))
	}
	if cur.start >= 0 {
		out = append(out, cur)
	}
	return out
}
