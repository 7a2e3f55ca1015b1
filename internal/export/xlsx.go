package export

import (
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const (
	headerFill   = "#D9E1F2"
	borderColor  = "#A6A6A6"
	minColWidth  = 8
	maxColWidth  = 60
	colWidthPad  = 2
	defaultSheet = "Sheet1"
)

// EncodeXLSX renders a sheet as an xlsx workbook with one worksheet. Every
// non-blank cell is bordered and centred; title and header rows are bold and
// shaded; each column is as wide as its longest text.
func EncodeXLSX(s Sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	name := sheetName(s.Name, defaultSheet)
	if err := f.SetSheetName(defaultSheet, name); err != nil {
		return nil, fmt.Errorf("failed to name worksheet: %w", err)
	}

	border := []excelize.Border{
		{Type: "left", Color: borderColor, Style: 1},
		{Type: "right", Color: borderColor, Style: 1},
		{Type: "top", Color: borderColor, Style: 1},
		{Type: "bottom", Color: borderColor, Style: 1},
	}
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}

	plainStyle, err := f.NewStyle(&excelize.Style{Border: border, Alignment: center})
	if err != nil {
		return nil, fmt.Errorf("failed to create cell style: %w", err)
	}
	boldStyle, err := f.NewStyle(&excelize.Style{
		Border:    border,
		Alignment: center,
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFill}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	widths := ColumnWidths(s)
	for r, row := range s.Rows {
		if row.Kind == KindBlank || len(row.Cells) == 0 {
			continue
		}
		style := plainStyle
		if row.Kind.Bold() {
			style = boldStyle
		}
		for c, value := range row.Cells {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(name, cell, value); err != nil {
				return nil, fmt.Errorf("failed to set %s: %w", cell, err)
			}
			if err := f.SetCellStyle(name, cell, cell, style); err != nil {
				return nil, fmt.Errorf("failed to style %s: %w", cell, err)
			}
		}
	}

	for c, w := range widths {
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(name, col, col, float64(w)); err != nil {
			return nil, fmt.Errorf("failed to size column %s: %w", col, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ColumnWidths returns the width of each column in characters, from the longest
// text in that column plus padding. Title rows span the table and are ignored.
func ColumnWidths(s Sheet) []int {
	widths := make([]int, s.Width())
	for i := range widths {
		widths[i] = minColWidth
	}
	for _, row := range s.Rows {
		if row.Kind == KindTitle {
			continue
		}
		for c, value := range row.Cells {
			widths[c] = max(widths[c], min(utf8.RuneCountInString(value)+colWidthPad, maxColWidth))
		}
	}
	return widths
}
