package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Veraticus/shedtally/internal/model"
)

// Format is an export file format.
type Format string

// Supported export formats.
const (
	FormatCSV    Format = "csv"
	FormatXLSX   Format = "xlsx"
	FormatSheets Format = "sheets"
)

// ParseFormat validates a format name.
func ParseFormat(value string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(value))); f {
	case FormatCSV, FormatXLSX, FormatSheets:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want csv, xlsx or sheets)", value)
	}
}

// ContentType returns the MIME type of a file format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// FallbackBasename names exports without a station or date.
const FallbackBasename = "shearing_tally"

// Filename derives "{station}_{dd-mm-yyyy}.{ext}" from a station name and an
// ISO date, or the fallback name when either is missing.
func Filename(station, isoDate, ext string) string {
	station = strings.TrimSpace(station)
	date, ok := model.ParseDate(isoDate)
	if station == "" || !ok {
		return FallbackBasename + "." + ext
	}
	station = strings.NewReplacer("/", "-", `\`, "-").Replace(station)
	return fmt.Sprintf("%s_%s.%s", station, date.Format("02-01-2006"), ext)
}

// EncodeCSV renders a sheet as CSV: every field is quoted with inner quotes
// doubled, fields are comma separated and rows are joined by CRLF.
func EncodeCSV(s Sheet) []byte {
	var buf bytes.Buffer
	for i, row := range s.Rows {
		if i > 0 {
			buf.WriteString("\r\n")
		}
		for j, cell := range row.Cells {
			if j > 0 {
				buf.WriteByte(',')
			}
			buf.WriteByte('"')
			buf.WriteString(strings.ReplaceAll(cell, `"`, `""`))
			buf.WriteByte('"')
		}
	}
	return buf.Bytes()
}
