package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Veraticus/shedtally/internal/codec"
	"github.com/Veraticus/shedtally/internal/export"
	"github.com/Veraticus/shedtally/internal/storage"
)

// RenderSheet prints a sheet to w: metadata rows as a key/value table and
// every titled section as its own table.
func RenderSheet(w io.Writer, sheet export.Sheet) error {
	var (
		tw    table.Writer
		title string
		out   []string
	)

	flush := func() {
		if tw == nil {
			return
		}
		if title != "" {
			out = append(out, StyleTitle(title))
		}
		out = append(out, tw.Render(), "")
		tw = nil
		title = ""
	}
	current := func() table.Writer {
		if tw == nil {
			tw = table.NewWriter()
			tw.SetStyle(table.StyleLight)
			// Headers carry shearer names; keep their case.
			tw.Style().Format.Header = text.FormatDefault
		}
		return tw
	}

	for _, row := range sheet.Rows {
		switch row.Kind {
		case export.KindBlank:
			flush()
		case export.KindTitle:
			flush()
			title = strings.Join(row.Cells, " ")
		case export.KindHeader:
			current().AppendHeader(cellsRow(row.Cells))
		default:
			current().AppendRow(cellsRow(row.Cells))
		}
	}
	flush()

	_, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(out, "\n"), "\n"))
	return err
}

// StyleTitle formats text as a section title.
func StyleTitle(text string) string {
	return TitleStyle.UnsetMargins().Render(text)
}

func cellsRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

// SessionsTable returns a table listing stored sessions.
func SessionsTable(docs []codec.Document) (tw table.Writer) {
	tw = table.NewWriter()

	if len(docs) > 0 {
		tw.AppendHeader(table.Row{
			"DATE",
			"STATION",
			"TEAM LEADER",
			"STANDS",
			"SHEEP",
			"SAVED",
		})

		for _, doc := range docs {
			total := 0
			for _, rec := range doc.Records() {
				total += rec.Count
			}
			saved := ""
			if !doc.SavedAt.IsZero() {
				saved = doc.SavedAt.Local().Format("2006-01-02 15:04")
			}
			tw.AppendRow(table.Row{
				doc.Date,
				doc.StationName,
				doc.TeamLeader,
				len(doc.Stands),
				total,
				saved,
			})
		}
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},  // DATE
		{Number: 2, Align: text.AlignLeft},  // STATION
		{Number: 3, Align: text.AlignLeft},  // TEAM LEADER
		{Number: 4, Align: text.AlignRight}, // STANDS
		{Number: 5, Align: text.AlignRight}, // SHEEP
		{Number: 6, Align: text.AlignLeft},  // SAVED
	})

	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Header = text.FormatDefault

	return tw
}

// BackupsTable returns a table listing database backups, newest first as given.
func BackupsTable(backups []storage.BackupInfo) (tw table.Writer) {
	tw = table.NewWriter()

	if len(backups) > 0 {
		tw.AppendHeader(table.Row{
			"ID",
			"CREATED",
			"SESSIONS",
			"SIZE",
			"KIND",
			"DESCRIPTION",
		})

		for _, b := range backups {
			kind := "manual"
			if b.IsAuto {
				kind = "auto"
			}
			tw.AppendRow(table.Row{
				b.ID,
				b.CreatedAt.Local().Format("2006-01-02 15:04"),
				b.Sessions,
				FormatSize(b.FileSize),
				kind,
				b.Description,
			})
		}
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},  // SESSIONS
		{Number: 4, Align: text.AlignRight},  // SIZE
		{Number: 5, Align: text.AlignCenter}, // KIND
	})

	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Header = text.FormatDefault

	return tw
}

// FormatSize renders a byte count for humans, e.g. "1.5 MB".
func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return strconv.FormatInt(bytes, 10) + " B"
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
