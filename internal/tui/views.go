package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/shedtally/internal/cli"
)

const minCellWidth = 7

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.renderHeader(),
		m.renderMeta(),
		m.renderCounts(),
		m.renderStaff(),
		m.renderSheepTypeTotals(),
	}
	if m.mode == ModeEdit && len(m.suggestions) > 0 {
		sections = append(sections, m.theme.Label.Render("Suggestions: ")+strings.Join(m.suggestions, "  "))
	}
	if m.mode == ModeConfirmSave {
		sections = append(sections, m.renderConfirm())
	}
	sections = append(sections, m.renderStatusBar(), m.help.View(m.keymap))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render(cli.SheepIcon + " Tally Sheet")
	workday := m.theme.Subtitle.Render("[" + string(m.state.TimeSystem()) + " day]")
	if m.dirty {
		workday += m.theme.StatusWarning.Render(" *")
	}
	return title + "  " + workday
}

func (m Model) renderMeta() string {
	labelWidth := 0
	for _, f := range metaFields {
		labelWidth = max(labelWidth, lipgloss.Width(f.label))
	}

	rows := make([]string, len(metaFields))
	for i, f := range metaFields {
		label := m.theme.Label.Render(pad(f.label, labelWidth))
		rows[i] = label + "  " + m.renderCell(i, 0, f.get(m.state.Meta), 20, "")
	}
	return m.theme.RoundedBox.Render(strings.Join(rows, "\n"))
}

// renderCounts renders the stand names, the count rows with their totals and
// sheep types, and the column totals.
func (m Model) renderCounts() string {
	s := m.state
	standsLine := len(metaFields)
	cellWidth := minCellWidth
	for i := range s.Stands {
		cellWidth = max(cellWidth, lipgloss.Width(s.StandName(i)))
	}

	var b strings.Builder

	header := []string{m.theme.Label.Render(pad("Count", 6))}
	for c := range s.Stands {
		header = append(header, m.renderCell(standsLine, c, s.Stands[c], cellWidth, s.StandName(c)))
	}
	header = append(header, m.theme.Label.Render(pad("Total", cellWidth)), m.theme.Label.Render("Sheep Type"))
	b.WriteString(strings.Join(header, " "))

	for r, row := range s.Rows {
		line := standsLine + 1 + r
		cells := []string{m.theme.Label.Render(pad(strconv.Itoa(r+1), 6))}
		for c := range s.Stands {
			cells = append(cells, m.renderCell(line, c, string(s.Cell(r, c)), cellWidth, ""))
		}
		total := ""
		if r < len(s.Totals.Rows) {
			total = strconv.Itoa(s.Totals.Rows[r])
		}
		cells = append(cells,
			m.theme.Total.Render(pad(total, cellWidth)),
			m.renderCell(line, len(s.Stands), row.SheepType, 14, "sheep type"))
		b.WriteString("\n" + strings.Join(cells, " "))
	}

	totals := []string{m.theme.Bold.Render(pad("Total", 6))}
	for c := range s.Stands {
		col := 0
		if c < len(s.Totals.Columns) {
			col = s.Totals.Columns[c]
		}
		totals = append(totals, m.theme.Total.Render(pad(strconv.Itoa(col), cellWidth)))
	}
	totals = append(totals, m.theme.Total.Render(pad(strconv.Itoa(s.Totals.Grand), cellWidth)))
	b.WriteString("\n" + strings.Join(totals, " "))

	return m.theme.RoundedBox.Render(b.String())
}

func (m Model) renderStaff() string {
	s := m.state
	var b strings.Builder
	b.WriteString(m.theme.Bold.Render("Shed Staff"))
	if len(s.Staff) == 0 {
		b.WriteString("\n" + m.theme.Placeholder.Render("none, press a to add"))
	}
	first := len(metaFields) + 1 + len(s.Rows)
	for i, entry := range s.Staff {
		hours := string(entry.Hours)
		b.WriteString("\n" +
			m.renderCell(first+i, 0, entry.Name, 20, "name") + " " +
			m.renderCell(first+i, 1, hours, 8, string(s.Totals.StaffDefault)))
	}
	return m.theme.RoundedBox.Render(b.String())
}

func (m Model) renderSheepTypeTotals() string {
	totals := m.state.Totals.SheepTypes
	if len(totals) == 0 {
		return ""
	}
	parts := make([]string, 0, len(totals))
	for _, t := range totals {
		parts = append(parts, m.theme.Label.Render(t.Type+": ")+m.theme.Total.Render(strconv.Itoa(t.Total)))
	}
	return strings.Join(parts, "   ")
}

func (m Model) renderConfirm() string {
	lines := []string{m.theme.StatusWarning.Render("This sheet has empty parts that will not be saved:")}
	for _, l := range cli.DescribeAdvisory(m.advisory) {
		lines = append(lines, "  "+l)
	}
	lines = append(lines, m.theme.Bold.Render("Save anyway? (y/n)"))
	return strings.Join(lines, "\n")
}

func (m Model) renderStatusBar() string {
	if m.status.text == "" {
		return ""
	}
	switch m.status.kind {
	case statusSuccess:
		return m.theme.StatusSuccess.Render(m.status.text)
	case statusWarning:
		return m.theme.StatusWarning.Render(m.status.text)
	case statusError:
		return m.theme.StatusError.Render(m.status.text)
	default:
		return m.theme.StatusInfo.Render(m.status.text)
	}
}

// renderCell draws one editable cell, showing the text input when it is being
// edited and placeholder when it is empty.
func (m Model) renderCell(line, col int, text string, w int, placeholder string) string {
	focused := m.cursor.line == line && m.cursor.col == col
	if focused && m.mode == ModeEdit {
		return m.theme.Editing.Render(pad(m.input.View(), w))
	}

	style := m.theme.Normal
	if text == "" && placeholder != "" {
		text = placeholder
		style = m.theme.Placeholder
	}
	if focused {
		style = m.theme.Selected
	}
	return style.Render(pad(text, w))
}

// pad right-pads s to w terminal cells.
func pad(s string, w int) string {
	if n := lipgloss.Width(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}
