package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/shedtally/internal/codec"
	"github.com/Veraticus/shedtally/internal/export"
	"github.com/Veraticus/shedtally/internal/grid"
)

func saveCmd(ctx context.Context, sessions Sessions, state grid.State) tea.Cmd {
	return func() tea.Msg {
		result, err := sessions.Save(ctx, state)
		return savedMsg{result: result, err: err}
	}
}

func exportCmd(ctx context.Context, sessions Sessions, state grid.State, formats []export.Format) tea.Cmd {
	return func() tea.Msg {
		sess := codec.ToSession(state)
		results, err := sessions.ExportSheet(ctx, export.SessionSheet(sess), sess.StationName, sess.Date, formats)
		return exportedMsg{results: results, err: err}
	}
}
