package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run opens the sheet editor and blocks until the user quits. It returns the
// sheet as it was when the editor closed.
func Run(ctx context.Context, opts ...Option) (Model, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Sessions == nil {
		return Model{}, errSessionsRequired
	}

	program := tea.NewProgram(newModel(ctx, cfg),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	final, err := program.Run()
	if err != nil {
		return Model{}, fmt.Errorf("TUI error: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return Model{}, fmt.Errorf("TUI returned unexpected model %T", final)
	}
	return m, nil
}

// Dirty reports whether the sheet has changes that were not saved.
func (m Model) Dirty() bool {
	return m.dirty
}
