package tui

import (
	"github.com/Veraticus/shedtally/internal/engine"
)

type savedMsg struct {
	err    error
	result engine.SaveResult
}

type exportedMsg struct {
	err     error
	results []engine.ExportResult
}

// Mode is what the editor is doing with key presses.
type Mode int

const (
	// ModeNavigate moves between cells.
	ModeNavigate Mode = iota
	// ModeEdit types into the focused cell.
	ModeEdit
	// ModeConfirmSave asks whether to save a sheet with empty parts.
	ModeConfirmSave
)
