package tui

import (
	"context"

	"github.com/Veraticus/shedtally/internal/engine"
	"github.com/Veraticus/shedtally/internal/export"
	"github.com/Veraticus/shedtally/internal/grid"
	"github.com/Veraticus/shedtally/internal/tui/themes"
)

// Sessions is what the sheet editor needs from the engine.
type Sessions interface {
	Save(ctx context.Context, state grid.State) (engine.SaveResult, error)
	LoadPrevious() (grid.State, bool)
	ExportSheet(ctx context.Context, sheet export.Sheet, station, isoDate string, formats []export.Format) ([]engine.ExportResult, error)
}

// Suggester completes sheep types from earlier sessions.
type Suggester interface {
	Suggest(prefix string, limit int) []string
}

// Config holds TUI configuration.
type Config struct {
	Theme       themes.Theme
	Sessions    Sessions
	Suggester   Suggester
	Initial     grid.State
	Formats     []export.Format
	Width       int
	Height      int
	Suggestions int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:       themes.Default,
		Initial:     grid.Empty(),
		Formats:     []export.Format{export.FormatCSV},
		Width:       80,
		Height:      24,
		Suggestions: 5,
	}
}

// WithSessions sets where sheets are saved and exported.
func WithSessions(sessions Sessions) Option {
	return func(c *Config) {
		c.Sessions = sessions
	}
}

// WithSuggester sets the sheep type completion source.
func WithSuggester(suggester Suggester) Option {
	return func(c *Config) {
		c.Suggester = suggester
	}
}

// WithState opens the editor on an existing sheet.
func WithState(state grid.State) Option {
	return func(c *Config) {
		c.Initial = state
	}
}

// WithFormats sets the export formats used by the export key.
func WithFormats(formats ...export.Format) Option {
	return func(c *Config) {
		if len(formats) > 0 {
			c.Formats = formats
		}
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// Confirmed is the save confirmer used with the sheet editor, which asks
// about empty parts itself before it saves.
type Confirmed struct{}

// ConfirmSave always accepts.
func (Confirmed) ConfirmSave(context.Context, grid.Advisory) (bool, error) {
	return true, nil
}
