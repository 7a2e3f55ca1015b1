package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/shedtally/internal/cli"
	"github.com/Veraticus/shedtally/internal/common"
	"github.com/Veraticus/shedtally/internal/config"
	"github.com/Veraticus/shedtally/internal/grid"
	"github.com/Veraticus/shedtally/internal/tui"
)

func sheetCmd() *cobra.Command {
	var (
		stands       int
		rows         int
		staff        int
		nineHour     bool
		loadPrevious bool
		load         []string
	)

	cmd := &cobra.Command{
		Use:   "sheet",
		Short: "Open the tally sheet editor",
		Long: `Open the interactive tally sheet for a day's shearing.

Start from a blank sheet sized with --stands, --rows and --staff, reopen the
last sheet saved on this machine with --load-previous, or edit a stored
session with --load DATE,STATION.`,
		Example: `  # A four stand, nine hour day with two shed hands
  tally sheet --stands 4 --staff 2 --nine-hour

  # Carry on from yesterday's sheet
  tally sheet --load-previous

  # Correct a stored sheet
  tally sheet --load 2025-03-14,Glenorchy`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			formats, err := formatsFromFlags(cmd)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			eng, cache, err := initEngine(ctx, store, engineOptions{confirmer: tui.Confirmed{}, formats: formats})
			if err != nil {
				return err
			}

			state := grid.New(grid.Setup{Stands: stands, Rows: rows, Staff: staff, NineHour: nineHour})
			switch {
			case len(load) > 0:
				key, err := sessionKey(load)
				if err != nil {
					return err
				}
				if state, err = eng.Load(ctx, key); err != nil {
					return common.NewUserError(fmt.Sprintf("no session stored for %s", key), err)
				}
			case loadPrevious:
				previous, ok := eng.LoadPrevious()
				if !ok {
					return common.NewUserError("no previous sheet saved on this machine", common.ErrNotFound)
				}
				state = previous
			}

			// Keep log lines off the editor's screen.
			logFile, err := redirectLogs()
			if err != nil {
				return err
			}
			defer func() {
				_ = setupLogging()
				_ = logFile.Close()
			}()

			final, err := tui.Run(ctx,
				tui.WithSessions(eng),
				tui.WithSuggester(cache),
				tui.WithState(state),
				tui.WithFormats(formats...),
			)
			if err != nil {
				return err
			}
			if final.Dirty() {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning("Closed with unsaved changes"))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&stands, "stands", 1, "number of stands on a new sheet")
	cmd.Flags().IntVar(&rows, "rows", 0, "number of count rows (default: one per run of the day)")
	cmd.Flags().IntVar(&staff, "staff", 0, "number of shed staff lines")
	cmd.Flags().BoolVar(&nineHour, "nine-hour", false, "use the nine hour, five run day")
	cmd.Flags().BoolVar(&loadPrevious, "load-previous", false, "open the last sheet saved on this machine")
	cmd.Flags().StringSliceVar(&load, "load", nil, "open a stored session: --load DATE,STATION")
	addFormatFlag(cmd)

	return cmd
}

// redirectLogs sends log output to tally.log next to the database.
func redirectLogs() (*os.File, error) {
	path := filepath.Join(filepath.Dir(config.DatabasePath()), "tally.log")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600) // #nosec G304 -- path built from config
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	level, err := common.ParseLevel(viper.GetString("logging.level"))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := common.SetupLoggerTo(f, level, viper.GetString("logging.format")); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}
