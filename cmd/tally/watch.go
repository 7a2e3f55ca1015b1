package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/shedtally/internal/aggregate"
	"github.com/Veraticus/shedtally/internal/cli"
	"github.com/Veraticus/shedtally/internal/config"
	"github.com/Veraticus/shedtally/internal/engine"
	"github.com/Veraticus/shedtally/internal/storage"
)

const clearScreen = "\033[H\033[2J"

func watchCmd() *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "watch [shearers|staff]",
		Short: "Show a leaderboard that updates as sessions are saved",
		Long: `Show a leaderboard and redraw it whenever sessions are saved, imported or
deleted, by this process or another one sharing the database. Press Ctrl+C to stop.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(engine.BoardShearers), string(engine.BoardStaff)},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			board, err := parseBoard(args)
			if err != nil {
				return err
			}
			// Validate the flags up front; the filter is rebuilt per snapshot so
			// twelve month windows follow the clock.
			if _, err := filterFromFlags(cmd, time.Now()); err != nil {
				return err
			}
			contractorID, err := config.ContractorID()
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			watcher, err := storage.NewWatcher(store, contractorID, config.Debounce())
			if err != nil {
				return err
			}
			if err := watcher.Start(ctx); err != nil {
				return fmt.Errorf("failed to start watcher: %w", err)
			}
			defer watcher.Stop()

			out := cmd.OutOrStdout()
			for {
				select {
				case <-ctx.Done():
					return nil
				case snap, ok := <-watcher.Snapshots():
					if !ok {
						return nil
					}
					filter, _ := filterFromFlags(cmd, time.Now())
					if err := drawBoard(out, board, snap, filter, top); err != nil {
						return err
					}
				}
			}
		},
	}

	addFilterFlags(cmd, aggregate.WorkShorn)
	cmd.Flags().IntVar(&top, "top", aggregate.CompactSize, "number of places to show (0 for all)")

	return cmd
}

func drawBoard(w io.Writer, board engine.Board, snap storage.Snapshot, filter aggregate.Filter, top int) error {
	if _, err := io.WriteString(w, clearScreen+cli.FormatTitle("Live leaderboard")+"\n"); err != nil {
		return err
	}
	if snap.Err != nil {
		_, err := fmt.Fprintln(w, cli.FormatError("Leaderboard data unavailable: "+snap.Err.Error()))
		return err
	}
	if err := cli.RenderSheet(w, leaderboardSheet(board, snap.Documents, filter, top)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, cli.SubtleStyle.Render("Updated "+time.Now().Format("15:04:05")+". Ctrl+C to stop."))
	return err
}
