package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/shedtally/internal/aggregate"
	"github.com/Veraticus/shedtally/internal/cli"
	"github.com/Veraticus/shedtally/internal/common"
	"github.com/Veraticus/shedtally/internal/engine"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export sessions, station summaries and leaderboards",
		Long: `Export to CSV or Excel files in the export directory, or to Google Sheets.

Examples:
  tally export session 2025-03-14 Glenorchy
  tally export station Glenorchy --year 2025 -f xlsx
  tally export leaderboard staff -f csv,sheets`,
	}

	cmd.AddCommand(exportSessionCmd())
	cmd.AddCommand(exportStationCmd())
	cmd.AddCommand(exportLeaderboardCmd())

	return cmd
}

func exportSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session DATE STATION",
		Short: "Export one stored session",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			key, err := sessionKey(args)
			if err != nil {
				return err
			}
			formats, err := formatsFromFlags(cmd)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			eng, _, err := initEngine(ctx, store, engineOptions{formats: formats})
			if err != nil {
				return err
			}

			results, err := eng.ExportSession(ctx, key, formats)
			if errors.Is(err, common.ErrNotFound) {
				return common.NewUserError(fmt.Sprintf("no session stored for %s", key), err)
			}
			if err != nil {
				return err
			}
			printExportResults(cmd, results)
			return nil
		},
	}

	addFormatFlag(cmd)

	return cmd
}

func exportStationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "station NAME",
		Short: "Export the summary of one station",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			formats, err := formatsFromFlags(cmd)
			if err != nil {
				return err
			}
			filter, err := filterFromFlags(cmd, time.Now())
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			eng, _, err := initEngine(ctx, store, engineOptions{formats: formats})
			if err != nil {
				return err
			}

			results, err := eng.ExportStation(ctx, strings.Join(args, " "), filter, formats)
			if err != nil {
				return err
			}
			printExportResults(cmd, results)
			return nil
		},
	}

	addFormatFlag(cmd)
	addFilterFlags(cmd, aggregate.WorkAny)

	return cmd
}

func exportLeaderboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "leaderboard [shearers|staff]",
		Short:     "Export a full leaderboard",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(engine.BoardShearers), string(engine.BoardStaff)},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			board, err := parseBoard(args)
			if err != nil {
				return err
			}
			formats, err := formatsFromFlags(cmd)
			if err != nil {
				return err
			}
			filter, err := filterFromFlags(cmd, time.Now())
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			eng, _, err := initEngine(ctx, store, engineOptions{formats: formats})
			if err != nil {
				return err
			}

			results, err := eng.ExportLeaderboard(ctx, board, filter, formats)
			if err != nil {
				return err
			}
			printExportResults(cmd, results)
			return nil
		},
	}

	addFormatFlag(cmd)
	addFilterFlags(cmd, aggregate.WorkShorn)

	return cmd
}

func printExportResults(cmd *cobra.Command, results []engine.ExportResult) {
	out := cmd.OutOrStdout()
	for _, r := range results {
		fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("%s: %s", strings.ToUpper(string(r.Format)), r.Location)))
	}
}
