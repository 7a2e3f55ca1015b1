package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/shedtally/internal/aggregate"
	"github.com/Veraticus/shedtally/internal/cli"
	"github.com/Veraticus/shedtally/internal/codec"
	"github.com/Veraticus/shedtally/internal/common"
	"github.com/Veraticus/shedtally/internal/engine"
	"github.com/Veraticus/shedtally/internal/export"
)

func leaderboardCmd() *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "leaderboard [shearers|staff]",
		Short: "Rank shearers by sheep shorn or shed staff by hours",
		Long: `Rank shearers by sheep shorn or shed staff by hours worked.

Examples:
  tally leaderboard                      # shearers, all time, shorn sheep
  tally leaderboard --work crutched      # shearers, crutching only
  tally leaderboard staff --mode 12m     # shed staff, last twelve months
  tally leaderboard --year 2024 --top 0  # every shearer for 2024`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(engine.BoardShearers), string(engine.BoardStaff)},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			board, err := parseBoard(args)
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

			eng, _, err := initEngine(ctx, store, engineOptions{})
			if err != nil {
				return err
			}
			docs, err := eng.Documents(ctx)
			if err != nil {
				return err
			}

			return cli.RenderSheet(cmd.OutOrStdout(), leaderboardSheet(board, docs, filter, top))
		},
	}

	addFilterFlags(cmd, aggregate.WorkShorn)
	cmd.Flags().IntVar(&top, "top", aggregate.CompactSize, "number of places to show (0 for all)")

	return cmd
}

func parseBoard(args []string) (engine.Board, error) {
	if len(args) == 0 {
		return engine.BoardShearers, nil
	}
	switch board := engine.Board(args[0]); board {
	case engine.BoardShearers, engine.BoardStaff:
		return board, nil
	default:
		return "", fmt.Errorf("%w: unknown leaderboard %q (want shearers or staff)", common.ErrInvalidConfig, args[0])
	}
}

// leaderboardSheet ranks the documents on board. A top of zero or less keeps every entry.
func leaderboardSheet(board engine.Board, docs []codec.Document, filter aggregate.Filter, top int) export.Sheet {
	if top <= 0 {
		top = -1
	}
	if board == engine.BoardStaff {
		b := aggregate.StaffLeaderboard(docs, filter)
		b.Entries = b.Top(top)
		return export.StaffLeaderboardSheet("Shed Staff Leaderboard", b)
	}
	b := aggregate.ShearerLeaderboard(docs, filter)
	b.Entries = b.Top(top)
	return export.ShearerLeaderboardSheet("Shearer Leaderboard", b)
}
