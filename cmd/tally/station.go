package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/shedtally/internal/aggregate"
	"github.com/Veraticus/shedtally/internal/cli"
	"github.com/Veraticus/shedtally/internal/export"
)

func stationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "station NAME",
		Short: "Summarize the work done at one station",
		Long: `Summarize the sessions recorded at one station: sheep per shearer and type,
shed staff hours, team leaders and comb types.

Examples:
  tally station Glenorchy
  tally station "Mt Aspiring" --year 2024 --work shorn`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			station := strings.Join(args, " ")
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

			summary := aggregate.StationSummary(docs, station, filter, eng.Classifier())
			if summary.Empty() {
				fmt.Fprintln(cmd.OutOrStdout(), cli.SubtleStyle.Render(fmt.Sprintf("No sessions found for %s.", station)))
				return nil
			}
			return cli.RenderSheet(cmd.OutOrStdout(), export.StationSheet(summary))
		},
	}

	addFilterFlags(cmd, aggregate.WorkAny)

	return cmd
}
