package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/shedtally/internal/aggregate"
)

func yearsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "years",
		Short: "List the years that have recorded sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

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

			for _, year := range aggregate.Years(docs, time.Now()) {
				fmt.Fprintln(cmd.OutOrStdout(), year)
			}
			return nil
		},
	}
}
