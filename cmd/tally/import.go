package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/shedtally/internal/cli"
)

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE...",
		Short: "Import historical session documents",
		Long: `Import session documents exported from earlier versions of the app.

Each file may hold a single document, a JSON array of documents or one document
per line. Every tally shape older versions wrote is accepted. A session with the
same date and station as a stored one replaces it; a backup is taken first.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			eng, _, err := initEngine(cmd.Context(), store, engineOptions{})
			if err != nil {
				return err
			}

			if _, err := store.AutoBackup(cmd.Context(), "import"); err != nil {
				return fmt.Errorf("failed to back up before import: %w", err)
			}

			handler := cli.NewInterruptHandler(out)
			ctx := handler.HandleInterrupts(cmd.Context(), "Import", true)
			defer handler.Stop()

			bar := cli.NewProgressBar(out, len(args), "Importing")
			total := 0
			for _, path := range args {
				if ctx.Err() != nil {
					break
				}

				data, err := os.ReadFile(path) // #nosec G304 -- user supplied path
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", path, err)
				}
				n, err := eng.Import(ctx, data)
				if err != nil {
					return fmt.Errorf("failed to import %s: %w", path, err)
				}
				total += n
				_ = bar.Add(1)
			}

			if handler.WasInterrupted() {
				return nil
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d sessions from %d files", total, len(args))))
			return nil
		},
	}
}
