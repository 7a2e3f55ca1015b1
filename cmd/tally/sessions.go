package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/shedtally/internal/cli"
	"github.com/Veraticus/shedtally/internal/codec"
	"github.com/Veraticus/shedtally/internal/common"
	"github.com/Veraticus/shedtally/internal/config"
	"github.com/Veraticus/shedtally/internal/engine"
	"github.com/Veraticus/shedtally/internal/export"
)

func sessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sessions",
		Aliases: []string{"session"},
		Short:   "List, show, add and delete stored sessions",
	}

	cmd.AddCommand(listSessionsCmd())
	cmd.AddCommand(showSessionCmd())
	cmd.AddCommand(addSessionCmd())
	cmd.AddCommand(deleteSessionCmd())

	return cmd
}

func listSessionsCmd() *cobra.Command {
	var station string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored sessions",
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

			if station != "" {
				want := strings.ToLower(strings.TrimSpace(station))
				kept := docs[:0]
				for _, d := range docs {
					if strings.ToLower(strings.TrimSpace(d.StationName)) == want {
						kept = append(kept, d)
					}
				}
				docs = kept
			}

			out := cmd.OutOrStdout()
			if len(docs) == 0 {
				fmt.Fprintln(out, cli.SubtleStyle.Render("No sessions found."))
				return nil
			}
			fmt.Fprintln(out, cli.SessionsTable(docs).Render())
			return nil
		},
	}

	cmd.Flags().StringVar(&station, "station", "", "only list sessions at this station")

	return cmd
}

func showSessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show DATE STATION",
		Short: "Show one stored session",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			key, err := sessionKey(args)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			contractorID, err := config.ContractorID()
			if err != nil {
				return err
			}
			doc, err := store.GetSession(ctx, contractorID, key)
			if err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return common.NewUserError(fmt.Sprintf("no session stored for %s", key), err)
				}
				return err
			}

			return cli.RenderSheet(cmd.OutOrStdout(), export.SessionSheet(doc.Session))
		},
	}
}

func addSessionCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "add FILE",
		Short: "Save a session from a JSON file",
		Long: `Save a tally sheet written as session JSON, the same document the editor saves.

Stands, count rows and shed staff that are entirely empty are listed first and
dropped from the saved session.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			data, err := os.ReadFile(args[0]) // #nosec G304 -- user supplied path
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			doc, ok := codec.DecodeDocument(data)
			if !ok {
				return common.NewUserError(args[0]+" is not a session document", common.ErrInvalidSession)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			var confirmer engine.Confirmer = cli.NewSaveConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
			if yes {
				confirmer = nil
			}
			eng, _, err := initEngine(ctx, store, engineOptions{confirmer: confirmer})
			if err != nil {
				return err
			}

			result, err := eng.Save(ctx, codec.FromSession(doc.Session))
			if errors.Is(err, engine.ErrSaveCanceled) {
				fmt.Fprintln(cmd.OutOrStdout(), cli.SubtleStyle.Render("Save canceled."))
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Saved %s %s (%s)",
				result.Session.StationName, result.Session.Date, result.ID)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "save without asking about empty parts")

	return cmd
}

func deleteSessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete DATE STATION",
		Short: "Delete a stored session",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			key, err := sessionKey(args)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			contractorID, err := config.ContractorID()
			if err != nil {
				return err
			}
			if _, err := store.AutoBackup(ctx, "delete"); err != nil {
				return fmt.Errorf("failed to back up before delete: %w", err)
			}
			if err := store.DeleteSession(ctx, contractorID, key); err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return common.NewUserError(fmt.Sprintf("no session stored for %s", key), err)
				}
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted "+key.String()))
			return nil
		},
	}
}
