package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/shedtally/internal/cli"
	"github.com/Veraticus/shedtally/internal/storage"
)

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Manage database backups",
		Long: `Copies of the session database. One is taken automatically before imports
and deletes; the most recent automatic backups are kept.`,
	}

	cmd.AddCommand(createBackupCmd())
	cmd.AddCommand(listBackupsCmd())
	cmd.AddCommand(deleteBackupCmd())

	return cmd
}

func createBackupCmd() *cobra.Command {
	var tag string
	var description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Back up the session database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			info, err := store.CreateBackup(ctx, tag, description)
			if errors.Is(err, storage.ErrBackupExists) {
				return fmt.Errorf("a backup tagged %q already exists", tag)
			}
			if err != nil {
				return fmt.Errorf("failed to create backup: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Created backup %s (%d sessions, %s)\n",
				cli.SuccessStyle.Render(cli.SuccessIcon),
				cli.InfoStyle.Render(info.ID),
				info.Sessions,
				cli.FormatSize(info.FileSize))
			if info.Description != "" {
				fmt.Fprintf(out, "  Description: %s\n", info.Description)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&tag, "tag", "t", "", "backup tag (generated from the time if not provided)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "description of the backup")

	return cmd
}

func listBackupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List backups",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			backups, err := store.ListBackups(ctx)
			if err != nil {
				return fmt.Errorf("failed to list backups: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(backups) == 0 {
				fmt.Fprintln(out, cli.SubtleStyle.Render("No backups found."))
				return nil
			}
			fmt.Fprintln(out, cli.BackupsTable(backups).Render())
			fmt.Fprintln(out, cli.SubtleStyle.Render("Backups are in "+store.BackupDir()))
			return nil
		},
	}
}

func deleteBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteBackup(ctx, args[0]); err != nil {
				if errors.Is(err, storage.ErrBackupNotFound) {
					return fmt.Errorf("no backup with id %q", args[0])
				}
				return fmt.Errorf("failed to delete backup: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted backup "+args[0]))
			return nil
		},
	}
}
