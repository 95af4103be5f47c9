package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Rushilchauhan45/sitely/internal/store"
)

// NewInitCommand runs the full startup chain explicitly: ensure
// schema, migrate the legacy store, sweep expired rows. Useful for
// provisioning a database before first use.
func NewInitCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create or upgrade the database and run startup maintenance",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := opts.open(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "database ready at %s\n", opts.DBPath)
			return nil
		},
	}
}

// NewMigrateCommand runs the startup chain (which includes the legacy
// migration) and reports whether the migration has fully completed.
// The migration also runs implicitly before any other command; this
// exists so an operator can trigger and inspect it explicitly.
func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run the legacy store migration and report its status",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}

			value, ok, err := st.GetSetting(cmd.Context(), store.SettingLegacyMigrated)
			if err != nil {
				return err
			}
			if ok && value == "1" {
				fmt.Fprintln(cmd.OutOrStdout(), "legacy migration complete")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "legacy migration incomplete, will retry on next start")
			}
			return nil
		},
	}
}

// NewSweepCommand runs the retention sweep on demand. The sweep also
// runs implicitly at startup; a manual run reports what it removed.
func NewSweepCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Delete ledger rows older than the retention horizon",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}

			result, err := st.Sweep(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "swept %d rows (%d wage, %d expense, %d payment)\n",
				result.Total(), result.Wages, result.Expenses, result.Payments)
			return nil
		},
	}
}
