// Package cli wires the storage layer to a command-line front end:
// site management, the worker balance report, and the maintenance
// operations (migrate, sweep) that normally run implicitly at startup.
package cli

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Rushilchauhan45/sitely/internal/boot"
	"github.com/Rushilchauhan45/sitely/internal/store"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	ConfigPath string
	DBPath     string
	LegacyPath string
	Verbose    bool

	logger *logrus.Logger
	init   *boot.Initializer
}

// NewRootCommand creates the root command for the sitely CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{logger: logrus.New()}

	cmd := &cobra.Command{
		Use:   "sitely",
		Short: "Offline ledger for construction sites",
		Long:  "Tracks workers, daily wages, advances, payments and materials for construction sites, entirely on this device.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup()
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "sitely.yaml", "config file (optional)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "database file (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.LegacyPath, "legacy", "", "legacy store file to migrate (overrides config)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewSiteCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSweepCommand(opts))

	return cmd
}

// setup resolves config file and flags into a ready Initializer.
func (o *RootOptions) setup() error {
	cfg, err := LoadConfig(o.ConfigPath)
	if err != nil {
		return err
	}

	if o.DBPath == "" {
		o.DBPath = cfg.DB
	}
	if o.DBPath == "" {
		o.DBPath = "sitely.db"
	}
	if o.LegacyPath == "" {
		o.LegacyPath = cfg.Legacy
	}

	level := logrus.WarnLevel
	if cfg.LogLevel != "" {
		parsed, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("invalid log_level %q: %w", cfg.LogLevel, err)
		}
		level = parsed
	}
	if o.Verbose {
		level = logrus.DebugLevel
	}
	o.logger.SetLevel(level)

	o.init = boot.New(boot.Config{
		DBPath:     o.DBPath,
		LegacyPath: o.LegacyPath,
		Logger:     o.logger,
	})
	return nil
}

// open runs the memoized startup chain and returns the store handle.
// Every subcommand goes through here, so schema, migration and sweep
// always precede the first read.
func (o *RootOptions) open(ctx context.Context) (*store.Store, error) {
	return o.init.Init(ctx)
}
