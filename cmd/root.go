// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the Rowbase CLI.
// It implements subcommands for authentication, record and field operations,
// views, and Postgres export using the Cobra framework, with a terminal UI
// built on pterm.
package cmd

import (
	"fmt"
	"os"

	"rowbase/cli/internal/auth"
	"rowbase/cli/internal/config"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	showVersion bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "rowbase",
	Short:         "Rowbase CLI for working with hosted tables",
	Long:          `Rowbase is a command-line tool for reading and writing tables hosted on the Rowbase service.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cfg, err := config.Load(); err == nil && cfg.LogLevel == "debug" {
			pterm.EnableDebugMessages()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			ctx := cmd.Context()

			backendVersion := "unknown"
			if client, err := auth.NewService().NewClient(); err == nil {
				if v, err := client.Version(ctx); err == nil {
					backendVersion = v
				}
			}

			fmt.Printf("rowbase %s\nservice %s\n", Version, backendVersion)
			return nil
		}
		return cmd.Help()
	},
}

// Execute runs the CLI application.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI and service version information")
}
