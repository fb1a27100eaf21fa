// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"

	"rowbase/cli/internal/auth"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// statusCmd shows the current authentication state and resolved scope.
var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"whoami"},
	Short:   "Show login state and the active org, database, and table",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := auth.NewService()
		opts, err := svc.ClientOptions()
		if errors.Is(err, auth.ErrNotLoggedIn) {
			pterm.Println("🔒 You're not logged in yet!")
			pterm.Println("   Run 'rowbase login' to get started.")
			return nil
		}
		if err != nil {
			return err
		}

		rows := pterm.TableData{
			{"Org", orDash(opts.Org)},
			{"Database", orDash(opts.Database)},
			{"Table", orDash(opts.Table)},
		}
		if opts.BaseURL != "" {
			rows = append(rows, []string{"Base URL", opts.BaseURL})
		}

		pterm.Println("👤 Logged in")
		if err := pterm.DefaultTable.WithData(rows).Render(); err != nil {
			return err
		}

		if client, err := svc.NewClient(); err == nil {
			if v, err := client.Version(cmd.Context()); err == nil {
				pterm.Printf("Service version: %s\n", v)
			}
		}
		return nil
	},
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
