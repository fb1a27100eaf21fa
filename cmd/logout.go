// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"rowbase/cli/internal/auth"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// logoutCmd removes the stored token and login state from this machine.
// Rowbase keeps no session server-side; table-scoped credentials simply
// expire on their own.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored API token from this machine",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := auth.NewService().Logout(); err != nil {
			return err
		}
		pterm.Println("👋 Logged out. The token was removed from the OS keychain.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
