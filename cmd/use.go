// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"strings"

	"rowbase/cli/internal/config"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// useCmd sets the default table for subsequent commands. The value lives in
// the config file; ROWBASE_TABLE overrides it per invocation.
var useCmd = &cobra.Command{
	Use:   "use <table>",
	Short: "Set the default table for record and field commands",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table := strings.TrimSpace(args[0])

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		cfg.Table = table
		if err := config.Save(cfg); err != nil {
			return err
		}

		pterm.Printf("📋 Default table set to %s\n", table)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(useCmd)
}
