// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"rowbase/cli/internal/auth"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	loginToken    string
	loginOrg      string
	loginDatabase string
)

// loginCmd represents the login command for storing an API token.
// The token is read from a flag, the ROWBASE_TOKEN environment variable, or
// an interactive masked prompt, verified against the service when a default
// table is configured, and stored in the OS keychain.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth"},
	Short:   "Store and verify an API token for this machine",
	Long: `The login command stores a Rowbase API token in the OS keychain. The token can
be passed with --token, taken from the ROWBASE_TOKEN environment variable, or
entered at a masked interactive prompt.

When a default table is configured the token is verified against the service
before being stored. Tokens are scoped to an organization and database, so
pass --org and --database to record which scope the token belongs to.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		token := strings.TrimSpace(loginToken)
		if token == "" {
			token = strings.TrimSpace(os.Getenv(auth.EnvToken))
		}
		if token == "" {
			entered, err := pterm.DefaultInteractiveTextInput.
				WithMask("*").
				Show("Enter your Rowbase API token")
			if err != nil {
				return err
			}
			token = strings.TrimSpace(entered)
		}
		if token == "" {
			return errors.New("a token is required")
		}

		stopSpinner := startInlineSpinner(os.Stdout, "Verifying token", 120*time.Millisecond)
		err := auth.NewService().Login(ctx, token, loginOrg, loginDatabase)
		stopSpinner()
		if err != nil {
			return presentServiceError(err, "login")
		}

		pterm.Println("✅ Login successful! Token stored in the OS keychain.")
		if loginOrg != "" || loginDatabase != "" {
			pterm.Printf("   Scope: org=%s database=%s\n", loginOrg, loginDatabase)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVar(&loginToken, "token", "", "API token (falls back to "+auth.EnvToken+" or an interactive prompt)")
	loginCmd.Flags().StringVar(&loginOrg, "org", "", "Organization the token belongs to")
	loginCmd.Flags().StringVar(&loginDatabase, "database", "", "Database the token belongs to")
}
