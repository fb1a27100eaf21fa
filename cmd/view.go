// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	viewJSON string
	viewFile string
)

// viewCmd groups visualization operations. Payloads and responses pass
// through to the service untouched, so the CLI prints the response as JSON.
var viewCmd = &cobra.Command{
	Use:     "view",
	Aliases: []string{"viz"},
	Short:   "Manage visualizations on the active table",
}

var viewCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a visualization from JSON input",
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, err := viewPayload()
		if err != nil {
			return err
		}
		client, err := newTableClient()
		if err != nil {
			return presentServiceError(err, "create view")
		}
		res, err := client.CreateView(cmd.Context(), payload)
		if err != nil {
			return presentServiceError(err, "create view")
		}
		return printJSON(res)
	},
}

var viewUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update a visualization from JSON input",
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, err := viewPayload()
		if err != nil {
			return err
		}
		client, err := newTableClient()
		if err != nil {
			return presentServiceError(err, "update view")
		}
		res, err := client.UpdateView(cmd.Context(), payload)
		if err != nil {
			return presentServiceError(err, "update view")
		}
		return printJSON(res)
	},
}

var viewDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a visualization by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newTableClient()
		if err != nil {
			return presentServiceError(err, "delete view")
		}
		res, err := client.DeleteView(cmd.Context(), args[0])
		if err != nil {
			return presentServiceError(err, "delete view")
		}
		return printJSON(res)
	},
}

var viewGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Fetch a visualization by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newTableClient()
		if err != nil {
			return presentServiceError(err, "get view")
		}
		res, err := client.GetView(cmd.Context(), args[0])
		if err != nil {
			return presentServiceError(err, "get view")
		}
		return printJSON(res)
	},
}

func viewPayload() (map[string]any, error) {
	raw, err := readJSONInput(viewJSON, viewFile)
	if err != nil {
		return nil, err
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("parse JSON input: %w", err)
	}
	return payload, nil
}

func printJSON(v any) error {
	if v == nil {
		return nil
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func init() {
	rootCmd.AddCommand(viewCmd)
	viewCmd.AddCommand(viewCreateCmd, viewUpdateCmd, viewDeleteCmd, viewGetCmd)

	viewCmd.PersistentFlags().StringVar(&recordsTable, "table", "", "Table to operate on (overrides the default table)")
	viewCreateCmd.Flags().StringVar(&viewJSON, "json", "", "JSON payload for the visualization")
	viewCreateCmd.Flags().StringVar(&viewFile, "file", "", "Path to a JSON payload file")
	viewUpdateCmd.Flags().StringVar(&viewJSON, "json", "", "JSON payload for the visualization")
	viewUpdateCmd.Flags().StringVar(&viewFile, "file", "", "Path to a JSON payload file")
}
