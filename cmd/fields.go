// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// fieldsCmd lists the field definitions of the active table.
var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List field definitions of the active table",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newTableClient()
		if err != nil {
			return presentServiceError(err, "list fields")
		}

		fields, err := client.ListFields(cmd.Context())
		if err != nil {
			return presentServiceError(err, "list fields")
		}
		if len(fields) == 0 {
			pterm.Println("No field definitions found.")
			return nil
		}

		rows := pterm.TableData{{"ID", "Label", "Type"}}
		for _, f := range fields {
			rows = append(rows, []string{f.ID, f.Label, f.Type})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	},
}

func init() {
	rootCmd.AddCommand(fieldsCmd)
	fieldsCmd.Flags().StringVar(&recordsTable, "table", "", "Table to operate on (overrides the default table)")
}
