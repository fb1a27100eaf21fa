// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"rowbase/cli/internal/auth"
	"rowbase/cli/pkg/rowbase"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	recordsTable string
	recordsRaw   bool
	recordsJSON  string
	recordsFile  string
)

// recordsCmd groups record-level operations on the active table.
var recordsCmd = &cobra.Command{
	Use:     "records",
	Aliases: []string{"rows"},
	Short:   "List, read, and write records in the active table",
}

var recordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all records in the active table",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newTableClient()
		if err != nil {
			return presentServiceError(err, "list records")
		}

		list, err := client.ListRecords(cmd.Context(), rowbase.ReadOptions{Raw: recordsRaw})
		if err != nil {
			return presentServiceError(err, "list records")
		}
		if len(list.Records) == 0 {
			pterm.Println("No records found.")
			return nil
		}
		return renderRecords(list.Fields, list.Records)
	},
}

var recordsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Fetch a single record by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newTableClient()
		if err != nil {
			return presentServiceError(err, "get record")
		}

		res, err := client.GetRecord(cmd.Context(), args[0], rowbase.ReadOptions{Raw: recordsRaw})
		if err != nil {
			return presentServiceError(err, "get record")
		}
		if res == nil || res.Record == nil {
			pterm.Printf("Record %s not found.\n", args[0])
			return nil
		}

		rows := pterm.TableData{{"Field", "Value"}}
		for _, key := range sortedKeys(res.Record) {
			rows = append(rows, []string{key, cellValue(res.Record[key])})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	},
}

var recordsInsertCmd = &cobra.Command{
	Use:   "insert",
	Short: "Insert one or more records from JSON input",
	Long: `Insert reads a JSON object or a JSON array of objects from --json, --file,
or standard input, and inserts the records into the active table. Keys are
field ids as the service expects them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, err := readJSONInput(recordsJSON, recordsFile)
		if err != nil {
			return err
		}
		records, err := decodeRecordsInput(payload)
		if err != nil {
			return err
		}

		client, err := newTableClient()
		if err != nil {
			return presentServiceError(err, "insert records")
		}
		if _, err := client.InsertRecords(cmd.Context(), records); err != nil {
			return presentServiceError(err, "insert records")
		}
		pterm.Printf("✅ Inserted %d record(s).\n", len(records))
		return nil
	},
}

var recordsUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update a record, or many records at once",
	Long: `With an id argument, update applies the JSON object from --json, --file, or
standard input to that record. Without an id the input must be a JSON array
of objects that each carry their own "id" key; all of them are updated in a
single call.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, err := readJSONInput(recordsJSON, recordsFile)
		if err != nil {
			return err
		}

		client, err := newTableClient()
		if err != nil {
			return presentServiceError(err, "update records")
		}

		if len(args) == 1 {
			var values rowbase.Record
			if err := json.Unmarshal(payload, &values); err != nil {
				return fmt.Errorf("parse JSON input: %w", err)
			}
			if _, err := client.UpdateRecord(cmd.Context(), args[0], values); err != nil {
				return presentServiceError(err, "update record")
			}
			pterm.Printf("✅ Updated record %s.\n", args[0])
			return nil
		}

		var records []rowbase.Record
		if err := json.Unmarshal(payload, &records); err != nil {
			return fmt.Errorf("parse JSON input: expected an array of objects: %w", err)
		}
		if _, err := client.UpdateRecords(cmd.Context(), records); err != nil {
			return presentServiceError(err, "update records")
		}
		pterm.Printf("✅ Updated %d record(s).\n", len(records))
		return nil
	},
}

var recordsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a record by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newTableClient()
		if err != nil {
			return presentServiceError(err, "delete record")
		}
		if _, err := client.DeleteRecord(cmd.Context(), args[0]); err != nil {
			return presentServiceError(err, "delete record")
		}
		pterm.Printf("🗑️  Deleted record %s.\n", args[0])
		return nil
	},
}

// newTableClient builds a client from resolved options and applies the
// --table override when present.
func newTableClient() (*rowbase.Client, error) {
	client, err := auth.NewService().NewClient()
	if err != nil {
		return nil, err
	}
	if recordsTable != "" {
		client.SetTable(recordsTable)
	}
	return client, nil
}

// readJSONInput returns the JSON payload from --json, --file, or stdin.
func readJSONInput(jsonFlag, fileFlag string) ([]byte, error) {
	if jsonFlag != "" {
		return []byte(jsonFlag), nil
	}
	if fileFlag != "" {
		return os.ReadFile(fileFlag)
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("no JSON input: pass --json, --file, or pipe to stdin")
	}
	return data, nil
}

// decodeRecordsInput accepts either one JSON object or an array of objects.
func decodeRecordsInput(payload []byte) ([]rowbase.Record, error) {
	trimmed := strings.TrimSpace(string(payload))
	if strings.HasPrefix(trimmed, "[") {
		var records []rowbase.Record
		if err := json.Unmarshal(payload, &records); err != nil {
			return nil, fmt.Errorf("parse JSON input: %w", err)
		}
		return records, nil
	}
	var rec rowbase.Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("parse JSON input: %w", err)
	}
	return []rowbase.Record{rec}, nil
}

// renderRecords draws records as a pterm table. Columns follow the field
// definition order; keys without a definition (like "id") come first.
func renderRecords(fields []rowbase.FieldDefinition, records []rowbase.Record) error {
	columns := recordColumns(fields, records)

	rows := pterm.TableData{columns}
	for _, rec := range records {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = cellValue(rec[col])
		}
		rows = append(rows, row)
	}
	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

func recordColumns(fields []rowbase.FieldDefinition, records []rowbase.Record) []string {
	var columns []string
	seen := make(map[string]bool)

	appendCol := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			columns = append(columns, name)
		}
	}

	for _, rec := range records {
		if _, ok := rec["id"]; ok {
			appendCol("id")
			break
		}
	}
	for _, f := range fields {
		if recordsRaw {
			appendCol(f.ID)
		} else {
			appendCol(f.Label)
		}
	}
	// Pick up keys the field listing does not cover.
	for _, rec := range records {
		for _, key := range sortedKeys(rec) {
			appendCol(key)
		}
	}
	return columns
}

// cellValue renders a record value for table display. Structured values are
// shown as compact JSON; long cells are truncated.
func cellValue(v any) string {
	const maxWidth = 48

	var s string
	switch val := v.(type) {
	case nil:
		s = ""
	case string:
		s = val
	case float64, bool, int, int64, json.Number:
		s = fmt.Sprintf("%v", val)
	default:
		encoded, err := json.Marshal(val)
		if err != nil {
			s = fmt.Sprintf("%v", val)
		} else {
			s = string(encoded)
		}
	}
	if len(s) > maxWidth {
		s = s[:maxWidth-1] + "…"
	}
	return s
}

func sortedKeys(rec rowbase.Record) []string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	rootCmd.AddCommand(recordsCmd)
	recordsCmd.AddCommand(recordsListCmd, recordsGetCmd, recordsInsertCmd, recordsUpdateCmd, recordsDeleteCmd)

	recordsCmd.PersistentFlags().StringVar(&recordsTable, "table", "", "Table to operate on (overrides the default table)")
	recordsListCmd.Flags().BoolVar(&recordsRaw, "raw", false, "Show field ids and raw values instead of labels")
	recordsGetCmd.Flags().BoolVar(&recordsRaw, "raw", false, "Show field ids and raw values instead of labels")
	recordsInsertCmd.Flags().StringVar(&recordsJSON, "json", "", "JSON object or array to insert")
	recordsInsertCmd.Flags().StringVar(&recordsFile, "file", "", "Path to a JSON file to insert")
	recordsUpdateCmd.Flags().StringVar(&recordsJSON, "json", "", "JSON input for the update")
	recordsUpdateCmd.Flags().StringVar(&recordsFile, "file", "", "Path to a JSON file for the update")
}
