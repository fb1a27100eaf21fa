// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package export mirrors a remote Rowbase table into a local PostgreSQL
// database. It derives a table schema from the remote field definitions,
// creates the table, and loads all records inside a single transaction.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"rowbase/cli/pkg/rowbase"
)

// Summary reports what an export run wrote.
type Summary struct {
	Table   string
	Columns []string
	Rows    int
}

// Exporter writes remote records into PostgreSQL through a pgx pool.
type Exporter struct {
	pool *pgxpool.Pool

	// OnProgress, when set, is called after each batch of inserted rows.
	OnProgress func(inserted, total int)
}

// New creates an Exporter from an existing pgx pool.
func New(pool *pgxpool.Pool) *Exporter {
	return &Exporter{pool: pool}
}

// Connect opens a pgx pool for the given connection string and verifies
// connectivity with a ping.
func Connect(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("open connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Run fetches the active table's fields and records from the service and
// loads them into a local table named after the remote one. The whole load
// runs in one transaction so a failed export leaves nothing behind.
func (e *Exporter) Run(ctx context.Context, client *rowbase.Client) (*Summary, error) {
	fields, err := client.ListFields(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch field definitions: %w", err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("table %q has no field definitions", client.Table())
	}

	list, err := client.ListRecords(ctx, rowbase.ReadOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetch records: %w", err)
	}

	plan := buildPlan(client.Table(), fields)

	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, plan.createStatement()); err != nil {
		return nil, fmt.Errorf("create table %s: %w", plan.Table, err)
	}

	insert := plan.insertStatement()
	for i, rec := range list.Records {
		args := plan.rowArgs(rec)
		if _, err := tx.Exec(ctx, insert, args...); err != nil {
			return nil, fmt.Errorf("insert row %d: %w", i+1, err)
		}
		if e.OnProgress != nil {
			e.OnProgress(i+1, len(list.Records))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return &Summary{
		Table:   plan.Table,
		Columns: plan.labels(),
		Rows:    len(list.Records),
	}, nil
}

// plan describes the local table derived from remote field definitions.
type plan struct {
	Table   string
	Fields  []rowbase.FieldDefinition
	Columns []column
}

type column struct {
	Name    string
	SQLType string
	Label   string
}

func buildPlan(table string, fields []rowbase.FieldDefinition) *plan {
	p := &plan{Table: table, Fields: fields}
	for _, f := range fields {
		if f.Label == "" {
			continue
		}
		p.Columns = append(p.Columns, column{
			Name:    columnName(f.Label),
			SQLType: sqlType(f.Type),
			Label:   f.Label,
		})
	}
	return p
}

func (p *plan) labels() []string {
	names := make([]string, len(p.Columns))
	for i, c := range p.Columns {
		names[i] = c.Name
	}
	return names
}

func (p *plan) createStatement() string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(quoteIdent(p.Table))
	b.WriteString(" (")
	for i, c := range p.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quoteIdent(c.Name))
		b.WriteString(" ")
		b.WriteString(c.SQLType)
	}
	b.WriteString(")")
	return b.String()
}

func (p *plan) insertStatement() string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(quoteIdent(p.Table))
	b.WriteString(" (")
	for i, c := range p.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quoteIdent(c.Name))
	}
	b.WriteString(") VALUES (")
	for i := range p.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "$%d", i+1)
	}
	b.WriteString(")")
	return b.String()
}

// rowArgs extracts the record's values in column order. Records come back
// label-keyed, so lookup is by the field label the column was derived from.
func (p *plan) rowArgs(rec rowbase.Record) []any {
	args := make([]any, len(p.Columns))
	for i, c := range p.Columns {
		args[i] = coerceValue(rec[c.Label])
	}
	return args
}

// coerceValue flattens structured values to JSON text so they fit scalar
// columns. Scalars pass through untouched.
func coerceValue(v any) any {
	switch v.(type) {
	case nil, string, bool, float64, int, int64, json.Number:
		return v
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	}
}

// sqlType maps a remote field type to a PostgreSQL column type. Unknown
// types land in text, which accepts anything.
func sqlType(fieldType string) string {
	switch strings.ToLower(fieldType) {
	case "number", "currency", "percent", "rating":
		return "numeric"
	case "checkbox", "boolean":
		return "boolean"
	case "date", "datetime", "created_at", "updated_at":
		return "timestamptz"
	case "json", "attachment", "multiselect", "linked":
		return "jsonb"
	default:
		return "text"
	}
}

// columnName lowercases a field label and replaces characters PostgreSQL
// identifiers dislike. Quoting on top of this keeps reserved words safe.
func columnName(label string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(label) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '.', r == '_':
			b.WriteRune('_')
		}
	}
	name := strings.Trim(b.String(), "_")
	if name == "" {
		return "field"
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "f_" + name
	}
	return name
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
