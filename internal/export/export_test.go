// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

package export

import (
	"reflect"
	"testing"

	"rowbase/cli/pkg/rowbase"
)

func TestBuildPlanStatements(t *testing.T) {
	fields := []rowbase.FieldDefinition{
		{ID: "fld1", Label: "Name", Type: "text"},
		{ID: "fld2", Label: "Unit Price", Type: "currency"},
		{ID: "fld3", Label: "In Stock", Type: "checkbox"},
		{ID: "fld4", Label: "", Type: "text"}, // no label, skipped
	}

	p := buildPlan("products", fields)

	wantCreate := `CREATE TABLE IF NOT EXISTS "products" ("name" text, "unit_price" numeric, "in_stock" boolean)`
	if got := p.createStatement(); got != wantCreate {
		t.Errorf("createStatement() = %q, want %q", got, wantCreate)
	}

	wantInsert := `INSERT INTO "products" ("name", "unit_price", "in_stock") VALUES ($1, $2, $3)`
	if got := p.insertStatement(); got != wantInsert {
		t.Errorf("insertStatement() = %q, want %q", got, wantInsert)
	}
}

func TestRowArgsOrderAndCoercion(t *testing.T) {
	fields := []rowbase.FieldDefinition{
		{ID: "fld1", Label: "Name", Type: "text"},
		{ID: "fld2", Label: "Tags", Type: "multiselect"},
		{ID: "fld3", Label: "Qty", Type: "number"},
	}
	p := buildPlan("items", fields)

	rec := rowbase.Record{
		"Name": "Widget",
		"Tags": []any{"a", "b"},
		"Qty":  float64(3),
	}
	got := p.rowArgs(rec)
	want := []any{"Widget", `["a","b"]`, float64(3)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("rowArgs() = %#v, want %#v", got, want)
	}
}

func TestRowArgsMissingValueIsNull(t *testing.T) {
	p := buildPlan("items", []rowbase.FieldDefinition{
		{ID: "fld1", Label: "Name", Type: "text"},
	})
	args := p.rowArgs(rowbase.Record{})
	if args[0] != nil {
		t.Errorf("missing value = %v, want nil", args[0])
	}
}

func TestSQLType(t *testing.T) {
	tests := []struct {
		fieldType string
		want      string
	}{
		{"text", "text"},
		{"Number", "numeric"},
		{"checkbox", "boolean"},
		{"datetime", "timestamptz"},
		{"attachment", "jsonb"},
		{"something-custom", "text"},
	}
	for _, tt := range tests {
		if got := sqlType(tt.fieldType); got != tt.want {
			t.Errorf("sqlType(%q) = %q, want %q", tt.fieldType, got, tt.want)
		}
	}
}

func TestColumnName(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Name", "name"},
		{"Unit Price", "unit_price"},
		{"Größe (cm)", "gre_cm"},
		{"2nd Address", "f_2nd_address"},
		{"***", "field"},
	}
	for _, tt := range tests {
		if got := columnName(tt.label); got != tt.want {
			t.Errorf("columnName(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}

func TestQuoteIdent(t *testing.T) {
	if got := quoteIdent(`tab"le`); got != `"tab""le"` {
		t.Errorf("quoteIdent = %q", got)
	}
}
