// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

package rowbase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

const (
	pathData          = "tables/data"
	pathRowGet        = "tables/rows/get"
	pathRowInsert     = "tables/rows/insert"
	pathRowUpdate     = "tables/rows/update"
	pathRowUpdateMany = "tables/rows/update-many"
	pathRowDelete     = "tables/rows/delete"
	pathFields        = "tables/fields"
)

// ReadOptions controls the read-path field-mapping transform.
type ReadOptions struct {
	// Raw skips the id -> label transform and returns records keyed by field
	// id, exactly as the service sent them. The zero value maps to labels.
	Raw bool
}

// RecordList is the result of a full-table read.
type RecordList struct {
	Records []Record
	Fields  []FieldDefinition
}

// RecordResult is the result of a single-row read. A nil Record means the
// service reported the row as not found, which is a valid terminal state,
// not an error.
type RecordResult struct {
	Record Record
	Fields []FieldDefinition
}

type tableResponse struct {
	Fields json.RawMessage `json:"fields"`
	Data   json.RawMessage `json:"data"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// ListRecords reads every row of the active table. Unless opts.Raw is set the
// records come back keyed by field label.
func (c *Client) ListRecords(ctx context.Context, opts ReadOptions) (*RecordList, error) {
	body, err := c.dispatch(ctx, http.MethodGet, pathData, nil)
	if err != nil {
		return nil, err
	}

	var resp tableResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, clientErrorf(0, "decode %s response: %v", pathData, err)
	}

	if opts.Raw {
		records, fields, err := decodeLenientTable(resp, pathData)
		if err != nil {
			return nil, err
		}
		return &RecordList{Records: records, Fields: fields}, nil
	}

	fields, err := decodeFields(resp.Fields, pathData)
	if err != nil {
		return nil, err
	}
	records, err := decodeRecords(resp.Data, pathData)
	if err != nil {
		return nil, err
	}
	return &RecordList{
		Records: mapRecordsToLabels(records, fields),
		Fields:  fields,
	}, nil
}

// GetRecord reads one row by id. Not-found propagates as a nil Record and nil
// Fields pair regardless of the mapping mode.
func (c *Client) GetRecord(ctx context.Context, id string, opts ReadOptions) (*RecordResult, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, &ClientError{Message: "record id must not be empty"}
	}

	body, err := c.dispatch(ctx, http.MethodGet, pathRowGet+"?id="+url.QueryEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var resp tableResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, clientErrorf(0, "decode %s response: %v", pathRowGet, err)
	}

	if isNullJSON(resp.Data) {
		return &RecordResult{}, nil
	}

	var record Record
	if err := json.Unmarshal(resp.Data, &record); err != nil {
		return nil, clientErrorf(0, "%s: data is not a record", pathRowGet)
	}

	if opts.Raw {
		fields, _ := decodeFieldsLenient(resp.Fields)
		return &RecordResult{Record: record, Fields: fields}, nil
	}

	fields, err := decodeFields(resp.Fields, pathRowGet)
	if err != nil {
		return nil, err
	}
	return &RecordResult{
		Record: mapRecordToLabels(record, labelIndex(fields)),
		Fields: fields,
	}, nil
}

// ListFields returns the field definitions of the active table. No mapping
// applies; definitions already carry both id and label.
func (c *Client) ListFields(ctx context.Context) ([]FieldDefinition, error) {
	body, err := c.dispatch(ctx, http.MethodGet, pathFields, nil)
	if err != nil {
		return nil, err
	}
	var resp tableResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, clientErrorf(0, "decode %s response: %v", pathFields, err)
	}
	return decodeFields(resp.Fields, pathFields)
}

// InsertRecord inserts a single row. Keys are field ids already known to the
// caller; no write-path mapping exists.
func (c *Client) InsertRecord(ctx context.Context, record Record) (bool, error) {
	if record == nil {
		return false, &ClientError{Message: "record must not be nil"}
	}
	return c.InsertRecords(ctx, []Record{record})
}

// InsertRecords inserts rows in one call. The bulk insert is all-or-nothing
// from the caller's perspective; there is no per-item reporting.
func (c *Client) InsertRecords(ctx context.Context, records []Record) (bool, error) {
	if len(records) == 0 {
		return false, &ClientError{Message: "no records to insert"}
	}
	return c.writeOp(ctx, pathRowInsert, map[string]any{"data": records})
}

// UpdateRecord updates a single row by id.
func (c *Client) UpdateRecord(ctx context.Context, id string, record Record) (bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return false, &ClientError{Message: "record id must not be empty"}
	}
	if record == nil {
		return false, &ClientError{Message: "record must not be nil"}
	}
	return c.writeOp(ctx, pathRowUpdate, map[string]any{"id": id, "data": record})
}

// UpdateRecords updates rows in bulk. Each record must self-identify by
// carrying its own "id" key.
func (c *Client) UpdateRecords(ctx context.Context, records []Record) (bool, error) {
	if len(records) == 0 {
		return false, &ClientError{Message: "no records to update"}
	}
	for i, rec := range records {
		id, _ := rec["id"].(string)
		if strings.TrimSpace(id) == "" {
			return false, clientErrorf(0, "record %d carries no id", i)
		}
	}
	return c.writeOp(ctx, pathRowUpdateMany, map[string]any{"data": records})
}

// DeleteRecord deletes a single row by id.
func (c *Client) DeleteRecord(ctx context.Context, id string) (bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return false, &ClientError{Message: "record id must not be empty"}
	}
	return c.writeOp(ctx, pathRowDelete, map[string]any{"id": id})
}

func (c *Client) writeOp(ctx context.Context, path string, payload any) (bool, error) {
	body, err := c.dispatch(ctx, http.MethodPost, path, payload)
	if err != nil {
		return false, err
	}
	var resp successResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return false, clientErrorf(0, "decode %s response: %v", path, err)
	}
	return resp.Success, nil
}

// decodeFields decodes a field-definition array that the mapped read path
// requires. A missing or non-array value is a response shape violation and
// surfaces loudly.
func decodeFields(raw json.RawMessage, path string) ([]FieldDefinition, error) {
	if isNullJSON(raw) {
		return nil, clientErrorf(0, "%s: response carried no fields array", path)
	}
	var fields []FieldDefinition
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, clientErrorf(0, "%s: fields is not an array", path)
	}
	return fields, nil
}

func decodeRecords(raw json.RawMessage, path string) ([]Record, error) {
	if isNullJSON(raw) {
		return nil, clientErrorf(0, "%s: response carried no data array", path)
	}
	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, clientErrorf(0, "%s: data is not an array", path)
	}
	return records, nil
}

// decodeLenientTable decodes the raw read path, where the caller asked for
// the untouched service shape: absent arrays stay nil and only malformed
// JSON errors out.
func decodeLenientTable(resp tableResponse, path string) ([]Record, []FieldDefinition, error) {
	var records []Record
	if !isNullJSON(resp.Data) {
		if err := json.Unmarshal(resp.Data, &records); err != nil {
			return nil, nil, clientErrorf(0, "%s: data is not an array", path)
		}
	}
	fields, err := decodeFieldsLenient(resp.Fields)
	if err != nil {
		return nil, nil, clientErrorf(0, "%s: fields is not an array", path)
	}
	return records, fields, nil
}

func decodeFieldsLenient(raw json.RawMessage) ([]FieldDefinition, error) {
	if isNullJSON(raw) {
		return nil, nil
	}
	var fields []FieldDefinition
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func isNullJSON(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
