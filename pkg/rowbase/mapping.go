// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

package rowbase

// FieldDefinition is service-provided metadata describing one column of a
// table. It is read-only to the client.
type FieldDefinition struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
	Table string `json:"table"`
}

// Record is a single row, keyed either by field id (the service's native
// form) or by field label (the caller-friendly form produced by the read-path
// mapping). Values are arbitrary JSON values.
type Record map[string]any

// labelIndex builds the id -> label lookup used by the read-path transform.
// Definitions missing an id or a label contribute nothing.
func labelIndex(fields []FieldDefinition) map[string]string {
	idx := make(map[string]string, len(fields))
	for _, f := range fields {
		if f.ID == "" || f.Label == "" {
			continue
		}
		idx[f.ID] = f.Label
	}
	return idx
}

// mapRecordToLabels produces an equivalent record keyed by label. Keys with
// no matching field definition pass through unchanged, so the transform is
// lossless: every key of the input appears in the output. A nil record (a
// not-found row) propagates unchanged.
func mapRecordToLabels(rec Record, idx map[string]string) Record {
	if rec == nil {
		return nil
	}
	out := make(Record, len(rec))
	for key, value := range rec {
		if label, ok := idx[key]; ok {
			out[label] = value
		} else {
			out[key] = value
		}
	}
	return out
}

// mapRecordsToLabels applies mapRecordToLabels uniformly over a record set.
func mapRecordsToLabels(recs []Record, fields []FieldDefinition) []Record {
	if recs == nil {
		return nil
	}
	idx := labelIndex(fields)
	out := make([]Record, len(recs))
	for i, rec := range recs {
		out[i] = mapRecordToLabels(rec, idx)
	}
	return out
}
