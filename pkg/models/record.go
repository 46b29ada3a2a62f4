package models

import "strconv"

// ValueKind identifies the shape of a field value in a source record.
type ValueKind string

const (
	ValueKindNull          ValueKind = "null"
	ValueKindScalar        ValueKind = "scalar"
	ValueKindNumeric       ValueKind = "numeric"
	ValueKindReferenceList ValueKind = "reference_list"
)

// FieldValue is a tagged variant for a single cell in a source record.
// Source bases are dynamically typed; representing each value explicitly
// keeps the statistics collector's branching exhaustive.
type FieldValue struct {
	Kind       ValueKind `json:"kind"`
	Scalar     string    `json:"scalar,omitempty"`
	Numeric    float64   `json:"numeric,omitempty"`
	References []string  `json:"references,omitempty"`
}

// NullValue returns a null field value.
func NullValue() FieldValue {
	return FieldValue{Kind: ValueKindNull}
}

// ScalarValue returns a string-valued field value.
func ScalarValue(s string) FieldValue {
	return FieldValue{Kind: ValueKindScalar, Scalar: s}
}

// NumericValue returns a numeric field value.
func NumericValue(f float64) FieldValue {
	return FieldValue{Kind: ValueKindNumeric, Numeric: f}
}

// ReferenceListValue returns a multi-valued linked-record field value.
func ReferenceListValue(refs []string) FieldValue {
	return FieldValue{Kind: ValueKindReferenceList, References: refs}
}

// IsNull reports whether the value carries no data.
func (v FieldValue) IsNull() bool {
	return v.Kind == ValueKindNull
}

// AsString renders the value as a comparable string key.
// Reference lists have no single string form and return "".
func (v FieldValue) AsString() string {
	switch v.Kind {
	case ValueKindScalar:
		return v.Scalar
	case ValueKindNumeric:
		return strconv.FormatFloat(v.Numeric, 'g', -1, 64)
	default:
		return ""
	}
}

// Field describes one column of a source table, including declared
// link metadata when the source schema provides it.
type Field struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	IsMultiValued bool   `json:"isMultiValued"`
	LinkedTableID string `json:"linkedTableId,omitempty"`
}

// IsLink reports whether the field carries a declared link to another table.
func (f Field) IsLink() bool {
	return f.LinkedTableID != ""
}

// Record is one row of a source table.
type Record struct {
	ID     string                `json:"id"`
	Fields map[string]FieldValue `json:"fields"`
}

// Table is a fully materialized source table: schema plus records.
type Table struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Fields  []Field  `json:"fields"`
	Records []Record `json:"records"`
}

// IDSet returns the set of record identifiers in the table.
func (t *Table) IDSet() map[string]struct{} {
	ids := make(map[string]struct{}, len(t.Records))
	for _, r := range t.Records {
		ids[r.ID] = struct{}{}
	}
	return ids
}
