package models

// FieldTypeTag is the inferred shape of a field across all observed records.
type FieldTypeTag string

const (
	FieldTypeScalar      FieldTypeTag = "scalar"
	FieldTypeMultiValued FieldTypeTag = "multi-valued"
	FieldTypeNull        FieldTypeTag = "null"
)

// ArrayLengthHistogram accumulates observed lengths of multi-valued fields.
type ArrayLengthHistogram struct {
	Min         int `json:"min"`
	Max         int `json:"max"`
	Count       int `json:"count"`
	TotalLength int `json:"totalLength"`
	ZeroCount   int `json:"zeroCount"`
	SingleCount int `json:"singleCount"`
	MultiCount  int `json:"multiCount"`
}

// Observe records one array-length observation.
func (h *ArrayLengthHistogram) Observe(length int) {
	if h.Count == 0 || length < h.Min {
		h.Min = length
	}
	if length > h.Max {
		h.Max = length
	}
	h.Count++
	h.TotalLength += length
	switch {
	case length == 0:
		h.ZeroCount++
	case length == 1:
		h.SingleCount++
	default:
		h.MultiCount++
	}
}

// Average returns the mean observed array length, 0 when empty.
func (h *ArrayLengthHistogram) Average() float64 {
	if h.Count == 0 {
		return 0
	}
	return float64(h.TotalLength) / float64(h.Count)
}

// SingleValueRatio returns the fraction of observations holding exactly one value.
func (h *ArrayLengthHistogram) SingleValueRatio() float64 {
	if h.Count == 0 {
		return 0
	}
	return float64(h.SingleCount) / float64(h.Count)
}

// MultiValueRatio returns the fraction of observations holding more than one value.
func (h *ArrayLengthHistogram) MultiValueRatio() float64 {
	if h.Count == 0 {
		return 0
	}
	return float64(h.MultiCount) / float64(h.Count)
}

// FieldStatistics summarizes one (table, field) pair over a full analysis pass.
// Immutable once the collector returns it; discarded at end of pass.
type FieldStatistics struct {
	TableID   string       `json:"tableId"`
	TableName string       `json:"tableName"`
	FieldName string       `json:"fieldName"`
	TypeTag   FieldTypeTag `json:"typeTag"`

	TotalCount          int `json:"totalCount"`
	NullCount           int `json:"nullCount"`
	ScalarCount         int `json:"scalarCount"`
	ArrayObservations   int `json:"arrayObservations"`
	DistinctScalarCount int `json:"distinctScalarCount"`

	Histogram ArrayLengthHistogram `json:"histogram"`

	// ReferencedIDs is a bounded sample of referenced identifier strings,
	// retained for cross-table validation.
	ReferencedIDs []string `json:"-"`

	// ReferencedTableID is the best-effort resolution of which table the
	// sampled references point at. Empty when unidentified.
	ReferencedTableID  string `json:"referencedTableId,omitempty"`
	UnidentifiedTarget bool   `json:"unidentifiedTarget,omitempty"`
}

// Consistent reports whether the per-kind counters add up to the total.
// A false result indicates a collector defect, not bad input.
func (s *FieldStatistics) Consistent() bool {
	return s.NullCount+s.ScalarCount+s.ArrayObservations == s.TotalCount
}

// NonNullCount returns the number of observations carrying data.
func (s *FieldStatistics) NonNullCount() int {
	return s.TotalCount - s.NullCount
}

// Completeness returns 1 minus the null ratio, 0 for an empty field.
func (s *FieldStatistics) Completeness() float64 {
	if s.TotalCount == 0 {
		return 0
	}
	return 1 - float64(s.NullCount)/float64(s.TotalCount)
}
