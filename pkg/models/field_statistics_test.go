package models

import "testing"

func TestArrayLengthHistogramObserve(t *testing.T) {
	var h ArrayLengthHistogram
	for _, length := range []int{0, 1, 1, 3, 5} {
		h.Observe(length)
	}

	if h.Count != 5 {
		t.Errorf("Count = %d, want 5", h.Count)
	}
	if h.Min != 0 || h.Max != 5 {
		t.Errorf("Min/Max = %d/%d, want 0/5", h.Min, h.Max)
	}
	if h.ZeroCount != 1 || h.SingleCount != 2 || h.MultiCount != 2 {
		t.Errorf("buckets = %d/%d/%d, want 1/2/2", h.ZeroCount, h.SingleCount, h.MultiCount)
	}
	if got := h.Average(); got != 2.0 {
		t.Errorf("Average() = %v, want 2.0", got)
	}
	if got := h.SingleValueRatio(); got != 0.4 {
		t.Errorf("SingleValueRatio() = %v, want 0.4", got)
	}
	if got := h.MultiValueRatio(); got != 0.4 {
		t.Errorf("MultiValueRatio() = %v, want 0.4", got)
	}
}

func TestArrayLengthHistogramEmpty(t *testing.T) {
	var h ArrayLengthHistogram
	if h.Average() != 0 || h.SingleValueRatio() != 0 || h.MultiValueRatio() != 0 {
		t.Error("empty histogram ratios must be 0, not NaN")
	}
}

func TestFieldStatisticsCompleteness(t *testing.T) {
	tests := []struct {
		name     string
		stats    FieldStatistics
		expected float64
	}{
		{"no nulls", FieldStatistics{TotalCount: 10, ScalarCount: 10}, 1.0},
		{"half null", FieldStatistics{TotalCount: 10, NullCount: 5, ScalarCount: 5}, 0.5},
		{"empty field", FieldStatistics{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stats.Completeness(); got != tt.expected {
				t.Errorf("Completeness() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestFieldStatisticsConsistent(t *testing.T) {
	ok := FieldStatistics{TotalCount: 10, NullCount: 2, ScalarCount: 3, ArrayObservations: 5}
	if !ok.Consistent() {
		t.Error("expected consistent counters")
	}
	bad := FieldStatistics{TotalCount: 10, NullCount: 2, ScalarCount: 3}
	if bad.Consistent() {
		t.Error("expected inconsistent counters to be detected")
	}
}
