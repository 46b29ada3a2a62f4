package analysis

import (
	"testing"

	"github.com/airlift-dev/airlift/pkg/models"
)

func TestClassifyHistogram(t *testing.T) {
	tests := []struct {
		name     string
		hist     models.ArrayLengthHistogram
		expected models.Cardinality
	}{
		{
			name:     "dominant single values with short arrays",
			hist:     models.ArrayLengthHistogram{Count: 100, SingleCount: 90, MultiCount: 10, Max: 1, TotalLength: 100},
			expected: models.CardinalityOneToOne,
		},
		{
			name:     "balanced mix with short average",
			hist:     models.ArrayLengthHistogram{Count: 100, SingleCount: 50, MultiCount: 50, Max: 4, TotalLength: 150},
			expected: models.CardinalityOneToMany,
		},
		{
			name:     "long arrays dominate",
			hist:     models.ArrayLengthHistogram{Count: 100, SingleCount: 10, MultiCount: 90, Max: 20, TotalLength: 800},
			expected: models.CardinalityManyToMany,
		},
		{
			name:     "high single ratio but long tail exceeds max length",
			hist:     models.ArrayLengthHistogram{Count: 100, SingleCount: 85, MultiCount: 15, Max: 9, TotalLength: 200},
			expected: models.CardinalityOneToMany,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ClassifyHistogram(tt.hist)
			if result != tt.expected {
				t.Errorf("ClassifyHistogram() = %s, want %s", result, tt.expected)
			}
		})
	}
}

func TestClassifyOverlap(t *testing.T) {
	tests := []struct {
		name     string
		overlap  models.OverlapStats
		expected models.Cardinality
	}{
		{
			name:     "near-total overlap both directions",
			overlap:  models.OverlapStats{MatchRatio: 0.95, CoverageRatio: 0.95},
			expected: models.CardinalityOneToOne,
		},
		{
			name:     "strong match with partial coverage",
			overlap:  models.OverlapStats{MatchRatio: 0.75, CoverageRatio: 0.4},
			expected: models.CardinalityManyToOne,
		},
		{
			name:     "weak match falls through",
			overlap:  models.OverlapStats{MatchRatio: 0.6, CoverageRatio: 0.9},
			expected: models.CardinalityOneToMany,
		},
		{
			name:     "boundary match ratio is not one-to-one",
			overlap:  models.OverlapStats{MatchRatio: 0.9, CoverageRatio: 0.95},
			expected: models.CardinalityManyToOne,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ClassifyOverlap(tt.overlap)
			if result != tt.expected {
				t.Errorf("ClassifyOverlap() = %s, want %s", result, tt.expected)
			}
		})
	}
}

func TestClassifySpecExamples(t *testing.T) {
	// Histogram {singleValueRatio: 0.9, maxLength: 1} must be one-to-one.
	h := models.ArrayLengthHistogram{Count: 10, SingleCount: 9, ZeroCount: 1, Max: 1, TotalLength: 9}
	if got := ClassifyHistogram(h); got != models.CardinalityOneToOne {
		t.Errorf("got %s, want one-to-one", got)
	}

	// Histogram {singleValueRatio: 0.5, averageLength: 1.5} must be one-to-many.
	h = models.ArrayLengthHistogram{Count: 10, SingleCount: 5, MultiCount: 5, Max: 3, TotalLength: 15}
	if got := ClassifyHistogram(h); got != models.CardinalityOneToMany {
		t.Errorf("got %s, want one-to-many", got)
	}
}

func TestClassifyEvidencePrecedence(t *testing.T) {
	// Overlap evidence wins over the histogram when both are present.
	cand := &models.RelationshipCandidate{
		Stats: &models.FieldStatistics{
			ArrayObservations: 100,
			Histogram:         models.ArrayLengthHistogram{Count: 100, SingleCount: 95, Max: 1, TotalLength: 95},
		},
		Overlap: &models.OverlapStats{MatchRatio: 0.8, CoverageRatio: 0.3},
	}
	if got := Classify(cand); got != models.CardinalityManyToOne {
		t.Errorf("got %s, want many-to-one from overlap evidence", got)
	}

	// A declared link over a scalar-only field behaves like a plain FK column.
	cand = &models.RelationshipCandidate{
		Stats: &models.FieldStatistics{ScalarCount: 50, TotalCount: 50},
	}
	if got := Classify(cand); got != models.CardinalityManyToOne {
		t.Errorf("got %s, want many-to-one for scalar link", got)
	}
}
