package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/airlift-dev/airlift/pkg/apperrors"
	"github.com/airlift-dev/airlift/pkg/models"
)

func TestScorerWeightedSum(t *testing.T) {
	cand := &models.RelationshipCandidate{
		SourceTable: "Orders",
		SourceField: "customer_id",
		TargetTable: "Customers",
		TargetField: "id",
		Provenance:  models.ProvenanceData,
		Cardinality: models.CardinalityManyToOne,
		Stats: &models.FieldStatistics{
			TotalCount:  100,
			NullCount:   10,
			ScalarCount: 90,
		},
		Overlap: &models.OverlapStats{
			MatchRatio:     0.8,
			CoverageRatio:  0.5,
			Intersection:   16,
			SourceDistinct: 20,
		},
	}

	s := NewScorer(10, zap.NewNop())
	rec, err := s.Score(cand, 0.8)
	require.NoError(t, err)

	// 0.3*0.9 + 0.2*1.0 + 0.3*0.8 + 0.2*0.8
	assert.InDelta(t, 0.87, rec.Confidence, 1e-9)
	assert.Equal(t, models.BucketAutoSuggest, rec.Bucket)
	assert.InDelta(t, 0.9, rec.Factors.Completeness, 1e-9)
	assert.InDelta(t, 1.0, rec.Factors.SampleAdequacy, 1e-9)
	assert.InDelta(t, 0.8, rec.Factors.PatternConsistency, 1e-9)
	assert.Contains(t, rec.Reasoning, "value overlap")
	assert.Contains(t, rec.Reasoning, string(models.CardinalityManyToOne))
}

func TestScorerInsufficientSample(t *testing.T) {
	cand := &models.RelationshipCandidate{
		SourceTable: "A",
		SourceField: "ref",
		TargetTable: "B",
		Provenance:  models.ProvenanceData,
		Stats:       &models.FieldStatistics{TotalCount: 5, ScalarCount: 5},
	}

	s := NewScorer(10, zap.NewNop())
	_, err := s.Score(cand, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientSample)
}

func TestScorerSchemaBaseline(t *testing.T) {
	// A declared link over nearly empty data must not be dropped and must not
	// fall below the declaration baseline.
	cand := &models.RelationshipCandidate{
		SourceTable: "Orders",
		SourceField: "customer_ids",
		TargetTable: "Customers",
		TargetField: "id",
		Provenance:  models.ProvenanceSchema,
		Cardinality: models.CardinalityManyToOne,
		Stats:       &models.FieldStatistics{TotalCount: 2, NullCount: 1, ScalarCount: 1},
	}

	s := NewScorer(10, zap.NewNop())
	rec, err := s.Score(cand, 0)
	require.NoError(t, err)
	assert.Equal(t, models.SchemaBaselineConfidence, rec.Confidence)
	assert.Equal(t, models.BucketAutoSuggest, rec.Bucket)
	assert.Contains(t, rec.Reasoning, "declared-link baseline")
}

func TestScorerManualReviewBucket(t *testing.T) {
	cand := &models.RelationshipCandidate{
		SourceTable: "A",
		SourceField: "ref",
		TargetTable: "B",
		Provenance:  models.ProvenanceData,
		Cardinality: models.CardinalityManyToOne,
		Stats:       &models.FieldStatistics{TotalCount: 20, NullCount: 10, ScalarCount: 10},
		Overlap:     &models.OverlapStats{MatchRatio: 0.5, SourceDistinct: 10, Intersection: 5},
	}

	s := NewScorer(10, zap.NewNop())
	rec, err := s.Score(cand, 0)
	require.NoError(t, err)
	// 0.3*0.5 + 0.2*1.0 + 0.3*0.5 + 0.2*0 = 0.5
	assert.InDelta(t, 0.5, rec.Confidence, 1e-9)
	assert.Equal(t, models.BucketManualReview, rec.Bucket)
}

func TestPatternConsistencyHistogram(t *testing.T) {
	tests := []struct {
		name        string
		cardinality models.Cardinality
		hist        models.ArrayLengthHistogram
		expected    float64
	}{
		{
			name:        "one-to-one rewards single references",
			cardinality: models.CardinalityOneToOne,
			hist:        models.ArrayLengthHistogram{Count: 10, SingleCount: 9, MultiCount: 1, TotalLength: 11},
			expected:    0.9,
		},
		{
			name:        "one-to-many rewards a balanced mix, capped",
			cardinality: models.CardinalityOneToMany,
			hist:        models.ArrayLengthHistogram{Count: 10, SingleCount: 5, MultiCount: 5, TotalLength: 15},
			expected:    1.0,
		},
		{
			name:        "many-to-many rewards multi references",
			cardinality: models.CardinalityManyToMany,
			hist:        models.ArrayLengthHistogram{Count: 10, SingleCount: 2, MultiCount: 8, TotalLength: 40},
			expected:    0.8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cand := &models.RelationshipCandidate{
				Cardinality: tt.cardinality,
				Stats: &models.FieldStatistics{
					ArrayObservations: tt.hist.Count,
					Histogram:         tt.hist,
				},
			}
			got := patternConsistency(cand)
			if got != tt.expected {
				t.Errorf("patternConsistency() = %v, want %v", got, tt.expected)
			}
		})
	}
}
