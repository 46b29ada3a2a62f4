package models

import "fmt"

// Provenance records which evidence source produced a relationship.
type Provenance string

const (
	ProvenanceSchema Provenance = "schema"
	ProvenanceData   Provenance = "data"
	ProvenanceHybrid Provenance = "hybrid"
)

// Cardinality is the shape of a relationship between two tables.
type Cardinality string

const (
	CardinalityOneToOne   Cardinality = "one-to-one"
	CardinalityOneToMany  Cardinality = "one-to-many"
	CardinalityManyToOne  Cardinality = "many-to-one"
	CardinalityManyToMany Cardinality = "many-to-many"
)

// ConfidenceBucket routes a recommendation to automatic suggestion or review.
type ConfidenceBucket string

const (
	BucketAutoSuggest  ConfidenceBucket = "auto-suggest"
	BucketManualReview ConfidenceBucket = "manual-review"
)

// AutoSuggestThreshold is the confidence cutoff for the auto-suggest bucket.
// Part of the stable output contract; do not change without a version bump.
const AutoSuggestThreshold = 0.70

// SchemaBaselineConfidence is the fixed confidence assigned to a relationship
// declared explicitly in source schema metadata, before any data confirms its
// cardinality.
const SchemaBaselineConfidence = 0.75

// OverlapStats holds value-set overlap measurements for a pairwise candidate.
type OverlapStats struct {
	MatchRatio     float64 `json:"matchRatio"`
	CoverageRatio  float64 `json:"coverageRatio"`
	Intersection   int     `json:"intersection"`
	SourceDistinct int     `json:"sourceDistinct"`
	TargetDistinct int     `json:"targetDistinct"`

	// SampleValues is a bounded sample of the source column's values,
	// retained for cross-table validation.
	SampleValues []string `json:"-"`
}

// RelationshipCandidate is one hypothesized relationship awaiting
// classification and scoring.
type RelationshipCandidate struct {
	SourceTable string
	SourceField string
	TargetTable string
	// TargetField defaults to the target's primary identifier.
	TargetField string
	// TargetTableID locates the target in the source store for validation.
	// Empty when the declared target could not be resolved.
	TargetTableID string

	Provenance  Provenance
	Cardinality Cardinality

	// Stats is the collector's summary for the source field. Always set for
	// schema candidates; set for data candidates when the field was collected.
	Stats *FieldStatistics
	// Overlap is set for data-driven candidates only.
	Overlap *OverlapStats

	// UnresolvedTarget marks a declared link whose target table id did not
	// match any known table. Such candidates are surfaced, never dropped.
	UnresolvedTarget bool
}

// Key identifies a candidate for reconciliation. Two candidates with the same
// key describe the same hypothesized relationship.
func (c *RelationshipCandidate) Key() string {
	return fmt.Sprintf("%s.%s->%s", c.SourceTable, c.SourceField, c.TargetTable)
}

// SampleSize returns the number of observations backing the candidate.
func (c *RelationshipCandidate) SampleSize() int {
	if c.Overlap != nil {
		return c.Overlap.SourceDistinct
	}
	if c.Stats != nil {
		return len(c.Stats.ReferencedIDs)
	}
	return 0
}

// TotalObservations returns the total record count observed for the source field.
func (c *RelationshipCandidate) TotalObservations() int {
	if c.Stats != nil {
		return c.Stats.TotalCount
	}
	if c.Overlap != nil {
		return c.Overlap.SourceDistinct
	}
	return 0
}

// Confidence factor weights. The four factors are independent; their weighted
// sum is the final confidence score.
const (
	WeightCompleteness         = 0.3
	WeightSampleAdequacy       = 0.2
	WeightPatternConsistency   = 0.3
	WeightCrossTableValidation = 0.2
)

// MinSampleSize is the observation count below which candidates are not
// scored at all.
const MinSampleSize = 10

// ConfidenceFactors are the four independent evidence scores, each in [0,1].
type ConfidenceFactors struct {
	Completeness         float64 `json:"completeness"`
	SampleAdequacy       float64 `json:"sampleAdequacy"`
	PatternConsistency   float64 `json:"patternConsistency"`
	CrossTableValidation float64 `json:"crossTableValidation"`
}

// Score returns the weighted sum of the factors, clamped to [0,1].
func (f ConfidenceFactors) Score() float64 {
	s := WeightCompleteness*f.Completeness +
		WeightSampleAdequacy*f.SampleAdequacy +
		WeightPatternConsistency*f.PatternConsistency +
		WeightCrossTableValidation*f.CrossTableValidation
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// Dominant returns the factor contributing most to the score (score x weight)
// and its contribution, for the audit trail in recommendation reasoning.
func (f ConfidenceFactors) Dominant() (string, float64) {
	name := "completeness"
	best := WeightCompleteness * f.Completeness
	if c := WeightSampleAdequacy * f.SampleAdequacy; c > best {
		name, best = "sample adequacy", c
	}
	if c := WeightPatternConsistency * f.PatternConsistency; c > best {
		name, best = "pattern consistency", c
	}
	if c := WeightCrossTableValidation * f.CrossTableValidation; c > best {
		name, best = "cross-table validation", c
	}
	return name, best
}

// RelationshipRecommendation is a scored, classified candidate. Immutable once
// produced. JSON field names are part of the stable output contract.
type RelationshipRecommendation struct {
	SourceTable string           `json:"sourceTable"`
	SourceField string           `json:"sourceField"`
	TargetTable string           `json:"targetTable"`
	TargetField string           `json:"targetField"`
	Cardinality Cardinality      `json:"cardinality"`
	Confidence  float64          `json:"confidence"`
	Provenance  Provenance       `json:"provenance"`
	Reasoning   string           `json:"reasoning"`
	Bucket      ConfidenceBucket `json:"bucket"`

	Factors ConfidenceFactors `json:"factors"`

	Placement *ForeignKeyPlacement `json:"placement,omitempty"`
}

// Key matches RelationshipCandidate.Key for the same relationship.
func (r *RelationshipRecommendation) Key() string {
	return fmt.Sprintf("%s.%s->%s", r.SourceTable, r.SourceField, r.TargetTable)
}

// BucketFor returns the bucket a confidence score falls into.
func BucketFor(confidence float64) ConfidenceBucket {
	if confidence >= AutoSuggestThreshold {
		return BucketAutoSuggest
	}
	return BucketManualReview
}
