package analysis

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/airlift-dev/airlift/pkg/apperrors"
	"github.com/airlift-dev/airlift/pkg/models"
)

// Scorer combines four weighted evidence factors into a single confidence
// score in [0,1] and produces the final recommendation for a classified,
// validated candidate.
type Scorer struct {
	minSample int
	logger    *zap.Logger
}

// NewScorer creates a scorer. minSample is the observation count below which
// data-driven candidates are dropped with a logged reason instead of being
// emitted as low-confidence noise.
func NewScorer(minSample int, logger *zap.Logger) *Scorer {
	if minSample < 1 {
		minSample = models.MinSampleSize
	}
	return &Scorer{
		minSample: minSample,
		logger:    logger.Named("confidence-scorer"),
	}
}

// Score produces a recommendation for the candidate. validation is the
// cross-table validation factor. Data-driven candidates with too few
// observations return apperrors.ErrInsufficientSample; schema-declared
// candidates are never dropped for sample size because their evidence is the
// declaration itself, which guarantees the baseline confidence.
func (s *Scorer) Score(cand *models.RelationshipCandidate, validation float64) (*models.RelationshipRecommendation, error) {
	total := cand.TotalObservations()
	if total < s.minSample && cand.Provenance != models.ProvenanceSchema {
		s.logger.Debug("candidate dropped for insufficient sample",
			zap.String("key", cand.Key()),
			zap.Int("observations", total),
			zap.Int("minimum", s.minSample))
		return nil, fmt.Errorf("candidate %s has %d observations, need %d: %w",
			cand.Key(), total, s.minSample, apperrors.ErrInsufficientSample)
	}

	factors := models.ConfidenceFactors{
		Completeness:         completeness(cand),
		SampleAdequacy:       s.sampleAdequacy(cand),
		PatternConsistency:   patternConsistency(cand),
		CrossTableValidation: validation,
	}

	confidence := factors.Score()
	reasoning := s.reasoning(cand, factors)

	// An explicit declaration is worth at least the baseline no matter how
	// thin the observed data is.
	if cand.Provenance == models.ProvenanceSchema && confidence < models.SchemaBaselineConfidence {
		confidence = models.SchemaBaselineConfidence
		reasoning += fmt.Sprintf("; declared-link baseline %.2f applied", models.SchemaBaselineConfidence)
	}

	return &models.RelationshipRecommendation{
		SourceTable: cand.SourceTable,
		SourceField: cand.SourceField,
		TargetTable: cand.TargetTable,
		TargetField: cand.TargetField,
		Cardinality: cand.Cardinality,
		Confidence:  confidence,
		Provenance:  cand.Provenance,
		Reasoning:   reasoning,
		Bucket:      models.BucketFor(confidence),
		Factors:     factors,
	}, nil
}

// completeness is 1 minus the null ratio of the source field.
func completeness(cand *models.RelationshipCandidate) float64 {
	if cand.Stats != nil {
		return cand.Stats.Completeness()
	}
	// Overlap-only candidate: distinct values were observed, nulls were not
	// tracked, so count only what was seen.
	return 1
}

// sampleAdequacy caps observed sample size against the scoring minimum.
func (s *Scorer) sampleAdequacy(cand *models.RelationshipCandidate) float64 {
	adequacy := float64(cand.SampleSize()) / float64(s.minSample)
	if adequacy > 1 {
		return 1
	}
	return adequacy
}

// patternConsistency measures how well the observed distribution matches the
// assigned cardinality.
//
// Histogram evidence: one-to-one rewards single-reference observations,
// one-to-many rewards a balanced mix of single and multi references (capped
// at 1), many-to-many rewards multi references. Overlap evidence: one-to-one
// takes the weaker of the two ratios, everything else the match ratio, so the
// factor stays traceable to the classifier's own rule inputs.
func patternConsistency(cand *models.RelationshipCandidate) float64 {
	if cand.Stats != nil && cand.Stats.ArrayObservations > 0 {
		h := cand.Stats.Histogram
		switch cand.Cardinality {
		case models.CardinalityOneToOne:
			return h.SingleValueRatio()
		case models.CardinalityOneToMany:
			balanced := 2 * minFloat(h.SingleValueRatio(), h.MultiValueRatio())
			if balanced > 1 {
				return 1
			}
			return balanced
		case models.CardinalityManyToMany:
			return h.MultiValueRatio()
		default:
			return h.SingleValueRatio()
		}
	}
	if cand.Overlap != nil {
		if cand.Cardinality == models.CardinalityOneToOne {
			return minFloat(cand.Overlap.MatchRatio, cand.Overlap.CoverageRatio)
		}
		return cand.Overlap.MatchRatio
	}
	return 0
}

// reasoning builds the audit string for a recommendation. It always names the
// dominant factor (highest score x weight) so every suggestion is traceable.
func (s *Scorer) reasoning(cand *models.RelationshipCandidate, factors models.ConfidenceFactors) string {
	var evidence string
	switch {
	case cand.Overlap != nil:
		evidence = fmt.Sprintf("value overlap (match %.2f, coverage %.2f, intersection %d)",
			cand.Overlap.MatchRatio, cand.Overlap.CoverageRatio, cand.Overlap.Intersection)
	case cand.Stats != nil && cand.Stats.ArrayObservations > 0:
		evidence = fmt.Sprintf("array-length histogram (single-value ratio %.2f, avg length %.1f)",
			cand.Stats.Histogram.SingleValueRatio(), cand.Stats.Histogram.Average())
	default:
		evidence = "declared schema link"
	}

	dominant, contribution := factors.Dominant()
	return fmt.Sprintf("classified %s from %s; dominant factor %s (%.2f weighted)",
		cand.Cardinality, evidence, dominant, contribution)
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
