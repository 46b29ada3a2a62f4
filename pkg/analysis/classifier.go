package analysis

import "github.com/airlift-dev/airlift/pkg/models"

// Cardinality classification thresholds. Deliberately simple, explainable
// heuristics: every classification must be traceable to a concrete numeric
// rule for the recommendation's reasoning string.
const (
	// From an array-length histogram.
	histogramOneToOneSingleRatio = 0.8
	histogramOneToOneMaxLength   = 2
	histogramOneToManySingle     = 0.3
	histogramOneToManyAvgLength  = 3.0

	// From pairwise overlap statistics.
	overlapOneToOneMatch    = 0.9
	overlapOneToOneCoverage = 0.9
	overlapManyToOneMatch   = 0.7
)

// ClassifyHistogram assigns a cardinality from a multi-valued field's
// array-length histogram. Rules are applied in order.
func ClassifyHistogram(h models.ArrayLengthHistogram) models.Cardinality {
	single := h.SingleValueRatio()
	if single > histogramOneToOneSingleRatio && h.Max <= histogramOneToOneMaxLength {
		return models.CardinalityOneToOne
	}
	if single > histogramOneToManySingle && h.Average() < histogramOneToManyAvgLength {
		return models.CardinalityOneToMany
	}
	return models.CardinalityManyToMany
}

// ClassifyOverlap assigns a cardinality from pairwise overlap statistics.
func ClassifyOverlap(o models.OverlapStats) models.Cardinality {
	if o.MatchRatio > overlapOneToOneMatch && o.CoverageRatio > overlapOneToOneCoverage {
		return models.CardinalityOneToOne
	}
	if o.MatchRatio > overlapManyToOneMatch {
		return models.CardinalityManyToOne
	}
	return models.CardinalityOneToMany
}

// Classify assigns a cardinality to a candidate from whichever evidence it
// carries. Overlap statistics take precedence for data-driven candidates;
// declared links fall back to their observed histogram. A declared link whose
// field only ever held scalars behaves like a plain foreign-key column, so it
// classifies as many-to-one.
func Classify(c *models.RelationshipCandidate) models.Cardinality {
	if c.Overlap != nil {
		return ClassifyOverlap(*c.Overlap)
	}
	if c.Stats != nil && c.Stats.ArrayObservations > 0 {
		return ClassifyHistogram(c.Stats.Histogram)
	}
	return models.CardinalityManyToOne
}
