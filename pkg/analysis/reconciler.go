package analysis

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/airlift-dev/airlift/pkg/apperrors"
	"github.com/airlift-dev/airlift/pkg/models"
)

// Reconciler merges schema-declared and data-driven recommendation sets keyed
// by (source table, source field, target table). Keys present in both sets
// keep the higher confidence and are marked hybrid; keys in one set pass
// through unchanged.
type Reconciler struct {
	logger *zap.Logger
}

// NewReconciler creates a reconciler.
func NewReconciler(logger *zap.Logger) *Reconciler {
	return &Reconciler{logger: logger.Named("reconciler")}
}

// Reconcile merges the two sets. The output is ordered by descending
// confidence with the key as tiebreak, so identical inputs always yield an
// identical list. No two entries share a key; a duplicate after merging is an
// internal invariant violation and aborts the run.
func (r *Reconciler) Reconcile(schemaRecs, dataRecs []*models.RelationshipRecommendation) ([]*models.RelationshipRecommendation, error) {
	merged := make(map[string]*models.RelationshipRecommendation, len(schemaRecs)+len(dataRecs))

	for _, rec := range schemaRecs {
		key := rec.Key()
		if _, exists := merged[key]; exists {
			return nil, fmt.Errorf("schema recommendation %s: %w", key, apperrors.ErrDuplicateRelationshipKey)
		}
		merged[key] = rec
	}

	var hybrids int
	for _, rec := range dataRecs {
		key := rec.Key()
		existing, exists := merged[key]
		if !exists {
			merged[key] = rec
			continue
		}
		if existing.Provenance == models.ProvenanceData || existing.Provenance == models.ProvenanceHybrid {
			return nil, fmt.Errorf("data recommendation %s: %w", key, apperrors.ErrDuplicateRelationshipKey)
		}

		// Both evidence sources agree this relationship exists. Keep the
		// stronger recommendation and tag the combined provenance. Data wins
		// ties: its cardinality is confirmed by observation, the schema
		// declaration's is not.
		winner := rec
		if existing.Confidence > rec.Confidence {
			winner = existing
		}
		combined := *winner
		combined.Provenance = models.ProvenanceHybrid
		merged[key] = &combined
		hybrids++
	}

	out := make([]*models.RelationshipRecommendation, 0, len(merged))
	for _, rec := range merged {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].Key() < out[j].Key()
	})

	r.logger.Info("reconciliation complete",
		zap.Int("schema", len(schemaRecs)),
		zap.Int("data", len(dataRecs)),
		zap.Int("hybrid", hybrids),
		zap.Int("total", len(out)))
	return out, nil
}
