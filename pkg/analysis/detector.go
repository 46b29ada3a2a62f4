package analysis

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/airlift-dev/airlift/pkg/models"
	"github.com/airlift-dev/airlift/pkg/source"
)

// Detector proposes relationship candidates purely from observed data,
// independent of any declared schema. For every ordered pair of distinct
// tables it compares bounded distinct-value sets of key-like source columns
// against the target's identifier set.
//
// Complexity is O(tables^2 x columns) with every comparison bounded by the
// sample cap, so total cost stays tunable via configuration.
type Detector struct {
	store           source.Store
	sampleCap       int
	minMatchRatio   float64
	minIntersection int
	minNonNull      int
	logger          *zap.Logger
}

// NewDetector creates a detector. Thresholds are arbitrary-but-fixed values
// chosen to avoid false positives from small or coincidental overlaps.
func NewDetector(store source.Store, sampleCap int, minMatchRatio float64, minIntersection, minNonNull int, logger *zap.Logger) *Detector {
	if sampleCap < 1 {
		sampleCap = 1000
	}
	return &Detector{
		store:           store,
		sampleCap:       sampleCap,
		minMatchRatio:   minMatchRatio,
		minIntersection: minIntersection,
		minNonNull:      minNonNull,
		logger:          logger.Named("pairwise-detector"),
	}
}

// Detect runs the pairwise scan over all tables. statsByField is the
// collector's output keyed by table id then field name; columns without
// sufficient non-null observations are skipped. Pairs failing to retrieve
// target data are skipped with a warning, not fatal to the run. The context
// is checked between table pairs so a long scan can be aborted; candidates
// found before cancellation are still returned.
func (d *Detector) Detect(ctx context.Context, tables []*models.Table, statsByField map[string]map[string]*models.FieldStatistics) ([]*models.RelationshipCandidate, []string) {
	var candidates []*models.RelationshipCandidate
	var issues []string

	for _, src := range tables {
		for _, tgt := range tables {
			if src.ID == tgt.ID {
				continue
			}
			if err := ctx.Err(); err != nil {
				issues = append(issues, "pairwise detection aborted by cancellation; results are partial")
				return candidates, issues
			}

			pairCands, err := d.detectPair(ctx, src, tgt, statsByField[src.ID])
			if err != nil {
				issues = append(issues, fmt.Sprintf(
					"skipped pair %s -> %s: %v", src.Name, tgt.Name, err))
				d.logger.Warn("pairwise comparison failed",
					zap.String("source", src.Name),
					zap.String("target", tgt.Name),
					zap.Error(err))
				continue
			}
			candidates = append(candidates, pairCands...)
		}
	}

	d.logger.Info("pairwise detection complete",
		zap.Int("tables", len(tables)),
		zap.Int("candidates", len(candidates)))
	return candidates, issues
}

// detectPair compares every eligible source column against the target's
// identifier set.
func (d *Detector) detectPair(ctx context.Context, src, tgt *models.Table, srcStats map[string]*models.FieldStatistics) ([]*models.RelationshipCandidate, error) {
	targetIDs, err := d.store.FetchIDSet(ctx, tgt.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch target id set: %w", err)
	}
	targetDistinct := len(targetIDs)
	if targetDistinct > d.sampleCap {
		targetDistinct = d.sampleCap
	}
	if targetDistinct == 0 {
		return nil, nil
	}

	var out []*models.RelationshipCandidate
	for _, field := range src.Fields {
		if field.Name == "id" {
			continue // identifier columns are targets, not sources
		}
		st := srcStats[field.Name]
		if st == nil || st.NonNullCount() < d.minNonNull {
			continue
		}

		values := d.sampleColumnValues(src, field)
		if len(values) == 0 {
			continue
		}

		intersection := 0
		for _, v := range values {
			if _, ok := targetIDs[v]; ok {
				intersection++
			}
		}

		matchRatio := float64(intersection) / float64(len(values))
		coverageRatio := float64(intersection) / float64(targetDistinct)
		if matchRatio < d.minMatchRatio || intersection < d.minIntersection {
			continue
		}

		out = append(out, &models.RelationshipCandidate{
			SourceTable:   src.Name,
			SourceField:   field.Name,
			TargetTable:   tgt.Name,
			TargetField:   "id",
			TargetTableID: tgt.ID,
			Provenance:    models.ProvenanceData,
			Stats:         st,
			Overlap: &models.OverlapStats{
				MatchRatio:     matchRatio,
				CoverageRatio:  coverageRatio,
				Intersection:   intersection,
				SourceDistinct: len(values),
				TargetDistinct: targetDistinct,
				SampleValues:   values,
			},
		})
	}
	return out, nil
}

// sampleColumnValues returns the column's distinct values up to the sample
// cap, in sorted order for deterministic downstream results. Reference list
// elements participate alongside scalars: key-like columns in flexible bases
// frequently arrive as single-element arrays.
func (d *Detector) sampleColumnValues(t *models.Table, field models.Field) []string {
	distinct := make(map[string]struct{})
	for _, rec := range t.Records {
		if len(distinct) >= d.sampleCap {
			break
		}
		value, ok := rec.Fields[field.Name]
		if !ok {
			continue
		}
		switch value.Kind {
		case models.ValueKindScalar, models.ValueKindNumeric:
			distinct[value.AsString()] = struct{}{}
		case models.ValueKindReferenceList:
			for _, ref := range value.References {
				if len(distinct) >= d.sampleCap {
					break
				}
				distinct[ref] = struct{}{}
			}
		}
	}

	values := make([]string, 0, len(distinct))
	for v := range distinct {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
