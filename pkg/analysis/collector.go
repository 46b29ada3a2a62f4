package analysis

import (
	"go.uber.org/zap"

	"github.com/airlift-dev/airlift/pkg/models"
)

// Collector scans a table's records field by field and produces one
// FieldStatistics per (table, field) pair. Collection for independent tables
// has no shared state and can run in parallel; each call returns fresh
// accumulators by value.
type Collector struct {
	sampleCap int
	logger    *zap.Logger
}

// NewCollector creates a collector. sampleCap bounds the per-field sample of
// referenced identifiers retained for cross-table validation.
func NewCollector(sampleCap int, logger *zap.Logger) *Collector {
	if sampleCap < 1 {
		sampleCap = 1000
	}
	return &Collector{
		sampleCap: sampleCap,
		logger:    logger.Named("field-stats"),
	}
}

// Collect produces statistics for every field of the table. idSets maps table
// id to that table's record identifier set and is used for best-effort
// identification of which table a referenced identifier belongs to.
func (c *Collector) Collect(table *models.Table, idSets map[string]map[string]struct{}) []*models.FieldStatistics {
	stats := make([]*models.FieldStatistics, 0, len(table.Fields))
	for _, field := range table.Fields {
		stats = append(stats, c.collectField(table, field, idSets))
	}
	return stats
}

func (c *Collector) collectField(table *models.Table, field models.Field, idSets map[string]map[string]struct{}) *models.FieldStatistics {
	st := &models.FieldStatistics{
		TableID:   table.ID,
		TableName: table.Name,
		FieldName: field.Name,
	}

	distinct := make(map[string]struct{})
	for _, rec := range table.Records {
		st.TotalCount++
		value, ok := rec.Fields[field.Name]
		if !ok {
			st.NullCount++
			continue
		}

		switch value.Kind {
		case models.ValueKindNull:
			st.NullCount++
		case models.ValueKindScalar, models.ValueKindNumeric:
			st.ScalarCount++
			distinct[value.AsString()] = struct{}{}
		case models.ValueKindReferenceList:
			st.ArrayObservations++
			st.Histogram.Observe(len(value.References))
			for _, ref := range value.References {
				if len(st.ReferencedIDs) < c.sampleCap {
					st.ReferencedIDs = append(st.ReferencedIDs, ref)
				}
			}
		default:
			// Malformed record shape: counted as null, never fatal.
			st.NullCount++
			c.logger.Warn("malformed field value",
				zap.String("table", table.Name),
				zap.String("field", field.Name),
				zap.String("record", rec.ID),
				zap.String("kind", string(value.Kind)))
		}
	}
	st.DistinctScalarCount = len(distinct)
	st.TypeTag = inferTypeTag(st)

	c.identifyReferencedTable(st, table.ID, idSets)
	return st
}

// inferTypeTag picks the dominant observed shape for the field.
func inferTypeTag(st *models.FieldStatistics) models.FieldTypeTag {
	switch {
	case st.ArrayObservations > 0 && st.ArrayObservations >= st.ScalarCount:
		return models.FieldTypeMultiValued
	case st.ScalarCount > 0:
		return models.FieldTypeScalar
	default:
		return models.FieldTypeNull
	}
}

// identifyReferencedTable resolves which table the sampled references point
// at by membership against the other tables' identifier sets. Best effort:
// the table matching the most sampled references wins, ties broken by table
// id for determinism. References resolving nowhere stay retained but flagged.
func (c *Collector) identifyReferencedTable(st *models.FieldStatistics, ownTableID string, idSets map[string]map[string]struct{}) {
	if len(st.ReferencedIDs) == 0 {
		return
	}

	bestID := ""
	bestHits := 0
	for tableID, ids := range idSets {
		if tableID == ownTableID {
			continue
		}
		hits := 0
		for _, ref := range st.ReferencedIDs {
			if _, ok := ids[ref]; ok {
				hits++
			}
		}
		if hits > bestHits || (hits == bestHits && hits > 0 && tableID < bestID) {
			bestID = tableID
			bestHits = hits
		}
	}

	if bestHits == 0 {
		st.UnidentifiedTarget = true
		c.logger.Debug("referenced identifiers resolve to no known table",
			zap.String("table", st.TableName),
			zap.String("field", st.FieldName),
			zap.Int("sampled", len(st.ReferencedIDs)))
		return
	}
	st.ReferencedTableID = bestID
}
