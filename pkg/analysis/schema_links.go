package analysis

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/airlift-dev/airlift/pkg/models"
)

// SchemaLinkExtractor reads explicit link-field declarations and emits one
// relationship candidate per declared link. Declarations are self-reported:
// a target table id that resolves nowhere is a common real-world occurrence,
// so such candidates are flagged and surfaced rather than silently dropped.
type SchemaLinkExtractor struct {
	logger *zap.Logger
}

// NewSchemaLinkExtractor creates an extractor.
func NewSchemaLinkExtractor(logger *zap.Logger) *SchemaLinkExtractor {
	return &SchemaLinkExtractor{logger: logger.Named("schema-links")}
}

// Extract walks every table's field metadata and returns candidates with
// provenance "schema" plus human-readable issues for unresolved declarations.
// statsByField carries the collector's output keyed by table id then field
// name, attached so downstream classification can use the observed histogram.
func (e *SchemaLinkExtractor) Extract(tables []*models.Table, statsByField map[string]map[string]*models.FieldStatistics) ([]*models.RelationshipCandidate, []string) {
	nameByID := make(map[string]string, len(tables))
	for _, t := range tables {
		nameByID[t.ID] = t.Name
	}

	var candidates []*models.RelationshipCandidate
	var issues []string
	for _, t := range tables {
		for _, field := range t.Fields {
			if !field.IsLink() {
				continue
			}

			cand := &models.RelationshipCandidate{
				SourceTable:   t.Name,
				SourceField:   field.Name,
				TargetField:   "id",
				TargetTableID: field.LinkedTableID,
				Provenance:    models.ProvenanceSchema,
			}
			if stats, ok := statsByField[t.ID]; ok {
				cand.Stats = stats[field.Name]
			}

			targetName, ok := nameByID[field.LinkedTableID]
			if !ok {
				// Emit anyway; the report's potential-issues list carries it.
				cand.TargetTable = field.LinkedTableID
				cand.TargetTableID = ""
				cand.UnresolvedTarget = true
				issues = append(issues, fmt.Sprintf(
					"declared link %s.%s references unknown table id %q",
					t.Name, field.Name, field.LinkedTableID))
				e.logger.Warn("unresolved link target",
					zap.String("table", t.Name),
					zap.String("field", field.Name),
					zap.String("target_id", field.LinkedTableID))
			} else {
				cand.TargetTable = targetName
			}

			candidates = append(candidates, cand)
		}
	}

	e.logger.Info("schema link extraction complete",
		zap.Int("candidates", len(candidates)),
		zap.Int("unresolved", len(issues)))
	return candidates, issues
}
