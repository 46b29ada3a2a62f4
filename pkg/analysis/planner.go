package analysis

import (
	"strings"

	"github.com/jinzhu/inflection"
	"go.uber.org/zap"

	"github.com/airlift-dev/airlift/pkg/models"
)

// Planner turns reconciled recommendations into concrete schema directives:
// a foreign-key column placement, or a junction-table definition for
// many-to-many relationships. It never mutates the destination schema itself;
// directives are handed to an external apply step so inference stays safely
// re-runnable while mutation is not.
type Planner struct {
	logger *zap.Logger
}

// NewPlanner creates a planner.
func NewPlanner(logger *zap.Logger) *Planner {
	return &Planner{logger: logger.Named("placement-planner")}
}

// Plan computes a placement for every recommendation and attaches it. For
// one-to-one relationships the foreign key sits on the source side; when the
// run produced mirrored one-to-one recommendations for the same pair of
// tables, the side with the lexicographically smaller (table, field) key owns
// the column and both recommendations share one directive. Identical
// directives are emitted once, so applying the returned list never issues a
// duplicate constraint.
func (p *Planner) Plan(recs []*models.RelationshipRecommendation) []*models.ForeignKeyPlacement {
	placements := make([]*models.ForeignKeyPlacement, 0, len(recs))
	seen := make(map[string]*models.ForeignKeyPlacement, len(recs))
	for _, rec := range recs {
		var placement *models.ForeignKeyPlacement
		switch rec.Cardinality {
		case models.CardinalityManyToMany:
			placement = p.junctionPlacement(rec)
		case models.CardinalityOneToOne:
			placement = p.simplePlacement(oneToOneOwner(rec, recs))
		default:
			// 1:N and N:1: the foreign key lands on the side whose field held
			// the multi-valued or overlapping column, which is the source.
			placement = p.simplePlacement(rec)
		}

		key := placementKey(placement)
		if existing, ok := seen[key]; ok {
			rec.Placement = existing
			continue
		}
		seen[key] = placement
		rec.Placement = placement
		placements = append(placements, placement)
	}

	p.logger.Info("placement planning complete",
		zap.Int("recommendations", len(recs)),
		zap.Int("placements", len(placements)))
	return placements
}

// placementKey identifies a directive for deduplication.
func placementKey(p *models.ForeignKeyPlacement) string {
	if p.IsJunction() {
		parts := []string{"junction", p.JunctionTable.Name}
		for _, col := range p.JunctionTable.Columns {
			parts = append(parts, col.Name, col.ReferencesTable, col.ReferencesColumn)
		}
		return strings.Join(parts, "|")
	}
	return strings.Join([]string{
		p.ForeignKeyTable, p.ForeignKeyColumn, p.ReferencesTable, p.ReferencesColumn,
	}, "|")
}

// oneToOneOwner resolves which side of a one-to-one relationship carries the
// foreign key. Placement on the source side is the default; a surviving
// mirrored recommendation with a smaller key takes ownership instead.
func oneToOneOwner(rec *models.RelationshipRecommendation, all []*models.RelationshipRecommendation) *models.RelationshipRecommendation {
	owner := rec
	for _, other := range all {
		if other == rec || other.Cardinality != models.CardinalityOneToOne {
			continue
		}
		if other.SourceTable != rec.TargetTable || other.TargetTable != rec.SourceTable {
			continue
		}
		if other.Key() < owner.Key() {
			owner = other
		}
	}
	return owner
}

func (p *Planner) simplePlacement(rec *models.RelationshipRecommendation) *models.ForeignKeyPlacement {
	return &models.ForeignKeyPlacement{
		ForeignKeyTable:  normalizeIdent(rec.SourceTable),
		ForeignKeyColumn: fkColumnName(rec.SourceField, rec.TargetTable),
		ReferencesTable:  normalizeIdent(rec.TargetTable),
		ReferencesColumn: rec.TargetField,
	}
}

func (p *Planner) junctionPlacement(rec *models.RelationshipRecommendation) *models.ForeignKeyPlacement {
	sourceTable := normalizeIdent(rec.SourceTable)
	targetTable := normalizeIdent(rec.TargetTable)

	sourceCol := inflection.Singular(sourceTable) + "_id"
	targetCol := inflection.Singular(targetTable) + "_id"
	if targetCol == sourceCol {
		// Self-referential many-to-many: both columns would collide.
		targetCol = "related_" + targetCol
	}

	return &models.ForeignKeyPlacement{
		JunctionTable: &models.JunctionTable{
			Name: sourceTable + "_" + targetTable,
			Columns: []models.JunctionColumn{
				{Name: sourceCol, ReferencesTable: sourceTable, ReferencesColumn: "id"},
				{Name: targetCol, ReferencesTable: targetTable, ReferencesColumn: rec.TargetField},
			},
		},
	}
}

// fkColumnName derives the foreign-key column name from the source field,
// falling back to the singularized target table. "customer_ids" becomes
// "customer_id", "assignee" becomes "assignee_id".
func fkColumnName(sourceField, targetTable string) string {
	base := normalizeIdent(sourceField)
	if base == "" {
		base = inflection.Singular(normalizeIdent(targetTable))
	} else {
		base = inflection.Singular(base)
	}
	if !strings.HasSuffix(base, "_id") && base != "id" {
		base += "_id"
	}
	return base
}

// normalizeIdent lowercases a source-side name and maps anything outside
// [a-z0-9_] to underscores so it is usable as a relational identifier.
func normalizeIdent(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
