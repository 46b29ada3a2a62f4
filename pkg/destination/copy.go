package destination

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/airlift-dev/airlift/pkg/models"
)

// CopyRecords bulk-loads one table's records into the destination via the
// COPY protocol. The table must already exist (see RenderCreateTable).
func (db *DB) CopyRecords(ctx context.Context, pgSchema string, t *models.Table) (int64, error) {
	columns := []string{"id"}
	for _, field := range t.Fields {
		columns = append(columns, columnIdent(field.Name))
	}

	rows := make([][]any, 0, len(t.Records))
	for _, rec := range t.Records {
		row := make([]any, 0, len(columns))
		row = append(row, rec.ID)
		for _, field := range t.Fields {
			row = append(row, copyValue(rec.Fields[field.Name]))
		}
		rows = append(rows, row)
	}

	copied, err := db.CopyFrom(ctx,
		pgx.Identifier{pgSchema, tableIdent(t.Name)},
		columns,
		pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("copy records into %s: %w", t.Name, err)
	}

	db.logger.Info("records copied",
		zap.String("table", t.Name),
		zap.Int64("rows", copied))
	return copied, nil
}

// copyValue converts a tagged field value into its wire representation.
func copyValue(v models.FieldValue) any {
	switch v.Kind {
	case models.ValueKindScalar:
		return v.Scalar
	case models.ValueKindNumeric:
		return v.Numeric
	case models.ValueKindReferenceList:
		return v.References
	default:
		return nil
	}
}
