package destination

import (
	"fmt"
	"strings"

	"github.com/airlift-dev/airlift/pkg/models"
)

// RenderCreateTable produces the CREATE TABLE statement for one source table.
// Every record keeps its source identifier as the primary key; field columns
// map scalars to text, numbers to double precision and multi-valued fields to
// text arrays. Link columns stay raw here: replacing them with proper foreign
// keys is the placement directives' job.
func RenderCreateTable(pgSchema string, t *models.Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s.%s (\n", quoteIdent(pgSchema), quoteIdent(tableIdent(t.Name)))
	fmt.Fprintf(&b, "  %s text PRIMARY KEY", quoteIdent("id"))

	for _, field := range t.Fields {
		fmt.Fprintf(&b, ",\n  %s %s", quoteIdent(columnIdent(field.Name)), columnType(field))
	}

	b.WriteString("\n)")
	return b.String()
}

// RenderPlacement produces the statements realizing one schema directive:
// either an ALTER TABLE pair adding the foreign-key column and constraint, or
// a CREATE TABLE for a junction table whose two foreign-key columns form the
// composite primary key.
func RenderPlacement(pgSchema string, p *models.ForeignKeyPlacement) []string {
	if p.IsJunction() {
		return []string{renderJunction(pgSchema, p.JunctionTable)}
	}

	table := quoteIdent(pgSchema) + "." + quoteIdent(p.ForeignKeyTable)
	column := quoteIdent(p.ForeignKeyColumn)
	refs := quoteIdent(pgSchema) + "." + quoteIdent(p.ReferencesTable)
	constraint := quoteIdent(fmt.Sprintf("fk_%s_%s", p.ForeignKeyTable, p.ForeignKeyColumn))

	return []string{
		fmt.Sprintf("ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s text", table, column),
		fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s)",
			table, constraint, column, refs, quoteIdent(p.ReferencesColumn)),
	}
}

func renderJunction(pgSchema string, j *models.JunctionTable) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s.%s (\n", quoteIdent(pgSchema), quoteIdent(j.Name))

	keyCols := make([]string, 0, len(j.Columns))
	for _, col := range j.Columns {
		fmt.Fprintf(&b, "  %s text NOT NULL REFERENCES %s.%s (%s),\n",
			quoteIdent(col.Name),
			quoteIdent(pgSchema), quoteIdent(col.ReferencesTable), quoteIdent(col.ReferencesColumn))
		keyCols = append(keyCols, quoteIdent(col.Name))
	}
	fmt.Fprintf(&b, "  PRIMARY KEY (%s)\n)", strings.Join(keyCols, ", "))
	return b.String()
}

// columnType maps a source field onto a destination column type.
func columnType(field models.Field) string {
	if field.IsMultiValued || field.IsLink() {
		return "text[]"
	}
	switch strings.ToLower(field.Type) {
	case "number", "numeric", "currency", "percent", "rating", "duration":
		return "double precision"
	default:
		return "text"
	}
}

// tableIdent and columnIdent lowercase source names and map anything outside
// [a-z0-9_] to underscores, matching the naming the placement planner emits.
func tableIdent(name string) string { return normalizeIdent(name) }

func columnIdent(name string) string { return normalizeIdent(name) }

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

// quoteIdent double-quotes a PostgreSQL identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
