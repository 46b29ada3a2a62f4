package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/airlift-dev/airlift/pkg/models"
)

func TestSchemaLinkExtractor(t *testing.T) {
	tables := []*models.Table{
		{
			ID:   "tblOrders",
			Name: "Orders",
			Fields: []models.Field{
				{Name: "amount", Type: "number"},
				{Name: "customer_ids", Type: "link", IsMultiValued: true, LinkedTableID: "tblCustomers"},
			},
		},
		{
			ID:     "tblCustomers",
			Name:   "Customers",
			Fields: []models.Field{{Name: "name", Type: "text"}},
		},
	}
	stats := map[string]map[string]*models.FieldStatistics{
		"tblOrders": {
			"customer_ids": {TableID: "tblOrders", FieldName: "customer_ids", TotalCount: 10},
		},
	}

	e := NewSchemaLinkExtractor(zap.NewNop())
	cands, issues := e.Extract(tables, stats)

	require.Len(t, cands, 1)
	assert.Empty(t, issues)

	cand := cands[0]
	assert.Equal(t, "Orders", cand.SourceTable)
	assert.Equal(t, "customer_ids", cand.SourceField)
	assert.Equal(t, "Customers", cand.TargetTable)
	assert.Equal(t, "id", cand.TargetField)
	assert.Equal(t, "tblCustomers", cand.TargetTableID)
	assert.Equal(t, models.ProvenanceSchema, cand.Provenance)
	assert.False(t, cand.UnresolvedTarget)
	require.NotNil(t, cand.Stats)
	assert.Equal(t, 10, cand.Stats.TotalCount)
}

func TestSchemaLinkExtractorUnresolvedTarget(t *testing.T) {
	tables := []*models.Table{
		{
			ID:   "tblOrders",
			Name: "Orders",
			Fields: []models.Field{
				{Name: "legacy_ref", Type: "link", IsMultiValued: true, LinkedTableID: "tblDeleted"},
			},
		},
	}

	e := NewSchemaLinkExtractor(zap.NewNop())
	cands, issues := e.Extract(tables, nil)

	// The candidate is still emitted, flagged rather than dropped.
	require.Len(t, cands, 1)
	assert.True(t, cands[0].UnresolvedTarget)
	assert.Equal(t, "tblDeleted", cands[0].TargetTable)
	assert.Empty(t, cands[0].TargetTableID)

	require.Len(t, issues, 1)
	assert.Contains(t, issues[0], "tblDeleted")
	assert.Contains(t, issues[0], "Orders.legacy_ref")
}
