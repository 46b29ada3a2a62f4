package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/airlift-dev/airlift/pkg/models"
)

func TestCollectorCountsAddUp(t *testing.T) {
	table := &models.Table{
		ID:   "tbl1",
		Name: "Tasks",
		Fields: []models.Field{
			{Name: "title", Type: "text"},
			{Name: "assignees", Type: "link", IsMultiValued: true, LinkedTableID: "tbl2"},
		},
		Records: []models.Record{
			{ID: "r1", Fields: map[string]models.FieldValue{
				"title":     models.ScalarValue("first"),
				"assignees": models.ReferenceListValue([]string{"u1", "u2"}),
			}},
			{ID: "r2", Fields: map[string]models.FieldValue{
				"title":     models.NumericValue(42),
				"assignees": models.ReferenceListValue([]string{"u1"}),
			}},
			{ID: "r3", Fields: map[string]models.FieldValue{
				"title": models.NullValue(),
			}},
			{ID: "r4", Fields: map[string]models.FieldValue{
				"title":     models.FieldValue{Kind: "bogus"},
				"assignees": models.ReferenceListValue(nil),
			}},
		},
	}

	c := NewCollector(100, zap.NewNop())
	stats := c.Collect(table, nil)
	require.Len(t, stats, 2)

	title := stats[0]
	assert.Equal(t, "title", title.FieldName)
	assert.Equal(t, 4, title.TotalCount)
	assert.Equal(t, 2, title.NullCount) // explicit null + malformed shape
	assert.Equal(t, 2, title.ScalarCount)
	assert.Equal(t, 2, title.DistinctScalarCount)
	assert.Equal(t, models.FieldTypeScalar, title.TypeTag)
	assert.True(t, title.Consistent())

	assignees := stats[1]
	assert.Equal(t, 4, assignees.TotalCount)
	assert.Equal(t, 1, assignees.NullCount) // missing from r3
	assert.Equal(t, 3, assignees.ArrayObservations)
	assert.Equal(t, models.FieldTypeMultiValued, assignees.TypeTag)
	assert.True(t, assignees.Consistent())

	h := assignees.Histogram
	assert.Equal(t, 3, h.Count)
	assert.Equal(t, 1, h.ZeroCount)
	assert.Equal(t, 1, h.SingleCount)
	assert.Equal(t, 1, h.MultiCount)
	assert.Equal(t, 2, h.Max)
	assert.ElementsMatch(t, []string{"u1", "u2", "u1"}, assignees.ReferencedIDs)
}

func TestCollectorSampleCap(t *testing.T) {
	table := &models.Table{
		ID:     "tbl1",
		Name:   "Orders",
		Fields: []models.Field{{Name: "items", Type: "link", IsMultiValued: true}},
	}
	for i := 0; i < 50; i++ {
		table.Records = append(table.Records, models.Record{
			ID: "r",
			Fields: map[string]models.FieldValue{
				"items": models.ReferenceListValue([]string{"a", "b", "c"}),
			},
		})
	}

	c := NewCollector(5, zap.NewNop())
	stats := c.Collect(table, nil)
	require.Len(t, stats, 1)
	assert.Len(t, stats[0].ReferencedIDs, 5)
	assert.Equal(t, 50, stats[0].ArrayObservations) // histogram still sees everything
}

func TestCollectorIdentifiesReferencedTable(t *testing.T) {
	table := &models.Table{
		ID:     "tblOrders",
		Name:   "Orders",
		Fields: []models.Field{{Name: "customer", Type: "link", IsMultiValued: true}},
		Records: []models.Record{
			{ID: "o1", Fields: map[string]models.FieldValue{"customer": models.ReferenceListValue([]string{"c1"})}},
			{ID: "o2", Fields: map[string]models.FieldValue{"customer": models.ReferenceListValue([]string{"c2"})}},
		},
	}
	idSets := map[string]map[string]struct{}{
		"tblOrders":    {"o1": {}, "o2": {}},
		"tblCustomers": {"c1": {}, "c2": {}},
		"tblProducts":  {"p1": {}},
	}

	c := NewCollector(100, zap.NewNop())
	stats := c.Collect(table, idSets)
	require.Len(t, stats, 1)
	assert.Equal(t, "tblCustomers", stats[0].ReferencedTableID)
	assert.False(t, stats[0].UnidentifiedTarget)
}

func TestCollectorFlagsUnidentifiedTarget(t *testing.T) {
	table := &models.Table{
		ID:     "tblOrders",
		Name:   "Orders",
		Fields: []models.Field{{Name: "customer", Type: "link", IsMultiValued: true}},
		Records: []models.Record{
			{ID: "o1", Fields: map[string]models.FieldValue{"customer": models.ReferenceListValue([]string{"ghost1"})}},
		},
	}
	idSets := map[string]map[string]struct{}{
		"tblCustomers": {"c1": {}},
	}

	c := NewCollector(100, zap.NewNop())
	stats := c.Collect(table, idSets)
	require.Len(t, stats, 1)
	assert.True(t, stats[0].UnidentifiedTarget)
	assert.Empty(t, stats[0].ReferencedTableID)
	assert.Equal(t, []string{"ghost1"}, stats[0].ReferencedIDs) // retained, not discarded
}
