package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airlift-dev/airlift/pkg/apperrors"
	"github.com/airlift-dev/airlift/pkg/models"
)

func TestMemoryStoreListsByName(t *testing.T) {
	store := NewMemoryStore([]*models.Table{
		{ID: "tbl2", Name: "Zebras"},
		{ID: "tbl1", Name: "Apples"},
	})

	infos, err := store.ListTables(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "Apples", infos[0].Name)
	assert.Equal(t, "Zebras", infos[1].Name)
}

func TestMemoryStoreFetch(t *testing.T) {
	store := NewMemoryStore([]*models.Table{
		{ID: "tbl1", Name: "Apples", Records: []models.Record{{ID: "a1"}, {ID: "a2"}}},
	})

	table, err := store.FetchTable(context.Background(), "tbl1")
	require.NoError(t, err)
	assert.Equal(t, "Apples", table.Name)

	ids, err := store.FetchIDSet(context.Background(), "tbl1")
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	_, ok := ids["a1"]
	assert.True(t, ok)
}

func TestMemoryStoreNotFound(t *testing.T) {
	store := NewMemoryStore(nil)

	_, err := store.FetchTable(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrTableNotFound)

	_, err = store.FetchIDSet(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrTableNotFound)
}
