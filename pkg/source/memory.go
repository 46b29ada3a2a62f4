package source

import (
	"context"
	"fmt"
	"sort"

	"github.com/airlift-dev/airlift/pkg/apperrors"
	"github.com/airlift-dev/airlift/pkg/models"
)

// MemoryStore serves a base that has already been materialized in memory,
// typically from a JSON export. It also backs the engine's tests.
type MemoryStore struct {
	tables map[string]*models.Table
	order  []string
}

// NewMemoryStore creates a store over the given tables. Listing order is
// stable by table name so repeated runs see identical input order.
func NewMemoryStore(tables []*models.Table) *MemoryStore {
	s := &MemoryStore{tables: make(map[string]*models.Table, len(tables))}
	for _, t := range tables {
		s.tables[t.ID] = t
		s.order = append(s.order, t.ID)
	}
	sort.Slice(s.order, func(i, j int) bool {
		return s.tables[s.order[i]].Name < s.tables[s.order[j]].Name
	})
	return s
}

var _ Store = (*MemoryStore)(nil)

// ListTables returns metadata for all tables, ordered by name.
func (s *MemoryStore) ListTables(ctx context.Context) ([]TableInfo, error) {
	infos := make([]TableInfo, 0, len(s.order))
	for _, id := range s.order {
		t := s.tables[id]
		infos = append(infos, TableInfo{ID: t.ID, Name: t.Name})
	}
	return infos, nil
}

// FetchTable returns the table with the given id.
func (s *MemoryStore) FetchTable(ctx context.Context, tableID string) (*models.Table, error) {
	t, ok := s.tables[tableID]
	if !ok {
		return nil, fmt.Errorf("fetch table %q: %w", tableID, apperrors.ErrTableNotFound)
	}
	return t, nil
}

// FetchIDSet returns the record identifier set for the given table.
func (s *MemoryStore) FetchIDSet(ctx context.Context, tableID string) (map[string]struct{}, error) {
	t, ok := s.tables[tableID]
	if !ok {
		return nil, fmt.Errorf("fetch id set for %q: %w", tableID, apperrors.ErrTableNotFound)
	}
	return t.IDSet(), nil
}
