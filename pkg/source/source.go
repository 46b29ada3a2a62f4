package source

import (
	"context"

	"github.com/airlift-dev/airlift/pkg/models"
)

// TableInfo is the lightweight listing entry for a source table.
type TableInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Store is the read-only data-access port the engine depends on. Implementations
// wrap whatever transport reaches the source record store; the engine itself
// never owns a connection, so it is trivially testable with an in-memory fake.
type Store interface {
	// ListTables returns metadata for every table in the source base.
	ListTables(ctx context.Context) ([]TableInfo, error)
	// FetchTable returns a fully materialized table by id.
	FetchTable(ctx context.Context, tableID string) (*models.Table, error)
	// FetchIDSet returns the set of record identifiers for a table. This is
	// the second data access cross-table validation depends on.
	FetchIDSet(ctx context.Context, tableID string) (map[string]struct{}, error)
}
