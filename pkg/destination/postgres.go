package destination

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/airlift-dev/airlift/pkg/config"
	"github.com/airlift-dev/airlift/pkg/logging"
)

// DB wraps a pgxpool connection pool against the destination database.
type DB struct {
	*pgxpool.Pool
	logger *zap.Logger
}

// Connect creates a connection pool for the destination.
func Connect(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = cfg.MaxConnections
	if poolConfig.MaxConns == 0 {
		poolConfig.MaxConns = 10
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Error("destination ping failed", zap.String("error", logging.SanitizeError(err)))
		return nil, fmt.Errorf("failed to ping destination: %w", err)
	}

	logger.Info("destination connected",
		zap.String("conn", logging.SanitizeConnectionString(cfg.ConnectionString())))
	return &DB{Pool: pool, logger: logger.Named("destination")}, nil
}

// Apply executes schema directives in order. The inference engine never calls
// this; it belongs to the external apply step that consumes planner output.
func (db *DB) Apply(ctx context.Context, statements []string) error {
	for _, stmt := range statements {
		db.logger.Debug("applying statement", zap.String("sql", stmt))
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply statement %q: %w", stmt, err)
		}
	}
	return nil
}
