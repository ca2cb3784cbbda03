package database

import (
	"context"
	"fmt"

	"github.com/yourusername/keiba-engine/internal/config"
)

// Initialize creates a database connection pool and sanity-checks the
// schema the engine reads from.
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	// The engine is read-only; races is the anchor table every query
	// joins against.
	var exists bool
	err = db.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'races')",
	).Scan(&exists)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to inspect schema: %w", err)
	}
	if !exists {
		db.Close()
		return nil, fmt.Errorf("races table not found; run database migrations first")
	}

	return db, nil
}
