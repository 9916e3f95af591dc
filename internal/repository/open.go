package repository

import (
	"context"
	"fmt"

	"warzone/internal/db"
	"warzone/internal/migrations"
)

// Open builds the store for driver ("postgres", "sqlite" or "memory").
// Postgres migrations are applied before the store is returned.
func Open(ctx context.Context, driver, databaseURL, sqlitePath string) (Store, error) {
	switch driver {
	case "postgres":
		pool, err := db.Open(ctx, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := db.Migrate(ctx, pool, migrations.FS); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return NewPostgresStore(pool), nil
	case "sqlite":
		s, err := OpenSQLite(sqlitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", sqlitePath, err)
		}
		return s, nil
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
