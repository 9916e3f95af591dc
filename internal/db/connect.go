package db

import (
	"context"
	"fmt"
	"io/fs"
	"sort"

	"warzone/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Open creates a pool and verifies the connection.
func Open(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

// Connect is Open for process start-up: failures are fatal.
func Connect(dsn string) *pgxpool.Pool {
	db, err := Open(context.Background(), dsn)
	if err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}

	logger.Info("database connected")
	return db
}

// Migrate executes every *.sql file of migrations in name order. The files
// are written to be re-runnable.
func Migrate(ctx context.Context, pool *pgxpool.Pool, migrations fs.FS) error {
	names, err := fs.Glob(migrations, "*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)
	for _, name := range names {
		b, err := fs.ReadFile(migrations, name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if _, err := pool.Exec(ctx, string(b)); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
		logger.Debug("migration applied", "file", name)
	}
	return nil
}
