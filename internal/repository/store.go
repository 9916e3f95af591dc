package repository

import (
	"context"
	"time"

	"warzone/internal/domain"
)

// Store is the logical persistence contract of the economy. Every
// read-modify-write goes through InTx; the plain getters are snapshot reads.
type Store interface {
	// InTx runs fn in one transaction. The transaction commits when fn
	// returns nil and rolls back otherwise. Lock contention surfaces as
	// domain.ErrStoreConflict.
	InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	GetPlayer(ctx context.Context, id int64) (*domain.Player, error)
	ListInventory(ctx context.Context, playerID int64) (domain.Inventory, error)
	TopPlayers(ctx context.Context, limit int) ([]domain.RankEntry, error)
	Stats(ctx context.Context, since time.Time) (domain.EconomyStats, error)
	Transactions(ctx context.Context, playerID int64, limit int) ([]*domain.Transaction, error)

	Ping(ctx context.Context) error
	Close() error
}

// Tx is the set of operations available inside InTx. Rows must be locked in
// ascending player id order when more than one is needed.
type Tx interface {
	// LockPlayer reads and locks a player row until the transaction ends.
	LockPlayer(ctx context.Context, id int64) (*domain.Player, error)
	// InsertPlayer creates the row and its starter inventory. It reports
	// false without writing anything when the id already exists.
	InsertPlayer(ctx context.Context, p *domain.Player, inv domain.Inventory) (bool, error)
	SavePlayer(ctx context.Context, p *domain.Player) error

	// LockInventory reads the inventory of a player whose row is locked.
	LockInventory(ctx context.Context, playerID int64) (domain.Inventory, error)
	// AddMissiles applies a signed delta. A result below zero is rejected
	// with domain.ErrInsufficientMissiles.
	AddMissiles(ctx context.Context, playerID int64, missile domain.MissileID, delta int64) error

	RecordTransaction(ctx context.Context, t *domain.Transaction) error
	RecordAttack(ctx context.Context, r *domain.AttackRecord) error
}

const defaultHistoryLimit = 100

func clampLimit(limit, def, ceiling int) int {
	if limit <= 0 {
		return def
	}
	if limit > ceiling {
		return ceiling
	}
	return limit
}
