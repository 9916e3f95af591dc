package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"warzone/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps players in Postgres and locks rows with SELECT ... FOR UPDATE.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

const playerColumns = `id, username, full_name, coin, gem, point, level, xp,
	miner_level, last_miner_claim, defense_missile, defense_electronic,
	defense_antifighter, defense_bonus, created_at`

func scanPlayer(row pgx.Row) (*domain.Player, error) {
	var p domain.Player
	err := row.Scan(
		&p.ID, &p.Username, &p.FullName,
		&p.Coin, &p.Gem, &p.Point, &p.Level, &p.XP,
		&p.MinerLevel, &p.LastMinerClaim,
		&p.Defense.Missile, &p.Defense.Electronic, &p.Defense.AntiFighter,
		&p.DefenseBonus, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUnknownPlayer
		}
		return nil, err
	}
	return &p, nil
}

// pgConflict maps lock and serialization failures to domain.ErrStoreConflict.
func pgConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03":
			return fmt.Errorf("%w: %s", domain.ErrStoreConflict, pgErr.Message)
		}
	}
	return err
}

func (s *PostgresStore) InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return pgConflict(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, &pgTx{tx: tx}); err != nil {
		return pgConflict(err)
	}
	return pgConflict(tx.Commit(ctx))
}

func (s *PostgresStore) GetPlayer(ctx context.Context, id int64) (*domain.Player, error) {
	return scanPlayer(s.db.QueryRow(ctx,
		`SELECT `+playerColumns+` FROM players WHERE id = $1`, id))
}

func (s *PostgresStore) ListInventory(ctx context.Context, playerID int64) (domain.Inventory, error) {
	if _, err := s.GetPlayer(ctx, playerID); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(ctx,
		`SELECT missile, quantity FROM inventory WHERE player_id = $1 AND quantity > 0`, playerID)
	if err != nil {
		return nil, err
	}
	return scanInventory(rows)
}

func scanInventory(rows pgx.Rows) (domain.Inventory, error) {
	defer rows.Close()
	inv := domain.Inventory{}
	for rows.Next() {
		var (
			slug string
			qty  int64
		)
		if err := rows.Scan(&slug, &qty); err != nil {
			return nil, err
		}
		id, err := domain.ParseMissileID(slug)
		if err != nil {
			return nil, err
		}
		inv[id] = qty
	}
	return inv, rows.Err()
}

func (s *PostgresStore) TopPlayers(ctx context.Context, limit int) ([]domain.RankEntry, error) {
	limit = clampLimit(limit, 15, 100)
	rows, err := s.db.Query(ctx,
		`SELECT id, username, full_name, coin, level
		 FROM players
		 ORDER BY coin DESC, id ASC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RankEntry
	for rows.Next() {
		e := domain.RankEntry{Rank: len(out) + 1}
		if err := rows.Scan(&e.PlayerID, &e.Username, &e.FullName, &e.Coin, &e.Level); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Stats(ctx context.Context, since time.Time) (domain.EconomyStats, error) {
	var st domain.EconomyStats
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE created_at >= $1),
		        COALESCE(SUM(coin), 0)::bigint,
		        COALESCE(SUM(gem), 0)::bigint,
		        COALESCE(SUM(point), 0)::bigint,
		        COALESCE(AVG(level), 0)::float8
		 FROM players`, since,
	).Scan(&st.TotalPlayers, &st.PlayersToday, &st.CoinInPlay, &st.GemInPlay, &st.PointInPlay, &st.AverageLevel)
	if err != nil {
		return st, err
	}
	err = s.db.QueryRow(ctx, `SELECT COUNT(*) FROM attacks`).Scan(&st.TotalAttacks)
	return st, err
}

func (s *PostgresStore) Transactions(ctx context.Context, playerID int64, limit int) ([]*domain.Transaction, error) {
	limit = clampLimit(limit, defaultHistoryLimit, defaultHistoryLimit)
	rows, err := s.db.Query(ctx,
		`SELECT id, player_id, type, resource, amount, meta, created_at
		 FROM transactions
		 WHERE player_id = $1
		 ORDER BY id DESC
		 LIMIT $2`,
		playerID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Transaction
	for rows.Next() {
		var (
			t        domain.Transaction
			metaJSON []byte
		)
		if err := rows.Scan(&t.ID, &t.PlayerID, &t.Type, &t.Resource, &t.Amount, &metaJSON, &t.CreatedAt); err != nil {
			return nil, err
		}
		if len(metaJSON) > 0 {
			_ = json.Unmarshal(metaJSON, &t.Meta)
		}
		result = append(result, &t)
	}
	return result, rows.Err()
}

func (s *PostgresStore) Ping(ctx context.Context) error { return s.db.Ping(ctx) }

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) LockPlayer(ctx context.Context, id int64) (*domain.Player, error) {
	return scanPlayer(t.tx.QueryRow(ctx,
		`SELECT `+playerColumns+` FROM players WHERE id = $1 FOR UPDATE`, id))
}

func (t *pgTx) InsertPlayer(ctx context.Context, p *domain.Player, inv domain.Inventory) (bool, error) {
	tag, err := t.tx.Exec(ctx,
		`INSERT INTO players (`+playerColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 ON CONFLICT (id) DO NOTHING`,
		p.ID, p.Username, p.FullName,
		p.Coin, p.Gem, p.Point, p.Level, p.XP,
		p.MinerLevel, p.LastMinerClaim,
		p.Defense.Missile, p.Defense.Electronic, p.Defense.AntiFighter,
		p.DefenseBonus, p.CreatedAt,
	)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}
	for _, e := range inv.Entries() {
		if err := t.AddMissiles(ctx, p.ID, e.Missile, e.Quantity); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (t *pgTx) SavePlayer(ctx context.Context, p *domain.Player) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE players SET
			username = $2, full_name = $3,
			coin = $4, gem = $5, point = $6, level = $7, xp = $8,
			miner_level = $9, last_miner_claim = $10,
			defense_missile = $11, defense_electronic = $12, defense_antifighter = $13,
			defense_bonus = $14
		 WHERE id = $1`,
		p.ID, p.Username, p.FullName,
		p.Coin, p.Gem, p.Point, p.Level, p.XP,
		p.MinerLevel, p.LastMinerClaim,
		p.Defense.Missile, p.Defense.Electronic, p.Defense.AntiFighter,
		p.DefenseBonus,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUnknownPlayer
	}
	return nil
}

func (t *pgTx) LockInventory(ctx context.Context, playerID int64) (domain.Inventory, error) {
	rows, err := t.tx.Query(ctx,
		`SELECT missile, quantity FROM inventory WHERE player_id = $1 FOR UPDATE`, playerID)
	if err != nil {
		return nil, err
	}
	return scanInventory(rows)
}

func (t *pgTx) AddMissiles(ctx context.Context, playerID int64, missile domain.MissileID, delta int64) error {
	if !missile.Valid() {
		return domain.ErrUnknownMissile
	}
	switch {
	case delta == 0:
		return nil
	case delta > 0:
		_, err := t.tx.Exec(ctx,
			`INSERT INTO inventory (player_id, missile, quantity)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (player_id, missile) DO UPDATE SET quantity = inventory.quantity + EXCLUDED.quantity`,
			playerID, missile.String(), delta)
		return err
	default:
		tag, err := t.tx.Exec(ctx,
			`UPDATE inventory SET quantity = quantity + $3
			 WHERE player_id = $1 AND missile = $2 AND quantity + $3 >= 0`,
			playerID, missile.String(), delta)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrInsufficientMissiles
		}
		return nil
	}
}

func (t *pgTx) RecordTransaction(ctx context.Context, tr *domain.Transaction) error {
	metaJSON, err := json.Marshal(tr.Meta)
	if err != nil || tr.Meta == nil {
		metaJSON = []byte("{}")
	}
	if tr.CreatedAt.IsZero() {
		tr.CreatedAt = time.Now()
	}
	return t.tx.QueryRow(ctx,
		`INSERT INTO transactions (player_id, type, resource, amount, meta, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		tr.PlayerID, tr.Type, tr.Resource, tr.Amount, metaJSON, tr.CreatedAt,
	).Scan(&tr.ID)
}

func (t *pgTx) RecordAttack(ctx context.Context, r *domain.AttackRecord) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO attacks (id, attacker_id, target_id, combo, damage, loot_coin, loot_gem, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		r.ID, r.AttackerID, r.TargetID, string(r.Combo), r.Damage, r.LootCoin, r.LootGem, r.CreatedAt,
	)
	return err
}
