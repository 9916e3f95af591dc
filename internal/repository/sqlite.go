package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"warzone/internal/domain"
	"warzone/internal/migrations"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteStore is the embedded store. Writers are serialized through a single
// connection and BEGIN IMMEDIATE, which gives the same row guarantees as
// per-row locks.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and applies the
// schema. ":memory:" gives a private in-memory database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path+"?_txlock=immediate")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db, path != ":memory:"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func initPragmas(db *sql.DB, onDisk bool) error {
	pragmas := []string{
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	if onDisk {
		pragmas = append(pragmas, "PRAGMA journal_mode=WAL;", "PRAGMA synchronous=NORMAL;")
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

// initSchema applies the SQLite dialect of the embedded migrations in file
// order. Statements are run one at a time.
func initSchema(db *sql.DB) error {
	names, err := migrations.List(migrations.SQLite)
	if err != nil {
		return err
	}
	for _, name := range names {
		b, err := fs.ReadFile(migrations.SQLite, name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		for _, stmt := range migrations.Statements(string(b)) {
			if _, err := db.Exec(stmt); err != nil {
				return fmt.Errorf("apply %s: %w", name, err)
			}
		}
	}
	return nil
}

// Timestamps are stored as unix nanoseconds so accrual keeps sub-second precision.
func toNanos(t time.Time) int64 { return t.UnixNano() }

func fromNanos(n int64) time.Time { return time.Unix(0, n).UTC() }

func sqliteConflict(err error) error {
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return fmt.Errorf("%w: %s", domain.ErrStoreConflict, se.Error())
		}
	}
	return err
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func sqliteScanPlayer(row *sql.Row) (*domain.Player, error) {
	var (
		p         domain.Player
		lastClaim sql.NullInt64
		createdAt int64
	)
	err := row.Scan(
		&p.ID, &p.Username, &p.FullName,
		&p.Coin, &p.Gem, &p.Point, &p.Level, &p.XP,
		&p.MinerLevel, &lastClaim,
		&p.Defense.Missile, &p.Defense.Electronic, &p.Defense.AntiFighter,
		&p.DefenseBonus, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUnknownPlayer
		}
		return nil, err
	}
	if lastClaim.Valid {
		t := fromNanos(lastClaim.Int64)
		p.LastMinerClaim = &t
	}
	p.CreatedAt = fromNanos(createdAt)
	return &p, nil
}

func sqliteGetPlayer(ctx context.Context, q querier, id int64) (*domain.Player, error) {
	return sqliteScanPlayer(q.QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE id = ?`, id))
}

func sqliteInventory(ctx context.Context, q querier, playerID int64) (domain.Inventory, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT missile, quantity FROM inventory WHERE player_id = ?`, playerID)
	if err != nil {
		return nil, err
	}
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

func (s *SQLiteStore) InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return sqliteConflict(err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(ctx, &sqliteTx{tx: tx}); err != nil {
		return sqliteConflict(err)
	}
	return sqliteConflict(tx.Commit())
}

func (s *SQLiteStore) GetPlayer(ctx context.Context, id int64) (*domain.Player, error) {
	return sqliteGetPlayer(ctx, s.db, id)
}

func (s *SQLiteStore) ListInventory(ctx context.Context, playerID int64) (domain.Inventory, error) {
	if _, err := s.GetPlayer(ctx, playerID); err != nil {
		return nil, err
	}
	inv, err := sqliteInventory(ctx, s.db, playerID)
	if err != nil {
		return nil, err
	}
	for id, q := range inv {
		if q == 0 {
			delete(inv, id)
		}
	}
	return inv, nil
}

func (s *SQLiteStore) TopPlayers(ctx context.Context, limit int) ([]domain.RankEntry, error) {
	limit = clampLimit(limit, 15, 100)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, full_name, coin, level
		 FROM players
		 ORDER BY coin DESC, id ASC
		 LIMIT ?`, limit)
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

func (s *SQLiteStore) Stats(ctx context.Context, since time.Time) (domain.EconomyStats, error) {
	var st domain.EconomyStats
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(coin), 0),
		        COALESCE(SUM(gem), 0),
		        COALESCE(SUM(point), 0),
		        COALESCE(AVG(level), 0.0)
		 FROM players`, toNanos(since),
	).Scan(&st.TotalPlayers, &st.PlayersToday, &st.CoinInPlay, &st.GemInPlay, &st.PointInPlay, &st.AverageLevel)
	if err != nil {
		return st, err
	}
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM attacks`).Scan(&st.TotalAttacks)
	return st, err
}

func (s *SQLiteStore) Transactions(ctx context.Context, playerID int64, limit int) ([]*domain.Transaction, error) {
	limit = clampLimit(limit, defaultHistoryLimit, defaultHistoryLimit)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, player_id, type, resource, amount, meta, created_at
		 FROM transactions
		 WHERE player_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		playerID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Transaction
	for rows.Next() {
		var (
			t         domain.Transaction
			metaJSON  string
			createdAt int64
		)
		if err := rows.Scan(&t.ID, &t.PlayerID, &t.Type, &t.Resource, &t.Amount, &metaJSON, &createdAt); err != nil {
			return nil, err
		}
		t.CreatedAt = fromNanos(createdAt)
		if metaJSON != "" && metaJSON != "{}" {
			_ = json.Unmarshal([]byte(metaJSON), &t.Meta)
		}
		result = append(result, &t)
	}
	return result, rows.Err()
}

func (s *SQLiteStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SQLiteStore) Close() error { return s.db.Close() }

type sqliteTx struct {
	tx *sql.Tx
}

// The transaction already holds the database write lock, so a plain read is locked.
func (t *sqliteTx) LockPlayer(ctx context.Context, id int64) (*domain.Player, error) {
	return sqliteGetPlayer(ctx, t.tx, id)
}

func (t *sqliteTx) InsertPlayer(ctx context.Context, p *domain.Player, inv domain.Inventory) (bool, error) {
	var lastClaim sql.NullInt64
	if p.LastMinerClaim != nil {
		lastClaim = sql.NullInt64{Int64: toNanos(*p.LastMinerClaim), Valid: true}
	}
	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO players (`+playerColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO NOTHING`,
		p.ID, p.Username, p.FullName,
		p.Coin, p.Gem, p.Point, p.Level, p.XP,
		p.MinerLevel, lastClaim,
		p.Defense.Missile, p.Defense.Electronic, p.Defense.AntiFighter,
		p.DefenseBonus, toNanos(p.CreatedAt),
	)
	if err != nil {
		return false, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, nil
	}
	for _, e := range inv.Entries() {
		if err := t.AddMissiles(ctx, p.ID, e.Missile, e.Quantity); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (t *sqliteTx) SavePlayer(ctx context.Context, p *domain.Player) error {
	var lastClaim sql.NullInt64
	if p.LastMinerClaim != nil {
		lastClaim = sql.NullInt64{Int64: toNanos(*p.LastMinerClaim), Valid: true}
	}
	res, err := t.tx.ExecContext(ctx,
		`UPDATE players SET
			username = ?, full_name = ?,
			coin = ?, gem = ?, point = ?, level = ?, xp = ?,
			miner_level = ?, last_miner_claim = ?,
			defense_missile = ?, defense_electronic = ?, defense_antifighter = ?,
			defense_bonus = ?
		 WHERE id = ?`,
		p.Username, p.FullName,
		p.Coin, p.Gem, p.Point, p.Level, p.XP,
		p.MinerLevel, lastClaim,
		p.Defense.Missile, p.Defense.Electronic, p.Defense.AntiFighter,
		p.DefenseBonus, p.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUnknownPlayer
	}
	return nil
}

func (t *sqliteTx) LockInventory(ctx context.Context, playerID int64) (domain.Inventory, error) {
	return sqliteInventory(ctx, t.tx, playerID)
}

func (t *sqliteTx) AddMissiles(ctx context.Context, playerID int64, missile domain.MissileID, delta int64) error {
	if !missile.Valid() {
		return domain.ErrUnknownMissile
	}
	switch {
	case delta == 0:
		return nil
	case delta > 0:
		_, err := t.tx.ExecContext(ctx,
			`INSERT INTO inventory (player_id, missile, quantity)
			 VALUES (?, ?, ?)
			 ON CONFLICT (player_id, missile) DO UPDATE SET quantity = quantity + excluded.quantity`,
			playerID, missile.String(), delta)
		return err
	default:
		res, err := t.tx.ExecContext(ctx,
			`UPDATE inventory SET quantity = quantity + ?
			 WHERE player_id = ? AND missile = ? AND quantity + ? >= 0`,
			delta, playerID, missile.String(), delta)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrInsufficientMissiles
		}
		return nil
	}
}

func (t *sqliteTx) RecordTransaction(ctx context.Context, tr *domain.Transaction) error {
	metaJSON := "{}"
	if tr.Meta != nil {
		if b, err := json.Marshal(tr.Meta); err == nil {
			metaJSON = string(b)
		}
	}
	if tr.CreatedAt.IsZero() {
		tr.CreatedAt = time.Now()
	}
	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO transactions (player_id, type, resource, amount, meta, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		tr.PlayerID, tr.Type, tr.Resource, tr.Amount, metaJSON, toNanos(tr.CreatedAt),
	)
	if err != nil {
		return err
	}
	tr.ID, err = res.LastInsertId()
	return err
}

func (t *sqliteTx) RecordAttack(ctx context.Context, r *domain.AttackRecord) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO attacks (id, attacker_id, target_id, combo, damage, loot_coin, loot_gem, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		strings.ToLower(r.ID), r.AttackerID, r.TargetID, string(r.Combo), r.Damage, r.LootCoin, r.LootGem, toNanos(r.CreatedAt),
	)
	return err
}
