package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"warzone/internal/db"
	"warzone/internal/domain"
	"warzone/internal/migrations"
)

// storeFactory returns a store and the first player id the test may use.
// Fresh stores are empty, so totals and rankings can be asserted exactly.
type storeFactory struct {
	name  string
	fresh bool
	open  func(t *testing.T) (Store, int64)
}

func factories(t *testing.T) []storeFactory {
	t.Helper()
	fs := []storeFactory{
		{name: "memory", fresh: true, open: func(t *testing.T) (Store, int64) {
			return NewMemoryStore(), 1
		}},
		{name: "sqlite", fresh: true, open: func(t *testing.T) (Store, int64) {
			st, err := OpenSQLite(filepath.Join(t.TempDir(), "warzone.db"))
			if err != nil {
				t.Fatalf("open sqlite: %v", err)
			}
			t.Cleanup(func() { _ = st.Close() })
			return st, 1
		}},
	}
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		fs = append(fs, storeFactory{name: "postgres", open: func(t *testing.T) (Store, int64) {
			pool, err := db.Open(context.Background(), dsn)
			if err != nil {
				t.Fatalf("connect: %v", err)
			}
			if err := db.Migrate(context.Background(), pool, migrations.FS); err != nil {
				t.Fatalf("migrate: %v", err)
			}
			base := time.Now().UnixNano() / 1000 % 1_000_000_000 * 1000
			t.Cleanup(func() {
				_, _ = pool.Exec(context.Background(),
					`DELETE FROM players WHERE id >= $1 AND id < $2`, base, base+1000)
				pool.Close()
			})
			return NewPostgresStore(pool), base
		}})
	}
	return fs
}

func newTestPlayer(id int64, coin int64, created time.Time) *domain.Player {
	claim := created
	return &domain.Player{
		ID:             id,
		Username:       "user",
		FullName:       "Test User",
		Coin:           coin,
		Gem:            10,
		Point:          500,
		Level:          1,
		MinerLevel:     1,
		LastMinerClaim: &claim,
		CreatedAt:      created,
	}
}

func insert(t *testing.T, st Store, p *domain.Player, inv domain.Inventory) {
	t.Helper()
	err := st.InTx(context.Background(), func(ctx context.Context, tx Tx) error {
		created, err := tx.InsertPlayer(ctx, p, inv)
		if err != nil {
			return err
		}
		if !created {
			t.Fatalf("player %d already existed", p.ID)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("insert %d: %v", p.ID, err)
	}
}

func TestStoreContract(t *testing.T) {
	for _, f := range factories(t) {
		t.Run(f.name, func(t *testing.T) {
			t.Run("InsertIsIdempotent", func(t *testing.T) { testInsertIdempotent(t, f) })
			t.Run("SaveAndRollback", func(t *testing.T) { testSaveAndRollback(t, f) })
			t.Run("Inventory", func(t *testing.T) { testInventory(t, f) })
			t.Run("Ledger", func(t *testing.T) { testLedger(t, f) })
			t.Run("RankingAndStats", func(t *testing.T) { testRankingAndStats(t, f) })
			t.Run("ConcurrentIncrements", func(t *testing.T) { testConcurrentIncrements(t, f) })
		})
	}
}

func testInsertIdempotent(t *testing.T, f storeFactory) {
	st, base := f.open(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	p := newTestPlayer(base, 1000, now)
	insert(t, st, p, domain.Inventory{domain.MissileGhost: 5, domain.MissileBoomer: 1})

	again := newTestPlayer(base, 999999, now)
	err := st.InTx(ctx, func(ctx context.Context, tx Tx) error {
		created, err := tx.InsertPlayer(ctx, again, domain.Inventory{domain.MissileGhost: 50})
		if err != nil {
			return err
		}
		if created {
			t.Fatalf("second insert reported created")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}

	got, err := st.GetPlayer(ctx, base)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Coin != 1000 || got.Level != 1 || got.LastMinerClaim == nil || !got.LastMinerClaim.Equal(now) {
		t.Fatalf("unexpected player: %+v", got)
	}
	inv, err := st.ListInventory(ctx, base)
	if err != nil {
		t.Fatalf("inventory: %v", err)
	}
	if inv[domain.MissileGhost] != 5 || inv[domain.MissileBoomer] != 1 || len(inv) != 2 {
		t.Fatalf("unexpected inventory: %v", inv)
	}

	if _, err := st.GetPlayer(ctx, base+999); !errors.Is(err, domain.ErrUnknownPlayer) {
		t.Fatalf("expected ErrUnknownPlayer, got %v", err)
	}
	if _, err := st.ListInventory(ctx, base+999); !errors.Is(err, domain.ErrUnknownPlayer) {
		t.Fatalf("expected ErrUnknownPlayer for inventory, got %v", err)
	}
}

func testSaveAndRollback(t *testing.T, f storeFactory) {
	st, base := f.open(t)
	ctx := context.Background()
	insert(t, st, newTestPlayer(base, 1000, time.Now().UTC()), nil)

	err := st.InTx(ctx, func(ctx context.Context, tx Tx) error {
		p, err := tx.LockPlayer(ctx, base)
		if err != nil {
			return err
		}
		p.Coin -= 400
		p.Defense.Missile = 2
		p.DefenseBonus = 0.1
		return tx.SavePlayer(ctx, p)
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	boom := errors.New("boom")
	err = st.InTx(ctx, func(ctx context.Context, tx Tx) error {
		p, err := tx.LockPlayer(ctx, base)
		if err != nil {
			return err
		}
		p.Coin = 0
		if err := tx.SavePlayer(ctx, p); err != nil {
			return err
		}
		if err := tx.AddMissiles(ctx, base, domain.MissileHawk, 3); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	got, _ := st.GetPlayer(ctx, base)
	if got.Coin != 600 || got.Defense.Missile != 2 || got.DefenseBonus != 0.1 {
		t.Fatalf("rollback leaked or save lost: %+v", got)
	}
	inv, _ := st.ListInventory(ctx, base)
	if inv[domain.MissileHawk] != 0 {
		t.Fatalf("rolled back missiles visible: %v", inv)
	}

	err = st.InTx(ctx, func(ctx context.Context, tx Tx) error {
		_, err := tx.LockPlayer(ctx, base+500)
		return err
	})
	if !errors.Is(err, domain.ErrUnknownPlayer) {
		t.Fatalf("expected ErrUnknownPlayer, got %v", err)
	}
}

func testInventory(t *testing.T, f storeFactory) {
	st, base := f.open(t)
	ctx := context.Background()
	insert(t, st, newTestPlayer(base, 1000, time.Now().UTC()), domain.Inventory{domain.MissileGhost: 2})

	err := st.InTx(ctx, func(ctx context.Context, tx Tx) error {
		if _, err := tx.LockPlayer(ctx, base); err != nil {
			return err
		}
		if err := tx.AddMissiles(ctx, base, domain.MissileGhost, -2); err != nil {
			return err
		}
		if err := tx.AddMissiles(ctx, base, domain.MissileMeteor, 1); err != nil {
			return err
		}
		inv, err := tx.LockInventory(ctx, base)
		if err != nil {
			return err
		}
		if inv[domain.MissileGhost] != 0 || inv[domain.MissileMeteor] != 1 {
			t.Fatalf("staged inventory not visible: %v", inv)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("inventory tx: %v", err)
	}

	err = st.InTx(ctx, func(ctx context.Context, tx Tx) error {
		if _, err := tx.LockPlayer(ctx, base); err != nil {
			return err
		}
		return tx.AddMissiles(ctx, base, domain.MissileGhost, -1)
	})
	if !errors.Is(err, domain.ErrInsufficientMissiles) {
		t.Fatalf("expected ErrInsufficientMissiles, got %v", err)
	}
	err = st.InTx(ctx, func(ctx context.Context, tx Tx) error {
		if _, err := tx.LockPlayer(ctx, base); err != nil {
			return err
		}
		return tx.AddMissiles(ctx, base, domain.MissileStorm, -1)
	})
	if !errors.Is(err, domain.ErrInsufficientMissiles) {
		t.Fatalf("expected ErrInsufficientMissiles for absent row, got %v", err)
	}

	inv, _ := st.ListInventory(ctx, base)
	if len(inv) != 1 || inv[domain.MissileMeteor] != 1 {
		t.Fatalf("unexpected inventory: %v", inv)
	}
}

func testLedger(t *testing.T, f storeFactory) {
	st, base := f.open(t)
	ctx := context.Background()
	now := time.Now().UTC()
	insert(t, st, newTestPlayer(base, 1000, now), nil)
	insert(t, st, newTestPlayer(base+1, 1000, now), nil)

	err := st.InTx(ctx, func(ctx context.Context, tx Tx) error {
		for i := int64(1); i <= 3; i++ {
			if err := tx.RecordTransaction(ctx, &domain.Transaction{
				PlayerID:  base,
				Type:      domain.TxMinerClaim,
				Resource:  "point",
				Amount:    i * 10,
				Meta:      map[string]interface{}{"n": i},
				CreatedAt: now,
			}); err != nil {
				return err
			}
		}
		return tx.RecordAttack(ctx, &domain.AttackRecord{
			ID:         "6f1c2a34-9a52-4c57-8a59-0c1d1f3e7a10",
			AttackerID: base,
			TargetID:   base + 1,
			Combo:      "simple",
			Damage:     110,
			LootCoin:   150,
			CreatedAt:  now,
		})
	})
	if err != nil {
		t.Fatalf("ledger tx: %v", err)
	}

	txs, err := st.Transactions(ctx, base, 2)
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if len(txs) != 2 || txs[0].Amount != 30 || txs[1].Amount != 20 {
		t.Fatalf("expected newest first, got %+v", txs)
	}
	if txs[0].ID <= txs[1].ID {
		t.Fatalf("ids not increasing: %d %d", txs[1].ID, txs[0].ID)
	}
	if txs[0].Meta["n"] == nil {
		t.Fatalf("meta lost: %+v", txs[0])
	}
	if other, _ := st.Transactions(ctx, base+1, 0); len(other) != 0 {
		t.Fatalf("foreign ledger lines: %+v", other)
	}
}

func testRankingAndStats(t *testing.T, f storeFactory) {
	if !f.fresh {
		t.Skip("shared database; totals are not deterministic")
	}
	st, base := f.open(t)
	ctx := context.Background()
	now := time.Now().UTC()

	insert(t, st, newTestPlayer(base, 500, now.Add(-48*time.Hour)), nil)
	insert(t, st, newTestPlayer(base+1, 3000, now), nil)
	insert(t, st, newTestPlayer(base+2, 3000, now), nil)
	p := newTestPlayer(base+3, 100, now)
	p.Level = 4
	insert(t, st, p, nil)

	top, err := st.TopPlayers(ctx, 3)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	want := []int64{base + 1, base + 2, base}
	if len(top) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(top))
	}
	for i, e := range top {
		if e.PlayerID != want[i] || e.Rank != i+1 {
			t.Fatalf("rank %d: got %+v", i+1, e)
		}
	}

	stats, err := st.Stats(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalPlayers != 4 || stats.PlayersToday != 3 || stats.CoinInPlay != 6600 || stats.GemInPlay != 40 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.AverageLevel != 1.75 {
		t.Fatalf("average level: %v", stats.AverageLevel)
	}
}

func testConcurrentIncrements(t *testing.T, f storeFactory) {
	st, base := f.open(t)
	ctx := context.Background()
	insert(t, st, newTestPlayer(base, 0, time.Now().UTC()), nil)

	const workers = 8
	const perWorker = 10
	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				err := st.InTx(ctx, func(ctx context.Context, tx Tx) error {
					p, err := tx.LockPlayer(ctx, base)
					if err != nil {
						return err
					}
					p.Coin++
					return tx.SavePlayer(ctx, p)
				})
				if err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("increment: %v", err)
	}

	got, _ := st.GetPlayer(ctx, base)
	if got.Coin != workers*perWorker {
		t.Fatalf("lost updates: coin=%d", got.Coin)
	}
}

func TestOpenDrivers(t *testing.T) {
	ctx := context.Background()
	for _, driver := range []string{"memory", "sqlite"} {
		s, err := Open(ctx, driver, "", filepath.Join(t.TempDir(), "open.db"))
		if err != nil {
			t.Fatalf("%s: %v", driver, err)
		}
		if err := s.Ping(ctx); err != nil {
			t.Fatalf("%s ping: %v", driver, err)
		}
		_ = s.Close()
	}
	if _, err := Open(ctx, "mongo", "", ""); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

// Every table and index named in the migrations exists after OpenSQLite,
// and reopening an existing file applies them again cleanly.
func TestSQLiteSchemaFromMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.db")
	for round := 0; round < 2; round++ {
		st, err := OpenSQLite(path)
		if err != nil {
			t.Fatalf("open round %d: %v", round, err)
		}
		for _, name := range []string{
			"players", "inventory", "transactions", "attacks",
			"idx_players_coin", "idx_players_created_at", "idx_transactions_player",
			"idx_attacks_attacker", "idx_attacks_target",
		} {
			var n int
			if err := st.db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE name = ?`, name).Scan(&n); err != nil {
				t.Fatalf("lookup %s: %v", name, err)
			}
			if n != 1 {
				t.Fatalf("round %d: %s missing from schema", round, name)
			}
		}
		_ = st.Close()
	}
	if names, err := migrations.List(migrations.SQLite); err != nil || len(names) == 0 {
		t.Fatalf("sqlite migrations: %v %v", names, err)
	}
}
