package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"warzone/internal/domain"
)

// MemoryStore is an in-process store used by tests and local runs. Each row
// has its own lock; writes are staged in the transaction and applied
// together on commit.
type MemoryStore struct {
	mu      sync.Mutex
	rows    map[int64]*memRow
	ledger  []*domain.Transaction
	attacks []domain.AttackRecord
	nextTx  int64
}

type memRow struct {
	lock chan struct{}

	// guarded by MemoryStore.mu
	live   bool
	player *domain.Player
	inv    domain.Inventory
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[int64]*memRow)}
}

func (s *MemoryStore) row(id int64, create bool) *memRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.rows[id]
	if r == nil && create {
		r = &memRow{lock: make(chan struct{}, 1)}
		s.rows[id] = r
	}
	return r
}

func (s *MemoryStore) InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	tx := &memTx{
		s:       s,
		held:    make(map[int64]*memRow),
		players: make(map[int64]*domain.Player),
		invs:    make(map[int64]domain.Inventory),
	}
	defer tx.release()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	tx.commit()
	return nil
}

func (s *MemoryStore) GetPlayer(ctx context.Context, id int64) (*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.rows[id]
	if r == nil || !r.live {
		return nil, domain.ErrUnknownPlayer
	}
	return r.player.Clone(), nil
}

func (s *MemoryStore) ListInventory(ctx context.Context, playerID int64) (domain.Inventory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.rows[playerID]
	if r == nil || !r.live {
		return nil, domain.ErrUnknownPlayer
	}
	inv := domain.Inventory{}
	for id, q := range r.inv {
		if q > 0 {
			inv[id] = q
		}
	}
	return inv, nil
}

func (s *MemoryStore) TopPlayers(ctx context.Context, limit int) ([]domain.RankEntry, error) {
	limit = clampLimit(limit, 15, 100)
	s.mu.Lock()
	players := make([]*domain.Player, 0, len(s.rows))
	for _, r := range s.rows {
		if r.live {
			players = append(players, r.player)
		}
	}
	s.mu.Unlock()

	sort.Slice(players, func(i, j int) bool {
		if players[i].Coin != players[j].Coin {
			return players[i].Coin > players[j].Coin
		}
		return players[i].ID < players[j].ID
	})
	if len(players) > limit {
		players = players[:limit]
	}
	out := make([]domain.RankEntry, 0, len(players))
	for i, p := range players {
		out = append(out, domain.RankEntry{
			Rank:     i + 1,
			PlayerID: p.ID,
			Username: p.Username,
			FullName: p.FullName,
			Coin:     p.Coin,
			Level:    p.Level,
		})
	}
	return out, nil
}

func (s *MemoryStore) Stats(ctx context.Context, since time.Time) (domain.EconomyStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var (
		st     domain.EconomyStats
		levels int64
	)
	for _, r := range s.rows {
		if !r.live {
			continue
		}
		p := r.player
		st.TotalPlayers++
		if !p.CreatedAt.Before(since) {
			st.PlayersToday++
		}
		st.CoinInPlay += p.Coin
		st.GemInPlay += p.Gem
		st.PointInPlay += p.Point
		levels += int64(p.Level)
	}
	if st.TotalPlayers > 0 {
		st.AverageLevel = float64(levels) / float64(st.TotalPlayers)
	}
	st.TotalAttacks = int64(len(s.attacks))
	return st, nil
}

func (s *MemoryStore) Transactions(ctx context.Context, playerID int64, limit int) ([]*domain.Transaction, error) {
	limit = clampLimit(limit, defaultHistoryLimit, defaultHistoryLimit)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Transaction
	for i := len(s.ledger) - 1; i >= 0 && len(out) < limit; i-- {
		if t := s.ledger[i]; t.PlayerID == playerID {
			c := *t
			out = append(out, &c)
		}
	}
	return out, nil
}

// Attacks returns the recorded attacks, oldest first.
func (s *MemoryStore) Attacks() []domain.AttackRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.AttackRecord(nil), s.attacks...)
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

type memTx struct {
	s    *MemoryStore
	held map[int64]*memRow

	players map[int64]*domain.Player
	invs    map[int64]domain.Inventory
	ledger  []*domain.Transaction
	attacks []domain.AttackRecord
}

func (t *memTx) acquire(ctx context.Context, id int64, create bool) (*memRow, error) {
	if r, ok := t.held[id]; ok {
		return r, nil
	}
	r := t.s.row(id, create)
	if r == nil {
		return nil, domain.ErrUnknownPlayer
	}
	select {
	case r.lock <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	t.held[id] = r
	return r, nil
}

func (t *memTx) release() {
	for _, r := range t.held {
		<-r.lock
	}
	t.held = nil
}

func (t *memTx) commit() {
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range t.players {
		r := t.held[id]
		r.player = p
		r.live = true
		if r.inv == nil {
			r.inv = domain.Inventory{}
		}
	}
	for id, inv := range t.invs {
		t.held[id].inv = inv
	}
	for _, tr := range t.ledger {
		s.nextTx++
		tr.ID = s.nextTx
		s.ledger = append(s.ledger, tr)
	}
	s.attacks = append(s.attacks, t.attacks...)
}

// current returns the staged or committed player for a held row.
func (t *memTx) current(id int64, r *memRow) (*domain.Player, bool) {
	if p, ok := t.players[id]; ok {
		return p, true
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if !r.live {
		return nil, false
	}
	return r.player, true
}

func (t *memTx) LockPlayer(ctx context.Context, id int64) (*domain.Player, error) {
	r, err := t.acquire(ctx, id, false)
	if err != nil {
		return nil, err
	}
	p, ok := t.current(id, r)
	if !ok {
		return nil, domain.ErrUnknownPlayer
	}
	return p.Clone(), nil
}

func (t *memTx) InsertPlayer(ctx context.Context, p *domain.Player, inv domain.Inventory) (bool, error) {
	r, err := t.acquire(ctx, p.ID, true)
	if err != nil {
		return false, err
	}
	if _, ok := t.current(p.ID, r); ok {
		return false, nil
	}
	t.players[p.ID] = p.Clone()
	staged := domain.Inventory{}
	for _, e := range inv.Entries() {
		staged[e.Missile] = e.Quantity
	}
	t.invs[p.ID] = staged
	return true, nil
}

func (t *memTx) SavePlayer(ctx context.Context, p *domain.Player) error {
	r, ok := t.held[p.ID]
	if !ok {
		return fmt.Errorf("save player %d: row not locked", p.ID)
	}
	if _, ok := t.current(p.ID, r); !ok {
		return domain.ErrUnknownPlayer
	}
	t.players[p.ID] = p.Clone()
	return nil
}

func (t *memTx) inventory(id int64) (domain.Inventory, error) {
	if inv, ok := t.invs[id]; ok {
		return inv, nil
	}
	r, ok := t.held[id]
	if !ok {
		return nil, fmt.Errorf("inventory %d: row not locked", id)
	}
	if _, ok := t.current(id, r); !ok {
		return nil, domain.ErrUnknownPlayer
	}
	t.s.mu.Lock()
	inv := r.inv.Clone()
	t.s.mu.Unlock()
	t.invs[id] = inv
	return inv, nil
}

func (t *memTx) LockInventory(ctx context.Context, playerID int64) (domain.Inventory, error) {
	if _, err := t.acquire(ctx, playerID, false); err != nil {
		return nil, err
	}
	inv, err := t.inventory(playerID)
	if err != nil {
		return nil, err
	}
	return inv.Clone(), nil
}

func (t *memTx) AddMissiles(ctx context.Context, playerID int64, missile domain.MissileID, delta int64) error {
	if !missile.Valid() {
		return domain.ErrUnknownMissile
	}
	if _, err := t.acquire(ctx, playerID, false); err != nil {
		return err
	}
	inv, err := t.inventory(playerID)
	if err != nil {
		return err
	}
	next := inv[missile] + delta
	if next < 0 {
		return domain.ErrInsufficientMissiles
	}
	inv[missile] = next
	return nil
}

func (t *memTx) RecordTransaction(ctx context.Context, tr *domain.Transaction) error {
	if tr.CreatedAt.IsZero() {
		tr.CreatedAt = time.Now()
	}
	t.ledger = append(t.ledger, tr)
	return nil
}

func (t *memTx) RecordAttack(ctx context.Context, r *domain.AttackRecord) error {
	t.attacks = append(t.attacks, *r)
	return nil
}
