package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"warzone/internal/catalog"
	"warzone/internal/domain"
	"warzone/internal/game"
	"warzone/internal/logger"
	"warzone/internal/repository"

	"github.com/google/uuid"
)

const (
	defaultMaxAttempts = 5
	defaultRetryDelay  = 50 * time.Millisecond
	maxRetryDelay      = time.Second
)

// RankingCache mirrors player coin balances for the leaderboard. Updates are
// best-effort; the store stays the source of truth.
type RankingCache interface {
	SetCoin(ctx context.Context, playerID, coin int64) error
	Top(ctx context.Context, limit int) ([]domain.RankEntry, error)
}

// Options configures an EconomyService. Zero values pick production defaults.
type Options struct {
	Clock       func() time.Time
	Rand        game.Rand
	Ranking     RankingCache
	Logger      *slog.Logger
	MaxAttempts int
	RetryDelay  time.Duration
	NewID       func() string
}

// EconomyService resolves every economy operation as a single store
// transaction over game rules.
type EconomyService struct {
	store   repository.Store
	catalog *catalog.Catalog
	now     func() time.Time
	ranking RankingCache
	log     *slog.Logger
	newID   func() string

	rngMu sync.Mutex
	rng   game.Rand

	maxAttempts int
	retryDelay  time.Duration
}

func NewEconomyService(store repository.Store, cat *catalog.Catalog, opts Options) *EconomyService {
	s := &EconomyService{
		store:       store,
		catalog:     cat,
		now:         opts.Clock,
		ranking:     opts.Ranking,
		log:         opts.Logger,
		newID:       opts.NewID,
		rng:         opts.Rand,
		maxAttempts: opts.MaxAttempts,
		retryDelay:  opts.RetryDelay,
	}
	if s.catalog == nil {
		s.catalog = catalog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = logger.Component("economy")
	}
	if s.newID == nil {
		s.newID = func() string { return uuid.NewString() }
	}
	if s.rng == nil {
		s.rng = game.CryptoRand{}
	}
	if s.maxAttempts <= 0 {
		s.maxAttempts = defaultMaxAttempts
	}
	if s.retryDelay <= 0 {
		s.retryDelay = defaultRetryDelay
	}
	return s
}

// Catalog exposes the static definitions the service resolves against.
func (s *EconomyService) Catalog() *catalog.Catalog { return s.catalog }

// withTx runs fn in a store transaction and retries it on
// domain.ErrStoreConflict with exponential backoff. fn must be safe to re-run.
func (s *EconomyService) withTx(ctx context.Context, op string, fn func(ctx context.Context, tx repository.Tx) error) error {
	delay := s.retryDelay
	for attempt := 1; ; attempt++ {
		err := s.store.InTx(ctx, fn)
		if err == nil {
			operationsTotal.WithLabelValues(op, "ok").Inc()
			return nil
		}
		if !errors.Is(err, domain.ErrStoreConflict) {
			operationsTotal.WithLabelValues(op, resultLabel(err)).Inc()
			return err
		}
		storeConflicts.WithLabelValues(op).Inc()
		if attempt >= s.maxAttempts {
			operationsTotal.WithLabelValues(op, "conflict").Inc()
			s.log.Error("store conflict, giving up", "op", op, "attempts", attempt, "error", err)
			return err
		}
		s.log.Warn("store conflict, retrying", "op", op, "attempt", attempt, "error", err)
		if err := sleepWithContext(ctx, delay); err != nil {
			return err
		}
		delay = min(delay*2, maxRetryDelay)
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// draw serializes access to the random source.
func (s *EconomyService) draw(fn func(rng game.Rand)) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	fn(s.rng)
}

// syncRanking pushes committed coin balances to the cache.
func (s *EconomyService) syncRanking(ctx context.Context, players ...*domain.Player) {
	if s.ranking == nil {
		return
	}
	for _, p := range players {
		if p == nil {
			continue
		}
		if err := s.ranking.SetCoin(ctx, p.ID, p.Coin); err != nil {
			s.log.Warn("ranking update failed", "player", p.ID, "error", err)
		}
	}
}

func (s *EconomyService) record(ctx context.Context, tx repository.Tx, playerID int64, txType, resource string, amount int64, meta map[string]interface{}) error {
	if amount == 0 {
		return nil
	}
	return tx.RecordTransaction(ctx, &domain.Transaction{
		PlayerID:  playerID,
		Type:      txType,
		Resource:  resource,
		Amount:    amount,
		Meta:      meta,
		CreatedAt: s.now(),
	})
}

type ledgerLine struct {
	player   int64
	txType   string
	resource string
	amount   int64
	meta     map[string]interface{}
}

func (s *EconomyService) recordLines(ctx context.Context, tx repository.Tx, lines []ledgerLine) error {
	for _, l := range lines {
		if err := s.record(ctx, tx, l.player, l.txType, l.resource, l.amount, l.meta); err != nil {
			return err
		}
	}
	return nil
}
