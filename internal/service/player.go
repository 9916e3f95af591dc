package service

import (
	"context"
	"fmt"

	"warzone/internal/domain"
	"warzone/internal/game"
	"warzone/internal/repository"
)

// PlayerView is a read-only profile snapshot with derived figures.
type PlayerView struct {
	Player    *domain.Player          `json:"player"`
	Inventory []domain.InventoryEntry `json:"inventory"`

	XPToNextLevel int64 `json:"xp_to_next_level"`

	MinerRate       int64 `json:"miner_rate_per_hour"`
	MinerAccrued    int64 `json:"miner_accrued"`
	MinerNextCost   int64 `json:"miner_next_cost,omitempty"`
	MinerMaxReached bool  `json:"miner_max_reached"`

	DefenseNextCost map[domain.DefenseTrack]int64 `json:"defense_next_cost"`
}

// RegisterPlayer creates the player with the starter kit on first contact.
// For an existing id it returns the stored player unchanged and created=false.
func (s *EconomyService) RegisterPlayer(ctx context.Context, id int64, username, fullName string) (*domain.Player, bool, error) {
	var (
		out     *domain.Player
		created bool
	)
	err := s.withTx(ctx, "register", func(ctx context.Context, tx repository.Tx) error {
		p, inv := game.NewPlayer(id, username, fullName, s.now())
		ok, err := tx.InsertPlayer(ctx, p, inv)
		if err != nil {
			return err
		}
		if !ok {
			existing, err := tx.LockPlayer(ctx, id)
			if err != nil {
				return err
			}
			out, created = existing, false
			return nil
		}

		meta := map[string]interface{}{"reason": "registration"}
		for _, rec := range []struct {
			resource string
			amount   int64
		}{
			{domain.ResourceCoin.String(), p.Coin},
			{domain.ResourceGem.String(), p.Gem},
			{domain.ResourcePoint.String(), p.Point},
		} {
			if err := s.record(ctx, tx, id, domain.TxStarterGrant, rec.resource, rec.amount, meta); err != nil {
				return err
			}
		}
		for _, e := range inv.Entries() {
			if err := s.record(ctx, tx, id, domain.TxStarterGrant, domain.ResourceMissile, e.Quantity,
				map[string]interface{}{"missile": e.Missile.String()}); err != nil {
				return err
			}
		}
		out, created = p, true
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("register player %d: %w", id, err)
	}
	if created {
		s.log.Info("player registered", "player", id)
		s.syncRanking(ctx, out)
	}
	return out, created, nil
}

func (s *EconomyService) GetPlayer(ctx context.Context, id int64) (*domain.Player, error) {
	return s.store.GetPlayer(ctx, id)
}

// GetPlayerView returns the player with inventory, pending miner output and
// upgrade prices. It never mutates state.
func (s *EconomyService) GetPlayerView(ctx context.Context, id int64) (*PlayerView, error) {
	p, err := s.store.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}
	inv, err := s.store.ListInventory(ctx, id)
	if err != nil {
		return nil, err
	}

	tier := s.catalog.MinerTier(p.MinerLevel)
	v := &PlayerView{
		Player:          p,
		Inventory:       inv.Entries(),
		XPToNextLevel:   max(int64(p.Level)*100-p.XP, 0),
		MinerRate:       tier.RatePerHour,
		MinerAccrued:    game.MinerAccrued(s.catalog, p, s.now()),
		MinerNextCost:   tier.UpgradeCost,
		MinerMaxReached: p.MinerLevel >= s.catalog.MaxMinerLevel(),
		DefenseNextCost: make(map[domain.DefenseTrack]int64, 3),
	}
	for _, t := range domain.AllTracks() {
		v.DefenseNextCost[t] = game.DefenseUpgradeCost(p.Defense, t)
	}
	return v, nil
}

// ListInventory returns the player's non-zero missile stock in display order.
func (s *EconomyService) ListInventory(ctx context.Context, id int64) ([]domain.InventoryEntry, error) {
	inv, err := s.store.ListInventory(ctx, id)
	if err != nil {
		return nil, err
	}
	return inv.Entries(), nil
}

// History returns the most recent ledger lines of a player, newest first.
func (s *EconomyService) History(ctx context.Context, id int64, limit int) ([]*domain.Transaction, error) {
	if _, err := s.store.GetPlayer(ctx, id); err != nil {
		return nil, err
	}
	return s.store.Transactions(ctx, id, limit)
}
