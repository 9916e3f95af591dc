package service

import (
	"context"
	"time"

	"warzone/internal/domain"
	"warzone/internal/repository"
)

// Grant adjusts one resource of a player. Currencies take a signed delta and
// must stay non-negative; ResourceLevel sets the level outright.
func (s *EconomyService) Grant(ctx context.Context, playerID int64, kind domain.ResourceKind, amount int64) (*domain.Player, error) {
	if !kind.Valid() {
		return nil, domain.ErrUnknownResource
	}
	if kind == domain.ResourceLevel && amount < 1 {
		return nil, domain.ErrInvalidAmount
	}
	if kind.Currency() && amount == 0 {
		return nil, domain.ErrInvalidAmount
	}

	var p *domain.Player
	err := s.withTx(ctx, "admin_grant", func(ctx context.Context, tx repository.Tx) error {
		var err error
		p, err = tx.LockPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		delta := amount
		if kind == domain.ResourceLevel {
			delta = amount - int64(p.Level)
			p.Level = int(amount)
		} else {
			if p.Balance(kind)+amount < 0 {
				return domain.ErrInvalidAmount
			}
			p.Credit(kind, amount)
		}
		if err := tx.SavePlayer(ctx, p); err != nil {
			return err
		}
		return s.record(ctx, tx, playerID, domain.TxAdminGrant, kind.String(), delta,
			map[string]interface{}{"requested": amount})
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("admin grant", "player", playerID, "resource", kind.String(), "amount", amount)
	s.syncRanking(ctx, p)
	return p, nil
}

// GrantMissiles adds quantity missiles to a player's inventory and returns the new stock.
func (s *EconomyService) GrantMissiles(ctx context.Context, playerID int64, missile domain.MissileID, quantity int64) (int64, error) {
	if _, err := s.catalog.Missile(missile); err != nil {
		return 0, err
	}
	if quantity < 1 {
		return 0, domain.ErrInvalidAmount
	}

	var owned int64
	err := s.withTx(ctx, "admin_missiles", func(ctx context.Context, tx repository.Tx) error {
		if _, err := tx.LockPlayer(ctx, playerID); err != nil {
			return err
		}
		if err := tx.AddMissiles(ctx, playerID, missile, quantity); err != nil {
			return err
		}
		inv, err := tx.LockInventory(ctx, playerID)
		if err != nil {
			return err
		}
		owned = inv[missile]
		return s.record(ctx, tx, playerID, domain.TxAdminGrant, domain.ResourceMissile, quantity,
			map[string]interface{}{"missile": missile.String()})
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("admin missile grant", "player", playerID, "missile", missile.String(), "quantity", quantity)
	return owned, nil
}

// Stats summarizes the economy; "today" means the last 24 hours.
func (s *EconomyService) Stats(ctx context.Context) (domain.EconomyStats, error) {
	return s.store.Stats(ctx, s.now().Add(-24*time.Hour))
}
