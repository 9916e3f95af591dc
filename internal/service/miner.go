package service

import (
	"context"

	"warzone/internal/domain"
	"warzone/internal/game"
	"warzone/internal/repository"
)

type MinerClaim struct {
	Credited   int64 `json:"credited"`
	PointAfter int64 `json:"point_after"`
	MinerLevel int   `json:"miner_level"`
}

type MinerUpgrade struct {
	NewLevel    int   `json:"new_level"`
	Cost        int64 `json:"cost"`
	RatePerHour int64 `json:"rate_per_hour"`
	CoinAfter   int64 `json:"coin_after"`
}

// ClaimMiner credits point accrued since the last claim and restarts the clock.
func (s *EconomyService) ClaimMiner(ctx context.Context, playerID int64) (*MinerClaim, error) {
	var out *MinerClaim
	err := s.withTx(ctx, "miner_claim", func(ctx context.Context, tx repository.Tx) error {
		p, err := tx.LockPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		now := s.now()
		credited, err := game.ClaimMiner(s.catalog, p, now)
		if err != nil {
			return err
		}
		if err := tx.SavePlayer(ctx, p); err != nil {
			return err
		}
		if err := s.record(ctx, tx, playerID, domain.TxMinerClaim, domain.ResourcePoint.String(), credited,
			map[string]interface{}{"miner_level": p.MinerLevel}); err != nil {
			return err
		}
		out = &MinerClaim{Credited: credited, PointAfter: p.Point, MinerLevel: p.MinerLevel}
		return nil
	})
	if err != nil {
		return nil, err
	}
	minerClaimed.Add(float64(out.Credited))
	s.log.Debug("miner claimed", "player", playerID, "credited", out.Credited)
	return out, nil
}

// UpgradeMiner pays for the next miner tier.
func (s *EconomyService) UpgradeMiner(ctx context.Context, playerID int64) (*MinerUpgrade, error) {
	var (
		out *MinerUpgrade
		p   *domain.Player
	)
	err := s.withTx(ctx, "miner_upgrade", func(ctx context.Context, tx repository.Tx) error {
		var err error
		p, err = tx.LockPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		lvl, cost, err := game.UpgradeMiner(s.catalog, p)
		if err != nil {
			return err
		}
		if err := tx.SavePlayer(ctx, p); err != nil {
			return err
		}
		if err := s.record(ctx, tx, playerID, domain.TxMinerUpgrade, domain.ResourceCoin.String(), -cost,
			map[string]interface{}{"level": lvl}); err != nil {
			return err
		}
		out = &MinerUpgrade{
			NewLevel:    lvl,
			Cost:        cost,
			RatePerHour: s.catalog.MinerTier(lvl).RatePerHour,
			CoinAfter:   p.Coin,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("miner upgraded", "player", playerID, "level", out.NewLevel)
	s.syncRanking(ctx, p)
	return out, nil
}
