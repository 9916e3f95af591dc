package service

import (
	"context"

	"warzone/internal/domain"
	"warzone/internal/game"
	"warzone/internal/repository"
)

// DefenseUpgrade reports a committed defense upgrade.
type DefenseUpgrade struct {
	Track     domain.DefenseTrack  `json:"track"`
	NewLevel  int                  `json:"new_level"`
	Cost      int64                `json:"cost"`
	Bonus     float64              `json:"defense_bonus"`
	Levels    domain.DefenseLevels `json:"levels"`
	CoinAfter int64                `json:"coin_after"`
}

// UpgradeDefense buys one level of a defense track and refreshes the stored bonus.
func (s *EconomyService) UpgradeDefense(ctx context.Context, playerID int64, track domain.DefenseTrack) (*DefenseUpgrade, error) {
	if !track.Valid() {
		return nil, domain.ErrUnknownTrack
	}
	var (
		out *DefenseUpgrade
		p   *domain.Player
	)
	err := s.withTx(ctx, "defense_upgrade", func(ctx context.Context, tx repository.Tx) error {
		var err error
		p, err = tx.LockPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		lvl, cost, err := game.UpgradeDefense(p, track)
		if err != nil {
			return err
		}
		if err := tx.SavePlayer(ctx, p); err != nil {
			return err
		}
		if err := s.record(ctx, tx, playerID, domain.TxDefenseUpgrade, domain.ResourceCoin.String(), -cost,
			map[string]interface{}{"track": track.String(), "level": lvl}); err != nil {
			return err
		}
		out = &DefenseUpgrade{
			Track:     track,
			NewLevel:  lvl,
			Cost:      cost,
			Bonus:     p.DefenseBonus,
			Levels:    p.Defense,
			CoinAfter: p.Coin,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("defense upgraded", "player", playerID, "track", track.String(), "level", out.NewLevel, "bonus", out.Bonus)
	s.syncRanking(ctx, p)
	return out, nil
}
