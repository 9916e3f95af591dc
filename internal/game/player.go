package game

import (
	"time"

	"warzone/internal/domain"
)

// Starting balances for a freshly registered player.
const (
	StarterCoin  = 1000
	StarterGem   = 10
	StarterPoint = 500
)

func StarterMissiles() domain.Inventory {
	return domain.Inventory{
		domain.MissileGhost:   5,
		domain.MissileThunder: 3,
		domain.MissileBoomer:  1,
	}
}

// NewPlayer builds the initial row and inventory for a player. The miner
// starts accruing at now, truncated to the second.
func NewPlayer(id int64, username, fullName string, now time.Time) (*domain.Player, domain.Inventory) {
	start := claimStamp(now)
	p := &domain.Player{
		ID:             id,
		Username:       username,
		FullName:       fullName,
		Coin:           StarterCoin,
		Gem:            StarterGem,
		Point:          StarterPoint,
		Level:          1,
		MinerLevel:     1,
		LastMinerClaim: &start,
		CreatedAt:      now,
	}
	return p, StarterMissiles()
}
