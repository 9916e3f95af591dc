package domain

import "time"

// Player is the mutable ledger row of a single player.
type Player struct {
	ID       int64  `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	FullName string `db:"full_name" json:"full_name"`

	Coin  int64 `db:"coin" json:"coin"`
	Gem   int64 `db:"gem" json:"gem"`
	Point int64 `db:"point" json:"point"`

	Level int   `db:"level" json:"level"`
	XP    int64 `db:"xp" json:"xp"`

	MinerLevel     int        `db:"miner_level" json:"miner_level"`
	LastMinerClaim *time.Time `db:"last_miner_claim" json:"last_miner_claim,omitempty"`

	Defense DefenseLevels `json:"defense"`
	// DefenseBonus is stored rather than derived so attacks read it directly.
	// It is refreshed on every defense upgrade.
	DefenseBonus float64 `db:"defense_bonus" json:"defense_bonus"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Clone returns a deep copy of p.
func (p *Player) Clone() *Player {
	c := *p
	if p.LastMinerClaim != nil {
		t := *p.LastMinerClaim
		c.LastMinerClaim = &t
	}
	return &c
}

// Balance returns the player's amount of a currency.
func (p *Player) Balance(k ResourceKind) int64 {
	switch k {
	case ResourceCoin:
		return p.Coin
	case ResourceGem:
		return p.Gem
	case ResourcePoint:
		return p.Point
	case ResourceLevel:
		return int64(p.Level)
	}
	return 0
}

// Credit adds delta to a currency. It does not validate the sign of the result;
// callers check balances before debiting.
func (p *Player) Credit(k ResourceKind, delta int64) {
	switch k {
	case ResourceCoin:
		p.Coin += delta
	case ResourceGem:
		p.Gem += delta
	case ResourcePoint:
		p.Point += delta
	}
}
