package domain

// BoxOutcome reports what a box paid out and what it cost.
type BoxOutcome struct {
	Box BoxID `json:"box"`

	// Exactly one of Currency/Missile is set.
	Currency ResourceKind `json:"currency,omitempty"`
	Amount   int64        `json:"amount"`
	Missile  MissileID    `json:"missile,omitempty"`
	Jackpot  bool         `json:"jackpot"`

	CostCoin int64 `json:"cost_coin"`
	CostGem  int64 `json:"cost_gem"`

	CoinAfter  int64 `json:"coin_after"`
	GemAfter   int64 `json:"gem_after"`
	PointAfter int64 `json:"point_after"`
}
