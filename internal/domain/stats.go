package domain

// RankEntry is one leaderboard line.
type RankEntry struct {
	Rank     int    `json:"rank"`
	PlayerID int64  `json:"player_id"`
	Username string `json:"username,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Coin     int64  `json:"coin"`
	Level    int    `json:"level,omitempty"`
}

// EconomyStats is the admin overview of the economy.
type EconomyStats struct {
	TotalPlayers int64   `json:"total_players"`
	PlayersToday int64   `json:"players_today"`
	TotalAttacks int64   `json:"total_attacks"`
	CoinInPlay   int64   `json:"coin_in_play"`
	GemInPlay    int64   `json:"gem_in_play"`
	PointInPlay  int64   `json:"point_in_play"`
	AverageLevel float64 `json:"average_level"`
}
