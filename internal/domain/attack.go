package domain

import "time"

// AttackReport is the outcome of a resolved attack. The attacker receives the
// full report; the target receives TargetNotice.
type AttackReport struct {
	ID         string  `json:"id"`
	AttackerID int64   `json:"attacker_id"`
	TargetID   int64   `json:"target_id"`
	Combo      ComboID `json:"combo"`

	BaseDamage    int64   `json:"base_damage"`
	RawDamage     float64 `json:"raw_damage"`
	AppliedDamage int64   `json:"applied_damage"`
	// MitigationPercent is the target's defense bonus expressed in percent.
	MitigationPercent float64 `json:"mitigation_percent"`

	LootCoin int64 `json:"loot_coin"`
	LootGem  int64 `json:"loot_gem"`

	MissilesSpent Inventory `json:"missiles_spent,omitempty"`
	GemsSpent     int64     `json:"gems_spent"`

	XPGained  int64 `json:"xp_gained"`
	LeveledUp bool  `json:"leveled_up"`
	NewLevel  int   `json:"new_level"`

	Attacker BalanceDelta `json:"attacker"`
	Target   BalanceDelta `json:"target"`

	At time.Time `json:"at"`
}

// BalanceDelta carries a party's coin/gem change and resulting balances.
type BalanceDelta struct {
	CoinDelta int64 `json:"coin_delta"`
	GemDelta  int64 `json:"gem_delta"`
	CoinAfter int64 `json:"coin_after"`
	GemAfter  int64 `json:"gem_after"`
}

// TargetNotice is the notification pushed to the attacked player.
type TargetNotice struct {
	AttackID          string    `json:"attack_id"`
	AttackerID        int64     `json:"attacker_id"`
	Combo             ComboID   `json:"combo"`
	AppliedDamage     int64     `json:"applied_damage"`
	MitigationPercent float64   `json:"mitigation_percent"`
	CoinLost          int64     `json:"coin_lost"`
	GemLost           int64     `json:"gem_lost"`
	CoinAfter         int64     `json:"coin_after"`
	GemAfter          int64     `json:"gem_after"`
	At                time.Time `json:"at"`
}

func (r *AttackReport) TargetNotice() TargetNotice {
	return TargetNotice{
		AttackID:          r.ID,
		AttackerID:        r.AttackerID,
		Combo:             r.Combo,
		AppliedDamage:     r.AppliedDamage,
		MitigationPercent: r.MitigationPercent,
		CoinLost:          r.LootCoin,
		GemLost:           r.LootGem,
		CoinAfter:         r.Target.CoinAfter,
		GemAfter:          r.Target.GemAfter,
		At:                r.At,
	}
}

// AttackRecord is the persisted summary of an attack.
type AttackRecord struct {
	ID         string    `db:"id" json:"id"`
	AttackerID int64     `db:"attacker_id" json:"attacker_id"`
	TargetID   int64     `db:"target_id" json:"target_id"`
	Combo      ComboID   `db:"combo" json:"combo"`
	Damage     int64     `db:"damage" json:"damage"`
	LootCoin   int64     `db:"loot_coin" json:"loot_coin"`
	LootGem    int64     `db:"loot_gem" json:"loot_gem"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
