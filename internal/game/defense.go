package game

import (
	"math"

	"warzone/internal/domain"
)

// Per-level mitigation in basis points. The total is capped at 50%.
const (
	missileBonusBP     = 500
	electronicBonusBP  = 300
	antiFighterBonusBP = 700
	maxBonusBP         = 5000
)

// DefenseBonusBP returns the mitigation of the given track levels in basis points.
func DefenseBonusBP(d domain.DefenseLevels) int64 {
	bp := int64(max(d.Missile, 0))*missileBonusBP +
		int64(max(d.Electronic, 0))*electronicBonusBP +
		int64(max(d.AntiFighter, 0))*antiFighterBonusBP
	return min(bp, maxBonusBP)
}

// ComputeBonus returns min(0.5, m*0.05 + e*0.03 + a*0.07).
func ComputeBonus(missile, electronic, antiFighter int) float64 {
	return bpToFraction(DefenseBonusBP(domain.DefenseLevels{
		Missile:     missile,
		Electronic:  electronic,
		AntiFighter: antiFighter,
	}))
}

func bpToFraction(bp int64) float64 { return float64(bp) / 10000 }

// fractionToBP converts a stored bonus back to basis points.
func fractionToBP(f float64) int64 {
	if f <= 0 || math.IsNaN(f) {
		return 0
	}
	return min(int64(math.Round(f*10000)), maxBonusBP)
}

// TrackMultiplier is the coin cost per level of a defense track.
func TrackMultiplier(t domain.DefenseTrack) int64 {
	switch t {
	case domain.TrackMissile:
		return 1000
	case domain.TrackElectronic:
		return 800
	case domain.TrackAntiFighter:
		return 1200
	}
	return 0
}

// DefenseUpgradeCost is (current level + 1) * track multiplier.
func DefenseUpgradeCost(d domain.DefenseLevels, t domain.DefenseTrack) int64 {
	return int64(d.Level(t)+1) * TrackMultiplier(t)
}

// UpgradeDefense raises one track by a level and refreshes the stored bonus.
// p is left untouched on error.
func UpgradeDefense(p *domain.Player, t domain.DefenseTrack) (newLevel int, cost int64, err error) {
	if !t.Valid() {
		return 0, 0, domain.ErrUnknownTrack
	}
	cost = DefenseUpgradeCost(p.Defense, t)
	if p.Coin < cost {
		return 0, 0, domain.ErrInsufficientFunds
	}
	p.Coin -= cost
	p.Defense.Increment(t)
	p.DefenseBonus = bpToFraction(DefenseBonusBP(p.Defense))
	return p.Defense.Level(t), cost, nil
}
