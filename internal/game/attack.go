package game

import (
	"warzone/internal/catalog"
	"warzone/internal/domain"
)

const (
	// AttackXP is awarded to the attacker on every successful attack.
	AttackXP = 50

	baseDamage      = 100
	damagePerLevel  = 10
	lootCoinPercent = 15
	lootGemPercent  = 10
	maxLootCoin     = 5000
	maxLootGem      = 50
)

// CheckAttack validates an attack before anything is deducted. Missiles are
// checked in enum order so the reported shortfall is deterministic.
func CheckAttack(attacker *domain.Player, inv domain.Inventory, combo catalog.ComboDef) error {
	if attacker.Level < combo.MinLevel {
		return domain.ErrLevelTooLow
	}
	for _, id := range domain.AllMissiles() {
		need := combo.Missiles[id]
		if need > 0 && inv[id] < need {
			return domain.ErrInsufficientMissiles
		}
	}
	if combo.GemCost > 0 && attacker.Gem < combo.GemCost {
		return domain.ErrInsufficientGems
	}
	return nil
}

// Damage computes base, raw and mitigated damage. Raw damage is carried in
// hundredths and mitigation in basis points so the floor is exact.
func Damage(attackerLevel int, multiplierPct int64, defenseBonus float64) (base int64, raw float64, applied int64) {
	base = baseDamage + int64(attackerLevel)*damagePerLevel
	rawHundredths := base * multiplierPct
	bp := fractionToBP(defenseBonus)
	applied = rawHundredths * (10000 - bp) / 1_000_000
	return base, float64(rawHundredths) / 100, applied
}

// Loot returns the coin and gem taken from a target holding coin and gem.
func Loot(coin, gem int64) (lootCoin, lootGem int64) {
	lootCoin = min(max(coin, 0)*lootCoinPercent/100, maxLootCoin)
	lootGem = min(max(gem, 0)*lootGemPercent/100, maxLootGem)
	return lootCoin, lootGem
}

// ResolveAttack applies an attack to the locked rows. On success attacker,
// target and inv reflect the post-attack state; on error nothing is changed.
// The caller fills in the report id and timestamp.
func ResolveAttack(attacker, target *domain.Player, inv domain.Inventory, combo catalog.ComboDef) (*domain.AttackReport, error) {
	if attacker.ID == target.ID {
		return nil, domain.ErrSelfTarget
	}
	if err := CheckAttack(attacker, inv, combo); err != nil {
		return nil, err
	}

	base, raw, applied := Damage(attacker.Level, combo.MultiplierPct, target.DefenseBonus)
	lootCoin, lootGem := Loot(target.Coin, target.Gem)

	coinBefore, gemBefore := attacker.Coin, attacker.Gem
	targetCoinBefore, targetGemBefore := target.Coin, target.Gem

	spent := make(domain.Inventory, len(combo.Missiles))
	for id, q := range combo.Missiles {
		if q <= 0 {
			continue
		}
		inv[id] -= q
		spent[id] = q
	}
	attacker.Gem -= combo.GemCost

	target.Coin -= lootCoin
	target.Gem -= lootGem
	attacker.Coin += lootCoin
	attacker.Gem += lootGem

	leveled, level := AwardXP(attacker, AttackXP)

	return &domain.AttackReport{
		AttackerID:        attacker.ID,
		TargetID:          target.ID,
		Combo:             combo.ID,
		BaseDamage:        base,
		RawDamage:         raw,
		AppliedDamage:     applied,
		MitigationPercent: float64(fractionToBP(target.DefenseBonus)) / 100,
		LootCoin:          lootCoin,
		LootGem:           lootGem,
		MissilesSpent:     spent,
		GemsSpent:         combo.GemCost,
		XPGained:          AttackXP,
		LeveledUp:         leveled,
		NewLevel:          level,
		Attacker: domain.BalanceDelta{
			CoinDelta: attacker.Coin - coinBefore,
			GemDelta:  attacker.Gem - gemBefore,
			CoinAfter: attacker.Coin,
			GemAfter:  attacker.Gem,
		},
		Target: domain.BalanceDelta{
			CoinDelta: target.Coin - targetCoinBefore,
			GemDelta:  target.Gem - targetGemBefore,
			CoinAfter: target.Coin,
			GemAfter:  target.Gem,
		},
	}, nil
}
