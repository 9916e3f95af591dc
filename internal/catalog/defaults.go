package catalog

import "warzone/internal/domain"

var defaultMissiles = []MissileDef{
	{ID: domain.MissileGhost, Damage: 50, PriceCoin: 200, MinLevel: 1, Class: domain.MissileNormal},
	{ID: domain.MissileThunder, Damage: 70, PriceCoin: 500, MinLevel: 2, Class: domain.MissileNormal},
	{ID: domain.MissileBoomer, Damage: 90, PriceCoin: 1000, MinLevel: 3, Class: domain.MissileNormal},
	{ID: domain.MissileHawk, Damage: 110, PriceCoin: 2000, MinLevel: 4, Class: domain.MissileNormal},
	{ID: domain.MissilePatriot, Damage: 130, PriceCoin: 5000, MinLevel: 5, Class: domain.MissileNormal},
	{ID: domain.MissileMeteor, Damage: 250, PriceCoin: 25000, MinLevel: 6, Class: domain.MissileSpecial, GemCost: 1},
	{ID: domain.MissileTsunami, Damage: 300, PriceCoin: 30000, MinLevel: 7, Class: domain.MissileSpecial, GemCost: 2},
	{ID: domain.MissileStorm, Damage: 350, PriceCoin: 35000, MinLevel: 8, Class: domain.MissileSpecial, GemCost: 3},
	{ID: domain.MissileTyphoon, Damage: 400, PriceCoin: 40000, MinLevel: 9, Class: domain.MissileSpecial, GemCost: 4},
	{ID: domain.MissileApocalypse, Damage: 500, PriceCoin: 50000, MinLevel: 10, Class: domain.MissileSpecial, GemCost: 5},
}

var defaultCombos = []ComboDef{
	{ID: "simple", MultiplierPct: 100, MinLevel: 1, Missiles: domain.Inventory{domain.MissileGhost: 1}},
	{ID: "medium", MultiplierPct: 150, MinLevel: 2, Missiles: domain.Inventory{domain.MissileThunder: 1}},
	{ID: "advanced", MultiplierPct: 200, MinLevel: 3, Missiles: domain.Inventory{domain.MissileBoomer: 1}},
	{ID: "nuclear", MultiplierPct: 500, MinLevel: 10, Missiles: domain.Inventory{domain.MissileApocalypse: 1}, GemCost: 10},
}

// Rate is level*100 point/hour. Upgrade costs jump at level 10.
func defaultTiers() []MinerTier {
	costs := []int64{
		100, 200, 300, 400, 500, 600, 700, 800, 900,
		10000, 11000, 12000, 13000, 14000, 50000,
	}
	tiers := make([]MinerTier, 0, len(costs))
	for i, cost := range costs {
		lvl := i + 1
		tiers = append(tiers, MinerTier{Level: lvl, RatePerHour: int64(lvl) * 100, UpgradeCost: cost})
	}
	return tiers
}

var defaultBoxes = []BoxDef{
	{
		ID: "coin", Kind: BoxCurrency, PriceCoin: 500,
		Currencies: []domain.ResourceKind{domain.ResourceCoin}, Min: 100, Max: 2000,
	},
	{
		ID: "zp", Kind: BoxCurrency, PriceCoin: 1000,
		Currencies: []domain.ResourceKind{domain.ResourcePoint}, Min: 50, Max: 500,
	},
	{
		ID: "special", Kind: BoxMissile, PriceGem: 5,
		Missiles: []domain.MissileID{domain.MissileMeteor, domain.MissileTsunami, domain.MissileStorm},
	},
	{
		ID: "legendary", Kind: BoxJackpot, PriceGem: 10,
		Currencies: []domain.ResourceKind{domain.ResourceCoin}, Min: 1000, Max: 10000,
		JackpotChance: 0.10, JackpotMin: 5000, JackpotMax: 20000,
	},
	{
		ID: "free", Kind: BoxCurrency,
		Currencies: []domain.ResourceKind{domain.ResourceCoin, domain.ResourcePoint}, Min: 10, Max: 100,
	},
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := build(cloneMissiles(defaultMissiles), cloneCombos(defaultCombos), defaultTiers(), cloneBoxes(defaultBoxes))
	if err != nil {
		panic("catalog: invalid defaults: " + err.Error())
	}
	return c
}

func cloneMissiles(in []MissileDef) []MissileDef { return append([]MissileDef(nil), in...) }

func cloneCombos(in []ComboDef) []ComboDef {
	out := make([]ComboDef, len(in))
	for i, c := range in {
		c.Missiles = c.Missiles.Clone()
		out[i] = c
	}
	return out
}

func cloneBoxes(in []BoxDef) []BoxDef {
	out := make([]BoxDef, len(in))
	for i, b := range in {
		b.Currencies = append([]domain.ResourceKind(nil), b.Currencies...)
		b.Missiles = append([]domain.MissileID(nil), b.Missiles...)
		out[i] = b
	}
	return out
}
