package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"warzone/internal/domain"
)

func TestDefaultLookups(t *testing.T) {
	c := Default()

	m, err := c.Missile(domain.MissileMeteor)
	if err != nil {
		t.Fatalf("meteor: %v", err)
	}
	if m.Damage != 250 || m.PriceCoin != 25000 || m.MinLevel != 6 || m.Class != domain.MissileSpecial || m.GemCost != 1 {
		t.Fatalf("unexpected meteor: %+v", m)
	}
	if got := len(c.Missiles()); got != 10 {
		t.Fatalf("expected 10 missiles, got %d", got)
	}

	nuke, err := c.Combo("nuclear")
	if err != nil {
		t.Fatalf("nuclear: %v", err)
	}
	if nuke.MultiplierPct != 500 || nuke.GemCost != 10 || nuke.Missiles[domain.MissileApocalypse] != 1 {
		t.Fatalf("unexpected nuclear combo: %+v", nuke)
	}
	if nuke.Multiplier() != 5.0 {
		t.Fatalf("expected multiplier 5.0, got %v", nuke.Multiplier())
	}

	if _, err := c.Combo("orbital"); !errors.Is(err, domain.ErrUnknownCombo) {
		t.Fatalf("expected ErrUnknownCombo, got %v", err)
	}
	if _, err := c.Box("mystery"); !errors.Is(err, domain.ErrUnknownBox) {
		t.Fatalf("expected ErrUnknownBox, got %v", err)
	}
	if _, err := c.Missile(domain.MissileID(42)); !errors.Is(err, domain.ErrUnknownMissile) {
		t.Fatalf("expected ErrUnknownMissile, got %v", err)
	}
}

func TestDefaultMinerTiers(t *testing.T) {
	c := Default()
	if c.MaxMinerLevel() != 15 {
		t.Fatalf("expected 15 tiers, got %d", c.MaxMinerLevel())
	}

	cases := []struct {
		level int
		rate  int64
		cost  int64
	}{
		{1, 100, 100},
		{9, 900, 900},
		{10, 1000, 10000},
		{14, 1400, 14000},
		{15, 1500, 0},
	}
	for _, tc := range cases {
		tier := c.MinerTier(tc.level)
		if tier.RatePerHour != tc.rate || tier.UpgradeCost != tc.cost {
			t.Fatalf("tier %d: got rate=%d cost=%d", tc.level, tier.RatePerHour, tier.UpgradeCost)
		}
	}

	if got := c.MinerTier(99).Level; got != 15 {
		t.Fatalf("expected clamp to 15, got %d", got)
	}
	if got := c.MinerTier(0).Level; got != 1 {
		t.Fatalf("expected clamp to 1, got %d", got)
	}
}

func TestDefaultBoxes(t *testing.T) {
	c := Default()
	want := []domain.BoxID{"coin", "zp", "special", "legendary", "free"}
	boxes := c.Boxes()
	if len(boxes) != len(want) {
		t.Fatalf("expected %d boxes, got %d", len(want), len(boxes))
	}
	for i, b := range boxes {
		if b.ID != want[i] {
			t.Fatalf("box %d: expected %s, got %s", i, want[i], b.ID)
		}
	}

	leg, _ := c.Box("legendary")
	if leg.Kind != BoxJackpot || leg.JackpotChance != 0.10 || leg.PriceGem != 10 {
		t.Fatalf("unexpected legendary box: %+v", leg)
	}
	free, _ := c.Box("free")
	if free.PriceCoin != 0 || free.PriceGem != 0 || len(free.Currencies) != 2 {
		t.Fatalf("unexpected free box: %+v", free)
	}
}

func TestDefaultIsolated(t *testing.T) {
	a := Default()
	nuke, _ := a.Combo("nuclear")
	nuke.Missiles[domain.MissileGhost] = 99

	b := Default()
	again, _ := b.Combo("nuclear")
	if _, ok := again.Missiles[domain.MissileGhost]; ok {
		t.Fatalf("mutation leaked across catalogs")
	}
}

func TestParseOverrides(t *testing.T) {
	raw := []byte(`
missiles:
  ghost:
    damage: 60
    price: 250
    min_level: 1
    class: normal
combos:
  double:
    multiplier: 2.5
    min_level: 4
    missiles: {ghost: 2, thunder: 1}
boxes:
  mini:
    kind: currency
    price_coin: 50
    currencies: [gem]
    min: 1
    max: 3
`)
	c, err := Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	g, _ := c.Missile(domain.MissileGhost)
	if g.Damage != 60 || g.PriceCoin != 250 {
		t.Fatalf("override not applied: %+v", g)
	}

	d, err := c.Combo("double")
	if err != nil {
		t.Fatalf("double: %v", err)
	}
	if d.MultiplierPct != 250 || d.Missiles[domain.MissileGhost] != 2 || d.Missiles[domain.MissileThunder] != 1 {
		t.Fatalf("unexpected double combo: %+v", d)
	}
	if _, err := c.Combo("simple"); err != nil {
		t.Fatalf("defaults should survive overrides: %v", err)
	}

	mini, err := c.Box("mini")
	if err != nil || mini.Currencies[0] != domain.ResourceGem {
		t.Fatalf("unexpected mini box: %+v err=%v", mini, err)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"unknown missile": "missiles:\n  laser: {damage: 1, price: 1, min_level: 1, class: normal}\n",
		"bad class":       "missiles:\n  ghost: {damage: 1, price: 1, min_level: 1, class: cosmic}\n",
		"combo qty":       "combos:\n  x: {multiplier: 1, min_level: 1, missiles: {ghost: 0}}\n",
		"box range":       "boxes:\n  x: {kind: currency, currencies: [coin], min: 10, max: 5}\n",
		"box currency":    "boxes:\n  x: {kind: currency, currencies: [level], min: 1, max: 5}\n",
		"jackpot chance":  "boxes:\n  x: {kind: jackpot, currencies: [coin], min: 1, max: 5, jackpot_chance: 1.5, jackpot_min: 1, jackpot_max: 2}\n",
		"empty missiles":  "boxes:\n  x: {kind: missile}\n",
		"tier gap":        "miner_tiers:\n  - {level: 1, rate: 10, upgrade_cost: 5}\n  - {level: 3, rate: 30}\n",
	}
	for name, raw := range cases {
		if _, err := Parse([]byte(raw)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadFile(t *testing.T) {
	c, err := Load("")
	if err != nil || c.MaxMinerLevel() != 15 {
		t.Fatalf("empty path should return defaults: %v", err)
	}

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := "miner_tiers:\n  - {level: 1, rate: 10, upgrade_cost: 5}\n  - {level: 2, rate: 20, upgrade_cost: 7}\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err = Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.MaxMinerLevel() != 2 || c.MinerTier(2).UpgradeCost != 0 {
		t.Fatalf("unexpected tiers: %+v", c.MinerTiers())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
