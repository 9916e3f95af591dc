package catalog

import (
	"fmt"
	"maps"
	"math"
	"os"
	"slices"

	"warzone/internal/domain"

	"gopkg.in/yaml.v3"
)

// file is the on-disk override format. Entries replace the built-in entry with
// the same key; anything not mentioned keeps its default.
type file struct {
	Missiles map[string]missileYAML `yaml:"missiles"`
	Combos   map[string]comboYAML   `yaml:"combos"`
	Miner    []minerTierYAML        `yaml:"miner_tiers"`
	Boxes    map[string]boxYAML     `yaml:"boxes"`
}

type missileYAML struct {
	Damage   int64  `yaml:"damage"`
	Price    int64  `yaml:"price"`
	MinLevel int    `yaml:"min_level"`
	Class    string `yaml:"class"`
	GemCost  int64  `yaml:"gem_cost"`
}

type comboYAML struct {
	Multiplier float64          `yaml:"multiplier"`
	MinLevel   int              `yaml:"min_level"`
	Missiles   map[string]int64 `yaml:"missiles"`
	GemCost    int64            `yaml:"gem_cost"`
}

type minerTierYAML struct {
	Level       int   `yaml:"level"`
	Rate        int64 `yaml:"rate"`
	UpgradeCost int64 `yaml:"upgrade_cost"`
}

type boxYAML struct {
	Kind          string   `yaml:"kind"`
	PriceCoin     int64    `yaml:"price_coin"`
	PriceGem      int64    `yaml:"price_gem"`
	Currencies    []string `yaml:"currencies"`
	Min           int64    `yaml:"min"`
	Max           int64    `yaml:"max"`
	Missiles      []string `yaml:"missiles"`
	JackpotChance float64  `yaml:"jackpot_chance"`
	JackpotMin    int64    `yaml:"jackpot_min"`
	JackpotMax    int64    `yaml:"jackpot_max"`
}

// Load reads a YAML override file on top of the built-in catalog.
// An empty path returns Default().
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse applies YAML overrides to the built-in catalog and validates the result.
func Parse(raw []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, err
	}

	missiles := cloneMissiles(defaultMissiles)
	for _, slug := range slices.Sorted(maps.Keys(f.Missiles)) {
		m := f.Missiles[slug]
		id, err := domain.ParseMissileID(slug)
		if err != nil {
			return nil, err
		}
		def := MissileDef{
			ID:        id,
			Damage:    m.Damage,
			PriceCoin: m.Price,
			MinLevel:  m.MinLevel,
			Class:     domain.MissileClass(m.Class),
			GemCost:   m.GemCost,
		}
		missiles = replaceMissile(missiles, def)
	}

	combos := cloneCombos(defaultCombos)
	for _, slug := range slices.Sorted(maps.Keys(f.Combos)) {
		cy := f.Combos[slug]
		def := ComboDef{
			ID:            domain.ComboID(slug),
			MultiplierPct: int64(math.Round(cy.Multiplier * 100)),
			MinLevel:      cy.MinLevel,
			Missiles:      domain.Inventory{},
			GemCost:       cy.GemCost,
		}
		for ms, q := range cy.Missiles {
			id, err := domain.ParseMissileID(ms)
			if err != nil {
				return nil, fmt.Errorf("combo %s: %w", slug, err)
			}
			def.Missiles[id] = q
		}
		combos = replaceCombo(combos, def)
	}

	tiers := defaultTiers()
	if len(f.Miner) > 0 {
		tiers = tiers[:0]
		for _, t := range f.Miner {
			tiers = append(tiers, MinerTier{Level: t.Level, RatePerHour: t.Rate, UpgradeCost: t.UpgradeCost})
		}
	}

	boxes := cloneBoxes(defaultBoxes)
	for _, slug := range slices.Sorted(maps.Keys(f.Boxes)) {
		by := f.Boxes[slug]
		def := BoxDef{
			ID:            domain.BoxID(slug),
			Kind:          BoxKind(by.Kind),
			PriceCoin:     by.PriceCoin,
			PriceGem:      by.PriceGem,
			Min:           by.Min,
			Max:           by.Max,
			JackpotChance: by.JackpotChance,
			JackpotMin:    by.JackpotMin,
			JackpotMax:    by.JackpotMax,
		}
		for _, cs := range by.Currencies {
			k, err := domain.ParseResourceKind(cs)
			if err != nil {
				return nil, fmt.Errorf("box %s: %w", slug, err)
			}
			def.Currencies = append(def.Currencies, k)
		}
		for _, ms := range by.Missiles {
			id, err := domain.ParseMissileID(ms)
			if err != nil {
				return nil, fmt.Errorf("box %s: %w", slug, err)
			}
			def.Missiles = append(def.Missiles, id)
		}
		boxes = replaceBox(boxes, def)
	}

	return build(missiles, combos, tiers, boxes)
}

func replaceMissile(list []MissileDef, def MissileDef) []MissileDef {
	for i := range list {
		if list[i].ID == def.ID {
			list[i] = def
			return list
		}
	}
	return append(list, def)
}

func replaceCombo(list []ComboDef, def ComboDef) []ComboDef {
	for i := range list {
		if list[i].ID == def.ID {
			list[i] = def
			return list
		}
	}
	return append(list, def)
}

func replaceBox(list []BoxDef, def BoxDef) []BoxDef {
	for i := range list {
		if list[i].ID == def.ID {
			list[i] = def
			return list
		}
	}
	return append(list, def)
}
