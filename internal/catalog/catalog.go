package catalog

import (
	"fmt"
	"math"
	"sort"

	"warzone/internal/domain"
)

type MissileDef struct {
	ID        domain.MissileID    `json:"id"`
	Damage    int64               `json:"damage"`
	PriceCoin int64               `json:"price_coin"`
	MinLevel  int                 `json:"min_level"`
	Class     domain.MissileClass `json:"class"`
	GemCost   int64               `json:"gem_cost,omitempty"`
}

type ComboDef struct {
	ID domain.ComboID `json:"id"`
	// MultiplierPct is the damage multiplier in hundredths (150 == x1.5).
	MultiplierPct int64            `json:"multiplier_pct"`
	MinLevel      int              `json:"min_level"`
	Missiles      domain.Inventory `json:"missiles"`
	GemCost       int64            `json:"gem_cost,omitempty"`
}

func (c ComboDef) Multiplier() float64 { return float64(c.MultiplierPct) / 100 }

// MinerTier describes one miner level. UpgradeCost is zero on the terminal tier.
type MinerTier struct {
	Level       int   `json:"level"`
	RatePerHour int64 `json:"rate_per_hour"`
	UpgradeCost int64 `json:"upgrade_cost,omitempty"`
}

type BoxKind string

const (
	BoxCurrency BoxKind = "currency"
	BoxMissile  BoxKind = "missile"
	BoxJackpot  BoxKind = "jackpot"
)

type BoxDef struct {
	ID        domain.BoxID `json:"id"`
	Kind      BoxKind      `json:"kind"`
	PriceCoin int64        `json:"price_coin"`
	PriceGem  int64        `json:"price_gem"`

	// Currencies lists the payout currencies; one is picked uniformly when
	// there are several. Unused by missile boxes.
	Currencies []domain.ResourceKind `json:"currencies,omitempty"`
	Min        int64                 `json:"min,omitempty"`
	Max        int64                 `json:"max,omitempty"`

	Missiles []domain.MissileID `json:"missiles,omitempty"`

	JackpotChance float64 `json:"jackpot_chance,omitempty"`
	JackpotMin    int64   `json:"jackpot_min,omitempty"`
	JackpotMax    int64   `json:"jackpot_max,omitempty"`
}

// Catalog is the immutable static game data. It is safe for concurrent reads.
type Catalog struct {
	missiles map[domain.MissileID]MissileDef
	combos   map[domain.ComboID]ComboDef
	tiers    []MinerTier
	boxes    map[domain.BoxID]BoxDef

	comboOrder []domain.ComboID
	boxOrder   []domain.BoxID
}

func (c *Catalog) Missile(id domain.MissileID) (MissileDef, error) {
	m, ok := c.missiles[id]
	if !ok {
		return MissileDef{}, fmt.Errorf("missile %d: %w", id, domain.ErrUnknownMissile)
	}
	return m, nil
}

// Missiles returns all missile definitions in enum order.
func (c *Catalog) Missiles() []MissileDef {
	out := make([]MissileDef, 0, len(c.missiles))
	for _, id := range domain.AllMissiles() {
		if m, ok := c.missiles[id]; ok {
			out = append(out, m)
		}
	}
	return out
}

func (c *Catalog) Combo(id domain.ComboID) (ComboDef, error) {
	cd, ok := c.combos[id]
	if !ok {
		return ComboDef{}, fmt.Errorf("combo %q: %w", id, domain.ErrUnknownCombo)
	}
	return cd, nil
}

func (c *Catalog) Combos() []ComboDef {
	out := make([]ComboDef, 0, len(c.comboOrder))
	for _, id := range c.comboOrder {
		out = append(out, c.combos[id])
	}
	return out
}

// MinerTier returns the tier for level. Levels outside the table are clamped.
func (c *Catalog) MinerTier(level int) MinerTier {
	if level < 1 {
		level = 1
	}
	if level > len(c.tiers) {
		level = len(c.tiers)
	}
	return c.tiers[level-1]
}

func (c *Catalog) MaxMinerLevel() int { return len(c.tiers) }

func (c *Catalog) MinerTiers() []MinerTier {
	return append([]MinerTier(nil), c.tiers...)
}

func (c *Catalog) Box(id domain.BoxID) (BoxDef, error) {
	b, ok := c.boxes[id]
	if !ok {
		return BoxDef{}, fmt.Errorf("box %q: %w", id, domain.ErrUnknownBox)
	}
	return b, nil
}

func (c *Catalog) Boxes() []BoxDef {
	out := make([]BoxDef, 0, len(c.boxOrder))
	for _, id := range c.boxOrder {
		out = append(out, c.boxes[id])
	}
	return out
}

// build indexes and validates the raw definitions.
func build(missiles []MissileDef, combos []ComboDef, tiers []MinerTier, boxes []BoxDef) (*Catalog, error) {
	c := &Catalog{
		missiles: make(map[domain.MissileID]MissileDef, len(missiles)),
		combos:   make(map[domain.ComboID]ComboDef, len(combos)),
		boxes:    make(map[domain.BoxID]BoxDef, len(boxes)),
	}

	for _, m := range missiles {
		if !m.ID.Valid() {
			return nil, fmt.Errorf("missile %d: %w", m.ID, domain.ErrUnknownMissile)
		}
		if m.Damage <= 0 || m.PriceCoin < 0 || m.MinLevel < 1 || m.GemCost < 0 {
			return nil, fmt.Errorf("missile %s: invalid definition", m.ID)
		}
		if m.Class != domain.MissileNormal && m.Class != domain.MissileSpecial {
			return nil, fmt.Errorf("missile %s: unknown class %q", m.ID, m.Class)
		}
		c.missiles[m.ID] = m
	}

	for _, cd := range combos {
		if cd.ID == "" {
			return nil, fmt.Errorf("combo: empty id")
		}
		if cd.MultiplierPct <= 0 || cd.MinLevel < 1 || cd.GemCost < 0 {
			return nil, fmt.Errorf("combo %s: invalid definition", cd.ID)
		}
		for id, q := range cd.Missiles {
			if _, ok := c.missiles[id]; !ok {
				return nil, fmt.Errorf("combo %s: missile %d: %w", cd.ID, id, domain.ErrUnknownMissile)
			}
			if q <= 0 {
				return nil, fmt.Errorf("combo %s: missile %s: quantity must be positive", cd.ID, id)
			}
		}
		if _, dup := c.combos[cd.ID]; !dup {
			c.comboOrder = append(c.comboOrder, cd.ID)
		}
		c.combos[cd.ID] = cd
	}

	sort.Slice(tiers, func(i, j int) bool { return tiers[i].Level < tiers[j].Level })
	if len(tiers) == 0 {
		return nil, fmt.Errorf("miner: no tiers")
	}
	for i, t := range tiers {
		if t.Level != i+1 {
			return nil, fmt.Errorf("miner: tier levels must be contiguous from 1, got %d at position %d", t.Level, i)
		}
		if t.RatePerHour <= 0 {
			return nil, fmt.Errorf("miner tier %d: rate must be positive", t.Level)
		}
		last := i == len(tiers)-1
		if !last && t.UpgradeCost <= 0 {
			return nil, fmt.Errorf("miner tier %d: upgrade cost must be positive", t.Level)
		}
		if last {
			t.UpgradeCost = 0
		}
		c.tiers = append(c.tiers, t)
	}

	for _, b := range boxes {
		if err := validateBox(c, b); err != nil {
			return nil, err
		}
		if _, dup := c.boxes[b.ID]; !dup {
			c.boxOrder = append(c.boxOrder, b.ID)
		}
		c.boxes[b.ID] = b
	}

	return c, nil
}

func validateBox(c *Catalog, b BoxDef) error {
	if b.ID == "" {
		return fmt.Errorf("box: empty id")
	}
	if b.PriceCoin < 0 || b.PriceGem < 0 {
		return fmt.Errorf("box %s: negative price", b.ID)
	}
	switch b.Kind {
	case BoxCurrency, BoxJackpot:
		if len(b.Currencies) == 0 {
			return fmt.Errorf("box %s: no payout currency", b.ID)
		}
		for _, k := range b.Currencies {
			if !k.Currency() {
				return fmt.Errorf("box %s: %s: %w", b.ID, k, domain.ErrUnknownResource)
			}
		}
		if b.Min < 0 || b.Max < b.Min {
			return fmt.Errorf("box %s: invalid range [%d,%d]", b.ID, b.Min, b.Max)
		}
		if b.Kind == BoxJackpot {
			if math.IsNaN(b.JackpotChance) || b.JackpotChance < 0 || b.JackpotChance > 1 {
				return fmt.Errorf("box %s: jackpot chance must be within [0,1]", b.ID)
			}
			if b.JackpotMin < 0 || b.JackpotMax < b.JackpotMin {
				return fmt.Errorf("box %s: invalid jackpot range [%d,%d]", b.ID, b.JackpotMin, b.JackpotMax)
			}
		}
	case BoxMissile:
		if len(b.Missiles) == 0 {
			return fmt.Errorf("box %s: empty missile set", b.ID)
		}
		for _, id := range b.Missiles {
			if _, ok := c.missiles[id]; !ok {
				return fmt.Errorf("box %s: missile %d: %w", b.ID, id, domain.ErrUnknownMissile)
			}
		}
	default:
		return fmt.Errorf("box %s: unknown kind %q", b.ID, b.Kind)
	}
	return nil
}
