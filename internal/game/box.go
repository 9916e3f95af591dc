package game

import (
	"warzone/internal/catalog"
	"warzone/internal/domain"
)

// Prize is a single box draw.
type Prize struct {
	Currency domain.ResourceKind
	Amount   int64
	Missile  domain.MissileID
	Jackpot  bool
}

// uniform draws an integer in [lo, hi].
func uniform(rng Rand, lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Int63n(hi-lo+1)
}

func pickCurrency(rng Rand, ks []domain.ResourceKind) domain.ResourceKind {
	if len(ks) == 1 {
		return ks[0]
	}
	return ks[rng.Int63n(int64(len(ks)))]
}

// Draw samples box's distribution.
func Draw(rng Rand, box catalog.BoxDef) Prize {
	switch box.Kind {
	case catalog.BoxMissile:
		return Prize{Missile: box.Missiles[rng.Int63n(int64(len(box.Missiles)))]}
	case catalog.BoxJackpot:
		k := pickCurrency(rng, box.Currencies)
		if rng.Float64() < box.JackpotChance {
			return Prize{Currency: k, Amount: uniform(rng, box.JackpotMin, box.JackpotMax), Jackpot: true}
		}
		return Prize{Currency: k, Amount: uniform(rng, box.Min, box.Max)}
	default:
		k := pickCurrency(rng, box.Currencies)
		return Prize{Currency: k, Amount: uniform(rng, box.Min, box.Max)}
	}
}

// OpenBox charges the box price and credits one draw. Funds are checked before
// anything is deducted, so a box is either paid and paid out, or untouched.
func OpenBox(rng Rand, p *domain.Player, inv domain.Inventory, box catalog.BoxDef) (*domain.BoxOutcome, error) {
	if p.Coin < box.PriceCoin {
		return nil, domain.ErrInsufficientFunds
	}
	if p.Gem < box.PriceGem {
		return nil, domain.ErrInsufficientGems
	}

	prize := Draw(rng, box)

	p.Coin -= box.PriceCoin
	p.Gem -= box.PriceGem
	if prize.Missile.Valid() {
		inv[prize.Missile]++
	} else {
		p.Credit(prize.Currency, prize.Amount)
	}

	out := &domain.BoxOutcome{
		Box:        box.ID,
		Currency:   prize.Currency,
		Amount:     prize.Amount,
		Missile:    prize.Missile,
		Jackpot:    prize.Jackpot,
		CostCoin:   box.PriceCoin,
		CostGem:    box.PriceGem,
		CoinAfter:  p.Coin,
		GemAfter:   p.Gem,
		PointAfter: p.Point,
	}
	if prize.Missile.Valid() {
		out.Amount = 1
	}
	return out, nil
}
