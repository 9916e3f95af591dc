package service

import (
	"context"

	"warzone/internal/domain"
	"warzone/internal/repository"
)

// maxPurchaseQuantity bounds a single order so price*quantity cannot overflow.
const maxPurchaseQuantity = 10000

type Purchase struct {
	Missile   domain.MissileID `json:"missile"`
	Quantity  int64            `json:"quantity"`
	CostCoin  int64            `json:"cost_coin"`
	CostGem   int64            `json:"cost_gem"`
	Owned     int64            `json:"owned"`
	CoinAfter int64            `json:"coin_after"`
	GemAfter  int64            `json:"gem_after"`
}

// BuyMissile buys quantity missiles at catalog price. Special missiles also
// cost their gem price per unit.
func (s *EconomyService) BuyMissile(ctx context.Context, playerID int64, missile domain.MissileID, quantity int64) (*Purchase, error) {
	def, err := s.catalog.Missile(missile)
	if err != nil {
		return nil, err
	}
	if quantity < 1 || quantity > maxPurchaseQuantity {
		return nil, domain.ErrInvalidAmount
	}

	var (
		out *Purchase
		p   *domain.Player
	)
	err = s.withTx(ctx, "market_buy", func(ctx context.Context, tx repository.Tx) error {
		var err error
		p, err = tx.LockPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		if p.Level < def.MinLevel {
			return domain.ErrLevelTooLow
		}
		coinCost := def.PriceCoin * quantity
		gemCost := def.GemCost * quantity
		if p.Coin < coinCost {
			return domain.ErrInsufficientFunds
		}
		if p.Gem < gemCost {
			return domain.ErrInsufficientGems
		}
		p.Coin -= coinCost
		p.Gem -= gemCost
		if err := tx.SavePlayer(ctx, p); err != nil {
			return err
		}
		if err := tx.AddMissiles(ctx, playerID, missile, quantity); err != nil {
			return err
		}
		inv, err := tx.LockInventory(ctx, playerID)
		if err != nil {
			return err
		}

		meta := map[string]interface{}{"missile": missile.String(), "quantity": quantity}
		if err := s.recordLines(ctx, tx, []ledgerLine{
			{playerID, domain.TxMissilePurchase, domain.ResourceCoin.String(), -coinCost, meta},
			{playerID, domain.TxMissilePurchase, domain.ResourceGem.String(), -gemCost, meta},
			{playerID, domain.TxMissilePurchase, domain.ResourceMissile, quantity, meta},
		}); err != nil {
			return err
		}
		out = &Purchase{
			Missile:   missile,
			Quantity:  quantity,
			CostCoin:  coinCost,
			CostGem:   gemCost,
			Owned:     inv[missile],
			CoinAfter: p.Coin,
			GemAfter:  p.Gem,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("missiles bought", "player", playerID, "missile", missile.String(), "quantity", quantity)
	s.syncRanking(ctx, p)
	return out, nil
}
