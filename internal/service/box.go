package service

import (
	"context"
	"strconv"

	"warzone/internal/domain"
	"warzone/internal/game"
	"warzone/internal/repository"
)

// OpenBox charges the box price and credits one draw in the same transaction.
func (s *EconomyService) OpenBox(ctx context.Context, playerID int64, boxID domain.BoxID) (*domain.BoxOutcome, error) {
	box, err := s.catalog.Box(boxID)
	if err != nil {
		return nil, err
	}

	var (
		out *domain.BoxOutcome
		p   *domain.Player
	)
	err = s.withTx(ctx, "box_open", func(ctx context.Context, tx repository.Tx) error {
		var err error
		p, err = tx.LockPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		inv, err := tx.LockInventory(ctx, playerID)
		if err != nil {
			return err
		}

		var res *domain.BoxOutcome
		var openErr error
		s.draw(func(rng game.Rand) {
			res, openErr = game.OpenBox(rng, p, inv, box)
		})
		if openErr != nil {
			return openErr
		}

		if err := tx.SavePlayer(ctx, p); err != nil {
			return err
		}
		if res.Missile.Valid() {
			if err := tx.AddMissiles(ctx, playerID, res.Missile, 1); err != nil {
				return err
			}
		}

		meta := map[string]interface{}{"box": string(box.ID)}
		lines := []ledgerLine{
			{playerID, domain.TxBoxCost, domain.ResourceCoin.String(), -res.CostCoin, meta},
			{playerID, domain.TxBoxCost, domain.ResourceGem.String(), -res.CostGem, meta},
		}
		if res.Missile.Valid() {
			lines = append(lines, ledgerLine{playerID, domain.TxBoxReward, domain.ResourceMissile, 1,
				map[string]interface{}{"box": string(box.ID), "missile": res.Missile.String()}})
		} else {
			lines = append(lines, ledgerLine{playerID, domain.TxBoxReward, res.Currency.String(), res.Amount,
				map[string]interface{}{"box": string(box.ID), "jackpot": res.Jackpot}})
		}
		if err := s.recordLines(ctx, tx, lines); err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	boxesOpened.WithLabelValues(string(boxID), strconv.FormatBool(out.Jackpot)).Inc()
	s.log.Debug("box opened", "player", playerID, "box", boxID, "amount", out.Amount, "jackpot", out.Jackpot)
	s.syncRanking(ctx, p)
	return out, nil
}
