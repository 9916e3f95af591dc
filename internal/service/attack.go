package service

import (
	"context"

	"warzone/internal/domain"
	"warzone/internal/game"
	"warzone/internal/repository"
)

// ResolveAttack resolves one attack. Validation happens before any write:
// self target, unknown players, unknown combo, level, then missiles and gems.
// Both rows are locked in ascending id order, loot is computed from the
// target balance read under that lock and everything commits together.
func (s *EconomyService) ResolveAttack(ctx context.Context, attackerID, targetID int64, comboID domain.ComboID) (*domain.AttackReport, error) {
	if attackerID == targetID {
		return nil, domain.ErrSelfTarget
	}

	var (
		report           *domain.AttackReport
		attacker, target *domain.Player
	)
	err := s.withTx(ctx, "attack", func(ctx context.Context, tx repository.Tx) error {
		first, second := attackerID, targetID
		if first > second {
			first, second = second, first
		}
		a, err := tx.LockPlayer(ctx, first)
		if err != nil {
			return err
		}
		b, err := tx.LockPlayer(ctx, second)
		if err != nil {
			return err
		}
		attacker, target = a, b
		if first != attackerID {
			attacker, target = b, a
		}

		combo, err := s.catalog.Combo(comboID)
		if err != nil {
			return err
		}
		inv, err := tx.LockInventory(ctx, attackerID)
		if err != nil {
			return err
		}

		rep, err := game.ResolveAttack(attacker, target, inv, combo)
		if err != nil {
			return err
		}
		rep.ID = s.newID()
		rep.At = s.now()

		for _, id := range domain.AllMissiles() {
			if q := rep.MissilesSpent[id]; q > 0 {
				if err := tx.AddMissiles(ctx, attackerID, id, -q); err != nil {
					return err
				}
			}
		}
		if err := tx.SavePlayer(ctx, attacker); err != nil {
			return err
		}
		if err := tx.SavePlayer(ctx, target); err != nil {
			return err
		}
		if err := tx.RecordAttack(ctx, &domain.AttackRecord{
			ID:         rep.ID,
			AttackerID: attackerID,
			TargetID:   targetID,
			Combo:      rep.Combo,
			Damage:     rep.AppliedDamage,
			LootCoin:   rep.LootCoin,
			LootGem:    rep.LootGem,
			CreatedAt:  rep.At,
		}); err != nil {
			return err
		}
		if err := s.recordAttackLedger(ctx, tx, rep); err != nil {
			return err
		}
		report = rep
		return nil
	})
	if err != nil {
		return nil, err
	}

	attacksTotal.WithLabelValues(string(report.Combo)).Inc()
	lootTransferred.WithLabelValues("coin").Add(float64(report.LootCoin))
	lootTransferred.WithLabelValues("gem").Add(float64(report.LootGem))
	s.log.Debug("attack resolved",
		"attack", report.ID,
		"attacker", attackerID,
		"target", targetID,
		"combo", report.Combo,
		"damage", report.AppliedDamage,
		"loot_coin", report.LootCoin,
		"loot_gem", report.LootGem,
	)
	s.syncRanking(ctx, attacker, target)
	return report, nil
}

func (s *EconomyService) recordAttackLedger(ctx context.Context, tx repository.Tx, rep *domain.AttackReport) error {
	meta := func(counterpart int64) map[string]interface{} {
		return map[string]interface{}{"attack_id": rep.ID, "combo": string(rep.Combo), "counterpart": counterpart}
	}
	coin, gem := domain.ResourceCoin.String(), domain.ResourceGem.String()
	lines := []ledgerLine{
		{rep.AttackerID, domain.TxAttackLoot, coin, rep.LootCoin, meta(rep.TargetID)},
		{rep.AttackerID, domain.TxAttackLoot, gem, rep.LootGem, meta(rep.TargetID)},
		{rep.TargetID, domain.TxAttackLoss, coin, -rep.LootCoin, meta(rep.AttackerID)},
		{rep.TargetID, domain.TxAttackLoss, gem, -rep.LootGem, meta(rep.AttackerID)},
		{rep.AttackerID, domain.TxAttackCost, gem, -rep.GemsSpent, meta(rep.TargetID)},
	}
	for _, id := range domain.AllMissiles() {
		if q := rep.MissilesSpent[id]; q > 0 {
			m := meta(rep.TargetID)
			m["missile"] = id.String()
			lines = append(lines, ledgerLine{rep.AttackerID, domain.TxAttackCost, domain.ResourceMissile, -q, m})
		}
	}
	if rep.LeveledUp {
		m := map[string]interface{}{"level": rep.NewLevel}
		lines = append(lines,
			ledgerLine{rep.AttackerID, domain.TxLevelUpBonus, coin, game.LevelUpCoinBonus, m},
			ledgerLine{rep.AttackerID, domain.TxLevelUpBonus, gem, game.LevelUpGemBonus, m},
		)
	}
	return s.recordLines(ctx, tx, lines)
}
