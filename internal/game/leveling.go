package game

import "warzone/internal/domain"

const (
	xpPerLevel       = 100
	LevelUpCoinBonus = 1000
	LevelUpGemBonus  = 5
)

// AwardXP adds amount to p.XP and applies at most one level-up: the threshold
// is level*100 and the excess carries over. Negative amounts count as zero.
func AwardXP(p *domain.Player, amount int64) (leveledUp bool, newLevel int) {
	if p.Level < 1 {
		p.Level = 1
	}
	sum := p.XP + max(amount, 0)
	threshold := int64(p.Level) * xpPerLevel
	if sum < threshold {
		p.XP = sum
		return false, p.Level
	}
	p.Level++
	p.XP = sum - threshold
	p.Coin += LevelUpCoinBonus
	p.Gem += LevelUpGemBonus
	return true, p.Level
}
