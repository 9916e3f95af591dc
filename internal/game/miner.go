package game

import (
	"time"

	"warzone/internal/catalog"
	"warzone/internal/domain"
)

// Accrued returns floor(elapsed/1h * ratePerHour), exact to the nanosecond.
// It is zero when lastClaim is unset or not before now.
func Accrued(now time.Time, lastClaim *time.Time, ratePerHour int64) int64 {
	if lastClaim == nil || !now.After(*lastClaim) || ratePerHour <= 0 {
		return 0
	}
	elapsed := now.Sub(*lastClaim)
	secs := int64(elapsed / time.Second)
	frac := int64(elapsed % time.Second)
	// the sub-second remainder adds less than one rate unit per second
	units := secs*ratePerHour + frac*ratePerHour/int64(time.Second)
	return units / 3600
}

// claimStamp is the accrual boundary recorded on the player. Whole seconds
// survive every store's timestamp precision unchanged.
func claimStamp(now time.Time) time.Time {
	return now.Truncate(time.Second)
}

// MinerAccrued is Accrued at the player's current miner tier.
func MinerAccrued(c *catalog.Catalog, p *domain.Player, now time.Time) int64 {
	return Accrued(now, p.LastMinerClaim, c.MinerTier(p.MinerLevel).RatePerHour)
}

// ClaimMiner credits the accrued point and restarts accrual at now.
// Accrual is measured up to the same whole-second stamp that is stored, so
// consecutive claims credit exactly the stored intervals.
func ClaimMiner(c *catalog.Catalog, p *domain.Player, now time.Time) (int64, error) {
	t := claimStamp(now)
	amount := MinerAccrued(c, p, t)
	if amount == 0 {
		return 0, domain.ErrNothingToClaim
	}
	p.Point += amount
	p.LastMinerClaim = &t
	return amount, nil
}

// UpgradeMiner pays the current tier's upgrade cost and raises the miner level.
// Point accrued so far is credited at the new rate on the next claim.
func UpgradeMiner(c *catalog.Catalog, p *domain.Player) (newLevel int, cost int64, err error) {
	if p.MinerLevel >= c.MaxMinerLevel() {
		return 0, 0, domain.ErrMaxLevelReached
	}
	cost = c.MinerTier(p.MinerLevel).UpgradeCost
	if p.Coin < cost {
		return 0, 0, domain.ErrInsufficientFunds
	}
	p.Coin -= cost
	p.MinerLevel++
	return p.MinerLevel, cost, nil
}
