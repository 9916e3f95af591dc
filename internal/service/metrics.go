package service

import (
	"errors"

	"warzone/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	operationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "economy_operations_total",
			Help: "Economy operations by outcome",
		},
		[]string{"op", "result"},
	)
	storeConflicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "economy_store_conflicts_total",
			Help: "Store transactions that hit lock contention",
		},
		[]string{"op"},
	)
	attacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "economy_attacks_total",
			Help: "Resolved attacks by combo",
		},
		[]string{"combo"},
	)
	lootTransferred = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "economy_loot_transferred_total",
			Help: "Currency moved from targets to attackers",
		},
		[]string{"resource"},
	)
	boxesOpened = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "economy_boxes_opened_total",
			Help: "Opened reward boxes",
		},
		[]string{"box", "jackpot"},
	)
	minerClaimed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "economy_miner_claimed_point_total",
			Help: "Point credited by miner claims",
		},
	)
)

func init() {
	prometheus.MustRegister(operationsTotal, storeConflicts, attacksTotal, lootTransferred, boxesOpened, minerClaimed)
}

var rejections = []error{
	domain.ErrUnknownPlayer,
	domain.ErrSelfTarget,
	domain.ErrUnknownCombo,
	domain.ErrUnknownBox,
	domain.ErrUnknownMissile,
	domain.ErrUnknownTrack,
	domain.ErrUnknownResource,
	domain.ErrLevelTooLow,
	domain.ErrInsufficientFunds,
	domain.ErrInsufficientGems,
	domain.ErrInsufficientMissiles,
	domain.ErrMaxLevelReached,
	domain.ErrNothingToClaim,
	domain.ErrInvalidAmount,
}

// IsRejection reports whether err is a rule rejection rather than a failure.
func IsRejection(err error) bool {
	for _, r := range rejections {
		if errors.Is(err, r) {
			return true
		}
	}
	return false
}

func resultLabel(err error) string {
	if IsRejection(err) {
		return "rejected"
	}
	return "error"
}
