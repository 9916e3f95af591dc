package domain

import "errors"

// Engine errors. All of them are recoverable results returned to the caller;
// callers match them with errors.Is.
var (
	ErrUnknownPlayer        = errors.New("unknown player")
	ErrSelfTarget           = errors.New("cannot attack yourself")
	ErrUnknownCombo         = errors.New("unknown attack combo")
	ErrUnknownBox           = errors.New("unknown box")
	ErrUnknownMissile       = errors.New("unknown missile")
	ErrUnknownTrack         = errors.New("unknown defense track")
	ErrUnknownResource      = errors.New("unknown resource kind")
	ErrLevelTooLow          = errors.New("level too low")
	ErrInsufficientFunds    = errors.New("insufficient coin")
	ErrInsufficientGems     = errors.New("insufficient gems")
	ErrInsufficientMissiles = errors.New("insufficient missiles")
	ErrMaxLevelReached      = errors.New("max level reached")
	ErrNothingToClaim       = errors.New("nothing to claim")
	ErrInvalidAmount        = errors.New("invalid amount")

	// ErrStoreConflict is returned by a store when a row-level transaction lost
	// a race it could not resolve (serialization failure, deadlock, busy database).
	ErrStoreConflict = errors.New("store conflict")
)
