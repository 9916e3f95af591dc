package domain

import (
	"fmt"
	"strings"
)

// MissileID identifies a missile type. The set is closed; display names live
// in the presentation layer and are never parsed back.
type MissileID uint8

const (
	MissileGhost MissileID = iota + 1
	MissileThunder
	MissileBoomer
	MissileHawk
	MissilePatriot
	MissileMeteor
	MissileTsunami
	MissileStorm
	MissileTyphoon
	MissileApocalypse
)

var missileSlugs = [...]string{
	MissileGhost:      "ghost",
	MissileThunder:    "thunder",
	MissileBoomer:     "boomer",
	MissileHawk:       "hawk",
	MissilePatriot:    "patriot",
	MissileMeteor:     "meteor",
	MissileTsunami:    "tsunami",
	MissileStorm:      "storm",
	MissileTyphoon:    "typhoon",
	MissileApocalypse: "apocalypse",
}

// AllMissiles lists every missile in display order.
func AllMissiles() []MissileID {
	out := make([]MissileID, 0, len(missileSlugs)-1)
	for id := MissileGhost; id <= MissileApocalypse; id++ {
		out = append(out, id)
	}
	return out
}

// ParseMissileID resolves a slug such as "ghost" to its MissileID.
func ParseMissileID(s string) (MissileID, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for id := MissileGhost; id <= MissileApocalypse; id++ {
		if missileSlugs[id] == s {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMissile, s)
}

func (m MissileID) Valid() bool {
	return m >= MissileGhost && m <= MissileApocalypse
}

func (m MissileID) String() string {
	if !m.Valid() {
		return fmt.Sprintf("missile(%d)", uint8(m))
	}
	return missileSlugs[m]
}

func (m MissileID) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMissile, uint8(m))
	}
	return []byte(missileSlugs[m]), nil
}

func (m *MissileID) UnmarshalText(text []byte) error {
	id, err := ParseMissileID(string(text))
	if err != nil {
		return err
	}
	*m = id
	return nil
}

// MissileClass separates coin-only missiles from the gem-priced specials.
type MissileClass string

const (
	MissileNormal  MissileClass = "normal"
	MissileSpecial MissileClass = "special"
)
