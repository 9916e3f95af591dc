package domain

import (
	"fmt"
	"strings"
)

// DefenseTrack is one of the three independent defense upgrade tracks.
type DefenseTrack uint8

const (
	TrackMissile DefenseTrack = iota + 1
	TrackElectronic
	TrackAntiFighter
)

var trackSlugs = [...]string{
	TrackMissile:     "missile",
	TrackElectronic:  "electronic",
	TrackAntiFighter: "antifighter",
}

// AllTracks lists the defense tracks in display order.
func AllTracks() []DefenseTrack {
	return []DefenseTrack{TrackMissile, TrackElectronic, TrackAntiFighter}
}

func ParseDefenseTrack(s string) (DefenseTrack, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range AllTracks() {
		if trackSlugs[t] == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTrack, s)
}

func (t DefenseTrack) Valid() bool {
	return t >= TrackMissile && t <= TrackAntiFighter
}

func (t DefenseTrack) String() string {
	if !t.Valid() {
		return fmt.Sprintf("track(%d)", uint8(t))
	}
	return trackSlugs[t]
}

func (t DefenseTrack) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTrack, uint8(t))
	}
	return []byte(trackSlugs[t]), nil
}

func (t *DefenseTrack) UnmarshalText(text []byte) error {
	v, err := ParseDefenseTrack(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// DefenseLevels holds the level of each defense track.
type DefenseLevels struct {
	Missile     int `json:"missile"`
	Electronic  int `json:"electronic"`
	AntiFighter int `json:"antifighter"`
}

// Level returns the level of the given track.
func (d DefenseLevels) Level(t DefenseTrack) int {
	switch t {
	case TrackMissile:
		return d.Missile
	case TrackElectronic:
		return d.Electronic
	case TrackAntiFighter:
		return d.AntiFighter
	}
	return 0
}

// Increment raises the given track by one level.
func (d *DefenseLevels) Increment(t DefenseTrack) {
	switch t {
	case TrackMissile:
		d.Missile++
	case TrackElectronic:
		d.Electronic++
	case TrackAntiFighter:
		d.AntiFighter++
	}
}
