package domain

import (
	"fmt"
	"strings"
)

// ResourceKind names a numeric player attribute that can be granted or
// credited. It replaces free-text matching on "coin"/"gem"/"level".
type ResourceKind uint8

const (
	ResourceCoin ResourceKind = iota + 1
	ResourceGem
	ResourcePoint
	ResourceLevel
)

var resourceSlugs = [...]string{
	ResourceCoin:  "coin",
	ResourceGem:   "gem",
	ResourcePoint: "point",
	ResourceLevel: "level",
}

func ParseResourceKind(s string) (ResourceKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k := ResourceCoin; k <= ResourceLevel; k++ {
		if resourceSlugs[k] == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownResource, s)
}

func (k ResourceKind) Valid() bool {
	return k >= ResourceCoin && k <= ResourceLevel
}

// Currency reports whether k is one of the three spendable currencies.
func (k ResourceKind) Currency() bool {
	return k == ResourceCoin || k == ResourceGem || k == ResourcePoint
}

func (k ResourceKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("resource(%d)", uint8(k))
	}
	return resourceSlugs[k]
}

func (k ResourceKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownResource, uint8(k))
	}
	return []byte(resourceSlugs[k]), nil
}

func (k *ResourceKind) UnmarshalText(text []byte) error {
	v, err := ParseResourceKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// ComboID and BoxID are catalog keys. Unlike missiles they are configuration
// driven, so they stay string typed and are validated against the catalog.
type ComboID string

type BoxID string
