package models

import (
	"fmt"
	"strings"
)

// Kind identifies one of the three catalog resource categories.
type Kind int

const (
	KindCharacter Kind = iota
	KindEpisode
	KindLocation
)

// Kinds lists every [Kind] in display order.
var Kinds = []Kind{KindCharacter, KindEpisode, KindLocation}

// String returns the plural name used as the favorites map key (e.g. "characters").
func (k Kind) String() string {
	switch k {
	case KindCharacter:
		return "characters"
	case KindEpisode:
		return "episodes"
	case KindLocation:
		return "locations"
	default:
		return ""
	}
}

// Resource returns the singular API path segment (e.g. "character").
func (k Kind) Resource() string {
	switch k {
	case KindCharacter:
		return "character"
	case KindEpisode:
		return "episode"
	case KindLocation:
		return "location"
	default:
		return ""
	}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k >= KindCharacter && k <= KindLocation
}

// ParseKind accepts the plural or singular name of a kind, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "characters", "character":
		return KindCharacter, nil
	case "episodes", "episode":
		return KindEpisode, nil
	case "locations", "location":
		return KindLocation, nil
	default:
		return 0, fmt.Errorf("unknown kind %q", s)
	}
}
