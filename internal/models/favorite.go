package models

import (
	"encoding/json"
	"slices"
)

// Credential is a registered mock account. The password is kept in plaintext by contract.
type Credential struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// FavoriteIDs holds one user's favorited IDs per kind. Order is insertion order and carries no meaning.
type FavoriteIDs struct {
	Characters []int `json:"characters"`
	Episodes   []int `json:"episodes"`
	Locations  []int `json:"locations"`
}

// EmptyFavoriteIDs returns a value whose three sets are empty, non-nil slices.
func EmptyFavoriteIDs() FavoriteIDs {
	return FavoriteIDs{Characters: []int{}, Episodes: []int{}, Locations: []int{}}
}

// Of returns the set for kind.
func (f FavoriteIDs) Of(kind Kind) []int {
	switch kind {
	case KindCharacter:
		return f.Characters
	case KindEpisode:
		return f.Episodes
	case KindLocation:
		return f.Locations
	default:
		return nil
	}
}

// With returns a copy of f whose set for kind is replaced by ids.
func (f FavoriteIDs) With(kind Kind, ids []int) FavoriteIDs {
	switch kind {
	case KindCharacter:
		f.Characters = ids
	case KindEpisode:
		f.Episodes = ids
	case KindLocation:
		f.Locations = ids
	}
	return f
}

// Clone returns a deep copy with nil sets normalised to empty slices.
func (f FavoriteIDs) Clone() FavoriteIDs {
	clone := func(ids []int) []int {
		if ids == nil {
			return []int{}
		}
		return slices.Clone(ids)
	}
	return FavoriteIDs{
		Characters: clone(f.Characters),
		Episodes:   clone(f.Episodes),
		Locations:  clone(f.Locations),
	}
}

// Total returns the number of IDs across all kinds.
func (f FavoriteIDs) Total() int {
	return len(f.Characters) + len(f.Episodes) + len(f.Locations)
}

// FavoritesMap is the persisted favorites document keyed by user email.
type FavoritesMap map[string]FavoriteIDs

// FavoriteItem is a tagged union over the three catalog records. Exactly one pointer, selected by Kind, is set.
type FavoriteItem struct {
	Kind      Kind
	Character *Character
	Episode   *Episode
	Location  *Location
}

// CharacterItem wraps c as a [FavoriteItem].
func CharacterItem(c Character) FavoriteItem { return FavoriteItem{Kind: KindCharacter, Character: &c} }

// EpisodeItem wraps e as a [FavoriteItem].
func EpisodeItem(e Episode) FavoriteItem { return FavoriteItem{Kind: KindEpisode, Episode: &e} }

// LocationItem wraps l as a [FavoriteItem].
func LocationItem(l Location) FavoriteItem { return FavoriteItem{Kind: KindLocation, Location: &l} }

// ID returns the wrapped record's ID, or 0 for an empty item.
func (i FavoriteItem) ID() int {
	switch {
	case i.Kind == KindCharacter && i.Character != nil:
		return i.Character.ID
	case i.Kind == KindEpisode && i.Episode != nil:
		return i.Episode.ID
	case i.Kind == KindLocation && i.Location != nil:
		return i.Location.ID
	default:
		return 0
	}
}

// Name returns the wrapped record's name.
func (i FavoriteItem) Name() string {
	switch {
	case i.Kind == KindCharacter && i.Character != nil:
		return i.Character.Name
	case i.Kind == KindEpisode && i.Episode != nil:
		return i.Episode.Name
	case i.Kind == KindLocation && i.Location != nil:
		return i.Location.Name
	default:
		return ""
	}
}

// Summary returns a short kind-specific description.
func (i FavoriteItem) Summary() string {
	switch {
	case i.Kind == KindCharacter && i.Character != nil:
		return i.Character.Status + " • " + i.Character.Species
	case i.Kind == KindEpisode && i.Episode != nil:
		return i.Episode.Episode + " • " + i.Episode.AirDate
	case i.Kind == KindLocation && i.Location != nil:
		return i.Location.Type + " • " + i.Location.Dimension
	default:
		return ""
	}
}

// MarshalJSON encodes the item as {"kind": ..., "record": ...}.
func (i FavoriteItem) MarshalJSON() ([]byte, error) {
	var record any
	switch i.Kind {
	case KindCharacter:
		record = i.Character
	case KindEpisode:
		record = i.Episode
	case KindLocation:
		record = i.Location
	}
	return json.Marshal(struct {
		Kind   string `json:"kind"`
		Record any    `json:"record"`
	}{Kind: i.Kind.String(), Record: record})
}

// CharacterItems wraps each character as a [FavoriteItem].
func CharacterItems(cs []Character) []FavoriteItem {
	items := make([]FavoriteItem, 0, len(cs))
	for _, c := range cs {
		items = append(items, CharacterItem(c))
	}
	return items
}

// EpisodeItems wraps each episode as a [FavoriteItem].
func EpisodeItems(es []Episode) []FavoriteItem {
	items := make([]FavoriteItem, 0, len(es))
	for _, e := range es {
		items = append(items, EpisodeItem(e))
	}
	return items
}

// LocationItems wraps each location as a [FavoriteItem].
func LocationItems(ls []Location) []FavoriteItem {
	items := make([]FavoriteItem, 0, len(ls))
	for _, l := range ls {
		items = append(items, LocationItem(l))
	}
	return items
}
