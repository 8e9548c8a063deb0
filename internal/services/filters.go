package services

import (
	"net/url"
	"strconv"
	"strings"
)

// CharacterFilter narrows a character listing.
type CharacterFilter struct {
	Name    string
	Status  string // alive, dead or unknown
	Species string
}

// EpisodeFilter narrows an episode listing.
type EpisodeFilter struct {
	Name    string
	Episode string // episode code, e.g. S01 or S01E02
}

// LocationFilter narrows a location listing.
type LocationFilter struct {
	Name      string
	Type      string
	Dimension string
}

// Values encodes the filter, omitting empty fields.
func (f CharacterFilter) Values() url.Values {
	return encode("name", f.Name, "status", f.Status, "species", f.Species)
}

// Values encodes the filter, omitting empty fields.
func (f EpisodeFilter) Values() url.Values {
	return encode("name", f.Name, "episode", f.Episode)
}

// Values encodes the filter, omitting empty fields.
func (f LocationFilter) Values() url.Values {
	return encode("name", f.Name, "type", f.Type, "dimension", f.Dimension)
}

func encode(kv ...string) url.Values {
	v := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		if val := strings.TrimSpace(kv[i+1]); val != "" {
			v.Set(kv[i], val)
		}
	}
	return v
}

// pageQuery merges the page number into filter values. Pages below 1 become 1.
func pageQuery(page int, filter url.Values) url.Values {
	if page < 1 {
		page = 1
	}
	q := url.Values{}
	for k, vs := range filter {
		q[k] = vs
	}
	q.Set("page", strconv.Itoa(page))
	return q
}

// joinIDs renders ids as the comma-separated path segment the API expects.
func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
