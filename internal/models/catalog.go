package models

// Info is the pagination block of a list response.
type Info struct {
	Count int     `json:"count"`
	Pages int     `json:"pages"`
	Next  *string `json:"next"`
	Prev  *string `json:"prev"`
}

// Page is one page of a list response.
type Page[T any] struct {
	Info    Info `json:"info"`
	Results []T  `json:"results"`
}

// HasNext reports whether the upstream advertised a following page.
func (p *Page[T]) HasNext() bool {
	return p != nil && p.Info.Next != nil && *p.Info.Next != ""
}

// HasPrev reports whether the upstream advertised a previous page.
func (p *Page[T]) HasPrev() bool {
	return p != nil && p.Info.Prev != nil && *p.Info.Prev != ""
}

// NamedLink is a name/url reference to another resource.
type NamedLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Character is a catalog character.
type Character struct {
	ID       int       `json:"id"`
	Name     string    `json:"name"`
	Status   string    `json:"status"` // Alive, Dead or unknown
	Species  string    `json:"species"`
	Type     string    `json:"type"`
	Gender   string    `json:"gender"`
	Origin   NamedLink `json:"origin"`
	Location NamedLink `json:"location"`
	Image    string    `json:"image"`
	Episode  []string  `json:"episode"`
	URL      string    `json:"url"`
	Created  string    `json:"created"`
}

// Episode is a catalog episode.
type Episode struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	AirDate    string   `json:"air_date"`
	Episode    string   `json:"episode"` // e.g. S01E01
	Characters []string `json:"characters"`
	URL        string   `json:"url"`
	Created    string   `json:"created"`
}

// Location is a catalog location.
type Location struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Dimension string   `json:"dimension"`
	Residents []string `json:"residents"`
	URL       string   `json:"url"`
	Created   string   `json:"created"`
}
