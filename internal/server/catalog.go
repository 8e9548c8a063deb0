package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/rmx/internal/models"
	"github.com/desertthunder/rmx/internal/services"
)

// Favorites is the part of the favorites store the HTTP layer drives.
type Favorites interface {
	Toggle(ctx context.Context, id int, kind models.Kind) error
	IsFavorite(ctx context.Context, id int, kind models.Kind) bool
	AllIDs(ctx context.Context) models.FavoriteIDs
}

// entry is one listed record with its favorite marker.
type entry struct {
	Kind     string `json:"kind"`
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Summary  string `json:"summary"`
	Favorite bool   `json:"favorite"`
	Record   any    `json:"record"`
}

type listResponse struct {
	Kind    string       `json:"kind"`
	Page    int          `json:"page"`
	Info    *models.Info `json:"info,omitempty"`
	HasNext bool         `json:"has_next"`
	HasPrev bool         `json:"has_prev"`
	Results []entry      `json:"results"`
	Error   string       `json:"error,omitempty"`
}

// CatalogHandler serves the paginated, filterable listings.
type CatalogHandler struct {
	catalog   services.Catalog
	favorites Favorites
	logger    *log.Logger
}

// NewCatalogHandler creates a [CatalogHandler].
func NewCatalogHandler(catalog services.Catalog, favorites Favorites, logger *log.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, favorites: favorites, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *CatalogHandler) Routes() []string {
	return []string{"GET /characters", "GET /episodes", "GET /locations"}
}

func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	page := pageParam(r)

	var (
		kind  models.Kind
		items []models.FavoriteItem
		info  *models.Info
		next  bool
		prev  bool
		err   error
	)

	switch r.URL.Path {
	case "/characters":
		kind = models.KindCharacter
		var p *models.Page[models.Character]
		p, err = h.catalog.Characters(ctx, page, services.CharacterFilter{
			Name: q.Get("name"), Status: q.Get("status"), Species: q.Get("species"),
		})
		if err == nil {
			items, info, next, prev = models.CharacterItems(p.Results), &p.Info, p.HasNext(), p.HasPrev()
		}
	case "/episodes":
		kind = models.KindEpisode
		var p *models.Page[models.Episode]
		p, err = h.catalog.Episodes(ctx, page, services.EpisodeFilter{
			Name: q.Get("name"), Episode: q.Get("episode"),
		})
		if err == nil {
			items, info, next, prev = models.EpisodeItems(p.Results), &p.Info, p.HasNext(), p.HasPrev()
		}
	case "/locations":
		kind = models.KindLocation
		var p *models.Page[models.Location]
		p, err = h.catalog.Locations(ctx, page, services.LocationFilter{
			Name: q.Get("name"), Type: q.Get("type"), Dimension: q.Get("dimension"),
		})
		if err == nil {
			items, info, next, prev = models.LocationItems(p.Results), &p.Info, p.HasNext(), p.HasPrev()
		}
	default:
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	resp := listResponse{Kind: kind.String(), Page: page, Results: []entry{}}
	if err != nil {
		status, msg := upstreamFailure(err)
		h.logger.Warn("catalog listing failed", "kind", kind, "page", page, "err", err)
		resp.Error = msg
		writeJSON(w, status, resp)
		return
	}

	resp.Info, resp.HasNext, resp.HasPrev = info, next, prev
	resp.Results = h.entries(ctx, items)
	writeJSON(w, http.StatusOK, resp)
}

func (h *CatalogHandler) entries(ctx context.Context, items []models.FavoriteItem) []entry {
	return toEntries(items, func(item models.FavoriteItem) bool {
		return h.favorites.IsFavorite(ctx, item.ID(), item.Kind)
	})
}

func toEntries(items []models.FavoriteItem, favorite func(models.FavoriteItem) bool) []entry {
	out := make([]entry, 0, len(items))
	for _, item := range items {
		e := entry{
			Kind:     item.Kind.String(),
			ID:       item.ID(),
			Name:     item.Name(),
			Summary:  item.Summary(),
			Favorite: favorite(item),
		}
		switch item.Kind {
		case models.KindCharacter:
			e.Record = item.Character
		case models.KindEpisode:
			e.Record = item.Episode
		case models.KindLocation:
			e.Record = item.Location
		}
		out = append(out, e)
	}
	return out
}

// upstreamFailure maps a catalog error to a response status and display message.
func upstreamFailure(err error) (int, string) {
	var upstream *services.UpstreamError
	if errors.As(err, &upstream) && upstream.IsNotFound() {
		return http.StatusNotFound, upstream.DisplayMessage()
	}
	return http.StatusBadGateway, services.DisplayMessage(err)
}
