package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/rmx/internal/models"
	"github.com/desertthunder/rmx/internal/tasks"
)

// Collector resolves a favorites snapshot into records.
type Collector interface {
	Collect(ctx context.Context, ids models.FavoriteIDs, progress chan<- tasks.ProgressUpdate) *tasks.Collection
}

type favoritesResponse struct {
	User     string   `json:"user"`
	Total    int      `json:"total"`
	Items    []entry  `json:"items"`
	Failures []string `json:"failures,omitempty"`
}

type toggleResponse struct {
	Kind     string `json:"kind"`
	ID       int    `json:"id"`
	Favorite bool   `json:"favorite"`
}

// FavoritesHandler lists the session user's favorites and toggles membership.
type FavoritesHandler struct {
	sessions  SessionSource
	favorites Favorites
	collector Collector
	logger    *log.Logger
	gate      Middleware
}

// NewFavoritesHandler creates a [FavoritesHandler]. Listing routes redirect to /login without a session.
func NewFavoritesHandler(sessions SessionSource, favorites Favorites, collector Collector, logger *log.Logger) *FavoritesHandler {
	return &FavoritesHandler{
		sessions:  sessions,
		favorites: favorites,
		collector: collector,
		logger:    logger,
		gate:      RequireSession(sessions),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *FavoritesHandler) Routes() []string {
	return []string{"GET /favorites", "GET /favorites/ids", "POST /favorites/{kind}/{id}"}
}

func (h *FavoritesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost:
		h.toggle(w, r)
	case r.URL.Path == "/favorites/ids":
		h.gate(http.HandlerFunc(h.ids)).ServeHTTP(w, r)
	default:
		h.gate(http.HandlerFunc(h.list)).ServeHTTP(w, r)
	}
}

func (h *FavoritesHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := h.sessions.CurrentUser()

	collection := h.collector.Collect(ctx, h.favorites.AllIDs(ctx), nil)

	resp := favoritesResponse{
		User:  user,
		Total: collection.Len(),
		Items: toEntries(collection.Items(), func(models.FavoriteItem) bool { return true }),
	}
	for _, f := range collection.Failures {
		_, msg := upstreamFailure(f.Error)
		resp.Failures = append(resp.Failures, f.Kind.String()+": "+msg)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *FavoritesHandler) ids(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.favorites.AllIDs(r.Context()))
}

// toggle flips membership. Without a session it answers 401 and nothing changes.
func (h *FavoritesHandler) toggle(w http.ResponseWriter, r *http.Request) {
	kind, err := models.ParseKind(r.PathValue("kind"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "id must be a positive integer")
		return
	}

	if _, active := h.sessions.CurrentUser(); !active {
		writeError(w, http.StatusUnauthorized, "log in to manage favorites")
		return
	}

	ctx := r.Context()
	if err := h.favorites.Toggle(ctx, id, kind); err != nil {
		h.logger.Error("toggle failed", "kind", kind, "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to save favorites")
		return
	}

	writeJSON(w, http.StatusOK, toggleResponse{Kind: kind.String(), ID: id, Favorite: h.favorites.IsFavorite(ctx, id, kind)})
}
