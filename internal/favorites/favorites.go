// Package favorites keeps per-user sets of favorited catalog IDs.
//
// The favorites document ([models.FavoritesMap]) lives under [repositories.FavoritesKey] and is keyed by
// the email of the active session taken from [SessionSource]. Every mutation re-reads the persisted
// document, flips one membership and writes the whole document back.
//
// Calls made without an active session are no-ops that report empty state. This is a contract:
// views are expected to gate favorites behind login, and a session-less toggle is not an error.
package favorites

import (
	"context"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/rmx/internal/events"
	"github.com/desertthunder/rmx/internal/models"
	"github.com/desertthunder/rmx/internal/repositories"
)

// SessionSource yields the active user. Implemented by *identity.Store.
type SessionSource interface {
	CurrentUser() (email string, active bool)
}

// Store exposes toggle and query operations over the favorites document.
type Store struct {
	kv       repositories.Store
	sessions SessionSource
	logger   *log.Logger
	mu       sync.Mutex
	changes  *events.Signal
}

// New creates a favorites [Store].
func New(kv repositories.Store, sessions SessionSource, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{
		kv:       kv,
		sessions: sessions,
		logger:   logger.With("component", "favorites"),
		changes:  events.NewSignal(),
	}
}

// load reads the favorites document. A missing or corrupted document reads as empty.
func (s *Store) load(ctx context.Context) (models.FavoritesMap, error) {
	all := models.FavoritesMap{}
	found, err := repositories.LoadJSON(ctx, s.kv, repositories.FavoritesKey, &all)
	if err != nil {
		return nil, err
	}
	if !found || all == nil {
		return models.FavoritesMap{}, nil
	}
	return all, nil
}

// Toggle adds id to the current user's set for kind, or removes it if present.
//
// Without an active session nothing is read, written or signalled.
func (s *Store) Toggle(ctx context.Context, id int, kind models.Kind) error {
	email, active := s.sessions.CurrentUser()
	if !active {
		s.logger.Debug("toggle ignored without session", "id", id, "kind", kind)
		return nil
	}

	s.mu.Lock()
	all, err := s.load(ctx)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	entry, ok := all[email]
	if !ok {
		entry = models.EmptyFavoriteIDs()
	}

	ids := entry.Of(kind)
	if ids == nil {
		ids = []int{}
	}

	added := false
	if i := slices.Index(ids, id); i >= 0 {
		ids = slices.Delete(ids, i, i+1)
	} else {
		ids = append(ids, id)
		added = true
	}
	all[email] = entry.With(kind, ids).Clone()

	if err := repositories.SaveJSON(ctx, s.kv, repositories.FavoritesKey, all); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.logger.Debug("toggled favorite", "email", email, "kind", kind, "id", id, "added", added)
	s.changes.Fire()
	return nil
}

// IsFavorite reports whether id is in the current user's set for kind. False without a session.
func (s *Store) IsFavorite(ctx context.Context, id int, kind models.Kind) bool {
	return slices.Contains(s.AllIDs(ctx).Of(kind), id)
}

// AllIDs returns a snapshot of the current user's three sets. Empty sets without a session.
//
// Storage failures are logged and read as empty.
func (s *Store) AllIDs(ctx context.Context) models.FavoriteIDs {
	email, active := s.sessions.CurrentUser()
	if !active {
		return models.EmptyFavoriteIDs()
	}

	s.mu.Lock()
	all, err := s.load(ctx)
	s.mu.Unlock()
	if err != nil {
		s.logger.Warn("failed to read favorites", "err", err)
		return models.EmptyFavoriteIDs()
	}

	entry, ok := all[email]
	if !ok {
		return models.EmptyFavoriteIDs()
	}
	return entry.Clone()
}

// Changes returns the content-less change signal, fired after every persisted toggle.
func (s *Store) Changes() *events.Signal {
	return s.changes
}
