package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/rmx/internal/identity"
	"github.com/desertthunder/rmx/internal/models"
	"github.com/desertthunder/rmx/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgPageFetched MsgKind = iota
	MsgFavoritesCollected
	MsgFavoriteToggled
	MsgFavoritesChanged
	MsgSessionChanged
)

type pageData struct {
	kind    models.Kind
	page    int
	items   []models.FavoriteItem
	hasNext bool
	hasPrev bool
	err     error
}

type toggleData struct {
	item models.FavoriteItem
	err  error
}

// pageFetchedMsg is the constructor for [MsgPageFetched]
func pageFetchedMsg(d pageData) Msg {
	return Msg{kind: MsgPageFetched, data: d}
}

// favoritesCollectedMsg is the constructor for [MsgFavoritesCollected]
func favoritesCollectedMsg(c *tasks.Collection) Msg {
	return Msg{kind: MsgFavoritesCollected, data: c}
}

// favoriteToggledMsg is the constructor for [MsgFavoriteToggled]
func favoriteToggledMsg(item models.FavoriteItem, err error) Msg {
	return Msg{kind: MsgFavoriteToggled, data: toggleData{item: item, err: err}}
}

// favoritesChangedMsg is the constructor for [MsgFavoritesChanged]
func favoritesChangedMsg() Msg {
	return Msg{kind: MsgFavoritesChanged}
}

// sessionChangedMsg is the constructor for [MsgSessionChanged]
func sessionChangedMsg(sess identity.Session) Msg {
	return Msg{kind: MsgSessionChanged, data: sess}
}
