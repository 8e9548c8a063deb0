package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/rmx/internal/models"
)

var (
	_ list.Item = catalogItem{}
)

// catalogItem wraps [models.FavoriteItem] to implement [list.Item].
type catalogItem struct {
	item     models.FavoriteItem
	favorite bool
}

func (i catalogItem) FilterValue() string { return i.item.Name() }
func (i catalogItem) Title() string {
	if i.favorite {
		return styles.fav.Render("★ ") + i.item.Name()
	}
	return "  " + i.item.Name()
}
func (i catalogItem) Description() string {
	return fmt.Sprintf("#%d • %s", i.item.ID(), i.item.Summary())
}

func toListItems(items []models.FavoriteItem, favorite func(models.FavoriteItem) bool) []list.Item {
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = catalogItem{item: it, favorite: favorite(it)}
	}
	return out
}
