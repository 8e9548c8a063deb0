// Package ui implements an interactive catalog browser using bubbletea's Elm architecture.
//
// The TUI has two views:
//  1. [BrowseView] : one page of characters, episodes or locations with favorite markers
//  2. [FavoritesView] : the session user's favorites, resolved through the tasks collector
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Favorite markers refresh whenever the favorites change signal fires; the subscription feeds a one-slot channel
// that a waiting command drains. Session changes arrive the same way and drive the title, favorite access and
// leaving the favorites view on logout.
//
// Keys: n/p paginate, tab cycles kinds, f toggles the selected favorite (session required), v opens favorites,
// r reloads, q quits. Help is rendered with charmbracelet/bubbles/help.
package ui
