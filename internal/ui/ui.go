package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/rmx/internal/events"
	"github.com/desertthunder/rmx/internal/identity"
	"github.com/desertthunder/rmx/internal/models"
	"github.com/desertthunder/rmx/internal/services"
	"github.com/desertthunder/rmx/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	BrowseView ViewState = iota
	FavoritesView
)

// Favorites is the part of the favorites store the TUI drives.
type Favorites interface {
	Toggle(ctx context.Context, id int, kind models.Kind) error
	IsFavorite(ctx context.Context, id int, kind models.Kind) bool
	AllIDs(ctx context.Context) models.FavoriteIDs
	Changes() *events.Signal
}

// Sessions exposes the session subject the TUI follows for its title and favorite access.
type Sessions interface {
	Sessions() *events.Subject[identity.Session]
}

// Deps holds the collaborators of [Model].
type Deps struct {
	Catalog   services.Catalog
	Favorites Favorites
	Sessions  Sessions
	Collector *tasks.Collector
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	deps     Deps
	view     ViewState
	kind     models.Kind
	page     int
	hasNext  bool
	hasPrev  bool
	loading  bool
	items    []models.FavoriteItem
	favItems []models.FavoriteItem
	browse   list.Model
	favList  list.Model
	status   string
	err      string
	width    int
	height   int
	help     help.Model
	keys     keyMap
	session  identity.Session

	changes     chan struct{}
	unsubscribe func()

	sessionCh          chan identity.Session
	unsubscribeSession func()
}

// NewModel creates a new TUI model browsing characters from page 1.
//
// The model subscribes to favorite and session changes; call [Model.Close] when the program exits.
func NewModel(ctx context.Context, deps Deps) *Model {
	m := &Model{
		ctx:     ctx,
		deps:    deps,
		view:    BrowseView,
		kind:    models.KindCharacter,
		page:    1,
		browse:  newList(),
		favList: newList(),
		help:    help.New(),
		keys:    newKeyMap(),
		changes: make(chan struct{}, 1),

		sessionCh: make(chan identity.Session, 1),
	}

	m.unsubscribe = deps.Favorites.Changes().Subscribe(func() {
		select {
		case m.changes <- struct{}{}:
		default:
		}
	})

	// Only the latest session matters, so a pending one is replaced.
	m.unsubscribeSession = deps.Sessions.Sessions().Subscribe(func(sess identity.Session) {
		select {
		case <-m.sessionCh:
		default:
		}
		select {
		case m.sessionCh <- sess:
		default:
		}
	})
	// Subscribe replays the current session; take it now so the first frame is correct.
	select {
	case m.session = <-m.sessionCh:
	default:
	}

	return m
}

func newList() list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	return l
}

// Close releases the favorites and session subscriptions.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	if m.unsubscribeSession != nil {
		m.unsubscribeSession()
		m.unsubscribeSession = nil
	}
}

// Init fetches the first page and starts listening for favorite and session changes.
func (m *Model) Init() tea.Cmd {
	m.loading = true
	return tea.Batch(m.fetchPage(m.kind, m.page), m.waitForChange(), m.waitForSession())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.browse.SetSize(msg.Width-4, msg.Height-8)
		m.favList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		if m.view == FavoritesView {
			return m.handleFavoritesKeys(msg)
		}
		return m.handleBrowseKeys(msg)

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgPageFetched:
		d := msg.data.(pageData)
		if d.kind != m.kind || d.page != m.page {
			return m, nil
		}
		m.loading = false
		m.hasNext, m.hasPrev = d.hasNext, d.hasPrev
		if d.err != nil {
			m.items = nil
			m.err = services.DisplayMessage(d.err)
		} else {
			m.items = d.items
			m.err = ""
		}
		m.refreshBrowse()
		return m, nil

	case MsgFavoritesCollected:
		c := msg.data.(*tasks.Collection)
		m.loading = false
		m.favItems = c.Items()
		m.err = ""
		if len(c.Failures) > 0 {
			kinds := make([]string, 0, len(c.Failures))
			for _, f := range c.Failures {
				kinds = append(kinds, f.Kind.String())
			}
			m.err = "Could not load " + strings.Join(kinds, ", ")
		}
		m.favList.SetItems(toListItems(m.favItems, func(models.FavoriteItem) bool { return true }))
		return m, nil

	case MsgFavoriteToggled:
		d := msg.data.(toggleData)
		if d.err != nil {
			m.status = fmt.Sprintf("Failed to save favorite: %v", d.err)
			return m, nil
		}
		if m.deps.Favorites.IsFavorite(m.ctx, d.item.ID(), d.item.Kind) {
			m.status = fmt.Sprintf("★ Added %s", d.item.Name())
		} else {
			m.status = fmt.Sprintf("Removed %s", d.item.Name())
		}
		return m, nil

	case MsgFavoritesChanged:
		m.refreshBrowse()
		var cmd tea.Cmd
		if m.view == FavoritesView {
			cmd = m.collectFavorites()
		}
		return m, tea.Batch(cmd, m.waitForChange())

	case MsgSessionChanged:
		prev := m.session
		m.session = msg.data.(identity.Session)
		m.refreshBrowse()

		var cmd tea.Cmd
		switch {
		case !m.session.Active && m.view == FavoritesView:
			m.view = BrowseView
			m.favItems = nil
			m.favList.SetItems(nil)
			m.err = ""
			m.status = "Logged out; favorites closed"
		case !m.session.Active && prev.Active:
			m.status = "Logged out"
		case m.session.Active && m.session != prev:
			m.status = "Logged in as " + m.session.Email
			if m.view == FavoritesView {
				cmd = m.collectFavorites()
			}
		}
		return m, tea.Batch(cmd, m.waitForSession())
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var b strings.Builder

	switch m.view {
	case FavoritesView:
		b.WriteString(styles.title.Render(fmt.Sprintf("Favorites of %s", m.session.Email)))
		b.WriteString("\n")
		switch {
		case m.loading:
			b.WriteString("Loading favorites...\n")
		case len(m.favItems) == 0:
			b.WriteString(styles.help.Render("No favorites yet. Press f on an item to add one."))
			b.WriteString("\n")
		default:
			b.WriteString(m.favList.View())
			b.WriteString("\n")
		}
	default:
		b.WriteString(styles.title.Render(m.browseTitle()))
		b.WriteString("\n")
		switch {
		case m.loading:
			b.WriteString("Loading...\n")
		case m.err == "" && len(m.items) == 0:
			b.WriteString(styles.help.Render("No results."))
			b.WriteString("\n")
		case len(m.items) > 0:
			b.WriteString(m.browse.View())
			b.WriteString("\n")
		}
	}

	if m.err != "" {
		b.WriteString(styles.err.Render(m.err))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(styles.ok.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	return b.String()
}

func (m *Model) browseTitle() string {
	title := fmt.Sprintf("%s • page %d", strings.ToUpper(m.kind.String()[:1])+m.kind.String()[1:], m.page)
	if m.session.Active {
		title += " • " + m.session.Email
	}
	return title
}

func (m *Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "n":
		if !m.hasNext || m.loading {
			return m, nil
		}
		return m, m.goTo(m.kind, m.page+1)
	case "p":
		if !m.hasPrev || m.loading {
			return m, nil
		}
		return m, m.goTo(m.kind, m.page-1)
	case "tab":
		next := models.Kinds[(int(m.kind)+1)%len(models.Kinds)]
		return m, m.goTo(next, 1)
	case "r":
		return m, m.goTo(m.kind, m.page)
	case "f":
		selected, ok := m.browse.SelectedItem().(catalogItem)
		if !ok {
			return m, nil
		}
		return m, m.toggle(selected.item)
	case "v":
		if !m.session.Active {
			m.status = "Log in to see favorites (rmx auth login)"
			return m, nil
		}
		m.view = FavoritesView
		m.status = ""
		return m, m.collectFavorites()
	}

	var cmd tea.Cmd
	m.browse, cmd = m.browse.Update(msg)
	return m, cmd
}

func (m *Model) handleFavoritesKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "v":
		m.view = BrowseView
		m.err = ""
		return m, m.goTo(m.kind, m.page)
	case "f":
		selected, ok := m.favList.SelectedItem().(catalogItem)
		if !ok {
			return m, nil
		}
		return m, m.toggle(selected.item)
	}

	var cmd tea.Cmd
	m.favList, cmd = m.favList.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case BrowseView:
		m.browse, cmd = m.browse.Update(msg)
	case FavoritesView:
		m.favList, cmd = m.favList.Update(msg)
	}
	return m, cmd
}

func (m *Model) goTo(kind models.Kind, page int) tea.Cmd {
	m.kind = kind
	m.page = page
	m.loading = true
	m.status = ""
	return m.fetchPage(kind, page)
}

func (m *Model) refreshBrowse() {
	m.browse.SetItems(toListItems(m.items, func(it models.FavoriteItem) bool {
		return m.deps.Favorites.IsFavorite(m.ctx, it.ID(), it.Kind)
	}))
}

// toggle flips the favorite on a background command. Without a session it only sets a status line.
func (m *Model) toggle(item models.FavoriteItem) tea.Cmd {
	if !m.session.Active {
		m.status = "Log in to manage favorites (rmx auth login)"
		return nil
	}
	return func() tea.Msg {
		err := m.deps.Favorites.Toggle(m.ctx, item.ID(), item.Kind)
		return favoriteToggledMsg(item, err)
	}
}

func (m *Model) fetchPage(kind models.Kind, page int) tea.Cmd {
	catalog := m.deps.Catalog
	ctx := m.ctx
	return func() tea.Msg {
		d := pageData{kind: kind, page: page}
		switch kind {
		case models.KindCharacter:
			p, err := catalog.Characters(ctx, page, services.CharacterFilter{})
			if d.err = err; err == nil {
				d.items, d.hasNext, d.hasPrev = models.CharacterItems(p.Results), p.HasNext(), p.HasPrev()
			}
		case models.KindEpisode:
			p, err := catalog.Episodes(ctx, page, services.EpisodeFilter{})
			if d.err = err; err == nil {
				d.items, d.hasNext, d.hasPrev = models.EpisodeItems(p.Results), p.HasNext(), p.HasPrev()
			}
		case models.KindLocation:
			p, err := catalog.Locations(ctx, page, services.LocationFilter{})
			if d.err = err; err == nil {
				d.items, d.hasNext, d.hasPrev = models.LocationItems(p.Results), p.HasNext(), p.HasPrev()
			}
		}
		return pageFetchedMsg(d)
	}
}

func (m *Model) collectFavorites() tea.Cmd {
	m.loading = true
	ids := m.deps.Favorites.AllIDs(m.ctx)
	collector := m.deps.Collector
	ctx := m.ctx
	return func() tea.Msg {
		return favoritesCollectedMsg(collector.Collect(ctx, ids, nil))
	}
}

// waitForChange blocks until the favorites signal fires.
func (m *Model) waitForChange() tea.Cmd {
	changes := m.changes
	ctx := m.ctx
	return func() tea.Msg {
		select {
		case <-changes:
			return favoritesChangedMsg()
		case <-ctx.Done():
			return nil
		}
	}
}

// waitForSession blocks until the session subject publishes.
func (m *Model) waitForSession() tea.Cmd {
	sessions := m.sessionCh
	ctx := m.ctx
	return func() tea.Msg {
		select {
		case sess := <-sessions:
			return sessionChangedMsg(sess)
		case <-ctx.Done():
			return nil
		}
	}
}
