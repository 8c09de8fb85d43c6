// Package tui is a terminal front end for browsing the catalog.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ryanm101/gamehub/internal/catalog"
	"github.com/ryanm101/gamehub/internal/game"
	"github.com/ryanm101/gamehub/internal/grid"
	"github.com/ryanm101/gamehub/internal/option"
	"github.com/ryanm101/gamehub/internal/view"
)

// Reference provides the lists the genre and platform keys cycle through.
type Reference interface {
	Genres(ctx context.Context) ([]game.Genre, error)
	ParentPlatforms(ctx context.Context) ([]game.Platform, error)
}

// Run shows the catalog for q until the user quits or ctx ends.
func Run(ctx context.Context, cache *catalog.Cache, ref Reference, q game.Query) error {
	v, err := cache.NewView(q)
	if err != nil {
		return err
	}
	defer v.Close()

	p := tea.NewProgram(newModel(ctx, cache, v, ref), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Messages
type snapshotMsg struct {
	snap catalog.Snapshot
	err  error
}

type referenceMsg struct {
	genres    []game.Genre
	platforms []game.Platform
	err       error
}

type trailerMsg struct {
	gameID  int
	name    string
	trailer option.Value[view.Trailer]
	err     error
}

type model struct {
	ctx   context.Context
	cache *catalog.Cache
	view  *catalog.View
	ref   Reference

	snap    catalog.Snapshot
	grid    grid.Grid
	cursor  int
	trigger grid.ScrollTrigger

	genres      []game.Genre
	platforms   []game.Platform
	genreIdx    int // -1: all genres
	platformIdx int // -1: all platforms
	orderIdx    int

	searching bool
	search    textinput.Model
	spinner   spinner.Model

	width     int
	height    int
	showHelp  bool
	statusMsg string
	trailer   string
}

func newModel(ctx context.Context, cache *catalog.Cache, v *catalog.View, ref Reference) model {
	ti := textinput.New()
	ti.Placeholder = "Search games..."
	ti.CharLimit = 100

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := model{
		ctx:         ctx,
		cache:       cache,
		view:        v,
		ref:         ref,
		genreIdx:    -1,
		platformIdx: -1,
		search:      ti,
		spinner:     sp,
	}

	q := v.Query()
	m.search.SetValue(q.SearchText)
	for i, o := range game.SortOrders {
		if o.Value == q.SortOrder {
			m.orderIdx = i
		}
	}
	if g, ok := q.Genre.Get(); ok {
		m.genres = []game.Genre{g}
		m.genreIdx = 0
	}
	if p, ok := q.Platform.Get(); ok {
		m.platforms = []game.Platform{p}
		m.platformIdx = 0
	}
	m.setSnapshot(v.Snapshot())
	return m
}

// Init starts waiting for the first page.
func (m model) Init() tea.Cmd {
	return tea.Batch(m.awaitFeed(), m.loadReference(), m.spinner.Tick)
}

func (m *model) setSnapshot(s catalog.Snapshot) {
	m.snap = s
	m.grid = grid.Build(s)
	if m.cursor >= len(m.grid.Cards) {
		m.cursor = max(len(m.grid.Cards)-1, 0)
	}
}

// query builds the query selected by the filter keys.
func (m model) query() game.Query {
	var q game.Query
	if m.genreIdx >= 0 && m.genreIdx < len(m.genres) {
		q.Genre = option.Some(m.genres[m.genreIdx])
	}
	if m.platformIdx >= 0 && m.platformIdx < len(m.platforms) {
		q.Platform = option.Some(m.platforms[m.platformIdx])
	}
	q.SortOrder = game.SortOrders[m.orderIdx].Value
	q.SearchText = m.search.Value()
	return q
}

// Update handles messages
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case snapshotMsg:
		if errors.Is(msg.err, catalog.ErrClosed) {
			return m, tea.Quit
		}
		if msg.snap.Query.Key() != m.view.Query().Key() {
			// Issued for a query replaced since; applyQuery already
			// waits on the current one.
			return m, nil
		}
		m.setSnapshot(msg.snap)
		if errors.Is(msg.err, catalog.ErrStaleQuery) {
			// The query changed while waiting; follow the new feed.
			return m, m.awaitFeed()
		}
		// A page that arrives while the cursor sits near the end may
		// warrant another.
		cmd := m.observe()
		return m, cmd

	case referenceMsg:
		if msg.err != nil {
			m.statusMsg = "Filters unavailable: " + msg.err.Error()
		}
		if len(msg.genres) > 0 {
			m.genres, m.genreIdx = mergeGenres(msg.genres, m.genres, m.genreIdx)
		}
		if len(msg.platforms) > 0 {
			m.platforms, m.platformIdx = mergePlatforms(msg.platforms, m.platforms, m.platformIdx)
		}

	case trailerMsg:
		switch {
		case msg.err != nil:
			m.trailer = fmt.Sprintf("%s: trailer unavailable: %v", msg.name, msg.err)
		case msg.trailer.IsPresent():
			t, _ := msg.trailer.Get()
			if t.Playable() {
				m.trailer = fmt.Sprintf("%s: %s", msg.name, t.Src)
			} else {
				m.trailer = fmt.Sprintf("%s: watch at %s", msg.name, t.Link)
			}
		default:
			m.trailer = msg.name + ": no trailer"
		}

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		cmd := m.applyQuery()
		return m, cmd
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue(m.snap.Query.SearchText)
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "?" {
		m.showHelp = !m.showHelp
		return m, nil
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "/":
		m.searching = true
		cmd := m.search.Focus()
		return m, cmd

	case "j", "down":
		if m.cursor < len(m.grid.Cards)-1 {
			m.cursor++
		}
		cmd := m.observe()
		return m, cmd

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		cmd := m.observe()
		return m, cmd

	case "G", "end":
		m.cursor = max(len(m.grid.Cards)-1, 0)
		cmd := m.observe()
		return m, cmd

	case "o":
		m.orderIdx = (m.orderIdx + 1) % len(game.SortOrders)
		cmd := m.applyQuery()
		return m, cmd

	case "g":
		m.genreIdx = cycle(m.genreIdx, len(m.genres))
		cmd := m.applyQuery()
		return m, cmd

	case "p":
		m.platformIdx = cycle(m.platformIdx, len(m.platforms))
		cmd := m.applyQuery()
		return m, cmd

	case "r":
		if m.view.Retry() {
			m.setSnapshot(m.view.Snapshot())
			m.statusMsg = "Retrying..."
			return m, m.awaitFeed()
		}

	case "enter":
		if m.cursor < len(m.grid.Cards) {
			c := m.grid.Cards[m.cursor]
			m.trailer = c.Name + ": loading trailer..."
			return m, m.loadTrailer(c.ID, c.Name)
		}
	}

	return m, nil
}

// cycle steps through -1 (none) and the n list entries.
func cycle(i, n int) int {
	if n == 0 {
		return -1
	}
	i++
	if i >= n {
		return -1
	}
	return i
}

// applyQuery switches the view to the selected query.
func (m *model) applyQuery() tea.Cmd {
	changed, err := m.view.SetQuery(m.query())
	if err != nil {
		m.statusMsg = "Error: " + err.Error()
		return nil
	}
	if !changed {
		return nil
	}
	m.cursor = 0
	m.trigger.Reset()
	m.trailer = ""
	m.statusMsg = ""
	m.setSnapshot(m.view.Snapshot())
	return m.awaitFeed()
}

// observe feeds the cursor position to the scroll trigger and requests the
// next page when it fires.
func (m *model) observe() tea.Cmd {
	distance := len(m.grid.Cards) - 1 - m.cursor
	if !m.trigger.Observe(distance, m.snap) {
		return nil
	}
	if !m.view.RequestNext() {
		return nil
	}
	m.setSnapshot(m.view.Snapshot())
	return m.awaitFeed()
}

func (m model) awaitFeed() tea.Cmd {
	v, ctx := m.view, m.ctx
	return func() tea.Msg {
		s, err := v.Await(ctx)
		return snapshotMsg{snap: s, err: err}
	}
}

func (m model) loadReference() tea.Cmd {
	if m.ref == nil {
		return nil
	}
	ref, ctx := m.ref, m.ctx
	return func() tea.Msg {
		genres, gerr := ref.Genres(ctx)
		platforms, perr := ref.ParentPlatforms(ctx)
		return referenceMsg{genres: genres, platforms: platforms, err: errors.Join(gerr, perr)}
	}
}

func (m model) loadTrailer(id int, name string) tea.Cmd {
	src, ctx := m.cache.Source(), m.ctx
	return func() tea.Msg {
		tr, err := catalog.LoadTrailer(ctx, src, id)
		return trailerMsg{gameID: id, name: name, trailer: view.NewTrailer(tr), err: err}
	}
}

// mergeGenres replaces the provisional list with the full one, keeping
// the selection.
func mergeGenres(full, cur []game.Genre, idx int) ([]game.Genre, int) {
	if idx < 0 || idx >= len(cur) {
		return full, -1
	}
	for i, g := range full {
		if g.ID == cur[idx].ID {
			return full, i
		}
	}
	return append(full[:len(full):len(full)], cur[idx]), len(full)
}

func mergePlatforms(full, cur []game.Platform, idx int) ([]game.Platform, int) {
	if idx < 0 || idx >= len(cur) {
		return full, -1
	}
	for i, p := range full {
		if p.ID == cur[idx].ID {
			return full, i
		}
	}
	return append(full[:len(full):len(full)], cur[idx]), len(full)
}
