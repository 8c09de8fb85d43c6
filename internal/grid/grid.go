// Package grid derives what a game grid shows from a feed snapshot.
package grid

import (
	"github.com/ryanm101/gamehub/internal/catalog"
	"github.com/ryanm101/gamehub/internal/view"
)

// SkeletonCount is the number of placeholder cards shown while the first
// page loads.
const SkeletonCount = 8

// State is the display state of a grid.
type State int

const (
	Empty State = iota
	LoadingFirstPage
	HasData
	LoadingNextPage
	Error
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case LoadingFirstPage:
		return "loading-first-page"
	case HasData:
		return "has-data"
	case LoadingNextPage:
		return "loading-next-page"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// StateOf derives the display state of s. A failed request wins over
// everything else until the query changes or the request is retried.
func StateOf(s catalog.Snapshot) State {
	switch {
	case s.Err != nil:
		return Error
	case len(s.Pages) == 0 && s.Loading:
		return LoadingFirstPage
	case s.Loading:
		return LoadingNextPage
	case s.Len() == 0:
		return Empty
	default:
		return HasData
	}
}

// Grid is the render model of one grid.
type Grid struct {
	Heading    string
	State      State
	Cards      []view.Card
	Skeletons  int
	ShowLoader bool
	HasMore    bool
	Error      string
	Pages      int
	Total      int
}

// Build produces the render model of s.
func Build(s catalog.Snapshot) Grid {
	g := Grid{
		Heading: s.Query.Heading(),
		State:   StateOf(s),
		Cards:   view.Cards(s.Games()),
		HasMore: s.HasMore,
		Pages:   len(s.Pages),
	}
	g.Total = len(g.Cards)

	switch g.State {
	case LoadingFirstPage:
		g.Skeletons = SkeletonCount
	case LoadingNextPage:
		g.ShowLoader = true
	case HasData:
		g.ShowLoader = s.HasMore
	case Error:
		g.Error = s.Err.Error()
	}
	return g
}

// CardsAfter returns the cards of the pages after the first n, for clients
// that already hold n pages. Cards repeated from earlier pages are dropped.
func CardsAfter(s catalog.Snapshot, n int) []view.Card {
	if n < 0 {
		n = 0
	}
	if n >= len(s.Pages) {
		return nil
	}
	held := catalog.Snapshot{Pages: s.Pages[:n]}
	all := view.Cards(s.Games())
	return all[len(view.Cards(held.Games())):]
}
