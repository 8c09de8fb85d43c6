package web

import (
	"net/http"

	"github.com/ryanm101/gamehub/internal/catalog"
	"github.com/ryanm101/gamehub/internal/option"
	"github.com/ryanm101/gamehub/internal/view"
)

type gamePage struct {
	Title      string
	Game       view.Detail
	Trailer    option.Value[view.Trailer]
	TrailerErr string
}

// TrailerVideo returns the trailer or nil when there is none.
func (p gamePage) TrailerVideo() *view.Trailer {
	if t, ok := p.Trailer.Get(); ok {
		return &t
	}
	return nil
}

func (s *Server) handleGame(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	src := s.cache.Source()

	d, err := src.Game(ctx, r.PathValue("slug"))
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	page := gamePage{Title: d.Name, Game: view.NewDetail(d)}

	// A failing trailer does not fail the page.
	tr, err := catalog.LoadTrailer(ctx, src, d.ID)
	if err != nil {
		s.log.Warn("trailer fetch failed", "game", d.ID, "error", err)
		page.TrailerErr = err.Error()
	}
	page.Trailer = view.NewTrailer(tr)

	s.render(w, http.StatusOK, "game", page)
}
