package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/ryanm101/gamehub/internal/catalog"
	"github.com/ryanm101/gamehub/internal/game"
	"github.com/ryanm101/gamehub/internal/grid"
)

type indexPage struct {
	Title string
	Form  queryForm
	Grid  gridData
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	form := s.loadForm(ctx)

	q, err := parseQuery(r.URL.Query(), form.Genres, form.Platforms)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	form.fill(q)

	id, v, err := s.views.Open(q)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	waitCtx, cancel := context.WithTimeout(ctx, s.firstPageWait)
	snap, err := v.Await(waitCtx)
	cancel()
	if err != nil && !isWaitError(err) {
		// Rendered inline by the grid.
		s.log.Warn("first page failed", "query", string(q.Key()), "error", err)
	}

	s.render(w, http.StatusOK, "index", indexPage{
		Title: q.Heading(),
		Form:  form,
		Grid:  gridData{ViewID: id, Grid: grid.Build(snap)},
	})
}

// loadForm fetches the filter lists. Failures leave the lists empty and
// show a notice; the grid still works without them.
func (s *Server) loadForm(ctx context.Context) queryForm {
	form := queryForm{SortOrders: game.SortOrders}
	if s.ref == nil {
		return form
	}

	genres, err := s.ref.Genres(ctx)
	if err != nil {
		s.log.Warn("loading genres failed", "error", err)
		form.Notice = "Genres are unavailable: " + err.Error()
	}
	platforms, err := s.ref.ParentPlatforms(ctx)
	if err != nil {
		s.log.Warn("loading platforms failed", "error", err)
		form.Notice = "Platforms are unavailable: " + err.Error()
	}
	form.Genres = genres
	form.Platforms = platforms
	return form
}

func (f *queryForm) fill(q game.Query) {
	if g, ok := q.Genre.Get(); ok {
		f.Genre = g.ID
	}
	if p, ok := q.Platform.Get(); ok {
		f.Platform = p.ID
	}
	f.Ordering = q.SortOrder
	f.Search = q.SearchText
}

// lookupView resolves the view parameter.
func (s *Server) lookupView(r *http.Request) (string, *catalog.View, error) {
	id := r.URL.Query().Get("view")
	if id == "" {
		return "", nil, errBadRequest
	}
	v, ok := s.views.Get(id)
	if !ok {
		return "", nil, errViewGone
	}
	return id, v, nil
}

// fragmentError answers fragment requests that cannot render a grid.
func (s *Server) fragmentError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	http.Error(w, err.Error(), status)
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	id, v, err := s.lookupView(r)
	if err != nil {
		s.fragmentError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.fragmentWait)
	defer cancel()
	snap, err := v.Await(ctx)
	if errors.Is(err, catalog.ErrClosed) {
		s.fragmentError(w, errViewGone)
		return
	}

	s.render(w, http.StatusOK, "grid", gridData{ViewID: id, Grid: grid.Build(snap)})
}

// handleGridNext is the scroll trigger. have is the number of pages the
// client already shows. A client that is behind receives the pages it is
// missing without a new request; a client that is current fetches the next
// page, joining the request in flight if there is one.
func (s *Server) handleGridNext(w http.ResponseWriter, r *http.Request) {
	id, v, err := s.lookupView(r)
	if err != nil {
		s.fragmentError(w, err)
		return
	}
	have, err := strconv.Atoi(r.URL.Query().Get("have"))
	if err != nil || have < 0 {
		s.fragmentError(w, errBadRequest)
		return
	}

	snap := v.Snapshot()
	if have >= len(snap.Pages) && snap.Err == nil && (snap.HasMore || snap.Loading) {
		ctx, cancel := context.WithTimeout(r.Context(), s.fragmentWait)
		defer cancel()
		snap, err = v.FetchNext(ctx)
		switch {
		case errors.Is(err, catalog.ErrStaleQuery), errors.Is(err, catalog.ErrClosed):
			s.fragmentError(w, catalog.ErrStaleQuery)
			return
		case err != nil && !isWaitError(err):
			s.log.Warn("next page failed", "view", id, "error", err)
		}
	}

	s.render(w, http.StatusOK, "more", moreData{
		Grid:     gridData{ViewID: id, Grid: grid.Build(snap)},
		NewCards: grid.CardsAfter(snap, have),
	})
}

func (s *Server) handleGridRetry(w http.ResponseWriter, r *http.Request) {
	id, v, err := s.lookupView(r)
	if err != nil {
		s.fragmentError(w, err)
		return
	}

	v.Retry()
	ctx, cancel := context.WithTimeout(r.Context(), s.fragmentWait)
	defer cancel()
	snap, err := v.Await(ctx)
	if err != nil && !isWaitError(err) {
		s.log.Warn("retry failed", "view", id, "error", err)
	}

	s.render(w, http.StatusOK, "grid", gridData{ViewID: id, Grid: grid.Build(snap)})
}

// isWaitError reports errors that only mean the wait was cut short.
func isWaitError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
