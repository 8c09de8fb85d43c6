package web

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ryanm101/gamehub/internal/catalog"
	"github.com/ryanm101/gamehub/internal/game"
	"github.com/ryanm101/gamehub/internal/view"
)

// maxAPIPage bounds how deep the API pages through a query.
const maxAPIPage = 50

type apiGamesResponse struct {
	Query   string      `json:"query"`
	Page    int         `json:"page"`
	HasMore bool        `json:"has_more"`
	Count   int         `json:"count"`
	Results []game.Game `json:"results"`
}

type apiError struct {
	Error string `json:"error"`
	Class string `json:"class,omitempty"`
}

type apiTrailer struct {
	Name   string `json:"name"`
	Src    string `json:"src,omitempty"`
	Link   string `json:"link,omitempty"`
	Poster string `json:"poster"`
}

func (s *Server) apiError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Warn("api request failed", "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, apiError{Error: err.Error(), Class: classOf(err)})
}

// handleAPIGames returns one page of a query. Pages come from the shared
// view of the query, which stays open for the view TTL, so walking page by
// page costs one upstream call per new page.
func (s *Server) handleAPIGames(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r.URL.Query(), nil, nil)
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 || page > maxAPIPage {
			s.apiError(w, r, fmt.Errorf("%w: page must be between 1 and %d", errBadRequest, maxAPIPage))
			return
		}
	}

	v, err := s.views.Shared(q)
	if err != nil {
		s.apiError(w, r, err)
		return
	}

	snap, err := fetchPages(r.Context(), v, page)
	if err != nil {
		s.apiError(w, r, err)
		return
	}

	resp := apiGamesResponse{Query: string(q.Key()), Page: page, HasMore: snap.HasMore, Results: []game.Game{}}
	if page <= len(snap.Pages) {
		p := snap.Pages[page-1]
		resp.Results = append(resp.Results, p.Games...)
		resp.Count = p.Count
		resp.HasMore = p.HasNext()
	}
	writeJSON(w, http.StatusOK, resp)
}

// fetchPages fetches until the view holds n pages or the query runs out.
func fetchPages(ctx context.Context, v *catalog.View, n int) (catalog.Snapshot, error) {
	snap, err := v.Await(ctx)
	for err == nil && len(snap.Pages) < n && snap.HasMore {
		snap, err = v.FetchNext(ctx)
	}
	return snap, err
}

func (s *Server) handleAPITrailer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		s.apiError(w, r, fmt.Errorf("%w: invalid game id", errBadRequest))
		return
	}

	tr, err := catalog.LoadTrailer(r.Context(), s.cache.Source(), id)
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	t, ok := view.NewTrailer(tr).Get()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, apiTrailer{Name: t.Name, Src: t.Src, Link: t.Link, Poster: t.Poster})
}
