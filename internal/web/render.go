package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"github.com/ryanm101/gamehub/internal/catalog"
	"github.com/ryanm101/gamehub/internal/game"
	"github.com/ryanm101/gamehub/internal/grid"
	"github.com/ryanm101/gamehub/internal/option"
	"github.com/ryanm101/gamehub/internal/source"
	"github.com/ryanm101/gamehub/internal/view"
)

var funcs = template.FuncMap{
	"icons": func(v option.Value[[]view.PlatformIcon]) []view.PlatformIcon {
		icons, _ := v.Get()
		return icons
	},
	"score": func(v option.Value[view.ScoreBadge]) *view.ScoreBadge {
		if b, ok := v.Get(); ok {
			return &b
		}
		return nil
	},
	"seq": func(n int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	},
	"genreName":    view.GenreName,
	"platformName": view.PlatformName,
}

func parseTemplates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(funcs).ParseFS(assets, "assets/templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

// render executes a named template into a buffer first so template errors
// do not leave a half-written response.
func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		s.log.Error("render failed", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

type errorPage struct {
	Title   string
	Status  int
	Message string
}

// renderError renders a full error page whose status reflects the error.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	s.log.WarnContext(r.Context(), "request failed", "path", r.URL.Path, "status", status, "class", source.Class(err), "error", err)
	s.render(w, status, "error", errorPage{
		Title:   http.StatusText(status),
		Status:  status,
		Message: err.Error(),
	})
}

// statusFor maps an error to the HTTP status reported to clients.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrStaleQuery):
		return http.StatusConflict
	case errors.Is(err, errViewGone):
		return http.StatusGone
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}

	switch source.Class(err) {
	case "not_found":
		return http.StatusNotFound
	case "upstream", "network", "decode", "auth":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

var (
	errBadRequest = errors.New("bad request")
	errViewGone   = errors.New("view expired")
)

// queryForm is the filter form state.
type queryForm struct {
	Genre      int
	Platform   int
	Ordering   string
	Search     string
	Genres     []game.Genre
	Platforms  []game.Platform
	SortOrders []game.SortOrder
	Notice     string
}

// gridData is the grid fragment model.
type gridData struct {
	ViewID string
	grid.Grid
}

// NextURL is the scroll trigger endpoint for a client holding every page
// of the grid.
func (d gridData) NextURL() string {
	return fmt.Sprintf("/grid/next?view=%s&have=%d", url.QueryEscape(d.ViewID), d.Pages)
}

// RetryURL re-issues the failed request.
func (d gridData) RetryURL() string {
	return "/grid/retry?view=" + url.QueryEscape(d.ViewID)
}

// moreData is the fragment appended by the scroll trigger.
type moreData struct {
	Grid     gridData
	NewCards []view.Card
}

func classOf(err error) string {
	switch {
	case errors.Is(err, errBadRequest):
		return "bad_request"
	case errors.Is(err, errViewGone):
		return "gone"
	}
	return source.Class(err)
}
