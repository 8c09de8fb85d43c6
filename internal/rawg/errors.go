package rawg

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ryanm101/gamehub/internal/source"
)

// APIError reports a non-2xx response from the RAWG API.
type APIError struct {
	Op         string // Operation that failed (e.g. "list games")
	URL        string // Request URL with the API key removed
	StatusCode int
	Detail     string // "detail" or "error" field of the response body, if any
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// Unwrap maps the status code onto the source error classes.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return source.ErrNotFound
	case e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden:
		return source.ErrAuth
	default:
		return source.ErrUpstream
	}
}

func newAPIError(op string, resp *http.Response) *APIError {
	e := &APIError{
		Op:         op,
		URL:        redact(resp.Request.URL),
		StatusCode: resp.StatusCode,
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	var payload struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		e.Detail = strings.TrimSpace(payload.Detail + " " + payload.Error)
	}
	return e
}

// redact drops the API key from a URL so it can be logged.
func redact(u *url.URL) string {
	if u == nil {
		return ""
	}
	c := *u
	q := c.Query()
	if q.Has("key") {
		q.Del("key")
		c.RawQuery = q.Encode()
	}
	return c.String()
}
