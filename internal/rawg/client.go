// Package rawg is a client for the RAWG video games database API.
package rawg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ryanm101/gamehub/internal/game"
	"github.com/ryanm101/gamehub/internal/logging"
	"github.com/ryanm101/gamehub/internal/metrics"
	"github.com/ryanm101/gamehub/internal/option"
	"github.com/ryanm101/gamehub/internal/source"
	"github.com/ryanm101/gamehub/internal/tracing"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

const name = "rawg"

// Client implements source.Source against the RAWG API.
type Client struct {
	base   *url.URL
	apiKey string
	http   *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

// NewHTTPClient returns an HTTP client whose transport is traced.
func NewHTTPClient(timeout time.Duration) *http.Client {
	base := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		MaxIdleConnsPerHost:   4,
	}
	return &http.Client{
		Transport: otelhttp.NewTransport(base),
		Timeout:   timeout,
	}
}

// New creates a client for the API rooted at baseURL.
func New(baseURL, apiKey string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid RAWG base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid RAWG base URL: %q", baseURL)
	}
	if apiKey == "" {
		return nil, errors.New("RAWG API key is required")
	}

	c := &Client{
		base:   u,
		apiKey: apiKey,
		http:   NewHTTPClient(15 * time.Second),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

var _ source.Source = (*Client)(nil)

func (c *Client) Name() string {
	return name
}

type pageResponse struct {
	Count   int                  `json:"count"`
	Next    option.Value[string] `json:"next"`
	Results []game.Game          `json:"results"`
}

// Games fetches one page of games. The cursor is the "next" URL of the
// previous page and is followed verbatim.
func (c *Client) Games(ctx context.Context, q game.Query, cursor option.Value[game.Cursor], pageSize int) (game.Page, error) {
	const op = "list games"

	var u *url.URL
	if next, ok := cursor.Get(); ok {
		var err error
		u, err = c.followURL(string(next))
		if err != nil {
			return game.Page{}, &source.Error{Source: name, Op: op, Err: err}
		}
	} else {
		u = c.endpoint("games")
		params := u.Query()
		if g, ok := q.Genre.Get(); ok {
			params.Set("genres", strconv.Itoa(g.ID))
		}
		if p, ok := q.Platform.Get(); ok {
			params.Set("parent_platforms", strconv.Itoa(p.ID))
		}
		if o := game.NormalizeOrdering(q.SortOrder); o != "" {
			params.Set("ordering", o)
		}
		if s := game.NormalizeSearch(q.SearchText); s != "" {
			params.Set("search", s)
		}
		if pageSize > 0 {
			params.Set("page_size", strconv.Itoa(pageSize))
		}
		u.RawQuery = params.Encode()
	}

	var resp pageResponse
	if err := c.get(ctx, op, u, &resp); err != nil {
		return game.Page{}, err
	}

	page := game.Page{
		Games: resp.Results,
		Count: resp.Count,
	}
	if next, ok := resp.Next.Get(); ok && next != "" {
		page.Next = option.Some(game.Cursor(next))
	}
	return page, nil
}

// Trailers fetches the movies of a game.
func (c *Client) Trailers(ctx context.Context, gameID int) (game.TrailerSet, error) {
	var set game.TrailerSet
	err := c.get(ctx, "list trailers", c.endpoint("games", strconv.Itoa(gameID), "movies"), &set)
	return set, err
}

// Game fetches the detail record of a game.
func (c *Client) Game(ctx context.Context, slug string) (game.GameDetail, error) {
	var detail game.GameDetail
	if strings.TrimSpace(slug) == "" {
		return detail, &source.Error{Source: name, Op: "get game", Err: fmt.Errorf("%w: empty slug", source.ErrNotFound)}
	}
	err := c.get(ctx, "get game", c.endpoint("games", slug), &detail)
	return detail, err
}

// Genres lists genres.
func (c *Client) Genres(ctx context.Context) ([]game.Genre, error) {
	var resp struct {
		Results []game.Genre `json:"results"`
	}
	if err := c.get(ctx, "list genres", c.endpoint("genres"), &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// ParentPlatforms lists platform families.
func (c *Client) ParentPlatforms(ctx context.Context) ([]game.Platform, error) {
	var resp struct {
		Results []game.Platform `json:"results"`
	}
	if err := c.get(ctx, "list platforms", c.endpoint("platforms", "lists", "parents"), &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// endpoint builds an API URL from path segments and adds the API key.
func (c *Client) endpoint(segments ...string) *url.URL {
	u := *c.base
	escaped := make([]string, 0, len(segments))
	for _, s := range segments {
		escaped = append(escaped, url.PathEscape(s))
	}
	u.Path = strings.TrimRight(c.base.Path, "/") + "/" + strings.Join(escaped, "/")
	u.RawPath = ""
	q := url.Values{}
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()
	return &u
}

// followURL validates a next-page URL issued by the API.
func (c *Client) followURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: bad cursor: %v", source.ErrDecode, err)
	}
	if u.Host != c.base.Host || !strings.HasPrefix(u.Path, c.base.Path) {
		return nil, fmt.Errorf("%w: cursor points outside %s", source.ErrDecode, c.base.Host)
	}
	// Upstream uses the scheme of the original request; keep ours.
	u.Scheme = c.base.Scheme
	q := u.Query()
	if q.Get("key") == "" {
		q.Set("key", c.apiKey)
		u.RawQuery = q.Encode()
	}
	return u, nil
}

func (c *Client) get(ctx context.Context, op string, u *url.URL, out any) (err error) {
	ctx, span := tracing.StartSpan(ctx, "rawg."+strings.ReplaceAll(op, " ", "_"),
		tracing.WithAttributes(attribute.String("http.url", redact(u))))
	start := time.Now()
	defer func() {
		metrics.RecordAPIRequest(name, op, source.Class(err), start)
		tracing.RecordError(span, err)
		span.End()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return &source.Error{Source: name, Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &source.Error{Source: name, Op: op, Err: fmt.Errorf("%w: %v", source.ErrNetwork, err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(op, resp)
		logging.Debug("rawg request failed", "op", op, "url", apiErr.URL, "status", resp.StatusCode)
		return &source.Error{Source: name, Op: op, Err: apiErr}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &source.Error{Source: name, Op: op, Err: fmt.Errorf("%w: %v", source.ErrDecode, err)}
	}
	return nil
}
