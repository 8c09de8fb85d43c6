// Package catalog turns queries into incrementally fetched game feeds.
//
// A Cache holds one Feed per distinct query. Views reference feeds and
// switch between them as the user changes the query; a feed lives while at
// least one view references it.
package catalog

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ryanm101/gamehub/internal/game"
	"github.com/ryanm101/gamehub/internal/metrics"
	"github.com/ryanm101/gamehub/internal/option"
	"github.com/ryanm101/gamehub/internal/source"
	"github.com/ryanm101/gamehub/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
)

// Snapshot is a consistent copy of a feed's state.
type Snapshot struct {
	Query     game.Query
	Pages     []game.Page
	HasMore   bool  // false until a page arrives, then whether it announced a next page
	Loading   bool  // a page request is in flight
	Err       error // set when the last request failed
	Requested int   // page requests issued so far
}

// Games returns the games of all pages in request order.
func (s Snapshot) Games() []game.Game {
	out := make([]game.Game, 0, s.Len())
	for _, p := range s.Pages {
		out = append(out, p.Games...)
	}
	return out
}

// Len returns the number of games across all pages.
func (s Snapshot) Len() int {
	n := 0
	for _, p := range s.Pages {
		n += len(p.Games)
	}
	return n
}

// Feed accumulates the pages of one query. Page requests are serialized:
// the next request is only issued after the previous one resolved.
type Feed struct {
	key      game.Key
	query    game.Query
	src      source.Source
	pageSize int
	log      *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	pages     []game.Page
	inflight  chan struct{} // closed when the current request resolves
	err       error
	requested int
	closed    bool

	refs int // guarded by Cache.mu
}

func newFeed(q game.Query, src source.Source, pageSize int, log *slog.Logger) *Feed {
	ctx, cancel := context.WithCancel(context.Background())
	key := q.Key()
	return &Feed{
		key:      key,
		query:    q,
		src:      src,
		pageSize: pageSize,
		log:      log.With("query", string(key)),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Key returns the feed's query key.
func (f *Feed) Key() game.Key {
	return f.key
}

// Snapshot returns the current state.
func (f *Feed) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *Feed) snapshotLocked() Snapshot {
	pages := make([]game.Page, len(f.pages))
	copy(pages, f.pages)
	return Snapshot{
		Query:     f.query,
		Pages:     pages,
		HasMore:   f.hasMoreLocked(),
		Loading:   f.inflight != nil,
		Err:       f.err,
		Requested: f.requested,
	}
}

func (f *Feed) hasMoreLocked() bool {
	if len(f.pages) == 0 {
		return false
	}
	return f.pages[len(f.pages)-1].HasNext()
}

// RequestNext starts the next page request without waiting for it. It
// returns false when nothing was issued: a request is already in flight,
// the feed failed, the feed is exhausted, or it was closed.
func (f *Feed) RequestNext() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case f.closed:
		return false
	case f.inflight != nil:
		metrics.FeedRequestsCoalesced.Inc()
		return false
	case f.err != nil:
		return false
	case len(f.pages) > 0 && !f.hasMoreLocked():
		return false
	}

	f.startLocked()
	return true
}

// Retry re-issues the request that failed. It is the only way out of the
// error state other than switching to another query.
func (f *Feed) Retry() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed || f.inflight != nil || f.err == nil {
		return false
	}
	f.err = nil
	f.startLocked()
	return true
}

// FetchNext requests the next page and waits for it. While a request is in
// flight, callers join it instead of issuing another.
func (f *Feed) FetchNext(ctx context.Context) (Snapshot, error) {
	f.RequestNext()
	return f.Await(ctx)
}

// Await waits for the request in flight, if any, and returns the state
// after it resolved together with the feed's error.
func (f *Feed) Await(ctx context.Context) (Snapshot, error) {
	f.mu.Lock()
	ch := f.inflight
	f.mu.Unlock()

	if ch != nil {
		select {
		case <-ch:
		case <-ctx.Done():
			return f.Snapshot(), ctx.Err()
		}
	}

	s := f.Snapshot()
	return s, s.Err
}

func (f *Feed) startLocked() {
	cursor := option.None[game.Cursor]()
	if n := len(f.pages); n > 0 {
		cursor = f.pages[n-1].Next
	}
	done := make(chan struct{})
	f.inflight = done
	f.requested++
	go f.fetch(cursor, len(f.pages)+1, done)
}

func (f *Feed) fetch(cursor option.Value[game.Cursor], pageNo int, done chan struct{}) {
	ctx, span := tracing.StartSpan(f.ctx, "catalog.fetch_page",
		tracing.WithAttributes(
			attribute.String("query", string(f.key)),
			attribute.Int("page", pageNo),
		))
	page, err := f.src.Games(ctx, f.query, cursor, f.pageSize)
	tracing.RecordError(span, err)
	span.End()

	f.mu.Lock()
	defer close(done)
	defer f.mu.Unlock()

	f.inflight = nil
	if f.closed {
		// Nobody references this query any more.
		metrics.FeedPagesFetched.WithLabelValues("discarded").Inc()
		return
	}
	if err != nil {
		f.err = &FetchError{Query: f.key, Page: pageNo, Err: err}
		metrics.FeedPagesFetched.WithLabelValues("failed").Inc()
		f.log.WarnContext(ctx, "page fetch failed", "page", pageNo, "error", err)
		return
	}

	f.pages = append(f.pages, page)
	metrics.FeedPagesFetched.WithLabelValues("appended").Inc()
	f.log.DebugContext(ctx, "page fetched", "page", pageNo, "games", len(page.Games), "has_next", page.HasNext())
}

// close cancels any request in flight and drops its result.
func (f *Feed) close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.cancel()
}
