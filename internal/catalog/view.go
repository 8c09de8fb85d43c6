package catalog

import (
	"context"
	"sync"

	"github.com/ryanm101/gamehub/internal/game"
	"github.com/ryanm101/gamehub/internal/metrics"
)

// View is one grid's handle on the feed of its current query.
type View struct {
	cache *Cache

	mu     sync.Mutex
	feed   *Feed
	closed bool
}

// NewView opens a view on q.
func (c *Cache) NewView(q game.Query) (*View, error) {
	f, err := c.Acquire(q)
	if err != nil {
		return nil, err
	}
	metrics.ActiveViews.Inc()
	return &View{cache: c, feed: f}, nil
}

func (v *View) current() *Feed {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil
	}
	return v.feed
}

// Query returns the view's current query.
func (v *View) Query() game.Query {
	f := v.current()
	if f == nil {
		return game.Query{}
	}
	return f.query
}

// SetQuery switches the view to q. A query with the same key is a no-op;
// otherwise the previous feed is released and the view starts over on the
// feed of q. It reports whether the query changed.
func (v *View) SetQuery(q game.Query) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return false, ErrClosed
	}
	if v.feed.key == q.Key() {
		return false, nil
	}

	next, err := v.cache.Acquire(q)
	if err != nil {
		return false, err
	}
	prev := v.feed
	v.feed = next
	v.cache.Release(prev)
	return true, nil
}

// Snapshot returns the state of the current query's feed.
func (v *View) Snapshot() Snapshot {
	f := v.current()
	if f == nil {
		return Snapshot{}
	}
	return f.Snapshot()
}

// RequestNext asks the current feed for its next page without waiting.
func (v *View) RequestNext() bool {
	f := v.current()
	if f == nil {
		return false
	}
	return f.RequestNext()
}

// Retry re-issues the failed request of the current feed.
func (v *View) Retry() bool {
	f := v.current()
	if f == nil {
		return false
	}
	return f.Retry()
}

// FetchNext requests the next page and waits for it. If the query changed
// while waiting, it returns ErrStaleQuery with the new query's state.
func (v *View) FetchNext(ctx context.Context) (Snapshot, error) {
	f := v.current()
	if f == nil {
		return Snapshot{}, ErrClosed
	}
	s, err := f.FetchNext(ctx)
	return v.settle(f, s, err)
}

// Await waits for the current feed's request in flight, if any.
func (v *View) Await(ctx context.Context) (Snapshot, error) {
	f := v.current()
	if f == nil {
		return Snapshot{}, ErrClosed
	}
	s, err := f.Await(ctx)
	return v.settle(f, s, err)
}

func (v *View) settle(f *Feed, s Snapshot, err error) (Snapshot, error) {
	cur := v.current()
	if cur == nil {
		return Snapshot{}, ErrClosed
	}
	if cur != f {
		return cur.Snapshot(), ErrStaleQuery
	}
	return s, err
}

// Close releases the view's feed. Further calls see an empty state.
func (v *View) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	f := v.feed
	v.feed = nil
	v.mu.Unlock()

	v.cache.Release(f)
	metrics.ActiveViews.Dec()
}
