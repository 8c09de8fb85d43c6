package catalog

import (
	"log/slog"
	"sync"

	"github.com/ryanm101/gamehub/internal/game"
	"github.com/ryanm101/gamehub/internal/logging"
	"github.com/ryanm101/gamehub/internal/metrics"
	"github.com/ryanm101/gamehub/internal/source"
)

// Cache holds the feeds of the queries currently referenced by views.
// Create one per application and Close it on shutdown.
type Cache struct {
	src      source.Source
	pageSize int
	log      *slog.Logger

	mu      sync.Mutex
	entries map[game.Key]*Feed
	closed  bool
}

// NewCache creates a feed cache over src.
func NewCache(src source.Source, pageSize int) *Cache {
	if pageSize <= 0 {
		pageSize = source.DefaultPageSize
	}
	return &Cache{
		src:      src,
		pageSize: pageSize,
		log:      logging.With("component", "catalog", "source", src.Name()),
		entries:  make(map[game.Key]*Feed),
	}
}

// Source returns the source feeds fetch from.
func (c *Cache) Source() source.Source {
	return c.src
}

// Acquire returns the feed for q and takes a reference on it. A new feed
// starts fetching its first page immediately.
func (c *Cache) Acquire(q game.Query) (*Feed, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}

	key := q.Key()
	f, ok := c.entries[key]
	if !ok {
		f = newFeed(q, c.src, c.pageSize, c.log)
		c.entries[key] = f
		metrics.FeedCacheEntries.Set(float64(len(c.entries)))
		f.RequestNext()
	}
	f.refs++
	return f, nil
}

// Release drops a reference taken by Acquire. The last release evicts the
// feed and discards any response still in flight.
func (c *Cache) Release(f *Feed) {
	if f == nil {
		return
	}

	c.mu.Lock()
	f.refs--
	evict := f.refs <= 0
	if evict && c.entries[f.key] == f {
		delete(c.entries, f.key)
		metrics.FeedCacheEntries.Set(float64(len(c.entries)))
	}
	c.mu.Unlock()

	if evict {
		f.close()
		c.log.Debug("feed evicted", "query", string(f.key))
	}
}

// Len returns the number of live feeds.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close evicts every feed. Acquire fails afterwards.
func (c *Cache) Close() {
	c.mu.Lock()
	feeds := make([]*Feed, 0, len(c.entries))
	for _, f := range c.entries {
		feeds = append(feeds, f)
	}
	c.entries = make(map[game.Key]*Feed)
	c.closed = true
	metrics.FeedCacheEntries.Set(0)
	c.mu.Unlock()

	for _, f := range feeds {
		f.close()
	}
}
