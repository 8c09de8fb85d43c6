package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ryanm101/gamehub/internal/game"
	"github.com/ryanm101/gamehub/internal/option"
)

// Views tracks views opened by clients that cannot tell us when they go
// away, such as browser tabs. A view not touched for the TTL is closed by
// Sweep, which releases its feed.
type Views struct {
	cache *Cache
	ttl   time.Duration
	now   func() time.Time

	mu     sync.Mutex
	views  map[string]*trackedView
	shared map[game.Key]string // query key to id of its shared view
}

type trackedView struct {
	view     *View
	lastSeen time.Time
	shared   option.Value[game.Key]
}

// NewViews creates a registry of views over cache.
func NewViews(cache *Cache, ttl time.Duration) *Views {
	return &Views{
		cache:  cache,
		ttl:    ttl,
		now:    time.Now,
		views:  make(map[string]*trackedView),
		shared: make(map[game.Key]string),
	}
}

// Open creates a view on q and returns its id.
func (r *Views) Open(q game.Query) (string, *View, error) {
	v, err := r.cache.NewView(q)
	if err != nil {
		return "", nil, err
	}
	id := uuid.NewString()

	r.mu.Lock()
	r.views[id] = &trackedView{view: v, lastSeen: r.now()}
	r.mu.Unlock()
	return id, v, nil
}

// Shared returns the view kept for stateless clients of q, opening it on
// first use. Every call for the same query key gets the same view until it
// idles out, so clients paging by number reuse the pages already fetched.
func (r *Views) Shared(q game.Query) (*View, error) {
	key := q.Key()
	if v, ok := r.sharedView(key); ok {
		return v, nil
	}

	v, err := r.cache.NewView(q)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if id, ok := r.shared[key]; ok {
		// Another caller opened it first.
		tv := r.views[id]
		tv.lastSeen = r.now()
		r.mu.Unlock()
		v.Close()
		return tv.view, nil
	}
	id := uuid.NewString()
	r.views[id] = &trackedView{view: v, lastSeen: r.now(), shared: option.Some(key)}
	r.shared[key] = id
	r.mu.Unlock()
	return v, nil
}

func (r *Views) sharedView(key game.Key) (*View, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.shared[key]
	if !ok {
		return nil, false
	}
	tv := r.views[id]
	tv.lastSeen = r.now()
	return tv.view, true
}

// forget removes id from the registry. r.mu must be held.
func (r *Views) forget(id string, tv *trackedView) {
	delete(r.views, id)
	if key, ok := tv.shared.Get(); ok {
		delete(r.shared, key)
	}
}

// Get returns the view with id and marks it as seen.
func (r *Views) Get(id string) (*View, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tv, ok := r.views[id]
	if !ok {
		return nil, false
	}
	tv.lastSeen = r.now()
	return tv.view, true
}

// Close closes and forgets the view with id.
func (r *Views) Close(id string) {
	r.mu.Lock()
	tv, ok := r.views[id]
	if ok {
		r.forget(id, tv)
	}
	r.mu.Unlock()

	if ok {
		tv.view.Close()
	}
}

// Sweep closes views idle since before now minus the TTL and returns how
// many were closed.
func (r *Views) Sweep(now time.Time) int {
	r.mu.Lock()
	var expired []*View
	for id, tv := range r.views {
		if now.Sub(tv.lastSeen) > r.ttl {
			expired = append(expired, tv.view)
			r.forget(id, tv)
		}
	}
	r.mu.Unlock()

	for _, v := range expired {
		v.Close()
	}
	return len(expired)
}

// Run sweeps every interval until ctx ends, then closes all views.
func (r *Views) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.CloseAll()
			return
		case <-ticker.C:
			if n := r.Sweep(r.now()); n > 0 {
				r.cache.log.Debug("expired views closed", "count", n)
			}
		}
	}
}

// Len returns the number of open views.
func (r *Views) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// CloseAll closes every view.
func (r *Views) CloseAll() {
	r.mu.Lock()
	views := r.views
	r.views = make(map[string]*trackedView)
	r.shared = make(map[game.Key]string)
	r.mu.Unlock()

	for _, tv := range views {
		tv.view.Close()
	}
}
