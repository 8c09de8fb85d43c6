// Package reference serves genre and platform lists, refreshing the stored
// copy from the games source when it goes stale.
package reference

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ryanm101/gamehub/internal/game"
	"github.com/ryanm101/gamehub/internal/logging"
	"github.com/ryanm101/gamehub/internal/metrics"
	"github.com/ryanm101/gamehub/internal/source"
)

// DefaultTTL is how long stored lists are served without a refresh.
const DefaultTTL = 24 * time.Hour

// refreshTimeout bounds a shared refresh, which outlives the caller that
// started it.
const refreshTimeout = 30 * time.Second

// Store persists reference lists per source.
type Store interface {
	Genres(ctx context.Context, src string) ([]game.Genre, time.Time, error)
	ReplaceGenres(ctx context.Context, src string, genres []game.Genre, fetchedAt time.Time) error
	ParentPlatforms(ctx context.Context, src string) ([]game.Platform, time.Time, error)
	ReplaceParentPlatforms(ctx context.Context, src string, platforms []game.Platform, fetchedAt time.Time) error
}

// Service serves reference lists.
type Service struct {
	src   source.Source
	store Store
	ttl   time.Duration
	now   func() time.Time
	log   *slog.Logger
	group singleflight.Group
}

// New creates a reference service.
func New(src source.Source, store Store, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		src:   src,
		store: store,
		ttl:   ttl,
		now:   time.Now,
		log:   logging.With("component", "reference", "source", src.Name()),
	}
}

// Genres returns the genre list.
func (s *Service) Genres(ctx context.Context) ([]game.Genre, error) {
	return lookup(ctx, s, "genres",
		func(ctx context.Context) ([]game.Genre, time.Time, error) {
			return s.store.Genres(ctx, s.src.Name())
		},
		s.src.Genres,
		func(ctx context.Context, v []game.Genre, at time.Time) error {
			return s.store.ReplaceGenres(ctx, s.src.Name(), v, at)
		})
}

// ParentPlatforms returns the parent platform list.
func (s *Service) ParentPlatforms(ctx context.Context) ([]game.Platform, error) {
	return lookup(ctx, s, "platforms",
		func(ctx context.Context) ([]game.Platform, time.Time, error) {
			return s.store.ParentPlatforms(ctx, s.src.Name())
		},
		s.src.ParentPlatforms,
		func(ctx context.Context, v []game.Platform, at time.Time) error {
			return s.store.ReplaceParentPlatforms(ctx, s.src.Name(), v, at)
		})
}

// lookup serves stored rows while fresh. Otherwise it refreshes them from
// the source, falling back to the stale rows if that fails. Concurrent
// refreshes of one kind share a single upstream call.
func lookup[T any](
	ctx context.Context,
	s *Service,
	kind string,
	read func(context.Context) ([]T, time.Time, error),
	fetch func(context.Context) ([]T, error),
	write func(context.Context, []T, time.Time) error,
) ([]T, error) {
	stored, fetchedAt, err := read(ctx)
	if err != nil {
		// A broken store should not hide the lists.
		s.log.WarnContext(ctx, "reading stored list failed", "kind", kind, "error", err)
		stored = nil
	}
	if len(stored) > 0 && s.now().Sub(fetchedAt) < s.ttl {
		metrics.ReferenceLookups.WithLabelValues(kind, "hit").Inc()
		return stored, nil
	}

	// The refresh runs detached from ctx so one caller going away does not
	// fail the others waiting on it.
	ch := s.group.DoChan(kind, func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()

		fresh, err := fetch(rctx)
		if err != nil {
			return nil, err
		}
		if err := write(rctx, fresh, s.now()); err != nil {
			s.log.WarnContext(rctx, "storing list failed", "kind", kind, "error", err)
		}
		return fresh, nil
	})

	var v any
	select {
	case res := <-ch:
		v, err = res.Val, res.Err
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		if len(stored) > 0 {
			metrics.ReferenceLookups.WithLabelValues(kind, "stale").Inc()
			s.log.WarnContext(ctx, "refresh failed, serving stale list", "kind", kind, "fetched_at", fetchedAt, "error", err)
			return stored, nil
		}
		metrics.ReferenceLookups.WithLabelValues(kind, "error").Inc()
		return nil, err
	}

	metrics.ReferenceLookups.WithLabelValues(kind, "refreshed").Inc()
	return v.([]T), nil
}
