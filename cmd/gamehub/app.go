package main

import (
	"context"
	"fmt"

	"github.com/ryanm101/gamehub/internal/config"
	"github.com/ryanm101/gamehub/internal/igdb"
	"github.com/ryanm101/gamehub/internal/rawg"
	"github.com/ryanm101/gamehub/internal/reference"
	"github.com/ryanm101/gamehub/internal/source"
	"github.com/ryanm101/gamehub/internal/store"
)

// openSource builds the configured games API client.
func openSource(ctx context.Context, cfg *config.Config) (source.Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	hc := rawg.NewHTTPClient(cfg.RequestTimeout)
	if cfg.Source == config.SourceIGDB {
		src, err := igdb.New(ctx, cfg.IGDB.ClientID, cfg.IGDB.ClientSecret, hc)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to IGDB: %w", err)
		}
		return src, nil
	}

	src, err := rawg.New(cfg.GetRAWGBaseURL(), cfg.RAWG.APIKey, rawg.WithHTTPClient(hc))
	if err != nil {
		return nil, err
	}
	return src, nil
}

// app bundles the dependencies shared by commands.
type app struct {
	src source.Source
	db  *store.DB
	ref *reference.Service
}

func openApp(ctx context.Context) (*app, error) {
	src, err := openSource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	db, err := store.Open(ctx, cfg.GetDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &app{
		src: src,
		db:  db,
		ref: reference.New(src, db, cfg.ReferenceTTL),
	}, nil
}

func (a *app) Close() {
	_ = a.db.Close()
}
