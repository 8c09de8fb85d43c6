package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ryanm101/gamehub/internal/catalog"
	"github.com/ryanm101/gamehub/internal/logging"
	"github.com/ryanm101/gamehub/internal/tui"
)

func handleTUICommand(ctx context.Context, args []string) error {
	fs, flags := newQueryFlagSet("tui")
	logFile := fs.String("log", "", "write logs to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var w io.Writer = io.Discard
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) //nolint:gosec // Path chosen by the operator
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		w = f
	}
	logging.SetupWriter(w, cfg.Logging)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	q, err := flags.query(ctx, a.ref)
	if err != nil {
		return err
	}

	cache := catalog.NewCache(a.src, cfg.PageSize)
	defer cache.Close()

	return tui.Run(ctx, cache, a.ref, q)
}
