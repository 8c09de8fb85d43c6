package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ryanm101/gamehub/internal/catalog"
	"github.com/ryanm101/gamehub/internal/logging"
	"github.com/ryanm101/gamehub/internal/web"
)

const shutdownTimeout = 10 * time.Second

func handleServeCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", cfg.GetAddr(), "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	cache := catalog.NewCache(a.src, cfg.PageSize)
	defer cache.Close()

	views := catalog.NewViews(cache, cfg.Web.ViewTTL)
	defer views.CloseAll()
	go views.Run(ctx, time.Minute)

	s, err := web.NewServer(web.Options{
		Cache:     cache,
		Views:     views,
		Reference: a.ref,
		DB:        a.db.Conn(),
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("starting web server", "addr", *addr, "source", a.src.Name())
		PrintInfo("Listening on %s\n", *addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logging.Info("shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
