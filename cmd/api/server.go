package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/kvnloughead/devops-demo/internal/vcs"
)

// serve binds the configured port and runs the server until ctx is cancelled.
// A bind failure is returned immediately.
func (app *application) serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", app.config.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", app.config.Addr(), err)
	}

	return app.serveListener(ctx, ln, app.routes())
}

// serveListener serves handler on ln until ctx is cancelled, then drains.
//
// Draining happens in two phases:
//  1. http.Server.Shutdown closes the listener, so no new connections are
//     accepted, and waits for active requests to complete.
//  2. Once every connection is idle or closed, serveListener returns nil.
//
// The drain is bounded by config.ShutdownTimeout. When it expires the
// remaining connections are closed forcibly and an error is returned.
func (app *application) serveListener(ctx context.Context, ln net.Listener, handler http.Handler) error {
	srv := &http.Server{
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelError),
	}

	shutdownError := make(chan error, 1)

	go func() {
		<-ctx.Done()

		app.logger.Info("shutting down server", "timeout", app.config.ShutdownTimeout.String())

		drainCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
		defer cancel()

		err := srv.Shutdown(drainCtx)
		if err != nil {
			srv.Close()
			err = fmt.Errorf("drain connections: %w", err)
		}
		shutdownError <- err
	}()

	app.logger.Info(
		"starting server",
		"addr", ln.Addr().String(),
		"env", app.config.Env,
		"revision", vcs.Revision(),
	)

	err := srv.Serve(ln)
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	// Serve returns as soon as Shutdown closes the listener; in-flight
	// requests are only done once Shutdown itself returns.
	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", ln.Addr().String())

	return nil
}
