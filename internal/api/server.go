// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/gwngames/persister/internal/platform/constants"
	"github.com/gwngames/persister/internal/platform/middleware"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server] for the ops surface.
//
// The persister exposes no business API over HTTP — entities enter through
// the ingestion socket only. This server carries the /health and /ready
// probes on a separate admin port.
type Server struct {
	httpServer *http.Server
	log        *slog.Logger
}

// # Server Initialization

// NewServer constructs the chi router with the middleware chain and the two
// probe routes.
func NewServer(ctx context.Context, addr string, log *slog.Logger, liveness, readiness http.HandlerFunc) *Server {
	rte := chi.NewRouter()

	// # Middleware Chain
	rte.Use(middleware.RequestID())
	rte.Use(middleware.StructuredLogger(log))
	rte.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	rte.Use(middleware.RateLimit(ctx))
	rte.Use(middleware.PanicRecovery(log))
	rte.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	rte.Get("/health", liveness)
	rte.Get("/ready", readiness)

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           rte,
			ReadTimeout:       constants.DefaultReadTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
		},
		log: log,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (server *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := server.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	if err := server.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}

	server.log.Info("admin_server_stopped")
	return nil
}
