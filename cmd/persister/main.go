// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

/*
Persister is the entry point for the bibliographic persistence tier.

External scrapers connect over TCP and stream newline-delimited JSON
envelopes describing authors, publications, citations, journals, and
conferences. The process ingests each envelope, routes it to its typed
parser, and reconciles it into the relational store under fuzzy-identity
matching.

Usage:

	go run cmd/persister/main.go

The environment variables are:

	CONFIG_PATH     Path to the shared JSON settings file (default: config.json)
	ADMIN_ADDR      Bind address of the ops health server (default: :9090)
	MIGRATION_PATH  SQL migrations directory (default: ./data/migrations)
	DEBUG           Enable debug logging (default: false)

Startup Sequence:

 1. Logger: Initialize structured JSON logging (slog).
 2. Config: Load the env surface and the JSON settings file.
 3. Storage: Establish the Postgres pool (and Redis, when configured).
 4. Migration: Run idempotent schema updates.
 5. Wiring: Inject the store into the dispatch engine and the TCP server.
 6. Serve: Bind the ingestion listener and run until signalled.

No business logic lives here. This file is strictly for orchestration and wiring.
*/
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gwngames/persister/internal/api"
	"github.com/gwngames/persister/internal/deadletter"
	"github.com/gwngames/persister/internal/dispatch"
	"github.com/gwngames/persister/internal/ingest"
	"github.com/gwngames/persister/internal/parser"
	"github.com/gwngames/persister/internal/platform/config"
	"github.com/gwngames/persister/internal/platform/constants"
	"github.com/gwngames/persister/internal/platform/migration"
	pgstore "github.com/gwngames/persister/internal/platform/postgres"
	redisstore "github.com/gwngames/persister/internal/platform/redis"
	"github.com/gwngames/persister/internal/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application_startup_failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	// # 1. Logger
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries for trace correlation
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[Persister] service_initializing")

	// # 2. Configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// Adjust log level if debug mode is explicitly enabled
	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("host", cfg.Host),
		slog.Int("port", cfg.Port),
		slog.Int("max_retries", cfg.MaxRetries),
	)

	// Root context for startup. A 30s deadline prevents the app from hanging.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// # 3. PostgreSQL
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL(), log)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// # 4. Redis (optional dedup cache)
	var dedup *dispatch.DedupCache
	checkCache := (func() error)(nil)
	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()

		dedup = dispatch.NewDedupCache(rdb, log)
		checkCache = func() error {
			return redisstore.Ping(context.Background(), rdb)
		}
	}

	// # 5. Migrations
	if err := migration.RunUp(cfg.DatabaseURL(), cfg.MigrationPath, log); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// # 6. Domain Wiring
	factory := store.NewFactory(pool, cfg.SimilarityThresholds(), log)
	sink := deadletter.NewSink(cfg.DeadLetterPath)

	engine := dispatch.NewEngine(
		dispatch.NewPgSessions(factory),
		parser.All(),
		sink,
		dedup,
		dispatch.Config{
			MaxRetries: cfg.MaxRetries,
			Delay:      cfg.RetryDelay(),
		},
		log,
	)

	ingestServer := ingest.NewServer(ingest.Config{
		Host:           cfg.Host,
		Port:           cfg.Port,
		MaxConnections: cfg.MaxConnections,
		IdleTimeout:    cfg.IdleTimeout(),
		ReaperInterval: cfg.ReaperInterval(),
	}, engine.Handle, log)

	// Bind failures are fatal startup errors.
	if err := ingestServer.Listen(); err != nil {
		return err
	}

	// # 7. Ops Health Server
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: checkCache,
	}, log)
	// # 8. Serve Until Signalled
	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	adminServer := api.NewServer(runCtx, cfg.AdminAddr, log, liveness, readiness)

	group, groupCtx := errgroup.WithContext(runCtx)
	group.Go(func() error {
		return ingestServer.Run(groupCtx)
	})
	group.Go(func() error {
		return adminServer.Run(groupCtx)
	})

	log.Info("persister_running",
		slog.String("ingest_addr", ingestServer.Addr().String()),
		slog.String("admin_addr", cfg.AdminAddr),
	)

	if err := group.Wait(); err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	log.Info("persister_stopped_cleanly")
	return nil
}
