// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the PressDesk API server.
// It loads configuration, connects to services, wires the editing and
// synchronization machinery, and starts the HTTP server with graceful
// shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pressdesk/internal/bus"
	"pressdesk/internal/cache"
	"pressdesk/internal/config"
	"pressdesk/internal/database"
	"pressdesk/internal/editor"
	"pressdesk/internal/handlers"
	"pressdesk/internal/models"
	"pressdesk/internal/remote"
	"pressdesk/internal/router"
	"pressdesk/internal/store"
	"pressdesk/internal/synclist"
)

func main() {
	// Structured logger. Text output works for both development and the
	// container log collector.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"site", cfg.SiteURL,
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Register the remote site this instance mirrors.
	site, err := store.NewSiteStore(db).Ensure(cfg.SiteURL, cfg.SiteTitle)
	if err != nil {
		slog.Error("failed to register site", "error", err)
		os.Exit(1)
	}

	// Connect to Valkey for the sync freshness markers.
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()
	syncCache := cache.NewSyncCache(valkeyClient, cfg.SyncFreshness)

	// The action bus carries edit intents and asynchronous remote results.
	dispatcher := bus.NewDispatcher()
	client := remote.NewClient(cfg.SiteURL, cfg.SiteAPIToken, cfg.SyncPageSize, dispatcher)

	// Editing sessions. Strict mode makes impossible reconciliation states
	// fail loud during development.
	manager := editor.NewManager(db, dispatcher, client, site, cfg.IsDev())
	defer manager.CloseAll()

	// List synchronization and housekeeping.
	syncer := synclist.NewSyncer(db, dispatcher, client, syncCache, site)
	go syncer.Run()
	defer syncer.Stop()

	if err := syncer.ResetSyncFlags(); err != nil {
		slog.Error("failed to reset sync flags", "error", err)
		os.Exit(1)
	}
	if err := syncer.PurgeStaleStagedEdits(); err != nil {
		slog.Error("failed to purge stale staged edits", "error", err)
		os.Exit(1)
	}

	housekeeper, err := synclist.NewHousekeeper(syncer, cfg.HousekeepingCron)
	if err != nil {
		slog.Error("invalid housekeeping schedule", "error", err)
		os.Exit(1)
	}
	housekeeper.Start()
	defer housekeeper.Stop()

	// Kick off an initial sync of the main list.
	syncer.Sync(context.Background(), models.PostListAll, false)

	// Create handler groups with their dependencies.
	editorHandlers := handlers.NewEditor(manager, dispatcher)
	listHandlers := handlers.NewLists(db, site, syncer)

	// Set up the Chi router with all middleware and routes.
	r := router.New(editorHandlers, listHandlers, cfg.APITokenHash)

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
