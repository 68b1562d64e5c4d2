// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up the HTTP routes and middleware chain for the
// PressDesk API server.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pressdesk/internal/handlers"
	"pressdesk/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. tokenHash is the bcrypt hash bearer tokens
// are verified against; empty disables auth (development only).
func New(ed *handlers.Editor, lists *handlers.Lists, tokenHash string) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check, no auth.
	r.Get("/health", healthHandler)

	rl := middleware.NewRateLimiter(120, time.Minute)

	r.Route("/api", func(r chi.Router) {
		r.Use(rl.Middleware)
		r.Use(middleware.RequireToken(tokenHash))

		// Editing sessions.
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", ed.Open)
			r.Get("/{id}", ed.State)
			r.Delete("/{id}", ed.Close)
			r.Post("/{id}/stage", ed.Stage)
			r.Post("/{id}/autosave", ed.Autosave)
			r.Post("/{id}/save", ed.Save)
			r.Post("/{id}/discard", ed.Discard)
		})

		// Markdown preview of staged content.
		r.Post("/preview", ed.Preview)

		// Post lists.
		r.Route("/lists", func(r chi.Router) {
			r.Get("/{name}/items", lists.Items)
			r.Post("/{name}/next-page", lists.NextPage)
		})
		r.Post("/sync", lists.Sync)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
