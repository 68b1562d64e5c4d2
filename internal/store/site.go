// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"pressdesk/internal/models"
)

// SiteStore provides access to site records.
type SiteStore struct {
	db DBTX
}

// NewSiteStore creates a new SiteStore with the given database connection.
func NewSiteStore(db DBTX) *SiteStore {
	return &SiteStore{db: db}
}

// Ensure returns the site for the given URL, creating it if absent. The
// title is only written on first creation.
func (s *SiteStore) Ensure(url, title string) (*models.Site, error) {
	site := &models.Site{}
	err := s.db.QueryRow(`
		INSERT INTO sites (url, title) VALUES ($1, $2)
		ON CONFLICT (url) DO UPDATE SET url = EXCLUDED.url
		RETURNING id, url, title, created_at
	`, url, title).Scan(&site.ID, &site.URL, &site.Title, &site.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("ensure site: %w", err)
	}
	return site, nil
}

// FindByID retrieves a site by its UUID. Returns nil if not found.
func (s *SiteStore) FindByID(id uuid.UUID) (*models.Site, error) {
	site := &models.Site{}
	err := s.db.QueryRow(`
		SELECT id, url, title, created_at FROM sites WHERE id = $1
	`, id).Scan(&site.ID, &site.URL, &site.Title, &site.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find site by id: %w", err)
	}
	return site, nil
}
