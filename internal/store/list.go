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

// PostListStore provides access to named post lists and their membership.
type PostListStore struct {
	db DBTX
}

// NewPostListStore creates a new PostListStore with the given database connection.
func NewPostListStore(db DBTX) *PostListStore {
	return &PostListStore{db: db}
}

// WithTx returns a PostListStore bound to the given transaction.
func (s *PostListStore) WithTx(tx *sql.Tx) *PostListStore {
	return &PostListStore{db: tx}
}

// Ensure returns the named list for a site, creating it if absent.
func (s *PostListStore) Ensure(siteID uuid.UUID, name string) (*models.PostList, error) {
	l := &models.PostList{}
	err := s.db.QueryRow(`
		INSERT INTO post_lists (site_id, name) VALUES ($1, $2)
		ON CONFLICT (site_id, name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, site_id, name, has_more
	`, siteID, name).Scan(&l.ID, &l.SiteID, &l.Name, &l.HasMore)
	if err != nil {
		return nil, fmt.Errorf("ensure post list: %w", err)
	}
	return l, nil
}

// FindByName retrieves a list by site and name. Returns nil if not found.
func (s *PostListStore) FindByName(siteID uuid.UUID, name string) (*models.PostList, error) {
	l := &models.PostList{}
	err := s.db.QueryRow(`
		SELECT id, site_id, name, has_more FROM post_lists
		WHERE site_id = $1 AND name = $2
	`, siteID, name).Scan(&l.ID, &l.SiteID, &l.Name, &l.HasMore)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post list: %w", err)
	}
	return l, nil
}

// AddMember attaches an item to a list. Adding twice is a no-op.
func (s *PostListStore) AddMember(listID, itemID uuid.UUID) error {
	_, err := s.db.Exec(`
		INSERT INTO post_list_members (list_id, item_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, listID, itemID)
	if err != nil {
		return fmt.Errorf("add list member: %w", err)
	}
	return nil
}

// SetHasMore records whether more remote pages are available for the list.
func (s *PostListStore) SetHasMore(listID uuid.UUID, hasMore bool) error {
	_, err := s.db.Exec(`UPDATE post_lists SET has_more = $1 WHERE id = $2`, hasMore, listID)
	if err != nil {
		return fmt.Errorf("set has_more: %w", err)
	}
	return nil
}

// ResetHasMore restores the has_more flag on every list. Run at process
// start so paging state from a previous run never blocks a fresh sync.
func (s *PostListStore) ResetHasMore() error {
	_, err := s.db.Exec(`UPDATE post_lists SET has_more = TRUE`)
	if err != nil {
		return fmt.Errorf("reset has_more: %w", err)
	}
	return nil
}
