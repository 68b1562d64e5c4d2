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

// postColumns lists all columns for posts SELECTs and RETURNING clauses.
const postColumns = `id, site_id, post_id, title, title_rendered, content,
	content_rendered, excerpt, excerpt_rendered, slug, status,
	date, date_gmt, modified, modified_gmt, revision_count`

// PostStore provides access to the canonical local post mirrors.
type PostStore struct {
	db DBTX
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db DBTX) *PostStore {
	return &PostStore{db: db}
}

// WithTx returns a PostStore bound to the given transaction.
func (s *PostStore) WithTx(tx *sql.Tx) *PostStore {
	return &PostStore{db: tx}
}

// scanPost scans a single posts row.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	p := &models.Post{}
	err := scanner.Scan(
		&p.ID, &p.SiteID, &p.PostID, &p.Title, &p.TitleRendered, &p.Content,
		&p.ContentRendered, &p.Excerpt, &p.ExcerptRendered, &p.Slug, &p.Status,
		&p.Date, &p.DateGMT, &p.Modified, &p.ModifiedGMT, &p.RevisionCount,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a new post mirror and returns it with the generated UUID.
func (s *PostStore) Create(p *models.Post) (*models.Post, error) {
	row := s.db.QueryRow(`
		INSERT INTO posts (site_id, post_id, title, title_rendered, content,
			content_rendered, excerpt, excerpt_rendered, slug, status,
			date, date_gmt, modified, modified_gmt, revision_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING `+postColumns,
		p.SiteID, p.PostID, p.Title, p.TitleRendered, p.Content,
		p.ContentRendered, p.Excerpt, p.ExcerptRendered, p.Slug, p.Status,
		p.Date, p.DateGMT, p.Modified, p.ModifiedGMT, p.RevisionCount,
	)
	created, err := scanPost(row)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return created, nil
}

// Update overwrites all mutable fields of an existing post mirror.
func (s *PostStore) Update(p *models.Post) error {
	_, err := s.db.Exec(`
		UPDATE posts SET
			title = $1, title_rendered = $2, content = $3, content_rendered = $4,
			excerpt = $5, excerpt_rendered = $6, slug = $7, status = $8,
			date = $9, date_gmt = $10, modified = $11, modified_gmt = $12,
			revision_count = $13
		WHERE id = $14
	`, p.Title, p.TitleRendered, p.Content, p.ContentRendered,
		p.Excerpt, p.ExcerptRendered, p.Slug, p.Status,
		p.Date, p.DateGMT, p.Modified, p.ModifiedGMT,
		p.RevisionCount, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// FindByID retrieves a post by its local UUID. Returns nil if not found.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// FindByRemoteID retrieves a post by its remote identifier within a site.
// Returns nil if not found.
func (s *PostStore) FindByRemoteID(siteID uuid.UUID, postID int64) (*models.Post, error) {
	row := s.db.QueryRow(`
		SELECT `+postColumns+` FROM posts WHERE site_id = $1 AND post_id = $2
	`, siteID, postID)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by remote id: %w", err)
	}
	return p, nil
}
