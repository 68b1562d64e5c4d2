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

// revisionColumns lists all columns for revisions SELECTs and RETURNING clauses.
const revisionColumns = `id, post_uuid, revision_id, parent_id, author_id,
	title, title_rendered, content, content_rendered, excerpt, excerpt_rendered,
	slug, date, date_gmt, modified, modified_gmt`

// RevisionStore provides access to autosave revision snapshots.
type RevisionStore struct {
	db DBTX
}

// NewRevisionStore creates a new RevisionStore backed by the given database.
func NewRevisionStore(db DBTX) *RevisionStore {
	return &RevisionStore{db: db}
}

// WithTx returns a RevisionStore bound to the given transaction.
func (s *RevisionStore) WithTx(tx *sql.Tx) *RevisionStore {
	return &RevisionStore{db: tx}
}

// scanRevision scans a single revisions row.
func scanRevision(scanner interface{ Scan(...any) error }) (*models.Revision, error) {
	r := &models.Revision{}
	err := scanner.Scan(
		&r.ID, &r.PostUUID, &r.RevisionID, &r.ParentID, &r.AuthorID,
		&r.Title, &r.TitleRendered, &r.Content, &r.ContentRendered,
		&r.Excerpt, &r.ExcerptRendered, &r.Slug,
		&r.Date, &r.DateGMT, &r.Modified, &r.ModifiedGMT,
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Upsert writes a revision keyed by (post, revision id). Applying the same
// remote payload twice refreshes the existing row instead of duplicating it.
func (s *RevisionStore) Upsert(r *models.Revision) (*models.Revision, error) {
	row := s.db.QueryRow(`
		INSERT INTO revisions (post_uuid, revision_id, parent_id, author_id,
			title, title_rendered, content, content_rendered,
			excerpt, excerpt_rendered, slug, date, date_gmt, modified, modified_gmt)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (post_uuid, revision_id) DO UPDATE SET
			parent_id = EXCLUDED.parent_id,
			author_id = EXCLUDED.author_id,
			title = EXCLUDED.title,
			title_rendered = EXCLUDED.title_rendered,
			content = EXCLUDED.content,
			content_rendered = EXCLUDED.content_rendered,
			excerpt = EXCLUDED.excerpt,
			excerpt_rendered = EXCLUDED.excerpt_rendered,
			slug = EXCLUDED.slug,
			date = EXCLUDED.date,
			date_gmt = EXCLUDED.date_gmt,
			modified = EXCLUDED.modified,
			modified_gmt = EXCLUDED.modified_gmt
		RETURNING `+revisionColumns,
		r.PostUUID, r.RevisionID, r.ParentID, r.AuthorID,
		r.Title, r.TitleRendered, r.Content, r.ContentRendered,
		r.Excerpt, r.ExcerptRendered, r.Slug,
		r.Date, r.DateGMT, r.Modified, r.ModifiedGMT,
	)
	upserted, err := scanRevision(row)
	if err != nil {
		return nil, fmt.Errorf("upsert revision: %w", err)
	}
	return upserted, nil
}

// Find retrieves a revision by (post, revision id). Returns nil if not found.
func (s *RevisionStore) Find(postUUID uuid.UUID, revisionID int64) (*models.Revision, error) {
	row := s.db.QueryRow(`
		SELECT `+revisionColumns+` FROM revisions
		WHERE post_uuid = $1 AND revision_id = $2
	`, postUUID, revisionID)
	r, err := scanRevision(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find revision: %w", err)
	}
	return r, nil
}

// Count returns the number of revisions stored for a post.
func (s *RevisionStore) Count(postUUID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM revisions WHERE post_uuid = $1
	`, postUUID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count revisions: %w", err)
	}
	return count, nil
}

// ListByPost returns all revisions for a post, newest first.
func (s *RevisionStore) ListByPost(postUUID uuid.UUID) ([]models.Revision, error) {
	rows, err := s.db.Query(`
		SELECT `+revisionColumns+` FROM revisions
		WHERE post_uuid = $1
		ORDER BY modified_gmt DESC
	`, postUUID)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	defer rows.Close()

	var revisions []models.Revision
	for rows.Next() {
		r, err := scanRevision(rows)
		if err != nil {
			return nil, fmt.Errorf("scan revision: %w", err)
		}
		revisions = append(revisions, *r)
	}
	return revisions, rows.Err()
}
