// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pressdesk/internal/models"
)

// itemColumns lists all columns for post_list_items SELECTs and RETURNING clauses.
const itemColumns = `id, site_id, post_uuid, post_id, date_gmt, modified_gmt,
	revision_count, syncing`

// ListItemStore provides access to post list items.
type ListItemStore struct {
	db DBTX
}

// NewListItemStore creates a new ListItemStore with the given database connection.
func NewListItemStore(db DBTX) *ListItemStore {
	return &ListItemStore{db: db}
}

// WithTx returns a ListItemStore bound to the given transaction.
func (s *ListItemStore) WithTx(tx *sql.Tx) *ListItemStore {
	return &ListItemStore{db: tx}
}

// scanItem scans a single post_list_items row.
func scanItem(scanner interface{ Scan(...any) error }) (*models.PostListItem, error) {
	i := &models.PostListItem{}
	err := scanner.Scan(
		&i.ID, &i.SiteID, &i.PostUUID, &i.PostID, &i.DateGMT, &i.ModifiedGMT,
		&i.RevisionCount, &i.Syncing,
	)
	if err != nil {
		return nil, err
	}
	return i, nil
}

// Create inserts a new list item and returns it with the generated UUID.
func (s *ListItemStore) Create(i *models.PostListItem) (*models.PostListItem, error) {
	row := s.db.QueryRow(`
		INSERT INTO post_list_items (site_id, post_uuid, post_id, date_gmt,
			modified_gmt, revision_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+itemColumns,
		i.SiteID, i.PostUUID, i.PostID, i.DateGMT, i.ModifiedGMT, i.RevisionCount,
	)
	created, err := scanItem(row)
	if err != nil {
		return nil, fmt.Errorf("create list item: %w", err)
	}
	return created, nil
}

// Upsert inserts or refreshes a list item keyed by (site, remote post id).
// Used by the paged sync: date fields from the remote index are always
// taken, the local post_uuid link is preserved.
func (s *ListItemStore) Upsert(i *models.PostListItem) (*models.PostListItem, error) {
	row := s.db.QueryRow(`
		INSERT INTO post_list_items (site_id, post_uuid, post_id, date_gmt,
			modified_gmt, revision_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (site_id, post_id) DO UPDATE SET
			date_gmt = EXCLUDED.date_gmt,
			modified_gmt = EXCLUDED.modified_gmt,
			revision_count = EXCLUDED.revision_count
		RETURNING `+itemColumns,
		i.SiteID, i.PostUUID, i.PostID, i.DateGMT, i.ModifiedGMT, i.RevisionCount,
	)
	upserted, err := scanItem(row)
	if err != nil {
		return nil, fmt.Errorf("upsert list item: %w", err)
	}
	return upserted, nil
}

// FindByID retrieves a list item by its UUID. Returns nil if not found.
func (s *ListItemStore) FindByID(id uuid.UUID) (*models.PostListItem, error) {
	row := s.db.QueryRow(`SELECT `+itemColumns+` FROM post_list_items WHERE id = $1`, id)
	i, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find list item by id: %w", err)
	}
	return i, nil
}

// FindByRemoteID retrieves a list item by the remote post identifier within
// a site. Returns nil if not found.
func (s *ListItemStore) FindByRemoteID(siteID uuid.UUID, postID int64) (*models.PostListItem, error) {
	row := s.db.QueryRow(`
		SELECT `+itemColumns+` FROM post_list_items
		WHERE site_id = $1 AND post_id = $2
	`, siteID, postID)
	i, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find list item by remote id: %w", err)
	}
	return i, nil
}

// ListByList returns the items belonging to a list, newest modification
// first, with offset pagination for list views.
func (s *ListItemStore) ListByList(listID uuid.UUID, limit, offset int) ([]models.PostListItem, error) {
	rows, err := s.db.Query(`
		SELECT i.id, i.site_id, i.post_uuid, i.post_id, i.date_gmt,
		       i.modified_gmt, i.revision_count, i.syncing
		FROM post_list_items i
		JOIN post_list_members m ON m.item_id = i.id
		WHERE m.list_id = $1
		ORDER BY i.modified_gmt DESC
		LIMIT $2 OFFSET $3
	`, listID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []models.PostListItem
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan list item: %w", err)
		}
		items = append(items, *i)
	}
	return items, rows.Err()
}

// UpdateDates propagates date and revision-count fields onto the item so
// list views reflect a reconciled change.
func (s *ListItemStore) UpdateDates(id uuid.UUID, dateGMT, modifiedGMT time.Time, revisionCount int) error {
	_, err := s.db.Exec(`
		UPDATE post_list_items
		SET date_gmt = $1, modified_gmt = $2, revision_count = $3
		WHERE id = $4
	`, dateGMT, modifiedGMT, revisionCount, id)
	if err != nil {
		return fmt.Errorf("update item dates: %w", err)
	}
	return nil
}

// AttachPost links a list item to its local post mirror.
func (s *ListItemStore) AttachPost(id, postUUID uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE post_list_items SET post_uuid = $1 WHERE id = $2`, postUUID, id)
	if err != nil {
		return fmt.Errorf("attach post to item: %w", err)
	}
	return nil
}

// SetSyncing flips the per-item syncing flag.
func (s *ListItemStore) SetSyncing(id uuid.UUID, syncing bool) error {
	_, err := s.db.Exec(`UPDATE post_list_items SET syncing = $1 WHERE id = $2`, syncing, id)
	if err != nil {
		return fmt.Errorf("set syncing: %w", err)
	}
	return nil
}

// ResetSyncing clears the syncing flag on every item. Run at process start
// so a crash mid-sync never leaves items stuck in the syncing state.
func (s *ListItemStore) ResetSyncing() error {
	_, err := s.db.Exec(`UPDATE post_list_items SET syncing = FALSE WHERE syncing`)
	if err != nil {
		return fmt.Errorf("reset syncing: %w", err)
	}
	return nil
}
