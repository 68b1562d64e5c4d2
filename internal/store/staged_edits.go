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

// stagedColumns lists all columns for staged_edits SELECTs and RETURNING clauses.
const stagedColumns = `id, item_id, title, content, last_modified`

// StagedEditsStore provides access to the local edit scratchpads.
type StagedEditsStore struct {
	db DBTX
}

// NewStagedEditsStore creates a new StagedEditsStore with the given database connection.
func NewStagedEditsStore(db DBTX) *StagedEditsStore {
	return &StagedEditsStore{db: db}
}

// WithTx returns a StagedEditsStore bound to the given transaction.
func (s *StagedEditsStore) WithTx(tx *sql.Tx) *StagedEditsStore {
	return &StagedEditsStore{db: tx}
}

// scanStaged scans a single staged_edits row.
func scanStaged(scanner interface{ Scan(...any) error }) (*models.StagedEdits, error) {
	e := &models.StagedEdits{}
	if err := scanner.Scan(&e.ID, &e.ItemID, &e.Title, &e.Content, &e.LastModified); err != nil {
		return nil, err
	}
	return e, nil
}

// Create inserts a new scratchpad, detached unless itemID is given.
func (s *StagedEditsStore) Create(itemID *uuid.UUID) (*models.StagedEdits, error) {
	row := s.db.QueryRow(`
		INSERT INTO staged_edits (item_id) VALUES ($1)
		RETURNING `+stagedColumns,
		itemID,
	)
	created, err := scanStaged(row)
	if err != nil {
		return nil, fmt.Errorf("create staged edits: %w", err)
	}
	return created, nil
}

// FindByID retrieves a scratchpad by its UUID. Returns nil if not found.
func (s *StagedEditsStore) FindByID(id uuid.UUID) (*models.StagedEdits, error) {
	row := s.db.QueryRow(`SELECT `+stagedColumns+` FROM staged_edits WHERE id = $1`, id)
	e, err := scanStaged(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find staged edits by id: %w", err)
	}
	return e, nil
}

// FindByItemID retrieves the scratchpad attached to a list item. Returns nil
// if the item has no staged edits.
func (s *StagedEditsStore) FindByItemID(itemID uuid.UUID) (*models.StagedEdits, error) {
	row := s.db.QueryRow(`SELECT `+stagedColumns+` FROM staged_edits WHERE item_id = $1`, itemID)
	e, err := scanStaged(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find staged edits by item: %w", err)
	}
	return e, nil
}

// Update persists the staged title, content and last-modified timestamp.
func (s *StagedEditsStore) Update(e *models.StagedEdits) error {
	_, err := s.db.Exec(`
		UPDATE staged_edits SET title = $1, content = $2, last_modified = $3
		WHERE id = $4
	`, e.Title, e.Content, e.LastModified, e.ID)
	if err != nil {
		return fmt.Errorf("update staged edits: %w", err)
	}
	return nil
}

// Attach links a detached scratchpad to its list item after the first
// successful remote create.
func (s *StagedEditsStore) Attach(id, itemID uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE staged_edits SET item_id = $1 WHERE id = $2`, itemID, id)
	if err != nil {
		return fmt.Errorf("attach staged edits: %w", err)
	}
	return nil
}

// Delete removes a scratchpad entirely.
func (s *StagedEditsStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM staged_edits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete staged edits: %w", err)
	}
	return nil
}

// PurgeOrphans deletes detached scratchpads whose last edit is older than
// the given age. The age guard keeps a live session that has not created its
// post yet from being reclaimed from under the user. Returns the number of
// rows removed.
func (s *StagedEditsStore) PurgeOrphans(olderThan time.Duration) (int64, error) {
	res, err := s.db.Exec(`
		DELETE FROM staged_edits
		WHERE item_id IS NULL AND last_modified < $1
	`, time.Now().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("purge orphan staged edits: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge orphan staged edits: rows affected: %w", err)
	}
	return n, nil
}
