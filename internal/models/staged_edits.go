// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// StagedEdits is the single local scratchpad for in-progress edits that have
// not been confirmed remotely. ItemID is nil while the document has never
// been created remotely; the first successful create attaches the edits to
// the new list item. LastModified strictly reflects the most recent local
// edit and is compared against PostListItem.ModifiedGMT to suppress
// redundant autosave calls.
type StagedEdits struct {
	ID           uuid.UUID  `json:"id"`
	ItemID       *uuid.UUID `json:"item_id,omitempty"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	LastModified time.Time  `json:"last_modified"`
}

// IsEmpty reports whether nothing has been typed yet.
func (s *StagedEdits) IsEmpty() bool {
	return s.Title == "" && s.Content == ""
}
