// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Revision is a snapshot of a post's content returned by a remote autosave.
// ParentID distinguishes the two autosave shapes: 0 means the autosave
// updated the live draft/pending post directly, non-zero means it is a side
// revision attached to a published/scheduled/private post. Revisions are
// looked up by (post, RevisionID) and upserted, never duplicated.
type Revision struct {
	ID              uuid.UUID `json:"id"`
	PostUUID        uuid.UUID `json:"post_uuid"`
	RevisionID      int64     `json:"revision_id"`
	ParentID        int64     `json:"parent_id"`
	AuthorID        int64     `json:"author_id"`
	Title           string    `json:"title"`
	TitleRendered   string    `json:"title_rendered"`
	Content         string    `json:"content"`
	ContentRendered string    `json:"content_rendered"`
	Excerpt         string    `json:"excerpt"`
	ExcerptRendered string    `json:"excerpt_rendered"`
	Slug            string    `json:"slug"`
	Date            time.Time `json:"date"`
	DateGMT         time.Time `json:"date_gmt"`
	Modified        time.Time `json:"modified"`
	ModifiedGMT     time.Time `json:"modified_gmt"`
}
