// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PostListAll is the default list every created post item is attached to.
const PostListAll = "all"

// PostList is a named collection of post list items for a site. Membership
// is many-to-many: one item can appear in several lists.
type PostList struct {
	ID      uuid.UUID `json:"id"`
	SiteID  uuid.UUID `json:"site_id"`
	Name    string    `json:"name"`
	HasMore bool      `json:"has_more"` // more remote pages available for this list
}

// PostListItem is a lightweight index row referencing a post. It carries
// denormalized date fields for fast list queries and a syncing flag for
// per-item sync bookkeeping. PostID is the remote identifier; PostUUID
// points at the local Post row once one exists.
type PostListItem struct {
	ID            uuid.UUID  `json:"id"`
	SiteID        uuid.UUID  `json:"site_id"`
	PostUUID      *uuid.UUID `json:"post_uuid,omitempty"`
	PostID        int64      `json:"post_id"`
	DateGMT       time.Time  `json:"date_gmt"`
	ModifiedGMT   time.Time  `json:"modified_gmt"`
	RevisionCount int        `json:"revision_count"`
	Syncing       bool       `json:"syncing"`
}
