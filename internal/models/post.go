// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus is the remote publishing state of a post.
type PostStatus string

const (
	PostStatusPublish PostStatus = "publish"
	PostStatusPrivate PostStatus = "private"
	PostStatusDraft   PostStatus = "draft"
	PostStatusPending PostStatus = "pending"
	PostStatusTrash   PostStatus = "trash"
)

// Post is the canonical local mirror of a remote document. A row is created
// only after a successful remote create, so PostID is always the remote
// identifier assigned by the platform.
//
// Title, Content and Excerpt each carry the raw editable value and the
// remote-rendered HTML. Date/Modified come in a local and a GMT-normalized
// pair, matching the platform's wire format.
type Post struct {
	ID              uuid.UUID  `json:"id"`
	SiteID          uuid.UUID  `json:"site_id"`
	PostID          int64      `json:"post_id"`
	Title           string     `json:"title"`
	TitleRendered   string     `json:"title_rendered"`
	Content         string     `json:"content"`
	ContentRendered string     `json:"content_rendered"`
	Excerpt         string     `json:"excerpt"`
	ExcerptRendered string     `json:"excerpt_rendered"`
	Slug            string     `json:"slug"`
	Status          PostStatus `json:"status"`
	Date            time.Time  `json:"date"`
	DateGMT         time.Time  `json:"date_gmt"`
	Modified        time.Time  `json:"modified"`
	ModifiedGMT     time.Time  `json:"modified_gmt"`
	RevisionCount   int        `json:"revision_count"`
}
