// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package remote

import (
	"github.com/google/uuid"

	"pressdesk/internal/models"
)

// ToPost builds a local post mirror from the payload.
func (rp *RemotePost) ToPost(siteID uuid.UUID) *models.Post {
	p := &models.Post{SiteID: siteID}
	rp.ApplyTo(p)
	return p
}

// ApplyTo overwrites a post mirror's mutable fields from the payload.
func (rp *RemotePost) ApplyTo(p *models.Post) {
	p.PostID = rp.PostID
	p.Title = rp.Title
	p.TitleRendered = rp.TitleRendered
	p.Content = rp.Content
	p.ContentRendered = rp.ContentRendered
	p.Excerpt = rp.Excerpt
	p.ExcerptRendered = rp.ExcerptRendered
	p.Slug = rp.Slug
	p.Status = models.PostStatus(rp.Status)
	p.Date = rp.Date
	p.DateGMT = rp.DateGMT
	p.Modified = rp.Modified
	p.ModifiedGMT = rp.ModifiedGMT
	p.RevisionCount = rp.RevisionCount
}

// ApplyToPost copies an autosave result onto the live post. Autosaves only
// change title, content, excerpt and the modification dates, but the date
// pair is taken too in case it tracks the modified date.
func (rr *RemoteRevision) ApplyToPost(p *models.Post) {
	p.Title = rr.Title
	p.TitleRendered = rr.TitleRendered
	p.Content = rr.Content
	p.ContentRendered = rr.ContentRendered
	p.Excerpt = rr.Excerpt
	p.ExcerptRendered = rr.ExcerptRendered
	p.Date = rr.Date
	p.DateGMT = rr.DateGMT
	p.Modified = rr.Modified
	p.ModifiedGMT = rr.ModifiedGMT
}

// ToRevision builds a revision row from a side-autosave payload.
func (rr *RemoteRevision) ToRevision(postUUID uuid.UUID) *models.Revision {
	return &models.Revision{
		PostUUID:        postUUID,
		RevisionID:      rr.RevisionID,
		ParentID:        rr.ParentID,
		AuthorID:        rr.AuthorID,
		Title:           rr.Title,
		TitleRendered:   rr.TitleRendered,
		Content:         rr.Content,
		ContentRendered: rr.ContentRendered,
		Excerpt:         rr.Excerpt,
		ExcerptRendered: rr.ExcerptRendered,
		Slug:            rr.Slug,
		Date:            rr.Date,
		DateGMT:         rr.DateGMT,
		Modified:        rr.Modified,
		ModifiedGMT:     rr.ModifiedGMT,
	}
}
