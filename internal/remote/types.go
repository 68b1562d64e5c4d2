// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package remote

import (
	"encoding/json"
	"time"
)

// wireTime is the platform's date format: RFC 3339 without a timezone
// designator. GMT-suffixed fields are interpreted as UTC, the rest as the
// site's local time.
const wireTime = "2006-01-02T15:04:05"

// renderable is the platform's raw/rendered pair for editable fields.
type renderable struct {
	Raw      string `json:"raw"`
	Rendered string `json:"rendered"`
}

// wirePost is the REST representation of a post fetched with edit context.
type wirePost struct {
	ID            int64      `json:"id"`
	Date          string     `json:"date"`
	DateGMT       string     `json:"date_gmt"`
	Modified      string     `json:"modified"`
	ModifiedGMT   string     `json:"modified_gmt"`
	Slug          string     `json:"slug"`
	Status        string     `json:"status"`
	Title         renderable `json:"title"`
	Content       renderable `json:"content"`
	Excerpt       renderable `json:"excerpt"`
	RevisionCount int        `json:"revision_count"`
}

// wireRevision is the REST representation of an autosave result.
type wireRevision struct {
	ID          int64      `json:"id"`
	Author      int64      `json:"author"`
	Parent      int64      `json:"parent"`
	Date        string     `json:"date"`
	DateGMT     string     `json:"date_gmt"`
	Modified    string     `json:"modified"`
	ModifiedGMT string     `json:"modified_gmt"`
	Slug        string     `json:"slug"`
	Title       renderable `json:"title"`
	Content     renderable `json:"content"`
	Excerpt     renderable `json:"excerpt"`
}

// RemotePost is the flattened payload delivered with create/update/fetch
// results.
type RemotePost struct {
	PostID          int64
	Date            time.Time
	DateGMT         time.Time
	Modified        time.Time
	ModifiedGMT     time.Time
	Slug            string
	Status          string
	Title           string
	TitleRendered   string
	Content         string
	ContentRendered string
	Excerpt         string
	ExcerptRendered string
	RevisionCount   int
}

// RemoteRevision is the flattened payload delivered with autosave results.
// RevisionID is the identifier of the returned revision object; ParentID is
// zero when the autosave updated the live draft/pending post directly.
type RemoteRevision struct {
	RevisionID      int64
	ParentID        int64
	AuthorID        int64
	Date            time.Time
	DateGMT         time.Time
	Modified        time.Time
	ModifiedGMT     time.Time
	Slug            string
	Title           string
	TitleRendered   string
	Content         string
	ContentRendered string
	Excerpt         string
	ExcerptRendered string
}

// RemotePostID is one row of the paged post index used for list sync.
type RemotePostID struct {
	PostID        int64     `json:"id"`
	DateGMT       time.Time `json:"-"`
	ModifiedGMT   time.Time `json:"-"`
	RevisionCount int       `json:"revision_count"`
}

// wirePostID mirrors RemotePostID with string dates.
type wirePostID struct {
	ID            int64  `json:"id"`
	DateGMT       string `json:"date_gmt"`
	ModifiedGMT   string `json:"modified_gmt"`
	RevisionCount int    `json:"revision_count"`
}

// parseWireTime converts a platform date string. A missing or malformed
// value degrades to the zero time rather than failing the whole payload.
func parseWireTime(s string, loc *time.Location) time.Time {
	t, err := time.ParseInLocation(wireTime, s, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

func decodePost(data []byte) (*RemotePost, error) {
	var w wirePost
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	return &RemotePost{
		PostID:          w.ID,
		Date:            parseWireTime(w.Date, time.Local),
		DateGMT:         parseWireTime(w.DateGMT, time.UTC),
		Modified:        parseWireTime(w.Modified, time.Local),
		ModifiedGMT:     parseWireTime(w.ModifiedGMT, time.UTC),
		Slug:            w.Slug,
		Status:          w.Status,
		Title:           w.Title.Raw,
		TitleRendered:   w.Title.Rendered,
		Content:         w.Content.Raw,
		ContentRendered: w.Content.Rendered,
		Excerpt:         w.Excerpt.Raw,
		ExcerptRendered: w.Excerpt.Rendered,
		RevisionCount:   w.RevisionCount,
	}, nil
}

func decodeRevision(data []byte) (*RemoteRevision, error) {
	var w wireRevision
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	return &RemoteRevision{
		RevisionID:      w.ID,
		ParentID:        w.Parent,
		AuthorID:        w.Author,
		Date:            parseWireTime(w.Date, time.Local),
		DateGMT:         parseWireTime(w.DateGMT, time.UTC),
		Modified:        parseWireTime(w.Modified, time.Local),
		ModifiedGMT:     parseWireTime(w.ModifiedGMT, time.UTC),
		Slug:            w.Slug,
		Title:           w.Title.Raw,
		TitleRendered:   w.Title.Rendered,
		Content:         w.Content.Raw,
		ContentRendered: w.Content.Rendered,
		Excerpt:         w.Excerpt.Raw,
		ExcerptRendered: w.Excerpt.Rendered,
	}, nil
}

func decodePostIDs(data []byte) ([]RemotePostID, error) {
	var ws []wirePostID
	if err := json.Unmarshal(data, &ws); err != nil {
		return nil, err
	}
	ids := make([]RemotePostID, 0, len(ws))
	for _, w := range ws {
		ids = append(ids, RemotePostID{
			PostID:        w.ID,
			DateGMT:       parseWireTime(w.DateGMT, time.UTC),
			ModifiedGMT:   parseWireTime(w.ModifiedGMT, time.UTC),
			RevisionCount: w.RevisionCount,
		})
	}
	return ids, nil
}
