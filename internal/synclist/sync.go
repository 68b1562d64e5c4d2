// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package synclist keeps the local post lists aligned with the remote site.
// It drives the paged post-index fetches, reconciles the reply pages into
// list items, and pulls full post mirrors for items that lack one.
package synclist

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"

	"pressdesk/internal/bus"
	"pressdesk/internal/cache"
	"pressdesk/internal/database"
	"pressdesk/internal/models"
	"pressdesk/internal/remote"
	"pressdesk/internal/store"
)

// RemoteIndex is the slice of the remote client the syncer issues calls
// through. Calls return immediately; results arrive as bus actions.
type RemoteIndex interface {
	FetchPostIDs(listName string, page int)
	FetchPost(postID int64)
}

// Syncer synchronizes one site's post lists. Reconciliation happens on its
// consumer goroutine, which drains bus actions in arrival order.
type Syncer struct {
	db    *sql.DB
	site  *models.Site
	svc   RemoteIndex
	cache *cache.SyncCache

	lists *store.PostListStore
	items *store.ListItemStore
	posts *store.PostStore
	edits *store.StagedEditsStore

	sub *bus.Subscription

	mu       sync.Mutex
	inFlight map[string]bool // list name -> a paged sync is running
}

// NewSyncer creates a syncer for the given site and subscribes it to the
// dispatcher. Call Run on its own goroutine to start reconciliation.
func NewSyncer(db *sql.DB, dispatcher *bus.Dispatcher, svc RemoteIndex, sc *cache.SyncCache, site *models.Site) *Syncer {
	return &Syncer{
		db:       db,
		site:     site,
		svc:      svc,
		cache:    sc,
		lists:    store.NewPostListStore(db),
		items:    store.NewListItemStore(db),
		posts:    store.NewPostStore(db),
		edits:    store.NewStagedEditsStore(db),
		sub:      dispatcher.Subscribe(),
		inFlight: make(map[string]bool),
	}
}

// Run drains the subscription until Stop closes it.
func (s *Syncer) Run() {
	for action := range s.sub.C() {
		switch a := action.(type) {
		case remote.PostIDsFetchedAction:
			s.handlePostIDsFetched(a)
		case remote.PostFetchedAction:
			s.handlePostFetched(a)
		}
	}
}

// Stop ends reconciliation. Safe to call more than once.
func (s *Syncer) Stop() {
	s.sub.Close()
}

// Sync starts a paged sync of the named list from page one. A sync that
// completed within the freshness window is skipped unless forced, and a
// list already syncing is never started twice.
func (s *Syncer) Sync(ctx context.Context, list string, force bool) {
	if !force && s.cache.IsFresh(ctx, s.site.ID, list) {
		slog.Debug("sync skipped, list is fresh", "list", list)
		return
	}

	s.mu.Lock()
	if s.inFlight[list] {
		s.mu.Unlock()
		slog.Debug("sync already running", "list", list)
		return
	}
	s.inFlight[list] = true
	s.mu.Unlock()

	slog.Info("sync started", "list", list, "forced", force)
	s.svc.FetchPostIDs(list, 1)
}

// SyncNextPage requests the next remote page for a list that still has
// more. No-op when the list is unknown or fully paged in.
func (s *Syncer) SyncNextPage(list string, page int) {
	l, err := s.lists.FindByName(s.site.ID, list)
	if err != nil {
		slog.Error("sync next page lookup failed", "list", list, "error", err)
		return
	}
	if l == nil || !l.HasMore {
		return
	}
	s.svc.FetchPostIDs(list, page)
}

// handlePostIDsFetched reconciles one page of the remote post index. Items
// are upserted keyed by remote post ID, so replaying a page is harmless.
func (s *Syncer) handlePostIDsFetched(a remote.PostIDsFetchedAction) {
	if a.Err != nil {
		slog.Error("post index fetch failed", "list", a.ListName, "page", a.Page, "error", a.Err)
		s.finish(a.ListName)
		return
	}

	var missing []int64
	err := database.WithTx(s.db, func(tx *sql.Tx) error {
		lists := s.lists.WithTx(tx)
		items := s.items.WithTx(tx)

		list, err := lists.Ensure(s.site.ID, a.ListName)
		if err != nil {
			return err
		}

		for _, rp := range a.Payload {
			item, err := items.Upsert(&models.PostListItem{
				SiteID:      s.site.ID,
				PostID:      rp.PostID,
				DateGMT:     rp.DateGMT,
				ModifiedGMT: rp.ModifiedGMT,
			})
			if err != nil {
				return err
			}
			if err := lists.AddMember(list.ID, item.ID); err != nil {
				return err
			}
			if item.PostUUID == nil && !item.Syncing {
				if err := items.SetSyncing(item.ID, true); err != nil {
					return err
				}
				missing = append(missing, item.PostID)
			}
		}

		return lists.SetHasMore(list.ID, a.HasMore)
	})
	if err != nil {
		slog.Error("post index reconciliation failed", "list", a.ListName, "page", a.Page, "error", err)
		s.finish(a.ListName)
		return
	}

	// Items synced from the index alone have no local post mirror yet.
	for _, postID := range missing {
		s.svc.FetchPost(postID)
	}

	if a.HasMore {
		s.svc.FetchPostIDs(a.ListName, a.Page+1)
		return
	}

	s.cache.MarkSynced(context.Background(), s.site.ID, a.ListName)
	s.finish(a.ListName)
	slog.Info("sync completed", "list", a.ListName, "pages", a.Page)
}

// handlePostFetched installs or refreshes the local post mirror for a
// fetched post and clears the item's syncing flag.
func (s *Syncer) handlePostFetched(a remote.PostFetchedAction) {
	item, err := s.items.FindByRemoteID(s.site.ID, a.PostID)
	if err != nil {
		slog.Error("fetched post lookup failed", "post", a.PostID, "error", err)
		return
	}
	if item == nil {
		// Fetched on behalf of someone else, or the item is gone.
		return
	}

	if a.Err != nil {
		slog.Error("post fetch failed", "post", a.PostID, "error", a.Err)
		if err := s.items.SetSyncing(item.ID, false); err != nil {
			slog.Error("clear syncing failed", "item", item.ID, "error", err)
		}
		return
	}

	err = database.WithTx(s.db, func(tx *sql.Tx) error {
		posts := s.posts.WithTx(tx)
		items := s.items.WithTx(tx)

		post, err := posts.FindByRemoteID(s.site.ID, a.PostID)
		if err != nil {
			return err
		}
		if post == nil {
			post, err = posts.Create(a.Payload.ToPost(s.site.ID))
			if err != nil {
				return err
			}
		} else {
			a.Payload.ApplyTo(post)
			if err := posts.Update(post); err != nil {
				return err
			}
		}

		if item.PostUUID == nil {
			if err := items.AttachPost(item.ID, post.ID); err != nil {
				return err
			}
		}
		if err := items.UpdateDates(item.ID, post.DateGMT, post.ModifiedGMT, post.RevisionCount); err != nil {
			return err
		}
		return items.SetSyncing(item.ID, false)
	})
	if err != nil {
		slog.Error("fetched post reconciliation failed", "post", a.PostID, "error", err)
	}
}

func (s *Syncer) finish(list string) {
	s.mu.Lock()
	delete(s.inFlight, list)
	s.mu.Unlock()
}
