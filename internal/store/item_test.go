// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"
	"time"

	"pressdesk/internal/models"
)

func TestListEnsureAndMembership(t *testing.T) {
	db := testDB(t)
	site := testSite(t, db)
	lists := NewPostListStore(db)
	items := NewListItemStore(db)

	list, err := lists.Ensure(site.ID, models.PostListAll)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	again, err := lists.Ensure(site.ID, models.PostListAll)
	if err != nil {
		t.Fatalf("Ensure again: %v", err)
	}
	if again.ID != list.ID {
		t.Errorf("expected same list, got %v and %v", list.ID, again.ID)
	}

	item, err := items.Create(&models.PostListItem{SiteID: site.ID, PostID: 1})
	if err != nil {
		t.Fatalf("Create item: %v", err)
	}

	// Adding the same member twice is a no-op.
	if err := lists.AddMember(list.ID, item.ID); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if err := lists.AddMember(list.ID, item.ID); err != nil {
		t.Fatalf("AddMember twice: %v", err)
	}

	got, err := items.ListByList(list.ID, 10, 0)
	if err != nil {
		t.Fatalf("ListByList: %v", err)
	}
	if len(got) != 1 || got[0].ID != item.ID {
		t.Errorf("membership: got %+v", got)
	}
}

func TestItemUpsertRefreshesDatesAndKeepsLink(t *testing.T) {
	db := testDB(t)
	site := testSite(t, db)
	items := NewListItemStore(db)
	posts := NewPostStore(db)

	old := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	item, err := items.Upsert(&models.PostListItem{
		SiteID: site.ID, PostID: 5, DateGMT: old, ModifiedGMT: old,
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	post, err := posts.Create(&models.Post{SiteID: site.ID, PostID: 5})
	if err != nil {
		t.Fatalf("Create post: %v", err)
	}
	if err := items.AttachPost(item.ID, post.ID); err != nil {
		t.Fatalf("AttachPost: %v", err)
	}

	newer := old.Add(48 * time.Hour)
	refreshed, err := items.Upsert(&models.PostListItem{
		SiteID: site.ID, PostID: 5, DateGMT: old, ModifiedGMT: newer, RevisionCount: 2,
	})
	if err != nil {
		t.Fatalf("Upsert refresh: %v", err)
	}
	if refreshed.ID != item.ID {
		t.Fatalf("expected same row, got %v and %v", item.ID, refreshed.ID)
	}
	if !refreshed.ModifiedGMT.Equal(newer) || refreshed.RevisionCount != 2 {
		t.Errorf("dates not refreshed: %+v", refreshed)
	}
	if refreshed.PostUUID == nil || *refreshed.PostUUID != post.ID {
		t.Errorf("post link must survive the upsert, got %v", refreshed.PostUUID)
	}
}

func TestItemListOrderedByModified(t *testing.T) {
	db := testDB(t)
	site := testSite(t, db)
	lists := NewPostListStore(db)
	items := NewListItemStore(db)

	list, err := lists.Ensure(site.ID, models.PostListAll)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i, postID := range []int64{10, 11, 12} {
		item, err := items.Create(&models.PostListItem{
			SiteID:      site.ID,
			PostID:      postID,
			DateGMT:     base,
			ModifiedGMT: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if err := lists.AddMember(list.ID, item.ID); err != nil {
			t.Fatalf("AddMember: %v", err)
		}
	}

	got, err := items.ListByList(list.ID, 2, 0)
	if err != nil {
		t.Fatalf("ListByList: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("limit: got %d items", len(got))
	}
	if got[0].PostID != 12 || got[1].PostID != 11 {
		t.Errorf("order: got %d, %d; want 12, 11", got[0].PostID, got[1].PostID)
	}

	rest, err := items.ListByList(list.ID, 2, 2)
	if err != nil {
		t.Fatalf("ListByList offset: %v", err)
	}
	if len(rest) != 1 || rest[0].PostID != 10 {
		t.Errorf("offset page: got %+v", rest)
	}
}

func TestItemSyncFlags(t *testing.T) {
	db := testDB(t)
	site := testSite(t, db)
	lists := NewPostListStore(db)
	items := NewListItemStore(db)

	list, err := lists.Ensure(site.ID, models.PostListAll)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	item, err := items.Create(&models.PostListItem{SiteID: site.ID, PostID: 20})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := items.SetSyncing(item.ID, true); err != nil {
		t.Fatalf("SetSyncing: %v", err)
	}
	if err := lists.SetHasMore(list.ID, false); err != nil {
		t.Fatalf("SetHasMore: %v", err)
	}

	// Startup housekeeping wipes both flags.
	if err := items.ResetSyncing(); err != nil {
		t.Fatalf("ResetSyncing: %v", err)
	}
	if err := lists.ResetHasMore(); err != nil {
		t.Fatalf("ResetHasMore: %v", err)
	}

	gotItem, err := items.FindByID(item.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if gotItem.Syncing {
		t.Error("expected syncing cleared")
	}
	gotList, err := lists.FindByName(site.ID, models.PostListAll)
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if !gotList.HasMore {
		t.Error("expected has_more restored")
	}
}
