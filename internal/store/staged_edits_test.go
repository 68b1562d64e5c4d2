// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"
	"time"

	"pressdesk/internal/models"
)

func TestStagedEditsAttachLifecycle(t *testing.T) {
	db := testDB(t)
	site := testSite(t, db)
	items := NewListItemStore(db)
	edits := NewStagedEditsStore(db)

	// Detached scratchpad for a brand-new document.
	staged, err := edits.Create(nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { db.Exec(`DELETE FROM staged_edits WHERE id = $1`, staged.ID) })
	if staged.ItemID != nil {
		t.Fatal("expected detached scratchpad")
	}

	staged.Title = "Draft title"
	staged.Content = "Draft body"
	staged.LastModified = time.Now()
	if err := edits.Update(staged); err != nil {
		t.Fatalf("Update: %v", err)
	}

	item, err := items.Create(&models.PostListItem{SiteID: site.ID, PostID: 50})
	if err != nil {
		t.Fatalf("Create item: %v", err)
	}
	if err := edits.Attach(staged.ID, item.ID); err != nil {
		t.Fatalf("Attach: %v", err)
	}

	found, err := edits.FindByItemID(item.ID)
	if err != nil {
		t.Fatalf("FindByItemID: %v", err)
	}
	if found == nil || found.ID != staged.ID {
		t.Fatalf("expected attached scratchpad, got %+v", found)
	}
	if found.Title != "Draft title" {
		t.Errorf("title: got %q", found.Title)
	}
}

func TestStagedEditsPurgeOrphansSparesRecent(t *testing.T) {
	db := testDB(t)
	site := testSite(t, db)
	items := NewListItemStore(db)
	edits := NewStagedEditsStore(db)

	stale, err := edits.Create(nil)
	if err != nil {
		t.Fatalf("Create stale: %v", err)
	}
	t.Cleanup(func() { db.Exec(`DELETE FROM staged_edits WHERE id = $1`, stale.ID) })
	if _, err := db.Exec(
		`UPDATE staged_edits SET last_modified = $1 WHERE id = $2`,
		time.Now().Add(-48*time.Hour), stale.ID,
	); err != nil {
		t.Fatalf("age stale scratchpad: %v", err)
	}

	fresh, err := edits.Create(nil)
	if err != nil {
		t.Fatalf("Create fresh: %v", err)
	}
	t.Cleanup(func() { db.Exec(`DELETE FROM staged_edits WHERE id = $1`, fresh.ID) })

	// An attached scratchpad is never an orphan, however old.
	item, err := items.Create(&models.PostListItem{SiteID: site.ID, PostID: 60})
	if err != nil {
		t.Fatalf("Create item: %v", err)
	}
	attached, err := edits.Create(&item.ID)
	if err != nil {
		t.Fatalf("Create attached: %v", err)
	}
	if _, err := db.Exec(
		`UPDATE staged_edits SET last_modified = $1 WHERE id = $2`,
		time.Now().Add(-48*time.Hour), attached.ID,
	); err != nil {
		t.Fatalf("age attached scratchpad: %v", err)
	}

	n, err := edits.PurgeOrphans(24 * time.Hour)
	if err != nil {
		t.Fatalf("PurgeOrphans: %v", err)
	}
	if n < 1 {
		t.Errorf("expected at least one purged row, got %d", n)
	}

	if got, _ := edits.FindByID(stale.ID); got != nil {
		t.Error("stale detached scratchpad must be purged")
	}
	if got, _ := edits.FindByID(fresh.ID); got == nil {
		t.Error("recent detached scratchpad must survive")
	}
	if got, _ := edits.FindByID(attached.ID); got == nil {
		t.Error("attached scratchpad must survive")
	}
}
