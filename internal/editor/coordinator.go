// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package editor owns editing sessions: the reconciliation engine that keeps
// one document's local and remote state consistent under interleaved user
// edits and asynchronous remote replies.
package editor

import (
	"database/sql"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"pressdesk/internal/bus"
	"pressdesk/internal/database"
	"pressdesk/internal/models"
	"pressdesk/internal/remote"
	"pressdesk/internal/slug"
	"pressdesk/internal/store"
)

// RemoteService is the slice of the remote client a coordinator issues
// calls through. Calls return immediately; results arrive as bus actions.
type RemoteService interface {
	CreatePost(token uuid.UUID, params remote.PostParams)
	UpdatePost(postID int64, params remote.PostParams)
	Autosave(postID int64, title, content string)
}

// Coordinator bridges the editor UI and the content being edited. It is an
// action-driven, single-writer state machine: all mutation happens on the
// session's consumer goroutine, which drains bus actions in arrival order.
// The derived read methods are safe to call from any goroutine.
type Coordinator struct {
	id   uuid.UUID
	site *models.Site

	db        *sql.DB
	posts     *store.PostStore
	items     *store.ListItemStore
	lists     *store.PostListStore
	revisions *store.RevisionStore
	edits     *store.StagedEditsStore

	svc    RemoteService
	sub    *bus.Subscription
	strict bool // panic on impossible reconciliation states (development)

	// onTerminate is called once when the session ends (discard).
	onTerminate func(id uuid.UUID)

	mu          sync.Mutex
	staged      *models.StagedEdits
	item        *models.PostListItem // nil while unattached
	post        *models.Post         // nil until mirrored locally
	createToken uuid.UUID            // zero when no create call is in flight
	lastErr     error
	terminated  bool
}

// ID returns the session identifier actions are routed by.
func (c *Coordinator) ID() uuid.UUID {
	return c.id
}

// run drains the subscription until it is closed. Actions for other
// sessions fall through the type switch guards and are ignored.
func (c *Coordinator) run() {
	for action := range c.sub.C() {
		c.onDispatch(action)
	}
}

func (c *Coordinator) onDispatch(action bus.Action) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.terminated {
		return
	}

	switch a := action.(type) {
	// Remote results
	case remote.PostCreatedAction:
		c.handlePostCreated(a)
	case remote.AutosaveAction:
		c.handleAutosaveResult(a)
	case remote.PostUpdatedAction:
		c.handlePostUpdated(a)
	case remote.PostFetchedAction:
		c.handlePostFetched(a)

	// Edit intents
	case StageChangesAction:
		if a.Session == c.id {
			c.handleStageChanges(a.Title, a.Content)
		}
	case AutosaveAction:
		if a.Session == c.id {
			c.handleAutosave(a.Title, a.Content)
		}
	case DiscardChangesAction:
		if a.Session == c.id {
			c.handleDiscardChanges()
		}
	case SaveAction:
		if a.Session == c.id {
			c.handleSave(a.Intent)
		}
	}
}

// --- Edit and save intents ---

// handleStageChanges updates the scratchpad. Identical values are a no-op:
// no timestamp change, no persistence write, no notification.
func (c *Coordinator) handleStageChanges(title, content string) {
	if title == c.staged.Title && content == c.staged.Content {
		return
	}

	c.staged.Title = title
	c.staged.Content = content
	c.staged.LastModified = time.Now()

	if err := c.edits.Update(c.staged); err != nil {
		slog.Error("persist staged edits failed", "session", c.id, "error", err)
		c.lastErr = err
	}
}

// handleAutosave stages the values, then decides whether remote persistence
// is needed. An unattached session is redirected to the create path; an
// attached one autosaves only when the last known remote state is older
// than the local edit.
func (c *Coordinator) handleAutosave(title, content string) {
	c.handleStageChanges(title, content)

	if c.item == nil {
		// First remote persistence of this document: create a draft.
		c.createPost(models.PostStatusDraft)
		return
	}

	if !c.item.ModifiedGMT.Before(c.staged.LastModified) {
		// Nothing new relative to the last known remote state.
		return
	}

	c.svc.Autosave(c.item.PostID, c.staged.Title, c.staged.Content)
}

// handleDiscardChanges deletes the scratchpad and ends the session.
func (c *Coordinator) handleDiscardChanges() {
	if err := c.edits.Delete(c.staged.ID); err != nil {
		slog.Error("discard staged edits failed", "session", c.id, "error", err)
		c.lastErr = err
		return
	}

	c.terminated = true
	if c.onTerminate != nil {
		c.onTerminate(c.id)
	}
}

func (c *Coordinator) handleSave(intent SaveIntent) {
	status, ok := intent.Status()
	if !ok {
		slog.Warn("unknown save intent", "session", c.id, "intent", intent)
		return
	}

	if c.post == nil {
		c.createPost(status)
		return
	}
	c.updatePost(status)
}

// createPost issues the remote create carrying the staged values. The
// minted token pairs the eventual reply with this session; a later create
// supersedes the token so a stale reply can never attach.
func (c *Coordinator) createPost(status models.PostStatus) {
	c.createToken = uuid.New()
	c.svc.CreatePost(c.createToken, remote.PostParams{
		Title:   c.staged.Title,
		Content: c.staged.Content,
		Status:  string(status),
		Slug:    slug.Generate(c.staged.Title),
	})
}

// updatePost issues the remote update with the post's full current
// parameter set plus the new status.
func (c *Coordinator) updatePost(status models.PostStatus) {
	date := c.post.Date
	c.svc.UpdatePost(c.post.PostID, remote.PostParams{
		Title:   c.post.Title,
		Content: c.post.Content,
		Date:    &date,
		Status:  string(status),
	})
}

// --- Remote result reconciliation ---

// handlePostCreated attaches the session to the newly created post: the
// post mirror, its list item on the site's "all" list, and the scratchpad
// link are committed in one transaction.
func (c *Coordinator) handlePostCreated(a remote.PostCreatedAction) {
	if a.Token != c.createToken || c.createToken == uuid.Nil {
		// A superseded create's late reply; it must not clobber this session.
		slog.Warn("dropping stale create reply", "session", c.id, "token", a.Token)
		return
	}
	c.createToken = uuid.Nil

	if a.Err != nil {
		slog.Error("remote create failed", "session", c.id, "error", a.Err)
		c.lastErr = a.Err
		return
	}

	var (
		post *models.Post
		item *models.PostListItem
	)
	err := database.WithTx(c.db, func(tx *sql.Tx) error {
		var err error

		list, err := c.lists.WithTx(tx).Ensure(c.site.ID, models.PostListAll)
		if err != nil {
			return err
		}

		post, err = c.posts.WithTx(tx).Create(a.Payload.ToPost(c.site.ID))
		if err != nil {
			return err
		}

		item, err = c.items.WithTx(tx).Create(&models.PostListItem{
			SiteID:      c.site.ID,
			PostUUID:    &post.ID,
			PostID:      post.PostID,
			DateGMT:     post.DateGMT,
			ModifiedGMT: post.ModifiedGMT,
		})
		if err != nil {
			return err
		}

		if err := c.lists.WithTx(tx).AddMember(list.ID, item.ID); err != nil {
			return err
		}
		return c.edits.WithTx(tx).Attach(c.staged.ID, item.ID)
	})
	if err != nil {
		slog.Error("reconcile created post failed", "session", c.id, "error", err)
		c.lastErr = err
		return
	}

	c.post = post
	c.item = item
	c.staged.ItemID = &item.ID
	c.lastErr = nil

	slog.Info("post created remotely",
		"session", c.id,
		"post_id", post.PostID,
		"status", post.Status,
	)
}

// handleAutosaveResult merges an autosave reply. ParentID zero means the
// live draft/pending post was updated directly; otherwise a side revision
// was written for a published/scheduled/private post and the live fields
// stay untouched.
func (c *Coordinator) handleAutosaveResult(a remote.AutosaveAction) {
	if c.item == nil || c.item.PostID != a.PostID {
		// Another session's reply.
		return
	}

	if a.Err != nil {
		slog.Error("remote autosave failed", "session", c.id, "error", a.Err)
		c.lastErr = a.Err
		return
	}

	if c.post == nil {
		// An autosave is only issued for an attached post, so its mirror
		// must exist by the time the reply lands.
		slog.Error("autosave reply without a local post mirror",
			"session", c.id, "post_id", a.PostID)
		if c.strict {
			panic("editor: autosave reply without a local post mirror")
		}
		return
	}

	rev := a.Payload
	switch {
	case rev.ParentID == 0:
		c.applyLiveAutosave(rev)

	case rev.RevisionID == c.post.PostID:
		c.applySideAutosave(rev)

	default:
		// The remote returned a revision attributable to neither branch.
		slog.Error("unattributable autosave revision",
			"session", c.id,
			"revision_id", rev.RevisionID,
			"parent_id", rev.ParentID,
			"post_id", c.post.PostID,
		)
		if c.strict {
			panic("editor: unattributable autosave revision")
		}
	}
}

// applyLiveAutosave copies the autosave result onto the post and propagates
// the date fields to the list item so list views reflect the change.
func (c *Coordinator) applyLiveAutosave(rev *remote.RemoteRevision) {
	rev.ApplyToPost(c.post)

	err := database.WithTx(c.db, func(tx *sql.Tx) error {
		if err := c.posts.WithTx(tx).Update(c.post); err != nil {
			return err
		}
		return c.items.WithTx(tx).UpdateDates(
			c.item.ID, c.post.DateGMT, c.post.ModifiedGMT, c.item.RevisionCount,
		)
	})
	if err != nil {
		slog.Error("persist live autosave failed", "session", c.id, "error", err)
		c.lastErr = err
		return
	}

	c.item.DateGMT = c.post.DateGMT
	c.item.ModifiedGMT = c.post.ModifiedGMT
	c.lastErr = nil
}

// applySideAutosave upserts the revision row keyed by (post, revisionID).
// Re-delivery of the same payload refreshes the row instead of duplicating.
func (c *Coordinator) applySideAutosave(rev *remote.RemoteRevision) {
	if _, err := c.revisions.Upsert(rev.ToRevision(c.post.ID)); err != nil {
		slog.Error("persist autosave revision failed", "session", c.id, "error", err)
		c.lastErr = err
		return
	}
	c.lastErr = nil
}

// handlePostUpdated overwrites the post mirror from an update reply and
// propagates date and revision-count fields to the list item. A mismatched
// identifier means this session no longer cares about the reply.
func (c *Coordinator) handlePostUpdated(a remote.PostUpdatedAction) {
	if c.post == nil || c.post.PostID != a.PostID {
		return
	}

	if a.Err != nil {
		slog.Error("remote update failed", "session", c.id, "error", a.Err)
		c.lastErr = a.Err
		return
	}

	a.Payload.ApplyTo(c.post)

	err := database.WithTx(c.db, func(tx *sql.Tx) error {
		if err := c.posts.WithTx(tx).Update(c.post); err != nil {
			return err
		}
		return c.items.WithTx(tx).UpdateDates(
			c.item.ID, c.post.DateGMT, c.post.ModifiedGMT, c.post.RevisionCount,
		)
	})
	if err != nil {
		slog.Error("persist updated post failed", "session", c.id, "error", err)
		c.lastErr = err
		return
	}

	c.item.DateGMT = c.post.DateGMT
	c.item.ModifiedGMT = c.post.ModifiedGMT
	c.item.RevisionCount = c.post.RevisionCount
	c.lastErr = nil
}

// handlePostFetched picks up a post mirror created by the list sync while
// this session was editing an item that had none yet.
func (c *Coordinator) handlePostFetched(a remote.PostFetchedAction) {
	if a.Err != nil || c.post != nil || c.item == nil || c.item.PostID != a.PostID {
		return
	}

	post, err := c.posts.FindByRemoteID(c.site.ID, a.PostID)
	if err != nil {
		slog.Warn("reload fetched post failed", "session", c.id, "error", err)
		return
	}
	if post != nil {
		c.post = post
		c.item.PostUUID = &post.ID
	}
}

// --- Derived state ---

// HasLocalChanges reports whether the scratchpad differs from the last
// known remote state. Empty staged fields are never a change; without a
// backing post any content is new.
func (c *Coordinator) HasLocalChanges() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.staged.IsEmpty() {
		return false
	}
	if c.post == nil {
		return true
	}
	return c.staged.Title != c.post.Title || c.staged.Content != c.post.Content
}

// CanUpdateRemotely reports whether a remote update would change anything,
// for the confirm-before-overwrite affordance.
func (c *Coordinator) CanUpdateRemotely() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.post == nil {
		return false
	}
	return c.staged.Title != c.post.Title || c.staged.Content != c.post.Content
}

// SaveOption describes one entry of the save confirmation sheet.
type SaveOption struct {
	Intent    SaveIntent `json:"intent"`
	Label     string     `json:"label"`
	Available bool       `json:"available"`
}

// SaveOptions returns the save choices valid for the session's current
// state. Trash only makes sense for a document that exists remotely.
func (c *Coordinator) SaveOptions() []SaveOption {
	c.mu.Lock()
	attached := c.post != nil
	c.mu.Unlock()

	return []SaveOption{
		{Intent: SaveIntentPublish, Label: "Publish", Available: true},
		{Intent: SaveIntentPublishPrivately, Label: "Publish Privately", Available: true},
		{Intent: SaveIntentSaveAsDraft, Label: "Save as Draft", Available: true},
		{Intent: SaveIntentSaveAsPending, Label: "Save as Pending", Available: true},
		{Intent: SaveIntentTrash, Label: "Move to Trash", Available: attached},
	}
}

// State is a point-in-time snapshot of the session for the API layer.
type State struct {
	SessionID         uuid.UUID            `json:"session_id"`
	Staged            models.StagedEdits   `json:"staged"`
	Item              *models.PostListItem `json:"item,omitempty"`
	Post              *models.Post         `json:"post,omitempty"`
	HasLocalChanges   bool                 `json:"has_local_changes"`
	CanUpdateRemotely bool                 `json:"can_update_remotely"`
	SaveOptions       []SaveOption         `json:"save_options"`
	LastError         string               `json:"last_error,omitempty"`
	Terminated        bool                 `json:"terminated"`
}

// Snapshot returns the session state for presentation.
func (c *Coordinator) Snapshot() State {
	c.mu.Lock()
	s := State{
		SessionID:  c.id,
		Staged:     *c.staged,
		Terminated: c.terminated,
	}
	if c.item != nil {
		item := *c.item
		s.Item = &item
	}
	if c.post != nil {
		post := *c.post
		s.Post = &post
	}
	if c.lastErr != nil {
		s.LastError = c.lastErr.Error()
	}
	staged, post := c.staged, c.post
	s.HasLocalChanges = derivedHasLocalChanges(staged, post)
	s.CanUpdateRemotely = post != nil &&
		(staged.Title != post.Title || staged.Content != post.Content)
	c.mu.Unlock()

	s.SaveOptions = c.SaveOptions()
	return s
}

func derivedHasLocalChanges(staged *models.StagedEdits, post *models.Post) bool {
	if staged.IsEmpty() {
		return false
	}
	if post == nil {
		return true
	}
	return staged.Title != post.Title || staged.Content != post.Content
}
