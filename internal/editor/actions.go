// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"github.com/google/uuid"

	"pressdesk/internal/models"
)

// SaveIntent is what the user asked for when closing or saving a document.
type SaveIntent string

const (
	SaveIntentPublish          SaveIntent = "publish"
	SaveIntentPublishPrivately SaveIntent = "publish-privately"
	SaveIntentSaveAsDraft      SaveIntent = "save-as-draft"
	SaveIntentSaveAsPending    SaveIntent = "save-as-pending"
	SaveIntentTrash            SaveIntent = "trash"
)

// Status maps the intent to the remote status string it targets.
func (i SaveIntent) Status() (models.PostStatus, bool) {
	switch i {
	case SaveIntentPublish:
		return models.PostStatusPublish, true
	case SaveIntentPublishPrivately:
		return models.PostStatusPrivate, true
	case SaveIntentSaveAsDraft:
		return models.PostStatusDraft, true
	case SaveIntentSaveAsPending:
		return models.PostStatusPending, true
	case SaveIntentTrash:
		return models.PostStatusTrash, true
	}
	return "", false
}

// Edit intents dispatched by the UI layer. Session routes the action to the
// coordinator owning that editing session; other coordinators ignore it.

// StageChangesAction records the editor's current title and content locally.
type StageChangesAction struct {
	Session uuid.UUID
	Title   string
	Content string
}

// AutosaveAction stages the given values and then persists them remotely
// when there is an unsynced local delta.
type AutosaveAction struct {
	Session uuid.UUID
	Title   string
	Content string
}

// DiscardChangesAction throws the staged edits away and ends the session.
type DiscardChangesAction struct {
	Session uuid.UUID
}

// SaveAction creates or updates the remote post with the status the intent
// maps to.
type SaveAction struct {
	Session uuid.UUID
	Intent  SaveIntent
}
