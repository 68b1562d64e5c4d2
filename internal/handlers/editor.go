// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"pressdesk/internal/bus"
	"pressdesk/internal/editor"
	"pressdesk/internal/markdown"
)

// Editor groups the editing-session HTTP handlers. Edit intents are
// dispatched onto the bus and reconciled asynchronously; the handlers
// answer with the session snapshot taken right after dispatch.
type Editor struct {
	manager    *editor.Manager
	dispatcher *bus.Dispatcher
}

// NewEditor creates a new Editor handler group with the given dependencies.
func NewEditor(manager *editor.Manager, dispatcher *bus.Dispatcher) *Editor {
	return &Editor{manager: manager, dispatcher: dispatcher}
}

// session resolves the {id} URL parameter to an open session. Returns nil
// after writing the error response.
func (e *Editor) session(w http.ResponseWriter, r *http.Request) *editor.Coordinator {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return nil
	}
	c := e.manager.Get(id)
	if c == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return nil
	}
	return c
}

// Open starts an editing session, either for an existing list item or for
// a brand-new document when item_id is omitted.
func (e *Editor) Open(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID *uuid.UUID `json:"item_id"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	c, err := e.manager.Open(req.ItemID)
	if err != nil {
		slog.Error("open session failed", "error", err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, c.Snapshot())
}

// State returns the session snapshot.
func (e *Editor) State(w http.ResponseWriter, r *http.Request) {
	c := e.session(w, r)
	if c == nil {
		return
	}
	writeJSON(w, http.StatusOK, c.Snapshot())
}

// Close ends the session without touching its staged edits.
func (e *Editor) Close(w http.ResponseWriter, r *http.Request) {
	c := e.session(w, r)
	if c == nil {
		return
	}
	e.manager.Close(c.ID())
	w.WriteHeader(http.StatusNoContent)
}

// Stage records the editor's current title and content locally.
func (e *Editor) Stage(w http.ResponseWriter, r *http.Request) {
	c := e.session(w, r)
	if c == nil {
		return
	}
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if msg := validateDocument(req.Title, req.Content); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	e.dispatcher.Dispatch(editor.StageChangesAction{
		Session: c.ID(),
		Title:   req.Title,
		Content: req.Content,
	})
	writeJSON(w, http.StatusAccepted, c.Snapshot())
}

// Autosave stages the given values and persists them remotely when there
// is an unsynced local delta.
func (e *Editor) Autosave(w http.ResponseWriter, r *http.Request) {
	c := e.session(w, r)
	if c == nil {
		return
	}
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if msg := validateDocument(req.Title, req.Content); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	e.dispatcher.Dispatch(editor.AutosaveAction{
		Session: c.ID(),
		Title:   req.Title,
		Content: req.Content,
	})
	writeJSON(w, http.StatusAccepted, c.Snapshot())
}

// Save creates or updates the remote post with the status the intent maps to.
func (e *Editor) Save(w http.ResponseWriter, r *http.Request) {
	c := e.session(w, r)
	if c == nil {
		return
	}
	var req struct {
		Intent editor.SaveIntent `json:"intent"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if _, ok := req.Intent.Status(); !ok {
		writeError(w, http.StatusUnprocessableEntity, "unknown save intent")
		return
	}

	e.dispatcher.Dispatch(editor.SaveAction{Session: c.ID(), Intent: req.Intent})
	writeJSON(w, http.StatusAccepted, c.Snapshot())
}

// Discard throws the staged edits away and ends the session.
func (e *Editor) Discard(w http.ResponseWriter, r *http.Request) {
	c := e.session(w, r)
	if c == nil {
		return
	}
	e.dispatcher.Dispatch(editor.DiscardChangesAction{Session: c.ID()})
	w.WriteHeader(http.StatusAccepted)
}

// Preview renders staged markdown content to HTML locally.
func (e *Editor) Preview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if msg := validateDocument("", req.Content); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	html, err := markdown.ToHTML(req.Content)
	if err != nil {
		slog.Error("markdown preview failed", "error", err)
		writeError(w, http.StatusInternalServerError, "preview failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"html": html})
}
