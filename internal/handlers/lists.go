// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pressdesk/internal/models"
	"pressdesk/internal/store"
	"pressdesk/internal/synclist"
)

// defaultPageSize bounds list responses when the client does not ask for
// a specific limit.
const defaultPageSize = 50

// Lists groups the post-list HTTP handlers.
type Lists struct {
	site   *models.Site
	lists  *store.PostListStore
	items  *store.ListItemStore
	syncer *synclist.Syncer
}

// NewLists creates a new Lists handler group with the given dependencies.
func NewLists(db *sql.DB, site *models.Site, syncer *synclist.Syncer) *Lists {
	return &Lists{
		site:   site,
		lists:  store.NewPostListStore(db),
		items:  store.NewListItemStore(db),
		syncer: syncer,
	}
}

// Items returns one page of a named list, newest modification first.
func (l *Lists) Items(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	list, err := l.lists.FindByName(l.site.ID, name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list lookup failed")
		return
	}
	if list == nil {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}

	limit := queryInt(r, "limit", defaultPageSize)
	offset := queryInt(r, "offset", 0)
	if limit < 1 || limit > 200 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	items, err := l.items.ListByList(list.ID, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list items failed")
		return
	}
	if items == nil {
		items = []models.PostListItem{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"list":     list,
		"items":    items,
		"has_more": list.HasMore,
	})
}

// Sync starts a paged synchronization of a list. force skips the
// freshness gate.
func (l *Lists) Sync(w http.ResponseWriter, r *http.Request) {
	var req struct {
		List  string `json:"list"`
		Force bool   `json:"force"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if req.List == "" {
		req.List = models.PostListAll
	}

	l.syncer.Sync(r.Context(), req.List, req.Force)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "syncing", "list": req.List})
}

// NextPage requests one more remote page for a list that has more.
func (l *Lists) NextPage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var req struct {
		Page int `json:"page"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if req.Page < 2 {
		writeError(w, http.StatusUnprocessableEntity, "page must be 2 or higher")
		return
	}

	l.syncer.SyncNextPage(name, req.Page)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "syncing", "list": name})
}

// queryInt parses an integer query parameter with a fallback.
func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
