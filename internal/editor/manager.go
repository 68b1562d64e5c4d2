// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"pressdesk/internal/bus"
	"pressdesk/internal/models"
	"pressdesk/internal/store"
)

// Manager owns the open editing sessions. It is the explicit replacement
// for process-wide store singletons: constructed once at startup and passed
// to the components that need it.
type Manager struct {
	db         *sql.DB
	dispatcher *bus.Dispatcher
	svc        RemoteService
	site       *models.Site
	strict     bool

	posts     *store.PostStore
	items     *store.ListItemStore
	lists     *store.PostListStore
	revisions *store.RevisionStore
	edits     *store.StagedEditsStore

	mu       sync.Mutex
	sessions map[uuid.UUID]*Coordinator
}

// NewManager creates a session manager for the given site. strict enables
// fail-loud behavior on impossible reconciliation states (development).
func NewManager(db *sql.DB, dispatcher *bus.Dispatcher, svc RemoteService, site *models.Site, strict bool) *Manager {
	return &Manager{
		db:         db,
		dispatcher: dispatcher,
		svc:        svc,
		site:       site,
		strict:     strict,
		posts:      store.NewPostStore(db),
		items:      store.NewListItemStore(db),
		lists:      store.NewPostListStore(db),
		revisions:  store.NewRevisionStore(db),
		edits:      store.NewStagedEditsStore(db),
		sessions:   make(map[uuid.UUID]*Coordinator),
	}
}

// Open starts an editing session. itemID selects an existing list item, or
// nil for a new document: the item's attached scratchpad is reused when one
// exists, otherwise a fresh (detached, for new documents) one is created.
func (m *Manager) Open(itemID *uuid.UUID) (*Coordinator, error) {
	var (
		item   *models.PostListItem
		post   *models.Post
		staged *models.StagedEdits
		err    error
	)

	if itemID != nil {
		item, err = m.items.FindByID(*itemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, fmt.Errorf("open session: list item %s not found", itemID)
		}

		staged, err = m.edits.FindByItemID(item.ID)
		if err != nil {
			return nil, err
		}
		if staged == nil {
			staged, err = m.edits.Create(&item.ID)
			if err != nil {
				return nil, err
			}
			// Seed the scratchpad from the post mirror so the editor opens
			// with the current content.
			if item.PostUUID != nil {
				if post, err = m.posts.FindByID(*item.PostUUID); err != nil {
					return nil, err
				}
				if post != nil {
					staged.Title = post.Title
					staged.Content = post.Content
					if uerr := m.edits.Update(staged); uerr != nil {
						return nil, uerr
					}
				}
			}
		} else if item.PostUUID != nil {
			if post, err = m.posts.FindByID(*item.PostUUID); err != nil {
				return nil, err
			}
		}
	} else {
		staged, err = m.edits.Create(nil)
		if err != nil {
			return nil, err
		}
	}

	c := &Coordinator{
		id:          uuid.New(),
		site:        m.site,
		db:          m.db,
		posts:       m.posts,
		items:       m.items,
		lists:       m.lists,
		revisions:   m.revisions,
		edits:       m.edits,
		svc:         m.svc,
		strict:      m.strict,
		staged:      staged,
		item:        item,
		post:        post,
		onTerminate: m.remove,
	}
	c.sub = m.dispatcher.Subscribe()

	m.mu.Lock()
	m.sessions[c.id] = c
	m.mu.Unlock()

	go c.run()

	slog.Info("editing session opened", "session", c.id, "attached", item != nil)
	return c, nil
}

// Get returns an open session by ID, or nil.
func (m *Manager) Get(id uuid.UUID) *Coordinator {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id]
}

// Close ends a session without touching its staged edits, so they are
// picked up again the next time the item is opened.
func (m *Manager) Close(id uuid.UUID) {
	m.mu.Lock()
	c := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if c != nil {
		c.sub.Close()
		slog.Info("editing session closed", "session", id)
	}
}

// CloseAll ends every open session. Used at shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := make([]*Coordinator, 0, len(m.sessions))
	for _, c := range m.sessions {
		sessions = append(sessions, c)
	}
	m.sessions = make(map[uuid.UUID]*Coordinator)
	m.mu.Unlock()

	for _, c := range sessions {
		c.sub.Close()
	}
}

// remove drops a terminated session from the registry. Called from the
// session's own consumer goroutine, so the subscription is closed
// asynchronously to avoid closing the channel being ranged over.
func (m *Manager) remove(id uuid.UUID) {
	m.mu.Lock()
	c := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if c != nil {
		go c.sub.Close()
	}
}
