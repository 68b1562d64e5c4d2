// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// End-to-end API tests: a real router over a real database, with the
// remote site replaced by a recording fake. Skipped without PostgreSQL.
package handlers_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"pressdesk/internal/bus"
	"pressdesk/internal/cache"
	"pressdesk/internal/database"
	"pressdesk/internal/editor"
	"pressdesk/internal/handlers"
	"pressdesk/internal/remote"
	"pressdesk/internal/router"
	"pressdesk/internal/store"
	"pressdesk/internal/synclist"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := "postgres://" + envOr("POSTGRES_USER", "pressdesk") + ":" +
		envOr("POSTGRES_PASSWORD", "changeme") + "@" +
		envOr("POSTGRES_HOST", "localhost") + ":" + envOr("POSTGRES_PORT", "5432") + "/" +
		envOr("POSTGRES_DB", "pressdesk") + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// fakeRemote satisfies both the editor's and the syncer's remote
// interfaces and just records what was asked of it.
type fakeRemote struct {
	mu        sync.Mutex
	pageCalls int
}

func (f *fakeRemote) CreatePost(token uuid.UUID, params remote.PostParams) {}
func (f *fakeRemote) UpdatePost(postID int64, params remote.PostParams)   {}
func (f *fakeRemote) Autosave(postID int64, title, content string)        {}
func (f *fakeRemote) FetchPost(postID int64)                              {}

func (f *fakeRemote) FetchPostIDs(listName string, page int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pageCalls++
}

func (f *fakeRemote) pages() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pageCalls
}

func newTestServer(t *testing.T) (*httptest.Server, *fakeRemote) {
	t.Helper()

	db := testDB(t)
	site, err := store.NewSiteStore(db).Ensure("https://"+uuid.NewString()+".test", "API Test")
	if err != nil {
		t.Fatalf("create site: %v", err)
	}
	t.Cleanup(func() { db.Exec(`DELETE FROM sites WHERE id = $1`, site.ID) })

	d := bus.NewDispatcher()
	svc := &fakeRemote{}

	manager := editor.NewManager(db, d, svc, site, false)
	t.Cleanup(manager.CloseAll)

	// The cache client points nowhere; forced syncs never consult it and
	// an unreachable cache reads as stale anyway.
	sc := cache.NewSyncCache(redis.NewClient(&redis.Options{Addr: "localhost:1"}), time.Minute)
	syncer := synclist.NewSyncer(db, d, svc, sc, site)
	t.Cleanup(syncer.Stop)

	r := router.New(handlers.NewEditor(manager, d), handlers.NewLists(db, site, syncer), "")
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, svc
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), `"ok"`) {
		t.Errorf("body: %s", body)
	}
}

func TestSessionLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	// Open a session for a new document.
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/sessions", map[string]any{})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("open: got %d: %s", resp.StatusCode, body)
	}
	var state struct {
		SessionID uuid.UUID `json:"session_id"`
		Staged    struct {
			Title   string `json:"title"`
			Content string `json:"content"`
		} `json:"staged"`
		HasLocalChanges bool `json:"has_local_changes"`
	}
	if err := json.Unmarshal(body, &state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	base := fmt.Sprintf("%s/api/sessions/%s", srv.URL, state.SessionID)

	// Stage some content.
	resp, body = doJSON(t, http.MethodPost, base+"/stage", map[string]string{
		"title": "First draft", "content": "Hello",
	})
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("stage: got %d: %s", resp.StatusCode, body)
	}

	// Staging is asynchronous; poll the snapshot.
	deadline := time.Now().Add(2 * time.Second)
	for {
		_, body = doJSON(t, http.MethodGet, base, nil)
		if err := json.Unmarshal(body, &state); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if state.Staged.Title == "First draft" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("staged title never landed: %s", body)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if !state.HasLocalChanges {
		t.Error("staged content on a new document is a local change")
	}

	// Unknown save intent is rejected.
	resp, _ = doJSON(t, http.MethodPost, base+"/save", map[string]string{"intent": "yeet"})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("bad intent: got %d", resp.StatusCode)
	}

	// Close keeps the scratchpad but forgets the session.
	resp, _ = doJSON(t, http.MethodDelete, base, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("close: got %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodGet, base, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("closed session: got %d, want 404", resp.StatusCode)
	}
}

func TestSessionBadRequests(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/sessions/not-a-uuid", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid id: got %d, want 400", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/sessions/"+uuid.NewString(), nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown id: got %d, want 404", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/sessions", map[string]any{
		"item_id": uuid.New(),
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("unknown item: got %d, want 422", resp.StatusCode)
	}
}

func TestPreview(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/preview", map[string]string{
		"content": "# Title\n\nwith *emphasis*",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("preview: got %d: %s", resp.StatusCode, body)
	}
	var out struct {
		HTML string `json:"html"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(out.HTML, "<h1") || !strings.Contains(out.HTML, "<em>emphasis</em>") {
		t.Errorf("html: %q", out.HTML)
	}
}

func TestSyncAndLists(t *testing.T) {
	srv, svc := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/sync", map[string]any{"force": true})
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("sync: got %d", resp.StatusCode)
	}
	if svc.pages() != 1 {
		t.Errorf("expected one index fetch, got %d", svc.pages())
	}

	// No page has been reconciled yet, so the list does not exist.
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/lists/all/items", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown list: got %d, want 404", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/lists/all/next-page", map[string]int{"page": 1})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("page 1 via next-page: got %d, want 422", resp.StatusCode)
	}
}
