// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// sync.go provides Valkey-backed freshness markers for remote list sync.
// A marker is set when a list finishes synchronizing; while the marker
// lives, further non-forced syncs of that list are skipped entirely.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// syncKeyPrefix is the Valkey key prefix for sync freshness markers.
	syncKeyPrefix = "sync:"

	// DefaultSyncFreshness is how long a completed sync counts as fresh.
	DefaultSyncFreshness = 5 * time.Minute
)

// SyncCache tracks which post lists were synchronized recently.
type SyncCache struct {
	client    *redis.Client
	freshness time.Duration
}

// NewSyncCache creates a sync cache backed by the given Valkey client.
func NewSyncCache(client *redis.Client, freshness time.Duration) *SyncCache {
	if freshness == 0 {
		freshness = DefaultSyncFreshness
	}
	return &SyncCache{client: client, freshness: freshness}
}

// MarkSynced records that the list finished a full sync just now.
func (sc *SyncCache) MarkSynced(ctx context.Context, siteID uuid.UUID, list string) {
	key := listKey(siteID, list)
	if err := sc.client.Set(ctx, key, time.Now().UTC().Format(time.RFC3339), sc.freshness).Err(); err != nil {
		slog.Warn("sync cache set error", "key", key, "error", err)
	}
}

// IsFresh reports whether the list synced within the freshness window.
// Errors count as stale so a broken cache never blocks synchronization.
func (sc *SyncCache) IsFresh(ctx context.Context, siteID uuid.UUID, list string) bool {
	key := listKey(siteID, list)
	err := sc.client.Get(ctx, key).Err()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		slog.Warn("sync cache get error", "key", key, "error", err)
		return false
	}
	slog.Debug("sync freshness hit", "key", key)
	return true
}

// Invalidate drops the freshness marker so the next sync runs regardless.
func (sc *SyncCache) Invalidate(ctx context.Context, siteID uuid.UUID, list string) {
	key := listKey(siteID, list)
	if err := sc.client.Del(ctx, key).Err(); err != nil {
		slog.Warn("sync cache invalidate error", "key", key, "error", err)
	}
}

// InvalidateSite drops every freshness marker of a site by prefix scan.
func (sc *SyncCache) InvalidateSite(ctx context.Context, siteID uuid.UUID) {
	pattern := fmt.Sprintf("%s%s:*", syncKeyPrefix, siteID)
	var cursor uint64
	for {
		keys, nextCursor, err := sc.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			slog.Warn("sync cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := sc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("sync cache bulk delete error", "error", err)
			}
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
}

func listKey(siteID uuid.UUID, list string) string {
	return fmt.Sprintf("%s%s:%s", syncKeyPrefix, siteID, list)
}
