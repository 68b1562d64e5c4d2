// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package synclist

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"pressdesk/internal/models"
)

// stagedEditsMaxAge is how long a detached scratchpad may sit unattached
// before housekeeping reclaims it. Generous so a slow create reply or an
// editor left open overnight never loses work.
const stagedEditsMaxAge = 24 * time.Hour

// ResetSyncFlags clears transient sync state left over from a previous run:
// per-item syncing flags and per-list paging state. Run at process start.
func (s *Syncer) ResetSyncFlags() error {
	if err := s.items.ResetSyncing(); err != nil {
		return err
	}
	return s.lists.ResetHasMore()
}

// PurgeStaleStagedEdits deletes scratchpads that never got attached to a
// list item and have aged out.
func (s *Syncer) PurgeStaleStagedEdits() error {
	n, err := s.edits.PurgeOrphans(stagedEditsMaxAge)
	if err != nil {
		return err
	}
	if n > 0 {
		slog.Info("purged stale staged edits", "count", n)
	}
	return nil
}

// Housekeeper runs the periodic maintenance jobs on a cron schedule.
type Housekeeper struct {
	cron *cron.Cron
}

// NewHousekeeper schedules a periodic stale-scratchpad purge and an
// opportunistic sync of the site's main list. schedule uses the standard
// five-field cron format.
func NewHousekeeper(syncer *Syncer, schedule string) (*Housekeeper, error) {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		start := time.Now()
		if err := syncer.PurgeStaleStagedEdits(); err != nil {
			slog.Error("housekeeping purge failed", "error", err)
		}
		syncer.Sync(context.Background(), models.PostListAll, false)
		slog.Debug("housekeeping ran", "took", time.Since(start))
	})
	if err != nil {
		return nil, err
	}

	return &Housekeeper{cron: c}, nil
}

// Start begins running scheduled jobs.
func (h *Housekeeper) Start() {
	slog.Info("housekeeping scheduler started")
	h.cron.Start()
}

// Stop halts the scheduler and returns a context that is done once any
// running job finishes.
func (h *Housekeeper) Stop() context.Context {
	return h.cron.Stop()
}
