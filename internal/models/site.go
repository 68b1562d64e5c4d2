// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the entities mirrored between the local store and
// the remote publishing platform.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Site is a remote publishing endpoint the user is authenticated against.
// It owns the posts and list items synced from that endpoint.
type Site struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}
