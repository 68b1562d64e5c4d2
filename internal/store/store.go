// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides access to the local PostgreSQL mirror of remote
// content. Each entity has its own store type. Stores are bound to a DBTX,
// so the same code runs against the pool or inside a transaction when
// several entities must be committed together.
package store

import "database/sql"

// DBTX is the subset of *sql.DB and *sql.Tx the stores use.
type DBTX interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}
