// Package repository holds the pgx-backed persistence queries: player
// accounts, per-level progress, and leaderboards. Each query method
// hand-writes SQL with positional or pgx.NamedArgs parameters rather
// than going through a query builder or ORM.
package repository

import "github.com/jackc/pgx/v5/pgxpool"

// Queries is the shared handle every query method is defined on.
type Queries struct {
	db *pgxpool.Pool
}

// New wraps a connected pool in a Queries handle.
func New(db *pgxpool.Pool) *Queries {
	return &Queries{db: db}
}
