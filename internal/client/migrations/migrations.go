// Package migrations embeds the goose schema migrations for the embedded
// SQLite store and the remote PostgreSQL metadata table.
package migrations

import "embed"

// SQLite holds the embedded store schema under the "sqlite" directory.
//
//go:embed sqlite/*.sql
var SQLite embed.FS

// Postgres holds the remote media_items schema under the "postgres" directory.
//
//go:embed postgres/*.sql
var Postgres embed.FS
