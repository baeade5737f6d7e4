// Package migrations embeds the token server's Postgres schema.
package migrations

import "embed"

//go:embed postgres/*.sql
var Migrations embed.FS
