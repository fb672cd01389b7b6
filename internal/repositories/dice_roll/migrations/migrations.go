// Package migrations embeds the dice roll schema for the SQL backends.
package migrations

import "embed"

// SQLite contains the SQLite migrations under sqlite/
//
//go:embed sqlite/*.sql
var SQLite embed.FS

// Postgres contains the Postgres migrations under postgres/
//
//go:embed postgres/*.sql
var Postgres embed.FS
