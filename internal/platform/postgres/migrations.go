package postgres

import "embed"

// Migrations holds the embedded goose migration files defining the
// persisted schema: the items table with its unique content_hash index,
// and the single-row rate_windows table.
//
//go:embed migrations/*.sql
var Migrations embed.FS
