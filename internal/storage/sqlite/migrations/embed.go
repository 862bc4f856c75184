package migrations

import "embed"

// FS contains the embedded SQLite migrations for profile snapshot storage.
//
//go:embed *.sql
var FS embed.FS
