package db

import "embed"

// MigrationFS holds the schema migrations applied by cmd/migrate and, on request, by cmd/server at startup.
//
//go:embed migrations/*.sql
var MigrationFS embed.FS
