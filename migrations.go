package codegen

import "embed"

// MigrationsFS holds the SQL migrations for the bot's session table.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS
