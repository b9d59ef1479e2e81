// Package migrations embeds the goose SQL migrations for both supported
// backends. The schema is identical, only types and placeholders differ.
package migrations

import "embed"

//go:embed sqlite/*.sql
var SQLite embed.FS

//go:embed postgres/*.sql
var Postgres embed.FS
