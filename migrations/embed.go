// Package migrations embeds the SQL migration files that are applied at
// startup.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
