// Package migrations embeds the Postgres schema migrations applied with goose
// when the postgres store driver is selected.
package migrations

import "embed"

// FS holds all *.sql migration files embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
