// Package migrations embeds the content schema and seed data.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
