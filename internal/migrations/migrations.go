// Package migrations embeds the goose migrations for the warehouse.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
