// Package migrations embeds the pricing engine's SQL schema migrations.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
