// Package migrations embeds the SQL schema migrations so the binary is
// self-contained — goose reads them from this FS at startup.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
