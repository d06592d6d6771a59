// Package migrations embeds the PostgreSQL schema applied by casectl migrate.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
