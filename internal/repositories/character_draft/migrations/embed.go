// Package migrations holds the SQLite schema for the draft store.
package migrations

import "embed"

// FS contains the embedded migrations
//
//go:embed *.sql
var FS embed.FS
