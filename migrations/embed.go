// Package migrations embeds the golang-migrate SQL files so the server can migrate the
// database regardless of its working directory.
package migrations

import "embed"

// FS holds every NNNNNN_name.{up,down}.sql file in this directory.
//
//go:embed *.sql
var FS embed.FS
