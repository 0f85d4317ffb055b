// Package migrations holds the numbered schema scripts for the mapping and
// write-log tables. Files are named NNN_name.up.sql / NNN_name.down.sql and
// applied in version order by sqlite.Store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
