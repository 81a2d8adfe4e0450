// Package migrations embeds the SQL migration scripts so the binary can
// apply them at startup without a filesystem dependency.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
