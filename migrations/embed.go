// Package migrations bundles the SQL schema so the API binary can apply it
// regardless of its working directory.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed *.sql
var embedded embed.FS

// FS returns the bundled .sql files.
func FS() fs.FS {
	return embedded
}
