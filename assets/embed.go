package assets

import (
	"embed"
	"io/fs"
)

//go:embed manor.yaml sql/*.sql
var FS embed.FS

// World returns the embedded reference case definition.
func World() ([]byte, error) {
	return FS.ReadFile("manor.yaml")
}

// Migrations returns the embedded SQL migrations rooted at the sql directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		// sql/ is embedded above, so Sub cannot fail.
		panic(err)
	}
	return sub
}
