// Package initdata bundles the default seed files.
package initdata

import (
	"embed"
	"io/fs"
)

//go:embed *.csv
var files embed.FS

// Files returns the bundled seed files rooted at the package directory.
func Files() fs.FS {
	return files
}
