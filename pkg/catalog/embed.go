package catalog

import (
	"embed"
	"io/fs"
)

//go:embed defaults/*.yaml
var embeddedCatalogs embed.FS

// DefaultName is the file name of the bundled catalog inside EmbeddedFS.
const DefaultName = "survey.yaml"

// EmbeddedFS returns the bundled catalog documents.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedCatalogs, "defaults")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}

// Default parses the bundled survey catalog.
func Default() (*Catalog, error) {
	return LoadFS(EmbeddedFS(), DefaultName)
}
