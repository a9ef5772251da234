package web

import (
	"embed"
	"io/fs"
)

//go:embed embed
var Static embed.FS

// Assets returns the embedded page and its assets, rooted at the embed directory
func Assets() fs.FS {
	assets, err := fs.Sub(Static, "embed")
	if err != nil {
		panic(err)
	}

	return assets
}
