// Package web holds the static front end served by the API server.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var files embed.FS

// Pages lists the HTML documents the front end is made of.
var Pages = []string{"index.html", "movies.html", "tvshows.html", "search.html", "player.html"}

// FS returns the front end rooted at static/.
func FS() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
