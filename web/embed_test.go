package web

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shapedtime/marquee/internal/catalog"
)

func TestPagesAreEmbedded(t *testing.T) {
	root := FS()

	for _, page := range Pages {
		data, err := fs.ReadFile(root, page)
		require.NoError(t, err, page)
		require.True(t, strings.Contains(string(data), "js/app.js"), "%s does not load the app script", page)
	}

	_, err := fs.Stat(root, "css/style.css")
	require.NoError(t, err)
}

func TestScriptUsesSelectionKeys(t *testing.T) {
	data, err := fs.ReadFile(FS(), "js/app.js")
	require.NoError(t, err)

	for _, key := range []string{"selectedId", "selectedType", "/api/catalog/"} {
		require.Contains(t, string(data), key)
	}
}

// The player page and home rails must still say something, and movies must
// still play, when the catalog API cannot answer.
func TestScriptFallsBackWhenCatalogFails(t *testing.T) {
	data, err := fs.ReadFile(FS(), "js/app.js")
	require.NoError(t, err)
	script := string(data)

	for _, msg := range []string{catalog.MsgNoItems, catalog.MsgNoDetails, catalog.MsgNoSelection} {
		require.Contains(t, script, "'"+msg+"'")
	}
	require.Contains(t, script, "'"+catalog.DefaultPlayerBaseURL+"'")
	require.Contains(t, script, "/movie?tmdb=")
	require.NotContains(t, script, "if (!d) return;")
}
