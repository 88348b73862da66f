package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/cosmicverse/starfield/internal/httpserver/deps"
)

// Static serves the built client from StaticDir. Anything that does not
// resolve to a real file falls back to index.html so client-side routes
// survive a hard refresh.
func Static(d deps.Deps) http.HandlerFunc {
	dir := d.StaticDir
	fs := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		// Reject path traversal before touching the filesystem.
		clean := filepath.Clean(strings.TrimPrefix(r.URL.Path, "/"))
		if strings.HasPrefix(clean, "..") {
			http.NotFound(w, r)
			return
		}

		full := filepath.Join(dir, clean)
		if info, err := os.Stat(full); err == nil && !info.IsDir() {
			fs.ServeHTTP(w, r)
			return
		}

		http.ServeFile(w, r, index)
	}
}
