package http

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// NewSPAHandler serves the built frontend bundle. Paths that do not match a
// file fall back to index.html so client-side routing keeps working.
func NewSPAHandler(dir string) http.Handler {
	fileServer := http.FileServer(http.Dir(dir))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := filepath.Join(dir, filepath.Clean(strings.TrimPrefix(r.URL.Path, "/")))

		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			fileServer.ServeHTTP(w, r)
			return
		}

		http.ServeFile(w, r, filepath.Join(dir, "index.html"))
	})
}
