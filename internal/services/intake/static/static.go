// Package static embeds the intake stylesheet and icons.
package static

import (
	"embed"
	"net/http"
	"strings"
)

// FS exposes intake static assets for HTTP serving.
//
//go:embed css/*.css icons/*.svg
var FS embed.FS

// Handler serves FS under prefix with long-lived cache headers.
func Handler(prefix string) http.Handler {
	files := http.StripPrefix(prefix, http.FileServer(http.FS(FS)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=86400")
		files.ServeHTTP(w, r)
	})
}
