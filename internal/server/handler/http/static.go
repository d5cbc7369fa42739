package http

import (
	"net/http"
	"path/filepath"
)

// StaticHandler serves the site's static pages from Dir.
type StaticHandler struct {
	Dir string
}

// Home serves index.html.
func (h *StaticHandler) Home(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(h.Dir, "index.html"))
}

// Files serves any file under Dir.
func (h *StaticHandler) Files() http.Handler {
	return http.FileServer(http.Dir(h.Dir))
}
