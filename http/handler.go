package httpx

import (
	"errors"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
)

const indexPage = "/index.html"

// NewHandler serves root with the standard file server and adds the CORS
// headers to every response.
func NewHandler(root billy.Filesystem) http.Handler {
	files := FileSystem(root)
	return CORS(&fileHandler{files: files, server: http.FileServer(files)})
}

type fileHandler struct {
	files  http.FileSystem
	server http.Handler
}

func (h *fileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// http.FileServer answers ".../index.html" with a redirect to "./";
	// the page itself is served instead.
	if strings.HasSuffix(r.URL.Path, indexPage) && h.serveIndex(w, r) {
		return
	}
	h.server.ServeHTTP(w, r)
}

// serveIndex reports false when the file server should handle the request.
func (h *fileHandler) serveIndex(w http.ResponseWriter, r *http.Request) bool {
	name := path.Clean("/" + r.URL.Path)
	f, err := h.files.Open(name)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrPermission):
			http.Error(w, "403 Forbidden", http.StatusForbidden)
		default:
			http.Error(w, "404 page not found", http.StatusNotFound)
		}
		return true
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil || fi.IsDir() {
		return false
	}
	http.ServeContent(w, r, fi.Name(), fi.ModTime(), f)
	return true
}
