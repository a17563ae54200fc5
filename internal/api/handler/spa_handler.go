package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"recipe_memo/internal/api/middleware"
	"recipe_memo/internal/common"

	"github.com/go-chi/chi/v5"
)

const buildMissingMessage = "Client build not found. Run `npm run build` in the client directory."

// SPAHandler serves the browser client's build output: the entry document
// for client-side routes, and the static files beside it.
type SPAHandler struct {
	buildDir string
}

func NewSPAHandler(buildDir string) *SPAHandler {
	return &SPAHandler{buildDir: buildDir}
}

// ServeIndex writes the entry document, or 503 when the client has not been
// built.
func (h *SPAHandler) ServeIndex(w http.ResponseWriter, r *http.Request) {
	index := filepath.Join(h.buildDir, "index.html")
	if !isFile(index) {
		http.Error(w, buildMissingMessage, http.StatusServiceUnavailable)
		return
	}
	http.ServeFile(w, r, index)
}

// ServeAsset serves a file under <build>/assets, 404 when absent.
func (h *SPAHandler) ServeAsset(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, r, filepath.Join(h.buildDir, "assets"), chi.URLParam(r, "*"))
}

func (h *SPAHandler) ServeFavicon(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, r, h.buildDir, "favicon.ico")
}

// NotFound keeps the 404 for API paths and hands every other path to the
// client router.
func (h *SPAHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	if middleware.IsAPIPath(r.URL.Path) {
		common.RespondWithError(w, http.StatusNotFound, "not found")
		return
	}
	h.ServeIndex(w, r)
}

func (h *SPAHandler) serveFile(w http.ResponseWriter, r *http.Request, dir, name string) {
	// Cleaning against a rooted path keeps name inside dir.
	fp := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+name)))
	if !isFile(fp) {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, fp)
}

func isFile(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && !fi.IsDir()
}
