package web

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/rook-computer/bannercast/internal/assets"
	"github.com/rook-computer/bannercast/internal/livesync"
)

type APIV1Config struct {
	Deps APIV1Deps

	// Channel is the live channel overlay pages follow.
	Channel string
}

// RegisterAPIV1 registers the public API routes under /api/v1/.
func RegisterAPIV1(mux *http.ServeMux, cfg APIV1Config) {
	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", apiV1Router(cfg.Deps)))
}

// RegisterOverlay serves the overlay page at /overlay.
func RegisterOverlay(mux *http.ServeMux, cfg APIV1Config) {
	channel := cfg.Channel
	if channel == "" {
		channel = livesync.DefaultChannel
	}
	mux.Handle("/overlay", OverlayHandler(channel, cfg.Deps.Bus != nil))
}

// RegisterUI serves either embedded UI assets or a directory.
func RegisterUI(mux *http.ServeMux, staticDir string) {
	mux.Handle("/", StaticUIHandler(staticDir))
}

// NewDefaultMux builds the standard mux:
// - /api/v1/* for the API
// - /overlay for the overlay page
// - / for the editor UI
func NewDefaultMux(staticDir string, cfg APIV1Config) *http.ServeMux {
	mux := http.NewServeMux()
	RegisterAPIV1(mux, cfg)
	RegisterOverlay(mux, cfg)
	RegisterUI(mux, staticDir)
	return mux
}

// StaticUIHandler serves the embedded editor UI, or dir when it is set.
func StaticUIHandler(dir string) http.Handler {
	if dir == "" {
		return cleanPath(http.FileServer(http.FS(assets.WebUI)))
	}

	// When StaticDir is set to an existing directory, serve it at '/'.
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		})
	}

	// http.Dir refuses paths that escape the root.
	return cleanPath(http.FileServer(http.Dir(dir)))
}

func cleanPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Clean path to avoid oddities.
		r.URL.Path = filepath.ToSlash(filepath.Clean("/" + r.URL.Path))
		next.ServeHTTP(w, r)
	})
}
