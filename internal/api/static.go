package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/notewell/meetscribe/pkg/logger"
)

// StaticFileHandler serves the bundled web client. Unknown paths without a
// file extension fall back to index.html so client-side routing works.
type StaticFileHandler struct {
	dir    string
	fs     http.Handler
	logger *logger.Logger
}

// NewStaticFileHandler creates a static file handler rooted at dir.
func NewStaticFileHandler(dir string, log *logger.Logger) *StaticFileHandler {
	return &StaticFileHandler{
		dir:    dir,
		fs:     http.FileServer(http.Dir(dir)),
		logger: log.Named("static"),
	}
}

func (h *StaticFileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join(h.dir, filepath.Clean("/"+r.URL.Path))
	if _, err := os.Stat(path); os.IsNotExist(err) && filepath.Ext(r.URL.Path) == "" && !strings.HasPrefix(r.URL.Path, "/api/") {
		http.ServeFile(w, r, filepath.Join(h.dir, "index.html"))
		return
	}
	h.fs.ServeHTTP(w, r)
}
