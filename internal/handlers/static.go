package handlers

import (
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/sbilibin2017/gw-user-store/internal/logger"
)

const indexFile = "index.html"

var contentTypes = map[string]string{
	".html": "text/html",
	".js":   "text/javascript",
	".css":  "text/css",
	".json": "application/json",
}

// NewStaticHandler serves the web front end from root.
// "/" maps to index.html, extensionless paths get ".html" appended, and any
// missing file falls back to index.html before answering 404.
func NewStaticHandler(root string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := staticPath(r.URL.Path)
		if serveFile(w, filepath.Join(root, name)) == nil {
			return
		}
		logger.Log.Infow("file not found", "path", name)

		if serveFile(w, filepath.Join(root, indexFile)) == nil {
			return
		}

		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("404 - Not Found"))
	}
}

// staticPath maps a URL path to a file name relative to the static root.
// The path is cleaned first so ".." segments cannot leave the root.
func staticPath(urlPath string) string {
	p := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if p == "" {
		return indexFile
	}
	if path.Ext(p) == "" {
		p += ".html"
	}
	return filepath.FromSlash(p)
}

func serveFile(w http.ResponseWriter, name string) error {
	data, err := os.ReadFile(name)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", contentType(name))
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(data)
	return err
}

func contentType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "text/html"
}
