package server

import (
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWs upgrades the request to a WebSocket at the fixed /minefield
// path, registers the resulting Client with the hub, and starts its
// read/write pumps.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	c := newClient(hub, conn, uuid.New().String())
	hub.register <- c

	go c.writePump()
	go c.readPump()
}

// allowedExt is the MIME allowlist consulted before serving any static
// file: anything else is rejected 403.
var allowedExt = map[string]bool{
	".html":  true,
	".htm":   true,
	".css":   true,
	".js":    true,
	".json":  true,
	".png":   true,
	".jpg":   true,
	".jpeg":  true,
	".gif":   true,
	".svg":   true,
	".ico":   true,
	".woff":  true,
	".woff2": true,
	".wasm":  true,
	".txt":   true,
}

// staticFileMiddleware wraps an http.FileServer, rejecting `..` path
// traversal (400) and extensions outside allowedExt (403) ahead of the
// file server, and disables caching for JS/CSS so front-end changes
// land without a hard refresh.
func staticFileMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "..") {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		ext := strings.ToLower(filepath.Ext(r.URL.Path))
		if ext != "" && !allowedExt[ext] {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		if ext == ".js" || ext == ".css" {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
			w.Header().Set("Pragma", "no-cache")
			w.Header().Set("Expires", "0")
		}
		next.ServeHTTP(w, r)
	})
}

// Mux builds the HTTP handler: /minefield upgrades to WebSocket, every
// other path is served statically from docRoot.
func Mux(hub *Hub, docRoot string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/minefield", func(w http.ResponseWriter, r *http.Request) {
		ServeWs(hub, w, r)
	})

	fs := http.FileServer(http.Dir(docRoot))
	mux.Handle("/", staticFileMiddleware(fs))
	return mux
}
