package http

import (
	"net/http"
)

// NewMux mounts the pages, the live channel and the health probe.
func NewMux(pages *UIHandler, ws *WSHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /ws", ws.ServeWS)
	pages.Register(mux)
	return mux
}
