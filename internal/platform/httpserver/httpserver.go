package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server with the project's timeouts. WriteTimeout stays
// above the handler timeout so slow exports still complete.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      45 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
