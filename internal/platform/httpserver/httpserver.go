// Package httpserver builds the *http.Server for cmd/server.
package httpserver

import (
	"net/http"
	"time"

	"accountdesk/internal/platform/config"
)

const (
	readHeaderTimeout   = 5 * time.Second
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 35 * time.Second
	defaultIdleTimeout  = time.Minute
)

// New wraps handler in a server listening on cfg.Addr. Zero timeouts fall back
// to the package defaults rather than disabling the limit.
func New(cfg config.Server, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       orDefault(cfg.ReadTimeout, defaultReadTimeout),
		WriteTimeout:      orDefault(cfg.WriteTimeout, defaultWriteTimeout),
		IdleTimeout:       orDefault(cfg.IdleTimeout, defaultIdleTimeout),
	}
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
