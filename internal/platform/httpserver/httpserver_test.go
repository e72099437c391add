package httpserver

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"accountdesk/internal/platform/config"
)

func TestNew_UsesConfiguredTimeouts(t *testing.T) {
	handler := http.NotFoundHandler()
	srv := New(config.Server{
		Addr:         ":9090",
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 40 * time.Second,
		IdleTimeout:  90 * time.Second,
	}, handler)

	assert.Equal(t, ":9090", srv.Addr)
	assert.Equal(t, 2*time.Second, srv.ReadTimeout)
	assert.Equal(t, 40*time.Second, srv.WriteTimeout)
	assert.Equal(t, 90*time.Second, srv.IdleTimeout)
	assert.Equal(t, readHeaderTimeout, srv.ReadHeaderTimeout)
}

func TestNew_ZeroTimeoutsFallBack(t *testing.T) {
	srv := New(config.Server{Addr: ":8080"}, http.NotFoundHandler())

	assert.Equal(t, defaultReadTimeout, srv.ReadTimeout)
	assert.Equal(t, defaultWriteTimeout, srv.WriteTimeout)
	assert.Equal(t, defaultIdleTimeout, srv.IdleTimeout)
}
