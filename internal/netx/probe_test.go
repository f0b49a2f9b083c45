package netx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHTTPProbe_OnlineWhenHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewHTTPProbe(srv.URL, time.Second)
	require.True(t, p.Online(context.Background()))
}

func TestHTTPProbe_OfflineOnErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewHTTPProbe(srv.URL, time.Second)
	require.False(t, p.Online(context.Background()))
}

func TestHTTPProbe_OfflineWhenUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	p := NewHTTPProbe(srv.URL, 200*time.Millisecond)
	require.False(t, p.Online(context.Background()))
}

func TestStatic(t *testing.T) {
	require.True(t, Static(true).Online(context.Background()))
	require.False(t, Static(false).Online(context.Background()))
}
