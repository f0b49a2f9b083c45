package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wtg/vaultsync/internal/common"
)

func TestHTTPClient_LoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "alice", body["username"])
		_ = json.NewEncoder(w).Encode(authResponse{
			Token: "tok-123",
			User:  AuthUser{ID: "u1", Username: "alice", Role: "ADMIN"},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, nil)
	user, err := c.Login(context.Background(), "alice", "pass")
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
	require.Equal(t, "tok-123", c.Token())
}

func TestHTTPClient_AttachesBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{"customers": []ServerCustomer{{ID: "c1", Version: 1}}})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, nil)
	c.SetToken("tok-123")
	customers, err := c.Customers(context.Background())
	require.NoError(t, err)
	require.Len(t, customers, 1)
}

func TestHTTPClient_ErrorMapping(t *testing.T) {
	status := http.StatusUnauthorized
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "nope"})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, nil)
	ctx := context.Background()

	_, err := c.Customers(ctx)
	require.ErrorIs(t, err, common.ErrUnauthorized)

	status = http.StatusNotFound
	_, err = c.UpdateCustomer(ctx, "missing", CustomerPayload{Name: "x", Email: "x@y.z"})
	require.ErrorIs(t, err, common.ErrNotFound)

	status = http.StatusBadRequest
	_, err = c.CreateCustomer(ctx, CustomerPayload{})
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestHTTPClient_PushPullRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sync/push":
			var req PushRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Len(t, req.Customers, 1)
			require.EqualValues(t, 1, req.Customers[0].Version)
			_ = json.NewEncoder(w).Encode(PushResponse{
				Applied:    PushRecordSet{Customers: []ServerCustomer{{ID: req.Customers[0].ID, Version: 1}}},
				ServerTime: 1000,
			})
		case "/sync/pull":
			require.Equal(t, "77", r.URL.Query().Get("since"))
			_ = json.NewEncoder(w).Encode(PullResponse{ServerTime: 2000})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, nil)
	ctx := context.Background()

	pushed, err := c.Push(ctx, PushRequest{Customers: []PushCustomer{{ID: "c1", Version: 1}}})
	require.NoError(t, err)
	require.EqualValues(t, 1000, pushed.ServerTime)
	require.Len(t, pushed.Applied.Customers, 1)

	pulled, err := c.Pull(ctx, 77)
	require.NoError(t, err)
	require.EqualValues(t, 2000, pulled.ServerTime)
}

func TestHTTPClient_UnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewHTTPClient(srv.URL, nil)
	_, err := c.Customers(context.Background())
	require.Error(t, err)
	require.False(t, errors.Is(err, common.ErrUnauthorized))
}

func TestServerCustomer_ToModel(t *testing.T) {
	ts := int64(123)
	m := ServerCustomer{ID: "c1", Name: "Acme", Version: 3, UpdatedAt: 999, DeletedAt: &ts}.ToModel()
	require.True(t, m.Synced)
	require.True(t, m.Deleted)
	require.EqualValues(t, 3, m.Version)

	live := ServerCustomer{ID: "c2", Version: 1}.ToModel()
	require.False(t, live.Deleted)
}
