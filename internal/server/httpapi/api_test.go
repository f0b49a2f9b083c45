package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wtg/vaultsync/internal/logging"
	"github.com/wtg/vaultsync/internal/server/audit"
	"github.com/wtg/vaultsync/internal/server/credentials"
	"github.com/wtg/vaultsync/internal/server/customers"
	"github.com/wtg/vaultsync/internal/server/models"
	"github.com/wtg/vaultsync/internal/server/sync"
	"github.com/wtg/vaultsync/internal/server/users"
)

var testSecret = []byte("test-secret")

func newTestAPI() *API {
	auditSvc := audit.NewService(audit.NewInMemoryRepository())
	custRepo := customers.NewInMemoryRepository()
	credRepo := credentials.NewInMemoryRepository()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewAPI(
		users.NewService(users.NewInMemoryRepository(), testSecret, time.Hour),
		customers.NewService(custRepo, auditSvc),
		credentials.NewService(credRepo, auditSvc),
		auditSvc,
		sync.NewService(custRepo, credRepo, auditSvc),
		testSecret,
		logger,
	)
}

type testServer struct {
	t      *testing.T
	server *httptest.Server
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	srv := httptest.NewServer(newTestAPI().Router())
	t.Cleanup(srv.Close)
	return &testServer{t: t, server: srv}
}

func (s *testServer) request(method, path string, body any) (*http.Response, []byte) {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.server.URL+path, reader)
	require.NoError(s.t, err)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	resp, err := s.server.Client().Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	return resp, data
}

func (s *testServer) bootstrap() sessionBody {
	s.t.Helper()
	resp, data := s.request(http.MethodPost, "/auth/bootstrap", credentialsBody{Username: "root", Password: "pass12345"})
	require.Equal(s.t, http.StatusCreated, resp.StatusCode)
	var sess sessionBody
	require.NoError(s.t, json.Unmarshal(data, &sess))
	s.token = sess.Token
	return sess
}

func TestHealth_NoAuthRequired(t *testing.T) {
	s := newTestServer(t)

	resp, data := s.request(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(data))
}

func TestBootstrap_OnceOnly(t *testing.T) {
	s := newTestServer(t)

	sess := s.bootstrap()
	assert.Equal(t, "ADMIN", sess.User.Role)
	assert.NotEmpty(t, sess.Token)

	resp, _ := s.request(http.MethodPost, "/auth/bootstrap", credentialsBody{Username: "other", Password: "pass12345"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestLogin_WrongPassword(t *testing.T) {
	s := newTestServer(t)
	s.bootstrap()
	s.token = ""

	resp, _ := s.request(http.MethodPost, "/auth/login", credentialsBody{Username: "root", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRoutes_RejectMissingToken(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.request(http.MethodGet, "/customers", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	s.token = "garbage"
	resp, _ = s.request(http.MethodGet, "/customers", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCustomerCRUD(t *testing.T) {
	s := newTestServer(t)
	s.bootstrap()

	resp, data := s.request(http.MethodPost, "/customers", customers.Input{ID: "c1", Name: "Acme", Email: "ops@acme.test"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		Customer models.Customer `json:"customer"`
	}
	require.NoError(t, json.Unmarshal(data, &created))
	assert.Equal(t, "c1", created.Customer.ID)
	assert.Equal(t, int64(1), created.Customer.Version)

	resp, data = s.request(http.MethodGet, "/customers", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed struct {
		Customers []models.Customer `json:"customers"`
	}
	require.NoError(t, json.Unmarshal(data, &listed))
	require.Len(t, listed.Customers, 1)

	resp, data = s.request(http.MethodPatch, "/customers/c1", customers.Input{Name: "Acme Corp", Email: "ops@acme.test"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated struct {
		Customer models.Customer `json:"customer"`
	}
	require.NoError(t, json.Unmarshal(data, &updated))
	assert.Equal(t, int64(2), updated.Customer.Version)
	assert.Equal(t, "Acme Corp", updated.Customer.Name)

	resp, _ = s.request(http.MethodDelete, "/customers/c1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// tombstoned records 404 on further mutation
	resp, _ = s.request(http.MethodPatch, "/customers/c1", customers.Input{Name: "X", Email: "x@x.test"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, data = s.request(http.MethodGet, "/customers", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(data, &listed))
	assert.Empty(t, listed.Customers)
}

func TestCustomerValidation(t *testing.T) {
	s := newTestServer(t)
	s.bootstrap()

	resp, _ := s.request(http.MethodPost, "/customers", customers.Input{Email: "no-name@acme.test"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCredentialCRUD(t *testing.T) {
	s := newTestServer(t)
	s.bootstrap()

	in := credentials.Input{
		ID: "cr1", CustomerID: "c1", Title: "prod db", Username: "admin",
		EncryptedSecret: "Y2lwaGVy", IV: "aXY=",
	}
	resp, data := s.request(http.MethodPost, "/credentials", in)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		Credential models.Credential `json:"credential"`
	}
	require.NoError(t, json.Unmarshal(data, &created))
	assert.Equal(t, "cr1", created.Credential.ID)

	resp, _ = s.request(http.MethodDelete, "/credentials/cr1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = s.request(http.MethodDelete, "/credentials/cr1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUsersRequireAdmin(t *testing.T) {
	s := newTestServer(t)
	s.bootstrap()

	resp, data := s.request(http.MethodPost, "/users", users.CreateInput{Username: "worker", Password: "pass12345"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		User models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(data, &created))
	assert.Equal(t, models.RoleUser, created.User.Role)

	// switch to the non-admin session
	resp, data = s.request(http.MethodPost, "/auth/login", credentialsBody{Username: "worker", Password: "pass12345"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sess sessionBody
	require.NoError(t, json.Unmarshal(data, &sess))
	s.token = sess.Token

	resp, data = s.request(http.MethodGet, "/users", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Admin only"}`, string(data))

	// but regular data routes still work
	resp, _ = s.request(http.MethodGet, "/customers", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSyncRoundTrip(t *testing.T) {
	s := newTestServer(t)
	s.bootstrap()

	push := sync.PushRequest{
		Customers: []sync.IncomingCustomer{{ID: "c1", Name: "Acme", Email: "ops@acme.test", Version: 1}},
	}
	resp, data := s.request(http.MethodPost, "/sync/push", push)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pushResp sync.PushResponse
	require.NoError(t, json.Unmarshal(data, &pushResp))
	require.Len(t, pushResp.Applied.Customers, 1)
	assert.Empty(t, pushResp.Conflicts.Customers)
	assert.Greater(t, pushResp.ServerTime, int64(0))

	resp, data = s.request(http.MethodGet, "/sync/pull?since=0", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pullResp sync.PullResponse
	require.NoError(t, json.Unmarshal(data, &pullResp))
	require.Len(t, pullResp.Customers, 1)
	assert.Equal(t, "c1", pullResp.Customers[0].ID)

	resp, data = s.request(http.MethodGet, "/sync/pull?since="+`notanumber`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(data), "since")
}

func TestAuditTrailExposed(t *testing.T) {
	s := newTestServer(t)
	s.bootstrap()

	_, _ = s.request(http.MethodPost, "/customers", customers.Input{Name: "Acme", Email: "ops@acme.test"})

	resp, data := s.request(http.MethodGet, "/audit", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed struct {
		Logs []models.AuditLog `json:"logs"`
	}
	require.NoError(t, json.Unmarshal(data, &listed))
	require.Len(t, listed.Logs, 1)
	assert.Equal(t, "Created customer Acme", listed.Logs[0].Details)
	assert.NotEmpty(t, listed.Logs[0].UserID)
}
