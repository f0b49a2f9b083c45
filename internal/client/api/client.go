// Package api implements the HTTP client for the remote sync service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/wtg/vaultsync/internal/common"
)

// Client is the remote service contract consumed by the mutation and
// reconciliation engines.
type Client interface {
	Login(ctx context.Context, username, password string) (AuthUser, error)
	Bootstrap(ctx context.Context, username, password string) (AuthUser, error)

	Customers(ctx context.Context) ([]ServerCustomer, error)
	CreateCustomer(ctx context.Context, p CustomerPayload) (ServerCustomer, error)
	UpdateCustomer(ctx context.Context, id string, p CustomerPayload) (ServerCustomer, error)
	DeleteCustomer(ctx context.Context, id string) (ServerCustomer, error)

	Credentials(ctx context.Context) ([]ServerCredential, error)
	CreateCredential(ctx context.Context, p CredentialPayload) (ServerCredential, error)
	UpdateCredential(ctx context.Context, id string, p CredentialPayload) (ServerCredential, error)
	DeleteCredential(ctx context.Context, id string) (ServerCredential, error)

	AuditLogs(ctx context.Context) ([]ServerAuditLog, error)

	Push(ctx context.Context, req PushRequest) (PushResponse, error)
	Pull(ctx context.Context, since int64) (PullResponse, error)
}

// HTTPClient talks JSON over HTTP to the sync server, attaching the bearer
// token obtained at login.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	token   string
}

// NewHTTPClient builds a client for baseURL (no trailing slash).
func NewHTTPClient(baseURL string, hc *http.Client) *HTTPClient {
	if hc == nil {
		hc = &http.Client{}
	}
	return &HTTPClient{baseURL: baseURL, http: hc}
}

// Token returns the current session token (empty before login).
func (c *HTTPClient) Token() string { return c.token }

// SetToken installs a previously obtained session token.
func (c *HTTPClient) SetToken(token string) { c.token = token }

func (c *HTTPClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set(common.AuthHeaderName, "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&payload)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return common.ErrUnauthorized
	case http.StatusNotFound:
		return common.ErrNotFound
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", common.ErrValidation, payload.Error)
	default:
		return fmt.Errorf("request failed (%d): %s", resp.StatusCode, payload.Error)
	}
}

type authResponse struct {
	Token string   `json:"token"`
	User  AuthUser `json:"user"`
}

func (c *HTTPClient) authenticate(ctx context.Context, path, username, password string) (AuthUser, error) {
	var out authResponse
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return AuthUser{}, err
	}
	c.token = out.Token
	return out.User, nil
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (AuthUser, error) {
	return c.authenticate(ctx, "/auth/login", username, password)
}

func (c *HTTPClient) Bootstrap(ctx context.Context, username, password string) (AuthUser, error) {
	return c.authenticate(ctx, "/auth/bootstrap", username, password)
}

func (c *HTTPClient) Customers(ctx context.Context) ([]ServerCustomer, error) {
	var out struct {
		Customers []ServerCustomer `json:"customers"`
	}
	if err := c.do(ctx, http.MethodGet, "/customers", nil, &out); err != nil {
		return nil, err
	}
	return out.Customers, nil
}

func (c *HTTPClient) CreateCustomer(ctx context.Context, p CustomerPayload) (ServerCustomer, error) {
	var out struct {
		Customer ServerCustomer `json:"customer"`
	}
	err := c.do(ctx, http.MethodPost, "/customers", p, &out)
	return out.Customer, err
}

func (c *HTTPClient) UpdateCustomer(ctx context.Context, id string, p CustomerPayload) (ServerCustomer, error) {
	var out struct {
		Customer ServerCustomer `json:"customer"`
	}
	err := c.do(ctx, http.MethodPatch, "/customers/"+id, p, &out)
	return out.Customer, err
}

func (c *HTTPClient) DeleteCustomer(ctx context.Context, id string) (ServerCustomer, error) {
	var out struct {
		Customer ServerCustomer `json:"customer"`
	}
	err := c.do(ctx, http.MethodDelete, "/customers/"+id, nil, &out)
	return out.Customer, err
}

func (c *HTTPClient) Credentials(ctx context.Context) ([]ServerCredential, error) {
	var out struct {
		Credentials []ServerCredential `json:"credentials"`
	}
	if err := c.do(ctx, http.MethodGet, "/credentials", nil, &out); err != nil {
		return nil, err
	}
	return out.Credentials, nil
}

func (c *HTTPClient) CreateCredential(ctx context.Context, p CredentialPayload) (ServerCredential, error) {
	var out struct {
		Credential ServerCredential `json:"credential"`
	}
	err := c.do(ctx, http.MethodPost, "/credentials", p, &out)
	return out.Credential, err
}

func (c *HTTPClient) UpdateCredential(ctx context.Context, id string, p CredentialPayload) (ServerCredential, error) {
	var out struct {
		Credential ServerCredential `json:"credential"`
	}
	err := c.do(ctx, http.MethodPatch, "/credentials/"+id, p, &out)
	return out.Credential, err
}

func (c *HTTPClient) DeleteCredential(ctx context.Context, id string) (ServerCredential, error) {
	var out struct {
		Credential ServerCredential `json:"credential"`
	}
	err := c.do(ctx, http.MethodDelete, "/credentials/"+id, nil, &out)
	return out.Credential, err
}

func (c *HTTPClient) AuditLogs(ctx context.Context) ([]ServerAuditLog, error) {
	var out struct {
		Logs []ServerAuditLog `json:"logs"`
	}
	if err := c.do(ctx, http.MethodGet, "/audit", nil, &out); err != nil {
		return nil, err
	}
	return out.Logs, nil
}

func (c *HTTPClient) Push(ctx context.Context, req PushRequest) (PushResponse, error) {
	var out PushResponse
	err := c.do(ctx, http.MethodPost, "/sync/push", req, &out)
	return out, err
}

func (c *HTTPClient) Pull(ctx context.Context, since int64) (PullResponse, error) {
	var out PullResponse
	err := c.do(ctx, http.MethodGet, "/sync/pull?since="+strconv.FormatInt(since, 10), nil, &out)
	return out, err
}
