// Package netx provides the connectivity probe used to decide whether
// opportunistic remote writes and sync passes should be attempted.
package netx

import (
	"context"
	"net/http"
	"time"
)

// Probe reports whether the remote service currently looks reachable.
// Connectivity is sampled once at the start of an operation; a transition
// to offline mid-operation is handled by the transport call itself failing.
type Probe interface {
	Online(ctx context.Context) bool
}

// HTTPProbe checks reachability by hitting the server health endpoint.
type HTTPProbe struct {
	url    string
	client *http.Client
}

// NewHTTPProbe builds a probe for baseURL (e.g. "http://127.0.0.1:8080").
func NewHTTPProbe(baseURL string, timeout time.Duration) *HTTPProbe {
	return &HTTPProbe{
		url:    baseURL + "/health",
		client: &http.Client{Timeout: timeout},
	}
}

func (p *HTTPProbe) Online(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Static is a fixed-answer probe for tests and forced-offline mode.
type Static bool

func (s Static) Online(context.Context) bool { return bool(s) }
