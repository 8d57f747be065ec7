// Package wda is an HTTP client for a WebDriverAgent-style automation
// agent: session lifecycle, touch and gesture input, app and system
// control, and UI hierarchy retrieval, with agent errors normalized into
// a closed taxonomy.
package wda

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Transport-level sentinels. The client reclassifies these into the
// automation-error taxonomy; nothing above the client should see them.
var (
	ErrAgentUnreachable = errors.New("agent unreachable")
	ErrRequestTimeout   = errors.New("agent request timed out")
)

// DefaultTimeout bounds a single agent request. Gesture endpoints block
// until the gesture completes, so this is generous.
const DefaultTimeout = 60 * time.Second

// Transport is a minimal request/response wrapper around the agent's HTTP
// surface. It does not retry: retry policy belongs to the caller of the
// client because not every operation is idempotent.
type Transport struct {
	baseURL    string
	httpClient *http.Client
}

// NewTransport creates a transport for the agent at baseURL. A zero
// timeout falls back to DefaultTimeout.
func NewTransport(baseURL string, timeout time.Duration) *Transport {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Transport{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the agent base URL this transport talks to.
func (t *Transport) BaseURL() string {
	return t.baseURL
}

// Send issues one HTTP request and returns the status code and raw body.
// A non-nil body is JSON-encoded. Network-level failures surface as
// ErrAgentUnreachable or ErrRequestTimeout, never as a protocol error.
func (t *Transport) Send(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return 0, nil, t.wrapNetworkError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response body: %w", err)
	}
	return resp.StatusCode, raw, nil
}

// wrapNetworkError maps a net/http failure onto a transport sentinel while
// keeping the original error in the chain.
func (t *Transport) wrapNetworkError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrRequestTimeout, err)
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrRequestTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	// Connection refused, DNS failure, reset: the agent is not there.
	return fmt.Errorf("%w at %s: %v", ErrAgentUnreachable, t.baseURL, err)
}
