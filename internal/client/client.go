// Package client talks to a running fbsim server over its HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/futurebank/fbsim/internal/server"
)

const (
	requestTimeout  = 10 * time.Second
	simulateTimeout = 5 * time.Minute
	maxBodySize     = 8 << 20 // 8 MB
	userAgent       = "fbsim-client/1.0"
)

var (
	// ErrBadRequest indicates the server rejected the request or scenario.
	ErrBadRequest = errors.New("fbsim: bad request")
	// ErrServer indicates the server failed while handling the request.
	ErrServer = errors.New("fbsim: server error")
)

// Client calls the fbsim HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for addr, either "host:port" or a full URL.
// Returns nil if addr is empty.
func New(addr string) *Client {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil
	}
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	return &Client{
		baseURL: strings.TrimRight(addr, "/"),
		http:    &http.Client{},
	}
}

// Health returns nil when the server answers /healthz.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/healthz", nil, requestTimeout)
	return err
}

// Status returns the server's run counters.
func (c *Client) Status(ctx context.Context) (*server.Status, error) {
	body, err := c.do(ctx, http.MethodGet, "/v1/status", nil, requestTimeout)
	if err != nil {
		return nil, err
	}

	var st server.Status
	if err := json.Unmarshal(body, &st); err != nil {
		return nil, fmt.Errorf("fbsim: parsing status: %w", err)
	}
	return &st, nil
}

// Runs returns the recent run events, oldest first.
func (c *Client) Runs(ctx context.Context) ([]server.Event, error) {
	body, err := c.do(ctx, http.MethodGet, "/v1/runs", nil, requestTimeout)
	if err != nil {
		return nil, err
	}

	var events []server.Event
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("fbsim: parsing runs: %w", err)
	}
	return events, nil
}

// Simulate runs a comparison on the server.
func (c *Client) Simulate(ctx context.Context, req server.SimulateRequest) (*server.SimulateResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("fbsim: encoding request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/v1/simulate", payload, simulateTimeout)
	if err != nil {
		return nil, err
	}

	var resp server.SimulateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("fbsim: parsing simulate response: %w", err)
	}
	return &resp, nil
}

// do performs a request and returns the response body of a 2xx answer.
func (c *Client) do(ctx context.Context, method, path string, payload []byte, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("fbsim: creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	//nolint:gosec // URL is the configured server address
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fbsim: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("fbsim: reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return nil, fmt.Errorf("%w: %s", ErrBadRequest, errorMessage(body))
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: %s", ErrServer, errorMessage(body))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("fbsim: unexpected status %d", resp.StatusCode)
	}
	return body, nil
}

// errorMessage extracts the "error" field of a JSON error body, falling
// back to the raw text.
func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}
