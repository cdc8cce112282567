package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxBodySize bounds how much of a settings response is read
const maxBodySize = 1 << 20

// Client is an HTTP client for the notifier's settings API
type Client struct {
	baseURL      string
	settingsPath string
	httpClient   *http.Client
}

// APIError is a non-2xx answer from the notifier service
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

// NewClient creates a new API client. A zero timeout means 30 seconds.
func NewClient(baseURL, settingsPath string, timeout time.Duration) *Client {
	if settingsPath == "" {
		settingsPath = "/api/settings"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		settingsPath: settingsPath,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// buildRequest creates a JSON request against the service
func (c *Client) buildRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// doRequest sends req and decodes a successful JSON answer into result
func (c *Client) doRequest(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp, body)
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// newAPIError prefers the service's {"error": ...} message, then the raw
// body, then the status text
func newAPIError(resp *http.Response, body []byte) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: resp.Status}

	var payload struct {
		Error string `json:"error"`
	}
	switch {
	case json.Unmarshal(body, &payload) == nil && payload.Error != "":
		apiErr.Message = payload.Error
	case len(bytes.TrimSpace(body)) > 0:
		apiErr.Message = string(bytes.TrimSpace(body))
	}
	return apiErr
}

// doJSONRequest sends payload as the JSON body of a request
func (c *Client) doJSONRequest(ctx context.Context, method, path string, payload, result any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := c.buildRequest(ctx, method, path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	return c.doRequest(req, result)
}

// doGetRequest performs a GET request
func (c *Client) doGetRequest(ctx context.Context, path string, result any) error {
	req, err := c.buildRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.doRequest(req, result)
}
