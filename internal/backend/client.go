// Package backend wraps every HTTP call to the user-management backend. It
// normalizes responses into a status-plus-body pair and raises the generic
// error notification for any non-success status it passes through.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/umsys/user-management-console/internal"
	"github.com/umsys/user-management-console/internal/notify"
)

// Message shown for any backend response the console cannot use. Matches the
// backend team's copy, typo included.
const GenericErrorMessage = "An error occured. Please try again!"

// Envelope is the wrapper every backend JSON response uses.
type Envelope struct {
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

// Response is the normalized result of one backend call. Callers inspect the
// status themselves; an unsuccessful response is handed back unchanged.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the backend accepted the request.
func (r *Response) OK() bool {
	switch r.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return true
	}
	return false
}

// Decode unmarshals the envelope's data field into v.
func (r *Response) Decode(v any) error {
	var env Envelope
	if err := json.Unmarshal(r.Body, &env); err != nil {
		return fmt.Errorf("failed to decode response envelope: %w", err)
	}
	if len(env.Data) == 0 {
		return fmt.Errorf("response envelope has no data")
	}
	return json.Unmarshal(env.Data, v)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds the adapter from the backend configuration constructed at
// process start. A zero timeout means requests are never cut short.
func NewClient(cfg internal.BackendConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    cfg.BaseURL(),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	fullPath := path
	if len(query) > 0 {
		fullPath = path + "/?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, fullPath, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

// Delete issues a DELETE, with an optional JSON body for endpoints that
// identify the target in the payload (the unassign call does).
func (c *Client) Delete(ctx context.Context, path string, body any) (*Response, error) {
	return c.do(ctx, http.MethodDelete, path, body)
}

// do issues exactly one attempt. No retries, no circuit breaking: a failed
// round trip surfaces as a network error for the calling controller.
func (c *Client) do(ctx context.Context, method, path string, body any) (*Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("backend request failed",
			"method", method,
			"path", path,
			"error", err)
		return nil, internal.NewNetworkError("backend request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, internal.NewNetworkError("failed to read response body", err)
	}

	result := &Response{StatusCode: resp.StatusCode, Body: raw}

	if !result.OK() {
		c.logger.Warn("backend rejected request",
			"method", method,
			"path", path,
			"status_code", resp.StatusCode)
		notify.FromContext(ctx).Error(internal.ErrorKindRejected, GenericErrorMessage)
	}

	return result, nil
}
