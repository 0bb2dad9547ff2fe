// Package api implements the HTTP client adapter for the BudgetIQ backend.
//
// All outbound requests attach the current bearer token when a session
// exists, share a fixed per-request timeout, and normalize failures into the
// error taxonomy in errors.go. A 401 from any endpoint fires the registered
// unauthorized hooks before the error is returned, so the session layer can
// force a logout without the adapter knowing anything about sessions.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	requestTimeout = 15 * time.Second
	maxErrorBody   = 64 << 10
)

// TokenSource supplies the current bearer token, or "" when logged out.
type TokenSource interface {
	Token() string
}

// Client wraps outbound HTTP calls to the backend.
type Client struct {
	tokens  TokenSource
	http    *http.Client
	baseURL string

	mu             sync.Mutex
	onUnauthorized []func()
}

// NewClient creates a client for the given base URL. The token source may be
// nil for a purely anonymous client.
func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    &http.Client{},
	}
}

// OnUnauthorized registers a hook invoked whenever any request receives a
// 401. Hooks run before the error is returned to the caller; callers must
// not assume the session is still valid afterwards.
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = append(c.onUnauthorized, fn)
}

// Get performs a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, body, out)
}

// Put performs a PUT request with an optional JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, body, out)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	resp, err := c.do(ctx, method, path, reader, "application/json")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Upload sends a file as a multipart form request and decodes the JSON
// response into out.
func (c *Client) Upload(ctx context.Context, path, field, filename string, file io.Reader, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("failed to create multipart field: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("failed to buffer upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, path, &buf, writer.FormDataContentType())
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Download streams a binary response into w and returns the number of bytes
// written. The fixed request timeout bounds the whole transfer.
func (c *Client) Download(ctx context.Context, path string, w io.Writer) (int64, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("failed to read download: %w", err)
	}
	return n, nil
}

// do performs the request and returns the response with a 2xx status. Any
// other outcome is normalized into *Error; a 401 additionally fires the
// unauthorized hooks.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		cancel()
		return nil, classifyTransportError(err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		// The caller reads the body; cancel once it is closed.
		resp.Body = &cancelReadCloser{ReadCloser: resp.Body, cancel: cancel}
		return resp, nil
	}

	defer cancel()
	defer func() { _ = resp.Body.Close() }()

	apiErr := &Error{
		Kind:       KindRejected,
		StatusCode: resp.StatusCode,
		Detail:     decodeErrorDetail(resp.Body),
	}

	if resp.StatusCode == http.StatusUnauthorized {
		slog.Debug("Received 401, signaling forced logout", "method", method, "path", path)
		c.fireUnauthorized()
	}

	return nil, apiErr
}

func (c *Client) fireUnauthorized() {
	c.mu.Lock()
	hooks := make([]func(), len(c.onUnauthorized))
	copy(hooks, c.onUnauthorized)
	c.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

// decodeErrorDetail extracts the backend's {"detail": "..."} message, falling
// back to the raw body text.
func decodeErrorDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}

	var envelope struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Detail != "" {
		return envelope.Detail
	}

	return strings.TrimSpace(string(data))
}

type cancelReadCloser struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelReadCloser) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
