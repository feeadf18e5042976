// Package api is the HTTP client for the Minify backend REST API.
//
// Every request carries the stored bearer token when there is one. Every
// 401 response, whichever operation caused it, clears the session store
// and sends the user to the login page before the error is returned.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/me/minify/internal/metrics"
	"github.com/me/minify/internal/nav"
	"github.com/me/minify/pkg/model"
)

// SessionStore is the part of the session store the client needs.
type SessionStore interface {
	Load(ctx context.Context) (*model.Session, error)
	Token(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// Client is an HTTP client for the Minify API.
// Operations are grouped by resource on Auth, URLs and Analytics.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    SessionStore
	nav        nav.Navigator
	metrics    metrics.MetricsCollector
	logger     *slog.Logger

	Auth      *AuthService
	URLs      *URLService
	Analytics *AnalyticsService
}

// Option configures optional Client dependencies.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithMetrics records every request into m.
func WithMetrics(m metrics.MetricsCollector) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New creates a Minify API client. No timeout is set beyond the
// transport defaults; callers cancel through the context.
func New(baseURL string, session SessionStore, navigator nav.Navigator, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		session:    session,
		nav:        navigator,
		metrics:    metrics.Nop{},
		logger:     logger.With("component", "api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Auth = &AuthService{c: c}
	c.URLs = &URLService{c: c}
	c.Analytics = &AnalyticsService{c: c}
	return c
}

// BaseURL returns the backend base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// operation names a call for logs and metrics and carries the message
// shown when the backend gives none.
type operation struct {
	name     string
	fallback string
}

// do performs a request and decodes a 2xx JSON body into out (if non-nil).
func (c *Client) do(ctx context.Context, op operation, method, path string, body, out any) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	reqID := requestID()
	req.Header.Set("X-Request-ID", reqID)

	token, err := c.session.Token(ctx)
	if err != nil {
		c.logger.Warn("read session token", "error", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug("HTTP request", "op", op.name, "method", method, "url", url, "request_id", reqID, "authenticated", token != "")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RecordTransportError(op.name)
		return &APIError{Op: op.name, Message: op.fallback, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	c.metrics.RecordRequest(op.name, resp.StatusCode, time.Since(start))
	if err != nil {
		return &APIError{Op: op.name, Status: resp.StatusCode, Message: op.fallback, Err: fmt.Errorf("read response: %w", err)}
	}

	c.logger.Debug("HTTP response", "op", op.name, "status", resp.StatusCode, "request_id", reqID, "bytes", len(respBody))

	if resp.StatusCode == http.StatusUnauthorized {
		c.handleUnauthorized(ctx, op)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(op, resp.StatusCode, respBody)
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &APIError{Op: op.name, Status: resp.StatusCode, Message: op.fallback, Err: fmt.Errorf("parse response: %w", err)}
	}
	return nil
}

// handleUnauthorized clears the stored session and navigates to the login
// page. It runs for every 401, including ones from background calls.
func (c *Client) handleUnauthorized(ctx context.Context, op operation) {
	c.metrics.RecordUnauthorized()
	c.logger.Info("session rejected by backend", "op", op.name)

	// The session is cleared even if the caller's context is already done.
	if err := c.session.Clear(context.WithoutCancel(ctx)); err != nil {
		c.logger.Error("clear session after 401", "error", err)
	}
	c.nav.Navigate(nav.Login)
}

func (c *Client) get(ctx context.Context, op operation, path string, out any) error {
	return c.do(ctx, op, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, op operation, path string, body, out any) error {
	return c.do(ctx, op, http.MethodPost, path, body, out)
}

// requestID generates a unique request identifier.
func requestID() string {
	return "req_" + uuid.New().String()[:8]
}

// decodeErrorBody extracts the backend's error message, if any.
func decodeErrorBody(body []byte) string {
	var eb model.ErrorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	return strings.TrimSpace(eb.Error)
}
