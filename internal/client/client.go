// Package client is the HTTP transport to a Mythgarden server. It keeps the
// session cookies and echoes the anti-forgery token on every POST.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/jwebster45206/mythgarden-console/internal/middleware"
)

const (
	CSRFCookie = "csrftoken"
	CSRFHeader = "X-CSRFToken"
)

// ErrStatus is wrapped by StatusError for any non-200 response.
var ErrStatus = errors.New("unexpected status")

// StatusError carries the status code and body of a non-200 response.
type StatusError struct {
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v %d: %s", ErrStatus, e.Code, strings.TrimSpace(string(e.Body)))
}

func (e *StatusError) Unwrap() error {
	return ErrStatus
}

type Client struct {
	baseURL *url.URL
	http    *http.Client
	log     *slog.Logger
}

// New creates a client with its own cookie jar. A nil logger discards.
func New(baseURL string, timeout time.Duration, log *slog.Logger) (*Client, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &Client{
		baseURL: u,
		http:    &http.Client{Timeout: timeout, Jar: jar},
		log:     log,
	}, nil
}

// BaseURL returns the server root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// CSRFToken returns the anti-forgery token the server set as a cookie, or
// "" before the first page load.
func (c *Client) CSRFToken() string {
	for _, cookie := range c.http.Jar.Cookies(c.baseURL) {
		if cookie.Name == CSRFCookie {
			return cookie.Value
		}
	}
	return ""
}

// PostJSON posts body as JSON to path and returns the response body of a 200.
func (c *Client) PostJSON(ctx context.Context, path, requestID string, body any) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve(path), bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(CSRFHeader, c.CSRFToken())

	return c.do(req, requestID)
}

// GetJSON fetches path and returns the response body of a 200.
func (c *Client) GetJSON(ctx context.Context, path, requestID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(path), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, requestID)
}

func (c *Client) do(req *http.Request, requestID string) ([]byte, error) {
	if requestID != "" {
		req.Header.Set(middleware.RequestIDHeader, requestID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debug("Server responded",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"request_id", requestID)

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Body: body}
	}
	return body, nil
}

func (c *Client) resolve(path string) string {
	return c.baseURL.JoinPath(path).String()
}
