// Package apiclient talks to the external report API that backs the admin panels.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"
)

// StatusSuccess is the status value the API reports for a successful call.
const StatusSuccess = "success"

// DefaultTimeout bounds a single API call when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 32 << 20

var userIDPattern = regexp.MustCompile(`^[1-9][0-9]*$`)

// ErrInvalidUserID is returned for identifiers that are not positive integers.
var ErrInvalidUserID = errors.New("user ID must be a positive integer")

// ValidateUserID checks that id is a positive integer without a leading zero.
func ValidateUserID(id string) error {
	if !userIDPattern.MatchString(id) {
		return ErrInvalidUserID
	}
	return nil
}

// Config holds the settings for a Client.
type Config struct {
	// BaseURL is the API base address, e.g. http://localhost:7080
	BaseURL string

	// Timeout bounds each request. Zero means DefaultTimeout.
	Timeout time.Duration

	// HTTPClient overrides the transport. Nil uses a tuned default.
	HTTPClient *http.Client

	Logger *slog.Logger
}

// Client calls the report API. It is safe for concurrent use and its base
// address can be swapped while requests are in flight.
type Client struct {
	mu      sync.RWMutex
	baseURL *url.URL

	http    *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a client for the API at cfg.BaseURL.
func New(cfg Config) (*Client, error) {
	base, err := parseBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = newHTTPClient()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		baseURL: base,
		http:    httpClient,
		timeout: timeout,
		logger:  logger,
	}, nil
}

func newHTTPClient() *http.Client {
	d := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	return &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           d.DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          64,
			MaxIdleConnsPerHost:   16,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}

func parseBaseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("api base URL is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid api base URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid api base URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid api base URL %q: missing host", raw)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// BaseURL returns the current API base address.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL.String()
}

// SetBaseURL points the client at a different API base address.
func (c *Client) SetBaseURL(raw string) error {
	base, err := parseBaseURL(raw)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.baseURL = base
	c.mu.Unlock()
	c.logger.Info("api base URL changed", "base_url", base.String())
	return nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	c.mu.RLock()
	u := *c.baseURL
	c.mu.RUnlock()

	u.Path += path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// getJSON issues a GET and decodes a 2xx body into dst.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, dst any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.endpoint(path, query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("api request failed", "url", target, "error", err)
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("api request",
		"url", target,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return &StatusError{Code: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}
