// Package api is the client of the remote content API that owns the portfolio data.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Zachkp/portfolio/internal/cache"
)

// TokenHeader carries the admin key on authenticated calls.
const TokenHeader = "admin-secret-key"

const maxResponseSize = 10 << 20

// TokenSource yields the session token of the request in ctx.
type TokenSource interface {
	Get(ctx context.Context) (string, bool)
}

// Client issues JSON requests against the content API base URL.
type Client struct {
	baseURL  string
	http     *http.Client
	tokens   TokenSource
	cache    cache.Cache
	cacheTTL time.Duration
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every call, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithCache caches unauthenticated collection reads for ttl. Successful writes to a
// collection evict its entry.
func WithCache(cc cache.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cc
		c.cacheTTL = ttl
	}
}

func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		tokens:  tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request performs one call and returns the raw 2xx body.
//
// The session token is attached when needsAuth is set or when the call targets an admin
// resource. A 401 yields ErrAuthorizationDenied; any other failure a *RequestError.
func (c *Client) Request(ctx context.Context, method, path string, body any, needsAuth bool) ([]byte, error) {
	auth := needsAuth || isAdminCall(method, path)
	cacheable := c.cache != nil && method == http.MethodGet && !auth

	if cacheable {
		if raw, err := c.cache.Get(ctx, path); err == nil {
			return raw, nil
		} else if !errors.Is(err, cache.ErrMiss) {
			slog.Warn("cache read failed", "path", path, "error", err)
		}
	}

	status, raw, err := c.do(ctx, method, path, body, auth)
	if err != nil {
		return nil, err
	}
	if err := check(method, path, status, raw); err != nil {
		return nil, err
	}

	switch {
	case cacheable:
		if err := c.cache.Set(ctx, path, raw, c.cacheTTL); err != nil {
			slog.Warn("cache write failed", "path", path, "error", err)
		}
	case method != http.MethodGet:
		c.evict(ctx, path)
	}
	return raw, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, auth bool) (int, []byte, error) {
	var (
		reader      io.Reader
		contentType string
	)
	switch b := body.(type) {
	case nil:
	case encodedBody:
		reader, contentType = bytes.NewReader(b.data), b.contentType
	default:
		buf, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("encoding %s %s body: %w", method, path, err)
		}
		reader, contentType = bytes.NewReader(buf), "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, &RequestError{Method: method, Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if auth {
		token, ok := "", false
		if c.tokens != nil {
			token, ok = c.tokens.Get(ctx)
		}
		if !ok {
			return 0, nil, fmt.Errorf("%s %s: no session token: %w", method, path, ErrAuthorizationDenied)
		}
		req.Header.Set(TokenHeader, strings.TrimSpace(token))
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, &RequestError{Method: method, Path: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return 0, nil, &RequestError{Method: method, Path: path, Status: resp.StatusCode, Err: err}
	}

	slog.Debug("content api call",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)
	return resp.StatusCode, raw, nil
}

func check(method, path string, status int, raw []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized:
		return fmt.Errorf("%s %s: %w", method, path, ErrAuthorizationDenied)
	}
	return &RequestError{Method: method, Path: path, Status: status, Message: bodyMessage(raw)}
}

// bodyMessage pulls a human readable message out of an error body.
func bodyMessage(raw []byte) string {
	var body struct {
		Message any `json:"message"`
		Error   any `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	for _, v := range []any{body.Message, body.Error} {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// isAdminCall reports whether the path is an admin resource: anything under /messages
// and every write except the two public ones.
func isAdminCall(method, path string) bool {
	p := strings.TrimSuffix(path, "/")
	if p == "/messages" || strings.HasPrefix(p, "/messages/") {
		return true
	}
	if method == http.MethodGet {
		return false
	}
	if method == http.MethodPost && (p == "/contact" || p == "/auth/login") {
		return false
	}
	return true
}

// collectionPath maps "/projects/42" to "/projects".
func collectionPath(path string) string {
	p := strings.TrimPrefix(path, "/")
	if i := strings.IndexAny(p, "/?"); i >= 0 {
		p = p[:i]
	}
	return "/" + p
}

func (c *Client) evict(ctx context.Context, path string) {
	if c.cache == nil {
		return
	}
	key := collectionPath(path)
	if err := c.cache.Delete(ctx, key); err != nil {
		slog.Warn("cache eviction failed", "path", key, "error", err)
	}
}
