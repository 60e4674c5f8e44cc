// Package api wraps all calls to the journal backend: URL resolution,
// bearer-credential injection, and central handling of authorization
// failures. Every remote operation of the client goes through here.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"journal-cli/internal/logging"
	"journal-cli/internal/session"
)

// Client is the authenticated HTTP client. It consults the session
// manager for the credential and delegates authorization failures to the
// guard, so auth errors never reach page-level handling.
type Client struct {
	base     string
	http     *http.Client
	sessions *session.Manager
	guard    *session.Guard
	log      logging.Logger
}

func NewClient(base string, sessions *session.Manager, guard *session.Guard, log logging.Logger) *Client {
	return &Client{
		base:     strings.TrimRight(base, "/"),
		http:     &http.Client{},
		sessions: sessions,
		guard:    guard,
		log:      log,
	}
}

// resolveURL returns path unchanged when it already carries a scheme,
// otherwise prefixes the configured backend origin.
func (c *Client) resolveURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.base + path
}

// Do issues an authenticated request. Callers may pass extra headers;
// Authorization and Content-Type are always injected last and overwrite
// same-named caller values. A 401 response clears the session via the
// guard and fails with ErrUnauthorized; every other response is returned
// to the caller untouched.
func (c *Client) Do(ctx context.Context, method, path string, body any, headers http.Header) (*http.Response, error) {
	// Check the credential before spending a round trip. The guard
	// redirects as a side effect, so the caller only needs to stop.
	if !c.guard.Check(ctx) {
		return nil, ErrSessionExpired
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolveURL(path), reader)
	if err != nil {
		return nil, err
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	cred := c.sessions.Get()
	if cred != nil {
		req.Header.Set("Authorization", "Bearer "+cred.Token)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(ctx, "request transport failure", "method", method, "path", path, "err", err)
		return nil, &NetworkError{Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		c.log.Info(ctx, "credential rejected by server", "path", path)
		c.guard.Invalidate(ctx)
		return nil, ErrUnauthorized
	}
	return resp, nil
}

// doJSON performs Do and decodes a JSON response into out (when non-nil).
// Non-2xx responses become a ValidationError carrying the server's
// message field.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.Do(ctx, method, path, body, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeServerError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// unauthenticatedJSON posts to an auth endpoint that requires no
// credential (login, signup, OTP, password reset).
func (c *Client) unauthenticatedJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolveURL(path), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeServerError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeServerError(resp *http.Response) error {
	var payload struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	return &ValidationError{Status: resp.StatusCode, Message: payload.Message}
}
