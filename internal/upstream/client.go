// Package upstream is the typed REST client for the external ateliers API.
// All methods take the caller's bearer token explicitly; the two public
// auth endpoints send none. Errors are classified at this boundary — the
// workflow layer never inspects raw HTTP statuses.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds every upstream call; there are no retries, a
// failure is terminal for that user action.
const DefaultTimeout = 10 * time.Second

// Client talks to the ateliers REST API.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// New creates a Client for the given base URL (scheme://host[:port]).
func New(baseURL string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		log:     logger,
	}
}

// do issues one request and decodes a 2xx JSON body into out (skipped when
// out is nil or the body is empty). Non-2xx responses and transport
// failures come back as *Error.
func (c *Client) do(ctx context.Context, method, path, token string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	reqID := uuid.New().String()
	req.Header.Set("X-Request-Id", reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Str("method", method).Str("path", path).Str("request_id", reqID).
			Err(err).Msg("upstream unreachable")
		return networkError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return networkError(err)
	}

	c.log.Debug().Str("method", method).Str("path", path).Str("request_id", reqID).
		Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("upstream call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := classify(resp.StatusCode, raw)
		c.log.Info().Str("method", method).Str("path", path).Int("status", resp.StatusCode).
			Str("kind", string(apiErr.Kind)).Msg("upstream error")
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
