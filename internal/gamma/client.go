// Package gamma is a small client for the Polymarket Gamma REST API. It
// enforces a minimum delay between requests, retries transient failures with
// bounded backoff, and exposes list endpoints page by page so callers can
// stop walking early.
package gamma

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

var ErrNotFound = errors.New("gamma: not found")

// APIError is a non-2xx response that is not a plain 404.
type APIError struct {
	Status int
	Path   string
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gamma: %s returned %d: %s", e.Path, e.Status, e.Body)
}

// Retriable reports whether the error is worth another attempt. Throttling
// and server-side failures are transient; other 4xx are not.
func Retriable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusTooManyRequests || apiErr.Status >= 500
	}
	if errors.Is(err, ErrNotFound) {
		return false
	}
	// Network-level failures (timeouts, resets) arrive as url.Error.
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

type Options struct {
	BaseURL      string
	RequestDelay time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
}

type Client struct {
	http       *http.Client
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
}

func NewClient(httpClient *http.Client, opts Options) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://gamma-api.polymarket.com"
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.RequestDelay), 1)
	}
	maxRetries := opts.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	backoff := opts.RetryBackoff
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}
	return &Client{
		http:       httpClient,
		baseURL:    baseURL,
		limiter:    limiter,
		maxRetries: maxRetries,
		backoff:    backoff,
	}
}

func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * c.backoff
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, err := c.doOnce(ctx, target, path)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !Retriable(err) || ctx.Err() != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, target, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, err
	}
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	default:
		msg := strings.TrimSpace(string(body))
		if len(msg) > 200 {
			msg = msg[:200]
		}
		return nil, &APIError{Status: resp.StatusCode, Path: path, Body: msg}
	}
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.doRequest(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("gamma: decode %s: %w", path, err)
	}
	return nil
}

// Page addresses one slice of a list endpoint. A response shorter than Limit
// means the listing is exhausted.
type Page struct {
	Limit  int
	Offset int
}

func (p Page) values() url.Values {
	q := url.Values{}
	q.Set("limit", fmt.Sprintf("%d", p.Limit))
	q.Set("offset", fmt.Sprintf("%d", p.Offset))
	return q
}

func setBool(q url.Values, key string, val *bool) {
	if val != nil {
		q.Set(key, fmt.Sprintf("%t", *val))
	}
}
