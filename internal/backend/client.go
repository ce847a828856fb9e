// Package backend is the HTTP contract with the SignGen generation service.
//
// The service is a black box: one POST starts generation for a word, and a
// GET per artifact kind returns the latest output. Every failure is returned
// as *Error so callers can tell transport, server and payload problems apart.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/abelbrown/signgen/internal/config"
	"github.com/abelbrown/signgen/internal/logging"
	"github.com/abelbrown/signgen/internal/metrics"
)

// GenericCreateError is reported when a failed create response carries no message.
const GenericCreateError = "Failed to create videos"

// ErrNoPerformancePath is returned by FetchMetrics when no path is configured.
var ErrNoPerformancePath = errors.New("performance path not configured")

const (
	userAgent       = "SignGen/1.0"
	maxVideoBytes   = 256 << 20
	maxJSONBytes    = 1 << 20
	defaultInterval = 100 * time.Millisecond
)

// Client talks to the generation service. It is safe for concurrent use.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRateLimit paces requests to at most one per interval. Zero disables pacing.
func WithRateLimit(interval time.Duration) Option {
	return func(c *Client) {
		if interval <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(interval), 4)
	}
}

// NewClient creates a Client. Generation can take minutes, so the default
// HTTP client has no timeout; callers bound requests through their context.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{},
		limiter: rate.NewLimiter(rate.Every(defaultInterval), 4),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type createRequest struct {
	Gloss string `json:"gloss"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Create asks the service to generate videos for word. The success body is
// opaque and ignored.
func (c *Client) Create(ctx context.Context, cfg config.Config, word string) error {
	const op = "create"

	body, err := json.Marshal(createRequest{Gloss: word})
	if err != nil {
		return fmt.Errorf("marshal create request: %w", err)
	}

	resp, err := c.do(ctx, op, http.MethodPost, cfg.CreateURL(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxJSONBytes))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := GenericCreateError
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil && strings.TrimSpace(eb.Error) != "" {
			msg = eb.Error
		}
		return &Error{Kind: ServerError, Op: op, Status: resp.StatusCode, Message: msg}
	}
	return nil
}

// FetchVideo returns the raw payload of a video kind.
func (c *Client) FetchVideo(ctx context.Context, cfg config.Config, kind config.Kind) ([]byte, error) {
	op := string(kind)
	if !kind.IsVideo() {
		return nil, fmt.Errorf("%s is not a video kind", kind)
	}

	resp, err := c.do(ctx, op, http.MethodGet, cfg.Endpoint(cfg.PathFor(kind)), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(op, resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxVideoBytes))
	if err != nil {
		return nil, &Error{Kind: NetworkFailure, Op: op, Message: "read video", Err: err}
	}
	if len(data) == 0 {
		return nil, &Error{Kind: MalformedResponse, Op: op, Message: "empty video payload"}
	}
	return data, nil
}

// FetchMetrics returns the performance scores of the last generation.
func (c *Client) FetchMetrics(ctx context.Context, cfg config.Config) (metrics.Scores, error) {
	const op = "metrics"
	if strings.TrimSpace(cfg.PerformancePath) == "" {
		return metrics.Scores{}, ErrNoPerformancePath
	}

	resp, err := c.do(ctx, op, http.MethodGet, cfg.Endpoint(cfg.PerformancePath), nil)
	if err != nil {
		return metrics.Scores{}, err
	}
	defer resp.Body.Close()

	if err := checkStatus(op, resp); err != nil {
		return metrics.Scores{}, err
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxJSONBytes))
	if err != nil {
		return metrics.Scores{}, &Error{Kind: NetworkFailure, Op: op, Message: "read metrics", Err: err}
	}
	scores, err := decodeScores(raw)
	if err != nil {
		return metrics.Scores{}, &Error{Kind: MalformedResponse, Op: op, Message: "unexpected metrics payload", Err: err}
	}
	if bad := scores.OutOfRange(); len(bad) > 0 {
		logging.Warn("backend: metrics outside [0,1]", "fields", strings.Join(bad, ","))
	}
	return scores, nil
}

func (c *Client) do(ctx context.Context, op, method, url string, body io.Reader) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &Error{Kind: NetworkFailure, Op: op, Message: "rate limiter", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, &Error{Kind: NetworkFailure, Op: op, Message: "create request", Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &Error{Kind: NetworkFailure, Op: op, Message: "request cancelled", Err: ctx.Err()}
		}
		return nil, &Error{Kind: NetworkFailure, Op: op, Message: "request failed", Err: err}
	}
	logging.Debug("backend: response", "op", op, "status", resp.StatusCode, "took", time.Since(start))
	return resp, nil
}

func checkStatus(op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}
	// Drain a little so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	return &Error{Kind: ServerError, Op: op, Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
}
