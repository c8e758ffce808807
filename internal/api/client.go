// Package api is the HTTP client for the scenario/evaluation backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 200 {
		body = body[:200]
	}
	if body == "" {
		return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.Code)
	}
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.Code, body)
}

type Client struct {
	base      *url.URL
	http      *http.Client
	userAgent string
}

type Option func(*Client)

// WithTimeout bounds every request. Zero keeps requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("api: base url is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("api: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api: unsupported scheme %q", u.Scheme)
	}
	c := &Client{base: u, http: &http.Client{}, userAgent: "integribot"}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) BaseURL() string {
	return c.base.String()
}

func (c *Client) GenerateScenario(ctx context.Context, req ScenarioRequest) (Scenario, error) {
	return postJSON[ScenarioRequest, Scenario](ctx, c, PathGenerateScenario, req)
}

func (c *Client) Evaluate(ctx context.Context, req EvaluateRequest) (Evaluation, error) {
	return postJSON[EvaluateRequest, Evaluation](ctx, c, PathEvaluate, req)
}

func (c *Client) SubmitScore(ctx context.Context, req SubmitScoreRequest) (SubmitScoreResponse, error) {
	return postJSON[SubmitScoreRequest, SubmitScoreResponse](ctx, c, PathSubmitScore, req)
}

func (c *Client) Leaderboard(ctx context.Context) (Leaderboard, error) {
	return getJSON[Leaderboard](ctx, c, PathLeaderboard)
}

func (c *Client) endpoint(path string) string {
	u := *c.base
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	return u.String()
}

func getJSON[T any](ctx context.Context, c *Client, path string) (T, error) {
	var result T
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path), nil)
	if err != nil {
		return result, err
	}
	req.Header.Set("Accept", "application/json")
	return do[T](c, req, path)
}

func postJSON[Req any, Res any](ctx context.Context, c *Client, path string, body Req) (Res, error) {
	var result Res
	payload, err := json.Marshal(body)
	if err != nil {
		return result, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), bytes.NewReader(payload))
	if err != nil {
		return result, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return do[Res](c, req, path)
}

func do[T any](c *Client, req *http.Request, path string) (T, error) {
	var result T
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return result, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return result, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result, &StatusError{Method: req.Method, Path: path, Code: resp.StatusCode, Body: string(body)}
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return result, fmt.Errorf("%s %s: decode response: %w", req.Method, path, err)
	}
	return result, nil
}
