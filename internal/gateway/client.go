// Package gateway is the HTTP client of the API gateway: log statistics,
// recent logs, auth and task endpoints.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"logs-dashboard/internal/dto"
	"logs-dashboard/internal/model"
)

// TokenStore supplies the bearer token and forgets it on auth failures.
type TokenStore interface {
	Token() string
	Clear() error
}

type Client struct {
	baseURL     string
	taskBaseURL string
	httpClient  *http.Client
	tokens      TokenStore
}

// Option customises client instantiation.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithTaskBaseURL points task calls at a different host than the gateway.
func WithTaskBaseURL(base string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(base), "/"); trimmed != "" {
			c.taskBaseURL = trimmed
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// New constructs a Client for the gateway at base. tokens may be nil.
func New(base string, tokens TokenStore, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		return nil, errors.New("gateway base url is required")
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "http://" + trimmed
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("invalid gateway base url: %w", err)
	}
	cli := &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		tokens:     tokens,
	}
	cli.taskBaseURL = cli.baseURL
	for _, opt := range opts {
		opt(cli)
	}
	return cli, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Stats fetches the gateway's aggregate statistics. Sections that fail to
// decode are left empty and logged.
func (c *Client) Stats(ctx context.Context) (*model.StatsSnapshot, error) {
	var snap model.StatsSnapshot
	if err := c.do(ctx, http.MethodGet, c.baseURL, "/logs/stats", nil, &snap); err != nil {
		return nil, err
	}
	if len(snap.MalformedFields) > 0 {
		log.Warn().Strs("fields", snap.MalformedFields).Msg("Gateway stats contained malformed sections")
	}
	return &snap, nil
}

// RecentLogs fetches the newest limit log records.
func (c *Client) RecentLogs(ctx context.Context, limit int) (*dto.LogListResponse, error) {
	path := "/logs?limit=" + strconv.Itoa(limit)
	var resp dto.LogListResponse
	if err := c.do(ctx, http.MethodGet, c.baseURL, path, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Logs == nil {
		resp.Logs = []model.LogRecord{}
	}
	return &resp, nil
}

func (c *Client) Health(ctx context.Context) (*dto.HealthResponse, error) {
	var resp dto.HealthResponse
	if err := c.do(ctx, http.MethodGet, c.baseURL, "/", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DownloadURL is the gateway's plain-text log export.
func (c *Client) DownloadURL() string {
	return c.baseURL + "/logs/download"
}

func (c *Client) do(ctx context.Context, method, base, path string, body any, v any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	endpoint := base + path
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("method", method).Str("url", endpoint).Msg("Gateway request failed")
		return fmt.Errorf("%w: %s %s: %v", ErrTransient, method, path, err)
	}
	defer resp.Body.Close()

	log.Debug().
		Str("method", method).
		Str("url", endpoint).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("Gateway request done")

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode, Message: extractError(resp.Body)}
		if errors.Is(apiErr, ErrAuth) {
			c.clearToken()
		}
		return apiErr
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrMalformed, path, err)
	}
	return nil
}

func (c *Client) token() string {
	if c.tokens == nil {
		return ""
	}
	return strings.TrimSpace(c.tokens.Token())
}

func (c *Client) clearToken() {
	if c.tokens == nil {
		return
	}
	if err := c.tokens.Clear(); err != nil {
		log.Error().Err(err).Msg("Failed to clear credential after auth failure")
		return
	}
	log.Warn().Msg("Gateway rejected credential, signed out")
}

func extractError(body io.Reader) string {
	if body == nil {
		return ""
	}
	var payload struct {
		Error string `json:"error"`
	}
	data, err := io.ReadAll(body)
	if err != nil || len(data) == 0 {
		return ""
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return strings.TrimSpace(string(data))
	}
	return strings.TrimSpace(payload.Error)
}
