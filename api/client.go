package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/zdco/zdchat"
)

// Interface compliance checks.
var (
	_ zdchat.Backend = (*Client)(nil)
	_ zdchat.Titler  = (*Client)(nil)
)

// Client talks to the assistant service over HTTP.
type Client struct {
	baseURL    string
	titlePath  string
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the service base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTitlePath overrides the title endpoint path.
func WithTitlePath(path string) Option {
	return func(c *Client) { c.titlePath = path }
}

// New creates a new [Client].
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		titlePath:  defaultTitlePath,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Chat posts query to endpoint and returns the reply segments.
func (c *Client) Chat(ctx context.Context, endpoint, query string) ([]string, error) {
	var resp chatResponse
	if err := c.post(ctx, endpoint, chatRequest{Query: query}, &resp); err != nil {
		return nil, err
	}
	if resp.Response == nil {
		return nil, errors.New("api: response missing")
	}
	return resp.Response, nil
}

// GenerateTitle asks the service for a short title summarizing message.
func (c *Client) GenerateTitle(ctx context.Context, message string) (string, error) {
	var resp titleResponse
	if err := c.post(ctx, c.titlePath, titleRequest{Message: message}, &resp); err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Title), nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseHTTPError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode %s: %w", path, err)
	}
	return nil
}

func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("api: HTTP %d (failed to read body: %w)", resp.StatusCode, err)
	}
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
		return fmt.Errorf("api: HTTP %d: %s", resp.StatusCode, apiErr.Error)
	}
	return fmt.Errorf("api: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}
