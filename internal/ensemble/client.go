// Package ensemble is a typed client for the EnsembleData user-search API.
package ensemble

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/splax/userscout/internal/platform"
)

// DefaultBaseURL is the public EnsembleData API root.
const DefaultBaseURL = "https://ensembledata.com/apis"

// Client issues user-search requests against the EnsembleData API.
type Client struct {
	baseURL    string
	httpClient *http.Client
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

// New constructs a Client pointing at the provided API base URL. An empty
// base falls back to the public endpoint.
func New(base string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	cli := &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(cli)
	}
	return cli, nil
}

// SearchUsers issues one GET against the platform's search endpoint and
// normalizes the response. The token travels as a query parameter, matching
// the upstream API contract. Exactly one page is fetched; for TikTok the
// cursor parameter is pinned to zero.
func (c *Client) SearchUsers(ctx context.Context, p platform.Platform, query, token string) ([]platform.Record, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := p.Config()
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%q: %w", p, platform.ErrUnsupported)
	}

	params := url.Values{}
	params.Set(cfg.SearchParam, query)
	if cfg.CursorParam != "" {
		params.Set(cfg.CursorParam, "0")
	}
	params.Set("token", token)

	endpoint := c.baseURL + cfg.Endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	records, err := platform.Normalize(p, body)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return records, nil
}
