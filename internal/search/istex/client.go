// Package istex queries the ISTEX document API.
package istex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/matsen/refzone/internal/search"
	"golang.org/x/time/rate"
)

const (
	// BaseURL is the ISTEX API base URL.
	BaseURL = "https://api.istex.fr"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit is the default number of requests per second.
	RateLimit = 5.0

	// Scheme names ISTEX identifiers in enriched records.
	Scheme = "istex"
)

// Client is a rate-limited HTTP client for the ISTEX API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	token      string
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithToken sets the bearer token for authenticated requests.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithRateLimit sets the request rate in requests per second.
func WithRateLimit(perSecond float64) ClientOption {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// NewClient creates a new ISTEX API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
	}

	if token := os.Getenv("ISTEX_TOKEN"); token != "" {
		c.token = token
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Scheme implements search.Searcher.
func (c *Client) Scheme() string {
	return Scheme
}

// URI returns the API address of a document.
func (c *Client) URI(h *search.Hit) string {
	if h == nil || h.ID == "" {
		return ""
	}
	return c.baseURL + "/document/" + h.ID
}

type response struct {
	Total int          `json:"total"`
	Hits  []search.Hit `json:"hits"`
}

// Top returns the best hit for the query, or nil when there is none.
func (c *Client) Top(ctx context.Context, req search.Request) (*search.Hit, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	fields := req.Fields
	if len(fields) == 0 {
		fields = search.DefaultFields
	}
	params := url.Values{}
	params.Set("q", req.Query)
	params.Set("output", strings.Join(fields, ","))
	params.Set("size", "1")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/document/?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", search.ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := search.CheckStatus(resp.StatusCode, strings.TrimSpace(string(body)))
		if apiErr, ok := err.(*search.APIError); ok {
			apiErr.Query = req.Query
		}
		return nil, err
	}

	var r response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: parsing search results: %v", search.ErrInvalidResponse, err)
	}
	if len(r.Hits) == 0 {
		return nil, nil
	}
	return &r.Hits[0], nil
}
