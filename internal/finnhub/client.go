// Package finnhub implements a minimal client for the Finnhub REST API:
// company profiles, exchange symbol listings, and market/company news.
package finnhub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the production Finnhub API root.
const DefaultBaseURL = "https://finnhub.io/api/v1"

// ErrNoProfile indicates the API returned no profile data for a symbol.
// Finnhub answers unknown symbols with an empty JSON object.
var ErrNoProfile = errors.New("finnhub: no profile data")

// APIError is a non-2xx response from the API. Body carries the raw
// response text for diagnosis against the live API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("finnhub: API returned %d: %s", e.StatusCode, e.Body)
}

// Client issues authenticated requests against the Finnhub API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root, e.g. to point at a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithTimeout sets the per-request timeout on the underlying HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a Client authenticated with the given API token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    DefaultBaseURL,
		token:      token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CompanyProfile fetches the profile for a ticker symbol.
func (c *Client) CompanyProfile(ctx context.Context, symbol string) (Profile, error) {
	var p Profile
	body, err := c.get(ctx, "/stock/profile2", url.Values{"symbol": {symbol}}, &p)
	if err != nil {
		return Profile{}, err
	}
	if p.Ticker == "" && p.Name == "" {
		return Profile{}, fmt.Errorf("%w for %q (response: %s)", ErrNoProfile, symbol, body)
	}
	return p, nil
}

// StockSymbols fetches the instrument listing for an exchange code.
func (c *Client) StockSymbols(ctx context.Context, exchange string) ([]StockSymbol, error) {
	var symbols []StockSymbol
	if _, err := c.get(ctx, "/stock/symbol", url.Values{"exchange": {exchange}}, &symbols); err != nil {
		return nil, err
	}
	return symbols, nil
}

// MarketNews fetches general market news for a category
// (general, forex, crypto, or merger).
func (c *Client) MarketNews(ctx context.Context, category string) ([]NewsItem, error) {
	var items []NewsItem
	if _, err := c.get(ctx, "/news", url.Values{"category": {category}}, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CompanyNews fetches news for a symbol within the [from, to] date range.
func (c *Client) CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]NewsItem, error) {
	q := url.Values{
		"symbol": {symbol},
		"from":   {from.UTC().Format("2006-01-02")},
		"to":     {to.UTC().Format("2006-01-02")},
	}
	var items []NewsItem
	if _, err := c.get(ctx, "/company-news", q, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// get issues one GET, reads the whole body, and decodes it into out.
// The token travels as both the X-Finnhub-Token header and the token
// query parameter; the API accepts either, the redundancy matches what
// deployed clients already send. The raw body is returned so callers
// can include it in their own diagnostics.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) (string, error) {
	query.Set("token", c.token)
	reqURL := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("finnhub: building request for %s: %w", path, err)
	}
	req.Header.Set("X-Finnhub-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("finnhub: requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("finnhub: reading %s response: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return string(body), &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return string(body), fmt.Errorf("finnhub: decoding %s response: %w (body: %s)", path, err, body)
	}
	return string(body), nil
}
