// Package tradingview provides a client for the TradingView scanner API
package tradingview

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/marketdash/internal/common"
	"github.com/bobmcallan/marketdash/internal/interfaces"
	"github.com/bobmcallan/marketdash/internal/models"
)

const (
	DefaultBaseURL   = "https://scanner.tradingview.com"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 2 // requests per second
)

// scanColumns is the ordered field list requested from the scanner. The
// response rows carry values positionally in this order.
var scanColumns = []string{
	"name",
	"description",
	"market_cap_basic",
	"close",
	"change",
	"volume",
	"relative_volume_10d_calc",
	"price_earnings_ttm",
	"earnings_per_share_diluted_ttm",
	"earnings_per_share_diluted_yoy_growth_ttm",
	"dividends_yield_current",
	"sector",
	"Recommend.All",
}

// Client implements the TradingViewClient interface
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new TradingView scanner client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("TradingView API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

type scanRequest struct {
	Symbols scanSymbols `json:"symbols"`
	Columns []string    `json:"columns"`
}

type scanSymbols struct {
	Tickers []string `json:"tickers"`
}

type scanResponse struct {
	Data []struct {
		Symbol string `json:"s"`
		Values []any  `json:"d"`
	} `json:"data"`
	TotalCount int `json:"totalCount"`
}

// GetOverview queries the global scanner for the given exchange-prefixed
// symbols and returns one overview row per symbol.
func (c *Client) GetOverview(ctx context.Context, symbols []string) ([]models.Component, error) {
	if len(symbols) == 0 {
		return nil, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	body, err := json.Marshal(scanRequest{
		Symbols: scanSymbols{Tickers: symbols},
		Columns: scanColumns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode scan request: %w", err)
	}

	endpoint := "/global/scan"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug().Int("symbols", len(symbols)).Msg("TradingView scan request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(raw),
			Endpoint:   endpoint,
		}
	}

	var payload scanResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	components := make([]models.Component, 0, len(payload.Data))
	for _, entry := range payload.Data {
		if len(entry.Values) < len(scanColumns) {
			c.logger.Warn().Str("symbol", entry.Symbol).Int("fields", len(entry.Values)).Msg("Scanner row truncated, skipping")
			continue
		}
		components = append(components, models.Component{
			Pair:          entry.Symbol,
			Symbol:        asString(entry.Values[0]),
			Description:   asString(entry.Values[1]),
			MarketCap:     asFloat(entry.Values[2]),
			Price:         asFloat(entry.Values[3]),
			ChangePct:     asFloat(entry.Values[4]),
			Volume:        asFloat(entry.Values[5]),
			RelVolume:     asFloat(entry.Values[6]),
			PE:            asFloat(entry.Values[7]),
			EPSDiluted:    asFloat(entry.Values[8]),
			EPSGrowthPct:  asFloat(entry.Values[9]),
			DividendYield: asFloat(entry.Values[10]),
			Sector:        asString(entry.Values[11]),
			AnalystRating: ratingLabel(asFloat(entry.Values[12])),
		})
	}

	c.logger.Debug().Int("rows", len(components)).Msg("TradingView scan fetched")
	return components, nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any) float64 {
	f, _ := v.(float64)
	return f
}

// ratingLabel maps the scanner's Recommend.All score in [-1,1] to the label
// TradingView shows for the same thresholds.
func ratingLabel(score float64) string {
	switch {
	case score >= 0.5:
		return "Strong Buy"
	case score >= 0.1:
		return "Buy"
	case score <= -0.5:
		return "Strong Sell"
	case score <= -0.1:
		return "Sell"
	default:
		return "Neutral"
	}
}

// Ensure Client implements TradingViewClient
var _ interfaces.TradingViewClient = (*Client)(nil)
