// Package investing scrapes index tables and headlines from Investing.com
package investing

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/bobmcallan/marketdash/internal/common"
	"github.com/bobmcallan/marketdash/internal/interfaces"
	"github.com/bobmcallan/marketdash/internal/models"
)

const (
	DefaultBaseURL   = "https://www.investing.com"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 2 // requests per second

	// The site serves a consent interstitial to clients without a browser
	// user agent.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"

	// The index tables render inside a datatable-v2 component; the class
	// suffix hash changes between deploys so only the prefix is matched.
	tableRowSelector = `table[class*="datatable-v2_table"] tbody tr`
)

// Client implements the InvestingClient interface
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

// NewClient creates a new Investing.com client
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

// APIError represents a scrape failure
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Investing.com error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// GetIndexPrices scrapes the major-indices price table: one row per index
// with last, high, low, change and quote time.
func (c *Client) GetIndexPrices(ctx context.Context) ([]models.IndexPrice, error) {
	doc, err := c.fetch(ctx, "/indices/major-indices")
	if err != nil {
		return nil, err
	}

	var prices []models.IndexPrice
	doc.Find(tableRowSelector).Each(func(_ int, row *goquery.Selection) {
		cells := cellTexts(row)
		// Leading cell is the watchlist icon.
		if len(cells) < 8 {
			return
		}
		prices = append(prices, models.IndexPrice{
			Name:      cells[1],
			Last:      cells[2],
			High:      cells[3],
			Low:       cells[4],
			Change:    cells[5],
			ChangePct: cells[6],
			Time:      cells[7],
		})
	})

	c.logger.Debug().Int("rows", len(prices)).Msg("Investing price table scraped")
	return prices, nil
}

// GetTechnicalSummary scrapes the indices technical page: one row per index
// with the summary signal per timeframe.
func (c *Client) GetTechnicalSummary(ctx context.Context) ([]models.TechnicalSummary, error) {
	doc, err := c.fetch(ctx, "/indices/indices-technical")
	if err != nil {
		return nil, err
	}

	var summaries []models.TechnicalSummary
	doc.Find(tableRowSelector).Each(func(_ int, row *goquery.Selection) {
		cells := cellTexts(row)
		if len(cells) < 8 {
			return
		}
		summaries = append(summaries, models.TechnicalSummary{
			Name:   cells[1],
			Min5:   cells[2],
			Min15:  cells[3],
			Min30:  cells[4],
			Hourly: cells[5],
			Daily:  cells[6],
			Weekly: cells[7],
		})
	})

	c.logger.Debug().Int("rows", len(summaries)).Msg("Investing technical table scraped")
	return summaries, nil
}

// GetIndexNews scrapes up to limit headlines from the index news page for the
// given slug (e.g. "us-30").
func (c *Client) GetIndexNews(ctx context.Context, slug string, limit int) ([]models.NewsArticle, error) {
	doc, err := c.fetch(ctx, fmt.Sprintf("/indices/%s-news", slug))
	if err != nil {
		return nil, err
	}

	var articles []models.NewsArticle
	doc.Find(`ul[data-test="news-list"] article`).EachWithBreak(func(_ int, article *goquery.Selection) bool {
		titleLink := article.Find(`a[data-test="article-title-link"]`).First()
		title := strings.TrimSpace(titleLink.Text())
		if title == "" {
			return true
		}
		href, _ := titleLink.Attr("href")
		summary := strings.TrimSpace(article.Find(`p[data-test="article-description"]`).First().Text())

		var published time.Time
		if stamp, ok := article.Find(`time[data-test="article-publish-date"]`).First().Attr("datetime"); ok {
			published = parseArticleTime(stamp)
		}

		articles = append(articles, models.NewsArticle{
			Title:     title,
			Summary:   summary,
			URL:       href,
			Published: published,
		})
		return limit <= 0 || len(articles) < limit
	})

	c.logger.Debug().Str("slug", slug).Int("articles", len(articles)).Msg("Investing news scraped")
	return articles, nil
}

// fetch GETs a page and parses it.
func (c *Client) fetch(ctx context.Context, path string) (*goquery.Document, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug().Str("url", c.baseURL+path).Msg("Investing page request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page %s: %w", path, err)
	}
	return doc, nil
}

func cellTexts(row *goquery.Selection) []string {
	var cells []string
	row.Find("td").Each(func(_ int, cell *goquery.Selection) {
		cells = append(cells, strings.TrimSpace(cell.Text()))
	})
	return cells
}

// parseArticleTime accepts the datetime attribute formats the site has used.
func parseArticleTime(stamp string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, stamp); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// Ensure Client implements InvestingClient
var _ interfaces.InvestingClient = (*Client)(nil)
