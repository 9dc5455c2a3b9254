// Package interfaces defines the service contracts between marketdash
// components. Jobs depend on these interfaces rather than concrete clients so
// each source can be mocked in tests.
package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/marketdash/internal/models"
)

// YahooClient fetches price history and headlines from Yahoo Finance.
type YahooClient interface {
	// GetBars returns OHLCV bars for one symbol over the given range and
	// interval (Yahoo notation, e.g. range "7d" interval "1m").
	GetBars(ctx context.Context, symbol, dataRange, interval string) ([]models.Bar, error)

	// GetNews returns up to limit recent headlines for one symbol.
	GetNews(ctx context.Context, symbol string, limit int) ([]models.NewsArticle, error)
}

// TradingViewClient queries the TradingView scanner endpoint.
type TradingViewClient interface {
	// GetOverview returns the market overview rows for the given scanner
	// symbols (exchange-prefixed, e.g. "SP:SPX").
	GetOverview(ctx context.Context, symbols []string) ([]models.Component, error)
}

// InvestingClient scrapes index tables and headlines from Investing.com.
type InvestingClient interface {
	GetIndexPrices(ctx context.Context) ([]models.IndexPrice, error)
	GetTechnicalSummary(ctx context.Context) ([]models.TechnicalSummary, error)

	// GetIndexNews returns up to limit headlines for the index news slug
	// (e.g. "us-30"), newest first.
	GetIndexNews(ctx context.Context, slug string, limit int) ([]models.NewsArticle, error)
}

// GeminiClient produces text analysis of collected headlines.
type GeminiClient interface {
	// SummarizeArticles condenses a set of headlines into a short narrative
	// summary for one symbol.
	SummarizeArticles(ctx context.Context, symbol string, articles []models.NewsArticle) (string, error)

	// ClassifySentiment labels the aggregate sentiment of the headlines as
	// positive, negative or neutral with a confidence in [0,1].
	ClassifySentiment(ctx context.Context, symbol string, articles []models.NewsArticle) (string, float64, error)
}

// Clock abstracts time for jobs that stamp rows, so tests can pin it.
type Clock func() time.Time
