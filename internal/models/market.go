package models

import "time"

// Bar is a single OHLCV bar from the Yahoo chart API.
type Bar struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}

// NewsArticle is one news item for a dashboard symbol. Sources differ in
// what they expose: Yahoo search fills Publisher, Investing.com fills Summary.
type NewsArticle struct {
	Symbol    string
	Title     string
	Publisher string
	Summary   string
	URL       string
	Published time.Time
}

// Component is one index constituent from the TradingView scanner.
// Numeric fields arrive as raw numbers; formatting to text happens when the
// collector reshapes components into sink rows.
type Component struct {
	Pair          string // dashboard index name, e.g. "SPX500"
	Symbol        string
	Description   string
	MarketCap     float64
	Price         float64
	ChangePct     float64
	Volume        float64
	RelVolume     float64
	PE            float64
	EPSDiluted    float64
	EPSGrowthPct  float64
	DividendYield float64
	Sector        string
	AnalystRating string
}

// IndexPrice is one row of the Investing.com major-indices price table.
// Cells are kept as scraped text; the page renders formatted strings.
type IndexPrice struct {
	Name      string
	Last      string
	High      string
	Low       string
	Change    string
	ChangePct string
	Time      string
}

// TechnicalSummary is one row of the Investing.com technical summary table.
type TechnicalSummary struct {
	Name    string
	Min5    string
	Min15   string
	Min30   string
	Hourly  string
	Daily   string
	Weekly  string
}

// NewsDigest is a per-symbol news roll-up: a Gemini-generated paragraph plus
// a sentiment classification of that paragraph.
type NewsDigest struct {
	Symbol      string
	Summary     string
	Sentiment   string
	Confidence  float64
	LastUpdated string // newest Published value among the digested articles
}

// Sentiment labels produced by the classification boundary.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)
