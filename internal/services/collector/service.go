// Package collector implements the marketdash collection jobs: fetch from
// each market data source, reshape into tabular frames, and publish to the
// configured sinks.
package collector

import (
	"fmt"
	"sort"
	"time"

	"github.com/bobmcallan/marketdash/internal/common"
	"github.com/bobmcallan/marketdash/internal/interfaces"
)

// timestampLayout is the canonical text form for every Datetime and
// Last Updated value written to a sink.
const timestampLayout = "2006-01-02 15:04:05"

// Service orchestrates the collection jobs. Every external dependency comes
// in through an interface so jobs can run against fakes in tests.
type Service struct {
	config *common.Config
	logger *common.Logger

	yahoo       interfaces.YahooClient
	tradingView interfaces.TradingViewClient
	investing   interfaces.InvestingClient
	gemini      interfaces.GeminiClient

	stores interfaces.StoreFactory
	sheets interfaces.SheetWriter
	csv    interfaces.FrameWriter

	now interfaces.Clock
}

// ServiceOption configures the service
type ServiceOption func(*Service)

// WithYahooClient sets the Yahoo Finance client
func WithYahooClient(client interfaces.YahooClient) ServiceOption {
	return func(s *Service) { s.yahoo = client }
}

// WithTradingViewClient sets the TradingView client
func WithTradingViewClient(client interfaces.TradingViewClient) ServiceOption {
	return func(s *Service) { s.tradingView = client }
}

// WithInvestingClient sets the Investing.com client
func WithInvestingClient(client interfaces.InvestingClient) ServiceOption {
	return func(s *Service) { s.investing = client }
}

// WithGeminiClient sets the Gemini client
func WithGeminiClient(client interfaces.GeminiClient) ServiceOption {
	return func(s *Service) { s.gemini = client }
}

// WithSheetWriter sets the Google Sheets sink
func WithSheetWriter(sheets interfaces.SheetWriter) ServiceOption {
	return func(s *Service) { s.sheets = sheets }
}

// WithClock pins the timestamp source
func WithClock(now interfaces.Clock) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService creates a collector service. The store factory and frame writer
// are required; clients and the sheet sink are optional and the jobs needing
// an absent one fail with a configuration error when invoked.
func NewService(config *common.Config, stores interfaces.StoreFactory, csv interfaces.FrameWriter, logger *common.Logger, opts ...ServiceOption) (*Service, error) {
	if config == nil {
		return nil, fmt.Errorf("collector: config is required")
	}
	if stores == nil {
		return nil, fmt.Errorf("collector: store factory is required")
	}
	if csv == nil {
		return nil, fmt.Errorf("collector: frame writer is required")
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	s := &Service{
		config: config,
		logger: logger,
		stores: stores,
		csv:    csv,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// timestamp returns the current UTC time in the canonical text form.
func (s *Service) timestamp() string {
	return s.now().UTC().Format(timestampLayout)
}

// sortedKeys returns map keys in stable order so job output is deterministic.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
