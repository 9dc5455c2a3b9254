package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bobmcallan/marketdash/internal/common"
	"github.com/bobmcallan/marketdash/internal/interfaces"
	"github.com/bobmcallan/marketdash/internal/models"
)

// memStore is an in-memory TableStore capturing every call.
type memStore struct {
	spec models.TableSpec

	mu        sync.Mutex
	ensured   int
	upserted  [][]models.Row
	contents  []models.Row
	readErr   error
	insertErr error
}

func (m *memStore) EnsureTable(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensured++
	return nil
}

func (m *memStore) InsertOrUpdate(ctx context.Context, rows []models.Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	m.upserted = append(m.upserted, rows)
	return nil
}

func (m *memStore) EnforceRetention(ctx context.Context) error { return nil }

func (m *memStore) ReadTable(ctx context.Context) ([]models.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	return m.contents, nil
}

// storeRegistry hands out one memStore per table name.
type storeRegistry struct {
	mu     sync.Mutex
	stores map[string]*memStore
}

func newStoreRegistry() *storeRegistry {
	return &storeRegistry{stores: make(map[string]*memStore)}
}

func (r *storeRegistry) factory(spec models.TableSpec) (interfaces.TableStore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if store, ok := r.stores[spec.Name]; ok {
		return store, nil
	}
	store := &memStore{spec: spec}
	r.stores[spec.Name] = store
	return store, nil
}

func (r *storeRegistry) get(name string) *memStore {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stores[name]
}

// memFrameWriter captures frames instead of touching the filesystem.
type memFrameWriter struct {
	mu     sync.Mutex
	frames map[string]capturedFrame
}

type capturedFrame struct {
	header []string
	rows   [][]string
}

func newMemFrameWriter() *memFrameWriter {
	return &memFrameWriter{frames: make(map[string]capturedFrame)}
}

func (w *memFrameWriter) WriteFrame(path string, header []string, rows [][]string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.frames[path] = capturedFrame{header: header, rows: rows}
	return nil
}

// memSheetWriter captures worksheets.
type memSheetWriter struct {
	mu     sync.Mutex
	sheets map[string]capturedFrame
}

func newMemSheetWriter() *memSheetWriter {
	return &memSheetWriter{sheets: make(map[string]capturedFrame)}
}

func (w *memSheetWriter) WriteSheet(ctx context.Context, worksheet string, header []string, rows [][]string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sheets[worksheet] = capturedFrame{header: header, rows: rows}
	return nil
}

// mockYahooClient serves canned bars and articles keyed by ticker.
type mockYahooClient struct {
	bars     map[string][]models.Bar
	articles map[string][]models.NewsArticle
	err      error
}

func (m *mockYahooClient) GetBars(ctx context.Context, symbol, dataRange, interval string) ([]models.Bar, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.bars[symbol], nil
}

func (m *mockYahooClient) GetNews(ctx context.Context, symbol string, limit int) ([]models.NewsArticle, error) {
	if m.err != nil {
		return nil, m.err
	}
	articles := m.articles[symbol]
	if limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}
	return articles, nil
}

// mockTradingViewClient serves one canned overview.
type mockTradingViewClient struct {
	components []models.Component
	gotSymbols []string
	err        error
}

func (m *mockTradingViewClient) GetOverview(ctx context.Context, symbols []string) ([]models.Component, error) {
	m.gotSymbols = symbols
	if m.err != nil {
		return nil, m.err
	}
	return m.components, nil
}

// mockInvestingClient serves canned tables and per-slug headlines.
type mockInvestingClient struct {
	prices    []models.IndexPrice
	technical []models.TechnicalSummary
	news      map[string][]models.NewsArticle
	newsErrs  map[string]error
}

func (m *mockInvestingClient) GetIndexPrices(ctx context.Context) ([]models.IndexPrice, error) {
	return m.prices, nil
}

func (m *mockInvestingClient) GetTechnicalSummary(ctx context.Context) ([]models.TechnicalSummary, error) {
	return m.technical, nil
}

func (m *mockInvestingClient) GetIndexNews(ctx context.Context, slug string, limit int) ([]models.NewsArticle, error) {
	if err := m.newsErrs[slug]; err != nil {
		return nil, err
	}
	articles := m.news[slug]
	if limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}
	return articles, nil
}

// mockGeminiClient counts invocations and serves fixed analysis output.
type mockGeminiClient struct {
	summary    string
	sentiment  string
	confidence float64

	summarized []string
	classified []string
	err        error
}

func (m *mockGeminiClient) SummarizeArticles(ctx context.Context, symbol string, articles []models.NewsArticle) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.summarized = append(m.summarized, symbol)
	return m.summary, nil
}

func (m *mockGeminiClient) ClassifySentiment(ctx context.Context, symbol string, articles []models.NewsArticle) (string, float64, error) {
	if m.err != nil {
		return "", 0, m.err
	}
	m.classified = append(m.classified, symbol)
	return m.sentiment, m.confidence, nil
}

// fixedNow pins the Last Updated stamps in every test frame.
var fixedNow = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

// newTestService builds a service over the given mocks with a pinned clock.
func newTestService(cfg *common.Config, registry *storeRegistry, csv *memFrameWriter, opts ...ServiceOption) (*Service, error) {
	base := []ServiceOption{
		WithClock(func() time.Time { return fixedNow }),
	}
	return NewService(cfg, registry.factory, csv, common.NewSilentLogger(), append(base, opts...)...)
}

func testConfig() *common.Config {
	cfg := common.NewDefaultConfig()
	cfg.SymbolsYahoo = map[string]string{"SPX500": "^GSPC", "US30": "^DJI"}
	cfg.SymbolsTradingView = map[string]string{"SPX500": "SP:SPX", "US30": "DJ:DJI"}
	cfg.SymbolsNewsSlugs = map[string]string{"US30": "us-30"}
	return cfg
}

var errBoom = fmt.Errorf("boom")
