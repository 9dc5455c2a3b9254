package collector

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/marketdash/internal/models"
)

func TestCollectYahooDailyPrices(t *testing.T) {
	registry := newStoreRegistry()
	yahoo := &mockYahooClient{
		bars: map[string][]models.Bar{
			"^GSPC": {
				{Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Open: 4700, High: 4790, Low: 4690, Close: 4769.83, Volume: 2500000000},
			},
			"^DJI": {
				{Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Open: 37600, High: 37780, Low: 37500, Close: 37689.54, Volume: 310000000},
			},
		},
	}

	service, err := newTestService(testConfig(), registry, newMemFrameWriter(), WithYahooClient(yahoo))
	require.NoError(t, err)

	require.NoError(t, service.CollectYahooDailyPrices(context.Background()))

	store := registry.get(TableDailyPrices)
	require.NotNil(t, store)
	require.Len(t, store.upserted, 1, "one batch per run")

	batch := store.upserted[0]
	require.Len(t, batch, 2)
	// sortedKeys puts SPX500 before US30.
	assert.Equal(t, "SPX500", batch[0]["Symbol"])
	assert.Equal(t, "2024-01-01 00:00:00", batch[0]["Datetime"])
	assert.Equal(t, "4769.83", batch[0]["Close"])
	assert.Equal(t, "2500000000", batch[0]["Volume"])
	assert.Equal(t, "US30", batch[1]["Symbol"])
}

func TestCollectYahooMinutePricesUsesMinuteSpec(t *testing.T) {
	registry := newStoreRegistry()
	yahoo := &mockYahooClient{bars: map[string][]models.Bar{
		"^GSPC": {{Timestamp: time.Unix(1704067200, 0).UTC(), Close: 4769.83}},
	}}

	cfg := testConfig()
	service, err := newTestService(cfg, registry, newMemFrameWriter(), WithYahooClient(yahoo))
	require.NoError(t, err)

	require.NoError(t, service.CollectYahooMinutePrices(context.Background()))

	store := registry.get(TableMinutePrices)
	require.NotNil(t, store)
	require.NotNil(t, store.spec.Retention)
	assert.Equal(t, cfg.Storage.MinuteMaxRows, store.spec.Retention.MaxRowsPerPartition)
	assert.Equal(t, "Datetime", store.spec.Retention.SortColumn)
}

func TestCollectYahooPricesWithoutClient(t *testing.T) {
	service, err := newTestService(testConfig(), newStoreRegistry(), newMemFrameWriter())
	require.NoError(t, err)

	assert.Error(t, service.CollectYahooDailyPrices(context.Background()))
}

func TestCollectYahooNews(t *testing.T) {
	registry := newStoreRegistry()
	yahoo := &mockYahooClient{
		articles: map[string][]models.NewsArticle{
			"^GSPC": {{Title: "Markets rally", Publisher: "Reuters", URL: "https://example.com/1",
				Published: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)}},
		},
	}
	csv := newMemFrameWriter()

	service, err := newTestService(testConfig(), registry, csv, WithYahooClient(yahoo))
	require.NoError(t, err)

	require.NoError(t, service.CollectYahooNews(context.Background()))

	frame, ok := csv.frames["news/yahoo_spx500.csv"]
	require.True(t, ok)
	assert.Equal(t, []string{"Symbol", "Title", "Publisher", "URL", "Published"}, frame.header)
	require.Len(t, frame.rows, 1)
	assert.Equal(t, []string{"SPX500", "Markets rally", "Reuters", "https://example.com/1", "2024-01-01 10:00:00"}, frame.rows[0])

	_, ok = csv.frames["news/yahoo_us30.csv"]
	assert.True(t, ok, "symbols without articles still get a header-only file")
}

func TestCollectTradingViewOverview(t *testing.T) {
	registry := newStoreRegistry()
	tv := &mockTradingViewClient{
		components: []models.Component{{
			Pair:          "SP:SPX",
			Symbol:        "SPX",
			Description:   "S&P 500 Index",
			MarketCap:     2.5e9,
			Price:         4769.83,
			ChangePct:     0.42,
			Volume:        2.5e9,
			RelVolume:     1.1,
			Sector:        "",
			AnalystRating: "Buy",
		}},
	}
	csv := newMemFrameWriter()
	sheets := newMemSheetWriter()

	service, err := newTestService(testConfig(), registry, csv,
		WithTradingViewClient(tv), WithSheetWriter(sheets))
	require.NoError(t, err)

	require.NoError(t, service.CollectTradingViewOverview(context.Background()))

	assert.Equal(t, []string{"SP:SPX", "DJ:DJI"}, tv.gotSymbols, "tickers in dashboard-name order")

	frame, ok := csv.frames["tradingview_overview.csv"]
	require.True(t, ok)
	assert.Equal(t, overviewHeader, frame.header)
	require.Len(t, frame.rows, 1)
	row := frame.rows[0]
	assert.Equal(t, "SPX500", row[0], "scanner ticker mapped back to dashboard name")
	assert.Equal(t, "S&P 500 Index", row[2])
	assert.Equal(t, "2.50B", row[3])
	assert.Equal(t, "4769.83", row[4])
	assert.Equal(t, "0.42%", row[5])
	assert.Equal(t, "Buy", row[13])
	assert.Equal(t, "2024-01-02 03:04:05", row[14], "pinned clock stamp")

	sheet, ok := sheets.sheets["tradingview_overview"]
	require.True(t, ok, "frame also published to the sheet")
	assert.Equal(t, frame.rows, sheet.rows)
}

func TestCollectInvestingPrices(t *testing.T) {
	registry := newStoreRegistry()
	investing := &mockInvestingClient{
		prices: []models.IndexPrice{{
			Name: "Dow Jones", Last: "37,689.54", High: "37,778.85", Low: "37,603.23",
			Change: "-45.74", ChangePct: "-0.12%", Time: "05:14:58",
		}},
	}
	csv := newMemFrameWriter()
	sheets := newMemSheetWriter()

	service, err := newTestService(testConfig(), registry, csv,
		WithInvestingClient(investing), WithSheetWriter(sheets))
	require.NoError(t, err)

	require.NoError(t, service.CollectInvestingPrices(context.Background()))

	frame, ok := csv.frames["investing_price.csv"]
	require.True(t, ok)
	require.Len(t, frame.rows, 1)
	assert.Equal(t, []string{"Dow Jones", "37,689.54", "37,778.85", "37,603.23", "-45.74", "-0.12%", "05:14:58", "2024-01-02 03:04:05"}, frame.rows[0])

	_, ok = sheets.sheets["investing_price"]
	assert.True(t, ok)
}

func TestCollectInvestingTechnical(t *testing.T) {
	registry := newStoreRegistry()
	investing := &mockInvestingClient{
		technical: []models.TechnicalSummary{{
			Name: "Dow Jones", Min5: "Buy", Min15: "Buy", Min30: "Neutral",
			Hourly: "Sell", Daily: "Buy", Weekly: "Strong Buy",
		}},
	}
	csv := newMemFrameWriter()

	service, err := newTestService(testConfig(), registry, csv, WithInvestingClient(investing))
	require.NoError(t, err)

	require.NoError(t, service.CollectInvestingTechnical(context.Background()))

	frame, ok := csv.frames["investing_technical.csv"]
	require.True(t, ok)
	assert.Equal(t, investingTechnicalHeader, frame.header)
	require.Len(t, frame.rows, 1)
	assert.Equal(t, "Strong Buy", frame.rows[0][6])
}

func TestCollectInvestingNews(t *testing.T) {
	registry := newStoreRegistry()
	investing := &mockInvestingClient{
		news: map[string][]models.NewsArticle{
			"us-30": {{
				Title: "Dow futures edge higher", Summary: "Futures rose.",
				URL:       "https://www.investing.com/news/1",
				Published: time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC),
			}},
		},
	}

	service, err := newTestService(testConfig(), registry, newMemFrameWriter(), WithInvestingClient(investing))
	require.NoError(t, err)

	require.NoError(t, service.CollectInvestingNews(context.Background()))

	store := registry.get(TableInvestingNews)
	require.NotNil(t, store)
	require.Len(t, store.upserted, 1)

	batch := store.upserted[0]
	require.Len(t, batch, 1)
	assert.Equal(t, "US30", batch[0]["Symbol"], "slug mapped back to dashboard name")
	assert.Equal(t, "Dow futures edge higher", batch[0]["Title"])
	assert.Equal(t, "2024-01-01 10:30:00", batch[0]["Datetime"])
	assert.Equal(t, []string{"Title", "URL"}, store.spec.PrimaryKey)
}

func TestCollectInvestingNewsContinuesPastFailedSlug(t *testing.T) {
	registry := newStoreRegistry()
	cfg := testConfig()
	cfg.SymbolsNewsSlugs = map[string]string{"US30": "us-30", "SPX500": "us-spx-500"}

	investing := &mockInvestingClient{
		news: map[string][]models.NewsArticle{
			"us-30": {{Title: "Dow climbs", URL: "https://example.com/1"}},
		},
		newsErrs: map[string]error{"us-spx-500": errBoom},
	}

	service, err := newTestService(cfg, registry, newMemFrameWriter(), WithInvestingClient(investing))
	require.NoError(t, err)

	require.NoError(t, service.CollectInvestingNews(context.Background()))

	store := registry.get(TableInvestingNews)
	require.Len(t, store.upserted, 1)
	assert.Len(t, store.upserted[0], 1, "surviving slug still collected")
}

func TestRunJobUnknownName(t *testing.T) {
	service, err := newTestService(testConfig(), newStoreRegistry(), newMemFrameWriter())
	require.NoError(t, err)

	assert.Error(t, service.RunJob(context.Background(), "no-such-job"))
}

func TestJobNamesStable(t *testing.T) {
	service, err := newTestService(testConfig(), newStoreRegistry(), newMemFrameWriter())
	require.NoError(t, err)

	names := service.JobNames()
	assert.Contains(t, names, JobYahooDailyPrices)
	assert.Contains(t, names, JobNewsDigest)
	assert.IsIncreasing(t, names)
}
