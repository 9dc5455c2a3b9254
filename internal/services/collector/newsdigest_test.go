package collector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/marketdash/internal/models"
)

func storedHeadline(symbol, title, datetime string) models.Row {
	return models.Row{
		"Symbol":   symbol,
		"Title":    title,
		"Summary":  "",
		"URL":      "https://example.com/" + title,
		"Datetime": datetime,
	}
}

func TestBuildNewsDigest(t *testing.T) {
	registry := newStoreRegistry()
	gemini := &mockGeminiClient{summary: "Stocks advanced.", sentiment: models.SentimentPositive, confidence: 0.8}

	cfg := testConfig()
	service, err := newTestService(cfg, registry, newMemFrameWriter(), WithGeminiClient(gemini))
	require.NoError(t, err)

	newsStore, err := registry.factory(InvestingNewsSpec(cfg))
	require.NoError(t, err)
	newsStore.(*memStore).contents = []models.Row{
		storedHeadline("US30", "a", "2024-01-01 09:00:00"),
		storedHeadline("US30", "b", "2024-01-01 11:00:00"),
		storedHeadline("SPX500", "c", "2024-01-01 08:00:00"),
	}

	require.NoError(t, service.BuildNewsDigest(context.Background()))

	assert.ElementsMatch(t, []string{"US30", "SPX500"}, gemini.summarized)

	digestStore := registry.get(TableNewsDigest)
	require.NotNil(t, digestStore)
	require.Len(t, digestStore.upserted, 1)

	batch := digestStore.upserted[0]
	require.Len(t, batch, 2)
	bydSymbol := make(map[string]models.Row, 2)
	for _, row := range batch {
		bydSymbol[row["Symbol"]] = row
	}
	us30 := bydSymbol["US30"]
	assert.Equal(t, "Stocks advanced.", us30["Summary"])
	assert.Equal(t, models.SentimentPositive, us30["Sentiment"])
	assert.Equal(t, "0.80", us30["Confidence"])
	assert.Equal(t, "2024-01-01 11:00:00", us30["Last Updated"], "stamped with the newest headline")
}

func TestBuildNewsDigestSkipsCurrentSymbols(t *testing.T) {
	registry := newStoreRegistry()
	gemini := &mockGeminiClient{summary: "s", sentiment: models.SentimentNeutral, confidence: 0.5}

	cfg := testConfig()
	service, err := newTestService(cfg, registry, newMemFrameWriter(), WithGeminiClient(gemini))
	require.NoError(t, err)

	newsStore, err := registry.factory(InvestingNewsSpec(cfg))
	require.NoError(t, err)
	newsStore.(*memStore).contents = []models.Row{
		storedHeadline("US30", "a", "2024-01-01 09:00:00"),
		storedHeadline("SPX500", "b", "2024-01-01 10:00:00"),
	}

	digestStore, err := registry.factory(NewsDigestSpec())
	require.NoError(t, err)
	digestStore.(*memStore).contents = []models.Row{
		{"Symbol": "US30", "Summary": "old", "Sentiment": "neutral", "Confidence": "0.50", "Last Updated": "2024-01-01 09:00:00"},
	}

	require.NoError(t, service.BuildNewsDigest(context.Background()))

	assert.Equal(t, []string{"SPX500"}, gemini.summarized, "only the stale symbol is re-digested")
}

func TestBuildNewsDigestNoHeadlines(t *testing.T) {
	registry := newStoreRegistry()
	gemini := &mockGeminiClient{}

	service, err := newTestService(testConfig(), registry, newMemFrameWriter(), WithGeminiClient(gemini))
	require.NoError(t, err)

	require.NoError(t, service.BuildNewsDigest(context.Background()))
	assert.Empty(t, gemini.summarized)
}

func TestBuildNewsDigestWithoutClient(t *testing.T) {
	service, err := newTestService(testConfig(), newStoreRegistry(), newMemFrameWriter())
	require.NoError(t, err)

	assert.Error(t, service.BuildNewsDigest(context.Background()))
}

func TestNewestPublished(t *testing.T) {
	rows := []models.Row{
		storedHeadline("US30", "a", "2024-01-01 09:00:00"),
		storedHeadline("US30", "b", "2024-01-02 07:30:00"),
		storedHeadline("US30", "c", ""),
	}
	grouped := groupArticles(rows)
	require.Len(t, grouped["US30"], 3)
	assert.Equal(t, "2024-01-02 07:30:00", newestPublished(grouped["US30"]))
}
