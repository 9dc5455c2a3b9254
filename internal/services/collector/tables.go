package collector

import (
	"github.com/bobmcallan/marketdash/internal/common"
	"github.com/bobmcallan/marketdash/internal/models"
)

// Table names in the relational sink. They match the worksheet names the
// dashboard reads so the two sinks stay interchangeable.
const (
	TableMinutePrices  = "yfinance_minutes"
	TableDailyPrices   = "yfinance_daily"
	TableInvestingNews = "investing_news"
	TableNewsDigest    = "news_digest"
)

var priceColumns = []string{"Symbol", "Datetime", "Open", "High", "Low", "Close", "Volume"}

// MinutePricesSpec declares the minute-bar table. Rows are keyed by symbol
// and bar time; the cap keeps one trading day of minutes per symbol.
func MinutePricesSpec(cfg *common.Config) models.TableSpec {
	return models.TableSpec{
		Name:       TableMinutePrices,
		Columns:    priceColumns,
		PrimaryKey: []string{"Symbol", "Datetime"},
		Retention: &models.RetentionPolicy{
			MaxRowsPerPartition: cfg.Storage.MinuteMaxRows,
			SortColumn:          "Datetime",
			PartitionColumn:     cfg.Storage.PartitionColumn,
		},
	}
}

// DailyPricesSpec declares the daily-bar table, capped at ten years of
// sessions per symbol.
func DailyPricesSpec(cfg *common.Config) models.TableSpec {
	return models.TableSpec{
		Name:       TableDailyPrices,
		Columns:    priceColumns,
		PrimaryKey: []string{"Symbol", "Datetime"},
		Retention: &models.RetentionPolicy{
			MaxRowsPerPartition: cfg.Storage.DailyMaxRows,
			SortColumn:          "Datetime",
			PartitionColumn:     cfg.Storage.PartitionColumn,
		},
	}
}

// InvestingNewsSpec declares the headline table. Articles are keyed by title
// and URL so a re-scrape refreshes rather than duplicates; the cap keeps the
// newest headlines per symbol.
func InvestingNewsSpec(cfg *common.Config) models.TableSpec {
	return models.TableSpec{
		Name:       TableInvestingNews,
		Columns:    []string{"Symbol", "Title", "Summary", "URL", "Datetime"},
		PrimaryKey: []string{"Title", "URL"},
		Retention: &models.RetentionPolicy{
			MaxRowsPerPartition: cfg.Storage.NewsMaxRows,
			SortColumn:          "Datetime",
			PartitionColumn:     cfg.Storage.PartitionColumn,
		},
	}
}

// NewsDigestSpec declares the per-symbol digest table. One row per symbol,
// overwritten whenever newer headlines arrive.
func NewsDigestSpec() models.TableSpec {
	return models.TableSpec{
		Name:       TableNewsDigest,
		Columns:    []string{"Symbol", "Summary", "Sentiment", "Confidence", "Last Updated"},
		PrimaryKey: []string{"Symbol"},
	}
}
