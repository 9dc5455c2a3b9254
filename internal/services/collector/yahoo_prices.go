package collector

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bobmcallan/marketdash/internal/models"
)

// CollectYahooMinutePrices fetches minute bars for every configured symbol
// and upserts them into the minute-bar table.
func (s *Service) CollectYahooMinutePrices(ctx context.Context) error {
	return s.collectYahooPrices(ctx, MinutePricesSpec(s.config),
		s.config.Fetch.MinuteRange, s.config.Fetch.MinuteInterval)
}

// CollectYahooDailyPrices fetches daily bars for every configured symbol and
// upserts them into the daily-bar table.
func (s *Service) CollectYahooDailyPrices(ctx context.Context) error {
	return s.collectYahooPrices(ctx, DailyPricesSpec(s.config),
		s.config.Fetch.DailyRange, s.config.Fetch.DailyInterval)
}

func (s *Service) collectYahooPrices(ctx context.Context, spec models.TableSpec, dataRange, interval string) error {
	if s.yahoo == nil {
		return fmt.Errorf("collector: yahoo client not configured")
	}

	store, err := s.stores(spec)
	if err != nil {
		return fmt.Errorf("collector: open store %s: %w", spec.Name, err)
	}

	var rows []models.Row
	for _, name := range sortedKeys(s.config.SymbolsYahoo) {
		ticker := s.config.SymbolsYahoo[name]

		bars, err := s.yahoo.GetBars(ctx, ticker, dataRange, interval)
		if err != nil {
			s.logger.Warn().Str("symbol", name).Str("interval", interval).Err(err).Msg("Bar fetch failed, continuing")
			continue
		}
		if len(bars) == 0 {
			s.logger.Warn().Str("symbol", name).Str("interval", interval).Msg("No bars returned")
			continue
		}

		for _, bar := range bars {
			rows = append(rows, barRow(name, bar))
		}
		s.logger.Debug().Str("symbol", name).Int("bars", len(bars)).Msg("Bars reshaped")
	}

	return store.InsertOrUpdate(ctx, rows)
}

// barRow reshapes one OHLCV bar into a sink row. Prices keep full float
// precision; the dashboard formats for display.
func barRow(symbol string, bar models.Bar) models.Row {
	return models.Row{
		"Symbol":   symbol,
		"Datetime": bar.Timestamp.UTC().Format(timestampLayout),
		"Open":     strconv.FormatFloat(bar.Open, 'f', -1, 64),
		"High":     strconv.FormatFloat(bar.High, 'f', -1, 64),
		"Low":      strconv.FormatFloat(bar.Low, 'f', -1, 64),
		"Close":    strconv.FormatFloat(bar.Close, 'f', -1, 64),
		"Volume":   strconv.FormatInt(bar.Volume, 10),
	}
}
