package collector

import (
	"context"
	"fmt"
)

// overviewHeader is the column order of the market overview frame published
// to the dashboard.
var overviewHeader = []string{
	"Pair", "Symbol", "Description", "Market cap", "Price", "Change %", "Volume", "Rel Volume",
	"P/E", "EPS dil", "EPS dil growth", "Div yield %", "Sector", "Analyst Rating",
	"Last Updated",
}

// CollectTradingViewOverview queries the scanner for every configured index
// and publishes the overview frame to the sheet and a CSV file.
func (s *Service) CollectTradingViewOverview(ctx context.Context) error {
	if s.tradingView == nil {
		return fmt.Errorf("collector: tradingview client not configured")
	}

	nameByTicker := make(map[string]string, len(s.config.SymbolsTradingView))
	tickers := make([]string, 0, len(s.config.SymbolsTradingView))
	for _, name := range sortedKeys(s.config.SymbolsTradingView) {
		ticker := s.config.SymbolsTradingView[name]
		nameByTicker[ticker] = name
		tickers = append(tickers, ticker)
	}

	components, err := s.tradingView.GetOverview(ctx, tickers)
	if err != nil {
		return fmt.Errorf("collector: fetch overview: %w", err)
	}

	stamp := s.timestamp()
	rows := make([][]string, 0, len(components))
	for _, comp := range components {
		pair := nameByTicker[comp.Pair]
		if pair == "" {
			pair = comp.Pair
		}
		rows = append(rows, []string{
			pair,
			comp.Symbol,
			comp.Description,
			formatAbbrev(comp.MarketCap),
			formatFloat(comp.Price),
			formatPercent(comp.ChangePct),
			formatAbbrev(comp.Volume),
			formatFloat(comp.RelVolume),
			formatFloat(comp.PE),
			formatFloat(comp.EPSDiluted),
			formatPercent(comp.EPSGrowthPct),
			formatPercent(comp.DividendYield),
			comp.Sector,
			comp.AnalystRating,
			stamp,
		})
	}

	if err := s.csv.WriteFrame("tradingview_overview.csv", overviewHeader, rows); err != nil {
		return fmt.Errorf("collector: write overview csv: %w", err)
	}

	if s.sheets != nil {
		if err := s.sheets.WriteSheet(ctx, "tradingview_overview", overviewHeader, rows); err != nil {
			return fmt.Errorf("collector: publish overview sheet: %w", err)
		}
	}

	return nil
}
