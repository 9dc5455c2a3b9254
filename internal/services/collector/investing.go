package collector

import (
	"context"
	"fmt"

	"github.com/bobmcallan/marketdash/internal/models"
)

var (
	investingPriceHeader = []string{
		"Name", "Last", "High", "Low", "Chg.", "Chg. %", "Time", "Last Updated",
	}
	investingTechnicalHeader = []string{
		"Name", "5 Min", "15 Min", "30 Min", "Hourly", "Daily", "Weekly", "Last Updated",
	}
)

// CollectInvestingPrices scrapes the major-indices price table and publishes
// it to the sheet and a CSV file.
func (s *Service) CollectInvestingPrices(ctx context.Context) error {
	if s.investing == nil {
		return fmt.Errorf("collector: investing client not configured")
	}

	prices, err := s.investing.GetIndexPrices(ctx)
	if err != nil {
		return fmt.Errorf("collector: fetch index prices: %w", err)
	}

	stamp := s.timestamp()
	rows := make([][]string, 0, len(prices))
	for _, p := range prices {
		rows = append(rows, []string{
			p.Name, p.Last, p.High, p.Low, p.Change, p.ChangePct, p.Time, stamp,
		})
	}

	return s.publishFrame(ctx, "investing_price", investingPriceHeader, rows)
}

// CollectInvestingTechnical scrapes the technical summary table and publishes
// it to the sheet and a CSV file.
func (s *Service) CollectInvestingTechnical(ctx context.Context) error {
	if s.investing == nil {
		return fmt.Errorf("collector: investing client not configured")
	}

	summaries, err := s.investing.GetTechnicalSummary(ctx)
	if err != nil {
		return fmt.Errorf("collector: fetch technical summary: %w", err)
	}

	stamp := s.timestamp()
	rows := make([][]string, 0, len(summaries))
	for _, t := range summaries {
		rows = append(rows, []string{
			t.Name, t.Min5, t.Min15, t.Min30, t.Hourly, t.Daily, t.Weekly, stamp,
		})
	}

	return s.publishFrame(ctx, "investing_technical", investingTechnicalHeader, rows)
}

// publishFrame writes a frame to the CSV sink and, when configured, the
// sheet sink under the same name.
func (s *Service) publishFrame(ctx context.Context, name string, header []string, rows [][]string) error {
	if err := s.csv.WriteFrame(name+".csv", header, rows); err != nil {
		return fmt.Errorf("collector: write %s csv: %w", name, err)
	}
	if s.sheets != nil {
		if err := s.sheets.WriteSheet(ctx, name, header, rows); err != nil {
			return fmt.Errorf("collector: publish %s sheet: %w", name, err)
		}
	}
	return nil
}

// CollectInvestingNews scrapes headlines for every configured index slug and
// upserts them into the headline table. Articles keep their scraped publish
// time; a refreshed summary on a known title/URL pair overwrites in place.
func (s *Service) CollectInvestingNews(ctx context.Context) error {
	if s.investing == nil {
		return fmt.Errorf("collector: investing client not configured")
	}

	store, err := s.stores(InvestingNewsSpec(s.config))
	if err != nil {
		return fmt.Errorf("collector: open store %s: %w", TableInvestingNews, err)
	}

	var rows []models.Row
	for _, name := range sortedKeys(s.config.SymbolsNewsSlugs) {
		slug := s.config.SymbolsNewsSlugs[name]

		articles, err := s.investing.GetIndexNews(ctx, slug, s.config.Fetch.NewsLimit)
		if err != nil {
			s.logger.Warn().Str("symbol", name).Str("slug", slug).Err(err).Msg("News scrape failed, continuing")
			continue
		}

		for _, a := range articles {
			published := ""
			if !a.Published.IsZero() {
				published = a.Published.UTC().Format(timestampLayout)
			}
			rows = append(rows, models.Row{
				"Symbol":   name,
				"Title":    a.Title,
				"Summary":  a.Summary,
				"URL":      a.URL,
				"Datetime": published,
			})
		}
	}

	return store.InsertOrUpdate(ctx, rows)
}
