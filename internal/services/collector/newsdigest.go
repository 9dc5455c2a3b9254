package collector

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/bobmcallan/marketdash/internal/interfaces"
	"github.com/bobmcallan/marketdash/internal/models"
)

// BuildNewsDigest rolls the stored headlines up into one digest row per
// symbol: a generated summary paragraph plus a sentiment label. Symbols whose
// stored digest already covers the newest headline are skipped, so repeated
// runs only pay for symbols with fresh news.
func (s *Service) BuildNewsDigest(ctx context.Context) error {
	if s.gemini == nil {
		return fmt.Errorf("collector: gemini client not configured")
	}

	newsStore, err := s.stores(InvestingNewsSpec(s.config))
	if err != nil {
		return fmt.Errorf("collector: open store %s: %w", TableInvestingNews, err)
	}
	digestStore, err := s.stores(NewsDigestSpec())
	if err != nil {
		return fmt.Errorf("collector: open store %s: %w", TableNewsDigest, err)
	}

	newsRows, err := newsStore.ReadTable(ctx)
	if err != nil {
		return fmt.Errorf("collector: read %s: %w", TableInvestingNews, err)
	}
	if len(newsRows) == 0 {
		s.logger.Info().Msg("No stored headlines, digest skipped")
		return nil
	}

	if err := digestStore.EnsureTable(ctx); err != nil {
		return fmt.Errorf("collector: ensure %s: %w", TableNewsDigest, err)
	}
	existing, err := digestStore.ReadTable(ctx)
	if err != nil {
		return fmt.Errorf("collector: read %s: %w", TableNewsDigest, err)
	}
	lastDigested := make(map[string]string, len(existing))
	for _, row := range existing {
		lastDigested[row["Symbol"]] = row["Last Updated"]
	}

	bySymbol := groupArticles(newsRows)

	var digests []models.Row
	for _, symbol := range sortedArticleKeys(bySymbol) {
		articles := bySymbol[symbol]

		newest := newestPublished(articles)
		if prior := lastDigested[symbol]; prior != "" && prior >= newest {
			s.logger.Debug().Str("symbol", symbol).Str("last_updated", prior).Msg("Digest current, skipping")
			continue
		}

		summary, err := s.gemini.SummarizeArticles(ctx, symbol, articles)
		if err != nil {
			return fmt.Errorf("collector: summarize %s: %w", symbol, err)
		}
		sentiment, confidence, err := s.gemini.ClassifySentiment(ctx, symbol, articles)
		if err != nil {
			return fmt.Errorf("collector: classify %s: %w", symbol, err)
		}

		digests = append(digests, models.Row{
			"Symbol":       symbol,
			"Summary":      summary,
			"Sentiment":    sentiment,
			"Confidence":   strconv.FormatFloat(confidence, 'f', 2, 64),
			"Last Updated": newest,
		})
	}

	if err := digestStore.InsertOrUpdate(ctx, digests); err != nil {
		return err
	}

	if s.sheets != nil {
		return s.publishDigestSheet(ctx, digestStore)
	}
	return nil
}

// publishDigestSheet mirrors the full digest table to its worksheet.
func (s *Service) publishDigestSheet(ctx context.Context, store interfaces.TableStore) error {
	rows, err := store.ReadTable(ctx)
	if err != nil {
		return fmt.Errorf("collector: read %s for sheet: %w", TableNewsDigest, err)
	}

	spec := NewsDigestSpec()
	frame := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, len(spec.Columns))
		for i, col := range spec.Columns {
			cells[i] = row[col]
		}
		frame = append(frame, cells)
	}

	if err := s.sheets.WriteSheet(ctx, TableNewsDigest, spec.Columns, frame); err != nil {
		return fmt.Errorf("collector: publish %s sheet: %w", TableNewsDigest, err)
	}
	return nil
}

// groupArticles reshapes stored headline rows back into articles per symbol.
func groupArticles(rows []models.Row) map[string][]models.NewsArticle {
	bySymbol := make(map[string][]models.NewsArticle)
	for _, row := range rows {
		symbol := row["Symbol"]
		if symbol == "" {
			continue
		}
		article := models.NewsArticle{
			Symbol:  symbol,
			Title:   row["Title"],
			Summary: row["Summary"],
			URL:     row["URL"],
		}
		if t, err := time.Parse(timestampLayout, row["Datetime"]); err == nil {
			article.Published = t.UTC()
		}
		bySymbol[symbol] = append(bySymbol[symbol], article)
	}
	return bySymbol
}

func sortedArticleKeys(m map[string][]models.NewsArticle) []string {
	keys := make(map[string]string, len(m))
	for k := range m {
		keys[k] = ""
	}
	return sortedKeys(keys)
}

// newestPublished returns the latest publish stamp among the articles in the
// canonical text form. Text comparison suffices because the layout sorts
// lexicographically.
func newestPublished(articles []models.NewsArticle) string {
	var newest time.Time
	for _, a := range articles {
		if a.Published.After(newest) {
			newest = a.Published
		}
	}
	if newest.IsZero() {
		return ""
	}
	return newest.UTC().Format(timestampLayout)
}
