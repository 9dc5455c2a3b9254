package collector

import (
	"context"
	"fmt"
	"strings"
)

// CollectYahooNews fetches recent headlines for every configured symbol and
// writes one CSV file per symbol under news/.
func (s *Service) CollectYahooNews(ctx context.Context) error {
	if s.yahoo == nil {
		return fmt.Errorf("collector: yahoo client not configured")
	}

	header := []string{"Symbol", "Title", "Publisher", "URL", "Published"}

	for _, name := range sortedKeys(s.config.SymbolsYahoo) {
		ticker := s.config.SymbolsYahoo[name]

		articles, err := s.yahoo.GetNews(ctx, ticker, s.config.Fetch.NewsLimit)
		if err != nil {
			s.logger.Warn().Str("symbol", name).Err(err).Msg("News fetch failed, continuing")
			continue
		}

		rows := make([][]string, 0, len(articles))
		for _, a := range articles {
			rows = append(rows, []string{
				name,
				a.Title,
				a.Publisher,
				a.URL,
				a.Published.UTC().Format(timestampLayout),
			})
		}

		path := fmt.Sprintf("news/yahoo_%s.csv", slugify(name))
		if err := s.csv.WriteFrame(path, header, rows); err != nil {
			return fmt.Errorf("collector: write news for %s: %w", name, err)
		}
	}

	return nil
}

// slugify makes a symbol name safe for use in a file name.
func slugify(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, name)
}
