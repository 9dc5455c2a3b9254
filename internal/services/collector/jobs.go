package collector

import (
	"context"
	"fmt"
	"sort"
)

// Job names accepted by RunJob and the command line.
const (
	JobYahooMinutePrices   = "yahoo-minute-prices"
	JobYahooDailyPrices    = "yahoo-daily-prices"
	JobYahooNews           = "yahoo-news"
	JobTradingViewOverview = "tradingview-overview"
	JobInvestingPrice      = "investing-price"
	JobInvestingTechnical  = "investing-technical"
	JobInvestingNews       = "investing-news"
	JobNewsDigest          = "news-digest"
	JobPriceChart          = "price-chart"
)

type jobFunc func(context.Context) error

func (s *Service) jobs() map[string]jobFunc {
	return map[string]jobFunc{
		JobYahooMinutePrices:   s.CollectYahooMinutePrices,
		JobYahooDailyPrices:    s.CollectYahooDailyPrices,
		JobYahooNews:           s.CollectYahooNews,
		JobTradingViewOverview: s.CollectTradingViewOverview,
		JobInvestingPrice:      s.CollectInvestingPrices,
		JobInvestingTechnical:  s.CollectInvestingTechnical,
		JobInvestingNews:       s.CollectInvestingNews,
		JobNewsDigest:          s.BuildNewsDigest,
		JobPriceChart:          s.RenderPriceCharts,
	}
}

// JobNames returns every job name in stable order.
func (s *Service) JobNames() []string {
	jobs := s.jobs()
	names := make([]string, 0, len(jobs))
	for name := range jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RunJob runs one named job.
func (s *Service) RunJob(ctx context.Context, name string) error {
	job, ok := s.jobs()[name]
	if !ok {
		return fmt.Errorf("collector: unknown job %q", name)
	}

	s.logger.Info().Str("job", name).Msg("Job started")
	if err := job(ctx); err != nil {
		s.logger.Error().Str("job", name).Err(err).Msg("Job failed")
		return err
	}
	s.logger.Info().Str("job", name).Msg("Job completed")
	return nil
}
