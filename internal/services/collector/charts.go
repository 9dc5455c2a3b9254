package collector

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/marketdash/internal/models"
)

// RenderPriceCharts renders a close-price PNG per symbol from the stored
// daily bars, written under charts/ in the output directory.
func (s *Service) RenderPriceCharts(ctx context.Context) error {
	store, err := s.stores(DailyPricesSpec(s.config))
	if err != nil {
		return fmt.Errorf("collector: open store %s: %w", TableDailyPrices, err)
	}

	rows, err := store.ReadTable(ctx)
	if err != nil {
		return fmt.Errorf("collector: read %s: %w", TableDailyPrices, err)
	}
	if len(rows) == 0 {
		s.logger.Info().Msg("No stored daily bars, charts skipped")
		return nil
	}

	chartDir := filepath.Join(s.config.OutputDir, "charts")
	if err := os.MkdirAll(chartDir, 0o755); err != nil {
		return fmt.Errorf("collector: create chart directory: %w", err)
	}

	bySymbol := groupCloses(rows)
	for _, symbol := range sortedCloseKeys(bySymbol) {
		points := bySymbol[symbol]
		if len(points) < 2 {
			s.logger.Warn().Str("symbol", symbol).Int("points", len(points)).Msg("Too few bars to chart")
			continue
		}

		png, err := renderCloseChart(symbol, points)
		if err != nil {
			return fmt.Errorf("collector: render chart for %s: %w", symbol, err)
		}

		path := filepath.Join(chartDir, slugify(symbol)+".png")
		if err := os.WriteFile(path, png, 0o644); err != nil {
			return fmt.Errorf("collector: write chart for %s: %w", symbol, err)
		}
		s.logger.Info().Str("symbol", symbol).Str("file", path).Msg("Chart written")
	}

	return nil
}

type closePoint struct {
	at    time.Time
	close float64
}

// groupCloses parses stored daily rows into time-ordered close series per
// symbol. Rows with unparseable cells are dropped.
func groupCloses(rows []models.Row) map[string][]closePoint {
	bySymbol := make(map[string][]closePoint)
	for _, row := range rows {
		symbol := row["Symbol"]
		if symbol == "" {
			continue
		}
		at, err := time.Parse(timestampLayout, row["Datetime"])
		if err != nil {
			continue
		}
		close, err := strconv.ParseFloat(row["Close"], 64)
		if err != nil {
			continue
		}
		bySymbol[symbol] = append(bySymbol[symbol], closePoint{at: at, close: close})
	}
	for symbol := range bySymbol {
		points := bySymbol[symbol]
		sort.Slice(points, func(i, j int) bool { return points[i].at.Before(points[j].at) })
	}
	return bySymbol
}

func sortedCloseKeys(m map[string][]closePoint) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// renderCloseChart renders one close-price line chart as PNG bytes.
func renderCloseChart(symbol string, points []closePoint) ([]byte, error) {
	xValues := make([]time.Time, len(points))
	yValues := make([]float64, len(points))
	for i, p := range points {
		xValues[i] = p.at
		yValues[i] = p.close
	}

	graph := chart.Chart{
		Title:  symbol + " Close",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: symbol,
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("2563eb"),
					StrokeWidth: 2.0,
				},
				XValues: xValues,
				YValues: yValues,
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}
