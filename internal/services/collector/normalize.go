package collector

import (
	"fmt"
)

// abbrevUnits maps the suffixes the dashboard uses for compact numbers to
// their multipliers.
var abbrevUnits = []struct {
	suffix     string
	multiplier float64
}{
	{"T", 1e12},
	{"B", 1e9},
	{"M", 1e6},
	{"K", 1e3},
}

// formatAbbrev renders a large number in the compact form the dashboard
// displays, e.g. 2500000000 -> "2.50B". Values under a thousand keep two
// decimals.
func formatAbbrev(value float64) string {
	abs := value
	if abs < 0 {
		abs = -abs
	}
	for _, unit := range abbrevUnits {
		if abs >= unit.multiplier {
			return fmt.Sprintf("%.2f%s", value/unit.multiplier, unit.suffix)
		}
	}
	return fmt.Sprintf("%.2f", value)
}

// formatFloat renders a price-like value with two decimals, blank for zero.
// Scraped sources use blank for unavailable fields and the sinks keep that
// convention.
func formatFloat(value float64) string {
	if value == 0 {
		return ""
	}
	return fmt.Sprintf("%.2f", value)
}

// formatPercent renders a percentage with two decimals and a trailing
// percent sign, blank for zero.
func formatPercent(value float64) string {
	if value == 0 {
		return ""
	}
	return fmt.Sprintf("%.2f%%", value)
}
