package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAbbrev(t *testing.T) {
	assert.Equal(t, "2.50B", formatAbbrev(2.5e9))
	assert.Equal(t, "1.20M", formatAbbrev(1.2e6))
	assert.Equal(t, "3.00K", formatAbbrev(3000))
	assert.Equal(t, "999.00", formatAbbrev(999))
	assert.Equal(t, "-1.50M", formatAbbrev(-1.5e6))
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "4769.83", formatFloat(4769.83))
	assert.Equal(t, "", formatFloat(0), "zero renders blank like the scraped sources")
	assert.Equal(t, "0.42%", formatPercent(0.42))
	assert.Equal(t, "", formatPercent(0))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "spx500", slugify("SPX500"))
	assert.Equal(t, "s_p_500", slugify("S&P 500"))
}
