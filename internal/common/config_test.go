package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "sqlite3", cfg.Storage.Driver)
	assert.Equal(t, 1440, cfg.Storage.MinuteMaxRows)
	assert.Equal(t, 3650, cfg.Storage.DailyMaxRows)
	assert.Equal(t, 10, cfg.Storage.NewsMaxRows)
	assert.Equal(t, "Symbol", cfg.Storage.PartitionColumn)
	assert.Equal(t, "7d", cfg.Fetch.MinuteRange)
	assert.Equal(t, "gemini-2.0-flash", cfg.Clients.Gemini.Model)
}

func TestLoadConfigMergesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "marketdash.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment = "production"

[symbols_yahoo]
SPX500 = "^GSPC"

[storage]
driver = "mysql"
dsn = "user:pass@tcp(localhost:3306)/marketdash"
news_max_rows = 25
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "mysql", cfg.Storage.Driver)
	assert.Equal(t, 25, cfg.Storage.NewsMaxRows)
	assert.Equal(t, "^GSPC", cfg.SymbolsYahoo["SPX500"])
	// Untouched sections keep their defaults.
	assert.Equal(t, 1440, cfg.Storage.MinuteMaxRows)
}

func TestLoadConfigSkipsMissingFiles(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("MARKETDASH_ENV", "production")
	t.Setenv("MARKETDASH_DB_DRIVER", "mysql")
	t.Setenv("MARKETDASH_DB_DSN", "user:pass@tcp(db:3306)/marketdash")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("MARKETDASH_NEWS_MAX_ROWS", "7")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "mysql", cfg.Storage.Driver)
	assert.Equal(t, "user:pass@tcp(db:3306)/marketdash", cfg.Storage.DSN)
	assert.Equal(t, "test-key", cfg.Clients.Gemini.APIKey)
	assert.Equal(t, 7, cfg.Storage.NewsMaxRows)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults_pass", func(c *Config) {}, false},
		{"unsupported_driver", func(c *Config) { c.Storage.Driver = "postgres" }, true},
		{"missing_dsn", func(c *Config) { c.Storage.DSN = "" }, true},
		{"blank_partition_defaults", func(c *Config) { c.Storage.PartitionColumn = "" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, cfg.Storage.PartitionColumn)
		})
	}
}

func TestGetTimeout(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.Equal(t, "30s", cfg.Clients.Yahoo.Timeout)
	assert.Equal(t, float64(30), cfg.Clients.Yahoo.GetTimeout().Seconds())

	bad := YahooConfig{Timeout: "not a duration"}
	assert.Equal(t, float64(30), bad.GetTimeout().Seconds(), "unparseable timeout falls back")
}
