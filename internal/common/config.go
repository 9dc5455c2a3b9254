// Package common provides shared utilities for marketdash
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for marketdash. It is loaded once at process
// start and injected into every component; nothing re-reads the filesystem
// after that.
type Config struct {
	Environment string `toml:"environment"`

	// Symbol maps: dashboard name -> source-specific identifier.
	SymbolsYahoo       map[string]string `toml:"symbols_yahoo"`        // e.g. "SPX500" -> "^GSPC"
	SymbolsTradingView map[string]string `toml:"symbols_tradingview"`  // e.g. "SPX500" -> "SP:SPX"
	SymbolsNewsSlugs   map[string]string `toml:"symbols_news_investing"` // e.g. "US30" -> "us-30"

	OutputDir string `toml:"output_dir"`

	Fetch   FetchConfig   `toml:"fetch"`
	Storage StorageConfig `toml:"storage"`
	Sheets  SheetsConfig  `toml:"sheets"`
	Clients ClientsConfig `toml:"clients"`
	Logging LoggingConfig `toml:"logging"`
}

// FetchConfig holds the history windows requested from Yahoo Finance.
type FetchConfig struct {
	MinuteRange    string `toml:"minute_range"`    // e.g. "7d"
	MinuteInterval string `toml:"minute_interval"` // e.g. "1m"
	DailyRange     string `toml:"daily_range"`     // e.g. "10y"
	DailyInterval  string `toml:"daily_interval"`  // e.g. "1d"
	NewsLimit      int    `toml:"news_limit"`
}

// StorageConfig holds the relational sink configuration.
type StorageConfig struct {
	Driver string `toml:"driver"` // "mysql" or "sqlite3"
	DSN    string `toml:"dsn"`

	// Retention caps, rows kept per partition value.
	MinuteMaxRows int `toml:"minute_max_rows"`
	DailyMaxRows  int `toml:"daily_max_rows"`
	NewsMaxRows   int `toml:"news_max_rows"`

	// PartitionColumn groups rows for retention. Defaults to "Symbol".
	PartitionColumn string `toml:"partition_column"`
}

// SheetsConfig holds Google Sheets sink configuration.
type SheetsConfig struct {
	CredentialsFile string `toml:"credentials_file"`
	SpreadsheetID   string `toml:"spreadsheet_id"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Yahoo       YahooConfig       `toml:"yahoo"`
	TradingView TradingViewConfig `toml:"tradingview"`
	Investing   InvestingConfig   `toml:"investing"`
	Gemini      GeminiConfig      `toml:"gemini"`
}

// YahooConfig holds Yahoo Finance API configuration
type YahooConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *YahooConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// TradingViewConfig holds TradingView scanner API configuration
type TradingViewConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *TradingViewConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// InvestingConfig holds Investing.com client configuration
type InvestingConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *InvestingConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		OutputDir:   "data/output",
		Fetch: FetchConfig{
			MinuteRange:    "7d",
			MinuteInterval: "1m",
			DailyRange:     "10y",
			DailyInterval:  "1d",
			NewsLimit:      10,
		},
		Storage: StorageConfig{
			Driver:          "sqlite3",
			DSN:             "data/marketdash.db",
			MinuteMaxRows:   24 * 60,
			DailyMaxRows:    365 * 10,
			NewsMaxRows:     10,
			PartitionColumn: "Symbol",
		},
		Clients: ClientsConfig{
			Yahoo: YahooConfig{
				BaseURL:   "https://query1.finance.yahoo.com",
				RateLimit: 5,
				Timeout:   "30s",
			},
			TradingView: TradingViewConfig{
				BaseURL:   "https://scanner.tradingview.com",
				RateLimit: 2,
				Timeout:   "30s",
			},
			Investing: InvestingConfig{
				BaseURL:   "https://www.investing.com",
				RateLimit: 2,
				Timeout:   "30s",
			},
			Gemini: GeminiConfig{
				Model: "gemini-2.0-flash",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("MARKETDASH_ENV"); env != "" {
		config.Environment = env
	}

	if level := os.Getenv("MARKETDASH_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if dir := os.Getenv("MARKETDASH_OUTPUT_DIR"); dir != "" {
		config.OutputDir = dir
	}

	if driver := os.Getenv("MARKETDASH_DB_DRIVER"); driver != "" {
		config.Storage.Driver = driver
	}
	if dsn := os.Getenv("MARKETDASH_DB_DSN"); dsn != "" {
		config.Storage.DSN = dsn
	}

	if id := os.Getenv("MARKETDASH_SPREADSHEET_ID"); id != "" {
		config.Sheets.SpreadsheetID = id
	}
	if path := os.Getenv("MARKETDASH_SHEETS_CREDENTIALS"); path != "" {
		config.Sheets.CredentialsFile = path
	}

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.Clients.Gemini.APIKey = key
	}

	if v := os.Getenv("MARKETDASH_NEWS_MAX_ROWS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.Storage.NewsMaxRows = n
		}
	}
}

// Validate checks configuration invariants that would otherwise surface as
// confusing failures mid-job. Malformed configuration is fatal at startup.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "mysql", "sqlite3":
	default:
		return fmt.Errorf("config: unsupported storage driver %q (want mysql or sqlite3)", c.Storage.Driver)
	}
	if c.Storage.DSN == "" {
		return fmt.Errorf("config: storage dsn is required")
	}
	if c.Storage.PartitionColumn == "" {
		c.Storage.PartitionColumn = "Symbol"
	}
	if c.Fetch.NewsLimit <= 0 {
		c.Fetch.NewsLimit = 10
	}
	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
