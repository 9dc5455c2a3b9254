// Package app wires configuration, clients, sinks and the collector service
// into a runnable application.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/bobmcallan/marketdash/internal/clients/gemini"
	"github.com/bobmcallan/marketdash/internal/clients/investing"
	"github.com/bobmcallan/marketdash/internal/clients/tradingview"
	"github.com/bobmcallan/marketdash/internal/clients/yahoo"
	"github.com/bobmcallan/marketdash/internal/common"
	"github.com/bobmcallan/marketdash/internal/interfaces"
	"github.com/bobmcallan/marketdash/internal/models"
	"github.com/bobmcallan/marketdash/internal/services/collector"
	"github.com/bobmcallan/marketdash/internal/storage/csvstore"
	"github.com/bobmcallan/marketdash/internal/storage/sheetstore"
	"github.com/bobmcallan/marketdash/internal/storage/sqlstore"
)

// App holds the initialized configuration, clients, sinks and the collector
// service for one run.
type App struct {
	Config    *common.Config
	Logger    *common.Logger
	Collector *collector.Service
	RunID     string

	db *sql.DB
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes the application. configPath may be empty, in which case
// MARKETDASH_CONFIG, the binary directory and the development default are
// tried in order.
func NewApp(ctx context.Context, configPath string) (*App, error) {
	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("MARKETDASH_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "marketdash.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/marketdash.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	// Resolve a relative SQLite path to the binary directory so the data
	// file sits next to the executable regardless of working directory.
	if config.Storage.Driver == "sqlite3" && !filepath.IsAbs(config.Storage.DSN) {
		config.Storage.DSN = filepath.Join(binDir, config.Storage.DSN)
	}

	db, stores, err := openStores(config, logger)
	if err != nil {
		return nil, err
	}

	csvWriter := csvstore.NewWriter(config.OutputDir, logger)

	opts := []collector.ServiceOption{
		collector.WithYahooClient(yahoo.NewClient(
			yahoo.WithBaseURL(config.Clients.Yahoo.BaseURL),
			yahoo.WithRateLimit(config.Clients.Yahoo.RateLimit),
			yahoo.WithTimeout(config.Clients.Yahoo.GetTimeout()),
			yahoo.WithLogger(logger),
		)),
		collector.WithTradingViewClient(tradingview.NewClient(
			tradingview.WithBaseURL(config.Clients.TradingView.BaseURL),
			tradingview.WithRateLimit(config.Clients.TradingView.RateLimit),
			tradingview.WithTimeout(config.Clients.TradingView.GetTimeout()),
			tradingview.WithLogger(logger),
		)),
		collector.WithInvestingClient(investing.NewClient(
			investing.WithBaseURL(config.Clients.Investing.BaseURL),
			investing.WithRateLimit(config.Clients.Investing.RateLimit),
			investing.WithTimeout(config.Clients.Investing.GetTimeout()),
			investing.WithLogger(logger),
		)),
	}

	if config.Clients.Gemini.APIKey != "" {
		geminiClient, err := gemini.NewClient(ctx, config.Clients.Gemini.APIKey,
			gemini.WithModel(config.Clients.Gemini.Model),
			gemini.WithLogger(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize gemini client: %w", err)
		}
		opts = append(opts, collector.WithGeminiClient(geminiClient))
	} else {
		logger.Warn().Msg("Gemini API key not configured - news digest will be unavailable")
	}

	if config.Sheets.SpreadsheetID != "" {
		sheetWriter, err := sheetstore.NewWriter(ctx, config.Sheets.CredentialsFile, config.Sheets.SpreadsheetID, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize sheets sink: %w", err)
		}
		opts = append(opts, collector.WithSheetWriter(sheetWriter))
	} else {
		logger.Warn().Msg("Spreadsheet not configured - frames publish to CSV only")
	}

	service, err := collector.NewService(config, stores, csvWriter, logger, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize collector: %w", err)
	}

	return &App{
		Config:    config,
		Logger:    logger,
		Collector: service,
		RunID:     uuid.New().String(),
		db:        db,
	}, nil
}

// openStores opens the relational sink and returns a store factory over it.
func openStores(config *common.Config, logger *common.Logger) (*sql.DB, interfaces.StoreFactory, error) {
	dialect, err := sqlstore.DialectFor(config.Storage.Driver)
	if err != nil {
		return nil, nil, err
	}

	db, err := sql.Open(config.Storage.Driver, config.Storage.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetConnMaxLifetime(3 * time.Minute)
	db.SetMaxOpenConns(4)
	if config.Storage.Driver == "sqlite3" {
		// SQLite serializes writers; a single pooled connection avoids
		// SQLITE_BUSY churn under the batch upserts.
		db.SetMaxOpenConns(1)
	}

	factory := func(spec models.TableSpec) (interfaces.TableStore, error) {
		return sqlstore.New(db, dialect, spec, logger)
	}
	return db, factory, nil
}

// Close releases the database connection.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
