package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nijhum/phonepulse/internal/alert"
	"github.com/nijhum/phonepulse/internal/cache"
	"github.com/nijhum/phonepulse/internal/config"
	"github.com/nijhum/phonepulse/internal/intel"
	"github.com/nijhum/phonepulse/internal/service"
	"github.com/nijhum/phonepulse/internal/storage"
	"github.com/spf13/viper"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	// Get database path from config
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/phonepulse/phonepulse.db"
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// newAnalyzer builds the market analyzer with any threshold overrides from
// configuration.
func newAnalyzer() *intel.Analyzer {
	cfg := intel.DefaultConfig()

	if v := viper.GetFloat64("intel.great_deal_threshold"); v > 0 {
		cfg.GreatDealThreshold = v
	}
	if v := viper.GetFloat64("intel.fair_price_threshold"); v > 0 {
		cfg.FairPriceThreshold = v
	}
	if v := viper.GetFloat64("intel.average_threshold"); v > 0 {
		cfg.AverageThreshold = v
	}
	if v := viper.GetInt("intel.fresh_listing_days"); v > 0 {
		cfg.FreshListingDays = v
	}
	if v := viper.GetInt("intel.min_forecast_data_points"); v > 0 {
		cfg.MinForecastDataPoints = v
	}

	return intel.NewAnalyzer(cfg)
}

// newMailer builds the alert notifier from smtp configuration. Returns nil
// when mail is not configured so alert checks still run without sending.
func newMailer() *alert.Mailer {
	cfg := alert.MailConfig{
		Host:     viper.GetString("smtp.host"),
		Port:     viper.GetInt("smtp.port"),
		Sender:   viper.GetString("smtp.sender"),
		Password: viper.GetString("smtp.password"),
		SiteURL:  viper.GetString("smtp.site_url"),
	}

	mailer, err := alert.NewMailer(cfg)
	if err != nil {
		slog.Warn("Email notifications disabled", "reason", err)
		return nil
	}
	return mailer
}

// newAlertService wires the alert service; the notifier interface must stay
// nil when no mailer exists, a typed nil would pass the nil checks.
func newAlertService(store service.Storage) *alert.Service {
	mailer := newMailer()
	if mailer == nil {
		return alert.NewService(store, nil, slog.Default())
	}
	return alert.NewService(store, mailer, slog.Default())
}

// newReportCache builds the redis report cache, or nil when redis is not
// configured.
func newReportCache() service.ReportCache {
	url := viper.GetString("redis.url")
	if url == "" {
		return nil
	}

	cfg := cache.Config{
		URL: url,
		TTL: viper.GetDuration("redis.ttl"),
	}
	if cfg.TTL == 0 {
		cfg.TTL = 15 * time.Minute
	}

	reportCache, err := cache.New(cfg, slog.Default())
	if err != nil {
		slog.Warn("Report cache disabled", "reason", err)
		return nil
	}
	return reportCache
}
