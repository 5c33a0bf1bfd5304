// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/nijhum/phonepulse/internal/model"
)

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Listing operations
	SaveListings(ctx context.Context, listings []model.Listing) error
	GetListings(ctx context.Context, brand, phoneModel string) ([]model.Listing, error)
	GetListingCount(ctx context.Context) (int, error)
	FilterNewURLs(ctx context.Context, urls []string) ([]string, error)

	// Catalog lookups
	GetBrands(ctx context.Context) ([]string, error)
	GetModels(ctx context.Context, brand string) ([]string, error)
	GetDivisions(ctx context.Context) ([]string, error)
	GetLocationsByDivision(ctx context.Context) (map[string][]string, error)
	GetTopCameraPixels(ctx context.Context, limit int) ([]string, error)

	// Alert operations
	CreateAlert(ctx context.Context, alert *model.Alert) (int64, error)
	GetAlertsByEmail(ctx context.Context, email string) ([]model.Alert, error)
	GetActiveAlerts(ctx context.Context) ([]model.Alert, error)
	DeleteAlert(ctx context.Context, id int64) error
	MarkAlertTriggered(ctx context.Context, id int64, at time.Time) error
	FindAlertMatches(ctx context.Context, alert model.Alert) ([]model.Listing, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// ReportCache caches computed market reports between searches.
type ReportCache interface {
	Get(ctx context.Context, brand, phoneModel string) (*model.MarketReport, bool)
	Set(ctx context.Context, brand, phoneModel string, report *model.MarketReport) error
}

// Notifier delivers triggered-alert notifications.
type Notifier interface {
	NotifyAlert(ctx context.Context, alert model.Alert, matches []model.Listing) error
}

// ReportWriter exports a market report to an external destination.
type ReportWriter interface {
	Write(ctx context.Context, report *model.MarketReport) (string, error)
}

// RetryOptions configures retry behavior for operations that may fail transiently.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
