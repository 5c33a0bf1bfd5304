package sheets

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/nijhum/phonepulse/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReport() *model.MarketReport {
	return &model.MarketReport{
		Success: true,
		Stats: model.Stats{
			Brand:    "Samsung",
			Model:    "Galaxy A54",
			AvgPrice: 32000,
			MinPrice: 27000,
			MaxPrice: 38000,
			Count:    3,
		},
		MarketScore: 33.3,
		Insights:    []string{"📋 Warranty adds 8% to prices"},
		Distribution: []model.DistributionBucket{
			{Range: "25000-30000", Count: 1},
			{Range: "30000-35000", Count: 2},
		},
		Recommendation: model.BuyRecommendation{
			Action:         "GOOD TIME TO BUY",
			Emoji:          "✅",
			Urgency:        "Within 1 week",
			Confidence:     70,
			Reasons:        []string{"💎 2 great deals available right now"},
			TargetPriceMin: 27200,
			TargetPriceMax: 30400,
		},
		Forecast: model.PriceForecast{
			HasForecast:    true,
			TrendDirection: "stable",
			Summary:        "Prices stable around ৳32,000",
			Points: []model.ForecastPoint{
				{Days: 3, Label: "+3d", Expected: 32000, Optimistic: 31500, Pessimistic: 32500},
			},
		},
		Listings: []model.Listing{
			{Title: "A54 fresh", Price: 34000, Condition: "Used", Location: "Mirpur", URL: "https://example.com/2"},
			{Title: "A54 boxed", Price: 27000, Condition: "Used", Location: "Dhanmondi", URL: "https://example.com/1"},
			{Title: "A54 official", Price: 38000, Condition: "New", Location: "Gulshan", URL: "https://example.com/3"},
		},
	}
}

func testWriter() *Writer {
	cfg := DefaultConfig()
	cfg.ServiceAccountPath = "/tmp/key.json"
	return &Writer{
		config: cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestPrepareReportData(t *testing.T) {
	w := testWriter()
	report := testReport()

	values := w.prepareReportData(report)
	require.NotEmpty(t, values)

	assert.Equal(t, []any{"Phone Market Report", "Samsung Galaxy A54"}, values[0])

	var sections []string
	for _, row := range values {
		if len(row) == 1 {
			if s, ok := row[0].(string); ok {
				sections = append(sections, s)
			}
		}
	}
	assert.Equal(t,
		[]string{"Summary", "Buy Recommendation", "Price Forecast", "Market Insights", "Price Distribution", "Listing Details"},
		sections)
}

func TestPrepareReportDataSortsListingsByPrice(t *testing.T) {
	w := testWriter()
	report := testReport()

	values := w.prepareReportData(report)

	var prices []int
	for _, row := range values {
		if len(row) == 9 {
			if p, ok := row[1].(int); ok {
				prices = append(prices, p)
			}
		}
	}
	assert.Equal(t, []int{27000, 34000, 38000}, prices)

	// The original order is untouched
	assert.Equal(t, 34000, report.Listings[0].Price)
}

func TestPrepareReportDataNoForecast(t *testing.T) {
	w := testWriter()
	report := testReport()
	report.Forecast = model.PriceForecast{Summary: "Not enough data for price forecast"}

	values := w.prepareReportData(report)

	var outlook string
	for _, row := range values {
		if len(row) == 2 && row[0] == "Outlook" {
			outlook, _ = row[1].(string)
		}
	}
	assert.Equal(t, "Not enough data for price forecast", outlook)
}

func TestNewWriterRejectsInvalidConfig(t *testing.T) {
	_, err := NewWriter(context.Background(), Config{}, nil)
	assert.Error(t, err)
}
