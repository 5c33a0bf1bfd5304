// Package intel computes market analysis over scraped phone listings: price
// statistics, deal categorization, market insights, buy/wait recommendations,
// price forecasts, and the aggregated summaries fed to the comparison scorer.
package intel

// Config holds the analysis thresholds. Values mirror the tuning the market
// heuristics were calibrated with; override individual fields via the
// `intel.*` configuration keys.
type Config struct {
	// Deal categorization, as a multiple of average price.
	GreatDealThreshold float64 // below this multiple: great deal
	FairPriceThreshold float64
	AverageThreshold   float64 // above this multiple: overpriced

	// Market health bands for the buy/wait recommendation.
	BuyerMarketScore  float64
	SellerMarketScore float64

	// Price trend detection.
	TrendConfidence         float64 // minimum r² for a trend to count
	MeaningfulChangePercent float64

	// Listing freshness.
	FreshListingDays int
	StaleMarketRatio float64
	FreshMarketRatio float64

	// Price variance (coefficient of variation, percent).
	StableMarketCV  float64
	ChaoticMarketCV float64

	// Recommendation score bands.
	BuyNowScore   int
	GoodTimeScore int
	NeutralScore  int
	WaitScore     int

	// Target price window as multiples of average price.
	TargetPriceMinMultiplier float64
	TargetPriceMaxMultiplier float64

	// Forecasting.
	MinForecastDataPoints int

	// Estimator confidence sample sizes.
	HighConfidenceSamples   int
	MediumConfidenceSamples int

	// Trust score weights.
	TrustScoreStore        int
	TrustScoreWarranty     int
	TrustScoreNewCondition int

	// Price histogram bin edges, in taka.
	PriceBins []int
}

// DefaultConfig returns the standard threshold set.
func DefaultConfig() Config {
	return Config{
		GreatDealThreshold:       0.9,
		FairPriceThreshold:       1.05,
		AverageThreshold:         1.15,
		BuyerMarketScore:         20,
		SellerMarketScore:        -20,
		TrendConfidence:          0.3,
		MeaningfulChangePercent:  1.0,
		FreshListingDays:         7,
		StaleMarketRatio:         0.2,
		FreshMarketRatio:         0.5,
		StableMarketCV:           15,
		ChaoticMarketCV:          30,
		BuyNowScore:              30,
		GoodTimeScore:            10,
		NeutralScore:             -10,
		WaitScore:                -30,
		TargetPriceMinMultiplier: 0.85,
		TargetPriceMaxMultiplier: 0.95,
		MinForecastDataPoints:    3,
		HighConfidenceSamples:    20,
		MediumConfidenceSamples:  10,
		TrustScoreStore:          30,
		TrustScoreWarranty:       40,
		TrustScoreNewCondition:   30,
		PriceBins:                []int{0, 10000, 15000, 20000, 25000, 30000, 50000, 100000, 150000, 200000, 260000},
	}
}
