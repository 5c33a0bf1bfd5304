package model

// Stats summarizes the price spread for a phone model.
type Stats struct {
	AvgPrice int    `json:"avg_price"`
	MinPrice int    `json:"min_price"`
	MaxPrice int    `json:"max_price"`
	Count    int    `json:"count"`
	Brand    string `json:"brand"`
	Model    string `json:"model"`
}

// DistributionBucket is one price-histogram bin.
type DistributionBucket struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

// TimelinePoint is the average price for one calendar day.
type TimelinePoint struct {
	Date  string `json:"date"`
	Price int    `json:"price"`
}

// LocationStat aggregates listings per location, with map coordinates when
// the location is known to the coordinate index.
type LocationStat struct {
	Location string   `json:"Location"`
	Count    int      `json:"count"`
	AvgPrice float64  `json:"avg_price"`
	Lat      *float64 `json:"lat"`
	Lon      *float64 `json:"lon"`
}

// BuyRecommendation is the heuristic buy/wait verdict for a market.
type BuyRecommendation struct {
	Action         string   `json:"action"`
	Emoji          string   `json:"emoji"`
	Urgency        string   `json:"urgency"`
	Confidence     int      `json:"confidence"`
	Reasons        []string `json:"reasons"`
	TargetPriceMin int      `json:"target_price_min"`
	TargetPriceMax int      `json:"target_price_max"`
}

// ForecastPoint is one horizon of the price forecast.
type ForecastPoint struct {
	Days        int    `json:"days"`
	Label       string `json:"label"`
	Expected    int    `json:"expected"`
	Optimistic  int    `json:"optimistic"`
	Pessimistic int    `json:"pessimistic"`
}

// PriceForecast is the smoothed price outlook for the next month.
type PriceForecast struct {
	HasForecast    bool            `json:"has_forecast"`
	TrendDirection string          `json:"trend_direction,omitempty"`
	TrendStrength  string          `json:"trend_strength,omitempty"`
	Points         []ForecastPoint `json:"forecast_points,omitempty"`
	Summary        string          `json:"summary"`
	Confidence     string          `json:"confidence,omitempty"`
}

// VariantInfo lists the RAM/storage configurations seen across listings.
type VariantInfo struct {
	ModeRAM      string   `json:"mode_ram"`
	ModeStorage  string   `json:"mode_storage"`
	AllRAMs      []string `json:"all_rams"`
	AllStorages  []string `json:"all_storages"`
	VariantCount int      `json:"variant_count"`
}

// MarketReport is the full analysis payload for one brand/model search.
type MarketReport struct {
	Success        bool                 `json:"success"`
	Stats          Stats                `json:"stats"`
	Distribution   []DistributionBucket `json:"distribution"`
	Timeline       []TimelinePoint      `json:"timeline"`
	MarketScore    float64              `json:"market_score"`
	Insights       []string             `json:"insights"`
	Listings       []Listing            `json:"listings"`
	LocationData   []LocationStat       `json:"locationdata"`
	Recommendation BuyRecommendation    `json:"ai_recommendation"`
	Forecast       PriceForecast        `json:"price_forecast"`
	VariantInfo    VariantInfo          `json:"variant_info"`
}

// PriceEstimate is the response shape of the price estimator.
type PriceEstimate struct {
	Success         bool   `json:"success"`
	PredictedPrice  int    `json:"predicted_price"`
	ConfidenceRange [2]int `json:"confidence_range"`
	MarketAvg       int    `json:"market_avg"`
	ConfidenceLevel string `json:"confidence_level"`
	SampleSize      int    `json:"sample_size"`
	Note            string `json:"note"`
}

// EstimateRequest carries the spec fields submitted to the price estimator.
type EstimateRequest struct {
	Brand       string `json:"Brand"`
	Model       string `json:"Model"`
	Condition   string `json:"Condition"`
	RAM         string `json:"RAM"`
	Storage     string `json:"Storage"`
	Battery     string `json:"Battery"`
	CameraType  string `json:"Camera_Type"`
	CameraPixel string `json:"Camera_Pixel"`
	Network     string `json:"Network"`
	Location    string `json:"Location"`
	Division    string `json:"Division"`
	HasWarranty bool   `json:"has_warranty"`
	IsStore     bool   `json:"is_store"`
}
