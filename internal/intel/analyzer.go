package intel

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/nijhum/phonepulse/internal/common"
	"github.com/nijhum/phonepulse/internal/model"
)

// Analyzer runs market analysis for a single phone model's listings.
// All methods are pure over their inputs; the analyzer itself only carries
// configuration and the optional location coordinate index.
type Analyzer struct {
	coords map[string][2]float64
	now    func() time.Time
	cfg    Config
}

// Option customizes an Analyzer.
type Option func(*Analyzer)

// WithCoordinates supplies the location -> (lat, lon) index used for map data.
func WithCoordinates(coords map[string][2]float64) Option {
	return func(a *Analyzer) { a.coords = coords }
}

// WithClock overrides the freshness clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// NewAnalyzer creates an Analyzer with the given thresholds.
func NewAnalyzer(cfg Config, opts ...Option) *Analyzer {
	a := &Analyzer{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze produces the full market report for one brand/model. It returns
// common.ErrNoListings when there is nothing to analyze.
func (a *Analyzer) Analyze(brand, phoneModel string, listings []model.Listing) (*model.MarketReport, error) {
	if len(listings) == 0 {
		return nil, common.ErrNoListings
	}

	var sum, minPrice, maxPrice int
	minPrice = listings[0].Price
	maxPrice = listings[0].Price
	for i := range listings {
		p := listings[i].Price
		sum += p
		if p < minPrice {
			minPrice = p
		}
		if p > maxPrice {
			maxPrice = p
		}
	}
	avgPrice := float64(sum) / float64(len(listings))

	timeline := buildTimeline(listings)

	greatDeals, overpriced := 0, 0
	for i := range listings {
		p := float64(listings[i].Price)
		if p < avgPrice*a.cfg.GreatDealThreshold {
			greatDeals++
		}
		if p > avgPrice*a.cfg.AverageThreshold {
			overpriced++
		}
	}
	marketScore := float64(greatDeals-overpriced) / float64(len(listings)) * 100
	marketScore = math.Round(marketScore*10) / 10

	categorized := a.categorize(listings, avgPrice)

	report := &model.MarketReport{
		Success: true,
		Stats: model.Stats{
			AvgPrice: int(avgPrice),
			MinPrice: minPrice,
			MaxPrice: maxPrice,
			Count:    len(listings),
			Brand:    brand,
			Model:    phoneModel,
		},
		Distribution:   a.distribution(listings),
		Timeline:       timeline,
		MarketScore:    marketScore,
		Insights:       a.marketInsights(listings, timeline, avgPrice),
		Listings:       categorized,
		LocationData:   a.locationData(listings),
		Recommendation: a.recommend(listings, avgPrice, timeline, marketScore, greatDeals),
		Forecast:       a.forecast(timeline, avgPrice),
		VariantInfo:    variantInfo(categorized),
	}

	return report, nil
}

// categorize tags every listing with its deal quality and trust score,
// returning a copy sorted by ascending price. Inputs are never mutated.
func (a *Analyzer) categorize(listings []model.Listing, avgPrice float64) []model.Listing {
	out := make([]model.Listing, len(listings))
	copy(out, listings)

	for i := range out {
		l := &out[i]

		priceDiff := 0.0
		if avgPrice > 0 {
			priceDiff = (float64(l.Price) - avgPrice) / avgPrice * 100
		}
		l.PriceDiff = int(priceDiff)

		switch {
		case priceDiff < -10:
			l.DealType, l.DealLabel = model.DealGreat, "GREAT DEAL"
			l.DealMsg = fmt.Sprintf("🔥 %d%% below market - Grab fast!", int(math.Abs(priceDiff)))
		case priceDiff < 5:
			l.DealType, l.DealLabel = model.DealFair, "FAIR PRICE"
			l.DealMsg = "✓ Reasonable deal"
		case priceDiff < 15:
			l.DealType, l.DealLabel = model.DealAverage, "AVERAGE"
			l.DealMsg = "ℹ️ Slightly high but acceptable"
		default:
			l.DealType, l.DealLabel = model.DealOverpriced, "OVERPRICED"
			l.DealMsg = fmt.Sprintf("⚠️ AVOID - %d%% above market", int(priceDiff))
		}

		l.TrustScore = 0
		l.TrustBadges = nil
		if l.IsStore {
			l.TrustScore += a.cfg.TrustScoreStore
			l.TrustBadges = append(l.TrustBadges, model.BadgeVerifiedStore)
		}
		if l.HasWarranty {
			l.TrustScore += a.cfg.TrustScoreWarranty
			l.TrustBadges = append(l.TrustBadges, model.BadgeWarranty)
		}
		if l.Condition == "New" {
			l.TrustScore += a.cfg.TrustScoreNewCondition
		}

		if !l.PublishedDate.IsZero() {
			l.PublishedDateString = l.PublishedDate.Format("2006-01-02")
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out
}

func (a *Analyzer) distribution(listings []model.Listing) []model.DistributionBucket {
	bins := a.cfg.PriceBins
	if len(bins) < 2 {
		return nil
	}

	buckets := make([]model.DistributionBucket, len(bins)-1)
	for i := 0; i < len(bins)-1; i++ {
		buckets[i].Range = fmt.Sprintf("%d-%d", bins[i], bins[i+1])
	}

	for i := range listings {
		p := listings[i].Price
		for j := 0; j < len(bins)-1; j++ {
			if p > bins[j] && p <= bins[j+1] {
				buckets[j].Count++
				break
			}
		}
	}

	return buckets
}

// buildTimeline averages prices per publish day, sorted chronologically.
// Listings without a publish date are left out.
func buildTimeline(listings []model.Listing) []model.TimelinePoint {
	type acc struct {
		sum   int
		count int
	}
	byDay := make(map[string]*acc)
	for i := range listings {
		if listings[i].PublishedDate.IsZero() {
			continue
		}
		day := listings[i].PublishedDate.Format("2006-01-02")
		if byDay[day] == nil {
			byDay[day] = &acc{}
		}
		byDay[day].sum += listings[i].Price
		byDay[day].count++
	}

	points := make([]model.TimelinePoint, 0, len(byDay))
	for day, v := range byDay {
		points = append(points, model.TimelinePoint{Date: day, Price: v.sum / v.count})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}

// marketInsights generates the free-text observations shown alongside the
// report: price trend, cheapest area, store premium, warranty premium.
func (a *Analyzer) marketInsights(listings []model.Listing, timeline []model.TimelinePoint, avgPrice float64) []string {
	var insights []string

	if len(timeline) > 2 {
		prices := make([]float64, len(timeline))
		for i, p := range timeline {
			prices[i] = float64(p.Price)
		}
		slope, r2 := linearTrend(prices)
		pctChange := 0.0
		if m := mean(prices); m != 0 {
			pctChange = slope / m * 100
		}
		if r2 >= a.cfg.TrendConfidence && math.Abs(pctChange) > a.cfg.MeaningfulChangePercent {
			if pctChange < 0 {
				insights = append(insights, fmt.Sprintf("📉 Prices dropping ~%.1f%% per period", math.Abs(pctChange)))
			} else {
				insights = append(insights, fmt.Sprintf("📈 Prices rising ~%.1f%% per period", pctChange))
			}
		} else {
			insights = append(insights, "➡️ No clear price trend")
		}
	}

	if cheapest, cheapestAvg, n := cheapestLocation(listings); n > 1 {
		insights = append(insights, fmt.Sprintf("📍 Cheapest area: %s (avg ৳%d)", cheapest, int(cheapestAvg)))
	}

	if storeAvg, individualAvg, ok := splitAverages(listings, func(l *model.Listing) bool { return l.IsStore }); ok {
		if diff := int(storeAvg - individualAvg); diff > 0 {
			insights = append(insights, fmt.Sprintf("🏪 Stores charge ৳%d more on average", diff))
		}
	}

	if warrantyAvg, bareAvg, ok := splitAverages(listings, func(l *model.Listing) bool { return l.HasWarranty }); ok {
		insights = append(insights, fmt.Sprintf("📋 Warranty adds ৳%d to price", int(warrantyAvg-bareAvg)))
	}

	return insights
}

func (a *Analyzer) locationData(listings []model.Listing) []model.LocationStat {
	type acc struct {
		sum   int
		count int
	}
	byLoc := make(map[string]*acc)
	for i := range listings {
		loc := listings[i].Location
		if loc == "" {
			continue
		}
		if byLoc[loc] == nil {
			byLoc[loc] = &acc{}
		}
		byLoc[loc].sum += listings[i].Price
		byLoc[loc].count++
	}

	stats := make([]model.LocationStat, 0, len(byLoc))
	for loc, v := range byLoc {
		s := model.LocationStat{
			Location: loc,
			Count:    v.count,
			AvgPrice: math.Round(float64(v.sum)/float64(v.count)*100) / 100,
		}
		if coords, ok := a.coords[loc]; ok {
			lat, lon := coords[0], coords[1]
			s.Lat, s.Lon = &lat, &lon
		}
		stats = append(stats, s)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Location < stats[j].Location })
	return stats
}

// variantInfo extracts the RAM/storage configurations available across
// listings; expects categorized listings but works on raw ones too.
func variantInfo(listings []model.Listing) model.VariantInfo {
	var rams, storages []string
	variants := make(map[string]struct{})
	for i := range listings {
		ram, storage := listings[i].RAM, listings[i].Storage
		if usable(ram) {
			rams = append(rams, ram)
		}
		if usable(storage) {
			storages = append(storages, storage)
		}
		if usable(ram) && usable(storage) {
			variants[ram+"/"+storage] = struct{}{}
		}
	}

	return model.VariantInfo{
		ModeRAM:      modeOf(rams),
		ModeStorage:  modeOf(storages),
		AllRAMs:      sortedUniqueNumeric(rams),
		AllStorages:  sortedUniqueNumeric(storages),
		VariantCount: len(variants),
	}
}

func usable(s string) bool {
	return s != "" && s != "N/A"
}

// modeOf returns the most frequent value, "N/A" for an empty input.
// Frequency ties break toward the smaller numeric value, then
// lexicographically, for determinism.
func modeOf(values []string) string {
	if len(values) == 0 {
		return "N/A"
	}
	counts := make(map[string]int)
	for _, v := range values {
		counts[v]++
	}
	best := ""
	for v, n := range counts {
		switch {
		case best == "" || n > counts[best]:
			best = v
		case n == counts[best]:
			nv, nb := model.SpecValue(v), model.SpecValue(best)
			if nv < nb || (nv == nb && v < best) {
				best = v
			}
		}
	}
	return best
}

func sortedUniqueNumeric(values []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return model.SpecValue(out[i]) < model.SpecValue(out[j]) })
	return out
}

func cheapestLocation(listings []model.Listing) (string, float64, int) {
	type acc struct {
		sum   int
		count int
	}
	byLoc := make(map[string]*acc)
	for i := range listings {
		loc := listings[i].Location
		if loc == "" {
			continue
		}
		if byLoc[loc] == nil {
			byLoc[loc] = &acc{}
		}
		byLoc[loc].sum += listings[i].Price
		byLoc[loc].count++
	}

	best, bestAvg := "", math.MaxFloat64
	for loc, v := range byLoc {
		avg := float64(v.sum) / float64(v.count)
		if avg < bestAvg || (avg == bestAvg && loc < best) {
			best, bestAvg = loc, avg
		}
	}
	return best, bestAvg, len(byLoc)
}

// splitAverages computes average prices for the listings matching and not
// matching the predicate; ok is false unless both groups are non-empty.
func splitAverages(listings []model.Listing, match func(*model.Listing) bool) (matchAvg, restAvg float64, ok bool) {
	var matchSum, matchN, restSum, restN int
	for i := range listings {
		if match(&listings[i]) {
			matchSum += listings[i].Price
			matchN++
		} else {
			restSum += listings[i].Price
			restN++
		}
	}
	if matchN == 0 || restN == 0 {
		return 0, 0, false
	}
	return float64(matchSum) / float64(matchN), float64(restSum) / float64(restN), true
}

// linearTrend fits a least-squares line and returns its slope and r².
func linearTrend(values []float64) (slope, r2 float64) {
	n := float64(len(values))
	if n < 2 {
		return 0, 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, 0
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssTot, ssRes float64
	for i, y := range values {
		fit := intercept + slope*float64(i)
		ssTot += (y - meanY) * (y - meanY)
		ssRes += (y - fit) * (y - fit)
	}
	if ssTot == 0 {
		return slope, 0
	}
	return slope, 1 - ssRes/ssTot
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var ss float64
	for _, v := range values {
		ss += (v - m) * (v - m)
	}
	return math.Sqrt(ss / float64(len(values)))
}
