package intel

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nijhum/phonepulse/internal/common"
	"github.com/nijhum/phonepulse/internal/model"
)

var testNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func testAnalyzer(opts ...Option) *Analyzer {
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return NewAnalyzer(DefaultConfig(), opts...)
}

type listingOpts struct {
	price     int
	daysAgo   int
	location  string
	ram       string
	storage   string
	battery   string
	camera    string
	network   string
	condition string
	isStore   bool
	warranty  bool
}

func makeListing(i int, o listingOpts) model.Listing {
	l := model.Listing{
		URL:           fmt.Sprintf("https://bikroy.com/en/ad/phone-%d", i),
		Brand:         "Samsung",
		Model:         "Galaxy A54",
		Price:         o.price,
		Location:      o.location,
		RAM:           o.ram,
		Storage:       o.storage,
		Battery:       o.battery,
		CameraPixel:   o.camera,
		Network:       o.network,
		Condition:     o.condition,
		IsStore:       o.isStore,
		HasWarranty:   o.warranty,
		PublishedDate: testNow.AddDate(0, 0, -o.daysAgo),
	}
	if l.Location == "" {
		l.Location = "Dhaka"
	}
	if l.Condition == "" {
		l.Condition = "Used"
	}
	return l
}

func TestAnalyzeNoListings(t *testing.T) {
	_, err := testAnalyzer().Analyze("Samsung", "Galaxy A54", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNoListings))
}

func TestAnalyzeStats(t *testing.T) {
	listings := []model.Listing{
		makeListing(1, listingOpts{price: 18000, daysAgo: 1}),
		makeListing(2, listingOpts{price: 20000, daysAgo: 2}),
		makeListing(3, listingOpts{price: 22000, daysAgo: 3}),
	}

	report, err := testAnalyzer().Analyze("Samsung", "Galaxy A54", listings)
	require.NoError(t, err)

	assert.True(t, report.Success)
	assert.Equal(t, 20000, report.Stats.AvgPrice)
	assert.Equal(t, 18000, report.Stats.MinPrice)
	assert.Equal(t, 22000, report.Stats.MaxPrice)
	assert.Equal(t, 3, report.Stats.Count)
	assert.Equal(t, "Samsung", report.Stats.Brand)
	assert.Equal(t, "Galaxy A54", report.Stats.Model)
}

func TestAnalyzeMarketScore(t *testing.T) {
	// avg = 20000: one listing under 18000 (great), one above 23000
	// (overpriced), two in between. Score = (1-1)/4*100 = 0.
	listings := []model.Listing{
		makeListing(1, listingOpts{price: 14000, daysAgo: 1}),
		makeListing(2, listingOpts{price: 19000, daysAgo: 1}),
		makeListing(3, listingOpts{price: 22000, daysAgo: 1}),
		makeListing(4, listingOpts{price: 25000, daysAgo: 1}),
	}

	report, err := testAnalyzer().Analyze("Samsung", "Galaxy A54", listings)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, report.MarketScore, 0.01)
}

func TestCategorizeDealTypes(t *testing.T) {
	a := testAnalyzer()
	listings := []model.Listing{
		makeListing(1, listingOpts{price: 17000}), // < 0.9x: great
		makeListing(2, listingOpts{price: 20000}), // < 1.05x: fair
		makeListing(3, listingOpts{price: 22000}), // < 1.15x: average
		makeListing(4, listingOpts{price: 25000}), // above: overpriced
	}

	out := a.categorize(listings, 20000)
	require.Len(t, out, 4)

	// categorize sorts by ascending price, so order matches input here.
	assert.Equal(t, model.DealGreat, out[0].DealType)
	assert.Equal(t, model.DealFair, out[1].DealType)
	assert.Equal(t, model.DealAverage, out[2].DealType)
	assert.Equal(t, model.DealOverpriced, out[3].DealType)

	// Inputs must not be mutated.
	assert.Empty(t, listings[0].DealType)
}

func TestCategorizeTrustScore(t *testing.T) {
	a := testAnalyzer()
	listings := []model.Listing{
		makeListing(1, listingOpts{price: 20000, isStore: true, warranty: true, condition: "New"}),
		makeListing(2, listingOpts{price: 21000}),
	}

	out := a.categorize(listings, 20000)
	assert.Equal(t, 100, out[0].TrustScore)
	assert.Contains(t, out[0].TrustBadges, model.BadgeVerifiedStore)
	assert.Contains(t, out[0].TrustBadges, model.BadgeWarranty)
	assert.Equal(t, 0, out[1].TrustScore)
}

func TestDistributionBuckets(t *testing.T) {
	a := testAnalyzer()
	listings := []model.Listing{
		makeListing(1, listingOpts{price: 12000}),
		makeListing(2, listingOpts{price: 12500}),
		makeListing(3, listingOpts{price: 27000}),
	}

	buckets := a.distribution(listings)

	byRange := make(map[string]int)
	for _, b := range buckets {
		byRange[b.Range] = b.Count
	}
	assert.Equal(t, 2, byRange["10000-15000"])
	assert.Equal(t, 1, byRange["25000-30000"])
}

func TestBuildTimeline(t *testing.T) {
	listings := []model.Listing{
		makeListing(1, listingOpts{price: 20000, daysAgo: 2}),
		makeListing(2, listingOpts{price: 22000, daysAgo: 2}),
		makeListing(3, listingOpts{price: 19000, daysAgo: 1}),
	}

	timeline := buildTimeline(listings)
	require.Len(t, timeline, 2)

	// Chronological order, per-day averages.
	assert.Equal(t, 21000, timeline[0].Price)
	assert.Equal(t, 19000, timeline[1].Price)
	assert.True(t, timeline[0].Date < timeline[1].Date)
}

func TestLocationData(t *testing.T) {
	coords := map[string][2]float64{"Dhaka": {23.8103, 90.4125}}
	a := testAnalyzer(WithCoordinates(coords))

	listings := []model.Listing{
		makeListing(1, listingOpts{price: 20000, location: "Dhaka"}),
		makeListing(2, listingOpts{price: 24000, location: "Dhaka"}),
		makeListing(3, listingOpts{price: 18000, location: "Sylhet"}),
	}

	stats := a.locationData(listings)
	require.Len(t, stats, 2)

	byLoc := make(map[string]model.LocationStat)
	for _, s := range stats {
		byLoc[s.Location] = s
	}

	dhaka := byLoc["Dhaka"]
	assert.Equal(t, 2, dhaka.Count)
	assert.InDelta(t, 22000, dhaka.AvgPrice, 0.01)
	require.NotNil(t, dhaka.Lat)
	assert.InDelta(t, 23.8103, *dhaka.Lat, 0.0001)

	sylhet := byLoc["Sylhet"]
	assert.Nil(t, sylhet.Lat)
	assert.Nil(t, sylhet.Lon)
}

func TestVariantInfo(t *testing.T) {
	listings := []model.Listing{
		makeListing(1, listingOpts{price: 20000, ram: "8", storage: "128"}),
		makeListing(2, listingOpts{price: 21000, ram: "8", storage: "128"}),
		makeListing(3, listingOpts{price: 24000, ram: "12", storage: "256"}),
		makeListing(4, listingOpts{price: 19000, ram: "N/A", storage: ""}),
	}

	info := variantInfo(listings)
	assert.Equal(t, "8", info.ModeRAM)
	assert.Equal(t, "128", info.ModeStorage)
	assert.Equal(t, []string{"8", "12"}, info.AllRAMs)
	assert.Equal(t, []string{"128", "256"}, info.AllStorages)
	assert.Equal(t, 2, info.VariantCount)
}

func TestModeOf(t *testing.T) {
	assert.Equal(t, "N/A", modeOf(nil))
	assert.Equal(t, "8", modeOf([]string{"8", "8", "12"}))
	// Frequency tie breaks toward the smaller numeric value.
	assert.Equal(t, "6", modeOf([]string{"12", "6"}))
	// Non-numeric ties break lexicographically.
	assert.Equal(t, "New", modeOf([]string{"Used", "New"}))
}

func TestMarketInsightsWarrantyPremium(t *testing.T) {
	a := testAnalyzer()
	listings := []model.Listing{
		makeListing(1, listingOpts{price: 26000, warranty: true}),
		makeListing(2, listingOpts{price: 20000}),
		makeListing(3, listingOpts{price: 20000}),
	}

	insights := a.marketInsights(listings, nil, 22000)

	found := false
	for _, s := range insights {
		if strings.HasPrefix(s, "📋 Warranty adds") {
			found = true
		}
	}
	assert.True(t, found, "expected a warranty premium insight, got %v", insights)
}

func TestLinearTrend(t *testing.T) {
	slope, r2 := linearTrend([]float64{10, 20, 30, 40})
	assert.InDelta(t, 10, slope, 0.001)
	assert.InDelta(t, 1.0, r2, 0.001)

	slope, r2 = linearTrend([]float64{5})
	assert.Zero(t, slope)
	assert.Zero(t, r2)
}
