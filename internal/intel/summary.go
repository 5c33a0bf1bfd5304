package intel

import (
	"math"

	"github.com/nijhum/phonepulse/internal/common"
	"github.com/nijhum/phonepulse/internal/model"
)

// Summarize aggregates a phone's listings into the snapshot consumed by the
// comparison scorer: price spread, market score, and the mode value of each
// spec field. Returns common.ErrNoListings when there is nothing to work with.
func (a *Analyzer) Summarize(brand, phoneModel string, listings []model.Listing) (*model.PhoneSummary, error) {
	if len(listings) == 0 {
		return nil, common.ErrNoListings
	}

	var sum int
	minPrice := listings[0].Price
	maxPrice := listings[0].Price
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

	return &model.PhoneSummary{
		Brand:        brand,
		Model:        phoneModel,
		AvgPrice:     int(avgPrice),
		MinPrice:     minPrice,
		MaxPrice:     maxPrice,
		ListingCount: len(listings),
		MarketScore:  marketScore,
		Listings:     categorized,
		CommonSpecs:  commonSpecs(categorized),
	}, nil
}

// commonSpecs takes the mode of each spec field across the listings.
func commonSpecs(listings []model.Listing) model.CommonSpecs {
	var ram, storage, battery, camera, network, condition []string
	for i := range listings {
		l := &listings[i]
		if usable(l.RAM) {
			ram = append(ram, l.RAM)
		}
		if usable(l.Storage) {
			storage = append(storage, l.Storage)
		}
		if usable(l.Battery) {
			battery = append(battery, l.Battery)
		}
		if usable(l.CameraPixel) {
			camera = append(camera, l.CameraPixel)
		}
		if usable(l.Network) {
			network = append(network, l.Network)
		}
		if usable(l.Condition) {
			condition = append(condition, l.Condition)
		}
	}

	return model.CommonSpecs{
		RAM:         modeOf(ram),
		Storage:     modeOf(storage),
		Battery:     modeOf(battery),
		CameraPixel: modeOf(camera),
		Network:     modeOf(network),
		Condition:   modeOf(condition),
	}
}
