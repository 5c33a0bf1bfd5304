package intel

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nijhum/phonepulse/internal/common"
	"github.com/nijhum/phonepulse/internal/model"
)

// Estimate predicts a fair price for the requested configuration from
// comparable listings of the same brand and model. The baseline is the median
// of the closest spec matches, progressively relaxed until enough comparables
// are found, then adjusted with the warranty and store premiums observed in
// the market.
func (a *Analyzer) Estimate(req model.EstimateRequest, listings []model.Listing) (*model.PriceEstimate, error) {
	if len(listings) == 0 {
		return nil, common.ErrNoListings
	}

	var sum int
	for i := range listings {
		sum += listings[i].Price
	}
	marketAvg := sum / len(listings)

	comparables := matchComparables(req, listings)
	predicted := medianPrice(comparables)
	if predicted == 0 {
		predicted = marketAvg
	}

	predicted = a.applyPremiums(predicted, req, listings)

	level := "Low"
	switch {
	case len(comparables) > a.cfg.HighConfidenceSamples:
		level = "High"
	case len(comparables) > a.cfg.MediumConfidenceSamples:
		level = "Medium"
	}

	return &model.PriceEstimate{
		Success:         true,
		PredictedPrice:  predicted,
		ConfidenceRange: [2]int{int(float64(predicted) * 0.9), int(float64(predicted) * 1.1)},
		MarketAvg:       marketAvg,
		ConfidenceLevel: level,
		SampleSize:      len(comparables),
		Note:            fmt.Sprintf("Based on %d similar listings in our database", len(comparables)),
	}, nil
}

// matchComparables filters on RAM, storage and condition first, then relaxes
// one constraint at a time until at least three comparables remain.
func matchComparables(req model.EstimateRequest, listings []model.Listing) []model.Listing {
	filters := [][]func(*model.Listing) bool{
		{matchField(req.RAM, specOf("ram")), matchField(req.Storage, specOf("storage")), matchField(req.Condition, specOf("condition"))},
		{matchField(req.RAM, specOf("ram")), matchField(req.Storage, specOf("storage"))},
		{matchField(req.Storage, specOf("storage"))},
		nil,
	}

	for _, fs := range filters {
		var out []model.Listing
		for i := range listings {
			ok := true
			for _, f := range fs {
				if !f(&listings[i]) {
					ok = false
					break
				}
			}
			if ok {
				out = append(out, listings[i])
			}
		}
		if len(out) >= 3 {
			return out
		}
	}
	return listings
}

func specOf(field string) func(*model.Listing) string {
	switch field {
	case "ram":
		return func(l *model.Listing) string { return l.RAM }
	case "storage":
		return func(l *model.Listing) string { return l.Storage }
	default:
		return func(l *model.Listing) string { return l.Condition }
	}
}

// matchField accepts everything when the requested value is empty or "Any".
func matchField(want string, get func(*model.Listing) string) func(*model.Listing) bool {
	return func(l *model.Listing) bool {
		if want == "" || want == model.AnyFilter {
			return true
		}
		return strings.EqualFold(get(l), want)
	}
}

// applyPremiums shifts the baseline by the warranty and store premiums
// actually observed in this market, when the request asks for either.
func (a *Analyzer) applyPremiums(predicted int, req model.EstimateRequest, listings []model.Listing) int {
	if req.HasWarranty {
		withAvg, withoutAvg, ok := splitAverages(listings, func(l *model.Listing) bool {
			if l.HasWarranty {
				return true
			}
			for _, b := range l.TrustBadges {
				if b == model.BadgeWarranty {
					return true
				}
			}
			return strings.EqualFold(l.Condition, "New")
		})
		if ok && withoutAvg > 0 && withAvg > withoutAvg {
			predicted = int(float64(predicted) * withAvg / withoutAvg)
		}
	}

	if req.IsStore {
		storeAvg, privateAvg, ok := splitAverages(listings, func(l *model.Listing) bool {
			return l.IsStore
		})
		if ok && privateAvg > 0 && storeAvg > privateAvg {
			predicted = int(float64(predicted) * storeAvg / privateAvg)
		}
	}

	return predicted
}

func medianPrice(listings []model.Listing) int {
	if len(listings) == 0 {
		return 0
	}
	prices := make([]int, len(listings))
	for i := range listings {
		prices[i] = listings[i].Price
	}
	sort.Ints(prices)
	mid := len(prices) / 2
	if len(prices)%2 == 0 {
		return (prices[mid-1] + prices[mid]) / 2
	}
	return prices[mid]
}
