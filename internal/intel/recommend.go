package intel

import (
	"fmt"
	"math"

	"github.com/nijhum/phonepulse/internal/model"
)

// recommend builds the heuristic buy/wait verdict from five weighted market
// factors. Positive score favors buying now.
func (a *Analyzer) recommend(listings []model.Listing, avgPrice float64, timeline []model.TimelinePoint, marketScore float64, greatDeals int) model.BuyRecommendation {
	score := 0
	var reasons []string

	// Factor 1: price trend.
	if len(timeline) > 7 {
		prices := make([]float64, len(timeline))
		for i, p := range timeline {
			prices[i] = float64(p.Price)
		}
		slope, r2 := linearTrend(prices)
		pctChange := 0.0
		if m := mean(prices); m != 0 {
			pctChange = slope / m * 100
		}

		if r2 >= a.cfg.TrendConfidence {
			switch {
			case pctChange < -3:
				score += 30
				reasons = append(reasons, fmt.Sprintf("📉 Prices dropped ~%.1f%% recently", math.Abs(pctChange)))
			case pctChange < -1:
				score += 15
				reasons = append(reasons, fmt.Sprintf("📉 Prices declining ~%.1f%%", math.Abs(pctChange)))
			case pctChange > 3:
				score -= 30
				reasons = append(reasons, fmt.Sprintf("📈 Prices rising ~%.1f%% - may increase further", pctChange))
			case pctChange > 1:
				score -= 15
				reasons = append(reasons, fmt.Sprintf("📈 Prices trending up ~%.1f%%", pctChange))
			}
		}
	}

	// Factor 2: great-deal availability.
	switch {
	case greatDeals >= 5:
		score += 25
		reasons = append(reasons, fmt.Sprintf("🔥 %d great deals available", greatDeals))
	case greatDeals >= 3:
		score += 15
		reasons = append(reasons, fmt.Sprintf("✓ %d good deals found", greatDeals))
	case greatDeals >= 1:
		score += 5
		reasons = append(reasons, fmt.Sprintf("⚠️ Only %d deal(s) available", greatDeals))
	default:
		score -= 20
		reasons = append(reasons, "❌ No great deals currently")
	}

	// Factor 3: market health.
	switch {
	case marketScore > a.cfg.BuyerMarketScore:
		score += 20
		reasons = append(reasons, "💰 Buyer's market - lots of competition")
	case marketScore > 0:
		score += 10
		reasons = append(reasons, "⚖️ Balanced market")
	case marketScore > a.cfg.SellerMarketScore:
		score -= 10
		reasons = append(reasons, "⚠️ Slightly overpriced market")
	default:
		score -= 20
		reasons = append(reasons, "🔴 Seller's market - prices high")
	}

	// Factor 4: listing freshness.
	cutoff := a.now().AddDate(0, 0, -a.cfg.FreshListingDays)
	recent := 0
	for i := range listings {
		if !listings[i].PublishedDate.IsZero() && !listings[i].PublishedDate.Before(cutoff) {
			recent++
		}
	}
	n := float64(len(listings))
	switch {
	case float64(recent) >= n*a.cfg.FreshMarketRatio:
		score += 10
		reasons = append(reasons, fmt.Sprintf("🆕 %d new listings this week", recent))
	case float64(recent) <= n*a.cfg.StaleMarketRatio:
		score -= 10
		reasons = append(reasons, "⏳ Few new listings - market stagnant")
	}

	// Factor 5: price variance.
	if avgPrice > 0 {
		prices := make([]float64, len(listings))
		for i := range listings {
			prices[i] = float64(listings[i].Price)
		}
		cv := stddev(prices) / avgPrice * 100
		switch {
		case cv < a.cfg.StableMarketCV:
			score += 10
			reasons = append(reasons, "✓ Stable pricing across listings")
		case cv > a.cfg.ChaoticMarketCV:
			score -= 5
			reasons = append(reasons, "⚠️ High price variance - shop carefully")
		}
	}

	rec := model.BuyRecommendation{
		Confidence:     clamp(50+score, 0, 100),
		TargetPriceMin: int(avgPrice * a.cfg.TargetPriceMinMultiplier),
		TargetPriceMax: int(avgPrice * a.cfg.TargetPriceMaxMultiplier),
	}

	switch {
	case score >= a.cfg.BuyNowScore:
		rec.Action, rec.Emoji, rec.Urgency = "BUY NOW", "✅", "3-5 days"
	case score >= a.cfg.GoodTimeScore:
		rec.Action, rec.Emoji, rec.Urgency = "GOOD TIME TO BUY", "✅", "1 week"
	case score >= a.cfg.NeutralScore:
		rec.Action, rec.Emoji, rec.Urgency = "NEUTRAL", "⚖️", "2 weeks"
	case score >= a.cfg.WaitScore:
		rec.Action, rec.Emoji, rec.Urgency = "CONSIDER WAITING", "⏳", "2-3 weeks"
	default:
		rec.Action, rec.Emoji, rec.Urgency = "WAIT", "🛑", "1 month"
	}

	if len(reasons) > 4 {
		reasons = reasons[:4]
	}
	rec.Reasons = reasons

	return rec
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
