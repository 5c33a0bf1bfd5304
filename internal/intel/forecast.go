package intel

import (
	"fmt"
	"math"

	"github.com/nijhum/phonepulse/internal/model"
)

// Holt smoothing parameters for the price forecast.
const (
	holtAlpha = 0.3
	holtBeta  = 0.1
)

var forecastHorizons = []int{3, 7, 14, 30}

// forecast projects prices over the next month using Holt double exponential
// smoothing over the daily timeline, with uncertainty taken from recent
// volatility. Projections are clamped to a plausible band around the average.
func (a *Analyzer) forecast(timeline []model.TimelinePoint, avgPrice float64) model.PriceForecast {
	if len(timeline) < a.cfg.MinForecastDataPoints || avgPrice <= 0 {
		return model.PriceForecast{Summary: "Not enough data"}
	}

	prices := make([]float64, len(timeline))
	for i, p := range timeline {
		prices[i] = float64(p.Price)
	}

	level, trend := holtSmooth(prices)

	// Uncertainty grows with the horizon, seeded from the last week's spread.
	recent := prices
	if len(recent) > 7 {
		recent = recent[len(recent)-7:]
	}
	recentStd := stddev(recent)

	floor := avgPrice * 0.6
	ceil := avgPrice * 1.4

	points := make([]model.ForecastPoint, 0, len(forecastHorizons))
	for _, days := range forecastHorizons {
		expected := level + trend*float64(days)
		expected = math.Max(floor, math.Min(ceil, expected))
		uncertainty := recentStd * (1 + float64(days)*0.02)

		points = append(points, model.ForecastPoint{
			Days:        days,
			Label:       fmt.Sprintf("+%dd", days),
			Expected:    int(expected),
			Optimistic:  int(math.Max(expected-uncertainty, floor)),
			Pessimistic: int(math.Min(expected+uncertainty, ceil)),
		})
	}

	current := prices[len(prices)-1]
	twoWeeks := float64(points[2].Expected)
	pctChange := 0.0
	if current != 0 {
		pctChange = (twoWeeks - current) / current * 100
	}

	out := model.PriceForecast{
		HasForecast: true,
		Points:      points,
		Confidence:  "high",
	}
	if len(prices) < 30 {
		out.Confidence = "medium"
	}

	switch {
	case math.Abs(pctChange) < 2:
		out.TrendDirection = "stable"
		out.Summary = fmt.Sprintf("Prices stable around ৳%s", formatComma(points[2].Expected))
	case pctChange < -5:
		out.TrendDirection, out.TrendStrength = "falling", "strongly"
		out.Summary = fmt.Sprintf("Prices falling. Could save ৳%s in 2 weeks", formatComma(int(current-twoWeeks)))
	case pctChange < 0:
		out.TrendDirection, out.TrendStrength = "falling", "slightly"
		out.Summary = fmt.Sprintf("Slight downward trend. Potential ৳%s savings", formatComma(int(current-twoWeeks)))
	case pctChange > 5:
		out.TrendDirection, out.TrendStrength = "rising", "strongly"
		out.Summary = fmt.Sprintf("Prices rising fast. May increase ৳%s soon", formatComma(int(twoWeeks-current)))
	default:
		out.TrendDirection, out.TrendStrength = "rising", "slightly"
		out.Summary = "Slight upward trend. Consider buying now"
	}

	return out
}

// holtSmooth runs Holt's linear method and returns the final level and trend.
func holtSmooth(prices []float64) (level, trend float64) {
	level = prices[0]
	if len(prices) > 1 {
		trend = prices[1] - prices[0]
	}
	for _, p := range prices[1:] {
		prevLevel := level
		level = holtAlpha*p + (1-holtAlpha)*(level+trend)
		trend = holtBeta*(level-prevLevel) + (1-holtBeta)*trend
	}
	return level, trend
}

// formatComma renders n with thousands separators.
func formatComma(n int) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	s := fmt.Sprintf("%d", n)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return sign + s
}
