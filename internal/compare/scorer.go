// Package compare implements the two-phone comparison scorer: a capped
// weighted-point heuristic over two pre-aggregated market summaries, plus the
// insight and recommendation generators that accompany the verdict.
package compare

import (
	"math"

	"github.com/nijhum/phonepulse/internal/model"
)

// tieMargin is the hysteresis band around equal scores. A phone must lead by
// more than this many points to be declared the winner, so marginal spec
// differences don't flip the verdict back and forth.
const tieMargin = 5.0

// scoreContext holds the numeric view of both summaries, computed once and
// shared read-only by the dimension table, the insight checklist, and the
// recommendation list.
type scoreContext struct {
	a, b *model.PhoneSummary

	avgA, avgB           float64
	ramA, ramB           float64
	storageA, storageB   float64
	batteryA, batteryB   float64
	cameraA, cameraB     float64
	fiveGA, fiveGB       bool
	marketA, marketB     float64
	countA, countB       int
	greatA, greatB       int
	warrantyA, warrantyB float64
}

func newScoreContext(a, b *model.PhoneSummary) *scoreContext {
	return &scoreContext{
		a: a, b: b,
		avgA: float64(a.AvgPrice), avgB: float64(b.AvgPrice),
		ramA: model.SpecValue(a.CommonSpecs.RAM), ramB: model.SpecValue(b.CommonSpecs.RAM),
		storageA: model.SpecValue(a.CommonSpecs.Storage), storageB: model.SpecValue(b.CommonSpecs.Storage),
		batteryA: model.SpecValue(a.CommonSpecs.Battery), batteryB: model.SpecValue(b.CommonSpecs.Battery),
		cameraA: model.SpecValue(a.CommonSpecs.CameraPixel), cameraB: model.SpecValue(b.CommonSpecs.CameraPixel),
		fiveGA: a.CommonSpecs.Network == "5G", fiveGB: b.CommonSpecs.Network == "5G",
		marketA: a.MarketScore, marketB: b.MarketScore,
		countA: a.ListingCount, countB: b.ListingCount,
		greatA: a.GreatDeals(), greatB: b.GreatDeals(),
		warrantyA: a.WarrantyPct(), warrantyB: b.WarrantyPct(),
	}
}

func (c *scoreContext) name(w model.Winner) string {
	if w == model.PhoneB {
		return c.b.Name()
	}
	return c.a.Name()
}

// dimension is one row of the scoring table: a point formula awarding capped
// points to at most one side.
type dimension struct {
	award func(c *scoreContext) (model.Winner, float64)
	name  string
	cap   float64
}

// higher awards points to whichever side has the larger value. Equal values
// award neither side.
func higher(a, b, points float64) (model.Winner, float64) {
	switch {
	case a > b:
		return model.PhoneA, points
	case b > a:
		return model.PhoneB, points
	default:
		return model.Tie, 0
	}
}

// dimensions is the full scoring table. Weights stay auditable here instead
// of being buried in inline arithmetic.
var dimensions = []dimension{
	{
		name: "price",
		cap:  40,
		award: func(c *scoreContext) (model.Winner, float64) {
			max := math.Max(c.avgA, c.avgB)
			if max == 0 || c.avgA == c.avgB {
				return model.Tie, 0
			}
			pctDiff := math.Abs(c.avgA-c.avgB) / max * 100
			// Cheaper phone wins the price dimension.
			return higher(c.avgB, c.avgA, pctDiff*0.4)
		},
	},
	{
		name: "ram",
		cap:  10,
		award: func(c *scoreContext) (model.Winner, float64) {
			return higher(c.ramA, c.ramB, math.Abs(c.ramA-c.ramB)*2)
		},
	},
	{
		name: "storage",
		cap:  10,
		award: func(c *scoreContext) (model.Winner, float64) {
			return higher(c.storageA, c.storageB, math.Abs(c.storageA-c.storageB)/10)
		},
	},
	{
		name: "battery",
		cap:  10,
		award: func(c *scoreContext) (model.Winner, float64) {
			return higher(c.batteryA, c.batteryB, math.Abs(c.batteryA-c.batteryB)/100)
		},
	},
	{
		name: "camera",
		cap:  10,
		award: func(c *scoreContext) (model.Winner, float64) {
			return higher(c.cameraA, c.cameraB, math.Abs(c.cameraA-c.cameraB)/5)
		},
	},
	{
		name: "network",
		cap:  10,
		award: func(c *scoreContext) (model.Winner, float64) {
			switch {
			case c.fiveGA && !c.fiveGB:
				return model.PhoneA, 10
			case c.fiveGB && !c.fiveGA:
				return model.PhoneB, 10
			default:
				return model.Tie, 0
			}
		},
	},
	{
		name: "market",
		cap:  5,
		award: func(c *scoreContext) (model.Winner, float64) {
			return higher(c.marketA, c.marketB, math.Abs(c.marketA-c.marketB)/5)
		},
	},
	{
		// Equal listing counts award neither side, which keeps the
		// scorer symmetric under operand swap.
		name: "listings",
		cap:  5,
		award: func(c *scoreContext) (model.Winner, float64) {
			return higher(float64(c.countA), float64(c.countB), 5)
		},
	},
}

// Score compares two phone-market summaries and returns the weighted verdict
// with its insights and recommendations. It is a pure function of its inputs:
// the summaries are not mutated and no state is kept between calls.
func Score(a, b model.PhoneSummary) model.ComparisonResult {
	c := newScoreContext(&a, &b)

	result := model.ComparisonResult{
		Dimensions: make([]model.DimensionScore, 0, len(dimensions)),
	}

	for _, d := range dimensions {
		side, points := d.award(c)
		if points > d.cap {
			points = d.cap
		}
		switch side {
		case model.PhoneA:
			result.ScoreA += points
		case model.PhoneB:
			result.ScoreB += points
		case model.Tie:
			points = 0
		}
		result.Dimensions = append(result.Dimensions, model.DimensionScore{
			Dimension: d.name,
			Awarded:   side,
			Points:    points,
		})
	}

	switch {
	case result.ScoreA > result.ScoreB+tieMargin:
		result.Winner = model.PhoneA
	case result.ScoreB > result.ScoreA+tieMargin:
		result.Winner = model.PhoneB
	default:
		result.Winner = model.Tie
	}

	result.Insights = buildInsights(c)
	result.Recommendations = buildRecommendations(c)

	return result
}
