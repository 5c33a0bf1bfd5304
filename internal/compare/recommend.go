package compare

import (
	"fmt"

	"github.com/nijhum/phonepulse/internal/model"
)

// recommender emits the "best for X" entry for one use-case category, or nil
// when the category does not apply to either phone.
type recommender func(c *scoreContext) *model.Recommendation

// recommenders is the fixed category list. Budget, battery, camera and
// performance always emit; future-proofing and deals are conditional.
var recommenders = []recommender{
	budgetRecommendation,
	batteryRecommendation,
	cameraRecommendation,
	performanceRecommendation,
	futureProofRecommendation,
	dealRecommendation,
}

func buildRecommendations(c *scoreContext) []model.Recommendation {
	recs := make([]model.Recommendation, 0, len(recommenders))
	for _, rec := range recommenders {
		if r := rec(c); r != nil {
			recs = append(recs, *r)
		}
	}
	return recs
}

// pick returns PhoneB only when b strictly beats a; ties default to the first
// operand.
func pick(a, b float64) model.Winner {
	if b > a {
		return model.PhoneB
	}
	return model.PhoneA
}

func budgetRecommendation(c *scoreContext) *model.Recommendation {
	// Cheaper average price wins the budget pick.
	side := pick(c.avgB, c.avgA)
	price := c.avgA
	if side == model.PhoneB {
		price = c.avgB
	}
	return &model.Recommendation{
		Category:  "budget",
		Phone:     side,
		PhoneName: c.name(side),
		Detail:    fmt.Sprintf("%s average price", formatTaka(int(price))),
	}
}

func batteryRecommendation(c *scoreContext) *model.Recommendation {
	side := pick(c.batteryA, c.batteryB)
	capacity := c.batteryA
	if side == model.PhoneB {
		capacity = c.batteryB
	}
	detail := "capacity not listed"
	if capacity > 0 {
		detail = fmt.Sprintf("%.0f mAh battery", capacity)
	}
	return &model.Recommendation{
		Category:  "battery",
		Phone:     side,
		PhoneName: c.name(side),
		Detail:    detail,
	}
}

func cameraRecommendation(c *scoreContext) *model.Recommendation {
	side := pick(c.cameraA, c.cameraB)
	mp := c.cameraA
	if side == model.PhoneB {
		mp = c.cameraB
	}
	detail := "resolution not listed"
	if mp > 0 {
		detail = fmt.Sprintf("%.0f MP camera", mp)
	}
	return &model.Recommendation{
		Category:  "camera",
		Phone:     side,
		PhoneName: c.name(side),
		Detail:    detail,
	}
}

func performanceRecommendation(c *scoreContext) *model.Recommendation {
	side := pick(c.ramA*c.storageA, c.ramB*c.storageB)
	ram, storage := c.ramA, c.storageA
	if side == model.PhoneB {
		ram, storage = c.ramB, c.storageB
	}
	return &model.Recommendation{
		Category:  "performance",
		Phone:     side,
		PhoneName: c.name(side),
		Detail:    fmt.Sprintf("%.0fGB RAM / %.0fGB storage", ram, storage),
	}
}

func futureProofRecommendation(c *scoreContext) *model.Recommendation {
	if !c.fiveGA && !c.fiveGB {
		return nil
	}
	side := model.PhoneA
	if !c.fiveGA {
		side = model.PhoneB
	}
	return &model.Recommendation{
		Category:  "future_proofing",
		Phone:     side,
		PhoneName: c.name(side),
		Detail:    "5G network support",
	}
}

func dealRecommendation(c *scoreContext) *model.Recommendation {
	if c.greatA == 0 && c.greatB == 0 {
		return nil
	}
	side := pick(float64(c.greatA), float64(c.greatB))
	deals := c.greatA
	if side == model.PhoneB {
		deals = c.greatB
	}
	return &model.Recommendation{
		Category:  "deals",
		Phone:     side,
		PhoneName: c.name(side),
		Detail:    fmt.Sprintf("%d great deals currently listed", deals),
	}
}
