package compare

import (
	"fmt"

	"github.com/nijhum/phonepulse/internal/model"
)

// insightCheck is one entry of the insight checklist: a pure function that
// inspects the shared context and emits zero or one statement.
type insightCheck func(c *scoreContext) *model.Insight

// insightChecks is evaluated in order with no early exit; every applicable
// statement is kept.
var insightChecks = []insightCheck{
	valueInsight,
	batteryInsight,
	cameraInsight,
	networkInsight,
	availabilityInsight,
	dealInsight,
	warrantyInsight,
	storageValueInsight,
}

func buildInsights(c *scoreContext) []model.Insight {
	insights := make([]model.Insight, 0, len(insightChecks))
	for _, check := range insightChecks {
		if ins := check(c); ins != nil {
			insights = append(insights, *ins)
		}
	}
	return insights
}

// valueInsight compares a rough spec-per-taka figure. A missing battery falls
// back to 4000 mAh so one absent field doesn't zero the whole product.
func valueInsight(c *scoreContext) *model.Insight {
	if c.avgA == 0 || c.avgB == 0 {
		return nil
	}
	batA, batB := c.batteryA, c.batteryB
	if batA == 0 {
		batA = 4000
	}
	if batB == 0 {
		batB = 4000
	}
	valueA := c.ramA * c.storageA * batA / c.avgA
	valueB := c.ramB * c.storageB * batB / c.avgB

	switch {
	case valueA > valueB*1.15:
		return &model.Insight{Category: "value", Text: fmt.Sprintf("%s offers better value for money per taka spent", c.a.Name())}
	case valueB > valueA*1.15:
		return &model.Insight{Category: "value", Text: fmt.Sprintf("%s offers better value for money per taka spent", c.b.Name())}
	default:
		return &model.Insight{Category: "value", Text: "Both phones offer similar value for money"}
	}
}

func batteryInsight(c *scoreContext) *model.Insight {
	if c.batteryA == 0 || c.batteryB == 0 {
		return nil
	}
	switch {
	case c.batteryA > c.batteryB*1.10:
		pct := (c.batteryA - c.batteryB) / c.batteryB * 100
		return &model.Insight{Category: "battery", Text: fmt.Sprintf("%s has a %.0f mAh (%.0f%%) larger battery", c.a.Name(), c.batteryA-c.batteryB, pct)}
	case c.batteryB > c.batteryA*1.10:
		pct := (c.batteryB - c.batteryA) / c.batteryA * 100
		return &model.Insight{Category: "battery", Text: fmt.Sprintf("%s has a %.0f mAh (%.0f%%) larger battery", c.b.Name(), c.batteryB-c.batteryA, pct)}
	default:
		return nil
	}
}

func cameraInsight(c *scoreContext) *model.Insight {
	if c.cameraA == 0 || c.cameraB == 0 {
		return nil
	}
	switch {
	case c.cameraA > c.cameraB*1.20:
		return &model.Insight{Category: "camera", Text: fmt.Sprintf("%s has a higher resolution camera (%.0f MP vs %.0f MP)", c.a.Name(), c.cameraA, c.cameraB)}
	case c.cameraB > c.cameraA*1.20:
		return &model.Insight{Category: "camera", Text: fmt.Sprintf("%s has a higher resolution camera (%.0f MP vs %.0f MP)", c.b.Name(), c.cameraB, c.cameraA)}
	default:
		return nil
	}
}

func networkInsight(c *scoreContext) *model.Insight {
	switch {
	case c.fiveGA && !c.fiveGB:
		return &model.Insight{Category: "network", Text: fmt.Sprintf("%s supports 5G; %s does not", c.a.Name(), c.b.Name())}
	case c.fiveGB && !c.fiveGA:
		return &model.Insight{Category: "network", Text: fmt.Sprintf("%s supports 5G; %s does not", c.b.Name(), c.a.Name())}
	default:
		return nil
	}
}

func availabilityInsight(c *scoreContext) *model.Insight {
	countA, countB := float64(c.countA), float64(c.countB)
	switch {
	case countA > countB*1.5:
		return &model.Insight{Category: "availability", Text: fmt.Sprintf("%s has far more listings available (%d vs %d)", c.a.Name(), c.countA, c.countB)}
	case countB > countA*1.5:
		return &model.Insight{Category: "availability", Text: fmt.Sprintf("%s has far more listings available (%d vs %d)", c.b.Name(), c.countB, c.countA)}
	default:
		return nil
	}
}

func dealInsight(c *scoreContext) *model.Insight {
	switch {
	case c.greatA > c.greatB && c.greatA > 0:
		return &model.Insight{Category: "deals", Text: fmt.Sprintf("%s has more great deals right now (%d)", c.a.Name(), c.greatA)}
	case c.greatB > c.greatA && c.greatB > 0:
		return &model.Insight{Category: "deals", Text: fmt.Sprintf("%s has more great deals right now (%d)", c.b.Name(), c.greatB)}
	default:
		return nil
	}
}

func warrantyInsight(c *scoreContext) *model.Insight {
	switch {
	case c.warrantyA > c.warrantyB*1.3:
		return &model.Insight{Category: "warranty", Text: fmt.Sprintf("%.0f%% of %s listings include a warranty vs %.0f%%", c.warrantyA, c.a.Name(), c.warrantyB)}
	case c.warrantyB > c.warrantyA*1.3:
		return &model.Insight{Category: "warranty", Text: fmt.Sprintf("%.0f%% of %s listings include a warranty vs %.0f%%", c.warrantyB, c.b.Name(), c.warrantyA)}
	default:
		return nil
	}
}

func storageValueInsight(c *scoreContext) *model.Insight {
	if c.storageA == 0 || c.storageB == 0 {
		return nil
	}
	perGBA := c.avgA / c.storageA
	perGBB := c.avgB / c.storageB
	switch {
	case perGBA <= perGBB*0.8:
		return &model.Insight{Category: "storage_value", Text: fmt.Sprintf("%s costs less per GB of storage (৳%.0f vs ৳%.0f)", c.a.Name(), perGBA, perGBB)}
	case perGBB <= perGBA*0.8:
		return &model.Insight{Category: "storage_value", Text: fmt.Sprintf("%s costs less per GB of storage (৳%.0f vs ৳%.0f)", c.b.Name(), perGBB, perGBA)}
	default:
		return nil
	}
}

// formatTaka renders a currency amount with thousands separators.
func formatTaka(amount int) string {
	s := fmt.Sprintf("%d", amount)
	neg := false
	if amount < 0 {
		neg = true
		s = s[1:]
	}
	var out []byte
	for i, d := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, d)
	}
	if neg {
		return "৳-" + string(out)
	}
	return "৳" + string(out)
}
