package cli

import (
	"fmt"
	"strings"

	"github.com/nijhum/phonepulse/internal/model"
)

// FormatTaka renders an amount with the taka sign and comma grouping.
func FormatTaka(amount int) string {
	s := fmt.Sprintf("%d", amount)
	if len(s) <= 3 {
		return "৳" + s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return "৳" + b.String()
}

// RenderReport renders a market report for the terminal.
func RenderReport(report *model.MarketReport) string {
	var b strings.Builder

	stats := report.Stats
	b.WriteString(FormatTitle(fmt.Sprintf("%s %s Market Report", stats.Brand, stats.Model)))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("%s %d listings, avg %s (range %s - %s)\n",
		ChartIcon,
		stats.Count,
		BoldStyle.Render(FormatTaka(stats.AvgPrice)),
		FormatTaka(stats.MinPrice),
		FormatTaka(stats.MaxPrice)))
	b.WriteString(fmt.Sprintf("Market score: %.1f\n\n", report.MarketScore))

	rec := report.Recommendation
	b.WriteString(BoldStyle.Render(fmt.Sprintf("%s %s", rec.Emoji, rec.Action)))
	b.WriteString(SubtleStyle.Render(fmt.Sprintf("  (%s, confidence %d%%)", rec.Urgency, rec.Confidence)))
	b.WriteString("\n")
	for _, reason := range rec.Reasons {
		b.WriteString("  " + reason + "\n")
	}
	b.WriteString(fmt.Sprintf("Target price: %s - %s\n",
		FormatTaka(rec.TargetPriceMin), FormatTaka(rec.TargetPriceMax)))

	if report.Forecast.Summary != "" {
		b.WriteString("\n" + InfoStyle.Render(report.Forecast.Summary) + "\n")
	}

	if len(report.Insights) > 0 {
		b.WriteString("\n")
		for _, insight := range report.Insights {
			b.WriteString(insight + "\n")
		}
	}

	deals := dealListings(report.Listings)
	if len(deals) > 0 {
		b.WriteString("\n" + BoldStyle.Render(fmt.Sprintf("%s Great deals", DealIcon)) + "\n")
		for _, l := range deals {
			b.WriteString(fmt.Sprintf("  %s  %s  %s\n",
				SuccessStyle.Render(FormatTaka(l.Price)),
				l.Title,
				SubtleStyle.Render(l.Location)))
		}
	}

	return b.String()
}

func dealListings(listings []model.Listing) []model.Listing {
	var deals []model.Listing
	for _, l := range listings {
		if l.DealType == model.DealGreat {
			deals = append(deals, l)
		}
	}
	if len(deals) > 5 {
		deals = deals[:5]
	}
	return deals
}

// RenderComparison renders the verdict of a two-phone comparison.
func RenderComparison(a, b *model.PhoneSummary, result model.ComparisonResult) string {
	var out strings.Builder

	out.WriteString(FormatTitle(fmt.Sprintf("%s vs %s", a.Name(), b.Name())))
	out.WriteString("\n\n")

	verdict := "It's a tie"
	switch result.Winner {
	case model.PhoneA:
		verdict = a.Name() + " wins"
	case model.PhoneB:
		verdict = b.Name() + " wins"
	}
	out.WriteString(BoldStyle.Render(fmt.Sprintf("%s %s", TrophyIcon, verdict)))
	out.WriteString(fmt.Sprintf("  %.1f : %.1f\n\n", result.ScoreA, result.ScoreB))

	out.WriteString(fmt.Sprintf("%-14s %s avg, %d listings\n",
		a.Name(), FormatTaka(a.AvgPrice), a.ListingCount))
	out.WriteString(fmt.Sprintf("%-14s %s avg, %d listings\n",
		b.Name(), FormatTaka(b.AvgPrice), b.ListingCount))

	if len(result.Insights) > 0 {
		out.WriteString("\n")
		for _, insight := range result.Insights {
			out.WriteString("  " + insight.Text + "\n")
		}
	}

	if len(result.Recommendations) > 0 {
		out.WriteString("\n" + BoldStyle.Render("Best pick by use case") + "\n")
		for _, rec := range result.Recommendations {
			out.WriteString(fmt.Sprintf("  %-14s %s  %s\n",
				rec.Category+":",
				rec.PhoneName,
				SubtleStyle.Render(rec.Detail)))
		}
	}

	return out.String()
}

// RenderAlerts renders a user's alerts as a simple table.
func RenderAlerts(alerts []model.Alert) string {
	if len(alerts) == 0 {
		return FormatInfo("No alerts found")
	}

	var b strings.Builder
	b.WriteString(FormatTitle(fmt.Sprintf("%s Price Alerts", AlertIcon)))
	b.WriteString("\n\n")

	header := fmt.Sprintf("%-5s %-12s %-16s %-10s %-9s %s", "ID", "Brand", "Model", "Target", "Triggered", "Active")
	b.WriteString(TableHeaderStyle.Render(header))
	b.WriteString("\n")

	for _, a := range alerts {
		active := "no"
		if a.IsActive {
			active = "yes"
		}
		b.WriteString(fmt.Sprintf("%-5d %-12s %-16s %-10s %-9d %s\n",
			a.ID, a.Brand, a.Model, FormatTaka(a.TargetPrice), a.TimesTriggered, active))
	}

	return b.String()
}

// RenderEstimate renders a price estimate.
func RenderEstimate(estimate *model.PriceEstimate) string {
	var b strings.Builder

	b.WriteString(FormatTitle("Price Estimate"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Predicted price: %s\n", BoldStyle.Render(FormatTaka(estimate.PredictedPrice))))
	b.WriteString(fmt.Sprintf("Likely range:    %s - %s\n",
		FormatTaka(estimate.ConfidenceRange[0]), FormatTaka(estimate.ConfidenceRange[1])))
	b.WriteString(fmt.Sprintf("Market average:  %s\n", FormatTaka(estimate.MarketAvg)))
	b.WriteString(fmt.Sprintf("Confidence:      %s (%d samples)\n", estimate.ConfidenceLevel, estimate.SampleSize))
	b.WriteString(SubtleStyle.Render(estimate.Note))
	b.WriteString("\n")

	return b.String()
}
