package ranking

import (
	"fmt"
	"sort"

	"github.com/niveshlab/fundrank/backend/internal/contracts"
	"github.com/niveshlab/fundrank/backend/internal/philosophy"
)

// driverLabels maps metric names to reader-facing phrases.
var driverLabels = map[string]string{
	philosophy.MetricFCF:            "strong free cash flow",
	philosophy.MetricROE:            "high return on equity",
	philosophy.MetricROCE:           "efficient capital deployment",
	philosophy.MetricOPM:            "healthy operating margins",
	philosophy.MetricDebtToEquity:   "conservative balance sheet",
	philosophy.MetricPERatio:        "attractive earnings multiple",
	philosophy.MetricPEG:            "growth priced reasonably",
	philosophy.MetricPriceToSales:   "cheap on sales",
	philosophy.MetricProfitGrowth3Y: "compounding profits",
	philosophy.MetricSalesGrowth5Y:  "sustained revenue growth",
	philosophy.MetricEPSGrowth3Y:    "accelerating earnings per share",
	philosophy.MetricDividendYield:  "meaningful dividend",
}

// explain fills Drivers and Warnings on a breakdown from the already
// computed stages, so the explanation never recomputes a score.
func explain(b *contracts.ScoreBreakdown, profile philosophy.Profile, rec contracts.CleanRecord, sectorInsights []string) {
	b.Drivers = drivers(b, profile, sectorInsights)
	b.Warnings = warnings(b, rec)
}

// drivers picks the strongest weighted contributions plus the bonuses that
// actually moved the score up.
func drivers(b *contracts.ScoreBreakdown, profile philosophy.Profile, sectorInsights []string) []string {
	type contribution struct {
		metric string
		value  float64
	}
	contribs := make([]contribution, 0, len(b.BaseScores))
	for metric, score := range b.BaseScores {
		contribs = append(contribs, contribution{metric, score * profile.Weights[metric]})
	}
	sort.Slice(contribs, func(i, j int) bool {
		if contribs[i].value != contribs[j].value {
			return contribs[i].value > contribs[j].value
		}
		return contribs[i].metric < contribs[j].metric
	})

	var out []string
	for i, c := range contribs {
		if i == 3 || c.value < 10 {
			break
		}
		if label, ok := driverLabels[c.metric]; ok {
			out = append(out, label)
		}
	}

	if b.QualityMultiplier > 0 {
		out = append(out, fmt.Sprintf("quality uplift +%.0f%%", b.QualityMultiplier*100))
	}
	if b.SectorAdjustment > 0 {
		out = append(out, fmt.Sprintf("outperforming sector peers +%.1f%%", b.SectorAdjustment*100))
	}
	out = append(out, sectorInsights...)
	return out
}

// warnings surfaces every triggered penalty and any field the validator had
// to repair.
func warnings(b *contracts.ScoreBreakdown, rec contracts.CleanRecord) []string {
	var out []string
	for _, p := range b.Penalties {
		out = append(out, fmt.Sprintf("%s (-%.0f%%)", p.Reason, p.Penalty*100))
	}
	if b.SectorAdjustment < 0 {
		out = append(out, fmt.Sprintf("lagging sector peers %.1f%%", b.SectorAdjustment*100))
	}
	for _, field := range rec.Degraded {
		out = append(out, fmt.Sprintf("%s missing, scored on neutral default", field))
	}
	return out
}
