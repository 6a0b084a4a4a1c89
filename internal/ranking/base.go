package ranking

import (
	"github.com/niveshlab/fundrank/backend/internal/contracts"
	"github.com/niveshlab/fundrank/backend/internal/philosophy"
)

// Per-metric target mappings. Each metric scores against a fixed ideal so a
// company's score never depends on which other companies share the batch.
//
// Higher-is-better metrics score value/target clamped to [0, 1]. Lower-is-
// better metrics score 1 at or below the target and decay linearly to 0 at
// the worst-case bound.
const (
	targetROE           = 20.0 // % at which ROE earns a full score
	targetROCE          = 20.0
	targetOPM           = 15.0
	targetProfitGrowth  = 20.0 // 3y CAGR %
	targetSalesGrowth   = 15.0 // 5y CAGR %
	targetEPSGrowth     = 20.0 // 3y CAGR %
	targetDividendYield = 3.0  // %
	targetFCFYield      = 0.05 // FCF as fraction of market cap

	targetDebtToEquity = 0.5
	worstDebtToEquity  = 2.0
	targetPERatio      = 15.0
	worstPERatio       = 45.0
	targetPEG          = 1.0
	worstPEG           = 3.0
	targetPriceToSales = 2.0
	worstPriceToSales  = 6.0

	// Fallback FCF scale when market cap is unavailable: 500 Cr of free cash
	// flow earns a full score.
	fcfAbsoluteScale = 500.0
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func higherBetter(value, target float64) float64 {
	return clamp01(value/target) * 100
}

func lowerBetter(value, target, worst float64) float64 {
	if value <= target {
		return 100
	}
	return clamp01(1-(value-target)/(worst-target)) * 100
}

// fcfScore scores free cash flow on yield against market cap so large and
// small companies are held to the same standard. Without a market cap it
// falls back to an absolute scale. Negative FCF always scores zero here; the
// risk engine handles the punishment.
func fcfScore(m contracts.Metrics) float64 {
	if m.FCF <= 0 {
		return 0
	}
	if m.MarketCap > 0 {
		return clamp01((m.FCF/m.MarketCap)/targetFCFYield) * 100
	}
	return clamp01(m.FCF/fcfAbsoluteScale) * 100
}

// metricScore maps one metric of one company to a 0..100 base score.
func metricScore(name string, m contracts.Metrics) float64 {
	switch name {
	case philosophy.MetricFCF:
		return fcfScore(m)
	case philosophy.MetricROE:
		return higherBetter(m.ROE, targetROE)
	case philosophy.MetricROCE:
		return higherBetter(m.ROCE, targetROCE)
	case philosophy.MetricOPM:
		return higherBetter(m.OPM, targetOPM)
	case philosophy.MetricDebtToEquity:
		return lowerBetter(m.DebtToEquity, targetDebtToEquity, worstDebtToEquity)
	case philosophy.MetricPERatio:
		return lowerBetter(m.PERatio, targetPERatio, worstPERatio)
	case philosophy.MetricPEG:
		return lowerBetter(m.PEG, targetPEG, worstPEG)
	case philosophy.MetricPriceToSales:
		return lowerBetter(m.PriceToSales, targetPriceToSales, worstPriceToSales)
	case philosophy.MetricProfitGrowth3Y:
		return higherBetter(m.ProfitGrowth3Y, targetProfitGrowth)
	case philosophy.MetricSalesGrowth5Y:
		return higherBetter(m.SalesGrowth5Y, targetSalesGrowth)
	case philosophy.MetricEPSGrowth3Y:
		return higherBetter(m.EPSGrowth3Y, targetEPSGrowth)
	case philosophy.MetricDividendYield:
		return higherBetter(m.DividendYield, targetDividendYield)
	default:
		return 50 // neutral for anything unmapped
	}
}

// baseScore computes the per-metric scores and their weight-blended total for
// one company under one profile. Metrics iterate in the profile's fixed
// order so the result is bit-for-bit reproducible.
func baseScore(rec contracts.CleanRecord, profile philosophy.Profile) (map[string]float64, float64) {
	scores := make(map[string]float64, len(profile.Weights))
	weighted := 0.0
	for _, name := range profile.WeightedMetrics() {
		s := metricScore(name, rec.Metrics)
		scores[name] = s
		weighted += s * profile.Weights[name]
	}
	return scores, weighted
}
