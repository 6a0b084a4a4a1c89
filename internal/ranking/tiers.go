package ranking

import "github.com/niveshlab/fundrank/backend/internal/contracts"

// classifyTier buckets a company by hard fundamental criteria, independent of
// its composite score. Quality over quantity: tier 1 is meant to hold only a
// handful of names.
func classifyTier(m contracts.Metrics) contracts.InvestmentTier {
	// Exceptional quality across the board
	if m.ROE > 20 && m.ROCE > 20 && m.PERatio < 25 && m.FCF > 500 && m.DebtToEquity < 0.5 {
		return contracts.TierCore
	}
	// Good quality, slightly looser bounds
	if m.ROE > 15 && m.ROCE > 15 && m.PERatio < 35 && m.FCF > 100 && m.DebtToEquity < 1.0 {
		return contracts.TierQuality
	}
	// Decent returns or a cash machine that is still growing
	if (m.ROE > 12 || (m.FCF > 1000 && m.ProfitGrowth3Y > 0)) && m.DebtToEquity < 1.5 {
		return contracts.TierSpecialized
	}
	return contracts.TierAvoid
}
