package ranking

import (
	"fmt"
	"math"

	"github.com/niveshlab/fundrank/backend/internal/contracts"
	"github.com/niveshlab/fundrank/backend/internal/sector"
)

// RiskConfig carries the penalty weights for every risk rule. Values are
// fractions of score removed when the rule fires. The zero value is not
// usable; start from DefaultRiskConfig.
type RiskConfig struct {
	NegativeFCF          float64 `yaml:"negativeFcf"`
	NegativeFCFFinancial float64 `yaml:"negativeFcfFinancial"`
	HighPE               float64 `yaml:"highPe"`
	ModeratePE           float64 `yaml:"moderatePe"`
	HighDebt             float64 `yaml:"highDebt"`
	ElevatedDebt         float64 `yaml:"elevatedDebt"`
	HighDebtFinancial    float64 `yaml:"highDebtFinancial"`
	ElevatedDebtFin      float64 `yaml:"elevatedDebtFinancial"`
	VeryLowROE           float64 `yaml:"veryLowRoe"`
	LowROE               float64 `yaml:"lowRoe"`
	ModestROE            float64 `yaml:"modestRoe"`
	LowROCE              float64 `yaml:"lowRoce"`
	ModestROCE           float64 `yaml:"modestRoce"`
	HighPEG              float64 `yaml:"highPeg"`
	LowFCFRelative       float64 `yaml:"lowFcfRelative"`
	WeakCompounder       float64 `yaml:"weakCompounder"`
	WeakCompounderSoft   float64 `yaml:"weakCompounderSoft"`
	ExtremeSwing         float64 `yaml:"extremeSwing"`
	LargeSwing           float64 `yaml:"largeSwing"`
	CompoundPerFlag      float64 `yaml:"compoundPerFlag"`
	TotalCap             float64 `yaml:"totalCap"`
}

// DefaultRiskConfig returns the shipped penalty weights.
func DefaultRiskConfig() RiskConfig {
	return RiskConfig{
		NegativeFCF:          0.40,
		NegativeFCFFinancial: 0.10,
		HighPE:               0.15,
		ModeratePE:           0.05,
		HighDebt:             0.20,
		ElevatedDebt:         0.10,
		HighDebtFinancial:    0.15,
		ElevatedDebtFin:      0.05,
		VeryLowROE:           0.30,
		LowROE:               0.20,
		ModestROE:            0.10,
		LowROCE:              0.10,
		ModestROCE:           0.05,
		HighPEG:              0.10,
		LowFCFRelative:       0.10,
		WeakCompounder:       0.50,
		WeakCompounderSoft:   0.20,
		ExtremeSwing:         0.20,
		LargeSwing:           0.10,
		CompoundPerFlag:      0.10,
		TotalCap:             0.60,
	}
}

// riskRule is one entry of the risk registry. Rules run in registry order;
// each may contribute at most one penalty.
type riskRule struct {
	name  string
	apply func(m contracts.Metrics, financial bool, cfg RiskConfig) (float64, string)
}

// riskRegistry is the ordered default rule set. Registry order fixes both
// the penalty list order in breakdowns and the arithmetic order of the sum.
func riskRegistry() []riskRule {
	return []riskRule{
		{
			name: "negative_fcf",
			apply: func(m contracts.Metrics, financial bool, cfg RiskConfig) (float64, string) {
				if m.FCF >= 0 {
					return 0, ""
				}
				if financial {
					return cfg.NegativeFCFFinancial, "negative FCF (structural for lenders, softened)"
				}
				return cfg.NegativeFCF, fmt.Sprintf("negative free cash flow (%.0f Cr)", m.FCF)
			},
		},
		{
			name: "high_pe",
			apply: func(m contracts.Metrics, _ bool, cfg RiskConfig) (float64, string) {
				switch {
				case m.PERatio > 50:
					return cfg.HighPE, fmt.Sprintf("expensive at %.0fx earnings", m.PERatio)
				case m.PERatio > 25:
					return cfg.ModeratePE, fmt.Sprintf("rich valuation at %.0fx earnings", m.PERatio)
				}
				return 0, ""
			},
		},
		{
			name: "high_debt",
			apply: func(m contracts.Metrics, financial bool, cfg RiskConfig) (float64, string) {
				if financial {
					switch {
					case m.DebtToEquity > 5.0:
						return cfg.HighDebtFinancial, fmt.Sprintf("leverage high even for a lender (D/E %.1f)", m.DebtToEquity)
					case m.DebtToEquity > 3.0:
						return cfg.ElevatedDebtFin, fmt.Sprintf("elevated leverage for a lender (D/E %.1f)", m.DebtToEquity)
					}
					return 0, ""
				}
				switch {
				case m.DebtToEquity > 1.5:
					return cfg.HighDebt, fmt.Sprintf("heavy debt load (D/E %.1f)", m.DebtToEquity)
				case m.DebtToEquity > 1.0:
					return cfg.ElevatedDebt, fmt.Sprintf("elevated debt (D/E %.1f)", m.DebtToEquity)
				}
				return 0, ""
			},
		},
		{
			name: "low_roe",
			apply: func(m contracts.Metrics, _ bool, cfg RiskConfig) (float64, string) {
				switch {
				case m.ROE < 8:
					return cfg.VeryLowROE, fmt.Sprintf("ROE %.1f%% below cost of capital", m.ROE)
				case m.ROE < 10:
					return cfg.LowROE, fmt.Sprintf("weak ROE (%.1f%%)", m.ROE)
				case m.ROE < 12:
					return cfg.ModestROE, fmt.Sprintf("modest ROE (%.1f%%)", m.ROE)
				}
				return 0, ""
			},
		},
		{
			name: "low_roce",
			apply: func(m contracts.Metrics, financial bool, cfg RiskConfig) (float64, string) {
				if financial {
					// ROCE is not meaningful for banks
					return 0, ""
				}
				switch {
				case m.ROCE < 12:
					return cfg.LowROCE, fmt.Sprintf("weak capital efficiency (ROCE %.1f%%)", m.ROCE)
				case m.ROCE < 15:
					return cfg.ModestROCE, fmt.Sprintf("modest capital efficiency (ROCE %.1f%%)", m.ROCE)
				}
				return 0, ""
			},
		},
		{
			name: "high_peg",
			apply: func(m contracts.Metrics, _ bool, cfg RiskConfig) (float64, string) {
				if m.PEG > 2.0 {
					return cfg.HighPEG, fmt.Sprintf("paying %.1fx for growth", m.PEG)
				}
				return 0, ""
			},
		},
		{
			name: "low_fcf_relative",
			apply: func(m contracts.Metrics, financial bool, cfg RiskConfig) (float64, string) {
				if financial {
					return 0, ""
				}
				if m.FCF > 0 && m.FCF < 100 && m.MarketCap > 1000 {
					return cfg.LowFCFRelative, fmt.Sprintf("thin FCF (%.0f Cr) for a %.0f Cr company", m.FCF, m.MarketCap)
				}
				return 0, ""
			},
		},
		{
			name: "weak_compounder",
			apply: func(m contracts.Metrics, _ bool, cfg RiskConfig) (float64, string) {
				if m.ROE >= 8 || m.ProfitGrowth3Y >= 0 {
					return 0, ""
				}
				// A fortress balance sheet earns the softer penalty
				if m.FCF > 1000 && m.DebtToEquity < 0.3 {
					return cfg.WeakCompounderSoft, "weak returns and shrinking profits, cushioned by cash"
				}
				return cfg.WeakCompounder, "weak returns and shrinking profits"
			},
		},
		{
			name: "extreme_volatility",
			apply: func(m contracts.Metrics, _ bool, cfg RiskConfig) (float64, string) {
				abs := math.Abs(m.Return1Y)
				switch {
				case abs > 1000:
					return cfg.ExtremeSwing, fmt.Sprintf("%.0f%% one-year swing", m.Return1Y)
				case abs > 500:
					return cfg.LargeSwing, fmt.Sprintf("%.0f%% one-year swing", m.Return1Y)
				}
				return 0, ""
			},
		},
	}
}

// redFlagCount counts the independent weaknesses that feed the compound
// penalty. Two or more together signal structural trouble beyond what the
// individual rules already charged.
func redFlagCount(m contracts.Metrics, financial bool) int {
	count := 0
	if m.ROE < 10 {
		count++
	}
	if m.ProfitGrowth3Y < 0 {
		count++
	}
	if !financial && m.FCF < 100 && m.MarketCap > 1000 {
		count++
	}
	if !financial && m.DebtToEquity > 1.0 {
		count++
	}
	return count
}

// assessRisk runs the registry over one company and returns the triggered
// penalties with their capped total.
func assessRisk(rec contracts.CleanRecord, rules []riskRule, cfg RiskConfig) ([]contracts.RiskPenalty, float64) {
	financial := sector.Parse(rec.Sector).IsFinancial()

	var penalties []contracts.RiskPenalty
	total := 0.0
	for _, rule := range rules {
		p, reason := rule.apply(rec.Metrics, financial, cfg)
		if p <= 0 {
			continue
		}
		penalties = append(penalties, contracts.RiskPenalty{
			Rule:    rule.name,
			Penalty: p,
			Reason:  reason,
		})
		total += p
	}

	if flags := redFlagCount(rec.Metrics, financial); flags >= 2 {
		p := cfg.CompoundPerFlag * float64(flags)
		penalties = append(penalties, contracts.RiskPenalty{
			Rule:    "multiple_red_flags",
			Penalty: p,
			Reason:  fmt.Sprintf("%d red flags compound each other", flags),
		})
		total += p
	}

	if total > cfg.TotalCap {
		total = cfg.TotalCap
	}
	return penalties, total
}
