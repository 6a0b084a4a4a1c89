package ranking

import (
	"math"
	"testing"

	"github.com/niveshlab/fundrank/backend/internal/contracts"
)

func penaltyFor(t *testing.T, penalties []contracts.RiskPenalty, rule string) float64 {
	t.Helper()
	for _, p := range penalties {
		if p.Rule == rule {
			return p.Penalty
		}
	}
	return 0
}

func TestAssessRiskIndividualRules(t *testing.T) {
	cfg := DefaultRiskConfig()
	rules := riskRegistry()

	tests := []struct {
		name    string
		m       contracts.Metrics
		rule    string
		penalty float64
	}{
		{"negative fcf", contracts.Metrics{FCF: -50, ROE: 20, ROCE: 20, PERatio: 20}, "negative_fcf", 0.40},
		{"high pe", contracts.Metrics{FCF: 500, ROE: 20, ROCE: 20, PERatio: 60}, "high_pe", 0.15},
		{"moderate pe", contracts.Metrics{FCF: 500, ROE: 20, ROCE: 20, PERatio: 30}, "high_pe", 0.05},
		{"high debt", contracts.Metrics{FCF: 500, ROE: 20, ROCE: 20, PERatio: 20, DebtToEquity: 1.8}, "high_debt", 0.20},
		{"elevated debt", contracts.Metrics{FCF: 500, ROE: 20, ROCE: 20, PERatio: 20, DebtToEquity: 1.2}, "high_debt", 0.10},
		{"very low roe", contracts.Metrics{FCF: 500, ROE: 5, ROCE: 20, PERatio: 20}, "low_roe", 0.30},
		{"low roe", contracts.Metrics{FCF: 500, ROE: 9, ROCE: 20, PERatio: 20}, "low_roe", 0.20},
		{"modest roe", contracts.Metrics{FCF: 500, ROE: 11, ROCE: 20, PERatio: 20}, "low_roe", 0.10},
		{"low roce", contracts.Metrics{FCF: 500, ROE: 20, ROCE: 10, PERatio: 20}, "low_roce", 0.10},
		{"modest roce", contracts.Metrics{FCF: 500, ROE: 20, ROCE: 14, PERatio: 20}, "low_roce", 0.05},
		{"high peg", contracts.Metrics{FCF: 500, ROE: 20, ROCE: 20, PERatio: 20, PEG: 2.5}, "high_peg", 0.10},
		{"thin fcf", contracts.Metrics{FCF: 40, MarketCap: 5000, ROE: 20, ROCE: 20, PERatio: 20}, "low_fcf_relative", 0.10},
		{"extreme swing", contracts.Metrics{FCF: 500, ROE: 20, ROCE: 20, PERatio: 20, Return1Y: 1200}, "extreme_volatility", 0.20},
		{"large swing", contracts.Metrics{FCF: 500, ROE: 20, ROCE: 20, PERatio: 20, Return1Y: -700}, "extreme_volatility", 0.10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := cleanWith("IT", tt.m)
			penalties, _ := assessRisk(rec, rules, cfg)
			if got := penaltyFor(t, penalties, tt.rule); got != tt.penalty {
				t.Errorf("%s penalty = %.2f, want %.2f", tt.rule, got, tt.penalty)
			}
		})
	}
}

func TestAssessRiskFinancialSoftening(t *testing.T) {
	cfg := DefaultRiskConfig()
	rules := riskRegistry()

	bank := cleanWith("Banking", contracts.Metrics{
		FCF: -2000, ROE: 14, ROCE: 2, PERatio: 12, DebtToEquity: 6, MarketCap: 50000,
	})
	penalties, _ := assessRisk(bank, rules, cfg)

	if got := penaltyFor(t, penalties, "negative_fcf"); got != cfg.NegativeFCFFinancial {
		t.Errorf("bank negative FCF penalty = %.2f, want %.2f", got, cfg.NegativeFCFFinancial)
	}
	if got := penaltyFor(t, penalties, "high_debt"); got != cfg.HighDebtFinancial {
		t.Errorf("bank debt penalty = %.2f, want %.2f", got, cfg.HighDebtFinancial)
	}
	if got := penaltyFor(t, penalties, "low_roce"); got != 0 {
		t.Errorf("banks must not be penalized on ROCE, got %.2f", got)
	}
	if got := penaltyFor(t, penalties, "low_fcf_relative"); got != 0 {
		t.Errorf("banks must not be penalized on relative FCF, got %.2f", got)
	}
}

func TestAssessRiskWeakCompounder(t *testing.T) {
	cfg := DefaultRiskConfig()
	rules := riskRegistry()

	hard := cleanWith("Manufacturing", contracts.Metrics{
		FCF: 50, ROE: 5, ROCE: 20, PERatio: 20, ProfitGrowth3Y: -10,
	})
	penalties, _ := assessRisk(hard, rules, cfg)
	if got := penaltyFor(t, penalties, "weak_compounder"); got != cfg.WeakCompounder {
		t.Errorf("weak compounder penalty = %.2f, want %.2f", got, cfg.WeakCompounder)
	}

	// Fortress balance sheet earns the softer penalty
	soft := cleanWith("Manufacturing", contracts.Metrics{
		FCF: 2000, ROE: 5, ROCE: 20, PERatio: 20, ProfitGrowth3Y: -10, DebtToEquity: 0.1,
	})
	penalties, _ = assessRisk(soft, rules, cfg)
	if got := penaltyFor(t, penalties, "weak_compounder"); got != cfg.WeakCompounderSoft {
		t.Errorf("soft weak compounder penalty = %.2f, want %.2f", got, cfg.WeakCompounderSoft)
	}
}

func TestAssessRiskCompoundRedFlags(t *testing.T) {
	cfg := DefaultRiskConfig()
	rules := riskRegistry()

	// ROE < 10, negative growth, thin FCF for size, leveraged: four flags
	rec := cleanWith("Manufacturing", contracts.Metrics{
		FCF: 50, MarketCap: 5000, ROE: 9, ROCE: 20, PERatio: 20,
		ProfitGrowth3Y: -5, DebtToEquity: 1.2,
	})
	penalties, _ := assessRisk(rec, rules, cfg)
	if got := penaltyFor(t, penalties, "multiple_red_flags"); got != 4*cfg.CompoundPerFlag {
		t.Errorf("compound penalty = %.2f, want %.2f", got, 4*cfg.CompoundPerFlag)
	}

	// A single red flag does not compound
	one := cleanWith("IT", contracts.Metrics{
		FCF: 2000, MarketCap: 5000, ROE: 9, ROCE: 20, PERatio: 20,
		ProfitGrowth3Y: 10, DebtToEquity: 0.2,
	})
	penalties, _ = assessRisk(one, rules, cfg)
	if got := penaltyFor(t, penalties, "multiple_red_flags"); got != 0 {
		t.Errorf("single flag must not compound, got %.2f", got)
	}
}

func TestAssessRiskTotalCapped(t *testing.T) {
	cfg := DefaultRiskConfig()
	rules := riskRegistry()

	// Pile on every penalty; the total must stop at the cap
	rec := cleanWith("Manufacturing", contracts.Metrics{
		FCF: -50, MarketCap: 5000, ROE: 5, ROCE: 5, PERatio: 60,
		PEG: 3, ProfitGrowth3Y: -20, DebtToEquity: 1.8, Return1Y: 1500,
	})
	_, total := assessRisk(rec, rules, cfg)
	if math.Abs(total-cfg.TotalCap) > 1e-9 {
		t.Errorf("total = %.2f, want cap %.2f", total, cfg.TotalCap)
	}
}

func TestAssessRiskCleanCompany(t *testing.T) {
	rec := cleanWith("IT", contracts.Metrics{
		FCF: 5000, MarketCap: 100000, ROE: 30, ROCE: 35, PERatio: 22,
		PEG: 1.2, ProfitGrowth3Y: 18, DebtToEquity: 0.05,
	})
	penalties, total := assessRisk(rec, riskRegistry(), DefaultRiskConfig())
	if len(penalties) != 0 || total != 0 {
		t.Errorf("clean company should carry no penalties, got %v (total %.2f)", penalties, total)
	}
}
