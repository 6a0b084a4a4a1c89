package ranking

import (
	"fmt"
	"math"

	"github.com/niveshlab/fundrank/backend/internal/contracts"
	"github.com/niveshlab/fundrank/backend/internal/sector"
)

// DisqualifyConfig carries the thresholds for the disqualification rules.
// Monetary fields are in crores, PE fields are ratios, ExtremeReturn is a
// percentage. The zero value is not usable; start from
// DefaultDisqualifyConfig.
type DisqualifyConfig struct {
	MassiveCashBurnFCF float64 `yaml:"massiveCashBurnFcf"`     // disqualify when FCF is below this
	SpeculativePE      float64 `yaml:"speculativePe"`          // disqualify above this P/E
	DataErrorPE        float64 `yaml:"dataErrorPe"`            // above this the P/E is treated as a data error
	BankruptcyFCF      float64 `yaml:"bankruptcyFcf"`          // FCF below this combined with leverage
	BankruptcyDebt     float64 `yaml:"bankruptcyDebtToEquity"` // D/E above this combined with cash burn
	MinimalFCF         float64 `yaml:"minimalFcf"`             // positive FCF below this is minimal
	MinimalMarketCap   float64 `yaml:"minimalMarketCap"`       // minimal-FCF rule applies above this size
	MinimalFCFYield    float64 `yaml:"minimalFcfYield"`        // FCF/marketCap fraction below this disqualifies
	ExtremeReturn      float64 `yaml:"extremeReturn"`          // |1y return| above this is extreme
	ExtremeReturnROE   float64 `yaml:"extremeReturnRoe"`       // extreme swings only disqualify below this ROE
}

// DefaultDisqualifyConfig returns the shipped thresholds.
func DefaultDisqualifyConfig() DisqualifyConfig {
	return DisqualifyConfig{
		MassiveCashBurnFCF: -500,
		SpeculativePE:      100,
		DataErrorPE:        500,
		BankruptcyFCF:      -100,
		BankruptcyDebt:     2.0,
		MinimalFCF:         10,
		MinimalMarketCap:   1000,
		MinimalFCFYield:    0.005,
		ExtremeReturn:      2000,
		ExtremeReturnROE:   15,
	}
}

// DisqualifyRule removes a company from scoring entirely. Rules run in slice
// order and the first match wins, so the reported reason is stable.
type DisqualifyRule struct {
	Name string
	// NeedsFCF marks rules grounded in free cash flow, which do not apply to
	// financial-sector companies where accounting FCF is structural noise.
	NeedsFCF bool
	Check    func(m contracts.Metrics, cfg DisqualifyConfig) (bool, string)
}

// disqualifyRules is the ordered default rule set. Thresholds come from the
// active DisqualifyConfig at check time.
func disqualifyRules() []DisqualifyRule {
	return []DisqualifyRule{
		{
			Name:     "massive_cash_burn",
			NeedsFCF: true,
			Check: func(m contracts.Metrics, cfg DisqualifyConfig) (bool, string) {
				if m.FCF < cfg.MassiveCashBurnFCF {
					return true, fmt.Sprintf("burning cash at scale (FCF %.0f Cr)", m.FCF)
				}
				return false, ""
			},
		},
		{
			Name: "speculative_valuation",
			Check: func(m contracts.Metrics, cfg DisqualifyConfig) (bool, string) {
				if m.PERatio > cfg.DataErrorPE {
					return true, fmt.Sprintf("P/E %.0fx is almost certainly a data error", m.PERatio)
				}
				if m.PERatio > cfg.SpeculativePE {
					return true, fmt.Sprintf("speculative valuation (P/E %.0fx)", m.PERatio)
				}
				return false, ""
			},
		},
		{
			Name:     "bankruptcy_risk",
			NeedsFCF: true,
			Check: func(m contracts.Metrics, cfg DisqualifyConfig) (bool, string) {
				if m.FCF < cfg.BankruptcyFCF && m.DebtToEquity > cfg.BankruptcyDebt {
					return true, fmt.Sprintf("negative FCF with heavy leverage (D/E %.1f)", m.DebtToEquity)
				}
				return false, ""
			},
		},
		{
			Name: "negative_returns_on_equity",
			Check: func(m contracts.Metrics, _ DisqualifyConfig) (bool, string) {
				if m.ROE < 0 {
					return true, fmt.Sprintf("destroying shareholder value (ROE %.1f%%)", m.ROE)
				}
				return false, ""
			},
		},
		{
			Name:     "minimal_cash_generation",
			NeedsFCF: true,
			// Only positive FCF is "minimal"; negative FCF belongs to the cash
			// burn and bankruptcy rules or the risk penalty engine.
			Check: func(m contracts.Metrics, cfg DisqualifyConfig) (bool, string) {
				if m.MarketCap > cfg.MinimalMarketCap && m.FCF > 0 && m.FCF < cfg.MinimalFCF &&
					m.FCF/m.MarketCap < cfg.MinimalFCFYield {
					return true, fmt.Sprintf("FCF yield below %.1f%% for a %.0f Cr company",
						cfg.MinimalFCFYield*100, m.MarketCap)
				}
				return false, ""
			},
		},
		{
			Name:     "extreme_volatility",
			NeedsFCF: true,
			Check: func(m contracts.Metrics, cfg DisqualifyConfig) (bool, string) {
				if math.Abs(m.Return1Y) > cfg.ExtremeReturn && m.FCF < 0 && m.ROE < cfg.ExtremeReturnROE {
					return true, fmt.Sprintf("%.0f%% swing on weak fundamentals", m.Return1Y)
				}
				return false, ""
			},
		},
	}
}

// disqualify checks a clean record against the rule set. It returns the
// matched rule name and reason, or ok=false when the company may be scored.
func disqualify(rec contracts.CleanRecord, rules []DisqualifyRule, cfg DisqualifyConfig) (name, reason string, ok bool) {
	financial := sector.Parse(rec.Sector).IsFinancial()
	for _, rule := range rules {
		if financial && rule.NeedsFCF {
			continue
		}
		if hit, why := rule.Check(rec.Metrics, cfg); hit {
			return rule.Name, why, true
		}
	}
	return "", "", false
}
