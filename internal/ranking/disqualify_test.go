package ranking

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/niveshlab/fundrank/backend/internal/contracts"
)

func cleanWith(sectorName string, m contracts.Metrics) contracts.CleanRecord {
	return contracts.CleanRecord{Symbol: "X", Name: "X", Sector: sectorName, Metrics: m}
}

func TestDisqualifyRules(t *testing.T) {
	rules := disqualifyRules()
	cfg := DefaultDisqualifyConfig()

	tests := []struct {
		name     string
		rec      contracts.CleanRecord
		wantRule string
	}{
		{
			"massive cash burn",
			cleanWith("IT", contracts.Metrics{FCF: -600, ROE: 20, PERatio: 20}),
			"massive_cash_burn",
		},
		{
			"speculative pe",
			cleanWith("IT", contracts.Metrics{FCF: 100, ROE: 20, PERatio: 150}),
			"speculative_valuation",
		},
		{
			"data error pe",
			cleanWith("IT", contracts.Metrics{FCF: 100, ROE: 20, PERatio: 600}),
			"speculative_valuation",
		},
		{
			"bankruptcy risk",
			cleanWith("Manufacturing", contracts.Metrics{FCF: -200, DebtToEquity: 2.5, ROE: 10, PERatio: 20}),
			"bankruptcy_risk",
		},
		{
			"negative roe",
			cleanWith("IT", contracts.Metrics{FCF: 100, ROE: -5, PERatio: 20}),
			"negative_returns_on_equity",
		},
		{
			"minimal cash generation",
			cleanWith("IT", contracts.Metrics{FCF: 2, MarketCap: 5000, ROE: 15, PERatio: 20}),
			"minimal_cash_generation",
		},
		{
			"extreme volatility",
			cleanWith("IT", contracts.Metrics{FCF: -50, Return1Y: 2500, ROE: 10, PERatio: 20}),
			"extreme_volatility",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, reason, hit := disqualify(tt.rec, rules, cfg)
			if !hit {
				t.Fatal("expected disqualification")
			}
			if rule != tt.wantRule {
				t.Errorf("rule = %s, want %s", rule, tt.wantRule)
			}
			if reason == "" {
				t.Error("reason must not be empty")
			}
		})
	}
}

func TestDisqualifyFirstMatchWins(t *testing.T) {
	// Qualifies for both cash burn and negative ROE; order says cash burn
	rec := cleanWith("IT", contracts.Metrics{FCF: -700, ROE: -10, PERatio: 20})
	rule, _, hit := disqualify(rec, disqualifyRules(), DefaultDisqualifyConfig())
	if !hit || rule != "massive_cash_burn" {
		t.Errorf("expected massive_cash_burn first, got %s (hit=%v)", rule, hit)
	}
}

func TestDisqualifySkipsFCFRulesForBanking(t *testing.T) {
	// A bank with deeply negative accounting FCF stays in
	rec := cleanWith("Banking", contracts.Metrics{FCF: -900, ROE: 14, PERatio: 12, DebtToEquity: 6})
	rule, _, hit := disqualify(rec, disqualifyRules(), DefaultDisqualifyConfig())
	if hit {
		t.Errorf("bank should not be disqualified on FCF, hit rule %s", rule)
	}

	// But a bank destroying equity still goes
	rec = cleanWith("Banking", contracts.Metrics{FCF: -900, ROE: -2, PERatio: 12})
	rule, _, hit = disqualify(rec, disqualifyRules(), DefaultDisqualifyConfig())
	if !hit || rule != "negative_returns_on_equity" {
		t.Errorf("expected negative ROE disqualification, got %s (hit=%v)", rule, hit)
	}
}

func TestDisqualifyNegativeFCFIsNotMinimalCash(t *testing.T) {
	// Moderately negative FCF without heavy leverage is a risk penalty, not a
	// disqualification: minimal_cash_generation only covers positive FCF
	rec := cleanWith("Manufacturing", contracts.Metrics{
		FCF: -50, MarketCap: 5000, ROE: 18, DebtToEquity: 0.4, PERatio: 20,
	})
	rule, _, hit := disqualify(rec, disqualifyRules(), DefaultDisqualifyConfig())
	if hit {
		t.Errorf("profitable company with FCF -50 must stay in, hit rule %s", rule)
	}
}

func TestDisqualifyHealthyCompanyPasses(t *testing.T) {
	rec := cleanWith("IT", contracts.Metrics{
		FCF: 2000, MarketCap: 50000, ROE: 30, ROCE: 35, PERatio: 22, DebtToEquity: 0.1,
	})
	if _, _, hit := disqualify(rec, disqualifyRules(), DefaultDisqualifyConfig()); hit {
		t.Error("healthy company must not be disqualified")
	}
}

func TestLoadDisqualifyConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disqualify.yaml")
	overlay := "speculativePe: 50\ndataErrorPe: 400\n"
	if err := os.WriteFile(path, []byte(overlay), 0o644); err != nil {
		t.Fatalf("write overlay: %v", err)
	}

	cfg, err := LoadDisqualifyConfig(path)
	if err != nil {
		t.Fatalf("LoadDisqualifyConfig: %v", err)
	}
	if cfg.SpeculativePE != 50 || cfg.DataErrorPE != 400 {
		t.Errorf("overlay not applied: %+v", cfg)
	}
	if cfg.MassiveCashBurnFCF != -500 || cfg.MinimalFCF != 10 {
		t.Errorf("untouched fields must keep defaults: %+v", cfg)
	}
}

func TestLoadDisqualifyConfigRejectsBadFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown field", "specPe: 50\n"},
		{"data error below speculative", "speculativePe: 100\ndataErrorPe: 80\n"},
		{"yield out of range", "minimalFcfYield: 2\n"},
		{"positive cash burn threshold", "massiveCashBurnFcf: 100\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "disqualify.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("write overlay: %v", err)
			}
			cfg, err := LoadDisqualifyConfig(path)
			if err == nil {
				t.Fatal("expected load error")
			}
			if cfg != DefaultDisqualifyConfig() {
				t.Error("failed load must fall back to defaults")
			}
		})
	}
}
