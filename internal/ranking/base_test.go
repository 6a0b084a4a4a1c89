package ranking

import (
	"testing"

	"github.com/niveshlab/fundrank/backend/internal/contracts"
	"github.com/niveshlab/fundrank/backend/internal/philosophy"
)

func TestMetricScoreHigherBetter(t *testing.T) {
	tests := []struct {
		name   string
		metric string
		m      contracts.Metrics
		want   float64
	}{
		{"roe at target", philosophy.MetricROE, contracts.Metrics{ROE: 20}, 100},
		{"roe half target", philosophy.MetricROE, contracts.Metrics{ROE: 10}, 50},
		{"roe above target clamps", philosophy.MetricROE, contracts.Metrics{ROE: 80}, 100},
		{"negative growth floors at zero", philosophy.MetricProfitGrowth3Y, contracts.Metrics{ProfitGrowth3Y: -15}, 0},
		{"opm at target", philosophy.MetricOPM, contracts.Metrics{OPM: 15}, 100},
		{"eps growth at target", philosophy.MetricEPSGrowth3Y, contracts.Metrics{EPSGrowth3Y: 20}, 100},
		{"eps growth half target", philosophy.MetricEPSGrowth3Y, contracts.Metrics{EPSGrowth3Y: 10}, 50},
		{"dividend at target", philosophy.MetricDividendYield, contracts.Metrics{DividendYield: 3}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := metricScore(tt.metric, tt.m); got != tt.want {
				t.Errorf("metricScore(%s) = %.1f, want %.1f", tt.metric, got, tt.want)
			}
		})
	}
}

func TestMetricScoreLowerBetter(t *testing.T) {
	tests := []struct {
		name   string
		metric string
		m      contracts.Metrics
		want   float64
	}{
		{"pe at target", philosophy.MetricPERatio, contracts.Metrics{PERatio: 15}, 100},
		{"pe below target", philosophy.MetricPERatio, contracts.Metrics{PERatio: 8}, 100},
		{"pe midway", philosophy.MetricPERatio, contracts.Metrics{PERatio: 30}, 50},
		{"pe at worst bound", philosophy.MetricPERatio, contracts.Metrics{PERatio: 45}, 0},
		{"debt at target", philosophy.MetricDebtToEquity, contracts.Metrics{DebtToEquity: 0.5}, 100},
		{"debt at worst bound", philosophy.MetricDebtToEquity, contracts.Metrics{DebtToEquity: 2.0}, 0},
		{"peg at target", philosophy.MetricPEG, contracts.Metrics{PEG: 1.0}, 100},
		{"peg at worst", philosophy.MetricPEG, contracts.Metrics{PEG: 3.0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := metricScore(tt.metric, tt.m); got != tt.want {
				t.Errorf("metricScore(%s) = %.1f, want %.1f", tt.metric, got, tt.want)
			}
		})
	}
}

func TestFCFScore(t *testing.T) {
	// Yield against market cap when available
	m := contracts.Metrics{FCF: 500, MarketCap: 10000} // 5% yield = target
	if got := fcfScore(m); got != 100 {
		t.Errorf("5%% FCF yield should score 100, got %.1f", got)
	}

	m = contracts.Metrics{FCF: 250, MarketCap: 10000} // 2.5% yield
	if got := fcfScore(m); got != 50 {
		t.Errorf("2.5%% FCF yield should score 50, got %.1f", got)
	}

	// Negative FCF scores zero regardless of anything else
	m = contracts.Metrics{FCF: -100, MarketCap: 100}
	if got := fcfScore(m); got != 0 {
		t.Errorf("negative FCF should score 0, got %.1f", got)
	}

	// Absolute fallback when market cap missing
	m = contracts.Metrics{FCF: 250}
	if got := fcfScore(m); got != 50 {
		t.Errorf("250 Cr FCF on absolute scale should score 50, got %.1f", got)
	}
}

func TestBaseScoreBlendsWeights(t *testing.T) {
	profile := philosophy.Profile{
		Name: "test",
		Weights: map[string]float64{
			philosophy.MetricROE:     0.6,
			philosophy.MetricPERatio: 0.4,
		},
	}
	rec := contracts.CleanRecord{
		Symbol:  "X",
		Metrics: contracts.Metrics{ROE: 10, PERatio: 15}, // 50 and 100
	}

	scores, weighted := baseScore(rec, profile)
	if scores[philosophy.MetricROE] != 50 {
		t.Errorf("roe score = %.1f, want 50", scores[philosophy.MetricROE])
	}
	if want := 0.6*50 + 0.4*100; weighted != want {
		t.Errorf("weighted = %.2f, want %.2f", weighted, want)
	}
}

func TestQualityMultiplier(t *testing.T) {
	tests := []struct {
		roe  float64
		want float64
	}{
		{5, 0},
		{10, 0},
		{20, 0.25},
		{34, 0.60},
		{50, 0.60},
	}
	for _, tt := range tests {
		if got := qualityMultiplier(tt.roe); got != tt.want {
			t.Errorf("qualityMultiplier(%.0f) = %.2f, want %.2f", tt.roe, got, tt.want)
		}
	}
}
