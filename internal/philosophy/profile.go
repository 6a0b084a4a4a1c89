package philosophy

import "sort"

// Profile is a named weighting of fundamental metrics. Weights are fractions
// of the blended base score and must sum to 1.0 within tolerance.
type Profile struct {
	Name        string             `json:"name" yaml:"name"`
	Description string             `json:"description" yaml:"description"`
	Weights     map[string]float64 `json:"weights" yaml:"weights"`
}

// Metric names accepted in a weight table. Anything else fails validation.
const (
	MetricFCF            = "fcf"
	MetricROE            = "roe"
	MetricROCE           = "roce"
	MetricOPM            = "opm"
	MetricDebtToEquity   = "debtToEquity"
	MetricPERatio        = "peRatio"
	MetricPEG            = "peg"
	MetricPriceToSales   = "priceToSales"
	MetricProfitGrowth3Y = "profitGrowth3Yr"
	MetricSalesGrowth5Y  = "salesGrowth5Yr"
	MetricEPSGrowth3Y    = "epsGrowth3Yr"
	MetricDividendYield  = "dividendYield"
)

// KnownMetrics is the closed set of weightable metric names.
var KnownMetrics = map[string]bool{
	MetricFCF:            true,
	MetricROE:            true,
	MetricROCE:           true,
	MetricOPM:            true,
	MetricDebtToEquity:   true,
	MetricPERatio:        true,
	MetricPEG:            true,
	MetricPriceToSales:   true,
	MetricProfitGrowth3Y: true,
	MetricSalesGrowth5Y:  true,
	MetricEPSGrowth3Y:    true,
	MetricDividendYield:  true,
}

// WeightedMetrics returns the profile's metric names with non-zero weight in
// a fixed alphabetical order, so scoring iterates deterministically.
func (p *Profile) WeightedMetrics() []string {
	names := make([]string, 0, len(p.Weights))
	for name, w := range p.Weights {
		if w != 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// builtins returns the six shipped profiles. Weight tables favour the
// metrics each style of investor actually screens on.
func builtins() []Profile {
	return []Profile{
		{
			Name:        "buffett",
			Description: "Durable cash generators with conservative balance sheets",
			Weights: map[string]float64{
				MetricFCF:            0.28,
				MetricROE:            0.20,
				MetricROCE:           0.16,
				MetricDebtToEquity:   0.14,
				MetricOPM:            0.10,
				MetricPERatio:        0.08,
				MetricProfitGrowth3Y: 0.03,
				MetricSalesGrowth5Y:  0.01,
			},
		},
		{
			Name:        "lynch",
			Description: "Growth at a reasonable price, PEG driven",
			Weights: map[string]float64{
				MetricPEG:            0.25,
				MetricProfitGrowth3Y: 0.18,
				MetricEPSGrowth3Y:    0.15,
				MetricROE:            0.12,
				MetricFCF:            0.12,
				MetricROCE:           0.08,
				MetricDebtToEquity:   0.08,
				MetricPERatio:        0.02,
			},
		},
		{
			Name:        "growth",
			Description: "Aggressive earnings and sales expansion",
			Weights: map[string]float64{
				MetricProfitGrowth3Y: 0.22,
				MetricSalesGrowth5Y:  0.18,
				MetricEPSGrowth3Y:    0.15,
				MetricROCE:           0.15,
				MetricFCF:            0.12,
				MetricROE:            0.10,
				MetricOPM:            0.08,
			},
		},
		{
			Name:        "value",
			Description: "Cheap relative to earnings with strong fundamentals",
			Weights: map[string]float64{
				MetricPERatio:        0.28,
				MetricDebtToEquity:   0.20,
				MetricFCF:            0.18,
				MetricROE:            0.14,
				MetricROCE:           0.12,
				MetricDividendYield:  0.05,
				MetricProfitGrowth3Y: 0.03,
			},
		},
		{
			Name:        "dividend",
			Description: "Income with payout sustainability",
			Weights: map[string]float64{
				MetricDividendYield: 0.28,
				MetricFCF:           0.25,
				MetricROE:           0.15,
				MetricDebtToEquity:  0.15,
				MetricROCE:          0.10,
				MetricOPM:           0.07,
			},
		},
		{
			Name:        "quality",
			Description: "High-quality cash generators at reasonable valuations",
			Weights: map[string]float64{
				MetricFCF:            0.30,
				MetricROE:            0.18,
				MetricROCE:           0.15,
				MetricPERatio:        0.15,
				MetricDebtToEquity:   0.12,
				MetricOPM:            0.08,
				MetricProfitGrowth3Y: 0.02,
			},
		},
	}
}
