package contracts

// MetricRecord is the raw fundamental snapshot for a single company as it
// enters the ranking pipeline. Metric fields are pointers so absent values
// can be told apart from genuine zeroes; the validator substitutes neutral
// defaults for anything nil or non-finite. Monetary fields are in crores of
// rupees and ratio fields are percentages unless noted otherwise.
type MetricRecord struct {
	Symbol         string   `json:"symbol"`
	Name           string   `json:"name"`
	Sector         string   `json:"sector"`
	MarketCap      *float64 `json:"marketCap"`       // crores
	FCF            *float64 `json:"fcf"`             // free cash flow, crores
	ROE            *float64 `json:"roe"`             // %
	ROCE           *float64 `json:"roce"`            // %
	OPM            *float64 `json:"opm"`             // operating profit margin, %
	DebtToEquity   *float64 `json:"debtToEquity"`    // ratio
	PERatio        *float64 `json:"peRatio"`         // ratio
	PEG            *float64 `json:"peg"`             // ratio
	PriceToSales   *float64 `json:"priceToSales"`    // ratio
	ProfitGrowth3Y *float64 `json:"profitGrowth3Yr"` // CAGR, %
	SalesGrowth5Y  *float64 `json:"salesGrowth5Yr"`  // CAGR, %
	EPSGrowth3Y    *float64 `json:"epsGrowth3Yr"`    // CAGR, %
	DividendYield  *float64 `json:"dividendYield"`   // %
	Return1Y       *float64 `json:"return1Yr"`       // trailing 12m price return, %
}

// Metrics is the fully resolved metric set every scoring stage reads.
type Metrics struct {
	MarketCap      float64 `json:"marketCap"`
	FCF            float64 `json:"fcf"`
	ROE            float64 `json:"roe"`
	ROCE           float64 `json:"roce"`
	OPM            float64 `json:"opm"`
	DebtToEquity   float64 `json:"debtToEquity"`
	PERatio        float64 `json:"peRatio"`
	PEG            float64 `json:"peg"`
	PriceToSales   float64 `json:"priceToSales"`
	ProfitGrowth3Y float64 `json:"profitGrowth3Yr"`
	SalesGrowth5Y  float64 `json:"salesGrowth5Yr"`
	EPSGrowth3Y    float64 `json:"epsGrowth3Yr"`
	DividendYield  float64 `json:"dividendYield"`
	Return1Y       float64 `json:"return1Yr"`
}

// CleanRecord is a MetricRecord after validation: every metric holds a usable
// value and Degraded lists the fields that were absent or non-finite in the
// input and got replaced with neutral defaults.
type CleanRecord struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Sector string `json:"sector"`
	Metrics
	Degraded []string `json:"degraded,omitempty"`
}

// IsDegraded reports whether the named field was defaulted during validation.
func (c *CleanRecord) IsDegraded(field string) bool {
	for _, f := range c.Degraded {
		if f == field {
			return true
		}
	}
	return false
}
