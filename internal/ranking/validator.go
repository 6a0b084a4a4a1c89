package ranking

import (
	"math"
	"strings"

	"github.com/niveshlab/fundrank/backend/internal/contracts"
	"github.com/niveshlab/fundrank/backend/internal/sector"
)

// Neutral defaults substituted for missing or non-finite fields. Chosen to
// neither reward nor punish a company for absent data.
const (
	defaultDebtToEquity = 0.5
	defaultPERatio      = 20.0
	defaultPEG          = 1.5
	defaultPriceToSales = 2.0
)

// Validate turns a raw MetricRecord into a CleanRecord, or reports the record
// as malformed. A record with no symbol cannot be ranked at all; anything
// else is repaired with neutral defaults and the repaired fields recorded.
func Validate(idx int, rec contracts.MetricRecord) (contracts.CleanRecord, *contracts.MalformedRecordError) {
	symbol := strings.TrimSpace(rec.Symbol)
	if symbol == "" {
		return contracts.CleanRecord{}, &contracts.MalformedRecordError{
			Index:  idx,
			Reason: "missing symbol",
		}
	}
	clean := contracts.CleanRecord{Symbol: symbol, Name: rec.Name, Sector: rec.Sector}
	if strings.TrimSpace(clean.Name) == "" {
		clean.Name = symbol
		clean.Degraded = append(clean.Degraded, "name")
	}

	resolve := func(field string, in *float64, def float64) float64 {
		if in == nil || math.IsNaN(*in) || math.IsInf(*in, 0) {
			clean.Degraded = append(clean.Degraded, field)
			return def
		}
		return *in
	}

	clean.MarketCap = resolve("marketCap", rec.MarketCap, 0)
	clean.FCF = resolve("fcf", rec.FCF, 0)
	clean.ROE = resolve("roe", rec.ROE, 0)
	clean.ROCE = resolve("roce", rec.ROCE, 0)
	clean.OPM = resolve("opm", rec.OPM, 0)
	clean.DebtToEquity = resolve("debtToEquity", rec.DebtToEquity, defaultDebtToEquity)
	clean.PERatio = resolve("peRatio", rec.PERatio, defaultPERatio)
	clean.PEG = resolve("peg", rec.PEG, defaultPEG)
	clean.PriceToSales = resolve("priceToSales", rec.PriceToSales, defaultPriceToSales)
	clean.ProfitGrowth3Y = resolve("profitGrowth3Yr", rec.ProfitGrowth3Y, 0)
	clean.SalesGrowth5Y = resolve("salesGrowth5Yr", rec.SalesGrowth5Y, 0)
	clean.EPSGrowth3Y = resolve("epsGrowth3Yr", rec.EPSGrowth3Y, 0)
	clean.DividendYield = resolve("dividendYield", rec.DividendYield, 0)
	clean.Return1Y = resolve("return1Yr", rec.Return1Y, 0)

	if sector.Parse(clean.Sector) == sector.Unknown && clean.Sector != string(sector.Unknown) {
		clean.Sector = string(sector.Unknown)
		clean.Degraded = append(clean.Degraded, "sector")
	}

	return clean, nil
}
