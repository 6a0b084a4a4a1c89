package screener

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/niveshlab/fundrank/backend/internal/contracts"
)

// Fundamentals is the scraped ratio snapshot for one company.
type Fundamentals struct {
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name"`
	MarketCap     *float64 `json:"marketCap,omitempty"`
	PERatio       *float64 `json:"peRatio,omitempty"`
	ROE           *float64 `json:"roe,omitempty"`
	ROCE          *float64 `json:"roce,omitempty"`
	DebtToEquity  *float64 `json:"debtToEquity,omitempty"`
	FCF           *float64 `json:"fcf,omitempty"`
	OPM           *float64 `json:"opm,omitempty"`
	DividendYield *float64 `json:"dividendYield,omitempty"`
	RatioCount    int      `json:"ratioCount"`
}

// Record converts scraped fundamentals into engine input. Fields the page
// did not carry stay nil and the validator will default them.
func (f *Fundamentals) Record(sectorName string) contracts.MetricRecord {
	return contracts.MetricRecord{
		Symbol:        f.Symbol,
		Name:          f.Name,
		Sector:        sectorName,
		MarketCap:     f.MarketCap,
		PERatio:       f.PERatio,
		ROE:           f.ROE,
		ROCE:          f.ROCE,
		DebtToEquity:  f.DebtToEquity,
		FCF:           f.FCF,
		OPM:           f.OPM,
		DividendYield: f.DividendYield,
	}
}

// parseCompanyPage extracts the top ratio list from a company page.
// Page structure: ul#top-ratios > li > span.name / span.number pairs.
func parseCompanyPage(symbol string, html []byte) (*Fundamentals, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse screener page for %s: %w", symbol, err)
	}

	f := &Fundamentals{Symbol: symbol}
	f.Name = strings.TrimSpace(doc.Find("h1").First().Text())
	if f.Name == "" {
		f.Name = symbol
	}

	doc.Find("#top-ratios li").Each(func(_ int, li *goquery.Selection) {
		name := strings.TrimSpace(li.Find("span.name").Text())
		value, ok := parseNumber(li.Find("span.number").First().Text())
		if !ok {
			return
		}
		f.RatioCount++

		switch {
		case strings.EqualFold(name, "Market Cap"):
			f.MarketCap = &value
		case strings.EqualFold(name, "Stock P/E"):
			f.PERatio = &value
		case strings.EqualFold(name, "ROE"):
			f.ROE = &value
		case strings.EqualFold(name, "ROCE"):
			f.ROCE = &value
		case strings.EqualFold(name, "Debt to equity"):
			f.DebtToEquity = &value
		case strings.EqualFold(name, "Free Cash Flow"):
			f.FCF = &value
		case strings.EqualFold(name, "OPM"):
			f.OPM = &value
		case strings.EqualFold(name, "Dividend Yield"):
			f.DividendYield = &value
		default:
			f.RatioCount--
		}
	})

	if f.RatioCount == 0 {
		return nil, fmt.Errorf("no recognisable ratios on screener page for %s", symbol)
	}
	return f, nil
}

// parseNumber strips the currency and unit decorations screener puts around
// figures: "₹ 1,23,456 Cr.", "18.5 %", "0.02".
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	for _, junk := range []string{"₹", ",", "%", "Cr.", "Cr"} {
		s = strings.ReplaceAll(s, junk, "")
	}
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
