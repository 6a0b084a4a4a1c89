package contracts

import "time"

// ScoreBreakdown records every stage of the scoring pipeline for one company
// so the final score can be reproduced and explained from the breakdown alone.
type ScoreBreakdown struct {
	BaseScores        map[string]float64 `json:"baseScores"`        // metric name -> 0..100
	WeightedBase      float64            `json:"weightedBase"`      // weight-blended base score
	QualityMultiplier float64            `json:"qualityMultiplier"` // 0.00 .. 0.60 bonus fraction
	QualityAdjusted   float64            `json:"qualityAdjusted"`
	SectorAdjustment  float64            `json:"sectorAdjustment"` // signed fraction applied to score
	SectorAdjusted    float64            `json:"sectorAdjusted"`
	Penalties         []RiskPenalty      `json:"penalties,omitempty"`
	TotalPenalty      float64            `json:"totalPenalty"` // capped fraction 0..0.60
	FinalScore        float64            `json:"finalScore"`   // 0..200
	Drivers           []string           `json:"drivers,omitempty"`
	Warnings          []string           `json:"warnings,omitempty"`
}

// RiskPenalty is one triggered risk rule with its contribution.
type RiskPenalty struct {
	Rule    string  `json:"rule"`
	Penalty float64 `json:"penalty"` // fraction of score removed, e.g. 0.20
	Reason  string  `json:"reason"`
}

// RankedCompany is one row of a ranking run output.
type RankedCompany struct {
	Symbol     string         `json:"symbol"`
	Name       string         `json:"name"`
	Sector     string         `json:"sector"`
	Rank       int            `json:"rank"` // 1-based
	FinalScore float64        `json:"finalScore"`
	Tier       InvestmentTier `json:"tier"`
	TierName   string         `json:"tierName"`
	TierAction string         `json:"tierAction"`
	Breakdown  ScoreBreakdown `json:"breakdown"`
	Degraded   []string       `json:"degraded,omitempty"`
}

// IsTopRanked checks if the company is in the top N ranks.
func (r *RankedCompany) IsTopRanked(n int) bool {
	return r.Rank > 0 && r.Rank <= n
}

// DisqualifiedCompany is a company excluded before scoring, with the rule
// that removed it.
type DisqualifiedCompany struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Rule   string `json:"rule"`
	Reason string `json:"reason"`
}

// RankingRun is the complete output of one engine invocation. The engine
// fills everything except GeneratedAt, which the serving layer stamps when
// the run is persisted or returned, so identical inputs under identical
// config yield identical runs.
type RankingRun struct {
	ID                string                `json:"id"`
	Philosophy        string                `json:"philosophy"`
	ConfigHash        string                `json:"configHash"`
	GeneratedAt       time.Time             `json:"generatedAt,omitzero"`
	TotalIn           int                   `json:"totalCompaniesIn"`
	TotalRanked       int                   `json:"totalCompaniesRanked"`
	TotalDisqualified int                   `json:"totalDisqualified"`
	Ranked            []RankedCompany       `json:"ranked"`
	Disqualified      []DisqualifiedCompany `json:"disqualified"`
	Malformed         []MalformedRecord     `json:"malformed,omitempty"`
}

// MalformedRecord is an input row that could not be scored at all.
type MalformedRecord struct {
	Index  int    `json:"index"`
	Symbol string `json:"symbol,omitempty"`
	Reason string `json:"reason"`
}

// InvestmentTier buckets companies by fundamental quality, 1 best to 4 worst.
type InvestmentTier int

const (
	TierCore        InvestmentTier = 1 // exceptional quality, long holds
	TierQuality     InvestmentTier = 2 // good quality additions
	TierSpecialized InvestmentTier = 3 // mixed quality, needs research
	TierAvoid       InvestmentTier = 4 // excluded from portfolios
)

// Name returns the tier label used in API responses and CSV exports.
func (t InvestmentTier) Name() string {
	switch t {
	case TierCore:
		return "CORE PORTFOLIO"
	case TierQuality:
		return "QUALITY ADDITIONS"
	case TierSpecialized:
		return "SPECIALIZED PLAYS"
	default:
		return "AVOID"
	}
}

// Action returns the suggested portfolio action for the tier.
func (t InvestmentTier) Action() string {
	switch t {
	case TierCore:
		return "BUY / HOLD 5+ years"
	case TierQuality:
		return "HOLD / BUY on dips"
	case TierSpecialized:
		return "HOLD / RESEARCH"
	default:
		return "EXCLUDE from portfolio"
	}
}
