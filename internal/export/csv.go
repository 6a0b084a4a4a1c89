// Package export renders ranking runs into flat files for spreadsheets.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/niveshlab/fundrank/backend/internal/contracts"
)

var csvHeader = []string{
	"rank", "symbol", "name", "sector", "final_score",
	"weighted_base", "quality_multiplier", "sector_adjustment",
	"total_penalty", "tier", "tier_action", "drivers", "warnings",
}

// WriteCSV renders a run's ranked companies as CSV. Disqualified and
// malformed rows are not part of the table; they travel in the JSON payload.
func WriteCSV(w io.Writer, run *contracts.RankingRun) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, c := range run.Ranked {
		row := []string{
			strconv.Itoa(c.Rank),
			c.Symbol,
			c.Name,
			c.Sector,
			formatFloat(c.FinalScore),
			formatFloat(c.Breakdown.WeightedBase),
			formatFloat(c.Breakdown.QualityMultiplier),
			formatFloat(c.Breakdown.SectorAdjustment),
			formatFloat(c.Breakdown.TotalPenalty),
			c.TierName,
			c.TierAction,
			strings.Join(c.Breakdown.Drivers, "; "),
			strings.Join(c.Breakdown.Warnings, "; "),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", c.Symbol, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
