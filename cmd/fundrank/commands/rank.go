package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/niveshlab/fundrank/backend/internal/contracts"
	"github.com/niveshlab/fundrank/backend/internal/export"
	"github.com/niveshlab/fundrank/backend/internal/external/screener"
	"github.com/niveshlab/fundrank/backend/internal/philosophy"
	"github.com/niveshlab/fundrank/backend/internal/ranking"
	"github.com/niveshlab/fundrank/backend/internal/sector"
	"github.com/niveshlab/fundrank/backend/pkg/config"
	"github.com/niveshlab/fundrank/backend/pkg/logger"
)

// rankCmd represents the rank command
var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank companies from a JSON file",
	Long: `Runs the ranking engine over companies read from a JSON file and
prints the result.

The input file holds an array of company metric records:
  [{"symbol": "TCS", "sector": "IT", "roe": 45.2, "fcf": 38000, ...}, ...]

Examples:
  go run ./cmd/fundrank rank --input companies.json
  go run ./cmd/fundrank rank --input companies.json --philosophy lynch --format csv
  go run ./cmd/fundrank rank --input companies.json --refresh`,
	RunE: runRank,
}

var (
	rankInput      string
	rankPhilosophy string
	rankFormat     string
	rankOutput     string
	rankRefresh    bool
)

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringVar(&rankInput, "input", "", "JSON file with company metric records (required)")
	rankCmd.Flags().StringVar(&rankPhilosophy, "philosophy", "buffett", "philosophy profile to score under")
	rankCmd.Flags().StringVar(&rankFormat, "format", "json", "output format (json|csv)")
	rankCmd.Flags().StringVar(&rankOutput, "output", "", "write output to file instead of stdout")
	rankCmd.Flags().BoolVar(&rankRefresh, "refresh", false, "refresh fundamentals from screener before ranking")
	rankCmd.MarkFlagRequired("input")
}

func runRank(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	data, err := os.ReadFile(rankInput)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	var records []contracts.MetricRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parse input: %w", err)
	}

	if rankRefresh {
		if err := refreshRecords(cfg, log, records); err != nil {
			return err
		}
	}

	registry, err := philosophy.NewRegistryFromFile(cfg.Engine.PhilosophyFile, log)
	if err != nil {
		return fmt.Errorf("load philosophies: %w", err)
	}
	sectors, err := sector.NewTable(cfg.Engine.SectorFile, log)
	if err != nil {
		return fmt.Errorf("load sector benchmarks: %w", err)
	}
	riskCfg := ranking.DefaultRiskConfig()
	if cfg.Engine.RiskFile != "" {
		if riskCfg, err = ranking.LoadRiskConfig(cfg.Engine.RiskFile); err != nil {
			return fmt.Errorf("load risk config: %w", err)
		}
	}
	engine := ranking.NewEngine(registry, sectors, riskCfg, cfg.Engine.Workers, log)
	if cfg.Engine.DisqualifyFile != "" {
		dqCfg, dqErr := ranking.LoadDisqualifyConfig(cfg.Engine.DisqualifyFile)
		if dqErr != nil {
			return fmt.Errorf("load disqualify config: %w", dqErr)
		}
		engine.SetDisqualifyConfig(dqCfg)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	run, err := engine.Rank(ctx, ranking.Request{
		Philosophy: rankPhilosophy,
		Records:    records,
	})
	if err != nil {
		return fmt.Errorf("ranking failed: %w", err)
	}
	run.GeneratedAt = time.Now().UTC()

	out := os.Stdout
	if rankOutput != "" {
		f, err := os.Create(rankOutput)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch rankFormat {
	case "csv":
		if err := export.WriteCSV(out, run); err != nil {
			return fmt.Errorf("write CSV: %w", err)
		}
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(run); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q (json|csv)", rankFormat)
	}

	fmt.Fprintf(os.Stderr, "Ranked %d companies (%d disqualified, %d malformed) under %s\n",
		len(run.Ranked), len(run.Disqualified), len(run.Malformed), run.Philosophy)
	return nil
}

// refreshRecords overlays scraped fundamentals onto each record before the
// engine sees it. Fields the scrape could not fill keep their file values.
func refreshRecords(cfg *config.Config, log *logger.Logger, records []contracts.MetricRecord) error {
	client := screener.New(cfg, log, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	for i := range records {
		f, err := client.FetchFundamentals(ctx, records[i].Symbol)
		if err != nil {
			log.WithError(err).WithField("symbol", records[i].Symbol).Warn("Refresh failed, keeping file values")
			continue
		}
		fresh := f.Record(records[i].Sector)
		mergeRecord(&records[i], &fresh)
	}
	return nil
}

func mergeRecord(dst, src *contracts.MetricRecord) {
	if src.Name != "" {
		dst.Name = src.Name
	}
	overlay := func(d **float64, s *float64) {
		if s != nil {
			*d = s
		}
	}
	overlay(&dst.MarketCap, src.MarketCap)
	overlay(&dst.PERatio, src.PERatio)
	overlay(&dst.ROE, src.ROE)
	overlay(&dst.ROCE, src.ROCE)
	overlay(&dst.DebtToEquity, src.DebtToEquity)
	overlay(&dst.FCF, src.FCF)
	overlay(&dst.OPM, src.OPM)
	overlay(&dst.DividendYield, src.DividendYield)
}
