package ranking

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"math"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/niveshlab/fundrank/backend/internal/contracts"
	"github.com/niveshlab/fundrank/backend/internal/philosophy"
	"github.com/niveshlab/fundrank/backend/internal/sector"
	"github.com/niveshlab/fundrank/backend/pkg/logger"
)

// finalScoreCeiling bounds the composite score after all bonuses.
const finalScoreCeiling = 200.0

// Engine runs the full scoring pipeline. Scoring a company never reads
// another company's data, so companies fan out across workers freely.
type Engine struct {
	registry *philosophy.Registry
	sectors  *sector.Table
	dqRules  []DisqualifyRule
	rules    []riskRule
	workers  int
	log      *logger.Logger

	riskMu  sync.RWMutex
	riskCfg RiskConfig

	dqMu  sync.RWMutex
	dqCfg DisqualifyConfig
}

// Request is one ranking invocation. CustomWeights, when set, override the
// named philosophy.
type Request struct {
	Philosophy    string                   `json:"philosophy"`
	CustomWeights map[string]float64       `json:"customWeights,omitempty"`
	Records       []contracts.MetricRecord `json:"companies"`
}

// NewEngine builds an engine with the default rule sets.
func NewEngine(registry *philosophy.Registry, sectors *sector.Table, riskCfg RiskConfig, workers int, log *logger.Logger) *Engine {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Engine{
		registry: registry,
		sectors:  sectors,
		dqRules:  disqualifyRules(),
		rules:    riskRegistry(),
		workers:  workers,
		riskCfg:  riskCfg,
		dqCfg:    DefaultDisqualifyConfig(),
		log:      log,
	}
}

// SetRiskConfig swaps the penalty weights. In-flight runs keep the config
// they started with.
func (e *Engine) SetRiskConfig(cfg RiskConfig) {
	e.riskMu.Lock()
	e.riskCfg = cfg
	e.riskMu.Unlock()
}

// RiskConfig returns the active penalty weights.
func (e *Engine) RiskConfig() RiskConfig {
	e.riskMu.RLock()
	defer e.riskMu.RUnlock()
	return e.riskCfg
}

// SetDisqualifyConfig swaps the disqualification thresholds. In-flight runs
// keep the config they started with.
func (e *Engine) SetDisqualifyConfig(cfg DisqualifyConfig) {
	e.dqMu.Lock()
	e.dqCfg = cfg
	e.dqMu.Unlock()
}

// DisqualifyConfig returns the active disqualification thresholds.
func (e *Engine) DisqualifyConfig() DisqualifyConfig {
	e.dqMu.RLock()
	defer e.dqMu.RUnlock()
	return e.dqCfg
}

// Rank scores and orders every company in the request under the resolved
// philosophy. Same input, same config, same output, regardless of worker
// count or input order.
func (e *Engine) Rank(ctx context.Context, req Request) (*contracts.RankingRun, error) {
	profile, err := e.registry.Resolve(req.Philosophy, req.CustomWeights)
	if err != nil {
		return nil, err
	}
	riskCfg := e.RiskConfig()
	dqCfg := e.DisqualifyConfig()

	started := time.Now()
	run := &contracts.RankingRun{
		Philosophy: profile.Name,
		ConfigHash: e.registry.HashFor(profile.Name),
	}
	if run.ConfigHash == "" {
		if h, hashErr := philosophy.Hash(&profile); hashErr == nil {
			run.ConfigHash = h
		}
	}
	run.ID = runID(run.ConfigHash, riskCfg, dqCfg, req.Records)

	// Validation and disqualification are cheap single passes
	clean := make([]contracts.CleanRecord, 0, len(req.Records))
	for i, rec := range req.Records {
		c, malformed := Validate(i, rec)
		if malformed != nil {
			run.Malformed = append(run.Malformed, contracts.MalformedRecord{
				Index:  malformed.Index,
				Symbol: rec.Symbol,
				Reason: malformed.Reason,
			})
			continue
		}
		if rule, reason, hit := disqualify(c, e.dqRules, dqCfg); hit {
			run.Disqualified = append(run.Disqualified, contracts.DisqualifiedCompany{
				Symbol: c.Symbol,
				Name:   c.Name,
				Rule:   rule,
				Reason: reason,
			})
			continue
		}
		clean = append(clean, c)
	}

	ranked, err := e.scoreAll(ctx, clean, profile, riskCfg)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].FinalScore != ranked[j].FinalScore {
			return ranked[i].FinalScore > ranked[j].FinalScore
		}
		return ranked[i].Symbol < ranked[j].Symbol
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
		ranked[i].FinalScore = round1(ranked[i].FinalScore)
	}
	run.Ranked = ranked
	run.TotalRanked = len(run.Ranked)
	run.TotalDisqualified = len(run.Disqualified)
	// Malformed records never enter the run, so they sit outside the count
	run.TotalIn = run.TotalRanked + run.TotalDisqualified

	e.log.WithFields(map[string]interface{}{
		"run_id":       run.ID,
		"philosophy":   profile.Name,
		"input":        len(req.Records),
		"ranked":       len(run.Ranked),
		"disqualified": len(run.Disqualified),
		"malformed":    len(run.Malformed),
		"duration":     time.Since(started),
	}).Info("Ranking run completed")

	return run, nil
}

// scoreAll fans the clean records out over the worker pool. Results land in
// a slice indexed by input position, so goroutine scheduling never changes
// the outcome.
func (e *Engine) scoreAll(ctx context.Context, clean []contracts.CleanRecord, profile philosophy.Profile, riskCfg RiskConfig) ([]contracts.RankedCompany, error) {
	results := make([]contracts.RankedCompany, len(clean))

	workers := e.workers
	if workers > len(clean) {
		workers = len(clean)
	}
	if workers <= 1 {
		for i, rec := range clean {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = e.scoreOne(rec, profile, riskCfg)
		}
		return results, nil
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = e.scoreOne(clean[i], profile, riskCfg)
			}
		}()
	}

	var ctxErr error
dispatch:
	for i := range clean {
		select {
		case jobs <- i:
		case <-ctx.Done():
			ctxErr = ctx.Err()
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	if ctxErr != nil {
		return nil, ctxErr
	}
	return results, nil
}

// scoreOne runs the pipeline stages for a single company.
func (e *Engine) scoreOne(rec contracts.CleanRecord, profile philosophy.Profile, riskCfg RiskConfig) contracts.RankedCompany {
	b := contracts.ScoreBreakdown{}
	b.BaseScores, b.WeightedBase = baseScore(rec, profile)

	b.QualityMultiplier = qualityMultiplier(rec.ROE)
	b.QualityAdjusted = b.WeightedBase * (1 + b.QualityMultiplier)

	bench := e.sectors.Benchmark(sector.Parse(rec.Sector))
	adj := sector.Adjust(rec.ROE, rec.ROCE, rec.OPM, bench)
	b.SectorAdjustment = adj.Fraction
	b.SectorAdjusted = b.QualityAdjusted * (1 + adj.Fraction)

	b.Penalties, b.TotalPenalty = assessRisk(rec, e.rules, riskCfg)

	final := b.SectorAdjusted * (1 - b.TotalPenalty)
	if final < 0 {
		final = 0
	}
	if final > finalScoreCeiling {
		final = finalScoreCeiling
	}
	b.FinalScore = final

	explain(&b, profile, rec, adj.Insights)
	roundBreakdown(&b)

	tier := classifyTier(rec.Metrics)
	return contracts.RankedCompany{
		Symbol:     rec.Symbol,
		Name:       rec.Name,
		Sector:     rec.Sector,
		FinalScore: final, // unrounded until the rank pass
		Tier:       tier,
		TierName:   tier.Name(),
		TierAction: tier.Action(),
		Breakdown:  b,
		Degraded:   rec.Degraded,
	}
}

// roundBreakdown trims presentation floats to one decimal. Ranking compares
// the unrounded final score, so rounding here never reorders companies.
func roundBreakdown(b *contracts.ScoreBreakdown) {
	for k, v := range b.BaseScores {
		b.BaseScores[k] = round1(v)
	}
	b.WeightedBase = round1(b.WeightedBase)
	b.QualityAdjusted = round1(b.QualityAdjusted)
	b.SectorAdjusted = round1(b.SectorAdjusted)
	b.FinalScore = round1(b.FinalScore)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// runID derives the run identifier from everything that determines the run's
// output: the philosophy config hash, the active engine configs and the input
// records. Identical requests under identical config carry identical IDs, so
// re-running the same analysis produces the same run and persisting it twice
// dedupes on the primary key.
func runID(configHash string, riskCfg RiskConfig, dqCfg DisqualifyConfig, records []contracts.MetricRecord) string {
	h := sha256.New()
	h.Write([]byte(configHash))
	enc := json.NewEncoder(h)
	enc.Encode(riskCfg)
	enc.Encode(dqCfg)
	enc.Encode(records)
	return hex.EncodeToString(h.Sum(nil)[:8])
}
