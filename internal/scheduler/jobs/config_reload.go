package jobs

import (
	"context"

	"github.com/niveshlab/fundrank/backend/internal/philosophy"
	"github.com/niveshlab/fundrank/backend/internal/ranking"
	"github.com/niveshlab/fundrank/backend/internal/sector"
	"github.com/niveshlab/fundrank/backend/pkg/config"
	"github.com/niveshlab/fundrank/backend/pkg/logger"
)

// ConfigReloadJob re-reads the engine configuration files and swaps them in.
// A broken file leaves the running configuration untouched.
type ConfigReloadJob struct {
	cfg      *config.Config
	registry *philosophy.Registry
	sectors  *sector.Table
	engine   *ranking.Engine
	logger   *logger.Logger
}

// NewConfigReloadJob creates a new config reload job
func NewConfigReloadJob(cfg *config.Config, registry *philosophy.Registry, sectors *sector.Table, engine *ranking.Engine, log *logger.Logger) *ConfigReloadJob {
	return &ConfigReloadJob{
		cfg:      cfg,
		registry: registry,
		sectors:  sectors,
		engine:   engine,
		logger:   log,
	}
}

// Name returns the job name
func (j *ConfigReloadJob) Name() string {
	return "config_reload"
}

// Schedule returns the cron schedule from configuration
func (j *ConfigReloadJob) Schedule() string {
	return j.cfg.Engine.ReloadSchedule
}

// Run reloads every configured file. Files left unset in config are skipped.
func (j *ConfigReloadJob) Run(ctx context.Context) error {
	if path := j.cfg.Engine.PhilosophyFile; path != "" {
		if err := j.registry.Reload(path); err != nil {
			j.logger.WithError(err).Error("Philosophy reload failed, keeping previous profiles")
			return err
		}
	}

	if path := j.cfg.Engine.SectorFile; path != "" {
		if err := j.sectors.Reload(path); err != nil {
			j.logger.WithError(err).Error("Sector reload failed, keeping previous benchmarks")
			return err
		}
	}

	if path := j.cfg.Engine.RiskFile; path != "" {
		riskCfg, err := ranking.LoadRiskConfig(path)
		if err != nil {
			j.logger.WithError(err).Error("Risk config reload failed, keeping previous weights")
			return err
		}
		j.engine.SetRiskConfig(riskCfg)
	}

	if path := j.cfg.Engine.DisqualifyFile; path != "" {
		dqCfg, err := ranking.LoadDisqualifyConfig(path)
		if err != nil {
			j.logger.WithError(err).Error("Disqualify config reload failed, keeping previous thresholds")
			return err
		}
		j.engine.SetDisqualifyConfig(dqCfg)
	}

	return nil
}
