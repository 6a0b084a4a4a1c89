package jobs

import (
	"context"
	"time"

	"github.com/niveshlab/fundrank/backend/internal/storage"
	"github.com/niveshlab/fundrank/backend/pkg/config"
	"github.com/niveshlab/fundrank/backend/pkg/logger"
)

// SnapshotCleanupJob deletes persisted ranking runs past the retention
// window.
type SnapshotCleanupJob struct {
	cfg    *config.Config
	runs   *storage.RunRepository
	logger *logger.Logger
}

// NewSnapshotCleanupJob creates a new snapshot cleanup job
func NewSnapshotCleanupJob(cfg *config.Config, runs *storage.RunRepository, log *logger.Logger) *SnapshotCleanupJob {
	return &SnapshotCleanupJob{
		cfg:    cfg,
		runs:   runs,
		logger: log,
	}
}

// Name returns the job name
func (j *SnapshotCleanupJob) Name() string {
	return "snapshot_cleanup"
}

// Schedule returns the cron schedule from configuration
func (j *SnapshotCleanupJob) Schedule() string {
	return j.cfg.Engine.CleanupSchedule
}

// Run deletes runs older than the configured retention age
func (j *SnapshotCleanupJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	deleted, err := j.runs.DeleteOlderThan(ctx, j.cfg.Engine.SnapshotMaxAge)
	if err != nil {
		return err
	}

	if deleted > 0 {
		j.logger.WithFields(map[string]interface{}{
			"deleted": deleted,
			"max_age": j.cfg.Engine.SnapshotMaxAge,
		}).Info("Old ranking snapshots removed")
	}
	return nil
}
