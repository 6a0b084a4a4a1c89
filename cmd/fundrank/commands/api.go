package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/niveshlab/fundrank/backend/internal/api"
	"github.com/niveshlab/fundrank/backend/internal/api/handlers"
	"github.com/niveshlab/fundrank/backend/internal/api/ws"
	"github.com/niveshlab/fundrank/backend/internal/philosophy"
	"github.com/niveshlab/fundrank/backend/internal/ranking"
	"github.com/niveshlab/fundrank/backend/internal/scheduler"
	"github.com/niveshlab/fundrank/backend/internal/scheduler/jobs"
	"github.com/niveshlab/fundrank/backend/internal/sector"
	"github.com/niveshlab/fundrank/backend/internal/storage"
	"github.com/niveshlab/fundrank/backend/pkg/config"
	"github.com/niveshlab/fundrank/backend/pkg/database"
	"github.com/niveshlab/fundrank/backend/pkg/logger"
	"github.com/niveshlab/fundrank/backend/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the ranking API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health                     - Health check
  POST /api/ranking/analyze        - Rank the posted companies
  GET  /api/ranking/philosophies   - List philosophy profiles
  GET  /api/ranking/latest         - Latest persisted run
  GET  /api/ranking/runs/{id}      - One persisted run
  GET  /api/ranking/export         - Latest run as CSV
  GET  /api/sectors                - Sector benchmark catalogue
  GET  /ws                         - Run-completed event stream

Example:
  go run ./cmd/fundrank api
  go run ./cmd/fundrank api --port 8090`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Engine configuration
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

	// 4. Optional database for run persistence
	var runs *storage.RunRepository
	if cfg.Database.Enabled {
		db, dbErr := database.New(cfg)
		if dbErr != nil {
			return fmt.Errorf("connect to database: %w", dbErr)
		}
		defer db.Close()

		runs = storage.NewRunRepository(db.Pool)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = runs.EnsureSchema(ctx)
		cancel()
		if err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
		log.Info("Connected to database")
	} else {
		log.Warn("Database disabled, runs will not be persisted")
	}

	// 5. Redis cache
	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	cache := redis.NewCache(redisClient, "fundrank")

	// 6. Websocket hub and handlers
	hub := ws.NewHub(log)
	rankingHandler := handlers.NewRankingHandler(engine, registry, runs, cache, hub, log)
	sectorHandler := handlers.NewSectorHandler(sectors, cache, log)

	// 7. Router and server
	router := api.NewRouter(rankingHandler, sectorHandler, hub, log)
	server := api.New(cfg, log, router)

	// 8. Scheduler
	sched := scheduler.New(log)
	if err := sched.AddJob(jobs.NewConfigReloadJob(cfg, registry, sectors, engine, log)); err != nil {
		return fmt.Errorf("schedule config reload: %w", err)
	}
	if runs != nil {
		if err := sched.AddJob(jobs.NewSnapshotCleanupJob(cfg, runs, log)); err != nil {
			return fmt.Errorf("schedule snapshot cleanup: %w", err)
		}
	}
	sched.Start()
	defer sched.Stop()

	// 9. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
