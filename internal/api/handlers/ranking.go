package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/niveshlab/fundrank/backend/internal/api/ws"
	"github.com/niveshlab/fundrank/backend/internal/contracts"
	"github.com/niveshlab/fundrank/backend/internal/export"
	"github.com/niveshlab/fundrank/backend/internal/philosophy"
	"github.com/niveshlab/fundrank/backend/internal/ranking"
	"github.com/niveshlab/fundrank/backend/internal/storage"
	"github.com/niveshlab/fundrank/backend/pkg/logger"
	"github.com/niveshlab/fundrank/backend/pkg/redis"
)

// maxAnalyzeRecords bounds one request so a single caller cannot pin the
// worker pool indefinitely.
const maxAnalyzeRecords = 10000

// RankingHandler handles ranking-related API endpoints. Runs is nil when the
// service starts without a database; run persistence degrades to a no-op and
// the latest/export endpoints report 404.
type RankingHandler struct {
	engine   *ranking.Engine
	registry *philosophy.Registry
	runs     *storage.RunRepository
	cache    *redis.Cache
	hub      *ws.Hub
	logger   *logger.Logger
}

// NewRankingHandler creates a new ranking handler
func NewRankingHandler(engine *ranking.Engine, registry *philosophy.Registry, runs *storage.RunRepository, cache *redis.Cache, hub *ws.Hub, log *logger.Logger) *RankingHandler {
	return &RankingHandler{
		engine:   engine,
		registry: registry,
		runs:     runs,
		cache:    cache,
		hub:      hub,
		logger:   log,
	}
}

// Analyze runs the engine over the posted companies
// POST /api/ranking/analyze
func (h *RankingHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ranking.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if len(req.Records) == 0 {
		respondError(w, http.StatusBadRequest, contracts.ErrEmptyUniverse.Error())
		return
	}
	if len(req.Records) > maxAnalyzeRecords {
		respondError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("at most %d companies per request", maxAnalyzeRecords))
		return
	}

	run, err := h.engine.Rank(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, contracts.ErrUnknownPhilosophy),
			errors.Is(err, contracts.ErrInvalidWeights):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			var vErr *contracts.ValidationError
			if errors.As(err, &vErr) {
				respondError(w, http.StatusBadRequest, err.Error())
				return
			}
			h.logger.WithError(err).Error("Ranking run failed")
			respondError(w, http.StatusInternalServerError, "ranking failed")
		}
		return
	}

	// The engine output is deterministic; the timestamp belongs to this
	// serving of the run, not to its content
	run.GeneratedAt = time.Now().UTC()
	h.persistAndNotify(run)
	respondJSON(w, http.StatusOK, run)
}

// persistAndNotify saves the run and broadcasts the completion event. Both
// are best-effort; the caller already has the full run in the response.
func (h *RankingHandler) persistAndNotify(run *contracts.RankingRun) {
	if h.runs != nil {
		// Detached from the request context so a client disconnect after
		// receiving the response does not lose the snapshot
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := h.runs.SaveRun(ctx, run); err != nil {
			h.logger.WithError(err).Warn("Failed to persist ranking run")
		} else if h.cache != nil {
			h.cache.Delete(ctx, redis.LatestRunKey(run.Philosophy))
		}
	}
	if h.hub != nil {
		h.hub.NotifyRunCompleted(run)
	}
}

// Philosophies lists the registered profiles
// GET /api/ranking/philosophies
func (h *RankingHandler) Philosophies(w http.ResponseWriter, r *http.Request) {
	type entry struct {
		Name        string             `json:"name"`
		Description string             `json:"description"`
		Weights     map[string]float64 `json:"weights"`
		ConfigHash  string             `json:"configHash"`
	}

	var out []entry
	fetch := func() (interface{}, error) {
		profiles := h.registry.List()
		entries := make([]entry, 0, len(profiles))
		for _, p := range profiles {
			entries = append(entries, entry{
				Name:        p.Name,
				Description: p.Description,
				Weights:     p.Weights,
				ConfigHash:  h.registry.HashFor(p.Name),
			})
		}
		return entries, nil
	}

	if h.cache != nil {
		if err := h.cache.GetOrSet(r.Context(), redis.PhilosophiesKey(), &out, redis.TTLLong, fetch); err == nil {
			respondJSON(w, http.StatusOK, map[string]interface{}{"philosophies": out})
			return
		}
	}
	v, _ := fetch()
	respondJSON(w, http.StatusOK, map[string]interface{}{"philosophies": v})
}

// Latest returns the newest persisted run for a philosophy
// GET /api/ranking/latest?philosophy=buffett
func (h *RankingHandler) Latest(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		respondError(w, http.StatusNotFound, "run persistence is disabled")
		return
	}

	name := r.URL.Query().Get("philosophy")
	if name == "" {
		name = "buffett"
	}

	run, err := h.latestRun(r, name)
	if err != nil {
		if errors.Is(err, contracts.ErrRunNotFound) {
			respondError(w, http.StatusNotFound, "no runs recorded for "+name)
			return
		}
		h.logger.WithError(err).Error("Failed to load latest run")
		respondError(w, http.StatusInternalServerError, "failed to load latest run")
		return
	}

	respondJSON(w, http.StatusOK, run)
}

func (h *RankingHandler) latestRun(r *http.Request, philosophyName string) (*contracts.RankingRun, error) {
	ctx := r.Context()
	if h.cache != nil {
		var run contracts.RankingRun
		err := h.cache.GetOrSet(ctx, redis.LatestRunKey(philosophyName), &run, redis.TTLMedium, func() (interface{}, error) {
			return h.runs.LatestRun(ctx, philosophyName)
		})
		if err != nil {
			return nil, err
		}
		return &run, nil
	}
	return h.runs.LatestRun(ctx, philosophyName)
}

// GetRun returns one persisted run by ID
// GET /api/ranking/runs/{id}
func (h *RankingHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		respondError(w, http.StatusNotFound, "run persistence is disabled")
		return
	}

	id := mux.Vars(r)["id"]
	run, err := h.runs.GetRun(r.Context(), id)
	if err != nil {
		if errors.Is(err, contracts.ErrRunNotFound) {
			respondError(w, http.StatusNotFound, "run not found")
			return
		}
		h.logger.WithError(err).Error("Failed to load run")
		respondError(w, http.StatusInternalServerError, "failed to load run")
		return
	}

	respondJSON(w, http.StatusOK, run)
}

// Export streams the latest run for a philosophy as CSV
// GET /api/ranking/export?philosophy=buffett
func (h *RankingHandler) Export(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		respondError(w, http.StatusNotFound, "run persistence is disabled")
		return
	}

	name := r.URL.Query().Get("philosophy")
	if name == "" {
		name = "buffett"
	}

	run, err := h.latestRun(r, name)
	if err != nil {
		if errors.Is(err, contracts.ErrRunNotFound) {
			respondError(w, http.StatusNotFound, "no runs recorded for "+name)
			return
		}
		h.logger.WithError(err).Error("Failed to load run for export")
		respondError(w, http.StatusInternalServerError, "failed to load run")
		return
	}

	filename := fmt.Sprintf("fundrank_%s_%s.csv", run.Philosophy, run.GeneratedAt.Format("20060102"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := export.WriteCSV(w, run); err != nil {
		h.logger.WithError(err).Error("CSV export failed mid-stream")
	}
}
