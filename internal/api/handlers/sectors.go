package handlers

import (
	"net/http"

	"github.com/niveshlab/fundrank/backend/internal/sector"
	"github.com/niveshlab/fundrank/backend/pkg/logger"
	"github.com/niveshlab/fundrank/backend/pkg/redis"
)

// SectorHandler serves the sector benchmark catalogue.
type SectorHandler struct {
	table  *sector.Table
	cache  *redis.Cache
	logger *logger.Logger
}

// NewSectorHandler creates a new sector handler
func NewSectorHandler(table *sector.Table, cache *redis.Cache, log *logger.Logger) *SectorHandler {
	return &SectorHandler{table: table, cache: cache, logger: log}
}

type sectorEntry struct {
	Sector        string  `json:"sector"`
	Name          string  `json:"name"`
	ROEMedian     float64 `json:"roeMedian"`
	ROCEMedian    float64 `json:"roceMedian,omitempty"`
	DebtNorm      float64 `json:"debtNorm"`
	OPMNorm       float64 `json:"opmNorm"`
	AdjustmentCap float64 `json:"adjustmentCap"`
}

// List returns every sector with its peer benchmarks
// GET /api/sectors
func (h *SectorHandler) List(w http.ResponseWriter, r *http.Request) {
	fetch := func() (interface{}, error) {
		benchmarks := h.table.Benchmarks()
		entries := make([]sectorEntry, 0, len(benchmarks))
		for _, s := range sector.All {
			b := benchmarks[s]
			entries = append(entries, sectorEntry{
				Sector:        string(s),
				Name:          b.Name,
				ROEMedian:     b.ROEMedian,
				ROCEMedian:    b.ROCEMedian,
				DebtNorm:      b.DebtNorm,
				OPMNorm:       b.OPMNorm,
				AdjustmentCap: b.AdjustmentCap,
			})
		}
		return entries, nil
	}

	var out []sectorEntry
	if h.cache != nil {
		if err := h.cache.GetOrSet(r.Context(), redis.SectorsKey(), &out, redis.TTLLong, fetch); err == nil {
			respondJSON(w, http.StatusOK, map[string]interface{}{"sectors": out})
			return
		}
	}
	v, _ := fetch()
	respondJSON(w, http.StatusOK, map[string]interface{}{"sectors": v})
}
