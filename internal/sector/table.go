package sector

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/niveshlab/fundrank/backend/internal/contracts"
	"github.com/niveshlab/fundrank/backend/pkg/logger"
)

// Table is the active benchmark set. Lookups never mutate; Reload swaps the
// whole map so in-flight scoring keeps a consistent view.
type Table struct {
	mu         sync.RWMutex
	benchmarks map[Sector]Benchmark
	log        *logger.Logger
}

// NewTable builds a table seeded with the default benchmarks, optionally
// overlaid from a YAML file.
func NewTable(path string, log *logger.Logger) (*Table, error) {
	t := &Table{benchmarks: defaultBenchmarks(), log: log}
	if path == "" {
		return t, nil
	}
	if err := t.Reload(path); err != nil {
		return nil, err
	}
	return t, nil
}

type fileSchema struct {
	Sectors map[string]Benchmark `yaml:"sectors"`
}

// Reload overlays benchmarks from a YAML file onto the defaults. Keys outside
// the closed sector set fail validation; the previous table stays active on
// any error.
func (t *Table) Reload(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read sector file: %w", err)
	}

	var f fileSchema
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return fmt.Errorf("failed to parse sector file: %w", err)
	}

	merged := defaultBenchmarks()
	for key, b := range f.Sectors {
		s := Parse(key)
		if s == Unknown && key != string(Unknown) {
			return &contracts.ValidationError{
				Field:   "sectors." + key,
				Message: "not a recognised sector",
			}
		}
		if b.AdjustmentCap < 0 || b.AdjustmentCap > 0.5 {
			return &contracts.ValidationError{
				Field:   "sectors." + key + ".adjustmentCap",
				Message: "must be in [0, 0.5]",
			}
		}
		merged[s] = b
	}

	t.mu.Lock()
	t.benchmarks = merged
	t.mu.Unlock()

	t.log.WithField("path", path).Info("Sector benchmarks reloaded")
	return nil
}

// Benchmark returns the benchmark for a sector.
func (t *Table) Benchmark(s Sector) Benchmark {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.benchmarks[s]
}

// Benchmarks returns a copy of the full table keyed by sector, for the
// sectors API endpoint.
func (t *Table) Benchmarks() map[Sector]Benchmark {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[Sector]Benchmark, len(t.benchmarks))
	for s, b := range t.benchmarks {
		out[s] = b
	}
	return out
}
