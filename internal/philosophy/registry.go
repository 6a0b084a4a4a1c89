package philosophy

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/niveshlab/fundrank/backend/internal/contracts"
	"github.com/niveshlab/fundrank/backend/pkg/logger"
)

// Registry holds the active set of philosophy profiles. Reads are lock-free
// hot-path lookups; Reload swaps the whole table atomically.
type Registry struct {
	mu       sync.RWMutex
	profiles map[string]Profile
	hashes   map[string]string
	log      *logger.Logger
}

// NewRegistry builds a registry seeded with the built-in profiles.
func NewRegistry(log *logger.Logger) *Registry {
	r := &Registry{log: log}
	r.swap(builtins())
	return r
}

// NewRegistryFromFile seeds the built-ins then overlays profiles from path.
// A file profile with a built-in name replaces the built-in.
func NewRegistryFromFile(path string, log *logger.Logger) (*Registry, error) {
	r := NewRegistry(log)
	if path == "" {
		return r, nil
	}
	if err := r.Reload(path); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-reads the overlay file and swaps the profile table. On any error
// the previous table stays active.
func (r *Registry) Reload(path string) error {
	overlay, err := LoadFile(path)
	if err != nil {
		return fmt.Errorf("failed to load philosophy file: %w", err)
	}

	merged := builtins()
	byName := make(map[string]int, len(merged))
	for i, p := range merged {
		byName[p.Name] = i
	}
	for _, p := range overlay {
		if i, ok := byName[strings.ToLower(p.Name)]; ok {
			merged[i] = p
			continue
		}
		merged = append(merged, p)
	}

	r.swap(merged)
	r.log.WithFields(map[string]interface{}{
		"path":     path,
		"profiles": len(merged),
	}).Info("Philosophy profiles reloaded")
	return nil
}

func (r *Registry) swap(profiles []Profile) {
	table := make(map[string]Profile, len(profiles))
	hashes := make(map[string]string, len(profiles))
	for _, p := range profiles {
		key := strings.ToLower(p.Name)
		table[key] = p
		if h, err := Hash(&p); err == nil {
			hashes[key] = h
		}
	}

	r.mu.Lock()
	r.profiles = table
	r.hashes = hashes
	r.mu.Unlock()
}

// Get returns the profile for a name. Lookup is case-insensitive.
func (r *Registry) Get(name string) (Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[strings.ToLower(name)]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", contracts.ErrUnknownPhilosophy, name)
	}
	return p, nil
}

// HashFor returns the config hash recorded for a named profile.
func (r *Registry) HashFor(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.hashes[strings.ToLower(name)]
}

// List returns all registered profiles sorted by name.
func (r *Registry) List() []Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Resolve returns either a registered profile or, when custom weights are
// supplied, a validated ad-hoc profile that never enters the registry.
func (r *Registry) Resolve(name string, customWeights map[string]float64) (Profile, error) {
	if len(customWeights) > 0 {
		p := Profile{
			Name:        "custom",
			Description: "request-scoped custom weights",
			Weights:     customWeights,
		}
		if err := Validate(&p); err != nil {
			return Profile{}, err
		}
		return p, nil
	}
	return r.Get(name)
}
