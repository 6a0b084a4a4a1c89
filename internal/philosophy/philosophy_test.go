package philosophy

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/niveshlab/fundrank/backend/internal/contracts"
	"github.com/niveshlab/fundrank/backend/pkg/logger"
)

func TestBuiltinsAllValid(t *testing.T) {
	profiles := builtins()
	if len(profiles) != 6 {
		t.Fatalf("builtins = %d profiles, want 6", len(profiles))
	}
	for _, p := range profiles {
		if err := Validate(&p); err != nil {
			t.Errorf("builtin %s invalid: %v", p.Name, err)
		}
	}
}

func TestBuiltinWeightTables(t *testing.T) {
	byName := make(map[string]Profile)
	for _, p := range builtins() {
		byName[p.Name] = p
	}

	// Spot checks on the growth-style profiles, which lean on EPS momentum
	if got := byName["lynch"].Weights[MetricPEG]; got != 0.25 {
		t.Errorf("lynch peg weight = %.2f, want 0.25", got)
	}
	if got := byName["lynch"].Weights[MetricEPSGrowth3Y]; got != 0.15 {
		t.Errorf("lynch eps growth weight = %.2f, want 0.15", got)
	}
	if got := byName["growth"].Weights[MetricEPSGrowth3Y]; got != 0.15 {
		t.Errorf("growth eps growth weight = %.2f, want 0.15", got)
	}
	if got := byName["buffett"].Weights[MetricFCF]; got != 0.28 {
		t.Errorf("buffett fcf weight = %.2f, want 0.28", got)
	}
	if got := byName["value"].Weights[MetricPERatio]; got != 0.28 {
		t.Errorf("value pe weight = %.2f, want 0.28", got)
	}
	if got := byName["dividend"].Weights[MetricDividendYield]; got != 0.28 {
		t.Errorf("dividend yield weight = %.2f, want 0.28", got)
	}
	if got := byName["quality"].Weights[MetricFCF]; got != 0.30 {
		t.Errorf("quality fcf weight = %.2f, want 0.30", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		wantErr bool
		sumErr  bool
	}{
		{
			"valid",
			Profile{Name: "test", Weights: map[string]float64{"roe": 0.6, "fcf": 0.4}},
			false, false,
		},
		{
			"within tolerance",
			Profile{Name: "test", Weights: map[string]float64{"roe": 0.6, "fcf": 0.405}},
			false, false,
		},
		{
			"sum too low",
			Profile{Name: "test", Weights: map[string]float64{"roe": 0.5, "fcf": 0.2}},
			true, true,
		},
		{
			"sum too high",
			Profile{Name: "test", Weights: map[string]float64{"roe": 0.8, "fcf": 0.4}},
			true, true,
		},
		{
			"unknown metric",
			Profile{Name: "test", Weights: map[string]float64{"momentum": 1.0}},
			true, false,
		},
		{
			"negative weight",
			Profile{Name: "test", Weights: map[string]float64{"roe": 1.5, "fcf": -0.5}},
			true, false,
		},
		{
			"missing name",
			Profile{Weights: map[string]float64{"roe": 1.0}},
			true, false,
		},
		{
			"no weights",
			Profile{Name: "test"},
			true, false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.profile)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.sumErr && !errors.Is(err, contracts.ErrInvalidWeights) {
				t.Errorf("err = %v, want ErrInvalidWeights", err)
			}
		})
	}
}

func TestHashDeterministic(t *testing.T) {
	a := Profile{Name: "test", Weights: map[string]float64{"roe": 0.5, "fcf": 0.3, "opm": 0.2}}
	b := Profile{Name: "test", Weights: map[string]float64{"opm": 0.2, "fcf": 0.3, "roe": 0.5}}

	ha, err := Hash(&a)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	hb, err := Hash(&b)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if ha != hb {
		t.Error("hash must not depend on map insertion order")
	}

	c := Profile{Name: "test", Weights: map[string]float64{"roe": 0.5, "fcf": 0.3, "opm": 0.1, "peg": 0.1}}
	hc, err := Hash(&c)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hc == ha {
		t.Error("different weights must hash differently")
	}
}

func TestWeightedMetricsSorted(t *testing.T) {
	p := Profile{Name: "test", Weights: map[string]float64{
		"roe": 0.5, "fcf": 0.3, "opm": 0.2, "peg": 0,
	}}
	got := p.WeightedMetrics()
	want := []string{"fcf", "opm", "roe"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("WeightedMetrics = %v, want %v", got, want)
	}
}

func TestRegistryGet(t *testing.T) {
	r := NewRegistry(&logger.Logger{})

	for _, name := range []string{"buffett", "Buffett", "BUFFETT"} {
		p, err := r.Get(name)
		if err != nil {
			t.Fatalf("Get(%s): %v", name, err)
		}
		if p.Name != "buffett" {
			t.Errorf("Get(%s).Name = %s", name, p.Name)
		}
	}

	_, err := r.Get("momentum")
	if !errors.Is(err, contracts.ErrUnknownPhilosophy) {
		t.Errorf("err = %v, want ErrUnknownPhilosophy", err)
	}
}

func TestRegistryList(t *testing.T) {
	r := NewRegistry(&logger.Logger{})
	list := r.List()
	if len(list) != 6 {
		t.Fatalf("List = %d profiles, want 6", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].Name >= list[i].Name {
			t.Fatalf("List not sorted: %s before %s", list[i-1].Name, list[i].Name)
		}
	}
}

func TestRegistryResolve(t *testing.T) {
	r := NewRegistry(&logger.Logger{})

	p, err := r.Resolve("lynch", nil)
	if err != nil || p.Name != "lynch" {
		t.Fatalf("Resolve(lynch) = %v, %v", p.Name, err)
	}

	p, err = r.Resolve("", map[string]float64{"roe": 0.7, "fcf": 0.3})
	if err != nil {
		t.Fatalf("Resolve custom: %v", err)
	}
	if p.Name != "custom" {
		t.Errorf("custom profile name = %s", p.Name)
	}

	// Custom weights win over the named philosophy
	p, err = r.Resolve("buffett", map[string]float64{"roe": 1.0})
	if err != nil || p.Name != "custom" {
		t.Fatalf("Resolve with both = %v, %v", p.Name, err)
	}

	_, err = r.Resolve("buffett", map[string]float64{"roe": 0.4})
	if !errors.Is(err, contracts.ErrInvalidWeights) {
		t.Errorf("err = %v, want ErrInvalidWeights", err)
	}
}

func TestRegistryReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "philosophies.yaml")
	content := `philosophies:
  - name: contrarian
    description: Out of favour cash generators
    weights:
      fcf: 0.4
      peRatio: 0.3
      debtToEquity: 0.3
  - name: buffett
    description: Overridden
    weights:
      roe: 1.0
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	r, err := NewRegistryFromFile(path, &logger.Logger{})
	if err != nil {
		t.Fatalf("NewRegistryFromFile: %v", err)
	}

	p, err := r.Get("contrarian")
	if err != nil {
		t.Fatalf("Get(contrarian): %v", err)
	}
	if p.Weights["fcf"] != 0.4 {
		t.Errorf("contrarian fcf weight = %v", p.Weights["fcf"])
	}

	// Built-in overridden by the file
	p, err = r.Get("buffett")
	if err != nil {
		t.Fatalf("Get(buffett): %v", err)
	}
	if p.Weights["roe"] != 1.0 || len(p.Weights) != 1 {
		t.Errorf("buffett not overridden: %v", p.Weights)
	}

	if len(r.List()) != 7 {
		t.Errorf("List = %d profiles, want 7", len(r.List()))
	}
}

func TestRegistryReloadRejectsBadFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"unknown top-level key", "philosophy:\n  - name: x\n"},
		{"bad weight sum", "philosophies:\n  - name: x\n    weights:\n      roe: 0.2\n"},
		{"unknown metric", "philosophies:\n  - name: x\n    weights:\n      ebitda: 1.0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}

			r := NewRegistry(&logger.Logger{})
			if err := r.Reload(path); err == nil {
				t.Fatal("expected reload error")
			}
			// Previous table stays active
			if _, err := r.Get("buffett"); err != nil {
				t.Errorf("built-ins lost after failed reload: %v", err)
			}
		})
	}
}
