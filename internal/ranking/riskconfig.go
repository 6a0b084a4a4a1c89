package ranking

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/niveshlab/fundrank/backend/internal/contracts"
)

// LoadRiskConfig reads penalty weight overrides from a YAML file. Fields not
// present in the file keep their defaults; unknown fields fail the load.
func LoadRiskConfig(path string) (RiskConfig, error) {
	cfg := DefaultRiskConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read risk file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return DefaultRiskConfig(), fmt.Errorf("failed to parse risk file: %w", err)
	}

	if err := validateRiskConfig(cfg); err != nil {
		return DefaultRiskConfig(), err
	}
	return cfg, nil
}

func validateRiskConfig(cfg RiskConfig) error {
	weights := map[string]float64{
		"negativeFcf":           cfg.NegativeFCF,
		"negativeFcfFinancial":  cfg.NegativeFCFFinancial,
		"highPe":                cfg.HighPE,
		"moderatePe":            cfg.ModeratePE,
		"highDebt":              cfg.HighDebt,
		"elevatedDebt":          cfg.ElevatedDebt,
		"highDebtFinancial":     cfg.HighDebtFinancial,
		"elevatedDebtFinancial": cfg.ElevatedDebtFin,
		"veryLowRoe":            cfg.VeryLowROE,
		"lowRoe":                cfg.LowROE,
		"modestRoe":             cfg.ModestROE,
		"lowRoce":               cfg.LowROCE,
		"modestRoce":            cfg.ModestROCE,
		"highPeg":               cfg.HighPEG,
		"lowFcfRelative":        cfg.LowFCFRelative,
		"weakCompounder":        cfg.WeakCompounder,
		"weakCompounderSoft":    cfg.WeakCompounderSoft,
		"extremeSwing":          cfg.ExtremeSwing,
		"largeSwing":            cfg.LargeSwing,
		"compoundPerFlag":       cfg.CompoundPerFlag,
	}
	for field, w := range weights {
		if w < 0 || w > 1 {
			return &contracts.ValidationError{Field: field, Message: "must be in [0, 1]"}
		}
	}
	if cfg.TotalCap <= 0 || cfg.TotalCap > 1 {
		return &contracts.ValidationError{Field: "totalCap", Message: "must be in (0, 1]"}
	}
	return nil
}
