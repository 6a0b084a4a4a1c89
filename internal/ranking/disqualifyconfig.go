package ranking

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/niveshlab/fundrank/backend/internal/contracts"
)

// LoadDisqualifyConfig reads disqualification threshold overrides from a YAML
// file. Fields not present in the file keep their defaults; unknown fields
// fail the load.
func LoadDisqualifyConfig(path string) (DisqualifyConfig, error) {
	cfg := DefaultDisqualifyConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read disqualify file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return DefaultDisqualifyConfig(), fmt.Errorf("failed to parse disqualify file: %w", err)
	}

	if err := validateDisqualifyConfig(cfg); err != nil {
		return DefaultDisqualifyConfig(), err
	}
	return cfg, nil
}

func validateDisqualifyConfig(cfg DisqualifyConfig) error {
	if cfg.MassiveCashBurnFCF >= 0 {
		return &contracts.ValidationError{Field: "massiveCashBurnFcf", Message: "must be negative"}
	}
	if cfg.SpeculativePE <= 0 {
		return &contracts.ValidationError{Field: "speculativePe", Message: "must be positive"}
	}
	if cfg.DataErrorPE <= cfg.SpeculativePE {
		return &contracts.ValidationError{Field: "dataErrorPe", Message: "must exceed speculativePe"}
	}
	if cfg.BankruptcyFCF >= 0 {
		return &contracts.ValidationError{Field: "bankruptcyFcf", Message: "must be negative"}
	}
	if cfg.BankruptcyDebt <= 0 {
		return &contracts.ValidationError{Field: "bankruptcyDebtToEquity", Message: "must be positive"}
	}
	if cfg.MinimalFCF <= 0 {
		return &contracts.ValidationError{Field: "minimalFcf", Message: "must be positive"}
	}
	if cfg.MinimalMarketCap <= 0 {
		return &contracts.ValidationError{Field: "minimalMarketCap", Message: "must be positive"}
	}
	if cfg.MinimalFCFYield <= 0 || cfg.MinimalFCFYield >= 1 {
		return &contracts.ValidationError{Field: "minimalFcfYield", Message: "must be in (0, 1)"}
	}
	if cfg.ExtremeReturn <= 0 {
		return &contracts.ValidationError{Field: "extremeReturn", Message: "must be positive"}
	}
	return nil
}
