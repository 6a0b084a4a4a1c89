package philosophy

import (
	"fmt"
	"math"

	"github.com/niveshlab/fundrank/backend/internal/contracts"
)

// weightSumTolerance is how far the weight sum may drift from 1.0 before the
// profile is rejected.
const weightSumTolerance = 0.01

// Validate checks a profile's name, metric names and weight sum.
func Validate(p *Profile) error {
	if p.Name == "" {
		return &contracts.ValidationError{Field: "name", Message: "required"}
	}
	if len(p.Weights) == 0 {
		return &contracts.ValidationError{Field: "weights", Message: "at least one metric weight required"}
	}

	sum := 0.0
	for name, w := range p.Weights {
		if !KnownMetrics[name] {
			return &contracts.ValidationError{
				Field:   "weights." + name,
				Message: "unknown metric",
			}
		}
		if w < 0 {
			return &contracts.ValidationError{
				Field:   "weights." + name,
				Message: "must be >= 0",
			}
		}
		sum += w
	}

	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: got %.4f", contracts.ErrInvalidWeights, sum)
	}

	return nil
}
