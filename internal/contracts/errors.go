package contracts

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the engine and the philosophy registry.
var (
	ErrUnknownPhilosophy = errors.New("unknown philosophy")
	ErrInvalidWeights    = errors.New("philosophy weights must sum to 1.0")
	ErrEmptyUniverse     = errors.New("no scoreable companies in input")
	ErrRunNotFound       = errors.New("ranking run not found")
)

// ValidationError describes a single invalid field in a configuration file or
// request payload.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// MalformedRecordError marks an input row that cannot enter the pipeline,
// for example a missing symbol. The row index refers to the request order.
type MalformedRecordError struct {
	Index  int
	Symbol string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("malformed record %q at index %d: %s", e.Symbol, e.Index, e.Reason)
	}
	return fmt.Sprintf("malformed record at index %d: %s", e.Index, e.Reason)
}
