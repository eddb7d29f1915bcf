// Package extraction turns approved sources into typed project items
// through a completion-model call. Parsing and validation are
// deliberately tolerant: a malformed element is dropped, never the
// whole batch.
package extraction

import "github.com/soubim/decisiond/internal/core/domain"

// Outcome classifies an extraction attempt. Callers branch on this
// rather than on error inspection.
type Outcome int

const (
	// OutcomeSuccess means at least one item was extracted and validated.
	OutcomeSuccess Outcome = iota
	// OutcomeEmpty means extraction ran cleanly but produced no items.
	OutcomeEmpty
	// OutcomeFailure means the remote call or response parse failed.
	// The source must stay eligible for another attempt.
	OutcomeFailure
)

// String returns the metric label for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeEmpty:
		return "empty"
	default:
		return "failure"
	}
}

// Result is the product of one extraction attempt.
type Result struct {
	Outcome Outcome
	Items   []domain.ProjectItem

	// Err carries the cause when Outcome is OutcomeFailure.
	Err error
}
