package scoringdb

import "errors"

// Sentinel errors for the repository layer. These are infrastructure-level
// signals; the service layer decides whether they are domain failures.
var (
	// ErrNotFound indicates the requested score or stage does not exist.
	ErrNotFound = errors.New("score not found")

	// ErrStageNotFound indicates the referenced stage does not exist.
	ErrStageNotFound = errors.New("stage not found")
)
