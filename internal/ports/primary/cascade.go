package primary

import "context"

// CascadeService defines the primary port for schedule recalculation after a
// supply delay.
type CascadeService interface {
	// Recalculate shifts every schedule item downstream of the delayed
	// material and fires the cascade notification. On a dependency cycle it
	// aborts without applying shifts and returns a distinct error.
	Recalculate(ctx context.Context, req RecalculateRequest) (*RecalculateResult, error)
}

// RecalculateRequest contains parameters for a cascade recalculation.
type RecalculateRequest struct {
	ObjectID  int64
	Material  string
	DelayDays int
}

// RecalculateResult contains the applied shifts.
type RecalculateResult struct {
	AffectedTasks int
	Shifts        []ShiftSummary
}

// ShiftSummary describes one applied schedule shift at the port boundary.
type ShiftSummary struct {
	ItemID   int64
	Title    string
	OldStart string
	NewStart string
	OldEnd   string
	NewEnd   string
}
