package primary

import "context"

// EscalationService defines the primary port for escalation sweeps.
type EscalationService interface {
	// CheckPending sweeps unread notifications and escalates every one whose
	// timing threshold has passed, one level per sweep.
	CheckPending(ctx context.Context) (*SweepResult, error)

	// CheckEveningDeadline applies the wall-clock evening rule to pending
	// plan-fact requests regardless of elapsed time.
	CheckEveningDeadline(ctx context.Context) (*SweepResult, error)

	// ListEscalated lists notifications at or above the given level.
	ListEscalated(ctx context.Context, minLevel int) ([]*EscalatedNotification, error)
}

// SweepResult summarizes one escalation sweep.
type SweepResult struct {
	Examined  int
	Escalated int
	Skipped   int // lost the conditional update race or resolved mid-sweep
}

// EscalatedNotification is the listing shape for escalated notifications.
type EscalatedNotification struct {
	ID              string
	RecipientID     int64
	Type            string
	Title           string
	EscalationLevel int
	CreatedAt       string
	HoursElapsed    float64
}
