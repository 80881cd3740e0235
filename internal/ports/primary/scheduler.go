package primary

import (
	"context"
	"time"
)

// SchedulerService defines the primary port for the periodic tick.
type SchedulerService interface {
	// Tick runs every scheduled check whose time window matches now. Each
	// check is isolated: one failing check never prevents the others.
	Tick(ctx context.Context, now time.Time) (*TickResult, error)
}

// TickResult reports which checks ran during one tick.
type TickResult struct {
	Ran    []string
	Failed []string
}
