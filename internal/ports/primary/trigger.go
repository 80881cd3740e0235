// Package primary defines the primary ports (driving adapters) for the
// application. CLI commands and the scheduler call through these interfaces.
package primary

import (
	"context"

	"github.com/example/brigadir/internal/core/event"
)

// TriggerService defines the primary port for firing domain events.
type TriggerService interface {
	// Fire routes one event through templates, recipients and side effects.
	// Unknown kinds and kinds without a template are logged no-ops, not
	// errors; the returned result says what actually happened.
	Fire(ctx context.Context, req FireRequest) (*FireResult, error)
}

// FireRequest contains parameters for firing an event.
type FireRequest struct {
	Kind    event.Kind
	Context event.Context
}

// FireResult contains the outcome of a fire.
type FireResult struct {
	NotificationIDs []string
	Recipients      []int64
	PushFailures    int
	PersistFailures int    // recipients whose notification could not be stored
	Skipped         bool   // unknown kind or no template registered
	SkipReason      string // set when Skipped
}
