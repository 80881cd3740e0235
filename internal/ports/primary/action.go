package primary

import "context"

// ActionService defines the primary port for inline notification actions.
type ActionService interface {
	// HandleAction records the user's choice on an actionable notification
	// and fires any follow-up event the action implies. Acting marks the
	// notification read, which also stops its escalation clock.
	HandleAction(ctx context.Context, req ActionRequest) (*ActionResult, error)
}

// ActionRequest contains parameters for acting on a notification.
type ActionRequest struct {
	NotificationID string
	RecipientID    int64
	ActionKey      string
}

// ActionResult contains the outcome of handling an action.
type ActionResult struct {
	Applied       bool   // false when already read or actioned
	FollowUpEvent string // kind of the event the action fired, if any
}
