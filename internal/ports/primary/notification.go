package primary

import "context"

// NotificationService defines the primary port for reading and resolving
// notifications.
type NotificationService interface {
	// ListNotifications retrieves notifications matching the filters, newest
	// first.
	ListNotifications(ctx context.Context, filters NotificationFilters) ([]*Notification, error)

	// GetNotification retrieves a notification by ID.
	GetNotification(ctx context.Context, id string) (*Notification, error)

	// UnreadCount returns the number of unread notifications for a recipient.
	UnreadCount(ctx context.Context, recipientID int64) (int, error)

	// MarkRead marks a notification read, stopping its escalation clock.
	// Returns false when it was already read.
	MarkRead(ctx context.Context, id string, recipientID int64) (bool, error)
}

// Notification represents a notification entity at the port boundary.
type Notification struct {
	ID              string
	RecipientID     int64
	Type            string
	Priority        string
	Category        string
	Title           string
	Body            string
	ObjectID        int64 // 0 means none
	ObjectName      string
	IsRead          bool
	IsActionable    bool
	EscalationLevel int
	Actions         []NotificationAction
	DeepLink        string
	TriggeredBy     string
	CreatedAt       string
	ExpiresAt       string // empty means never
}

// NotificationAction is an inline action offered with a notification.
type NotificationAction struct {
	Key   string
	Label string
	Style string
}

// NotificationFilters contains filter options for listing notifications.
type NotificationFilters struct {
	RecipientID int64
	Category    string
	UnreadOnly  bool
	ObjectID    int64
	Limit       int
}
