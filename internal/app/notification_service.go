package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/brigadir/internal/models"
	"github.com/example/brigadir/internal/ports/primary"
	"github.com/example/brigadir/internal/ports/secondary"
)

// NotificationServiceImpl implements the NotificationService interface.
type NotificationServiceImpl struct {
	notifications secondary.NotificationRepository
}

// NewNotificationService creates a new NotificationService with injected dependencies.
func NewNotificationService(notifications secondary.NotificationRepository) *NotificationServiceImpl {
	return &NotificationServiceImpl{notifications: notifications}
}

// ListNotifications retrieves notifications matching the filters, unread
// first, newest first.
func (s *NotificationServiceImpl) ListNotifications(ctx context.Context, filters primary.NotificationFilters) ([]*primary.Notification, error) {
	rows, err := s.notifications.List(ctx, secondary.NotificationFilters{
		RecipientID: filters.RecipientID,
		Category:    filters.Category,
		UnreadOnly:  filters.UnreadOnly,
		ObjectID:    filters.ObjectID,
		Limit:       filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	out := make([]*primary.Notification, len(rows))
	for i, n := range rows {
		out[i] = toPortNotification(n)
	}
	return out, nil
}

// GetNotification retrieves a notification by ID.
func (s *NotificationServiceImpl) GetNotification(ctx context.Context, id string) (*primary.Notification, error) {
	n, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPortNotification(n), nil
}

// UnreadCount returns the number of unread notifications for a recipient.
func (s *NotificationServiceImpl) UnreadCount(ctx context.Context, recipientID int64) (int, error) {
	return s.notifications.CountUnread(ctx, recipientID)
}

// MarkRead marks a notification read, stopping its escalation clock.
func (s *NotificationServiceImpl) MarkRead(ctx context.Context, id string, recipientID int64) (bool, error) {
	return s.notifications.MarkRead(ctx, id, recipientID)
}

func toPortNotification(n *models.Notification) *primary.Notification {
	out := &primary.Notification{
		ID:              n.ID,
		RecipientID:     n.RecipientID,
		Type:            n.Type,
		Priority:        n.Priority,
		Category:        n.Category,
		Title:           n.Title,
		Body:            n.Body,
		IsRead:          n.IsRead,
		IsActionable:    n.IsActionable,
		EscalationLevel: n.EscalationLevel,
		CreatedAt:       n.CreatedAt.Format(time.RFC3339),
	}
	if n.ObjectID.Valid {
		out.ObjectID = n.ObjectID.Int64
	}
	if n.ObjectName.Valid {
		out.ObjectName = n.ObjectName.String
	}
	if n.DeepLink.Valid {
		out.DeepLink = n.DeepLink.String
	}
	if n.TriggeredBy.Valid {
		out.TriggeredBy = n.TriggeredBy.String
	}
	if n.ExpiresAt.Valid {
		out.ExpiresAt = n.ExpiresAt.Time.Format(time.RFC3339)
	}
	for _, a := range n.Actions {
		out.Actions = append(out.Actions, primary.NotificationAction{Key: a.Key, Label: a.Label, Style: a.Style})
	}
	return out
}

// Ensure NotificationServiceImpl implements the interface
var _ primary.NotificationService = (*NotificationServiceImpl)(nil)
