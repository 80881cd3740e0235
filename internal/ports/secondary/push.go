package secondary

import (
	"context"

	"github.com/example/brigadir/internal/models"
)

// PushChannel defines the secondary port for delivering a notification to a
// recipient's device. Delivery is best effort: the notification row is already
// persisted when Deliver is called, and a failed push must not fail the fire.
type PushChannel interface {
	// Deliver sends the rendered notification to the user's chat.
	Deliver(ctx context.Context, chatID int64, n *models.Notification) error
}
