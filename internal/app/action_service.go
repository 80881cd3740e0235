package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/brigadir/internal/core/event"
	"github.com/example/brigadir/internal/models"
	"github.com/example/brigadir/internal/ports/primary"
	"github.com/example/brigadir/internal/ports/secondary"
)

// ActionServiceImpl implements the ActionService interface.
type ActionServiceImpl struct {
	notifications secondary.NotificationRepository
	audit         secondary.AuditWriter
	trigger       primary.TriggerService
	logger        *zap.Logger
}

// NewActionService creates a new ActionService with injected dependencies.
func NewActionService(
	notifications secondary.NotificationRepository,
	audit secondary.AuditWriter,
	trigger primary.TriggerService,
	logger *zap.Logger,
) *ActionServiceImpl {
	return &ActionServiceImpl{
		notifications: notifications,
		audit:         audit,
		trigger:       trigger,
		logger:        logger,
	}
}

// HandleAction records the recipient's inline choice. Acting marks the
// notification read, which stops its escalation clock; a stale button press
// on an already-resolved notification is reported as not applied, not as an
// error.
func (s *ActionServiceImpl) HandleAction(ctx context.Context, req primary.ActionRequest) (*primary.ActionResult, error) {
	n, err := s.notifications.GetByID(ctx, req.NotificationID)
	if err != nil {
		return nil, fmt.Errorf("notification not found: %w", err)
	}
	if n.RecipientID != req.RecipientID {
		return nil, fmt.Errorf("notification %s does not belong to user %d", req.NotificationID, req.RecipientID)
	}
	if !validAction(n, req.ActionKey) {
		return nil, fmt.Errorf("action %q is not offered by notification %s", req.ActionKey, req.NotificationID)
	}

	applied, err := s.notifications.MarkActioned(ctx, req.NotificationID, req.RecipientID, req.ActionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to record action: %w", err)
	}
	if !applied {
		return &primary.ActionResult{Applied: false}, nil
	}

	if err := s.audit.LogAction(ctx, req.NotificationID, req.ActionKey); err != nil {
		s.logger.Error("failed to audit action", zap.Error(err))
	}

	result := &primary.ActionResult{Applied: true}
	if kind, evt := s.followUp(n, req); kind != "" {
		if _, err := s.trigger.Fire(ctx, primary.FireRequest{Kind: kind, Context: evt}); err != nil {
			s.logger.Error("failed to fire follow-up event",
				zap.String("kind", string(kind)), zap.Error(err))
		} else {
			result.FollowUpEvent = string(kind)
		}
	}
	return result, nil
}

func validAction(n *models.Notification, key string) bool {
	for _, a := range n.Actions {
		if a.Key == key {
			return true
		}
	}
	return false
}

// followUp maps certain actions to events of their own. Confirming a
// shipment arrival is the one flow that closes inside the engine; the other
// buttons resolve through the task and supply endpoints.
func (s *ActionServiceImpl) followUp(n *models.Notification, req primary.ActionRequest) (event.Kind, event.Context) {
	if n.Type == event.MaterialShipped.NotificationType() && req.ActionKey == "received" {
		evt := event.Context{
			event.KeyTriggeredByID: req.RecipientID,
		}
		if n.ObjectID.Valid {
			evt[event.KeyObjectID] = n.ObjectID.Int64
		}
		if n.ObjectName.Valid {
			evt[event.KeyObjectName] = n.ObjectName.String
		}
		if n.EntityType.Valid {
			evt[event.KeyEntityType] = n.EntityType.String
		}
		if n.EntityID.Valid {
			evt[event.KeyEntityID] = n.EntityID.Int64
		}
		return event.MaterialReceived, evt
	}
	return "", nil
}

// Ensure ActionServiceImpl implements the interface
var _ primary.ActionService = (*ActionServiceImpl)(nil)
