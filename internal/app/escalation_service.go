package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/brigadir/internal/core/escalation"
	"github.com/example/brigadir/internal/core/event"
	"github.com/example/brigadir/internal/models"
	"github.com/example/brigadir/internal/ports/primary"
	"github.com/example/brigadir/internal/ports/secondary"
)

// EscalationServiceImpl implements the EscalationService interface.
type EscalationServiceImpl struct {
	notifications secondary.NotificationRepository
	directory     secondary.Directory
	audit         secondary.AuditWriter
	trigger       primary.TriggerService
	clock         secondary.Clock
	logger        *zap.Logger
}

// NewEscalationService creates a new EscalationService with injected dependencies.
func NewEscalationService(
	notifications secondary.NotificationRepository,
	directory secondary.Directory,
	audit secondary.AuditWriter,
	trigger primary.TriggerService,
	clock secondary.Clock,
	logger *zap.Logger,
) *EscalationServiceImpl {
	return &EscalationServiceImpl{
		notifications: notifications,
		directory:     directory,
		audit:         audit,
		trigger:       trigger,
		clock:         clock,
		logger:        logger,
	}
}

// CheckPending sweeps unread notifications and escalates each one whose
// threshold has passed. Levels move one step per sweep, always computed
// against the original notification's creation time. The level update is
// conditional in the store, so a notification read or escalated concurrently
// is skipped without a second escalation going out.
func (s *EscalationServiceImpl) CheckPending(ctx context.Context) (*primary.SweepResult, error) {
	pending, err := s.notifications.ListPendingEscalation(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending notifications: %w", err)
	}

	now := s.clock.Now()
	result := &primary.SweepResult{Examined: len(pending)}

	for _, n := range pending {
		rule, ok := escalation.RuleFor(n.Type)
		if !ok {
			continue
		}
		next := escalation.NextLevel(rule, n.CreatedAt, now, n.EscalationLevel)
		if next == 0 {
			continue
		}
		if s.escalate(ctx, n, next, now) {
			result.Escalated++
		} else {
			result.Skipped++
		}
	}

	s.logger.Info("escalation sweep finished",
		zap.Int("examined", result.Examined),
		zap.Int("escalated", result.Escalated),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

// CheckEveningDeadline forces pending plan-fact requests to the director
// level once the evening cutoff has passed, regardless of how recently they
// were created.
func (s *EscalationServiceImpl) CheckEveningDeadline(ctx context.Context) (*primary.SweepResult, error) {
	pending, err := s.notifications.ListPendingEscalation(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending notifications: %w", err)
	}

	now := s.clock.Now()
	result := &primary.SweepResult{}

	for _, n := range pending {
		if n.Type != event.PlanFactRequest.NotificationType() {
			continue
		}
		rule, ok := escalation.RuleFor(n.Type)
		if !ok || rule.EveningCutoffHour == 0 {
			continue
		}
		result.Examined++
		if escalation.NextLevel(rule, n.CreatedAt, now, models.EscalationMax-1) != models.EscalationMax {
			continue
		}
		if s.escalate(ctx, n, models.EscalationMax, now) {
			result.Escalated++
		} else {
			result.Skipped++
		}
	}
	return result, nil
}

// escalate applies one level transition: conditional store update first, then
// audit and the escalation notification. Returns false when the update lost
// the race against a read or a concurrent sweep.
func (s *EscalationServiceImpl) escalate(ctx context.Context, n *models.Notification, newLevel int, now time.Time) bool {
	fromLevel := n.EscalationLevel
	applied, err := s.notifications.MarkEscalated(ctx, n.ID, newLevel)
	if err != nil {
		s.logger.Error("failed to mark notification escalated",
			zap.String("notification_id", n.ID), zap.Error(err))
		return false
	}
	if !applied {
		return false
	}

	if err := s.audit.LogEscalation(ctx, n.ID, fromLevel, newLevel); err != nil {
		s.logger.Error("failed to audit escalation", zap.Error(err))
	}

	evt := event.Context{
		"original_title": n.Title,
		"hours":          escalation.HoursElapsed(n.CreatedAt, now),
	}
	if n.EntityType.Valid {
		evt[event.KeyEntityType] = n.EntityType.String
	}
	if n.EntityID.Valid {
		evt[event.KeyEntityID] = n.EntityID.Int64
	}
	if n.ObjectID.Valid {
		evt[event.KeyObjectID] = n.ObjectID.Int64
	}
	if n.ObjectName.Valid {
		evt[event.KeyObjectName] = n.ObjectName.String
	}

	// L1 re-notifies the silent recipient; higher levels route through the
	// recipient's department head and on to the directorate.
	evt[event.KeyAssigneeID] = n.RecipientID
	if user, err := s.directory.GetUser(ctx, n.RecipientID); err == nil && user != nil {
		evt["executor_name"] = user.FullName
		evt[event.KeyDepartment] = user.Role
	}

	if _, err := s.trigger.Fire(ctx, primary.FireRequest{
		Kind:    event.EscalationKind(newLevel),
		Context: evt,
	}); err != nil {
		s.logger.Error("failed to fire escalation notification",
			zap.String("notification_id", n.ID), zap.Error(err))
	}

	s.logger.Info("notification escalated",
		zap.String("notification_id", n.ID),
		zap.Int("from", fromLevel),
		zap.Int("to", newLevel))
	return true
}

// ListEscalated lists notifications at or above the given level.
func (s *EscalationServiceImpl) ListEscalated(ctx context.Context, minLevel int) ([]*primary.EscalatedNotification, error) {
	if minLevel < 1 {
		minLevel = 1
	}
	rows, err := s.notifications.List(ctx, secondary.NotificationFilters{MinEscalation: minLevel})
	if err != nil {
		return nil, fmt.Errorf("failed to list escalated notifications: %w", err)
	}

	now := s.clock.Now()
	out := make([]*primary.EscalatedNotification, len(rows))
	for i, n := range rows {
		out[i] = &primary.EscalatedNotification{
			ID:              n.ID,
			RecipientID:     n.RecipientID,
			Type:            n.Type,
			Title:           n.Title,
			EscalationLevel: n.EscalationLevel,
			CreatedAt:       n.CreatedAt.Format(time.RFC3339),
			HoursElapsed:    escalation.HoursElapsed(n.CreatedAt, now),
		}
	}
	return out, nil
}

// Ensure EscalationServiceImpl implements the interface
var _ primary.EscalationService = (*EscalationServiceImpl)(nil)
