package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/brigadir/internal/core/event"
	"github.com/example/brigadir/internal/core/template"
	"github.com/example/brigadir/internal/models"
	"github.com/example/brigadir/internal/ports/primary"
	"github.com/example/brigadir/internal/ports/secondary"
)

// fireScopeKey marks an in-flight cascade in the context so a delay event
// fired from inside the cascade cannot start a second recalculation for the
// same object and material.
type fireScopeKey struct {
	objectID int64
	material string
}

// WithFireScope marks ctx as running inside a cascade for the scope.
func WithFireScope(ctx context.Context, objectID int64, material string) context.Context {
	return context.WithValue(ctx, fireScopeKey{objectID, material}, true)
}

func inFireScope(ctx context.Context, objectID int64, material string) bool {
	v, _ := ctx.Value(fireScopeKey{objectID, material}).(bool)
	return v
}

// TriggerServiceImpl implements the TriggerService interface.
type TriggerServiceImpl struct {
	notifications secondary.NotificationRepository
	directory     secondary.Directory
	push          secondary.PushChannel
	audit         secondary.AuditWriter
	clock         secondary.Clock
	logger        *zap.Logger

	resolver recipientResolver

	// sideEffects maps event kinds to handlers that run before rendering.
	// Populated at construction; new chain reactions register here without
	// touching the fire loop.
	sideEffects map[event.Kind]sideEffectFunc

	// cascade is attached after construction; the cascade service fires
	// events back through this service.
	cascade primary.CascadeService
}

// NewTriggerService creates a new TriggerService with injected dependencies.
func NewTriggerService(
	notifications secondary.NotificationRepository,
	directory secondary.Directory,
	push secondary.PushChannel,
	audit secondary.AuditWriter,
	clock secondary.Clock,
	logger *zap.Logger,
) *TriggerServiceImpl {
	s := &TriggerServiceImpl{
		notifications: notifications,
		directory:     directory,
		push:          push,
		audit:         audit,
		clock:         clock,
		logger:        logger,
		resolver:      recipientResolver{directory: directory},
	}
	s.sideEffects = map[event.Kind]sideEffectFunc{
		event.SupplyDelayed: s.onSupplyDelayed,
	}
	return s
}

// AttachCascade wires the cascade service in after construction. The two
// services reference each other, so one side has to be attached late.
func (s *TriggerServiceImpl) AttachCascade(cascade primary.CascadeService) {
	s.cascade = cascade
}

// Fire routes one event: audit, side effects, template rendering, recipient
// resolution, persistence and best-effort push. Every notification of the
// batch shares one creation instant so escalation clocks line up.
func (s *TriggerServiceImpl) Fire(ctx context.Context, req primary.FireRequest) (*primary.FireResult, error) {
	if !req.Kind.Valid() {
		s.logger.Warn("ignoring unknown event kind", zap.String("kind", string(req.Kind)))
		return &primary.FireResult{Skipped: true, SkipReason: "unknown event kind"}, nil
	}
	if req.Context == nil {
		req.Context = event.Context{}
	}

	entityType := req.Context.String(event.KeyEntityType)
	entityID := req.Context.Int64(event.KeyEntityID)
	if err := s.audit.LogEvent(ctx, string(req.Kind), entityType, entityID, req.Context.Keys()); err != nil {
		return nil, fmt.Errorf("failed to audit event: %w", err)
	}

	// Side effects run before rendering so handlers can enrich the context
	// (the supply delay handler injects the affected task count).
	evt := req.Context
	if handler := s.sideEffects[req.Kind]; handler != nil {
		enriched, err := handler(ctx, evt)
		if err != nil {
			return nil, err
		}
		if enriched != nil {
			evt = enriched
		}
	}

	tpl := template.For(req.Kind)
	if tpl == nil {
		s.logger.Warn("event has no notification template",
			zap.String("kind", string(req.Kind)))
		return &primary.FireResult{Skipped: true, SkipReason: "no template registered"}, nil
	}

	recipients, err := s.resolver.Resolve(ctx, req.Kind, evt)
	if err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		s.logger.Info("event resolved to no recipients", zap.String("kind", string(req.Kind)))
		return &primary.FireResult{}, nil
	}

	createdAt := s.clock.Now()
	result := &primary.FireResult{Recipients: recipients}

	// Persistence is best-effort per recipient: one failing row is logged
	// and counted, the rest of the batch still goes out.
	for _, recipientID := range recipients {
		n, err := s.buildNotification(ctx, req.Kind, tpl, evt, recipientID, createdAt)
		if err != nil {
			s.logger.Error("failed to build notification",
				zap.String("kind", string(req.Kind)),
				zap.Int64("recipient_id", recipientID),
				zap.Error(err))
			result.PersistFailures++
			continue
		}
		if err := s.notifications.Create(ctx, n); err != nil {
			s.logger.Error("failed to persist notification",
				zap.String("kind", string(req.Kind)),
				zap.Int64("recipient_id", recipientID),
				zap.String("notification_id", n.ID),
				zap.Error(err))
			result.PersistFailures++
			continue
		}
		result.NotificationIDs = append(result.NotificationIDs, n.ID)

		if !s.deliver(ctx, recipientID, n) {
			result.PushFailures++
		}
	}

	s.logger.Info("event fired",
		zap.String("kind", string(req.Kind)),
		zap.Int("recipients", len(recipients)),
		zap.Int("persist_failures", result.PersistFailures),
		zap.Int("push_failures", result.PushFailures))
	return result, nil
}

func (s *TriggerServiceImpl) buildNotification(
	ctx context.Context,
	kind event.Kind,
	tpl *template.Template,
	evt event.Context,
	recipientID int64,
	createdAt time.Time,
) (*models.Notification, error) {
	id, err := s.notifications.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate notification ID: %w", err)
	}

	n := &models.Notification{
		ID:              id,
		RecipientID:     recipientID,
		Type:            kind.NotificationType(),
		Priority:        tpl.Priority,
		Category:        tpl.Category,
		Title:           template.Render(tpl.Title, evt),
		Body:            template.Render(tpl.Body, evt),
		IsActionable:    len(tpl.Actions) > 0,
		EscalationLevel: tpl.EscalationLevel,
		Actions:         tpl.Actions,
		CreatedAt:       createdAt,
	}
	if et := evt.String(event.KeyEntityType); et != "" {
		n.EntityType.String, n.EntityType.Valid = et, true
	}
	if eid := evt.Int64(event.KeyEntityID); eid != 0 {
		n.EntityID.Int64, n.EntityID.Valid = eid, true
	}
	if oid := evt.Int64(event.KeyObjectID); oid != 0 {
		n.ObjectID.Int64, n.ObjectID.Valid = oid, true
	}
	if name := evt.String(event.KeyObjectName); name != "" {
		n.ObjectName.String, n.ObjectName.Valid = name, true
	}
	if tpl.DeepLink != "" {
		n.DeepLink.String, n.DeepLink.Valid = template.Render(tpl.DeepLink, evt), true
	}
	if actor := evt.String(event.KeyTriggeredBy); actor != "" {
		n.TriggeredBy.String, n.TriggeredBy.Valid = actor, true
	}
	if exp, ok := evt[event.KeyExpiresAt].(time.Time); ok {
		n.ExpiresAt.Time, n.ExpiresAt.Valid = exp, true
	}
	return n, nil
}

// deliver pushes a persisted notification to its recipient. One retry, then
// the failure is logged and counted; the fire never fails on push.
func (s *TriggerServiceImpl) deliver(ctx context.Context, recipientID int64, n *models.Notification) bool {
	user, err := s.directory.GetUser(ctx, recipientID)
	if err != nil || user == nil || user.ChatID == 0 {
		s.logger.Warn("recipient has no push identity",
			zap.Int64("recipient_id", recipientID),
			zap.String("notification_id", n.ID))
		return false
	}

	if err := s.push.Deliver(ctx, user.ChatID, n); err == nil {
		return true
	}
	if err := s.push.Deliver(ctx, user.ChatID, n); err != nil {
		s.logger.Warn("push delivery failed",
			zap.Int64("recipient_id", recipientID),
			zap.String("notification_id", n.ID),
			zap.Error(err))
		return false
	}
	return true
}

// sideEffectFunc enriches the event context before rendering; returning nil
// keeps the original context.
type sideEffectFunc func(ctx context.Context, evt event.Context) (event.Context, error)

// onSupplyDelayed recalculates the object schedule before the delay
// notification goes out, so the rendered body carries the real impact.
func (s *TriggerServiceImpl) onSupplyDelayed(ctx context.Context, evt event.Context) (event.Context, error) {
	if s.cascade == nil {
		return nil, nil
	}
	objectID := evt.Int64(event.KeyObjectID)
	material := evt.String(event.KeyMaterialName)
	delayDays := evt.Int(event.KeyDelayDays)
	if objectID == 0 || material == "" || delayDays <= 0 {
		return nil, nil
	}
	if inFireScope(ctx, objectID, material) {
		s.logger.Warn("skipping nested cascade for in-flight scope",
			zap.Int64("object_id", objectID), zap.String("material", material))
		return nil, nil
	}

	res, err := s.cascade.Recalculate(ctx, primary.RecalculateRequest{
		ObjectID:  objectID,
		Material:  material,
		DelayDays: delayDays,
	})
	if err != nil {
		return nil, fmt.Errorf("cascade recalculation failed: %w", err)
	}

	enriched := evt.Clone()
	enriched[event.KeyAffectedTasks] = res.AffectedTasks
	return enriched, nil
}

// Ensure TriggerServiceImpl implements the interface
var _ primary.TriggerService = (*TriggerServiceImpl)(nil)
