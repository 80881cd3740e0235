package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/brigadir/internal/core/cascade"
	"github.com/example/brigadir/internal/core/event"
	"github.com/example/brigadir/internal/ports/primary"
	"github.com/example/brigadir/internal/ports/secondary"
)

// ErrScheduleCycle is returned when a recalculation finds the dependency
// graph cyclic. No shifts are applied in that case.
var ErrScheduleCycle = errors.New("schedule recalculation aborted: dependency cycle")

// CascadeServiceImpl implements the CascadeService interface.
type CascadeServiceImpl struct {
	schedule secondary.ScheduleItemRepository
	objects  secondary.ObjectRepository
	audit    secondary.AuditWriter
	trigger  primary.TriggerService
	logger   *zap.Logger
}

// NewCascadeService creates a new CascadeService with injected dependencies.
func NewCascadeService(
	schedule secondary.ScheduleItemRepository,
	objects secondary.ObjectRepository,
	audit secondary.AuditWriter,
	trigger primary.TriggerService,
	logger *zap.Logger,
) *CascadeServiceImpl {
	return &CascadeServiceImpl{
		schedule: schedule,
		objects:  objects,
		audit:    audit,
		trigger:  trigger,
		logger:   logger,
	}
}

// Recalculate shifts every schedule item downstream of the delayed material
// and fires the cascade notification. A dependency cycle aborts the whole
// recalculation: nothing is written and ErrScheduleCycle comes back.
func (s *CascadeServiceImpl) Recalculate(ctx context.Context, req primary.RecalculateRequest) (*primary.RecalculateResult, error) {
	if req.DelayDays <= 0 {
		return nil, fmt.Errorf("delay must be positive, got %d", req.DelayDays)
	}

	items, err := s.schedule.ItemsForObject(ctx, req.ObjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	roots, err := s.schedule.DependentsOfMaterial(ctx, req.ObjectID, req.Material)
	if err != nil {
		return nil, fmt.Errorf("failed to find material dependents: %w", err)
	}

	shifts, err := cascade.Plan(items, roots, req.DelayDays)
	if err != nil {
		var cerr *cascade.CycleError
		if errors.As(err, &cerr) {
			s.logger.Error("dependency cycle in object schedule",
				zap.Int64("object_id", req.ObjectID),
				zap.Int64s("cycle", cerr.Path))
			if auditErr := s.audit.LogCascade(ctx, req.ObjectID, req.Material, 0, true); auditErr != nil {
				s.logger.Error("failed to audit aborted cascade", zap.Error(auditErr))
			}
			return nil, fmt.Errorf("%w: path %v", ErrScheduleCycle, cerr.Path)
		}
		return nil, err
	}

	titles := make(map[int64]string, len(items))
	for _, item := range items {
		titles[item.ID] = item.Title
	}

	result := &primary.RecalculateResult{AffectedTasks: len(shifts)}
	for _, sh := range shifts {
		if err := s.schedule.UpdateDates(ctx, sh.ItemID, sh.NewStart, sh.NewEnd); err != nil {
			return nil, fmt.Errorf("failed to shift item %d: %w", sh.ItemID, err)
		}
		// The update just overwrote the old window; the audit row is the only
		// durable record of it.
		if err := s.audit.LogShift(ctx, sh.ItemID, sh.OldStart, sh.OldEnd, sh.NewStart, sh.NewEnd); err != nil {
			return nil, fmt.Errorf("failed to audit shift of item %d: %w", sh.ItemID, err)
		}
		result.Shifts = append(result.Shifts, primary.ShiftSummary{
			ItemID:   sh.ItemID,
			Title:    titles[sh.ItemID],
			OldStart: sh.OldStart.Format("2006-01-02"),
			NewStart: sh.NewStart.Format("2006-01-02"),
			OldEnd:   sh.OldEnd.Format("2006-01-02"),
			NewEnd:   sh.NewEnd.Format("2006-01-02"),
		})
	}

	if err := s.audit.LogCascade(ctx, req.ObjectID, req.Material, len(shifts), false); err != nil {
		return nil, fmt.Errorf("failed to audit cascade: %w", err)
	}

	s.logger.Info("schedule recalculated",
		zap.Int64("object_id", req.ObjectID),
		zap.String("material", req.Material),
		zap.Int("affected", len(shifts)))

	if len(shifts) > 0 {
		s.fireShiftNotice(ctx, req, len(shifts))
	}
	return result, nil
}

// fireShiftNotice tells the object leads about the applied shift. The fire
// runs inside the cascade's scope so a repeated delay event for the same
// material cannot recurse into a second recalculation.
func (s *CascadeServiceImpl) fireShiftNotice(ctx context.Context, req primary.RecalculateRequest, affected int) {
	objectName := ""
	if obj, err := s.objects.GetByID(ctx, req.ObjectID); err == nil && obj != nil {
		objectName = obj.Name
	}

	ctx = WithFireScope(ctx, req.ObjectID, req.Material)
	_, err := s.trigger.Fire(ctx, primary.FireRequest{
		Kind: event.CascadeShift,
		Context: event.Context{
			event.KeyObjectID:      req.ObjectID,
			event.KeyObjectName:    objectName,
			event.KeyTriggerMat:    req.Material,
			event.KeyDelayDays:     req.DelayDays,
			event.KeyAffectedTasks: affected,
		},
	})
	if err != nil {
		s.logger.Error("failed to fire cascade notification", zap.Error(err))
	}
}

// Ensure CascadeServiceImpl implements the interface
var _ primary.CascadeService = (*CascadeServiceImpl)(nil)
