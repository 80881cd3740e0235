package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/brigadir/internal/core/event"
	"github.com/example/brigadir/internal/models"
	"github.com/example/brigadir/internal/ports/primary"
	"github.com/example/brigadir/internal/ports/secondary"
)

// SchedulerServiceImpl implements the SchedulerService interface. Tick is
// expected once a minute; each check decides from the wall clock whether its
// window matches.
type SchedulerServiceImpl struct {
	escalations   primary.EscalationService
	trigger       primary.TriggerService
	notifications secondary.NotificationRepository
	tasks         secondary.TaskRepository
	supply        secondary.SupplyRepository
	objects       secondary.ObjectRepository
	schedule      secondary.ScheduleItemRepository
	directory     secondary.Directory
	push          secondary.PushChannel
	logger        *zap.Logger

	digestHour   int
	planFactHour int
	eveningHour  int
}

// NewSchedulerService creates a new SchedulerService with injected dependencies.
func NewSchedulerService(
	escalations primary.EscalationService,
	trigger primary.TriggerService,
	notifications secondary.NotificationRepository,
	tasks secondary.TaskRepository,
	supply secondary.SupplyRepository,
	objects secondary.ObjectRepository,
	schedule secondary.ScheduleItemRepository,
	directory secondary.Directory,
	push secondary.PushChannel,
	logger *zap.Logger,
	digestHour, planFactHour, eveningHour int,
) *SchedulerServiceImpl {
	return &SchedulerServiceImpl{
		escalations:   escalations,
		trigger:       trigger,
		notifications: notifications,
		tasks:         tasks,
		supply:        supply,
		objects:       objects,
		schedule:      schedule,
		directory:     directory,
		push:          push,
		logger:        logger,
		digestHour:    digestHour,
		planFactHour:  planFactHour,
		eveningHour:   eveningHour,
	}
}

type scheduledCheck struct {
	name string
	due  func(now time.Time) bool
	run  func(ctx context.Context, now time.Time) error
}

func atHour(h int) func(time.Time) bool {
	return func(now time.Time) bool { return now.Hour() == h && now.Minute() == 0 }
}

func everyMinutes(m int) func(time.Time) bool {
	return func(now time.Time) bool { return now.Minute()%m == 0 }
}

func (s *SchedulerServiceImpl) checks() []scheduledCheck {
	return []scheduledCheck{
		{"escalation_sweep", func(time.Time) bool { return true }, s.runEscalationSweep},
		{"overdue_tasks", everyMinutes(5), s.runOverdueTasks},
		{"delayed_supplies", everyMinutes(30), s.runDelayedSupplies},
		{"gpr_deviations", everyMinutes(30), s.runGPRDeviations},
		{"morning_digest", atHour(s.digestHour), s.runMorningDigest},
		{"deadline_reminders", atHour(9), s.runDeadlineReminders},
		{"weekly_audit", func(now time.Time) bool {
			return now.Weekday() == time.Monday && now.Hour() == 10 && now.Minute() == 0
		}, s.runWeeklyAudit},
		{"plan_fact_request", atHour(s.planFactHour), s.runPlanFactRequests},
		{"plan_fact_overdue", atHour(19), s.runPlanFactOverdue},
		{"evening_escalation", atHour(s.eveningHour), s.runEveningEscalation},
		{"expired_cleanup", atHour(0), s.runExpiredCleanup},
	}
}

// Tick runs every check whose window matches now. Checks are isolated: a
// panic or error in one is logged and the rest still run.
func (s *SchedulerServiceImpl) Tick(ctx context.Context, now time.Time) (*primary.TickResult, error) {
	result := &primary.TickResult{}
	for _, check := range s.checks() {
		if !check.due(now) {
			continue
		}
		if err := s.runIsolated(ctx, check, now); err != nil {
			s.logger.Error("scheduled check failed",
				zap.String("check", check.name), zap.Error(err))
			result.Failed = append(result.Failed, check.name)
			continue
		}
		result.Ran = append(result.Ran, check.name)
	}
	return result, nil
}

func (s *SchedulerServiceImpl) runIsolated(ctx context.Context, check scheduledCheck, now time.Time) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("check %s panicked: %v", check.name, r)
		}
	}()
	return check.run(ctx, now)
}

func (s *SchedulerServiceImpl) runEscalationSweep(ctx context.Context, _ time.Time) error {
	_, err := s.escalations.CheckPending(ctx)
	return err
}

func (s *SchedulerServiceImpl) runEveningEscalation(ctx context.Context, _ time.Time) error {
	_, err := s.escalations.CheckEveningDeadline(ctx)
	return err
}

// runOverdueTasks flips tasks past their deadline to the overdue status and
// fires the event once per task. The status flip is the dedup guard: a task
// already overdue is not listed again.
func (s *SchedulerServiceImpl) runOverdueTasks(ctx context.Context, now time.Time) error {
	overdue, err := s.tasks.ListOverdue(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to list overdue tasks: %w", err)
	}
	for _, t := range overdue {
		flipped, err := s.tasks.MarkOverdue(ctx, t.ID)
		if err != nil {
			return fmt.Errorf("failed to mark task %d overdue: %w", t.ID, err)
		}
		if !flipped {
			continue
		}
		days := 1
		if t.Deadline.Valid {
			if d := int(now.Sub(t.Deadline.Time).Hours() / 24); d > days {
				days = d
			}
		}
		evt := event.Context{
			event.KeyEntityType: "task",
			event.KeyEntityID:   t.ID,
			event.KeyObjectID:   t.ObjectID,
			event.KeyObjectName: s.objectName(ctx, t.ObjectID),
			"task_title":        t.Title,
			"overdue_days":      days,
		}
		if t.AssigneeID.Valid {
			evt[event.KeyAssigneeID] = t.AssigneeID.Int64
		}
		if _, err := s.trigger.Fire(ctx, primary.FireRequest{Kind: event.TaskOverdue, Context: evt}); err != nil {
			return err
		}
	}
	return nil
}

// runDelayedSupplies flips supply orders past their expected date to the
// delayed status and fires the event, which recalculates the schedule.
func (s *SchedulerServiceImpl) runDelayedSupplies(ctx context.Context, now time.Time) error {
	delayed, err := s.supply.ListDelayed(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to list delayed supplies: %w", err)
	}
	for _, o := range delayed {
		flipped, err := s.supply.MarkDelayed(ctx, o.ID)
		if err != nil {
			return fmt.Errorf("failed to mark supply %d delayed: %w", o.ID, err)
		}
		if !flipped {
			continue
		}
		days := 1
		if o.ExpectedDate.Valid {
			if d := int(now.Sub(o.ExpectedDate.Time).Hours() / 24); d > days {
				days = d
			}
		}
		evt := event.Context{
			event.KeyEntityType:   "supply_order",
			event.KeyEntityID:     o.ID,
			event.KeyObjectID:     o.ObjectID,
			event.KeyObjectName:   s.objectName(ctx, o.ObjectID),
			event.KeyMaterialName: o.MaterialName,
			event.KeyDelayDays:    days,
		}
		if _, err := s.trigger.Fire(ctx, primary.FireRequest{Kind: event.SupplyDelayed, Context: evt}); err != nil {
			return err
		}
	}
	return nil
}

func (s *SchedulerServiceImpl) runDeadlineReminders(ctx context.Context, now time.Time) error {
	due, err := s.tasks.ListDueWithin(ctx, now, 24*time.Hour)
	if err != nil {
		return fmt.Errorf("failed to list approaching deadlines: %w", err)
	}
	for _, t := range due {
		if !t.AssigneeID.Valid {
			continue
		}
		evt := event.Context{
			event.KeyEntityType: "task",
			event.KeyEntityID:   t.ID,
			event.KeyObjectID:   t.ObjectID,
			event.KeyObjectName: s.objectName(ctx, t.ObjectID),
			event.KeyAssigneeID: t.AssigneeID.Int64,
			"task_title":        t.Title,
			"deadline":          t.Deadline.Time.Format("02.01 15:04"),
		}
		if _, err := s.trigger.Fire(ctx, primary.FireRequest{Kind: event.DeadlineApproaching, Context: evt}); err != nil {
			return err
		}
	}
	return nil
}

// runPlanFactRequests asks every site engineer on every active object for the
// daily report. The request expires at the evening cutoff.
func (s *SchedulerServiceImpl) runPlanFactRequests(ctx context.Context, now time.Time) error {
	return s.fanOutToSiteEngineers(ctx, event.PlanFactRequest, func(evt event.Context) {
		evt[event.KeyExpiresAt] = time.Date(now.Year(), now.Month(), now.Day(), s.eveningHour, 0, 0, 0, now.Location())
	})
}

func (s *SchedulerServiceImpl) runWeeklyAudit(ctx context.Context, _ time.Time) error {
	return s.fanOutToSiteEngineers(ctx, event.WeeklyAudit, nil)
}

func (s *SchedulerServiceImpl) fanOutToSiteEngineers(ctx context.Context, kind event.Kind, decorate func(event.Context)) error {
	active, err := s.objects.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active objects: %w", err)
	}
	for _, obj := range active {
		engineers, err := s.directory.UsersWithRole(ctx, obj.ID, models.RoleConstructionITR)
		if err != nil {
			return fmt.Errorf("failed to resolve engineers for object %d: %w", obj.ID, err)
		}
		for _, userID := range engineers {
			evt := event.Context{
				event.KeyObjectID:   obj.ID,
				event.KeyObjectName: obj.Name,
				event.KeyAssigneeID: userID,
			}
			if decorate != nil {
				decorate(evt)
			}
			if _, err := s.trigger.Fire(ctx, primary.FireRequest{Kind: kind, Context: evt}); err != nil {
				return err
			}
		}
	}
	return nil
}

// runPlanFactOverdue reminds everyone who got a plan-fact request today and
// still has not opened it.
func (s *SchedulerServiceImpl) runPlanFactOverdue(ctx context.Context, _ time.Time) error {
	pending, err := s.notifications.ListPendingEscalation(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pending notifications: %w", err)
	}
	for _, n := range pending {
		if n.Type != event.PlanFactRequest.NotificationType() {
			continue
		}
		evt := event.Context{event.KeyAssigneeID: n.RecipientID}
		if n.ObjectID.Valid {
			evt[event.KeyObjectID] = n.ObjectID.Int64
		}
		if n.ObjectName.Valid {
			evt[event.KeyObjectName] = n.ObjectName.String
		}
		if _, err := s.trigger.Fire(ctx, primary.FireRequest{Kind: event.PlanFactOverdue, Context: evt}); err != nil {
			return err
		}
	}
	return nil
}

// gprDeviationThreshold is how far behind plan a schedule item must be before
// the deviation check alerts the project manager.
const gprDeviationThreshold = 3 * 24 * time.Hour

// runGPRDeviations alerts project managers about schedule items running more
// than three days behind plan. An unread deviation alert for the same object
// suppresses a repeat, so the half-hour cadence does not spam.
func (s *SchedulerServiceImpl) runGPRDeviations(ctx context.Context, now time.Time) error {
	active, err := s.objects.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active objects: %w", err)
	}
	for _, obj := range active {
		items, err := s.schedule.ItemsForObject(ctx, obj.ID)
		if err != nil {
			return fmt.Errorf("failed to load schedule for object %d: %w", obj.ID, err)
		}
		late, worstDays := 0, 0
		for _, item := range items {
			if item.ActualEnd.Valid {
				continue
			}
			behind := now.Sub(item.PlannedEnd)
			if behind < gprDeviationThreshold {
				continue
			}
			late++
			if d := int(behind.Hours() / 24); d > worstDays {
				worstDays = d
			}
		}
		if late == 0 {
			continue
		}

		managers, err := s.directory.UsersWithRole(ctx, obj.ID, models.RoleProjectManager)
		if err != nil {
			return fmt.Errorf("failed to resolve managers for object %d: %w", obj.ID, err)
		}
		body := fmt.Sprintf("Объект «%s»: %d работ(ы) отстают от графика более чем на 3 дня. Максимальное отставание: %d дн.",
			obj.Name, late, worstDays)
		for _, managerID := range managers {
			suppressed, err := s.hasUnreadOfType(ctx, managerID, obj.ID, "gpr_deviation")
			if err != nil {
				return err
			}
			if suppressed {
				continue
			}
			if err := s.createDirect(ctx, managerID, "gpr_deviation", models.PriorityHigh,
				models.CategoryGPR, "📉 ОТСТАВАНИЕ ОТ ГРАФИКА", body, obj, now); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *SchedulerServiceImpl) hasUnreadOfType(ctx context.Context, recipientID, objectID int64, typ string) (bool, error) {
	rows, err := s.notifications.List(ctx, secondary.NotificationFilters{
		RecipientID: recipientID,
		ObjectID:    objectID,
		UnreadOnly:  true,
	})
	if err != nil {
		return false, fmt.Errorf("failed to check for existing alert: %w", err)
	}
	for _, n := range rows {
		if n.Type == typ {
			return true, nil
		}
	}
	return false, nil
}

// createDirect persists and pushes a notification that bypasses the event
// engine; used for informational alerts that never escalate.
func (s *SchedulerServiceImpl) createDirect(ctx context.Context, recipientID int64, typ, priority, category, title, body string, obj *models.ConstructionObject, now time.Time) error {
	id, err := s.notifications.GetNextID(ctx)
	if err != nil {
		return fmt.Errorf("failed to allocate notification ID: %w", err)
	}
	n := &models.Notification{
		ID:          id,
		RecipientID: recipientID,
		Type:        typ,
		Priority:    priority,
		Category:    category,
		Title:       title,
		Body:        body,
		CreatedAt:   now,
	}
	if obj != nil {
		n.ObjectID = sql.NullInt64{Int64: obj.ID, Valid: true}
		n.ObjectName = sql.NullString{String: obj.Name, Valid: true}
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	if user, err := s.directory.GetUser(ctx, recipientID); err == nil && user != nil && user.ChatID != 0 {
		if err := s.push.Deliver(ctx, user.ChatID, n); err != nil {
			s.logger.Warn("push failed",
				zap.String("type", typ), zap.Int64("recipient_id", recipientID), zap.Error(err))
		}
	}
	return nil
}

// runMorningDigest sends project managers a one-line state of the world.
// The digest is informational and never escalates, so it is written straight
// to the store instead of going through an event.
func (s *SchedulerServiceImpl) runMorningDigest(ctx context.Context, now time.Time) error {
	active, err := s.objects.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active objects: %w", err)
	}
	overdue, err := s.tasks.ListOverdue(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to count overdue tasks: %w", err)
	}
	delayed, err := s.supply.CountDelayed(ctx)
	if err != nil {
		return fmt.Errorf("failed to count delayed supplies: %w", err)
	}

	managers := make(map[int64]struct{})
	for _, obj := range active {
		ids, err := s.directory.UsersWithRole(ctx, obj.ID, models.RoleProjectManager)
		if err != nil {
			return fmt.Errorf("failed to resolve managers for object %d: %w", obj.ID, err)
		}
		for _, id := range ids {
			managers[id] = struct{}{}
		}
	}

	body := fmt.Sprintf("Объектов в работе: %d. Просроченных задач: %d. Задержек поставок: %d.",
		len(active), len(overdue), delayed)

	for managerID := range managers {
		err := s.createDirect(ctx, managerID, "morning_digest", models.PriorityNormal,
			models.CategorySystem, "📊 Утренняя сводка", body, nil, now)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *SchedulerServiceImpl) runExpiredCleanup(ctx context.Context, now time.Time) error {
	removed, err := s.notifications.DeleteExpired(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to delete expired notifications: %w", err)
	}
	if removed > 0 {
		s.logger.Info("expired notifications removed", zap.Int("count", removed))
	}
	return nil
}

func (s *SchedulerServiceImpl) objectName(ctx context.Context, objectID int64) string {
	obj, err := s.objects.GetByID(ctx, objectID)
	if err != nil || obj == nil {
		return ""
	}
	return obj.Name
}

// Ensure SchedulerServiceImpl implements the interface
var _ primary.SchedulerService = (*SchedulerServiceImpl)(nil)
