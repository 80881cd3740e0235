package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/example/brigadir/internal/core/event"
	"github.com/example/brigadir/internal/models"
	"github.com/example/brigadir/internal/ports/primary"
)

func newTestCascadeService() (*CascadeServiceImpl, *mockScheduleRepository, *mockObjectRepository, *mockTriggerService, *mockAuditWriter) {
	schedule := newMockScheduleRepository()
	objects := newMockObjectRepository()
	trigger := &mockTriggerService{}
	audit := &mockAuditWriter{}
	service := NewCascadeService(schedule, objects, audit, trigger, zap.NewNop())
	return service, schedule, objects, trigger, audit
}

func scheduleItem(id, objectID int64, startDay, endDay int, deps ...int64) *models.ScheduleItem {
	base := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	return &models.ScheduleItem{
		ID:           id,
		ObjectID:     objectID,
		Title:        "Этап",
		PlannedStart: base.AddDate(0, 0, startDay),
		PlannedEnd:   base.AddDate(0, 0, endDay),
		DependsOn:    deps,
	}
}

func TestCascadeService_RecalculateShiftsChain(t *testing.T) {
	service, schedule, objects, trigger, audit := newTestCascadeService()
	ctx := context.Background()

	objects.objects[1] = &models.ConstructionObject{ID: 1, Name: "Башня А", Status: models.ObjectStatusActive}
	schedule.items = []*models.ScheduleItem{
		scheduleItem(1, 1, 0, 2),
		scheduleItem(2, 1, 3, 5, 1),
		scheduleItem(3, 1, 6, 8, 2),
	}
	schedule.materialDeps["Металлокаркас"] = []int64{1}

	result, err := service.Recalculate(ctx, primary.RecalculateRequest{
		ObjectID: 1, Material: "Металлокаркас", DelayDays: 5,
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.AffectedTasks != 3 {
		t.Errorf("expected 3 affected items, got %d", result.AffectedTasks)
	}
	if len(schedule.updates) != 3 {
		t.Errorf("expected 3 applied updates, got %d", len(schedule.updates))
	}
	if got := schedule.updates[2][0]; !got.Equal(time.Date(2025, 4, 9, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("item 2 start not shifted by 5 days: %v", got)
	}
	if result.Shifts[0].OldStart != "2025-04-01" || result.Shifts[0].NewStart != "2025-04-06" {
		t.Errorf("unexpected shift summary %+v", result.Shifts[0])
	}

	if len(trigger.fired) != 1 || trigger.fired[0].kind != event.CascadeShift {
		t.Fatalf("expected CASCADE_SHIFT fire, got %v", trigger.kinds())
	}
	evt := trigger.fired[0].evt
	if evt.Int(event.KeyAffectedTasks) != 3 || evt.String(event.KeyTriggerMat) != "Металлокаркас" {
		t.Errorf("cascade fire context incomplete: %v", evt)
	}
	if evt.String(event.KeyObjectName) != "Башня А" {
		t.Errorf("expected object name in context, got %q", evt.String(event.KeyObjectName))
	}

	entries := audit.byKind("cascade")
	if len(entries) != 1 || entries[0].affected != 3 || entries[0].aborted {
		t.Errorf("cascade must be audited, got %+v", entries)
	}

	shiftEntries := audit.byKind("shift")
	if len(shiftEntries) != 3 {
		t.Fatalf("every shifted item needs its own audit row, got %d", len(shiftEntries))
	}
	seen := map[int64]bool{}
	for _, e := range shiftEntries {
		seen[e.itemID] = true
		if !e.newStart.Equal(e.oldStart.AddDate(0, 0, 5)) {
			t.Errorf("item %d: audit row must carry the old and new window, got %v -> %v",
				e.itemID, e.oldStart, e.newStart)
		}
	}
	if !seen[1] || !seen[2] || !seen[3] {
		t.Errorf("expected shift rows for items 1, 2 and 3, got %+v", shiftEntries)
	}
}

func TestCascadeService_RecalculateCycleAborts(t *testing.T) {
	service, schedule, _, trigger, audit := newTestCascadeService()
	ctx := context.Background()

	schedule.items = []*models.ScheduleItem{
		scheduleItem(1, 1, 0, 2, 2),
		scheduleItem(2, 1, 3, 5, 1),
	}
	schedule.materialDeps["Бетон"] = []int64{1}

	_, err := service.Recalculate(ctx, primary.RecalculateRequest{
		ObjectID: 1, Material: "Бетон", DelayDays: 3,
	})
	if !errors.Is(err, ErrScheduleCycle) {
		t.Fatalf("expected ErrScheduleCycle, got %v", err)
	}
	if len(schedule.updates) != 0 {
		t.Error("a cycle must abort before any shift is applied")
	}
	if len(trigger.fired) != 0 {
		t.Error("no notification on an aborted cascade")
	}
	entries := audit.byKind("cascade")
	if len(entries) != 1 || !entries[0].aborted {
		t.Errorf("aborted cascade must be audited, got %+v", entries)
	}
	if len(audit.byKind("shift")) != 0 {
		t.Error("an aborted cascade must not record shift rows")
	}
}

func TestCascadeService_RecalculateNoDependents(t *testing.T) {
	service, schedule, _, trigger, _ := newTestCascadeService()
	ctx := context.Background()
	schedule.items = []*models.ScheduleItem{scheduleItem(1, 1, 0, 2)}

	result, err := service.Recalculate(ctx, primary.RecalculateRequest{
		ObjectID: 1, Material: "Стекло", DelayDays: 2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.AffectedTasks != 0 || len(trigger.fired) != 0 {
		t.Errorf("no dependents means no shifts and no notice, got %+v", result)
	}
}

func TestCascadeService_RecalculateRejectsNonPositiveDelay(t *testing.T) {
	service, _, _, _, _ := newTestCascadeService()
	if _, err := service.Recalculate(context.Background(), primary.RecalculateRequest{
		ObjectID: 1, Material: "Бетон", DelayDays: 0,
	}); err == nil {
		t.Error("zero delay must be rejected")
	}
}
