package cascade

import (
	"errors"
	"testing"
	"time"

	"github.com/example/brigadir/internal/models"
)

func day(d int) time.Time {
	return time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d)
}

func item(id int64, startDay, endDay int, deps ...int64) *models.ScheduleItem {
	return &models.ScheduleItem{
		ID:           id,
		ObjectID:     1,
		PlannedStart: day(startDay),
		PlannedEnd:   day(endDay),
		DependsOn:    deps,
	}
}

func TestPlanLinearChain(t *testing.T) {
	// A <- B <- C: delaying A shifts all three.
	items := []*models.ScheduleItem{
		item(1, 0, 2),
		item(2, 3, 5, 1),
		item(3, 6, 8, 2),
	}

	shifts, err := Plan(items, []int64{1}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shifts) != 3 {
		t.Fatalf("expected 3 shifts, got %d", len(shifts))
	}
	for _, s := range shifts {
		if !s.NewStart.Equal(s.OldStart.AddDate(0, 0, 5)) || !s.NewEnd.Equal(s.OldEnd.AddDate(0, 0, 5)) {
			t.Errorf("item %d: expected a 5 day shift, got %v -> %v", s.ItemID, s.OldStart, s.NewStart)
		}
	}
}

func TestPlanShiftsEachItemOnce(t *testing.T) {
	// Diamond: B and C both depend on A, D depends on both.
	items := []*models.ScheduleItem{
		item(1, 0, 1),
		item(2, 2, 3, 1),
		item(3, 2, 4, 1),
		item(4, 5, 7, 2, 3),
	}

	shifts, err := Plan(items, []int64{1}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seen := map[int64]int{}
	for _, s := range shifts {
		seen[s.ItemID]++
	}
	if len(shifts) != 4 {
		t.Fatalf("expected 4 shifts, got %d", len(shifts))
	}
	if seen[4] != 1 {
		t.Errorf("diamond join shifted %d times, want exactly once", seen[4])
	}
}

func TestPlanStopsAtIndependentItems(t *testing.T) {
	items := []*models.ScheduleItem{
		item(1, 0, 2),
		item(2, 3, 5, 1),
		item(3, 0, 9), // no dependency on the delayed item
	}

	shifts, err := Plan(items, []int64{1}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range shifts {
		if s.ItemID == 3 {
			t.Error("independent item must not shift")
		}
	}
	if len(shifts) != 2 {
		t.Errorf("expected 2 shifts, got %d", len(shifts))
	}
}

func TestPlanCycleAborts(t *testing.T) {
	// A <- B and B <- A.
	items := []*models.ScheduleItem{
		item(1, 0, 2, 2),
		item(2, 3, 5, 1),
	}

	_, err := Plan(items, []int64{1}, 5)
	if err == nil {
		t.Fatal("expected cycle error")
	}
	if !errors.Is(err, ErrCycleDetected) {
		t.Errorf("expected ErrCycleDetected, got %v", err)
	}
	var cerr *CycleError
	if !errors.As(err, &cerr) || len(cerr.Path) < 3 {
		t.Errorf("expected a witness path, got %v", err)
	}
}

func TestPlanCycleWitnessPath(t *testing.T) {
	// 1 -> 2 -> 3 -> 2: the witness starts and ends at the cycle entry.
	items := []*models.ScheduleItem{
		item(1, 0, 1),
		item(2, 2, 3, 1, 3),
		item(3, 4, 5, 2),
	}

	_, err := Plan(items, []int64{1}, 1)
	var cerr *CycleError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *CycleError, got %v", err)
	}
	if cerr.Path[0] != cerr.Path[len(cerr.Path)-1] {
		t.Errorf("witness path should close on itself: %v", cerr.Path)
	}
}

func TestPlanZeroDelayIsNoop(t *testing.T) {
	items := []*models.ScheduleItem{item(1, 0, 2)}
	shifts, err := Plan(items, []int64{1}, 0)
	if err != nil || shifts != nil {
		t.Errorf("expected no-op for zero delay, got %v, %v", shifts, err)
	}
}

func TestPlanUnknownRootIsNoop(t *testing.T) {
	items := []*models.ScheduleItem{item(1, 0, 2)}
	shifts, err := Plan(items, []int64{99}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shifts) != 0 {
		t.Errorf("expected no shifts for unknown root, got %d", len(shifts))
	}
}

func TestPlanIsAssociative(t *testing.T) {
	build := func() []*models.ScheduleItem {
		return []*models.ScheduleItem{
			item(1, 0, 2),
			item(2, 3, 5, 1),
			item(3, 6, 8, 2),
		}
	}

	// Shift by 2, apply, then shift by 3.
	first := build()
	shifts, err := Plan(first, []int64{1}, 2)
	if err != nil {
		t.Fatal(err)
	}
	byID := map[int64]*models.ScheduleItem{}
	for _, it := range first {
		byID[it.ID] = it
	}
	for _, s := range shifts {
		byID[s.ItemID].PlannedStart = s.NewStart
		byID[s.ItemID].PlannedEnd = s.NewEnd
	}
	second, err := Plan(first, []int64{1}, 3)
	if err != nil {
		t.Fatal(err)
	}

	// Single shift by 5 over a fresh copy.
	combined, err := Plan(build(), []int64{1}, 5)
	if err != nil {
		t.Fatal(err)
	}

	got := map[int64]time.Time{}
	for _, s := range second {
		got[s.ItemID] = s.NewStart
	}
	for _, s := range combined {
		if !got[s.ItemID].Equal(s.NewStart) {
			t.Errorf("item %d: sequential shifts land at %v, single shift at %v", s.ItemID, got[s.ItemID], s.NewStart)
		}
	}
}
