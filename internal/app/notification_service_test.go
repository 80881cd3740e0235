package app

import (
	"context"
	"testing"
	"time"

	"github.com/example/brigadir/internal/ports/primary"
)

func TestNotificationService_ListFiltersUnread(t *testing.T) {
	repo := newMockNotificationRepository()
	service := NewNotificationService(repo)
	ctx := context.Background()
	base := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	seedPending(repo, "NTF-0001", "task_assigned", 5, base, 0)
	read := seedPending(repo, "NTF-0002", "task_assigned", 5, base.Add(time.Minute), 0)
	read.IsRead = true
	seedPending(repo, "NTF-0003", "task_assigned", 6, base.Add(2*time.Minute), 0)

	rows, err := service.ListNotifications(ctx, primary.NotificationFilters{RecipientID: 5, UnreadOnly: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].ID != "NTF-0001" {
		t.Errorf("expected only the recipient's unread rows, got %+v", rows)
	}
}

func TestNotificationService_UnreadCountAndMarkRead(t *testing.T) {
	repo := newMockNotificationRepository()
	service := NewNotificationService(repo)
	ctx := context.Background()
	base := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	seedPending(repo, "NTF-0001", "task_assigned", 5, base, 0)
	seedPending(repo, "NTF-0002", "task_overdue", 5, base, 0)

	count, err := service.UnreadCount(ctx, 5)
	if err != nil || count != 2 {
		t.Fatalf("expected 2 unread, got %d (%v)", count, err)
	}

	applied, err := service.MarkRead(ctx, "NTF-0001", 5)
	if err != nil || !applied {
		t.Fatalf("expected mark read to apply, got %v (%v)", applied, err)
	}
	// Second read reports not applied.
	applied, err = service.MarkRead(ctx, "NTF-0001", 5)
	if err != nil || applied {
		t.Errorf("second read must not apply, got %v (%v)", applied, err)
	}

	count, _ = service.UnreadCount(ctx, 5)
	if count != 1 {
		t.Errorf("expected 1 unread after reading, got %d", count)
	}
}

func TestNotificationService_GetConvertsShape(t *testing.T) {
	repo := newMockNotificationRepository()
	service := NewNotificationService(repo)
	ctx := context.Background()

	seedPending(repo, "NTF-0001", "task_assigned", 5, time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC), 1)

	n, err := service.GetNotification(ctx, "NTF-0001")
	if err != nil {
		t.Fatal(err)
	}
	if n.ObjectID != 1 || n.ObjectName != "Башня А" {
		t.Errorf("object fields not mapped: %+v", n)
	}
	if n.EscalationLevel != 1 {
		t.Errorf("escalation level not mapped: %d", n.EscalationLevel)
	}
	if n.CreatedAt != "2025-03-10T10:00:00Z" {
		t.Errorf("created_at not formatted: %q", n.CreatedAt)
	}
}
