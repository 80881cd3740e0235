package sqlite

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/example/brigadir/internal/models"
	"github.com/example/brigadir/internal/ports/secondary"
)

var testCreatedAt = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

func TestNotificationRepository_CreateAndGet(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewNotificationRepository(conn)
	ctx := context.Background()
	seedUser(t, conn, 5, "Иванов И.И.", "installer")

	n := testNotification("NTF-0001", 5, "task_assigned", testCreatedAt)
	n.Actions = []models.Action{
		{Key: "accept", Label: "▶️ Принять", Style: "primary"},
		{Key: "question", Label: "❓ Вопрос РП", Style: "default"},
	}
	n.IsActionable = true
	n.ObjectID = sql.NullInt64{Int64: 1, Valid: true}
	n.ObjectName = sql.NullString{String: "Башня А", Valid: true}
	n.DeepLink = sql.NullString{String: "/objects/1?tab=tasks&task=42", Valid: true}

	if err := repo.Create(ctx, n); err != nil {
		t.Fatalf("failed to create: %v", err)
	}

	got, err := repo.GetByID(ctx, "NTF-0001")
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if got.RecipientID != 5 || got.Type != "task_assigned" {
		t.Errorf("unexpected row %+v", got)
	}
	if len(got.Actions) != 2 || got.Actions[0].Key != "accept" {
		t.Errorf("actions not round-tripped: %+v", got.Actions)
	}
	if !got.ObjectID.Valid || got.ObjectID.Int64 != 1 {
		t.Errorf("object_id not stored: %+v", got.ObjectID)
	}
	if !got.CreatedAt.Equal(testCreatedAt) {
		t.Errorf("created_at drifted: %v", got.CreatedAt)
	}
}

func TestNotificationRepository_GetByIDNotFound(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewNotificationRepository(conn)

	if _, err := repo.GetByID(context.Background(), "NTF-9999"); err == nil {
		t.Error("expected error for missing notification")
	}
}

func TestNotificationRepository_GetNextID(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewNotificationRepository(conn)
	ctx := context.Background()
	seedUser(t, conn, 5, "Иванов И.И.", "installer")

	id, err := repo.GetNextID(ctx)
	if err != nil || id != "NTF-0001" {
		t.Fatalf("expected NTF-0001 on empty table, got %q (%v)", id, err)
	}

	if err := repo.Create(ctx, testNotification("NTF-0001", 5, "task_assigned", testCreatedAt)); err != nil {
		t.Fatal(err)
	}
	if err := repo.Create(ctx, testNotification("NTF-0007", 5, "task_assigned", testCreatedAt)); err != nil {
		t.Fatal(err)
	}

	id, err = repo.GetNextID(ctx)
	if err != nil || id != "NTF-0008" {
		t.Errorf("expected NTF-0008 after gap, got %q (%v)", id, err)
	}
}

func TestNotificationRepository_ListOrdersUnreadFirst(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewNotificationRepository(conn)
	ctx := context.Background()
	seedUser(t, conn, 5, "Иванов И.И.", "installer")

	older := testNotification("NTF-0001", 5, "task_assigned", testCreatedAt)
	newer := testNotification("NTF-0002", 5, "task_overdue", testCreatedAt.Add(time.Hour))
	if err := repo.Create(ctx, older); err != nil {
		t.Fatal(err)
	}
	if err := repo.Create(ctx, newer); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.MarkRead(ctx, "NTF-0002", 5); err != nil {
		t.Fatal(err)
	}

	rows, err := repo.List(ctx, secondary.NotificationFilters{RecipientID: 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].ID != "NTF-0001" {
		t.Errorf("unread row must come first, got %s", rows[0].ID)
	}

	unread, err := repo.List(ctx, secondary.NotificationFilters{RecipientID: 5, UnreadOnly: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(unread) != 1 || unread[0].ID != "NTF-0001" {
		t.Errorf("unexpected unread filter result: %+v", unread)
	}
}

func TestNotificationRepository_MarkEscalatedConditional(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewNotificationRepository(conn)
	ctx := context.Background()
	seedUser(t, conn, 5, "Иванов И.И.", "installer")

	if err := repo.Create(ctx, testNotification("NTF-0001", 5, "task_assigned", testCreatedAt)); err != nil {
		t.Fatal(err)
	}

	applied, err := repo.MarkEscalated(ctx, "NTF-0001", 1)
	if err != nil || !applied {
		t.Fatalf("expected first escalation to apply, got %v (%v)", applied, err)
	}

	// Same level again: the guard rejects it.
	applied, err = repo.MarkEscalated(ctx, "NTF-0001", 1)
	if err != nil || applied {
		t.Errorf("repeat escalation must not apply, got %v (%v)", applied, err)
	}

	// Lower level: monotonicity holds.
	applied, _ = repo.MarkEscalated(ctx, "NTF-0001", 0)
	if applied {
		t.Error("level must never decrease")
	}

	// Read stops the clock entirely.
	if _, err := repo.MarkRead(ctx, "NTF-0001", 5); err != nil {
		t.Fatal(err)
	}
	applied, _ = repo.MarkEscalated(ctx, "NTF-0001", 2)
	if applied {
		t.Error("read notification must not escalate")
	}
}

func TestNotificationRepository_ListPendingEscalationFiltersTypes(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewNotificationRepository(conn)
	ctx := context.Background()
	seedUser(t, conn, 5, "Иванов И.И.", "installer")

	// task_assigned has an escalation rule, material_received does not.
	if err := repo.Create(ctx, testNotification("NTF-0001", 5, "task_assigned", testCreatedAt)); err != nil {
		t.Fatal(err)
	}
	quiet := testNotification("NTF-0002", 5, "material_received", testCreatedAt)
	quiet.Category = models.CategorySupply
	if err := repo.Create(ctx, quiet); err != nil {
		t.Fatal(err)
	}
	// An informational copy without buttons never escalates, whatever its type.
	banner := testNotification("NTF-0003", 5, "task_assigned", testCreatedAt)
	banner.IsActionable = false
	if err := repo.Create(ctx, banner); err != nil {
		t.Fatal(err)
	}

	pending, err := repo.ListPendingEscalation(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].ID != "NTF-0001" {
		t.Errorf("only actionable escalating types are pending, got %+v", pending)
	}
}

func TestNotificationRepository_MarkActionedOnce(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewNotificationRepository(conn)
	ctx := context.Background()
	seedUser(t, conn, 5, "Иванов И.И.", "installer")

	if err := repo.Create(ctx, testNotification("NTF-0001", 5, "material_shipped", testCreatedAt)); err != nil {
		t.Fatal(err)
	}

	applied, err := repo.MarkActioned(ctx, "NTF-0001", 5, "received")
	if err != nil || !applied {
		t.Fatalf("expected action to apply, got %v (%v)", applied, err)
	}
	applied, err = repo.MarkActioned(ctx, "NTF-0001", 5, "not_arrived")
	if err != nil || applied {
		t.Errorf("second action must not apply, got %v (%v)", applied, err)
	}

	got, err := repo.GetByID(ctx, "NTF-0001")
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsRead {
		t.Error("acting must mark the notification read")
	}
}

func TestNotificationRepository_DeleteExpired(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewNotificationRepository(conn)
	ctx := context.Background()
	seedUser(t, conn, 5, "Иванов И.И.", "installer")

	expired := testNotification("NTF-0001", 5, "plan_fact_request", testCreatedAt)
	expired.ExpiresAt = sql.NullTime{Time: testCreatedAt.Add(2 * time.Hour), Valid: true}
	keeper := testNotification("NTF-0002", 5, "task_assigned", testCreatedAt)
	if err := repo.Create(ctx, expired); err != nil {
		t.Fatal(err)
	}
	if err := repo.Create(ctx, keeper); err != nil {
		t.Fatal(err)
	}

	removed, err := repo.DeleteExpired(ctx, testCreatedAt.Add(3*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removed, got %d", removed)
	}
	if _, err := repo.GetByID(ctx, "NTF-0002"); err != nil {
		t.Error("notification without expiry must survive")
	}
}
