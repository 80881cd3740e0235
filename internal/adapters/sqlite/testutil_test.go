package sqlite

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/brigadir/internal/db"
	"github.com/example/brigadir/internal/models"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}
	if _, err := conn.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	return conn
}

func seedUser(t *testing.T, conn *sql.DB, id int64, name, role string) {
	t.Helper()
	_, err := conn.Exec(
		"INSERT INTO users (id, full_name, chat_id, role, is_active) VALUES (?, ?, ?, ?, 1)",
		id, name, id*100, role)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
}

func seedObject(t *testing.T, conn *sql.DB, id int64, name, status string) {
	t.Helper()
	_, err := conn.Exec("INSERT INTO objects (id, name, status) VALUES (?, ?, ?)", id, name, status)
	if err != nil {
		t.Fatalf("failed to seed object: %v", err)
	}
}

func seedObjectRole(t *testing.T, conn *sql.DB, objectID, userID int64, role string) {
	t.Helper()
	_, err := conn.Exec(
		"INSERT INTO object_roles (object_id, user_id, role) VALUES (?, ?, ?)",
		objectID, userID, role)
	if err != nil {
		t.Fatalf("failed to seed object role: %v", err)
	}
}

func seedTask(t *testing.T, conn *sql.DB, id, objectID, assigneeID int64, title string, deadline time.Time, status string) {
	t.Helper()
	_, err := conn.Exec(
		"INSERT INTO tasks (id, object_id, title, assignee_id, deadline, status) VALUES (?, ?, ?, ?, ?, ?)",
		id, objectID, title, assigneeID, deadline, status)
	if err != nil {
		t.Fatalf("failed to seed task: %v", err)
	}
}

func seedSupplyOrder(t *testing.T, conn *sql.DB, id, objectID int64, material string, expected time.Time, status string) {
	t.Helper()
	_, err := conn.Exec(
		"INSERT INTO supply_orders (id, object_id, material_name, expected_date, status) VALUES (?, ?, ?, ?, ?)",
		id, objectID, material, expected, status)
	if err != nil {
		t.Fatalf("failed to seed supply order: %v", err)
	}
}

func seedScheduleItem(t *testing.T, conn *sql.DB, id, objectID int64, title, material string, start, end time.Time, deps ...int64) {
	t.Helper()
	var mat any
	if material != "" {
		mat = material
	}
	_, err := conn.Exec(
		"INSERT INTO schedule_items (id, object_id, title, material, planned_start, planned_end) VALUES (?, ?, ?, ?, ?, ?)",
		id, objectID, title, mat, start, end)
	if err != nil {
		t.Fatalf("failed to seed schedule item: %v", err)
	}
	for _, dep := range deps {
		_, err := conn.Exec(
			"INSERT INTO schedule_item_deps (item_id, depends_on_id) VALUES (?, ?)", id, dep)
		if err != nil {
			t.Fatalf("failed to seed dependency edge: %v", err)
		}
	}
}

func testNotification(id string, recipientID int64, typ string, createdAt time.Time) *models.Notification {
	return &models.Notification{
		ID:           id,
		RecipientID:  recipientID,
		Type:         typ,
		Priority:     models.PriorityNormal,
		Category:     models.CategoryTasks,
		Title:        "🔧 ЗАДАЧА: Сварка каркаса",
		Body:         "Назначена вам на объекте «Башня А».",
		IsActionable: true,
		CreatedAt:    createdAt,
	}
}
