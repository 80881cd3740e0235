package db

import (
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.DB) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "add_action_taken_to_notifications",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_notification_indexes",
		Up:      migrationV2,
	},
}

// RunMigrations applies every migration newer than the recorded schema version.
func RunMigrations() error {
	db, err := GetDB()
	if err != nil {
		return err
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	for _, m := range migrations {
		var applied int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_version WHERE version = ?", m.Version).Scan(&applied)
		if err != nil {
			return fmt.Errorf("failed to check migration %d: %w", m.Version, err)
		}
		if applied > 0 {
			continue
		}
		if err := m.Up(db); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
		}
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
	}
	return nil
}

func migrationV1(db *sql.DB) error {
	// Early installs predate the inline action buttons.
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM pragma_table_info('notifications') WHERE name = 'action_taken'").Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err = db.Exec("ALTER TABLE notifications ADD COLUMN action_taken TEXT")
	return err
}

func migrationV2(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_notifications_pending_escalation
			ON notifications(is_read, escalation_level) WHERE is_read = 0;
		CREATE INDEX IF NOT EXISTS idx_notifications_recipient
			ON notifications(recipient_id, created_at);
	`)
	return err
}
