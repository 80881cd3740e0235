package db

// SchemaSQL is the complete schema for fresh installs.
//
// This is the single source of truth for the database schema. Tests use it
// via GetSchemaSQL() instead of hardcoding CREATE TABLE statements, so a
// repository referencing a column that does not exist here fails immediately
// with "no such column". Keep it in sync with migrations.go.
const SchemaSQL = `
-- Users (directory of people reachable over the push channel)
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	full_name TEXT NOT NULL,
	chat_id INTEGER NOT NULL DEFAULT 0,
	role TEXT NOT NULL CHECK(role IN ('admin', 'project_manager', 'department_head', 'supply', 'production', 'construction_itr', 'pto', 'director', 'installer')),
	is_active INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Construction objects
CREATE TABLE IF NOT EXISTS objects (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('planning', 'active', 'done')) DEFAULT 'planning',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Object-scoped role assignments
CREATE TABLE IF NOT EXISTS object_roles (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	object_id INTEGER NOT NULL,
	user_id INTEGER NOT NULL,
	role TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (object_id) REFERENCES objects(id) ON DELETE CASCADE,
	FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
	UNIQUE(object_id, user_id, role)
);

-- Tasks (the slice the overdue and deadline sweeps need)
CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	object_id INTEGER NOT NULL,
	title TEXT NOT NULL,
	assignee_id INTEGER,
	deadline DATETIME,
	status TEXT NOT NULL CHECK(status IN ('new', 'assigned', 'in_progress', 'review', 'done', 'overdue', 'blocked')) DEFAULT 'new',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (object_id) REFERENCES objects(id) ON DELETE CASCADE,
	FOREIGN KEY (assignee_id) REFERENCES users(id) ON DELETE SET NULL
);

-- Supply orders (the slice the delayed-supply sweep needs)
CREATE TABLE IF NOT EXISTS supply_orders (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	object_id INTEGER NOT NULL,
	material_name TEXT NOT NULL,
	expected_date DATETIME,
	status TEXT NOT NULL CHECK(status IN ('requested', 'approved', 'ordered', 'shipped', 'delivered', 'delayed')) DEFAULT 'requested',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (object_id) REFERENCES objects(id) ON DELETE CASCADE
);

-- Schedule items (production schedule rows the cascade shifts)
CREATE TABLE IF NOT EXISTS schedule_items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	object_id INTEGER NOT NULL,
	title TEXT NOT NULL,
	department TEXT,
	material TEXT,
	planned_start DATETIME NOT NULL,
	planned_end DATETIME NOT NULL,
	actual_end DATETIME,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (object_id) REFERENCES objects(id) ON DELETE CASCADE
);

-- Materialised dependency edges between schedule items
CREATE TABLE IF NOT EXISTS schedule_item_deps (
	item_id INTEGER NOT NULL,
	depends_on_id INTEGER NOT NULL,
	PRIMARY KEY (item_id, depends_on_id),
	FOREIGN KEY (item_id) REFERENCES schedule_items(id) ON DELETE CASCADE,
	FOREIGN KEY (depends_on_id) REFERENCES schedule_items(id) ON DELETE CASCADE
);

-- Notifications
CREATE TABLE IF NOT EXISTS notifications (
	id TEXT PRIMARY KEY,
	recipient_id INTEGER NOT NULL,
	type TEXT NOT NULL,
	priority TEXT NOT NULL CHECK(priority IN ('low', 'normal', 'high', 'critical')) DEFAULT 'normal',
	category TEXT NOT NULL CHECK(category IN ('tasks', 'gpr', 'supply', 'construction', 'escalation', 'system')),
	title TEXT NOT NULL,
	body TEXT NOT NULL DEFAULT '',
	entity_type TEXT,
	entity_id INTEGER,
	object_id INTEGER,
	object_name TEXT,
	is_read INTEGER NOT NULL DEFAULT 0,
	is_actionable INTEGER NOT NULL DEFAULT 0,
	escalation_level INTEGER NOT NULL DEFAULT 0 CHECK(escalation_level BETWEEN 0 AND 3),
	actions_json TEXT,
	deep_link TEXT,
	triggered_by TEXT,
	action_taken TEXT,
	created_at DATETIME NOT NULL,
	expires_at DATETIME,
	FOREIGN KEY (recipient_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_notifications_pending_escalation
	ON notifications(is_read, escalation_level) WHERE is_read = 0;

CREATE INDEX IF NOT EXISTS idx_notifications_recipient
	ON notifications(recipient_id, created_at);

-- Audit log (append-only event trail; payload values never land here)
CREATE TABLE IF NOT EXISTS audit_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	actor TEXT NOT NULL DEFAULT 'system',
	action TEXT NOT NULL,
	entity_type TEXT,
	entity_id INTEGER,
	details TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// InitSchema creates the schema on a fresh database and runs any pending
// migrations on an existing one.
func InitSchema() error {
	db, err := GetDB()
	if err != nil {
		return err
	}

	var tableCount int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount == 0 {
		if _, err := db.Exec(SchemaSQL); err != nil {
			return err
		}
		if _, err := db.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY,
				applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)
		`); err != nil {
			return err
		}
		// Mark all migrations as applied for fresh installs.
		for _, m := range migrations {
			if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
				return err
			}
		}
		return nil
	}

	return RunMigrations()
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
