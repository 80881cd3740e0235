// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/brigadir/internal/core/escalation"
	"github.com/example/brigadir/internal/models"
	"github.com/example/brigadir/internal/ports/secondary"
)

// NotificationRepository implements secondary.NotificationRepository with SQLite.
type NotificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a new SQLite notification repository.
func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

const notificationColumns = `id, recipient_id, type, priority, category, title, body,
	entity_type, entity_id, object_id, object_name, is_read, is_actionable,
	escalation_level, actions_json, deep_link, triggered_by, created_at, expires_at`

// Create persists a new notification row.
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	var actionsJSON sql.NullString
	if len(n.Actions) > 0 {
		data, err := json.Marshal(n.Actions)
		if err != nil {
			return fmt.Errorf("failed to encode actions: %w", err)
		}
		actionsJSON = sql.NullString{String: string(data), Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (`+notificationColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.RecipientID, n.Type, n.Priority, n.Category, n.Title, n.Body,
		n.EntityType, n.EntityID, n.ObjectID, n.ObjectName, n.IsRead, n.IsActionable,
		n.EscalationLevel, actionsJSON, n.DeepLink, n.TriggeredBy, n.CreatedAt, n.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// GetByID retrieves a notification by its ID.
func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE id = ?`, id)
	n, err := scanNotification(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("notification %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return n, nil
}

// GetNextID returns the next available notification ID.
// NTF-XXXX format where XXXX is extracted from position 5 (NTF- is 4 chars).
func (r *NotificationRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 5) AS INTEGER)), 0) FROM notifications WHERE id LIKE 'NTF-%'",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next notification ID: %w", err)
	}
	return fmt.Sprintf("NTF-%04d", maxID+1), nil
}

// List retrieves notifications matching the given filters, unread first,
// newest first.
func (r *NotificationRepository) List(ctx context.Context, filters secondary.NotificationFilters) ([]*models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE 1=1`
	args := []any{}

	if filters.RecipientID != 0 {
		query += " AND recipient_id = ?"
		args = append(args, filters.RecipientID)
	}
	if filters.Category != "" {
		query += " AND category = ?"
		args = append(args, filters.Category)
	}
	if filters.UnreadOnly {
		query += " AND is_read = 0"
	}
	if filters.ObjectID != 0 {
		query += " AND object_id = ?"
		args = append(args, filters.ObjectID)
	}
	if filters.MinEscalation != 0 {
		query += " AND escalation_level >= ?"
		args = append(args, filters.MinEscalation)
	}

	query += " ORDER BY is_read ASC, created_at DESC"
	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// CountUnread returns the number of unread notifications for a recipient.
func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM notifications WHERE recipient_id = ? AND is_read = 0",
		recipientID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// ListPendingEscalation returns unread actionable notifications whose type
// has an escalation rule and whose level is below the maximum.
func (r *NotificationRepository) ListPendingEscalation(ctx context.Context) ([]*models.Notification, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+notificationColumns+` FROM notifications
		 WHERE is_read = 0 AND is_actionable = 1 AND escalation_level < ?
		 ORDER BY created_at ASC`,
		models.EscalationMax,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending notifications: %w", err)
	}
	defer rows.Close()

	var pending []*models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		if _, ok := escalation.RuleFor(n.Type); !ok {
			continue
		}
		pending = append(pending, n)
	}
	return pending, rows.Err()
}

// MarkEscalated raises the escalation level. The WHERE clause is the race
// guard: a concurrent read or a faster sweep leaves zero rows affected.
func (r *NotificationRepository) MarkEscalated(ctx context.Context, id string, newLevel int) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET escalation_level = ?
		 WHERE id = ? AND escalation_level < ? AND is_read = 0`,
		newLevel, id, newLevel,
	)
	if err != nil {
		return false, fmt.Errorf("failed to escalate notification: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check escalation update: %w", err)
	}
	return affected > 0, nil
}

// MarkRead marks a notification read for its recipient.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string, recipientID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1
		 WHERE id = ? AND recipient_id = ? AND is_read = 0`,
		id, recipientID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark notification read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// MarkActioned records the taken action and marks the notification read.
func (r *NotificationRepository) MarkActioned(ctx context.Context, id string, recipientID int64, actionKey string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1, action_taken = ?
		 WHERE id = ? AND recipient_id = ? AND is_read = 0 AND action_taken IS NULL`,
		actionKey, id, recipientID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to record action: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// DeleteExpired removes notifications past their expiry.
func (r *NotificationRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM notifications WHERE expires_at IS NOT NULL AND expires_at < ?", now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired notifications: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotification(row rowScanner) (*models.Notification, error) {
	n := &models.Notification{}
	var actionsJSON sql.NullString
	err := row.Scan(
		&n.ID, &n.RecipientID, &n.Type, &n.Priority, &n.Category, &n.Title, &n.Body,
		&n.EntityType, &n.EntityID, &n.ObjectID, &n.ObjectName, &n.IsRead, &n.IsActionable,
		&n.EscalationLevel, &actionsJSON, &n.DeepLink, &n.TriggeredBy, &n.CreatedAt, &n.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	if actionsJSON.Valid {
		if err := json.Unmarshal([]byte(actionsJSON.String), &n.Actions); err != nil {
			return nil, fmt.Errorf("failed to decode actions: %w", err)
		}
	}
	return n, nil
}

// Ensure NotificationRepository implements the interface
var _ secondary.NotificationRepository = (*NotificationRepository)(nil)
