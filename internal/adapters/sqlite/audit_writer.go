package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/example/brigadir/internal/ctxutil"
	"github.com/example/brigadir/internal/ports/secondary"
)

// AuditWriter implements secondary.AuditWriter against the audit_log table.
// Only context key names reach the log, never payload values.
type AuditWriter struct {
	db *sql.DB
}

// NewAuditWriter creates a new SQLite audit writer.
func NewAuditWriter(db *sql.DB) *AuditWriter {
	return &AuditWriter{db: db}
}

// LogEvent records a fired event.
func (w *AuditWriter) LogEvent(ctx context.Context, eventKind, entityType string, entityID int64, contextKeys []string) error {
	details := "keys=" + strings.Join(contextKeys, ",")
	return w.write(ctx, "event:"+eventKind, entityType, entityID, details)
}

// LogEscalation records a level transition on a notification.
func (w *AuditWriter) LogEscalation(ctx context.Context, notificationID string, fromLevel, toLevel int) error {
	details := fmt.Sprintf("from=%d to=%d", fromLevel, toLevel)
	return w.writeText(ctx, "escalation", "notification", notificationID, details)
}

// LogCascade records the outcome of a cascade recalculation.
func (w *AuditWriter) LogCascade(ctx context.Context, objectID int64, material string, affected int, aborted bool) error {
	payload, err := json.Marshal(map[string]any{
		"material": material,
		"affected": affected,
		"aborted":  aborted,
	})
	if err != nil {
		return err
	}
	return w.write(ctx, "cascade", "object", objectID, string(payload))
}

// LogShift records one schedule item moved by a cascade.
func (w *AuditWriter) LogShift(ctx context.Context, itemID int64, oldStart, oldEnd, newStart, newEnd time.Time) error {
	payload, err := json.Marshal(map[string]string{
		"old_start": oldStart.Format("2006-01-02"),
		"old_end":   oldEnd.Format("2006-01-02"),
		"new_start": newStart.Format("2006-01-02"),
		"new_end":   newEnd.Format("2006-01-02"),
	})
	if err != nil {
		return err
	}
	return w.write(ctx, "shift", "schedule_item", itemID, string(payload))
}

// LogAction records a user acting on a notification.
func (w *AuditWriter) LogAction(ctx context.Context, notificationID, actionKey string) error {
	return w.writeText(ctx, "action", "notification", notificationID, "key="+actionKey)
}

func (w *AuditWriter) write(ctx context.Context, action, entityType string, entityID int64, details string) error {
	var id sql.NullInt64
	if entityID != 0 {
		id = sql.NullInt64{Int64: entityID, Valid: true}
	}
	_, err := w.db.ExecContext(ctx,
		"INSERT INTO audit_log (actor, action, entity_type, entity_id, details) VALUES (?, ?, ?, ?, ?)",
		actorLabel(ctx), action, nullString(entityType), id, nullString(details))
	if err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

// writeText is write for entities with string IDs; the ID lands in details.
func (w *AuditWriter) writeText(ctx context.Context, action, entityType, entityID, details string) error {
	return w.write(ctx, action, entityType, 0, "id="+entityID+" "+details)
}

func actorLabel(ctx context.Context) string {
	if id := ctxutil.ActorFromContext(ctx); id != 0 {
		return "user:" + strconv.FormatInt(id, 10)
	}
	return "system"
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// Ensure AuditWriter implements the interface
var _ secondary.AuditWriter = (*AuditWriter)(nil)
