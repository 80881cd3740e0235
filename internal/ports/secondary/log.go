package secondary

import (
	"context"
	"time"
)

// AuditWriter defines the interface for writing audit log entries.
// Implementations extract the actor from context. Event payload values never
// reach the audit log, only the context key names.
type AuditWriter interface {
	// LogEvent records a fired event: its kind, the entity it concerns and
	// the names of the context keys it carried.
	LogEvent(ctx context.Context, eventKind string, entityType string, entityID int64, contextKeys []string) error

	// LogEscalation records a level transition on a notification.
	LogEscalation(ctx context.Context, notificationID string, fromLevel, toLevel int) error

	// LogCascade records the outcome of a cascade recalculation.
	LogCascade(ctx context.Context, objectID int64, material string, affected int, aborted bool) error

	// LogShift records one schedule item moved by a cascade, with its old and
	// new planned window. The store overwrites the dates, so this entry is the
	// only durable record of where the item stood before the shift.
	LogShift(ctx context.Context, itemID int64, oldStart, oldEnd, newStart, newEnd time.Time) error

	// LogAction records a user acting on a notification.
	LogAction(ctx context.Context, notificationID string, actionKey string) error
}
