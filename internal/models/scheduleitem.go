package models

import (
	"database/sql"
	"time"
)

// ScheduleItem represents one dated work item of an object's production
// schedule (GPR). DependsOn holds predecessor item IDs; Material is set when
// the item cannot start before that material is on site.
type ScheduleItem struct {
	ID           int64
	ObjectID     int64
	Title        string
	Department   sql.NullString
	Material     sql.NullString
	PlannedStart time.Time
	PlannedEnd   time.Time
	ActualEnd    sql.NullTime
	DependsOn    []int64
}

// ItemShift records one applied cascade adjustment, kept for the audit trail.
type ItemShift struct {
	ItemID   int64
	OldStart time.Time
	OldEnd   time.Time
	NewStart time.Time
	NewEnd   time.Time
}
