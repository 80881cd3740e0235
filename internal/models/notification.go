// Package models contains domain types for brigadir entities.
// SQL persistence lives in internal/adapters/sqlite/*.go
package models

import (
	"database/sql"
	"time"
)

// Notification priority constants
const (
	PriorityLow      = "low"
	PriorityNormal   = "normal"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// Notification category constants
const (
	CategoryTasks        = "tasks"
	CategoryGPR          = "gpr"
	CategorySupply       = "supply"
	CategoryConstruction = "construction"
	CategoryEscalation   = "escalation"
	CategorySystem       = "system"
)

// Escalation level bounds. Level 0 means not escalated; level 3 is terminal.
const (
	EscalationNone = 0
	EscalationMax  = 3
)

// Action is an inline response offered with a notification.
type Action struct {
	Key   string
	Label string
	Style string // 'primary', 'success', 'danger', 'default'
}

// Notification represents a targeted notification entity.
// EscalationLevel is monotonically non-decreasing for the lifetime of the row
// and is always computed against CreatedAt of this (original) notification;
// escalation copies fired at L1..L3 are separate rows with their own CreatedAt.
type Notification struct {
	ID              string
	RecipientID     int64
	Type            string // lower-cased event kind, e.g. 'task_assigned'
	Priority        string
	Category        string
	Title           string
	Body            string
	EntityType      sql.NullString
	EntityID        sql.NullInt64
	ObjectID        sql.NullInt64
	ObjectName      sql.NullString
	IsRead          bool
	IsActionable    bool
	EscalationLevel int
	Actions         []Action
	DeepLink        sql.NullString
	TriggeredBy     sql.NullString // display name of the originating actor
	CreatedAt       time.Time
	ExpiresAt       sql.NullTime
}
