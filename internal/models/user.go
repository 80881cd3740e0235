package models

import (
	"database/sql"
	"time"
)

// Object-scoped role constants (mirrors the directory's role vocabulary).
const (
	RoleAdmin           = "admin"
	RoleProjectManager  = "project_manager"
	RoleDepartmentHead  = "department_head"
	RoleSupply          = "supply"
	RoleProduction      = "production"
	RoleConstructionITR = "construction_itr"
	RolePTO             = "pto"
	RoleDirector        = "director"
	RoleInstaller       = "installer"
)

// User represents a directory user reachable over the push channel.
type User struct {
	ID       int64
	FullName string
	ChatID   int64 // external push identity (Telegram chat)
	Role     string
	IsActive bool
}

// Task status constants
const (
	TaskStatusNew        = "new"
	TaskStatusAssigned   = "assigned"
	TaskStatusInProgress = "in_progress"
	TaskStatusReview     = "review"
	TaskStatusDone       = "done"
	TaskStatusOverdue    = "overdue"
	TaskStatusBlocked    = "blocked"
)

// Task is the minimal task shape the engine's sweeps operate on. Full task
// CRUD belongs to the external REST layer.
type Task struct {
	ID         int64
	ObjectID   int64
	Title      string
	AssigneeID sql.NullInt64
	Deadline   sql.NullTime
	Status     string
}

// Supply order status constants
const (
	SupplyStatusRequested = "requested"
	SupplyStatusApproved  = "approved"
	SupplyStatusOrdered   = "ordered"
	SupplyStatusShipped   = "shipped"
	SupplyStatusDelivered = "delivered"
	SupplyStatusDelayed   = "delayed"
)

// SupplyOrder is the minimal supply shape for the delayed-supply sweep.
type SupplyOrder struct {
	ID           int64
	ObjectID     int64
	MaterialName string
	ExpectedDate sql.NullTime
	Status       string
}

// Object status constants
const (
	ObjectStatusPlanning = "planning"
	ObjectStatusActive   = "active"
	ObjectStatusDone     = "done"
)

// ConstructionObject is a building site the engine scopes roles and schedules to.
type ConstructionObject struct {
	ID        int64
	Name      string
	Status    string
	CreatedAt time.Time
}
