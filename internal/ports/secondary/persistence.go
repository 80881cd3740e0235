// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"time"

	"github.com/example/brigadir/internal/models"
)

// NotificationRepository defines the secondary port for notification persistence.
type NotificationRepository interface {
	// Create persists a new notification row.
	Create(ctx context.Context, n *models.Notification) error

	// GetByID retrieves a notification by its ID.
	GetByID(ctx context.Context, id string) (*models.Notification, error)

	// GetNextID returns the next available notification ID.
	GetNextID(ctx context.Context) (string, error)

	// List retrieves notifications matching the given filters,
	// newest first.
	List(ctx context.Context, filters NotificationFilters) ([]*models.Notification, error)

	// CountUnread returns the number of unread notifications for a recipient.
	CountUnread(ctx context.Context, recipientID int64) (int, error)

	// ListPendingEscalation returns unread notifications whose type has an
	// escalation rule and whose level is below the maximum.
	ListPendingEscalation(ctx context.Context) ([]*models.Notification, error)

	// MarkEscalated raises the escalation level of a notification. The update
	// is conditional: it only applies while the stored level is below newLevel
	// and the notification is still unread. Returns false when another sweep
	// or a read got there first.
	MarkEscalated(ctx context.Context, id string, newLevel int) (bool, error)

	// MarkRead marks a notification read for its recipient. Returns false
	// when the notification was already read.
	MarkRead(ctx context.Context, id string, recipientID int64) (bool, error)

	// MarkActioned records the action taken on an actionable notification and
	// marks it read. Returns false when it was already actioned or read.
	MarkActioned(ctx context.Context, id string, recipientID int64, actionKey string) (bool, error)

	// DeleteExpired removes notifications past their expiry. Returns the
	// number of rows removed.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// NotificationFilters contains filter options for querying notifications.
type NotificationFilters struct {
	RecipientID   int64
	Category      string
	UnreadOnly    bool
	ObjectID      int64
	MinEscalation int
	Limit         int
}

// ScheduleItemRepository defines the secondary port for schedule persistence.
type ScheduleItemRepository interface {
	// ItemsForObject retrieves every schedule item of an object together with
	// its dependency edges.
	ItemsForObject(ctx context.Context, objectID int64) ([]*models.ScheduleItem, error)

	// DependentsOfMaterial returns the IDs of items on the object that
	// directly require the named material.
	DependentsOfMaterial(ctx context.Context, objectID int64, material string) ([]int64, error)

	// UpdateDates rewrites the planned window of one item.
	UpdateDates(ctx context.Context, itemID int64, start, end time.Time) error
}

// TaskRepository defines the secondary port for task persistence.
type TaskRepository interface {
	// GetByID retrieves a task by its ID.
	GetByID(ctx context.Context, id int64) (*models.Task, error)

	// ListOverdue returns tasks in progress whose deadline has passed.
	ListOverdue(ctx context.Context, now time.Time) ([]*models.Task, error)

	// ListDueWithin returns tasks in progress whose deadline falls inside
	// (now, now+window].
	ListDueWithin(ctx context.Context, now time.Time, window time.Duration) ([]*models.Task, error)

	// CountOpenForObject returns the number of unfinished tasks on an object.
	CountOpenForObject(ctx context.Context, objectID int64) (int, error)

	// MarkOverdue flips a task to the overdue status so the sweep fires its
	// event exactly once. Returns false when the task is no longer eligible.
	MarkOverdue(ctx context.Context, id int64) (bool, error)
}

// SupplyRepository defines the secondary port for supply order persistence.
type SupplyRepository interface {
	// GetByID retrieves a supply order by its ID.
	GetByID(ctx context.Context, id int64) (*models.SupplyOrder, error)

	// ListDelayed returns ordered supply positions whose expected delivery
	// date has passed without a shipment.
	ListDelayed(ctx context.Context, now time.Time) ([]*models.SupplyOrder, error)

	// MarkDelayed flips a supply order to the delayed status so the sweep
	// fires its event exactly once. Returns false when no longer eligible.
	MarkDelayed(ctx context.Context, id int64) (bool, error)

	// CountDelayed returns the number of currently delayed supply orders.
	CountDelayed(ctx context.Context) (int, error)
}

// ObjectRepository defines the secondary port for construction object persistence.
type ObjectRepository interface {
	// GetByID retrieves a construction object by its ID.
	GetByID(ctx context.Context, id int64) (*models.ConstructionObject, error)

	// ListActive returns objects not yet completed or archived.
	ListActive(ctx context.Context) ([]*models.ConstructionObject, error)
}

// Directory defines the secondary port for resolving abstract recipient
// rules against users and object role assignments.
type Directory interface {
	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, id int64) (*models.User, error)

	// UsersWithRole returns active users holding the role on the object.
	// An objectID of 0 matches global role holders (admins, directors).
	UsersWithRole(ctx context.Context, objectID int64, role string) ([]int64, error)

	// DepartmentHead returns the head of a department on the object, or 0
	// when the department has no head assigned.
	DepartmentHead(ctx context.Context, objectID int64, department string) (int64, error)

	// AllDepartmentHeads returns every department head assigned to the object.
	AllDepartmentHeads(ctx context.Context, objectID int64) ([]int64, error)

	// AllTeam returns every active user assigned to the object.
	AllTeam(ctx context.Context, objectID int64) ([]int64, error)
}
