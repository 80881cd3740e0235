package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/brigadir/internal/models"
	"github.com/example/brigadir/internal/ports/secondary"
)

// TaskRepository implements secondary.TaskRepository with SQLite.
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new SQLite task repository.
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = "id, object_id, title, assignee_id, deadline, status"

// GetByID retrieves a task by its ID.
func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	t := &models.Task{}
	err := r.db.QueryRowContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE id = ?", id,
	).Scan(&t.ID, &t.ObjectID, &t.Title, &t.AssigneeID, &t.Deadline, &t.Status)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

// ListOverdue returns tasks in progress whose deadline has passed.
func (r *TaskRepository) ListOverdue(ctx context.Context, now time.Time) ([]*models.Task, error) {
	return r.listTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE status = 'in_progress' AND deadline IS NOT NULL AND deadline < ?
		 ORDER BY id`,
		now)
}

// ListDueWithin returns tasks in progress whose deadline falls inside
// (now, now+window].
func (r *TaskRepository) ListDueWithin(ctx context.Context, now time.Time, window time.Duration) ([]*models.Task, error) {
	return r.listTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE status = 'in_progress' AND deadline IS NOT NULL AND deadline > ? AND deadline <= ?
		 ORDER BY id`,
		now, now.Add(window))
}

// CountOpenForObject returns the number of unfinished tasks on an object.
func (r *TaskRepository) CountOpenForObject(ctx context.Context, objectID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tasks WHERE object_id = ? AND status != 'done'",
		objectID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count open tasks: %w", err)
	}
	return count, nil
}

// MarkOverdue flips a task to the overdue status. The WHERE clause keeps the
// flip one-shot so the sweep fires the event exactly once.
func (r *TaskRepository) MarkOverdue(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE tasks SET status = 'overdue' WHERE id = ? AND status = 'in_progress'", id)
	if err != nil {
		return false, fmt.Errorf("failed to mark task overdue: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *TaskRepository) listTasks(ctx context.Context, query string, args ...any) ([]*models.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		t := &models.Task{}
		if err := rows.Scan(&t.ID, &t.ObjectID, &t.Title, &t.AssigneeID, &t.Deadline, &t.Status); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Ensure TaskRepository implements the interface
var _ secondary.TaskRepository = (*TaskRepository)(nil)
