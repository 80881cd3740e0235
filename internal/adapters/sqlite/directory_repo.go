package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/brigadir/internal/models"
	"github.com/example/brigadir/internal/ports/secondary"
)

// DirectoryRepository implements secondary.Directory with SQLite.
type DirectoryRepository struct {
	db *sql.DB
}

// NewDirectoryRepository creates a new SQLite directory repository.
func NewDirectoryRepository(db *sql.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

// GetUser retrieves a user by ID.
func (r *DirectoryRepository) GetUser(ctx context.Context, id int64) (*models.User, error) {
	u := &models.User{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, full_name, chat_id, role, is_active FROM users WHERE id = ?", id,
	).Scan(&u.ID, &u.FullName, &u.ChatID, &u.Role, &u.IsActive)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// UsersWithRole returns active users holding the role on the object. An
// objectID of 0 matches by global user role instead of object assignment.
func (r *DirectoryRepository) UsersWithRole(ctx context.Context, objectID int64, role string) ([]int64, error) {
	var rows *sql.Rows
	var err error
	if objectID == 0 {
		rows, err = r.db.QueryContext(ctx,
			"SELECT id FROM users WHERE role = ? AND is_active = 1 ORDER BY id", role)
	} else {
		rows, err = r.db.QueryContext(ctx,
			`SELECT u.id FROM users u
			 JOIN object_roles orl ON orl.user_id = u.id
			 WHERE orl.object_id = ? AND orl.role = ? AND u.is_active = 1
			 ORDER BY u.id`,
			objectID, role)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query role %s: %w", role, err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

// DepartmentHead returns the head of a department on the object, or 0 when
// none is assigned.
func (r *DirectoryRepository) DepartmentHead(ctx context.Context, objectID int64, department string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`SELECT u.id FROM users u
		 JOIN object_roles orl ON orl.user_id = u.id
		 WHERE orl.object_id = ? AND orl.role = ?
		   AND u.role = 'department_head' AND u.is_active = 1
		 ORDER BY u.id LIMIT 1`,
		objectID, department,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve department head: %w", err)
	}
	return id, nil
}

// AllDepartmentHeads returns every department head assigned to the object.
func (r *DirectoryRepository) AllDepartmentHeads(ctx context.Context, objectID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT u.id FROM users u
		 JOIN object_roles orl ON orl.user_id = u.id
		 WHERE orl.object_id = ? AND u.role = 'department_head' AND u.is_active = 1
		 ORDER BY u.id`,
		objectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query department heads: %w", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

// AllTeam returns every active user assigned to the object.
func (r *DirectoryRepository) AllTeam(ctx context.Context, objectID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT u.id FROM users u
		 JOIN object_roles orl ON orl.user_id = u.id
		 WHERE orl.object_id = ? AND u.is_active = 1
		 ORDER BY u.id`,
		objectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query object team: %w", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

func scanIDs(rows *sql.Rows) ([]int64, error) {
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Ensure DirectoryRepository implements the interface
var _ secondary.Directory = (*DirectoryRepository)(nil)
