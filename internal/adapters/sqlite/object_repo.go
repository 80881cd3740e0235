package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/brigadir/internal/models"
	"github.com/example/brigadir/internal/ports/secondary"
)

// ObjectRepository implements secondary.ObjectRepository with SQLite.
type ObjectRepository struct {
	db *sql.DB
}

// NewObjectRepository creates a new SQLite object repository.
func NewObjectRepository(db *sql.DB) *ObjectRepository {
	return &ObjectRepository{db: db}
}

// GetByID retrieves a construction object by its ID.
func (r *ObjectRepository) GetByID(ctx context.Context, id int64) (*models.ConstructionObject, error) {
	o := &models.ConstructionObject{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, status, created_at FROM objects WHERE id = ?", id,
	).Scan(&o.ID, &o.Name, &o.Status, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("object %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	return o, nil
}

// ListActive returns objects currently in work.
func (r *ObjectRepository) ListActive(ctx context.Context) ([]*models.ConstructionObject, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, status, created_at FROM objects WHERE status = 'active' ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list active objects: %w", err)
	}
	defer rows.Close()

	var objects []*models.ConstructionObject
	for rows.Next() {
		o := &models.ConstructionObject{}
		if err := rows.Scan(&o.ID, &o.Name, &o.Status, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan object: %w", err)
		}
		objects = append(objects, o)
	}
	return objects, rows.Err()
}

// Ensure ObjectRepository implements the interface
var _ secondary.ObjectRepository = (*ObjectRepository)(nil)
