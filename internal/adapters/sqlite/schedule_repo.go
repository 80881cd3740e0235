package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/brigadir/internal/models"
	"github.com/example/brigadir/internal/ports/secondary"
)

// ScheduleRepository implements secondary.ScheduleItemRepository with SQLite.
type ScheduleRepository struct {
	db *sql.DB
}

// NewScheduleRepository creates a new SQLite schedule repository.
func NewScheduleRepository(db *sql.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// ItemsForObject retrieves every schedule item of an object with its
// dependency edges.
func (r *ScheduleRepository) ItemsForObject(ctx context.Context, objectID int64) ([]*models.ScheduleItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, object_id, title, department, material, planned_start, planned_end, actual_end
		 FROM schedule_items WHERE object_id = ? ORDER BY id`,
		objectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule items: %w", err)
	}
	defer rows.Close()

	var items []*models.ScheduleItem
	byID := make(map[int64]*models.ScheduleItem)
	for rows.Next() {
		item := &models.ScheduleItem{}
		err := rows.Scan(&item.ID, &item.ObjectID, &item.Title, &item.Department,
			&item.Material, &item.PlannedStart, &item.PlannedEnd, &item.ActualEnd)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule item: %w", err)
		}
		items = append(items, item)
		byID[item.ID] = item
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	depRows, err := r.db.QueryContext(ctx,
		`SELECT d.item_id, d.depends_on_id FROM schedule_item_deps d
		 JOIN schedule_items i ON i.id = d.item_id
		 WHERE i.object_id = ? ORDER BY d.item_id, d.depends_on_id`,
		objectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule dependencies: %w", err)
	}
	defer depRows.Close()

	for depRows.Next() {
		var itemID, dependsOn int64
		if err := depRows.Scan(&itemID, &dependsOn); err != nil {
			return nil, fmt.Errorf("failed to scan dependency edge: %w", err)
		}
		if item, ok := byID[itemID]; ok {
			item.DependsOn = append(item.DependsOn, dependsOn)
		}
	}
	return items, depRows.Err()
}

// DependentsOfMaterial returns the IDs of items that directly require the
// named material.
func (r *ScheduleRepository) DependentsOfMaterial(ctx context.Context, objectID int64, material string) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM schedule_items WHERE object_id = ? AND material = ? ORDER BY id`,
		objectID, material)
	if err != nil {
		return nil, fmt.Errorf("failed to query material dependents: %w", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

// UpdateDates rewrites the planned window of one item.
func (r *ScheduleRepository) UpdateDates(ctx context.Context, itemID int64, start, end time.Time) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE schedule_items SET planned_start = ?, planned_end = ? WHERE id = ?",
		start, end, itemID)
	if err != nil {
		return fmt.Errorf("failed to update schedule item %d: %w", itemID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("schedule item %d not found", itemID)
	}
	return nil
}

// Ensure ScheduleRepository implements the interface
var _ secondary.ScheduleItemRepository = (*ScheduleRepository)(nil)
