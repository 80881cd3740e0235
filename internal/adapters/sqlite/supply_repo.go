package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/brigadir/internal/models"
	"github.com/example/brigadir/internal/ports/secondary"
)

// SupplyRepository implements secondary.SupplyRepository with SQLite.
type SupplyRepository struct {
	db *sql.DB
}

// NewSupplyRepository creates a new SQLite supply repository.
func NewSupplyRepository(db *sql.DB) *SupplyRepository {
	return &SupplyRepository{db: db}
}

// GetByID retrieves a supply order by its ID.
func (r *SupplyRepository) GetByID(ctx context.Context, id int64) (*models.SupplyOrder, error) {
	o := &models.SupplyOrder{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, object_id, material_name, expected_date, status FROM supply_orders WHERE id = ?", id,
	).Scan(&o.ID, &o.ObjectID, &o.MaterialName, &o.ExpectedDate, &o.Status)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("supply order %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get supply order: %w", err)
	}
	return o, nil
}

// ListDelayed returns ordered positions whose expected delivery date has
// passed without a shipment.
func (r *SupplyRepository) ListDelayed(ctx context.Context, now time.Time) ([]*models.SupplyOrder, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, object_id, material_name, expected_date, status FROM supply_orders
		 WHERE status = 'ordered' AND expected_date IS NOT NULL AND expected_date < ?
		 ORDER BY id`,
		now)
	if err != nil {
		return nil, fmt.Errorf("failed to list delayed supplies: %w", err)
	}
	defer rows.Close()

	var orders []*models.SupplyOrder
	for rows.Next() {
		o := &models.SupplyOrder{}
		if err := rows.Scan(&o.ID, &o.ObjectID, &o.MaterialName, &o.ExpectedDate, &o.Status); err != nil {
			return nil, fmt.Errorf("failed to scan supply order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// MarkDelayed flips a supply order to the delayed status, one-shot.
func (r *SupplyRepository) MarkDelayed(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE supply_orders SET status = 'delayed' WHERE id = ? AND status = 'ordered'", id)
	if err != nil {
		return false, fmt.Errorf("failed to mark supply delayed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// CountDelayed returns the number of currently delayed supply orders.
func (r *SupplyRepository) CountDelayed(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM supply_orders WHERE status = 'delayed'",
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count delayed supplies: %w", err)
	}
	return count, nil
}

// Ensure SupplyRepository implements the interface
var _ secondary.SupplyRepository = (*SupplyRepository)(nil)
