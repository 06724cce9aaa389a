package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/library-seat-api/internal/models"
)

// ShiftRepository manages persistence for shifts.
type ShiftRepository struct {
	db *sqlx.DB
}

// NewShiftRepository constructs a ShiftRepository.
func NewShiftRepository(db *sqlx.DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

// List returns all shifts in creation order.
func (r *ShiftRepository) List(ctx context.Context) ([]models.Shift, error) {
	const query = `SELECT id, name, start_time, end_time, max_seats FROM shifts ORDER BY id`
	shifts := []models.Shift{}
	if err := r.db.SelectContext(ctx, &shifts, query); err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	return shifts, nil
}

// FindByID fetches a shift; sql.ErrNoRows when absent.
func (r *ShiftRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.Shift, error) {
	query := exec.Rebind(`SELECT id, name, start_time, end_time, max_seats FROM shifts WHERE id = ?`)
	var shift models.Shift
	if err := sqlx.GetContext(ctx, exec, &shift, query, id); err != nil {
		return nil, err
	}
	return &shift, nil
}

// Create inserts a shift and fills in its ID.
func (r *ShiftRepository) Create(ctx context.Context, exec sqlx.ExtContext, shift *models.Shift) error {
	query := exec.Rebind(`INSERT INTO shifts (name, start_time, end_time, max_seats) VALUES (?, ?, ?, ?) RETURNING id`)
	if err := exec.QueryRowxContext(ctx, query, shift.Name, shift.StartTime, shift.EndTime, shift.MaxSeats).Scan(&shift.ID); err != nil {
		return fmt.Errorf("create shift: %w", err)
	}
	return nil
}

// Delete removes a shift and reports whether a row was deleted.
func (r *ShiftRepository) Delete(ctx context.Context, exec sqlx.ExtContext, id int64) (bool, error) {
	res, err := exec.ExecContext(ctx, exec.Rebind(`DELETE FROM shifts WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("delete shift: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete shift rows affected: %w", err)
	}
	return affected > 0, nil
}
