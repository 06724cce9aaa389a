package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/library-seat-api/internal/models"
)

// SeatRepository manages persistence for seats.
type SeatRepository struct {
	db *sqlx.DB
}

// NewSeatRepository constructs a SeatRepository.
func NewSeatRepository(db *sqlx.DB) *SeatRepository {
	return &SeatRepository{db: db}
}

// FindByID fetches a seat; sql.ErrNoRows when absent.
func (r *SeatRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.Seat, error) {
	query := exec.Rebind(`SELECT id, seat_number, COALESCE(status, 'available') AS status FROM seats WHERE id = ?`)
	var seat models.Seat
	if err := sqlx.GetContext(ctx, exec, &seat, query, id); err != nil {
		return nil, err
	}
	return &seat, nil
}

// ExistsByNumber checks whether a seat already carries the given number.
func (r *SeatRepository) ExistsByNumber(ctx context.Context, exec sqlx.ExtContext, seatNumber string) (bool, error) {
	query := exec.Rebind(`SELECT 1 FROM seats WHERE seat_number = ? LIMIT 1`)
	var exists int
	if err := sqlx.GetContext(ctx, exec, &exists, query, seatNumber); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check seat number: %w", err)
	}
	return true, nil
}

// Create inserts an available seat and fills in its ID.
func (r *SeatRepository) Create(ctx context.Context, exec sqlx.ExtContext, seat *models.Seat) error {
	if seat.Status == "" {
		seat.Status = models.SeatStatusAvailable
	}
	query := exec.Rebind(`INSERT INTO seats (seat_number, status) VALUES (?, ?) RETURNING id`)
	if err := exec.QueryRowxContext(ctx, query, seat.SeatNumber, string(seat.Status)).Scan(&seat.ID); err != nil {
		return fmt.Errorf("create seat: %w", err)
	}
	return nil
}

// SetStatus updates the cached occupancy flag.
func (r *SeatRepository) SetStatus(ctx context.Context, exec sqlx.ExtContext, id int64, status models.SeatStatus) error {
	if _, err := exec.ExecContext(ctx, exec.Rebind(`UPDATE seats SET status = ? WHERE id = ?`), string(status), id); err != nil {
		return fmt.Errorf("update seat status: %w", err)
	}
	return nil
}

// Delete removes a seat.
func (r *SeatRepository) Delete(ctx context.Context, exec sqlx.ExtContext, id int64) error {
	if _, err := exec.ExecContext(ctx, exec.Rebind(`DELETE FROM seats WHERE id = ?`), id); err != nil {
		return fmt.Errorf("delete seat: %w", err)
	}
	return nil
}
