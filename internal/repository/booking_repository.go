package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/library-seat-api/internal/models"
)

// BookingRepository manages persistence for bookings.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository constructs a BookingRepository.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// ExistsForSlot reports whether the seat is already held for the shift on the date.
func (r *BookingRepository) ExistsForSlot(ctx context.Context, exec sqlx.ExtContext, shiftID, seatID int64, bookingDate string) (bool, error) {
	query := exec.Rebind(`SELECT 1 FROM bookings WHERE shift_id = ? AND seat_id = ? AND booking_date = ? LIMIT 1`)
	var exists int
	if err := sqlx.GetContext(ctx, exec, &exists, query, shiftID, seatID, bookingDate); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check booking slot: %w", err)
	}
	return true, nil
}

// Create inserts a booking and fills in its ID. Callers must set CreatedAt.
func (r *BookingRepository) Create(ctx context.Context, exec sqlx.ExtContext, booking *models.Booking) error {
	query := exec.Rebind(`INSERT INTO bookings (student_id, shift_id, seat_id, booking_date, created_at) VALUES (?, ?, ?, ?, ?) RETURNING id`)
	if err := exec.QueryRowxContext(ctx, query, booking.StudentID, booking.ShiftID, booking.SeatID, booking.BookingDate, booking.CreatedAt.Time).Scan(&booking.ID); err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

// FindOwner loads the seat and student name of a booking; sql.ErrNoRows when absent.
func (r *BookingRepository) FindOwner(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.BookingOwner, error) {
	query := exec.Rebind(`SELECT b.id, b.seat_id, st.name AS student_name
        FROM bookings b
        JOIN students st ON b.student_id = st.id
        WHERE b.id = ?`)
	var owner models.BookingOwner
	if err := sqlx.GetContext(ctx, exec, &owner, query, id); err != nil {
		return nil, err
	}
	return &owner, nil
}

// Delete removes a booking.
func (r *BookingRepository) Delete(ctx context.Context, exec sqlx.ExtContext, id int64) error {
	if _, err := exec.ExecContext(ctx, exec.Rebind(`DELETE FROM bookings WHERE id = ?`), id); err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	return nil
}

// CountByShift counts bookings of any date that reference the shift.
func (r *BookingRepository) CountByShift(ctx context.Context, exec sqlx.ExtContext, shiftID int64) (int, error) {
	var count int
	if err := sqlx.GetContext(ctx, exec, &count, exec.Rebind(`SELECT COUNT(*) FROM bookings WHERE shift_id = ?`), shiftID); err != nil {
		return 0, fmt.Errorf("count shift bookings: %w", err)
	}
	return count, nil
}

// CountBySeat counts bookings of any date that reference the seat.
func (r *BookingRepository) CountBySeat(ctx context.Context, exec sqlx.ExtContext, seatID int64) (int, error) {
	var count int
	if err := sqlx.GetContext(ctx, exec, &count, exec.Rebind(`SELECT COUNT(*) FROM bookings WHERE seat_id = ?`), seatID); err != nil {
		return 0, fmt.Errorf("count seat bookings: %w", err)
	}
	return count, nil
}
