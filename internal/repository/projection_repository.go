package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/library-seat-api/internal/models"
)

// ProjectionRepository runs the read-only joins behind the dashboard views.
type ProjectionRepository struct {
	db *sqlx.DB
}

// NewProjectionRepository constructs a ProjectionRepository.
func NewProjectionRepository(db *sqlx.DB) *ProjectionRepository {
	return &ProjectionRepository{db: db}
}

// SeatsWithOccupant joins every seat with whoever booked it. The join is not
// restricted by date, so a seat with several bookings yields several rows.
func (r *ProjectionRepository) SeatsWithOccupant(ctx context.Context, exec sqlx.ExtContext) ([]models.SeatView, error) {
	const query = `SELECT s.id, s.seat_number, COALESCE(s.status, 'available') AS status,
        st.name AS student_name, sh.name AS shift_name
        FROM seats s
        LEFT JOIN bookings b ON s.id = b.seat_id
        LEFT JOIN students st ON b.student_id = st.id
        LEFT JOIN shifts sh ON b.shift_id = sh.id
        ORDER BY s.id, b.id`
	seats := []models.SeatView{}
	if err := sqlx.SelectContext(ctx, exec, &seats, query); err != nil {
		return nil, fmt.Errorf("list seats with occupant: %w", err)
	}
	return seats, nil
}

// ActiveBookings lists bookings dated today or later, newest first.
func (r *ProjectionRepository) ActiveBookings(ctx context.Context, exec sqlx.ExtContext, today string) ([]models.BookingView, error) {
	query := exec.Rebind(`SELECT b.id, st.name AS student_name,
        COALESCE(NULLIF(st.phone, ''), 'N/A') AS student_phone,
        sh.name AS shift_name, s.seat_number, b.booking_date, b.created_at
        FROM bookings b
        JOIN students st ON b.student_id = st.id
        JOIN shifts sh ON b.shift_id = sh.id
        JOIN seats s ON b.seat_id = s.id
        WHERE b.booking_date >= ?
        ORDER BY b.created_at DESC, b.id DESC`)
	bookings := []models.BookingView{}
	if err := sqlx.SelectContext(ctx, exec, &bookings, query, today); err != nil {
		return nil, fmt.Errorf("list active bookings: %w", err)
	}
	return bookings, nil
}

// Stats runs each aggregate independently. Callers wanting a consistent
// snapshot pass a transaction as exec.
func (r *ProjectionRepository) Stats(ctx context.Context, exec sqlx.ExtContext, today string) (*models.Stats, error) {
	var stats models.Stats
	counts := []struct {
		name  string
		dest  *int
		query string
		args  []interface{}
	}{
		{"students", &stats.Students, `SELECT COUNT(DISTINCT st.id) FROM students st JOIN bookings b ON st.id = b.student_id WHERE b.booking_date >= ?`, []interface{}{today}},
		{"seats", &stats.Seats, `SELECT COUNT(*) FROM seats`, nil},
		{"bookings", &stats.Bookings, `SELECT COUNT(*) FROM bookings WHERE booking_date >= ?`, []interface{}{today}},
		{"shifts", &stats.Shifts, `SELECT COUNT(*) FROM shifts`, nil},
		{"occupied seats", &stats.OccupiedSeats, `SELECT COUNT(DISTINCT s.id) FROM seats s JOIN bookings b ON s.id = b.seat_id WHERE b.booking_date >= ?`, []interface{}{today}},
	}
	for _, c := range counts {
		if err := sqlx.GetContext(ctx, exec, c.dest, exec.Rebind(c.query), c.args...); err != nil {
			return nil, fmt.Errorf("count %s: %w", c.name, err)
		}
	}
	stats.AvailableSeats = stats.Seats - stats.OccupiedSeats
	return &stats, nil
}
