package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type seedShift struct {
	Name      string
	StartTime string
	EndTime   string
	MaxSeats  int
}

var defaultShifts = []seedShift{
	{Name: "Morning Shift", StartTime: "08:00", EndTime: "12:00", MaxSeats: 20},
	{Name: "Afternoon Shift", StartTime: "12:00", EndTime: "16:00", MaxSeats: 20},
	{Name: "Evening Shift", StartTime: "16:00", EndTime: "20:00", MaxSeats: 20},
}

const defaultSeatCount = 20

// Seed fills an empty store with the default shifts and seats. A store that
// already has shifts is left untouched.
func Seed(ctx context.Context, db *sqlx.DB, logger *zap.Logger) (err error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var count int
	if err = db.GetContext(ctx, &count, "SELECT COUNT(*) FROM shifts"); err != nil {
		return fmt.Errorf("count shifts: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	insertShift := db.Rebind("INSERT INTO shifts (name, start_time, end_time, max_seats) VALUES (?, ?, ?, ?)")
	for _, shift := range defaultShifts {
		if _, err = tx.ExecContext(ctx, insertShift, shift.Name, shift.StartTime, shift.EndTime, shift.MaxSeats); err != nil {
			return fmt.Errorf("seed shift %s: %w", shift.Name, err)
		}
	}

	insertSeat := db.Rebind("INSERT INTO seats (seat_number, status) VALUES (?, ?)")
	for i := 1; i <= defaultSeatCount; i++ {
		if _, err = tx.ExecContext(ctx, insertSeat, fmt.Sprintf("Seat-%d", i), "available"); err != nil {
			return fmt.Errorf("seed seat %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	logger.Info("store seeded", zap.Int("shifts", len(defaultShifts)), zap.Int("seats", defaultSeatCount))
	return nil
}
