package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/library-seat-api/internal/models"
)

func TestSeatRepositoryCreateDefaultsToAvailable(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSeatRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO seats (seat_number, status) VALUES ($1, $2) RETURNING id")).
		WithArgs("Seat-21", "available").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))

	seat := &models.Seat{SeatNumber: "Seat-21"}
	require.NoError(t, repo.Create(context.Background(), db, seat))
	assert.Equal(t, int64(21), seat.ID)
	assert.Equal(t, models.SeatStatusAvailable, seat.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatRepositoryLookups(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSeatRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, seat_number, COALESCE(status, 'available') AS status FROM seats WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "seat_number", "status"}).AddRow(1, "Seat-1", "occupied"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM seats WHERE seat_number = $1 LIMIT 1")).
		WithArgs("Seat-1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	seat, err := repo.FindByID(context.Background(), db, 1)
	require.NoError(t, err)
	assert.Equal(t, models.SeatStatusOccupied, seat.Status)

	exists, err := repo.ExistsByNumber(context.Background(), db, "Seat-1")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatRepositorySetStatusAndDelete(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSeatRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE seats SET status = $1 WHERE id = $2")).
		WithArgs("available", int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM seats WHERE id = $1")).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetStatus(context.Background(), db, 4, models.SeatStatusAvailable))
	require.NoError(t, repo.Delete(context.Background(), db, 4))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShiftRepositoryDeleteReportsMissingRow(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewShiftRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM shifts WHERE id = $1")).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.Delete(context.Background(), db, 9)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShiftRepositoryCreateAndList(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewShiftRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO shifts (name, start_time, end_time, max_seats) VALUES ($1, $2, $3, $4) RETURNING id")).
		WithArgs("Night", "20:00", "23:00", 10).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, start_time, end_time, max_seats FROM shifts ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "start_time", "end_time", "max_seats"}).
			AddRow(1, "Morning", "08:00", "12:00", 20).
			AddRow(4, "Night", "20:00", "23:00", 10))

	shift := &models.Shift{Name: "Night", StartTime: "20:00", EndTime: "23:00", MaxSeats: 10}
	require.NoError(t, repo.Create(context.Background(), db, shift))
	assert.Equal(t, int64(4), shift.ID)

	shifts, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, shifts, 2)
	assert.Equal(t, "Night", shifts[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
