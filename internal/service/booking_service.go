package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/library-seat-api/internal/dto"
	"github.com/noah-isme/library-seat-api/internal/models"
	"github.com/noah-isme/library-seat-api/internal/realtime"
	"github.com/noah-isme/library-seat-api/internal/repository"
	appErrors "github.com/noah-isme/library-seat-api/pkg/errors"
)

// Engine operation names used in logs and metrics.
const (
	OpBookSeat      = "book_seat"
	OpCancelBooking = "cancel_booking"
	OpAddShift      = "add_shift"
	OpDeleteShift   = "delete_shift"
	OpAddSeat       = "add_seat"
	OpDeleteSeat    = "delete_seat"
)

// Broker routing keys for mirrored notifications.
const (
	RouteBookingCreated   = "booking.created"
	RouteBookingCancelled = "booking.cancelled"
	RouteShiftAdded       = "shift.added"
	RouteShiftDeleted     = "shift.deleted"
	RouteSeatAdded        = "seat.added"
	RouteSeatDeleted      = "seat.deleted"
)

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type studentStore interface {
	FindByEmail(ctx context.Context, exec sqlx.ExtContext, email string) (*models.Student, error)
	Create(ctx context.Context, exec sqlx.ExtContext, student *models.Student) error
}

type shiftStore interface {
	FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.Shift, error)
	Create(ctx context.Context, exec sqlx.ExtContext, shift *models.Shift) error
	Delete(ctx context.Context, exec sqlx.ExtContext, id int64) (bool, error)
}

type seatStore interface {
	FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.Seat, error)
	ExistsByNumber(ctx context.Context, exec sqlx.ExtContext, seatNumber string) (bool, error)
	Create(ctx context.Context, exec sqlx.ExtContext, seat *models.Seat) error
	SetStatus(ctx context.Context, exec sqlx.ExtContext, id int64, status models.SeatStatus) error
	Delete(ctx context.Context, exec sqlx.ExtContext, id int64) error
}

type bookingStore interface {
	ExistsForSlot(ctx context.Context, exec sqlx.ExtContext, shiftID, seatID int64, bookingDate string) (bool, error)
	Create(ctx context.Context, exec sqlx.ExtContext, booking *models.Booking) error
	FindOwner(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.BookingOwner, error)
	Delete(ctx context.Context, exec sqlx.ExtContext, id int64) error
	CountByShift(ctx context.Context, exec sqlx.ExtContext, shiftID int64) (int, error)
	CountBySeat(ctx context.Context, exec sqlx.ExtContext, seatID int64) (int, error)
}

type cacheInvalidator interface {
	Invalidate(ctx context.Context, topics ...string)
}

// BookingRepositories groups the stores the engine writes through.
type BookingRepositories struct {
	Students studentStore
	Shifts   shiftStore
	Seats    seatStore
	Bookings bookingStore
}

// BookingConfig tunes the booking engine.
type BookingConfig struct {
	Location *time.Location
}

// BookingService runs the conflict-checked mutations. Every mutation is one
// transaction, and transactions are serialized by writeMu so the slot check
// and the insert cannot interleave with another writer. The unique index on
// (seat_id, shift_id, booking_date) backs the same rule at the store.
type BookingService struct {
	tx        txProvider
	students  studentStore
	shifts    shiftStore
	seats     seatStore
	bookings  bookingStore
	cache     cacheInvalidator
	notifier  ChangeNotifier
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	loc       *time.Location
	now       func() time.Time

	writeMu sync.Mutex
}

// NewBookingService constructs the booking engine.
func NewBookingService(tx txProvider, repos BookingRepositories, cache cacheInvalidator, notifier ChangeNotifier, metrics *MetricsService, validate *validator.Validate, cfg BookingConfig, logger *zap.Logger) *BookingService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &BookingService{
		tx:        tx,
		students:  repos.Students,
		shifts:    repos.Shifts,
		seats:     repos.Seats,
		bookings:  repos.Bookings,
		cache:     cache,
		notifier:  notifier,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		loc:       cfg.Location,
		now:       time.Now,
	}
}

// BookSeat reserves a seat for a shift on a date, creating the student on
// first use of the email.
func (s *BookingService) BookSeat(ctx context.Context, req dto.BookSeatRequest) (*models.Booking, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, s.reject(OpBookSeat, validationError(err, "invalid booking payload"))
	}
	shiftID, err := parseID(req.ShiftID, "shift_id")
	if err != nil {
		return nil, s.reject(OpBookSeat, err)
	}
	seatID, err := parseID(req.SeatID, "seat_id")
	if err != nil {
		return nil, s.reject(OpBookSeat, err)
	}
	email := strings.TrimSpace(req.StudentEmail)
	name := strings.TrimSpace(req.StudentName)

	var (
		booking *models.Booking
		seat    *models.Seat
		shift   *models.Shift
	)
	err = s.inTx(ctx, OpBookSeat, func(tx *sqlx.Tx) error {
		var err error
		if shift, err = s.shifts.FindByID(ctx, tx, shiftID); err != nil {
			return notFoundOr(err, "Shift not found.", "load shift")
		}
		if seat, err = s.seats.FindByID(ctx, tx, seatID); err != nil {
			return notFoundOr(err, "Seat not found.", "load seat")
		}

		student, err := s.students.FindByEmail(ctx, tx, email)
		if errors.Is(err, sql.ErrNoRows) {
			student = &models.Student{Name: name, Email: email, Phone: optional(req.StudentPhone)}
			err = s.students.Create(ctx, tx, student)
		}
		if err != nil {
			return appErrors.Store(err, "resolve student")
		}

		taken, err := s.bookings.ExistsForSlot(ctx, tx, shiftID, seatID, req.BookingDate)
		if err != nil {
			return appErrors.Store(err, "check seat availability")
		}
		if taken {
			return errSlotTaken()
		}

		booking = &models.Booking{
			StudentID:   student.ID,
			ShiftID:     shiftID,
			SeatID:      seatID,
			BookingDate: req.BookingDate,
			CreatedAt:   models.NewTimestamp(s.now()),
		}
		if err := s.bookings.Create(ctx, tx, booking); err != nil {
			if repository.IsUniqueViolation(err) {
				return errSlotTaken()
			}
			return appErrors.Store(err, "create booking")
		}
		if err := s.seats.SetStatus(ctx, tx, seatID, models.SeatStatusOccupied); err != nil {
			return appErrors.Store(err, "mark seat occupied")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("seat booked",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("seat_id", seatID),
		zap.Int64("shift_id", shiftID),
		zap.String("booking_date", booking.BookingDate),
		zap.String("student_email", email),
	)
	s.committed(ctx, Change{
		Topics:       realtime.SnapshotTopics,
		Notification: s.notification(models.NotificationBooking, fmt.Sprintf("New booking: %s booked %s for shift %s", name, seat.SeatNumber, shift.Name)),
		RoutingKey:   RouteBookingCreated,
	})
	return booking, nil
}

// CancelBooking removes a booking and marks its seat available. The seat is
// reset even when it still has bookings for other shifts or dates.
func (s *BookingService) CancelBooking(ctx context.Context, req dto.CancelBookingRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return s.reject(OpCancelBooking, validationError(err, "invalid cancel payload"))
	}
	bookingID, err := parseID(req.BookingID, "booking_id")
	if err != nil {
		return s.reject(OpCancelBooking, err)
	}

	var owner *models.BookingOwner
	err = s.inTx(ctx, OpCancelBooking, func(tx *sqlx.Tx) error {
		var err error
		if owner, err = s.bookings.FindOwner(ctx, tx, bookingID); err != nil {
			return notFoundOr(err, "Booking not found.", "load booking")
		}
		if err := s.bookings.Delete(ctx, tx, bookingID); err != nil {
			return appErrors.Store(err, "delete booking")
		}
		if err := s.seats.SetStatus(ctx, tx, owner.SeatID, models.SeatStatusAvailable); err != nil {
			return appErrors.Store(err, "release seat")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("booking cancelled", zap.Int64("booking_id", bookingID), zap.Int64("seat_id", owner.SeatID))
	s.committed(ctx, Change{
		Topics:       realtime.SnapshotTopics,
		Notification: s.notification(models.NotificationCancellation, fmt.Sprintf("Booking cancelled: %s cancelled their booking", owner.StudentName)),
		RoutingKey:   RouteBookingCancelled,
	})
	return nil
}

// AddShift creates a shift.
func (s *BookingService) AddShift(ctx context.Context, req dto.AddShiftRequest) (*models.Shift, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, s.reject(OpAddShift, validationError(err, "invalid shift payload"))
	}
	maxSeats, err := req.MaxSeats.Int64()
	if err != nil || maxSeats <= 0 {
		return nil, s.reject(OpAddShift, invalidField("max_seats must be a positive integer"))
	}
	shift := &models.Shift{
		Name:      strings.TrimSpace(req.Name),
		StartTime: strings.TrimSpace(req.StartTime),
		EndTime:   strings.TrimSpace(req.EndTime),
		MaxSeats:  int(maxSeats),
	}

	err = s.inTx(ctx, OpAddShift, func(tx *sqlx.Tx) error {
		if err := s.shifts.Create(ctx, tx, shift); err != nil {
			return appErrors.Store(err, "create shift")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("shift added", zap.Int64("shift_id", shift.ID), zap.String("name", shift.Name))
	s.committed(ctx, Change{
		Topics:       []string{realtime.EventShifts, realtime.EventStats},
		Notification: s.notification(models.NotificationInfo, "New shift added: "+shift.Name),
		RoutingKey:   RouteShiftAdded,
	})
	return shift, nil
}

// DeleteShift removes a shift no booking references.
func (s *BookingService) DeleteShift(ctx context.Context, req dto.DeleteShiftRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return s.reject(OpDeleteShift, validationError(err, "invalid shift payload"))
	}
	shiftID, err := parseID(req.ShiftID, "shift_id")
	if err != nil {
		return s.reject(OpDeleteShift, err)
	}

	err = s.inTx(ctx, OpDeleteShift, func(tx *sqlx.Tx) error {
		refs, err := s.bookings.CountByShift(ctx, tx, shiftID)
		if err != nil {
			return appErrors.Store(err, "count shift bookings")
		}
		if refs > 0 {
			return appErrors.Clone(appErrors.ErrConflict, "Cannot delete shift with existing bookings. Please cancel all bookings first.")
		}
		deleted, err := s.shifts.Delete(ctx, tx, shiftID)
		if err != nil {
			return appErrors.Store(err, "delete shift")
		}
		if !deleted {
			return appErrors.Clone(appErrors.ErrNotFound, "Shift not found.")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("shift deleted", zap.Int64("shift_id", shiftID))
	s.committed(ctx, Change{
		Topics:       []string{realtime.EventShifts, realtime.EventStats},
		Notification: s.notification(models.NotificationInfo, "Shift deleted"),
		RoutingKey:   RouteShiftDeleted,
	})
	return nil
}

// AddSeat creates an available seat with a unique number.
func (s *BookingService) AddSeat(ctx context.Context, req dto.AddSeatRequest) (*models.Seat, error) {
	req.SeatNumber = strings.TrimSpace(req.SeatNumber)
	if err := s.validator.Struct(req); err != nil {
		return nil, s.reject(OpAddSeat, validationError(err, "invalid seat payload"))
	}
	seat := &models.Seat{SeatNumber: req.SeatNumber, Status: models.SeatStatusAvailable}

	err := s.inTx(ctx, OpAddSeat, func(tx *sqlx.Tx) error {
		exists, err := s.seats.ExistsByNumber(ctx, tx, seat.SeatNumber)
		if err != nil {
			return appErrors.Store(err, "check seat number")
		}
		if exists {
			return errSeatNumberTaken()
		}
		if err := s.seats.Create(ctx, tx, seat); err != nil {
			if repository.IsUniqueViolation(err) {
				return errSeatNumberTaken()
			}
			return appErrors.Store(err, "create seat")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("seat added", zap.Int64("seat_id", seat.ID), zap.String("seat_number", seat.SeatNumber))
	s.committed(ctx, Change{
		Topics:       []string{realtime.EventSeats, realtime.EventStats},
		Notification: s.notification(models.NotificationInfo, "New seat added: "+seat.SeatNumber),
		RoutingKey:   RouteSeatAdded,
	})
	return seat, nil
}

// DeleteSeat removes an available seat no booking references.
func (s *BookingService) DeleteSeat(ctx context.Context, req dto.DeleteSeatRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return s.reject(OpDeleteSeat, validationError(err, "invalid seat payload"))
	}
	seatID, err := parseID(req.SeatID, "seat_id")
	if err != nil {
		return s.reject(OpDeleteSeat, err)
	}

	err = s.inTx(ctx, OpDeleteSeat, func(tx *sqlx.Tx) error {
		seat, err := s.seats.FindByID(ctx, tx, seatID)
		if err != nil {
			return notFoundOr(err, "Seat not found.", "load seat")
		}
		if seat.Status == models.SeatStatusOccupied {
			return appErrors.Clone(appErrors.ErrConflict, "Cannot delete an occupied seat. Please cancel the booking first.")
		}
		refs, err := s.bookings.CountBySeat(ctx, tx, seatID)
		if err != nil {
			return appErrors.Store(err, "count seat bookings")
		}
		if refs > 0 {
			return appErrors.Clone(appErrors.ErrConflict, "Cannot delete seat with existing bookings. Please cancel all bookings first.")
		}
		if err := s.seats.Delete(ctx, tx, seatID); err != nil {
			return appErrors.Store(err, "delete seat")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("seat deleted", zap.Int64("seat_id", seatID))
	s.committed(ctx, Change{
		Topics:       []string{realtime.EventSeats, realtime.EventStats},
		Notification: s.notification(models.NotificationInfo, "Seat deleted"),
		RoutingKey:   RouteSeatDeleted,
	})
	return nil
}

// inTx runs fn in one serialized transaction, committing only when fn
// succeeds. Any error rolls every write of fn back.
func (s *BookingService) inTx(ctx context.Context, op string, fn func(tx *sqlx.Tx) error) (err error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveBookingOperation(op, outcomeOf(err), time.Since(start))
		if err != nil && outcomeOf(err) == OutcomeFailed {
			s.logger.Error("booking engine operation failed", zap.String("operation", op), zap.Error(err))
		}
	}()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Store(err, "begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return appErrors.Store(err, "commit transaction")
	}
	return nil
}

// committed runs after a successful commit: stale projections are dropped
// before the broadcast is handed off.
func (s *BookingService) committed(ctx context.Context, change Change) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, change.Topics...)
	}
	if s.notifier != nil {
		s.notifier.Notify(ctx, change)
	}
}

func (s *BookingService) reject(op string, err error) error {
	s.metrics.ObserveBookingOperation(op, OutcomeRejected, 0)
	return err
}

func (s *BookingService) notification(kind models.NotificationType, message string) models.Notification {
	return models.NewNotification(kind, message, s.now().In(s.loc))
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, appErrors.ErrValidation), errors.Is(err, appErrors.ErrConflict), errors.Is(err, appErrors.ErrNotFound):
		return OutcomeRejected
	default:
		return OutcomeFailed
	}
}

func parseID(raw dto.Flex, field string) (int64, error) {
	id, err := raw.Int64()
	if err != nil || id <= 0 {
		return 0, invalidField(field + " must be a positive integer")
	}
	return id, nil
}

func notFoundOr(err error, message, action string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, message)
	}
	return appErrors.Store(err, action)
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func errSlotTaken() error {
	return appErrors.Clone(appErrors.ErrConflict, "This seat is already booked for the selected shift and date.")
}

func errSeatNumberTaken() error {
	return appErrors.Clone(appErrors.ErrConflict, "A seat with this number already exists.")
}
