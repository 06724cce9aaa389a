package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/library-seat-api/internal/models"
	"github.com/noah-isme/library-seat-api/internal/realtime"
	appErrors "github.com/noah-isme/library-seat-api/pkg/errors"
)

const cacheKeyPrefix = "library-seat:"

type projectionRepository interface {
	SeatsWithOccupant(ctx context.Context, exec sqlx.ExtContext) ([]models.SeatView, error)
	ActiveBookings(ctx context.Context, exec sqlx.ExtContext, today string) ([]models.BookingView, error)
	Stats(ctx context.Context, exec sqlx.ExtContext, today string) (*models.Stats, error)
}

type shiftLister interface {
	List(ctx context.Context) ([]models.Shift, error)
}

type studentLister interface {
	List(ctx context.Context) ([]models.Student, error)
}

// queryStore is the read side of the store: plain queries plus transactions
// for multi-statement snapshots.
type queryStore interface {
	sqlx.ExtContext
	txProvider
}

// QueryConfig tunes the query layer.
type QueryConfig struct {
	Location *time.Location
	CacheTTL time.Duration
}

// QueryService serves the read-only projections. HTTP reads go through the
// projection cache; broadcasts always read the store and refresh the cache.
type QueryService struct {
	db          queryStore
	projections projectionRepository
	shifts      shiftLister
	students    studentLister
	cache       *CacheService
	loc         *time.Location
	ttl         time.Duration
	now         func() time.Time
	logger      *zap.Logger

	// generation is bumped by Invalidate. A read-through whose load spans an
	// invalidation does not write its result back.
	generation atomic.Uint64
}

// NewQueryService constructs the query layer.
func NewQueryService(db queryStore, projections projectionRepository, shifts shiftLister, students studentLister, cache *CacheService, cfg QueryConfig, logger *zap.Logger) *QueryService {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryService{
		db:          db,
		projections: projections,
		shifts:      shifts,
		students:    students,
		cache:       cache,
		loc:         cfg.Location,
		ttl:         cfg.CacheTTL,
		now:         time.Now,
		logger:      logger,
	}
}

// Today is the calendar date that separates active bookings from past ones.
func (s *QueryService) Today() string {
	return s.now().In(s.loc).Format(models.BookingDateLayout)
}

// Seats returns the seat board.
func (s *QueryService) Seats(ctx context.Context) ([]models.SeatView, error) {
	return readThrough(ctx, s, s.cacheKey(realtime.EventSeats), s.loadSeats)
}

// Bookings returns bookings dated today or later, newest first.
func (s *QueryService) Bookings(ctx context.Context) ([]models.BookingView, error) {
	return readThrough(ctx, s, s.cacheKey(realtime.EventBookings), s.loadBookings)
}

// Stats returns the dashboard counters.
func (s *QueryService) Stats(ctx context.Context) (*models.Stats, error) {
	return readThrough(ctx, s, s.cacheKey(realtime.EventStats), s.loadStats)
}

// Shifts returns every shift.
func (s *QueryService) Shifts(ctx context.Context) ([]models.Shift, error) {
	return readThrough(ctx, s, s.cacheKey(realtime.EventShifts), s.loadShifts)
}

// Students returns every student. The list is small and never cached.
func (s *QueryService) Students(ctx context.Context) ([]models.Student, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}

// Snapshot reads seats, bookings and stats straight from the store.
func (s *QueryService) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	seats, err := s.loadSeats(ctx)
	if err != nil {
		return nil, err
	}
	bookings, err := s.loadBookings(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := s.loadStats(ctx)
	if err != nil {
		return nil, err
	}
	return &models.Snapshot{Seats: seats, Bookings: bookings, Stats: *stats}, nil
}

// Load implements realtime.Source. It bypasses the cache and writes the fresh
// value back so HTTP readers converge with what subscribers were sent.
func (s *QueryService) Load(ctx context.Context, topic string) (interface{}, error) {
	var (
		payload interface{}
		err     error
	)
	switch topic {
	case realtime.EventSeats:
		payload, err = s.loadSeats(ctx)
	case realtime.EventBookings:
		payload, err = s.loadBookings(ctx)
	case realtime.EventStats:
		payload, err = s.loadStats(ctx)
	case realtime.EventShifts:
		payload, err = s.loadShifts(ctx)
	default:
		return nil, fmt.Errorf("%w: %s", realtime.ErrUnknownTopic, topic)
	}
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, s.cacheKey(topic), payload, s.ttl)
	return payload, nil
}

// Invalidate drops the cached projections of topics.
func (s *QueryService) Invalidate(ctx context.Context, topics ...string) {
	s.generation.Add(1)
	keys := make([]string, 0, len(topics))
	for _, topic := range topics {
		keys = append(keys, s.cacheKey(topic))
	}
	_ = s.cache.Invalidate(ctx, keys...)
}

func (s *QueryService) cacheKey(topic string) string {
	switch topic {
	case realtime.EventBookings, realtime.EventStats:
		return cacheKeyPrefix + topic + ":" + s.Today()
	default:
		return cacheKeyPrefix + topic
	}
}

func readThrough[T any](ctx context.Context, s *QueryService, key string, load func(context.Context) (T, error)) (T, error) {
	var cached T
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}
	gen := s.generation.Load()
	value, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if s.generation.Load() != gen {
		s.logger.Debug("skipping cache fill after concurrent invalidation", zap.String("key", key))
		return value, nil
	}
	_ = s.cache.Set(ctx, key, value, s.ttl)
	return value, nil
}

func (s *QueryService) loadSeats(ctx context.Context) ([]models.SeatView, error) {
	seats, err := s.projections.SeatsWithOccupant(ctx, s.db)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load seats")
	}
	return seats, nil
}

func (s *QueryService) loadBookings(ctx context.Context) ([]models.BookingView, error) {
	bookings, err := s.projections.ActiveBookings(ctx, s.db, s.Today())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bookings")
	}
	return bookings, nil
}

// loadStats runs the five aggregates inside one transaction so they describe
// the same committed state.
func (s *QueryService) loadStats(ctx context.Context) (*models.Stats, error) {
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin stats transaction")
	}
	defer func() { _ = tx.Rollback() }()

	stats, err := s.projections.Stats(ctx, tx, s.Today())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute stats")
	}
	return stats, nil
}

func (s *QueryService) loadShifts(ctx context.Context) ([]models.Shift, error) {
	shifts, err := s.shifts.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list shifts")
	}
	return shifts, nil
}
