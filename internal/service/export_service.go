package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/library-seat-api/internal/models"
	appErrors "github.com/noah-isme/library-seat-api/pkg/errors"
	"github.com/noah-isme/library-seat-api/pkg/export"
)

var rosterHeaders = []string{"Booking ID", "Student", "Phone", "Shift", "Seat", "Date", "Booked At"}

type bookingReader interface {
	Bookings(ctx context.Context) ([]models.BookingView, error)
	Today() string
}

// ExportFile is a rendered roster ready to be streamed.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders the active bookings roster for printing at the desk.
type ExportService struct {
	bookings bookingReader
	logger   *zap.Logger
	loc      *time.Location
	render   func(export.Format) (export.Renderer, error)
}

// NewExportService constructs an ExportService.
func NewExportService(bookings bookingReader, loc *time.Location, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &ExportService{bookings: bookings, logger: logger, loc: loc, render: export.ForFormat}
}

// Roster renders today's and future bookings in the requested format.
func (s *ExportService) Roster(ctx context.Context, format string) (*ExportFile, error) {
	renderer, err := s.render(export.Format(strings.ToLower(strings.TrimSpace(format))))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "format must be csv or pdf")
	}

	bookings, err := s.bookings.Bookings(ctx)
	if err != nil {
		return nil, err
	}
	today := s.bookings.Today()
	dataset := s.rosterDataset(today, bookings)

	body, err := renderer.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	s.logger.Info("booking roster exported", zap.String("format", renderer.Extension()), zap.Int("rows", len(dataset.Rows)))
	return &ExportFile{
		Filename:    fmt.Sprintf("bookings-%s.%s", today, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

func (s *ExportService) rosterDataset(today string, bookings []models.BookingView) export.Dataset {
	rows := make([][]string, 0, len(bookings))
	for _, b := range bookings {
		bookedAt := ""
		if !b.CreatedAt.IsZero() {
			bookedAt = b.CreatedAt.In(s.loc).Format(models.NotificationTimeLayout)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", b.ID),
			b.StudentName,
			b.StudentPhone,
			b.ShiftName,
			b.SeatNumber,
			b.BookingDate,
			bookedAt,
		})
	}
	return export.Dataset{
		Title:   "Study Room Bookings from " + today,
		Headers: rosterHeaders,
		Rows:    rows,
	}
}
