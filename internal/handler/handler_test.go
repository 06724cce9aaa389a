package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/library-seat-api/internal/dto"
	"github.com/noah-isme/library-seat-api/internal/models"
	"github.com/noah-isme/library-seat-api/internal/service"
	appErrors "github.com/noah-isme/library-seat-api/pkg/errors"
)

type fakeQuery struct {
	seats []models.SeatView
	err   error
}

func (f *fakeQuery) Seats(context.Context) ([]models.SeatView, error) { return f.seats, f.err }
func (f *fakeQuery) Bookings(context.Context) ([]models.BookingView, error) {
	return []models.BookingView{}, f.err
}
func (f *fakeQuery) Stats(context.Context) (*models.Stats, error) {
	return &models.Stats{Seats: 20, AvailableSeats: 20}, f.err
}
func (f *fakeQuery) Shifts(context.Context) ([]models.Shift, error)     { return nil, f.err }
func (f *fakeQuery) Students(context.Context) ([]models.Student, error) { return nil, f.err }

type fakeEngine struct {
	err        error
	lastBook   dto.BookSeatRequest
	lastCancel dto.CancelBookingRequest
}

func (f *fakeEngine) BookSeat(_ context.Context, req dto.BookSeatRequest) (*models.Booking, error) {
	f.lastBook = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.Booking{ID: 1}, nil
}

func (f *fakeEngine) CancelBooking(_ context.Context, req dto.CancelBookingRequest) error {
	f.lastCancel = req
	return f.err
}

func (f *fakeEngine) AddShift(context.Context, dto.AddShiftRequest) (*models.Shift, error) {
	return &models.Shift{}, f.err
}
func (f *fakeEngine) DeleteShift(context.Context, dto.DeleteShiftRequest) error { return f.err }
func (f *fakeEngine) AddSeat(context.Context, dto.AddSeatRequest) (*models.Seat, error) {
	return &models.Seat{}, f.err
}
func (f *fakeEngine) DeleteSeat(context.Context, dto.DeleteSeatRequest) error { return f.err }

func perform(h gin.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h(c)
	return rec
}

func mutationResult(t *testing.T, rec *httptest.ResponseRecorder) dto.MutationResult {
	t.Helper()
	var result dto.MutationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	return result
}

func TestProjectionHandlerServesRawPayloads(t *testing.T) {
	name := "Jane"
	handler := NewProjectionHandler(&fakeQuery{seats: []models.SeatView{{ID: 1, SeatNumber: "Seat-1", Status: models.SeatStatusOccupied, StudentName: &name}}})

	rec := perform(handler.Seats, http.MethodGet, "/api/seats", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.JSONEq(t, `[{"id":1,"seat_number":"Seat-1","status":"occupied","student_name":"Jane","shift_name":null}]`, rec.Body.String())

	rec = perform(handler.Stats, http.MethodGet, "/api/stats", "")
	assert.JSONEq(t, `{"students":0,"seats":20,"bookings":0,"shifts":0,"occupied_seats":0,"available_seats":20}`, rec.Body.String())

	rec = perform(handler.Bookings, http.MethodGet, "/api/bookings", "")
	assert.Equal(t, "[]", rec.Body.String())
}

func TestProjectionHandlerReportsStoreFailure(t *testing.T) {
	handler := NewProjectionHandler(&fakeQuery{err: appErrors.Clone(appErrors.ErrInternal, "failed to load seats")})
	rec := perform(handler.Seats, http.MethodGet, "/api/seats", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	result := mutationResult(t, rec)
	assert.False(t, result.Success)
	assert.Equal(t, "failed to load seats", result.Message)
}

func TestBookingHandlerBookSeat(t *testing.T) {
	engine := &fakeEngine{}
	handler := NewBookingHandler(engine)

	rec := perform(handler.BookSeat, http.MethodPost, "/api/book-seat",
		`{"student_name":"Jane","student_email":"jane@example.com","shift_id":"1","seat_id":4,"booking_date":"2025-06-01"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, dto.MutationResult{Success: true, Message: "Seat booked successfully!"}, mutationResult(t, rec))
	assert.Equal(t, dto.Flex("4"), engine.lastBook.SeatID)
	assert.Equal(t, dto.Flex("1"), engine.lastBook.ShiftID)
}

func TestBookingHandlerMapsTaxonomy(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"conflict", appErrors.Clone(appErrors.ErrConflict, "This seat is already booked for the selected shift and date."), http.StatusConflict, "CONFLICT"},
		{"not found", appErrors.Clone(appErrors.ErrNotFound, "Booking not found."), http.StatusNotFound, "NOT_FOUND"},
		{"validation", appErrors.Clone(appErrors.ErrValidation, "missing required fields: booking_id"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"store", errors.New("disk I/O error"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewBookingHandler(&fakeEngine{err: tc.err})
			rec := perform(handler.CancelBooking, http.MethodPost, "/api/cancel-booking", `{"booking_id":7}`)
			assert.Equal(t, tc.status, rec.Code)
			result := mutationResult(t, rec)
			assert.False(t, result.Success)
			assert.Equal(t, tc.code, result.Code)
		})
	}
}

func TestBookingHandlerRejectsMalformedJSON(t *testing.T) {
	engine := &fakeEngine{}
	handler := NewBookingHandler(engine)

	rec := perform(handler.AddSeat, http.MethodPost, "/api/add-seat", `{"seat_number":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "request body must be valid JSON", mutationResult(t, rec).Message)

	rec = perform(handler.CancelBooking, http.MethodPost, "/api/cancel-booking", "")
	assert.Equal(t, http.StatusOK, rec.Code, "empty body is passed on for field validation")
	assert.Equal(t, dto.Flex(""), engine.lastCancel.BookingID)
}

func TestBookingHandlerAdminRoutes(t *testing.T) {
	handler := NewBookingHandler(&fakeEngine{})
	for route, h := range map[string]gin.HandlerFunc{
		"Shift added successfully!":   handler.AddShift,
		"Shift deleted successfully!": handler.DeleteShift,
		"Seat added successfully!":    handler.AddSeat,
		"Seat deleted successfully!":  handler.DeleteSeat,
	} {
		rec := perform(h, http.MethodPost, "/api/admin", `{}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, route, mutationResult(t, rec).Message)
	}
}

type fakeExporter struct{ format string }

func (f *fakeExporter) Roster(_ context.Context, format string) (*service.ExportFile, error) {
	f.format = format
	if format == "xlsx" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	return &service.ExportFile{Filename: "bookings-2025-06-01.csv", ContentType: "text/csv; charset=utf-8", Body: []byte("Booking ID\n")}, nil
}

func TestExportHandlerRoster(t *testing.T) {
	exporter := &fakeExporter{}
	handler := NewExportHandler(exporter)

	rec := perform(handler.Roster, http.MethodGet, "/api/bookings/export", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "csv", exporter.format)
	assert.Equal(t, `attachment; filename="bookings-2025-06-01.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))

	rec = perform(handler.Roster, http.MethodGet, "/api/bookings/export?format=xlsx", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type fakeAuth struct{}

func (fakeAuth) Login(req models.AdminLoginRequest) (*models.AdminLoginResponse, error) {
	if req.Password != "s3cret!" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid email or password")
	}
	return &models.AdminLoginResponse{AccessToken: "token", ExpiresIn: 3600}, nil
}

func TestAuthHandlerLogin(t *testing.T) {
	handler := NewAuthHandler(fakeAuth{})

	rec := perform(handler.Login, http.MethodPost, "/api/admin/login", `{"email":"admin@library.local","password":"s3cret!"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"access_token":"token"`)

	rec = perform(handler.Login, http.MethodPost, "/api/admin/login", `{"email":"admin@library.local","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

func TestMetricsHandlerProbes(t *testing.T) {
	handler := NewMetricsHandler(service.NewMetricsService(), fakePinger{})
	assert.Equal(t, http.StatusOK, perform(handler.Health, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, perform(handler.Ready, http.MethodGet, "/ready", "").Code)

	rec := perform(handler.Prometheus, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "goroutines_total")

	down := NewMetricsHandler(nil, fakePinger{err: errors.New("database is closed")})
	assert.Equal(t, http.StatusServiceUnavailable, perform(down.Ready, http.MethodGet, "/ready", "").Code)
	rec = perform(down.Prometheus, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"metrics disabled"}`, rec.Body.String())
}
