package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/library-seat-api/internal/dto"
	"github.com/noah-isme/library-seat-api/internal/models"
	appErrors "github.com/noah-isme/library-seat-api/pkg/errors"
	"github.com/noah-isme/library-seat-api/pkg/response"
)

type bookingEngine interface {
	BookSeat(ctx context.Context, req dto.BookSeatRequest) (*models.Booking, error)
	CancelBooking(ctx context.Context, req dto.CancelBookingRequest) error
	AddShift(ctx context.Context, req dto.AddShiftRequest) (*models.Shift, error)
	DeleteShift(ctx context.Context, req dto.DeleteShiftRequest) error
	AddSeat(ctx context.Context, req dto.AddSeatRequest) (*models.Seat, error)
	DeleteSeat(ctx context.Context, req dto.DeleteSeatRequest) error
}

// BookingHandler exposes the mutating routes. Every outcome is rendered as
// {success, message}.
type BookingHandler struct {
	engine bookingEngine
}

// NewBookingHandler constructs a booking handler.
func NewBookingHandler(engine bookingEngine) *BookingHandler {
	return &BookingHandler{engine: engine}
}

// BookSeat godoc
// @Summary Book a seat
// @Description Reserve a seat for a shift on a date. The student is created on first use of the email.
// @Tags Bookings
// @Accept json
// @Produce json
// @Param payload body dto.BookSeatRequest true "Booking payload"
// @Success 200 {object} dto.MutationResult
// @Failure 400 {object} dto.MutationResult
// @Failure 404 {object} dto.MutationResult
// @Failure 409 {object} dto.MutationResult
// @Router /book-seat [post]
func (h *BookingHandler) BookSeat(c *gin.Context) {
	var req dto.BookSeatRequest
	if !bindJSON(c, &req) {
		return
	}
	_, err := h.engine.BookSeat(c.Request.Context(), req)
	response.Result(c, err, http.StatusOK, "Seat booked successfully!")
}

// CancelBooking godoc
// @Summary Cancel a booking
// @Tags Bookings
// @Accept json
// @Produce json
// @Param payload body dto.CancelBookingRequest true "Cancel payload"
// @Success 200 {object} dto.MutationResult
// @Failure 400 {object} dto.MutationResult
// @Failure 404 {object} dto.MutationResult
// @Router /cancel-booking [post]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	var req dto.CancelBookingRequest
	if !bindJSON(c, &req) {
		return
	}
	err := h.engine.CancelBooking(c.Request.Context(), req)
	response.Result(c, err, http.StatusOK, "Booking cancelled successfully!")
}

// AddShift godoc
// @Summary Add a shift
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.AddShiftRequest true "Shift payload"
// @Success 200 {object} dto.MutationResult
// @Failure 400 {object} dto.MutationResult
// @Router /add-shift [post]
func (h *BookingHandler) AddShift(c *gin.Context) {
	var req dto.AddShiftRequest
	if !bindJSON(c, &req) {
		return
	}
	_, err := h.engine.AddShift(c.Request.Context(), req)
	response.Result(c, err, http.StatusOK, "Shift added successfully!")
}

// DeleteShift godoc
// @Summary Delete a shift
// @Description Refused while any booking, past or future, references the shift.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.DeleteShiftRequest true "Shift id"
// @Success 200 {object} dto.MutationResult
// @Failure 404 {object} dto.MutationResult
// @Failure 409 {object} dto.MutationResult
// @Router /delete-shift [post]
func (h *BookingHandler) DeleteShift(c *gin.Context) {
	var req dto.DeleteShiftRequest
	if !bindJSON(c, &req) {
		return
	}
	err := h.engine.DeleteShift(c.Request.Context(), req)
	response.Result(c, err, http.StatusOK, "Shift deleted successfully!")
}

// AddSeat godoc
// @Summary Add a seat
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.AddSeatRequest true "Seat payload"
// @Success 200 {object} dto.MutationResult
// @Failure 400 {object} dto.MutationResult
// @Failure 409 {object} dto.MutationResult
// @Router /add-seat [post]
func (h *BookingHandler) AddSeat(c *gin.Context) {
	var req dto.AddSeatRequest
	if !bindJSON(c, &req) {
		return
	}
	_, err := h.engine.AddSeat(c.Request.Context(), req)
	response.Result(c, err, http.StatusOK, "Seat added successfully!")
}

// DeleteSeat godoc
// @Summary Delete a seat
// @Description Refused while the seat is occupied or referenced by any booking.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.DeleteSeatRequest true "Seat id"
// @Success 200 {object} dto.MutationResult
// @Failure 404 {object} dto.MutationResult
// @Failure 409 {object} dto.MutationResult
// @Router /delete-seat [post]
func (h *BookingHandler) DeleteSeat(c *gin.Context) {
	var req dto.DeleteSeatRequest
	if !bindJSON(c, &req) {
		return
	}
	err := h.engine.DeleteSeat(c.Request.Context(), req)
	response.Result(c, err, http.StatusOK, "Seat deleted successfully!")
}

// bindJSON decodes the request body into dest. An empty body leaves dest
// zero so the service reports the missing fields.
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "request body must be valid JSON"))
		return false
	}
	return true
}
