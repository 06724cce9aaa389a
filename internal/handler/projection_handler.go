package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/library-seat-api/internal/models"
	"github.com/noah-isme/library-seat-api/pkg/response"
)

type projectionReader interface {
	Seats(ctx context.Context) ([]models.SeatView, error)
	Bookings(ctx context.Context) ([]models.BookingView, error)
	Stats(ctx context.Context) (*models.Stats, error)
	Shifts(ctx context.Context) ([]models.Shift, error)
	Students(ctx context.Context) ([]models.Student, error)
}

// ProjectionHandler serves the read-only views dashboards poll on load.
type ProjectionHandler struct {
	query projectionReader
}

// NewProjectionHandler constructs a projection handler.
func NewProjectionHandler(query projectionReader) *ProjectionHandler {
	return &ProjectionHandler{query: query}
}

// Seats godoc
// @Summary List seats
// @Description Every seat with its status and, when booked, the occupant and shift
// @Tags Projections
// @Produce json
// @Success 200 {array} models.SeatView
// @Failure 500 {object} dto.MutationResult
// @Router /seats [get]
func (h *ProjectionHandler) Seats(c *gin.Context) {
	seats, err := h.query.Seats(c.Request.Context())
	respond(c, seats, err)
}

// Bookings godoc
// @Summary List active bookings
// @Description Bookings dated today or later, newest first
// @Tags Projections
// @Produce json
// @Success 200 {array} models.BookingView
// @Failure 500 {object} dto.MutationResult
// @Router /bookings [get]
func (h *ProjectionHandler) Bookings(c *gin.Context) {
	bookings, err := h.query.Bookings(c.Request.Context())
	respond(c, bookings, err)
}

// Stats godoc
// @Summary Dashboard counters
// @Tags Projections
// @Produce json
// @Success 200 {object} models.Stats
// @Failure 500 {object} dto.MutationResult
// @Router /stats [get]
func (h *ProjectionHandler) Stats(c *gin.Context) {
	stats, err := h.query.Stats(c.Request.Context())
	respond(c, stats, err)
}

// Shifts godoc
// @Summary List shifts
// @Tags Projections
// @Produce json
// @Success 200 {array} models.Shift
// @Failure 500 {object} dto.MutationResult
// @Router /shifts [get]
func (h *ProjectionHandler) Shifts(c *gin.Context) {
	shifts, err := h.query.Shifts(c.Request.Context())
	respond(c, shifts, err)
}

// Students godoc
// @Summary List students
// @Tags Projections
// @Produce json
// @Success 200 {array} models.Student
// @Failure 500 {object} dto.MutationResult
// @Router /students [get]
func (h *ProjectionHandler) Students(c *gin.Context) {
	students, err := h.query.Students(c.Request.Context())
	respond(c, students, err)
}

func respond[T any](c *gin.Context, data T, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, data)
}
