package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/library-seat-api/internal/service"
	"github.com/noah-isme/library-seat-api/pkg/response"
)

type rosterExporter interface {
	Roster(ctx context.Context, format string) (*service.ExportFile, error)
}

// ExportHandler streams the bookings roster as a download.
type ExportHandler struct {
	exporter rosterExporter
}

// NewExportHandler constructs an export handler.
func NewExportHandler(exporter rosterExporter) *ExportHandler {
	return &ExportHandler{exporter: exporter}
}

// Roster godoc
// @Summary Export active bookings
// @Tags Bookings
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} dto.MutationResult
// @Router /bookings/export [get]
func (h *ExportHandler) Roster(c *gin.Context) {
	file, err := h.exporter.Roster(c.Request.Context(), c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Body)
}
