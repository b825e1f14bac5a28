package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/internal/service"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
	"github.com/noah-isme/timetable-api/pkg/response"
)

type timetableService interface {
	List(ctx context.Context) ([]models.TimetableEntry, error)
	Get(ctx context.Context, id string) (*models.TimetableEntry, error)
	CreateEntry(ctx context.Context, req dto.CreateTimetableEntryRequest) (*models.TimetableEntry, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

type generatorService interface {
	Generate(ctx context.Context) (*dto.GenerateTimetableResult, error)
	AvailableSlots(ctx context.Context) ([]dto.SlotAvailability, error)
}

type exportService interface {
	ExportTimetable(ctx context.Context, format string) (*service.ExportPayload, error)
}

// TimetableHandler wires the timetable, generator, and export services
// to HTTP routes.
type TimetableHandler struct {
	timetable timetableService
	generator generatorService
	exports   exportService
}

// NewTimetableHandler constructs a new TimetableHandler.
func NewTimetableHandler(timetable timetableService, generator generatorService, exports exportService) *TimetableHandler {
	return &TimetableHandler{timetable: timetable, generator: generator, exports: exports}
}

// List godoc
// @Summary List timetable entries
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable [get]
func (h *TimetableHandler) List(c *gin.Context) {
	entries, err := h.timetable.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Get godoc
// @Summary Get timetable entry detail
// @Tags Timetable
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} response.Envelope
// @Router /timetable/{id} [get]
func (h *TimetableHandler) Get(c *gin.Context) {
	entry, err := h.timetable.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Create godoc
// @Summary Manually place a course at a period
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.CreateTimetableEntryRequest true "Entry payload"
// @Success 201 {object} response.Envelope
// @Router /timetable [post]
func (h *TimetableHandler) Create(c *gin.Context) {
	var req dto.CreateTimetableEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid timetable entry payload"))
		return
	}
	entry, err := h.timetable.CreateEntry(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// Delete godoc
// @Summary Delete timetable entry
// @Tags Timetable
// @Param id path string true "Entry ID"
// @Success 204
// @Router /timetable/{id} [delete]
func (h *TimetableHandler) Delete(c *gin.Context) {
	if err := h.timetable.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Clear godoc
// @Summary Clear the whole timetable
// @Tags Timetable
// @Success 204
// @Router /timetable [delete]
func (h *TimetableHandler) Clear(c *gin.Context) {
	if err := h.timetable.Clear(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Generate godoc
// @Summary Generate a fresh timetable from the catalogs
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	result, err := h.generator.Generate(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	response.JSON(c, status, result, nil)
}

// AvailableSlots godoc
// @Summary Report free schedulable periods
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable/available-slots [get]
func (h *TimetableHandler) AvailableSlots(c *gin.Context) {
	report, err := h.generator.AvailableSlots(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Export godoc
// @Summary Download the timetable as CSV or PDF
// @Tags Timetable
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "Export format (csv,pdf)" default(csv)
// @Success 200 {file} file
// @Router /timetable/export [get]
func (h *TimetableHandler) Export(c *gin.Context) {
	payload, err := h.exports.ExportTimetable(c.Request.Context(), c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+payload.Filename+`"`)
	c.Data(http.StatusOK, payload.ContentType, payload.Data)
}
