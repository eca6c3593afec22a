package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmorales-dev/fleet-panel-api/internal/dto"
	"github.com/dmorales-dev/fleet-panel-api/internal/models"
	"github.com/dmorales-dev/fleet-panel-api/internal/service"
	appErrors "github.com/dmorales-dev/fleet-panel-api/pkg/errors"
	"github.com/dmorales-dev/fleet-panel-api/pkg/response"
)

const workbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportProvider is the slice of the report service the handler consumes.
type ReportProvider interface {
	Fields(kind models.ReportKind) []models.FieldDescriptor
	MaintenanceTypes(ctx context.Context) ([]string, error)
	GeneralStatistics(ctx context.Context) (*models.GeneralStats, error)
}

// WorkbookExporter renders a report into a downloadable spreadsheet.
type WorkbookExporter interface {
	ReportWorkbook(ctx context.Context, kind models.ReportKind, filter models.ReportFilter, selected []string) ([]byte, string, error)
}

// ReportHandler exposes the report catalog, lookup and export endpoints.
type ReportHandler struct {
	reports ReportProvider
	exports WorkbookExporter
	metrics *service.MetricsService
}

// NewReportHandler constructs the handler.
func NewReportHandler(reports ReportProvider, exports WorkbookExporter, metrics *service.MetricsService) *ReportHandler {
	return &ReportHandler{reports: reports, exports: exports, metrics: metrics}
}

// Fields godoc
// @Summary Selectable fields for a report kind
// @Tags Reports
// @Produce json
// @Param type query string true "Report kind"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /reports/fields [get]
func (h *ReportHandler) Fields(c *gin.Context) {
	var q dto.FieldsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report kind"))
		return
	}
	response.JSON(c, http.StatusOK, h.reports.Fields(models.ReportKind(q.Type)))
}

// MaintenanceTypes godoc
// @Summary Distinct maintenance types
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/maintenance-types [get]
func (h *ReportHandler) MaintenanceTypes(c *gin.Context) {
	types, err := h.reports.MaintenanceTypes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, types)
}

// Stats godoc
// @Summary General fleet statistics
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/stats [get]
func (h *ReportHandler) Stats(c *gin.Context) {
	stats, err := h.reports.GeneralStatistics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}

// Export godoc
// @Summary Export a report as a spreadsheet
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param kind path string true "Report kind"
// @Param startDate query string false "ISO date lower bound"
// @Param endDate query string false "ISO date upper bound"
// @Param role query string false "User role filter"
// @Param maintenanceType query string false "Maintenance type filter"
// @Param fields query string false "Comma separated field keys"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /reports/{kind}/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	var q dto.ReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report filters"))
		return
	}

	kind := models.ReportKind(c.Param("kind"))
	start := time.Now()
	payload, filename, err := h.exports.ReportWorkbook(c.Request.Context(), kind, q.Filter(), q.SelectedFields())
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.ObserveRender(string(kind), "xlsx", len(payload), time.Since(start))

	response.Attachment(c, filename, workbookContentType, payload)
}
