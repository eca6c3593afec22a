package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmorales-dev/fleet-panel-api/internal/models"
	"github.com/dmorales-dev/fleet-panel-api/internal/service"
	appErrors "github.com/dmorales-dev/fleet-panel-api/pkg/errors"
	"github.com/dmorales-dev/fleet-panel-api/pkg/response"
)

// ProfileProvider resolves a driver's identity and optional survey.
type ProfileProvider interface {
	Profile(ctx context.Context, id string) (*models.DriverProfile, *models.DriverSurvey, error)
}

// DocumentExporter renders the driver profile into a downloadable document.
type DocumentExporter interface {
	DriverProfileDocument(profile models.DriverProfile, survey *models.DriverSurvey) ([]byte, string, error)
}

// DriverHandler exposes the driver profile document endpoint.
type DriverHandler struct {
	drivers ProfileProvider
	exports DocumentExporter
	metrics *service.MetricsService
}

// NewDriverHandler constructs the handler.
func NewDriverHandler(drivers ProfileProvider, exports DocumentExporter, metrics *service.MetricsService) *DriverHandler {
	return &DriverHandler{drivers: drivers, exports: exports, metrics: metrics}
}

// Profile godoc
// @Summary Driver profile document
// @Tags Drivers
// @Produce application/pdf
// @Param id path string true "Driver ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /drivers/{id}/profile [get]
func (h *DriverHandler) Profile(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "driver id required"))
		return
	}

	profile, survey, err := h.drivers.Profile(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	start := time.Now()
	payload, filename, err := h.exports.DriverProfileDocument(*profile, survey)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.ObserveRender("driver_profile", "pdf", len(payload), time.Since(start))

	response.Attachment(c, filename, "application/pdf", payload)
}
