package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/dmorales-dev/fleet-panel-api/internal/models"
	"github.com/dmorales-dev/fleet-panel-api/internal/repository"
	appErrors "github.com/dmorales-dev/fleet-panel-api/pkg/errors"
)

type driverReader interface {
	GetProfile(ctx context.Context, id string) (*models.DriverProfile, error)
	GetSurvey(ctx context.Context, driverID string) (*models.DriverSurvey, error)
}

// DriverService resolves a driver's identity and optional survey for the
// profile document.
type DriverService struct {
	drivers driverReader
	logger  *zap.Logger
}

// NewDriverService constructs the service.
func NewDriverService(drivers driverReader, logger *zap.Logger) *DriverService {
	return &DriverService{drivers: drivers, logger: logger}
}

// Profile returns the identity block and the survey when one exists. A nil
// survey means the driver has not filled in the questionnaire.
func (s *DriverService) Profile(ctx context.Context, id string) (*models.DriverProfile, *models.DriverSurvey, error) {
	profile, err := s.drivers.GetProfile(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrDriverNotFound) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "driver not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrRetrieval.Code, appErrors.ErrRetrieval.Status, "driver retrieval failed")
	}

	survey, err := s.drivers.GetSurvey(ctx, id)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrRetrieval.Code, appErrors.ErrRetrieval.Status, "survey retrieval failed")
	}
	if survey == nil {
		s.logger.Sugar().Debugw("driver has no survey", "driverId", id)
	}
	return profile, survey, nil
}
