package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dmorales-dev/fleet-panel-api/internal/models"
	"github.com/dmorales-dev/fleet-panel-api/internal/repository"
	appErrors "github.com/dmorales-dev/fleet-panel-api/pkg/errors"
)

type fakeDriverRepo struct {
	profile    *models.DriverProfile
	profileErr error
	survey     *models.DriverSurvey
	surveyErr  error
}

func (f *fakeDriverRepo) GetProfile(context.Context, string) (*models.DriverProfile, error) {
	return f.profile, f.profileErr
}

func (f *fakeDriverRepo) GetSurvey(context.Context, string) (*models.DriverSurvey, error) {
	return f.survey, f.surveyErr
}

func TestProfileReturnsSurveyWhenPresent(t *testing.T) {
	city := "Bogotá"
	repo := &fakeDriverRepo{
		profile: &models.DriverProfile{ID: "d1", FullName: "Carlos Ruiz", DocumentID: "123"},
		survey:  &models.DriverSurvey{DriverID: "d1", City: &city},
	}
	svc := NewDriverService(repo, zap.NewNop())

	profile, survey, err := svc.Profile(context.Background(), "d1")

	require.NoError(t, err)
	assert.Equal(t, "Carlos Ruiz", profile.FullName)
	require.NotNil(t, survey)
	assert.Equal(t, "Bogotá", *survey.City)
}

func TestProfileAllowsMissingSurvey(t *testing.T) {
	repo := &fakeDriverRepo{profile: &models.DriverProfile{ID: "d1", FullName: "Carlos Ruiz"}}
	svc := NewDriverService(repo, zap.NewNop())

	profile, survey, err := svc.Profile(context.Background(), "d1")

	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Nil(t, survey)
}

func TestProfileMapsMissingDriverToNotFound(t *testing.T) {
	repo := &fakeDriverRepo{profileErr: repository.ErrDriverNotFound}
	svc := NewDriverService(repo, zap.NewNop())

	_, _, err := svc.Profile(context.Background(), "missing")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestProfileWrapsSurveyFailure(t *testing.T) {
	repo := &fakeDriverRepo{
		profile:   &models.DriverProfile{ID: "d1"},
		surveyErr: assert.AnError,
	}
	svc := NewDriverService(repo, zap.NewNop())

	_, _, err := svc.Profile(context.Background(), "d1")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrRetrieval.Code, appErrors.FromError(err).Code)
}
