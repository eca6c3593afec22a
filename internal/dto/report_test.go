package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterMapsEmptyToAbsent(t *testing.T) {
	f := ReportQuery{}.Filter()

	assert.Nil(t, f.StartDate)
	assert.Nil(t, f.EndDate)
	assert.Nil(t, f.Role)
	assert.Nil(t, f.MaintenanceType)
}

func TestFilterParsesDates(t *testing.T) {
	q := ReportQuery{StartDate: "2024-01-01", EndDate: "2024-06-30", Role: "MANAGER"}

	f := q.Filter()

	require.NotNil(t, f.StartDate)
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), *f.StartDate)
	require.NotNil(t, f.EndDate)
	require.NotNil(t, f.Role)
	assert.Equal(t, "MANAGER", *f.Role)
}

func TestSelectedFieldsSplitsAndTrims(t *testing.T) {
	q := ReportQuery{Fields: " placa , marca ,, costo"}

	assert.Equal(t, []string{"placa", "marca", "costo"}, q.SelectedFields())
}

func TestSelectedFieldsEmptyMeansAll(t *testing.T) {
	assert.Nil(t, ReportQuery{}.SelectedFields())
	assert.Nil(t, ReportQuery{Fields: "   "}.SelectedFields())
}
