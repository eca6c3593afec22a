package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmorales-dev/fleet-panel-api/internal/models"
)

func newReportRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func maintenanceFields() []models.FieldDescriptor {
	return []models.FieldDescriptor{
		{Key: "placa", Expr: "v.placa"},
		{Key: "costo", Expr: "m.costo"},
		{Key: "fecha", Expr: "m.fecha"},
	}
}

func TestQuerySelectsCatalogExpressions(t *testing.T) {
	db, mock, cleanup := newReportRepoMock(t)
	defer cleanup()

	repo := NewReportRepository(db)
	when := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"placa", "costo", "fecha"}).
		AddRow([]byte("ABC123"), 150.5, when).
		AddRow([]byte("DEF456"), nil, when)
	mock.ExpectQuery(`SELECT v\.placa AS "placa", m\.costo AS "costo", m\.fecha AS "fecha"`).
		WillReturnRows(rows)

	result, err := repo.Query(context.Background(), models.ReportKindMaintenances, maintenanceFields(), models.ReportFilter{})

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, []string{"placa", "costo", "fecha"}, result[0].Keys())
	plate, _ := result[0].Get("placa")
	assert.Equal(t, "ABC123", plate, "byte columns normalise to strings")
	cost, _ := result[0].Get("costo")
	assert.Equal(t, 150.5, cost)
	missing, ok := result[1].Get("costo")
	assert.True(t, ok)
	assert.Nil(t, missing)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryAppliesFiltersAsArguments(t *testing.T) {
	db, mock, cleanup := newReportRepoMock(t)
	defer cleanup()

	repo := NewReportRepository(db)
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)
	mtype := "Preventivo"
	mock.ExpectQuery(`WHERE m\.fecha >= \$1 AND m\.fecha <= \$2 AND m\.tipo_mantenimiento = \$3`).
		WithArgs(start, end, mtype).
		WillReturnRows(sqlmock.NewRows([]string{"placa", "costo", "fecha"}))

	filter := models.ReportFilter{StartDate: &start, EndDate: &end, MaintenanceType: &mtype}
	result, err := repo.Query(context.Background(), models.ReportKindMaintenances, maintenanceFields(), filter)

	require.NoError(t, err)
	assert.Empty(t, result)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryIgnoresInapplicableFilters(t *testing.T) {
	db, mock, cleanup := newReportRepoMock(t)
	defer cleanup()

	repo := NewReportRepository(db)
	role := "MANAGER"
	// Vehicles have no role column; the filter must not reach the SQL.
	mock.ExpectQuery(`FROM vehiculos v\s+ORDER BY v\.placa`).
		WillReturnRows(sqlmock.NewRows([]string{"placa"}))

	fields := []models.FieldDescriptor{{Key: "placa", Expr: "v.placa"}}
	_, err := repo.Query(context.Background(), models.ReportKindVehicles, fields, models.ReportFilter{Role: &role})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryRejectsUnknownKind(t *testing.T) {
	db, _, cleanup := newReportRepoMock(t)
	defer cleanup()

	repo := NewReportRepository(db)
	_, err := repo.Query(context.Background(), "payrolls", maintenanceFields(), models.ReportFilter{})

	require.Error(t, err)
}

func TestMaintenanceTypes(t *testing.T) {
	db, mock, cleanup := newReportRepoMock(t)
	defer cleanup()

	repo := NewReportRepository(db)
	mock.ExpectQuery(`SELECT DISTINCT tipo_mantenimiento FROM mantenimientos`).
		WillReturnRows(sqlmock.NewRows([]string{"tipo_mantenimiento"}).
			AddRow("Correctivo").
			AddRow("Preventivo"))

	types, err := repo.MaintenanceTypes(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"Correctivo", "Preventivo"}, types)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFleetTotals(t *testing.T) {
	db, mock, cleanup := newReportRepoMock(t)
	defer cleanup()

	repo := NewReportRepository(db)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM vehiculos`).
		WillReturnRows(sqlmock.NewRows([]string{"total_vehiculos", "total_usuarios", "total_mantenimientos", "total_conductores", "costo_mantenimientos"}).
			AddRow(10, 25, 40, 8, 12500.75))

	totals, err := repo.FleetTotals(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 10, totals.TotalVehicles)
	assert.Equal(t, 12500.75, totals.MaintenanceCost)
	require.NoError(t, mock.ExpectationsWereMet())
}
