package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/dmorales-dev/fleet-panel-api/internal/models"
)

func openWorkbook(t *testing.T, payload []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() }) //nolint:errcheck
	return f
}

func maintenanceResult() *models.ReportResult {
	row := models.NewRow(3)
	row.Set("placa", "ABC123")
	row.Set("fechaSoat", time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC))
	row.Set("costoTotal", 150.5)

	second := models.NewRow(3)
	second.Set("placa", "DEF456")
	second.Set("fechaSoat", nil)
	second.Set("costoTotal", 99.0)

	return &models.ReportResult{
		Kind:         models.ReportKindVehiclesMaintenance,
		Title:        "Reporte de Vehículos y Mantenimientos",
		Rows:         []models.Row{row, second},
		GeneratedAt:  time.Date(2024, time.March, 15, 14, 5, 0, 0, time.UTC),
		TotalRecords: 2,
		Statistics: []models.Stat{
			{Key: "totalCost", Value: 249.5},
		},
	}
}

func TestRenderProducesBothSheets(t *testing.T) {
	exporter := NewExcelExporter(DefaultStyle())

	payload, err := exporter.Render(maintenanceResult())

	require.NoError(t, err)
	f := openWorkbook(t, payload)
	assert.Equal(t, []string{"Reporte", "Información"}, f.GetSheetList())
}

func TestRenderWritesLabeledHeadersAndValues(t *testing.T) {
	exporter := NewExcelExporter(DefaultStyle())

	payload, err := exporter.Render(maintenanceResult())
	require.NoError(t, err)
	f := openWorkbook(t, payload)

	for cell, want := range map[string]string{
		"A1": "Placa",
		"B1": "Fecha SOAT",
		"C1": "Costo Total",
		"A2": "ABC123",
		"A3": "DEF456",
	} {
		got, err := f.GetCellValue("Reporte", cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, cell)
	}

	// The empty date cell must stay empty rather than render a zero value.
	got, err := f.GetCellValue("Reporte", "B3")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRenderDateValueInCurrencyColumn(t *testing.T) {
	row := models.NewRow(1)
	row.Set("totalFecha", "2024-03-15")
	result := &models.ReportResult{
		Kind:         models.ReportKindVehicles,
		Title:        "Reporte de Vehículos",
		Rows:         []models.Row{row},
		GeneratedAt:  time.Date(2024, time.March, 15, 14, 5, 0, 0, time.UTC),
		TotalRecords: 1,
	}
	exporter := NewExcelExporter(DefaultStyle())

	payload, err := exporter.Render(result)
	require.NoError(t, err)
	f := openWorkbook(t, payload)

	// The key carries a currency token but the value is a date; the date
	// format must win because the currency format only applies to numbers.
	got, err := f.GetCellValue("Reporte", "A2")
	require.NoError(t, err)
	assert.Equal(t, "15/03/2024", got)
}

func TestRenderEmptyResultWritesNotice(t *testing.T) {
	exporter := NewExcelExporter(DefaultStyle())
	result := &models.ReportResult{
		Kind:        models.ReportKindVehicles,
		Title:       "Reporte de Vehículos",
		GeneratedAt: time.Now(),
	}

	payload, err := exporter.Render(result)
	require.NoError(t, err)
	f := openWorkbook(t, payload)

	got, err := f.GetCellValue("Reporte", "A1")
	require.NoError(t, err)
	assert.Equal(t, noDataMessage, got)

	title, err := f.GetCellValue("Información", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Reporte de Vehículos", title)
}

func TestRenderInfoSheetLayout(t *testing.T) {
	exporter := NewExcelExporter(DefaultStyle())
	result := maintenanceResult()
	role := "MANAGER"
	result.AppliedFilter = models.ReportFilter{Role: &role}

	payload, err := exporter.Render(result)
	require.NoError(t, err)
	f := openWorkbook(t, payload)

	for cell, want := range map[string]string{
		"A1":  "Reporte de Vehículos y Mantenimientos",
		"A3":  "Tipo de reporte",
		"B3":  "vehicles_maintenance",
		"A4":  "Generado",
		"B4":  "15 de marzo de 2024, 14:05",
		"A5":  "Total de registros",
		"B5":  "2",
		"A7":  "Filtros aplicados",
		"A8":  "Rol",
		"B8":  "MANAGER",
		"A10": "Estadísticas",
		"A11": "Total Cost",
		"B11": "249.5",
	} {
		got, err := f.GetCellValue("Información", cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, cell)
	}
}

func TestRenderNilResult(t *testing.T) {
	exporter := NewExcelExporter(DefaultStyle())

	_, err := exporter.Render(nil)

	require.Error(t, err)
}

func TestParseDateValue(t *testing.T) {
	when := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

	got, ok := parseDateValue(when)
	require.True(t, ok)
	assert.Equal(t, when, got)

	got, ok = parseDateValue("2024-03-15")
	require.True(t, ok)
	assert.Equal(t, when, got)

	_, ok = parseDateValue("ABC123")
	assert.False(t, ok)

	_, ok = parseDateValue(150.5)
	assert.False(t, ok)

	_, ok = parseDateValue("15/2024")
	assert.False(t, ok, "short strings never parse as dates")
}

func TestIsCurrencyKey(t *testing.T) {
	assert.True(t, isCurrencyKey("costo"))
	assert.True(t, isCurrencyKey("costoTotal"))
	assert.True(t, isCurrencyKey("totalMantenimientos"))
	assert.False(t, isCurrencyKey("placa"))
}

func TestFormatStatValue(t *testing.T) {
	assert.Equal(t, "50", FormatStatValue(models.Stat{Key: "avgCost", Value: 50}))
	assert.Equal(t, "50.00", FormatStatValue(models.Stat{Key: "percentageWithLicense", Value: 50}))
	assert.Equal(t, "249.5", FormatStatValue(models.Stat{Key: "totalCost", Value: 249.5}))
}

func TestFormatSpanishDateTime(t *testing.T) {
	got := formatSpanishDateTime(time.Date(2024, time.December, 3, 9, 7, 0, 0, time.UTC))
	assert.Equal(t, "03 de diciembre de 2024, 09:07", got)
}
