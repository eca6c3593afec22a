package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmorales-dev/fleet-panel-api/internal/dto"
	"github.com/dmorales-dev/fleet-panel-api/internal/models"
	appErrors "github.com/dmorales-dev/fleet-panel-api/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("reportkind", dto.ReportKindValidator)
	}
}

type reportServiceMock struct {
	fields   []models.FieldDescriptor
	types    []string
	typesErr error
	stats    *models.GeneralStats
	statsErr error
	lastKind models.ReportKind
}

func (m *reportServiceMock) Fields(kind models.ReportKind) []models.FieldDescriptor {
	m.lastKind = kind
	return m.fields
}

func (m *reportServiceMock) MaintenanceTypes(context.Context) ([]string, error) {
	return m.types, m.typesErr
}

func (m *reportServiceMock) GeneralStatistics(context.Context) (*models.GeneralStats, error) {
	return m.stats, m.statsErr
}

type exportServiceMock struct {
	payload    []byte
	filename   string
	err        error
	lastKind   models.ReportKind
	lastFields []string
}

func (m *exportServiceMock) ReportWorkbook(_ context.Context, kind models.ReportKind, _ models.ReportFilter, selected []string) ([]byte, string, error) {
	m.lastKind = kind
	m.lastFields = selected
	return m.payload, m.filename, m.err
}

func newGinContext(method, path string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, nil)
	c.Request = req
	return c, w
}

func TestFieldsReturnsCatalog(t *testing.T) {
	mockSvc := &reportServiceMock{fields: []models.FieldDescriptor{{Key: "placa", Label: "Placa"}}}
	handler := NewReportHandler(mockSvc, &exportServiceMock{}, nil)

	c, w := newGinContext(http.MethodGet, "/reports/fields?type=vehicles")
	handler.Fields(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ReportKindVehicles, mockSvc.lastKind)
	assert.Contains(t, w.Body.String(), `"placa"`)
}

func TestFieldsRejectsUnknownKind(t *testing.T) {
	handler := NewReportHandler(&reportServiceMock{}, &exportServiceMock{}, nil)

	c, w := newGinContext(http.MethodGet, "/reports/fields?type=payrolls")
	handler.Fields(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), appErrors.ErrValidation.Code)
}

func TestFieldsRequiresKind(t *testing.T) {
	handler := NewReportHandler(&reportServiceMock{}, &exportServiceMock{}, nil)

	c, w := newGinContext(http.MethodGet, "/reports/fields")
	handler.Fields(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMaintenanceTypes(t *testing.T) {
	mockSvc := &reportServiceMock{types: []string{"Preventivo"}}
	handler := NewReportHandler(mockSvc, &exportServiceMock{}, nil)

	c, w := newGinContext(http.MethodGet, "/reports/maintenance-types")
	handler.MaintenanceTypes(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Preventivo")
}

func TestStatsFailurePropagates(t *testing.T) {
	mockSvc := &reportServiceMock{statsErr: appErrors.ErrRetrieval}
	handler := NewReportHandler(mockSvc, &exportServiceMock{}, nil)

	c, w := newGinContext(http.MethodGet, "/reports/stats")
	handler.Stats(c)

	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestExportStreamsAttachment(t *testing.T) {
	mockExport := &exportServiceMock{payload: []byte("workbook"), filename: "Report_vehicles_2024-03-15.xlsx"}
	handler := NewReportHandler(&reportServiceMock{}, mockExport, nil)

	c, w := newGinContext(http.MethodGet, "/reports/vehicles/export?fields=placa,marca")
	c.Params = gin.Params{{Key: "kind", Value: "vehicles"}}
	handler.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, workbookContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Report_vehicles_2024-03-15.xlsx")
	assert.Equal(t, "workbook", w.Body.String())
	assert.Equal(t, models.ReportKindVehicles, mockExport.lastKind)
	assert.Equal(t, []string{"placa", "marca"}, mockExport.lastFields)
}

func TestExportValidationFailureBeforeBytes(t *testing.T) {
	mockExport := &exportServiceMock{err: appErrors.Clone(appErrors.ErrValidation, "startDate must not be after endDate")}
	handler := NewReportHandler(&reportServiceMock{}, mockExport, nil)

	c, w := newGinContext(http.MethodGet, "/reports/vehicles/export")
	c.Params = gin.Params{{Key: "kind", Value: "vehicles"}}
	handler.Export(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.Empty(t, w.Header().Get("Content-Disposition"))
}

func TestExportRejectsMalformedDates(t *testing.T) {
	mockExport := &exportServiceMock{}
	handler := NewReportHandler(&reportServiceMock{}, mockExport, nil)

	c, w := newGinContext(http.MethodGet, "/reports/vehicles/export?startDate=15-03-2024")
	c.Params = gin.Params{{Key: "kind", Value: "vehicles"}}
	handler.Export(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, mockExport.lastKind, "binding failure must precede the service call")
}
